package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func sendCmd(newClient func() *client) *cobra.Command {
	var (
		sender   string
		receiver string
		amount   float64
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Add a transaction to the node mempool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"sender":   sender,
				"receiver": receiver,
				"amount":   amount,
			}

			var msg message
			if err := newClient().post("/add_transaction", body, &msg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the transaction.")
	cmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Receiver of the transaction.")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	cmd.MarkFlagRequired("sender")
	cmd.MarkFlagRequired("receiver")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func mineCmd(newClient func() *client) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine one or more blocks on the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.Errorf("count must be at least 1, got %d", count)
			}

			c := newClient()
			bar := progressbar.NewOptions(count,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("mining"),
				progressbar.OptionShowCount(),
			)

			var last struct {
				Index uint64 `json:"index"`
				Hash  string `json:"hash"`
			}
			for i := range count {
				if err := c.get("/mine_block", &last); err != nil {
					return errors.Wrapf(err, "mining block %d of %d", i+1, count)
				}
				bar.Add(1)
			}
			bar.Finish()

			fmt.Fprintf(cmd.OutOrStdout(), "\nMined up to block %d: %s\n", last.Index, last.Hash)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 1, "Number of blocks to mine.")

	return cmd
}

func peersCmd(newClient func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "Manage the peers known to the node",
	}

	add := &cobra.Command{
		Use:   "add ADDRESS...",
		Short: "Register peers with the node",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"nodes": args,
			}

			var resp struct {
				Message    string   `json:"message"`
				TotalNodes []string `json:"total_nodes"`
			}
			if err := newClient().post("/connect_node", body, &resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			for _, host := range resp.TotalNodes {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", host)
			}
			return nil
		},
	}

	cmd.AddCommand(add)

	return cmd
}
