package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

type message struct {
	Message string `json:"message"`
}

func chainCmd(newClient func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Print the chain held by the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var status state.ChainStatus
			if err := newClient().get("/get_chain", &status); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Depth: %d\n\n", status.Depth)
			printBlocks(cmd.OutOrStdout(), status.Chain)

			return nil
		},
	}

	return cmd
}

func validateCmd(newClient func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Ask the node to validate its chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var msg message
			if err := newClient().get("/is_valid", &msg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
			return nil
		},
	}

	return cmd
}

func resolveCmd(newClient func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Replace the node chain with the longest chain among its peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Message string               `json:"message"`
				Chain   []database.BlockData `json:"chain"`
			}
			if err := newClient().get("/replace_chain", &resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "Depth: %d\n", len(resp.Chain))
			return nil
		},
	}

	return cmd
}

func printBlocks(w io.Writer, blocks []database.BlockData) {
	for _, blk := range blocks {
		fmt.Fprintf(w, "Block: %d  Proof: %d  Time: %s\n", blk.Index, blk.Proof, blk.Timestamp)
		fmt.Fprintf(w, "  Prev: %s\n", blk.PreviousHash)
		fmt.Fprintf(w, "  Hash: %s\n", blk.Hash)
		for _, tx := range blk.Transactions {
			fmt.Fprintf(w, "  Tx: %s\n", tx)
		}
	}
}
