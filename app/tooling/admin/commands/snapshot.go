package commands

import (
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/disk"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Work with snapshot files written by a node",
	}

	var (
		difficulty uint
		blocks     bool
	)

	inspect := &cobra.Command{
		Use:   "inspect PATH",
		Short: "Print and validate the chain held in a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "opening snapshot")
			}
			defer f.Close()

			chain, err := disk.Decode(f)
			if err != nil {
				return errors.Wrap(err, "decoding snapshot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Depth: %d\n", len(chain))

			if blocks {
				printBlocks(out, database.NewChainData(chain))
			}

			if err := database.ValidateChain(chain, difficulty); err != nil {
				fmt.Fprintf(out, "The Blockchain is not valid: %s\n", err)
				return nil
			}
			fmt.Fprintln(out, "The Blockchain is valid.")

			return nil
		},
	}

	inspect.Flags().UintVarP(&difficulty, "difficulty", "d", database.DefaultDifficulty, "Difficulty the chain was mined with.")
	inspect.Flags().BoolVarP(&blocks, "blocks", "b", false, "Print every block.")

	cmd.AddCommand(inspect)

	return cmd
}
