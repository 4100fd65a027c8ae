// Package commands contains the admin commands.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd constructs the admin command tree. Flags can also be set with
// ADMIN_ prefixed environment variables or an admin config file.
func NewRootCmd(build string) (*cobra.Command, error) {
	v := viper.New()

	root := &cobra.Command{
		Use:     "admin",
		Short:   "Administer a ledger node",
		Version: build,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return err
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringP("url", "u", "http://localhost:5001", "Url of the node.")
	root.PersistentFlags().Duration("timeout", 2*time.Minute, "Timeout for each request to the node.")
	if err := v.BindPFlags(root.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	root.SilenceUsage = true
	root.SilenceErrors = true

	v.SetConfigName("admin")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.ledger")

	v.SetEnvPrefix("admin")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	newClient := func() *client {
		return newNodeClient(v.GetString("url"), v.GetDuration("timeout"))
	}

	root.AddCommand(
		chainCmd(newClient),
		validateCmd(newClient),
		sendCmd(newClient),
		mineCmd(newClient),
		peersCmd(newClient),
		resolveCmd(newClient),
		snapshotCmd(),
	)

	return root, nil
}
