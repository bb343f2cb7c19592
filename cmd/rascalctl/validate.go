package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrelcunha/rascal-go"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <topology.yaml>",
		Short: "Run the Configurator and Validator over a topology file and print a count of the resolved vhosts, publications and subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			cfg, err := rascal.LoadConfig(data)
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d vhost(s), %d publication(s), %d subscription(s)\n",
				len(cfg.Vhosts), len(cfg.Publications), len(cfg.Subscriptions))
			return nil
		},
	}
}
