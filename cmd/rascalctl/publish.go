package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrelcunha/rascal-go"
)

func newPublishCmd() *cobra.Command {
	var routingKey string
	cmd := &cobra.Command{
		Use:   "publish <topology.yaml> <publication> <message>",
		Short: "Publish a single message through a configured publication",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			cfg, err := rascal.LoadConfig(data)
			if err != nil {
				return err
			}
			b, err := rascal.Create(cfg, rascal.Components{})
			if err != nil {
				return err
			}
			defer b.Shutdown()

			handle, err := b.Publish(context.Background(), args[1], args[2], rascal.PublishOverrides{RoutingKey: routingKey})
			if err != nil {
				return err
			}
			select {
			case id := <-handle.Success:
				fmt.Printf("published messageId=%s duration=%s\n", id, handle.Stats.Duration)
			case err := <-handle.Err:
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&routingKey, "routing-key", "", "override the publication's routing key")
	return cmd
}
