package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrelcunha/rascal-go"
)

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <topology.yaml> <subscription>",
		Short: "Subscribe and print delivered messages until interrupted",
		Args:  cobra.ExactArgs(2),
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

			session, err := b.Subscribe(context.Background(), args[1], rascal.SubscribeOverrides{})
			if err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			for {
				select {
				case msg := <-session.Messages:
					fmt.Printf("message id=%s contentType=%s body=%s\n", msg.Message.MessageID, msg.Message.ContentType, msg.Content)
					msg.Ack()
				case err := <-session.Errors:
					fmt.Fprintln(os.Stderr, err)
				case <-stop:
					return nil
				}
			}
		},
	}
}
