package rascal

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andrelcunha/rascal-go/internal/transport"
)

// RunShovels starts every configured shovel (§4.1.5, SPEC_FULL.md §3.A):
// each wires its subscription's deliveries into its publication's
// forward(), the same contract an application calling forward() by hand
// would get. Returns once every shovel's initial subscribe succeeds;
// forwarding itself runs in background goroutines until ctx is done or
// Shutdown/UnsubscribeAll cancels the underlying sessions.
func (b *Broker) RunShovels(ctx context.Context) error {
	for name, shovel := range b.config.Shovels {
		session, err := b.Subscribe(ctx, shovel.Subscription, SubscribeOverrides{})
		if err != nil {
			return newOperationalError("shovel %s: %v", name, err)
		}
		go b.runShovel(ctx, name, shovel.Publication, session)
	}
	return nil
}

func (b *Broker) runShovel(ctx context.Context, name, publication string, session *Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-session.Cancelled:
			return
		case msg, ok := <-session.Messages:
			if !ok {
				return
			}
			handle, err := b.Forward(ctx, publication, transport.Delivery{Message: msg.Message}, PublishOverrides{})
			if err != nil {
				log.Error().Str("shovel", name).Err(err).Msg("forward failed")
				msg.Nack(true)
				continue
			}
			select {
			case <-handle.Success:
				msg.Ack()
			case err := <-handle.Err:
				log.Error().Str("shovel", name).Err(err).Msg("forward publication failed")
				msg.Nack(true)
			}
		}
	}
}
