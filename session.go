package rascal

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andrelcunha/rascal-go/internal/counters"
	"github.com/andrelcunha/rascal-go/internal/encryption"
	"github.com/andrelcunha/rascal-go/internal/transport"
	"github.com/andrelcunha/rascal-go/topology"
)

// defaultDeferClose is the deferral window a Session reports to
// unsubscribeAll (§4.4): time given to an in-flight channel close
// before the broker considers teardown complete.
const defaultDeferClose = 300 * time.Millisecond

// SessionMessage is the (message, content, ackOrNack) triple §4.4 and
// §6's event surface describe: Content is the plaintext body (already
// decrypted, if the subscription carries an encryption profile set),
// Ack/Nack are the application's two ways to resolve a delivery.
type SessionMessage struct {
	Message transport.Message
	Content []byte
	Ack     func() error
	Nack    func(requeue bool) error
}

// Session is created per successful subscribe (§4.4). It owns a
// consumer channel and fans deliveries out as SessionMessages; cancel
// is idempotent and safe to call concurrently with delivery.
type Session struct {
	config  *topology.SubscriptionConfig
	channel transport.Channel
	counter counters.Counter
	profiles map[string]*topology.EncryptionProfile

	Messages  chan SessionMessage
	Errors    chan error
	Cancelled chan struct{}

	maxDeferClose time.Duration

	cancelOnce sync.Once
	done       chan struct{}
}

func newSession(sub *topology.SubscriptionConfig, ch transport.Channel, deliveries <-chan transport.Delivery, counter counters.Counter, profiles map[string]*topology.EncryptionProfile) *Session {
	s := &Session{
		config:        sub,
		channel:       ch,
		counter:       counter,
		profiles:      profiles,
		Messages:      make(chan SessionMessage, 16),
		Errors:        make(chan error, 4),
		Cancelled:     make(chan struct{}),
		maxDeferClose: defaultDeferClose,
		done:          make(chan struct{}),
	}
	s.consumeLoop(deliveries)
	return s
}

func (s *Session) consumeLoop(deliveries <-chan transport.Delivery) {
	go func() {
		for d := range deliveries {
			msg, err := s.decode(d)
			if err != nil {
				select {
				case s.Errors <- err:
				default:
				}
				continue
			}
			select {
			case s.Messages <- msg:
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Session) decode(d transport.Delivery) (SessionMessage, error) {
	if s.config.Source != "" {
		d.Message.Queue = s.config.Source
	}
	content := d.Message.Body
	if len(s.profiles) > 0 {
		if _, hasHeader := d.Message.Headers[encryption.HeaderName]; hasHeader {
			_, plaintext, err := encryption.Decrypt(s.profiles, d.Message.Headers, d.Message.Body)
			if err != nil {
				return SessionMessage{}, newOperationalError("subscription %s: decrypting message: %v", s.config.Name, err)
			}
			content = plaintext
		}
	}

	if d.Message.Redelivered && s.counter != nil {
		if _, err := s.counter.Incr(context.Background(), d.Message.MessageID); err != nil {
			log.Warn().Str("subscription", s.config.Name).Err(err).Msg("redelivery counter increment failed")
		}
	}

	counter := s.counter
	messageID := d.Message.MessageID
	return SessionMessage{
		Message: d.Message,
		Content: content,
		Ack: func() error {
			if counter != nil {
				counter.Clear(context.Background(), messageID)
			}
			return d.Ack()
		},
		Nack: d.Nack,
	}, nil
}

// start ties the session to ctx: once ctx is done the session is
// cancelled. The consumer goroutine was already started by newSession.
func (s *Session) start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.cancel()
	}()
}

// cancel is idempotent and safe during delivery (§4.4): it cancels the
// underlying consumer, stops the decode loop, and closes Cancelled
// exactly once.
func (s *Session) cancel() {
	s.cancelOnce.Do(func() {
		close(s.done)
		if err := s.channel.Cancel(s.config.Name); err != nil {
			log.Warn().Str("subscription", s.config.Name).Err(err).Msg("cancel failed")
		}
		close(s.Cancelled)
	})
}
