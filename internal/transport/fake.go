package transport

import (
	"context"
	"sync"
)

// Fake is an in-memory Dialer/Connection/Channel used by tests that
// exercise the root rascal package's publish/subscribe/forward logic without a
// live broker. It records every call so a test can assert on it, and
// supports a minimal single-process direct-exchange routing model:
// Publish to an exchange/routingKey delivers to any queue bound with a
// matching routingKey (or the empty routingKey, matching everything).
type Fake struct {
	mu sync.Mutex

	Published []FakePublish
	Declared  []string
	Bindings  []FakeBinding

	queues  map[string]chan Delivery
	confirm chan Confirmation
	tag     uint64
}

type FakePublish struct {
	Exchange   string
	RoutingKey string
	Message    Message
}

type FakeBinding struct {
	Queue      string
	Exchange   string
	RoutingKey string
}

// NewFake returns a ready-to-use Fake dialer/connection/channel.
func NewFake() *Fake {
	return &Fake{queues: map[string]chan Delivery{}, confirm: make(chan Confirmation, 256)}
}

func (f *Fake) Dial(_ context.Context, _ string) (Connection, error) {
	return f, nil
}

func (f *Fake) Channel() (Channel, error) { return f, nil }
func (f *Fake) Close() error              { return nil }
func (f *Fake) IsClosed() bool            { return false }

func (f *Fake) DeclareExchange(name, _ string, _ bool, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Declared = append(f.Declared, "exchange:"+name)
	return nil
}

func (f *Fake) DeclareQueue(name string, _ bool, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Declared = append(f.Declared, "queue:"+name)
	if _, ok := f.queues[name]; !ok {
		f.queues[name] = make(chan Delivery, 64)
	}
	return nil
}

func (f *Fake) Bind(queue, exchange, routingKey string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Bindings = append(f.Bindings, FakeBinding{Queue: queue, Exchange: exchange, RoutingKey: routingKey})
	return nil
}

func (f *Fake) Confirm() error { return nil }

func (f *Fake) Publish(_ context.Context, exchange, routingKey string, _ bool, msg Message) error {
	f.mu.Lock()
	f.Published = append(f.Published, FakePublish{Exchange: exchange, RoutingKey: routingKey, Message: msg})
	bindings := append([]FakeBinding{}, f.Bindings...)
	queues := f.queues
	f.tag++
	tag := f.tag
	f.mu.Unlock()

	select {
	case f.confirm <- Confirmation{DeliveryTag: tag, Ack: true}:
	default:
	}

	msg.Exchange = exchange
	msg.RoutingKey = routingKey
	for _, b := range bindings {
		if b.Exchange != exchange {
			continue
		}
		if b.RoutingKey != "" && b.RoutingKey != routingKey {
			continue
		}
		if q, ok := queues[b.Queue]; ok {
			select {
			case q <- Delivery{Message: msg, Ack: func() error { return nil }, Nack: func(bool) error { return nil }}:
			default:
			}
		}
	}
	return nil
}

func (f *Fake) NotifyPublish() <-chan Confirmation {
	return f.confirm
}

func (f *Fake) NotifyReturn() <-chan Message {
	ch := make(chan Message)
	close(ch)
	return ch
}

func (f *Fake) Consume(_ context.Context, queue, _ string, _ bool) (<-chan Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[queue]
	if !ok {
		q = make(chan Delivery, 64)
		f.queues[queue] = q
	}
	return q, nil
}

func (f *Fake) Cancel(_ string) error { return nil }
