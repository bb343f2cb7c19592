// Package transport is the thin collaborator boundary §1 assumes: "connect,
// channel, publish, consume, confirm, return" over an AMQP 0-9-1 broker.
// the root rascal package talks only to this interface; the real implementation
// wraps github.com/rabbitmq/amqp091-go, and a recording Fake stands in for
// tests that should not require a live broker.
package transport

import (
	"context"
	"time"
)

// Message is the wire-level envelope passed to Publish and returned from
// Consume, independent of the amqp091-go type so tests can construct one
// without a real connection.
type Message struct {
	MessageID       string
	ContentType     string
	ContentEncoding string
	Headers         map[string]any
	Body            []byte
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	Timestamp       time.Time
	Type            string
	AppID           string

	// Consume-only fields
	Exchange    string
	RoutingKey  string
	Redelivered bool

	// Queue is stamped by the consuming Session from its subscription's
	// source queue (topology.SubscriptionConfig.Source, already
	// namespace-qualified) — the transport layer itself has no notion
	// of which queue a delivery came from beyond the Consume call.
	Queue string
}

// AckFunc/NackFunc let a Session acknowledge or reject a delivered message.
type AckFunc func() error
type NackFunc func(requeue bool) error

// Delivery pairs a consumed Message with its ack/nack handles.
type Delivery struct {
	Message Message
	Ack     AckFunc
	Nack    NackFunc
}

// Connection is a single AMQP connection, matching one topology
// ConnectionConfig entry.
type Connection interface {
	Channel() (Channel, error)
	Close() error
	IsClosed() bool
}

// Channel is everything a vhost's runtime needs: topology declaration,
// publish (with optional confirm), and consume.
type Channel interface {
	DeclareExchange(name, kind string, durable bool, args map[string]any) error
	DeclareQueue(name string, durable bool, args map[string]any) error
	Bind(queue, exchange, routingKey string, args map[string]any) error
	Confirm() error

	// Publish sends a message and returns immediately; success/failure is
	// reported asynchronously through the notify channels below when the
	// channel is in confirm mode.
	Publish(ctx context.Context, exchange, routingKey string, mandatory bool, msg Message) error
	NotifyPublish() <-chan Confirmation
	NotifyReturn() <-chan Message

	Consume(ctx context.Context, queue, consumerTag string, autoAck bool) (<-chan Delivery, error)
	Cancel(consumerTag string) error

	Close() error
}

// Confirmation reports a publisher-confirm ack/nack for a delivery tag.
type Confirmation struct {
	DeliveryTag uint64
	Ack         bool
}

// Dialer opens a Connection given a recomposed AMQP URL (§4.1.2.3).
type Dialer interface {
	Dial(ctx context.Context, url string) (Connection, error)
}
