package transport

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPDialer dials real brokers via github.com/rabbitmq/amqp091-go, the
// collaborator library §1 names explicitly.
type AMQPDialer struct{}

func (AMQPDialer) Dial(ctx context.Context, url string) (Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{})
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &amqpConnection{conn: conn}, nil
}

type amqpConnection struct {
	conn *amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return &amqpChannel{ch: ch}, nil
}

func (c *amqpConnection) Close() error   { return c.conn.Close() }
func (c *amqpConnection) IsClosed() bool { return c.conn.IsClosed() }

type amqpChannel struct {
	ch *amqp.Channel
}

func (c *amqpChannel) DeclareExchange(name, kind string, durable bool, args map[string]any) error {
	if name == "" {
		return nil // the default exchange always exists
	}
	return c.ch.ExchangeDeclare(name, kind, durable, false, false, false, amqp.Table(args))
}

func (c *amqpChannel) DeclareQueue(name string, durable bool, args map[string]any) error {
	_, err := c.ch.QueueDeclare(name, durable, false, false, false, amqp.Table(args))
	return err
}

func (c *amqpChannel) Bind(queue, exchange, routingKey string, args map[string]any) error {
	return c.ch.QueueBind(queue, routingKey, exchange, false, amqp.Table(args))
}

func (c *amqpChannel) Confirm() error {
	return c.ch.Confirm(false)
}

func (c *amqpChannel) Publish(ctx context.Context, exchange, routingKey string, mandatory bool, msg Message) error {
	return c.ch.PublishWithContext(ctx, exchange, routingKey, mandatory, false, amqp.Publishing{
		Headers:         amqp.Table(msg.Headers),
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		DeliveryMode:    msg.DeliveryMode,
		Priority:        msg.Priority,
		CorrelationId:   msg.CorrelationID,
		ReplyTo:         msg.ReplyTo,
		Expiration:      msg.Expiration,
		MessageId:       msg.MessageID,
		Timestamp:       msg.Timestamp,
		Type:            msg.Type,
		AppId:           msg.AppID,
		Body:            msg.Body,
	})
}

func (c *amqpChannel) NotifyPublish() <-chan Confirmation {
	src := c.ch.NotifyPublish(make(chan amqp.Confirmation, 16))
	out := make(chan Confirmation, 16)
	go func() {
		defer close(out)
		for conf := range src {
			out <- Confirmation{DeliveryTag: conf.DeliveryTag, Ack: conf.Ack}
		}
	}()
	return out
}

func (c *amqpChannel) NotifyReturn() <-chan Message {
	src := c.ch.NotifyReturn(make(chan amqp.Return, 16))
	out := make(chan Message, 16)
	go func() {
		defer close(out)
		for ret := range src {
			out <- Message{
				MessageID:   ret.MessageId,
				ContentType: ret.ContentType,
				Headers:     map[string]any(ret.Headers),
				Body:        ret.Body,
				Exchange:    ret.Exchange,
				RoutingKey:  ret.RoutingKey,
			}
		}
	}()
	return out
}

func (c *amqpChannel) Consume(ctx context.Context, queue, consumerTag string, autoAck bool) (<-chan Delivery, error) {
	deliveries, err := c.ch.ConsumeWithContext(ctx, queue, consumerTag, autoAck, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	out := make(chan Delivery, 16)
	go func() {
		defer close(out)
		for d := range deliveries {
			d := d
			out <- Delivery{
				Message: Message{
					MessageID:       d.MessageId,
					ContentType:     d.ContentType,
					ContentEncoding: d.ContentEncoding,
					Headers:         map[string]any(d.Headers),
					Body:            d.Body,
					DeliveryMode:    d.DeliveryMode,
					Priority:        d.Priority,
					CorrelationID:   d.CorrelationId,
					ReplyTo:         d.ReplyTo,
					Expiration:      d.Expiration,
					Timestamp:       d.Timestamp,
					Type:            d.Type,
					AppID:           d.AppId,
					Exchange:        d.Exchange,
					RoutingKey:      d.RoutingKey,
					Redelivered:     d.Redelivered,
				},
				Ack:  func() error { return d.Ack(false) },
				Nack: func(requeue bool) error { return d.Nack(false, requeue) },
			}
		}
	}()
	return out, nil
}

func (c *amqpChannel) Cancel(consumerTag string) error {
	return c.ch.Cancel(consumerTag, false)
}

func (c *amqpChannel) Close() error {
	return c.ch.Close()
}
