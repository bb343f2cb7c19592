package rascal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrelcunha/rascal-go/internal/encryption"
	"github.com/andrelcunha/rascal-go/internal/transport"
	"github.com/andrelcunha/rascal-go/topology"
)

func TestSessionDecodePlaintext(t *testing.T) {
	sub := &topology.SubscriptionConfig{Name: "s1"}
	deliveries := make(chan transport.Delivery, 1)
	s := newSession(sub, transport.NewFake(), deliveries, nil, nil)

	acked := false
	deliveries <- transport.Delivery{
		Message: transport.Message{Body: []byte("hello"), ContentType: "text/plain"},
		Ack:     func() error { acked = true; return nil },
		Nack:    func(bool) error { return nil },
	}
	close(deliveries)

	msg := <-s.Messages
	assert.Equal(t, "hello", string(msg.Content))
	require.NoError(t, msg.Ack())
	assert.True(t, acked)
}

func TestSessionDecodeEncrypted(t *testing.T) {
	profile := &topology.EncryptionProfile{Name: "p1", Key: "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20", Algorithm: "aes-256-cbc"}
	ciphertext, headers, err := encryption.Encrypt(profile, "text/plain", []byte("secret"))
	require.NoError(t, err)

	sub := &topology.SubscriptionConfig{Name: "s1"}
	deliveries := make(chan transport.Delivery, 1)
	profiles := map[string]*topology.EncryptionProfile{"p1": profile}
	s := newSession(sub, transport.NewFake(), deliveries, nil, profiles)

	deliveries <- transport.Delivery{
		Message: transport.Message{Body: ciphertext, ContentType: "application/octet-stream", Headers: headers},
		Ack:     func() error { return nil },
		Nack:    func(bool) error { return nil },
	}
	close(deliveries)

	msg := <-s.Messages
	assert.Equal(t, "secret", string(msg.Content))
}

func TestSessionCancelIsIdempotent(t *testing.T) {
	sub := &topology.SubscriptionConfig{Name: "s1"}
	deliveries := make(chan transport.Delivery)
	s := newSession(sub, transport.NewFake(), deliveries, nil, nil)

	s.cancel()
	s.cancel()

	select {
	case <-s.Cancelled:
	default:
		t.Fatal("expected Cancelled to be closed")
	}
}
