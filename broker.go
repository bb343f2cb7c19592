package rascal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andrelcunha/rascal-go/internal/counters"
	"github.com/andrelcunha/rascal-go/internal/encryption"
	"github.com/andrelcunha/rascal-go/internal/management"
	"github.com/andrelcunha/rascal-go/internal/metrics"
	"github.com/andrelcunha/rascal-go/internal/transport"
	"github.com/andrelcunha/rascal-go/topology"
)

// Components lets create() override the collaborators a Broker wires
// itself from (§4.3 "create(config, components)"). A zero-valued
// Components falls back to the real AMQP dialer and a nil metrics
// collector, matching how the teacher's broker.NewBroker takes a
// config and builds its own persistence/management layer underneath.
type Components struct {
	Dialer    transport.Dialer
	Collector *metrics.Collector
}

// Broker owns the live topology and exposes the verb surface
// applications call (§4.3). Shape mirrors the teacher's
// internal/core/broker.Broker: a mutex-guarded map of live state, a
// root context/cancel pair, and a shuttingDown flag that makes Shutdown
// run its teardown only once.
type Broker struct {
	config *topology.Config

	mu           sync.Mutex
	vhosts       map[string]*vhostRuntime
	counters     map[string]counters.Counter
	sessions     []*Session
	shuttingDown atomic.Bool

	dialer    transport.Dialer
	collector *metrics.Collector

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

// vhostRuntime is the live connection/channel pair for one configured
// vhost, plus which entry in its Connections list is currently in use.
type vhostRuntime struct {
	vhost     *topology.VhostConfig
	conn      transport.Connection
	channel   transport.Channel
	connIndex int
}

// Create implements §4.3's create(config, components) verb: it builds a
// Broker bound to an already-configured-and-validated Config, wiring
// every named counter up front so unknown-type mistakes surface here
// rather than on first use.
func Create(cfg *topology.Config, components Components) (*Broker, error) {
	dialer := components.Dialer
	if dialer == nil {
		dialer = transport.AMQPDialer{}
	}

	if components.Collector != nil {
		metrics.DefaultCollector = components.Collector
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Broker{
		config:     cfg,
		vhosts:     make(map[string]*vhostRuntime, len(cfg.Vhosts)),
		counters:   make(map[string]counters.Counter, len(cfg.Redeliveries.Counters)),
		dialer:     dialer,
		collector:  components.Collector,
		rootCtx:    ctx,
		rootCancel: cancel,
	}

	for name, vh := range cfg.Vhosts {
		b.vhosts[name] = &vhostRuntime{vhost: vh}
	}
	for name, counterCfg := range cfg.Redeliveries.Counters {
		c, err := counters.New(counterCfg)
		if err != nil {
			return nil, newOperationalError("counter %s: %v", name, err)
		}
		b.counters[name] = c
	}

	log.Info().Int("vhosts", len(b.vhosts)).Msg("broker created")
	return b, nil
}

// Connect implements §4.3's connect(vhostName): it dials the vhost's
// connection list in its resolved order (configuration already sorted
// the list by its failover index), returning the first
// connection that succeeds. A later call reuses the live connection.
func (b *Broker) Connect(ctx context.Context, vhostName string) (transport.Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rt, ok := b.vhosts[vhostName]
	if !ok {
		return nil, newOperationalError("Unknown vhost: %s", vhostName)
	}
	if rt.conn != nil && !rt.conn.IsClosed() {
		return rt.conn, nil
	}

	if len(rt.vhost.Connections) == 0 {
		return nil, newOperationalError("vhost %s has no connections configured", vhostName)
	}

	var lastErr error
	for i, connCfg := range rt.vhost.Connections {
		url := connCfg.URL
		if url == "" {
			url = topology.RecomposeURL(connCfg)
		}
		conn, err := b.dialer.Dial(ctx, url)
		if err != nil {
			lastErr = err
			log.Warn().Str("vhost", vhostName).Str("url", connCfg.LoggableURL).Err(err).Msg("connection attempt failed")
			continue
		}
		ch, err := conn.Channel()
		if err != nil {
			lastErr = err
			conn.Close()
			continue
		}
		rt.conn = conn
		rt.channel = ch
		rt.connIndex = i
		if err := b.declareTopology(rt.vhost, ch); err != nil {
			return nil, err
		}
		return conn, nil
	}
	return nil, newOperationalError("vhost %s: all connections failed: %v", vhostName, lastErr)
}

func (b *Broker) declareTopology(vh *topology.VhostConfig, ch transport.Channel) error {
	for _, exch := range vh.Exchanges {
		if exch.Assert != nil && !*exch.Assert {
			continue
		}
		if err := ch.DeclareExchange(exch.FullyQualifiedName, exch.Type, true, exch.Options); err != nil {
			return newOperationalError("asserting exchange %s: %v", exch.Name, err)
		}
	}
	for _, q := range vh.Queues {
		if q.Assert != nil && !*q.Assert {
			continue
		}
		if err := ch.DeclareQueue(q.FullyQualifiedName, true, q.Options); err != nil {
			return newOperationalError("asserting queue %s: %v", q.Name, err)
		}
	}
	for _, binding := range vh.Bindings {
		source := binding.Source
		if exch, ok := vh.Exchanges[binding.Source]; ok {
			source = exch.FullyQualifiedName
		}
		destination := binding.Destination
		if q, ok := vh.Queues[binding.Destination]; ok {
			destination = q.FullyQualifiedName
		} else if exch, ok := vh.Exchanges[binding.Destination]; ok {
			destination = exch.FullyQualifiedName
		}
		if err := ch.Bind(destination, source, binding.BindingKey, nil); err != nil {
			return newOperationalError("asserting binding %s: %v", binding.Name, err)
		}
	}
	return nil
}

// channelFor resolves the live channel for a publication/subscription's
// vhost, connecting on demand.
func (b *Broker) channelFor(ctx context.Context, vhostName string) (transport.Channel, error) {
	if _, err := b.Connect(ctx, vhostName); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vhosts[vhostName].channel, nil
}

// wireDestination resolves a publication's actual on-the-wire exchange
// (pub.Queue == "") or queue (pub.Queue != "") name: the looked-up
// entity's FullyQualifiedName, not pub.Destination, which is a distinct
// display-facing string per the S1 scenario (see internal/configurator's
// destinationName).
func (b *Broker) wireDestination(pub *topology.PublicationConfig) (string, error) {
	vhost, ok := b.config.Vhosts[pub.Vhost]
	if !ok {
		return "", newOperationalError("publication %s: unknown vhost %s", pub.Name, pub.Vhost)
	}
	if pub.Queue != "" {
		q, ok := vhost.Queues[pub.Queue]
		if !ok {
			return "", newOperationalError("publication %s: unknown queue %s", pub.Name, pub.Queue)
		}
		return q.FullyQualifiedName, nil
	}
	exch, ok := vhost.Exchanges[pub.Exchange]
	if !ok {
		return "", newOperationalError("publication %s: unknown exchange %s", pub.Name, pub.Exchange)
	}
	return exch.FullyQualifiedName, nil
}

// Publish implements §4.3's publish(name, message, overrides) verb and
// its publishing contract: messageId stamping, content-type defaulting,
// encryption, and a duration stat measured from call to success (a
// failed publish leaves Stats.Duration zero).
func (b *Broker) Publish(ctx context.Context, name string, payload any, overrides PublishOverrides) (*PublicationHandle, error) {
	pub, ok := b.config.Publications[name]
	if !ok {
		return nil, newOperationalError("Unknown publication: %s", name)
	}
	return b.publish(ctx, pub, payload, overrides, nil)
}

// Forward implements §4.3's forward(name, message, overrides) verb: the
// inbound delivery is re-published, stamped with the original routing
// headers described in the forward contract.
func (b *Broker) Forward(ctx context.Context, name string, delivery transport.Delivery, overrides PublishOverrides) (*PublicationHandle, error) {
	pub, ok := b.config.Publications[name]
	if !ok {
		return nil, newOperationalError("Unknown publication: %s", name)
	}
	fwd := forwardHeaders(delivery.Message)
	overrides.Headers = mergeHeaders(fwd, overrides.Headers)
	if overrides.MessageID == "" {
		overrides.MessageID = delivery.Message.MessageID
	}
	if overrides.ContentType == "" {
		overrides.ContentType = delivery.Message.ContentType
	}
	if overrides.RoutingKey == "" {
		overrides.RoutingKey = delivery.Message.RoutingKey
	}
	return b.publish(ctx, pub, delivery.Message.Body, overrides, &delivery.Message)
}

// forwardHeaders builds §4.3's forward contract headers. originalQueue is
// the namespace-qualified source queue name (transport.Message.Queue,
// stamped by Session.decode from the subscription's Source) — it is empty
// unless the delivery being forwarded came off a Session; a Forward call
// built from a hand-constructed delivery has no source queue to name.
func forwardHeaders(msg transport.Message) map[string]any {
	return map[string]any{
		"rascal.originalQueue":         msg.Queue,
		"rascal.originalRoutingKey":    msg.RoutingKey,
		"rascal.originalExchange":      msg.Exchange,
		"rascal.restoreRoutingHeaders": false,
	}
}

func (b *Broker) publish(ctx context.Context, pub *topology.PublicationConfig, payload any, overrides PublishOverrides, raw *transport.Message) (*PublicationHandle, error) {
	started := time.Now()
	handle := newPublicationHandle()

	ch, err := b.channelFor(ctx, pub.Vhost)
	if err != nil {
		handle.fail(err)
		return handle, nil
	}

	body, contentType, err := encodeBody(payload, raw)
	if err != nil {
		handle.fail(newOperationalError("encoding publication %s payload: %v", pub.Name, err))
		return handle, nil
	}
	if overrides.ContentType != "" {
		contentType = overrides.ContentType
	}

	headers := mergeHeaders(nil, overrides.Headers)

	if pub.Encryption != nil {
		ciphertext, encHeaders, err := encryption.Encrypt(pub.Encryption, contentType, body)
		if err != nil {
			handle.fail(newOperationalError("encrypting publication %s: %v", pub.Name, err))
			return handle, nil
		}
		body = ciphertext
		contentType = encryption.OctetStreamContentType
		headers = mergeHeaders(headers, encHeaders)
	}

	messageID := overrides.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	routingKey := overrides.RoutingKey
	if routingKey == "" {
		routingKey = pub.RoutingKey
	}

	exchange, err := b.wireDestination(pub)
	if err != nil {
		handle.fail(err)
		return handle, nil
	}
	if pub.Queue != "" {
		routingKey = exchange
		exchange = topology.DefaultExchangeName
	}

	msg := transport.Message{
		MessageID:   messageID,
		ContentType: contentType,
		Headers:     headers,
		Body:        body,
		ReplyTo:     pub.ReplyTo,
	}

	confirmed := make(chan transport.Confirmation, 1)
	if pub.Confirm == nil || *pub.Confirm {
		go func() {
			for c := range ch.NotifyPublish() {
				confirmed <- c
				return
			}
		}()
	}

	if err := ch.Publish(ctx, exchange, routingKey, false, msg); err != nil {
		handle.fail(newOperationalError("publishing %s: %v", pub.Name, err))
		return handle, nil
	}

	go func() {
		if pub.Confirm == nil || *pub.Confirm {
			select {
			case c := <-confirmed:
				if !c.Ack {
					handle.fail(newOperationalError("publication %s: broker nacked delivery", pub.Name))
					return
				}
			case <-time.After(30 * time.Second):
			}
		}
		handle.succeed(messageID, time.Since(started))
		if b.collector != nil {
			b.collector.ObservePublishDuration(pub.Name, time.Since(started).Seconds())
		}
	}()

	return handle, nil
}

// encodeBody implements the content-type defaulting half of §4.3's
// publishing contract: []byte stays raw/application-octet-stream,
// string becomes text/plain, anything else is JSON-encoded. When raw
// is non-nil (a forward), the original body/contentType are reused.
func encodeBody(payload any, raw *transport.Message) ([]byte, string, error) {
	if raw != nil {
		return raw.Body, raw.ContentType, nil
	}
	switch v := payload.(type) {
	case []byte:
		return v, "application/octet-stream", nil
	case string:
		return []byte(v), "text/plain", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling publication payload: %w", err)
		}
		return b, "application/json", nil
	}
}

// Subscribe implements §4.3's subscribe(name, overrides) verb.
func (b *Broker) Subscribe(ctx context.Context, name string, overrides SubscribeOverrides) (*Session, error) {
	sub, ok := b.config.Subscriptions[name]
	if !ok {
		return nil, newOperationalError("Unknown subscription: %s", name)
	}
	return b.subscribe(ctx, sub, overrides)
}

func (b *Broker) subscribe(ctx context.Context, sub *topology.SubscriptionConfig, overrides SubscribeOverrides) (*Session, error) {
	ch, err := b.channelFor(ctx, sub.Vhost)
	if err != nil {
		return nil, err
	}

	prefetch := sub.Prefetch
	if overrides.Prefetch > 0 {
		prefetch = overrides.Prefetch
	}
	_ = prefetch // not passed on: transport.Channel has no QoS call, so prefetch is not applied

	var counter counters.Counter
	if sub.Redeliveries != "" {
		counter = b.counters[sub.Redeliveries]
	}

	deliveries, err := ch.Consume(ctx, sub.Source, sub.Name, false)
	if err != nil {
		return nil, newOperationalError("subscribing %s: %v", sub.Name, err)
	}

	session := newSession(sub, ch, deliveries, counter, sub.Encryption)
	b.mu.Lock()
	b.sessions = append(b.sessions, session)
	b.mu.Unlock()
	if b.collector != nil {
		b.collector.SessionStarted(sub.Name)
	}
	session.start(b.rootCtx)
	return session, nil
}

// SubscribeAll implements §4.3's subscribeAll(filter?): every subscription
// config matching filter (nil matches everything) is subscribed.
func (b *Broker) SubscribeAll(ctx context.Context, filter func(*topology.SubscriptionConfig) bool) ([]*Session, error) {
	var sessions []*Session
	for _, sub := range b.config.Subscriptions {
		if filter != nil && !filter(sub) {
			continue
		}
		s, err := b.subscribe(ctx, sub, SubscribeOverrides{})
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// UnsubscribeAll implements §4.4's cooperative teardown: every live
// session is cancelled from a snapshot of the session list, then the
// broker waits out the longest deferred-close window any session
// reported before acknowledging.
func (b *Broker) UnsubscribeAll() {
	b.mu.Lock()
	snapshot := append([]*Session{}, b.sessions...)
	b.sessions = nil
	b.mu.Unlock()

	var maxDefer time.Duration
	var wg sync.WaitGroup
	for _, s := range snapshot {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.cancel()
			if b.collector != nil {
				b.collector.SessionStopped(s.config.Name)
			}
		}(s)
		if s.maxDeferClose > maxDefer {
			maxDefer = s.maxDeferClose
		}
	}
	wg.Wait()
	if maxDefer > 0 {
		time.Sleep(maxDefer)
	}
}

// Purge stands in for §4.3's purge(): it connects every vhost (declaring
// its topology) and returns the first connection error. It does not purge
// any queue; internal/transport.Channel has no purge operation.
func (b *Broker) Purge(ctx context.Context) error {
	for name := range b.vhosts {
		if _, err := b.Connect(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Nuke implements §4.3's nuke(): tear down every vhost's connection and
// clear broker state.
func (b *Broker) Nuke() error {
	b.UnsubscribeAll()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rt := range b.vhosts {
		if rt.conn != nil {
			rt.conn.Close()
			rt.conn = nil
			rt.channel = nil
		}
	}
	return nil
}

// Shutdown implements §4.3's shutdown(): unsubscribeAll, then shut down
// every vhost connection, then stop the broker's root context.
func (b *Broker) Shutdown() {
	if !b.shuttingDown.CompareAndSwap(false, true) {
		return
	}
	b.UnsubscribeAll()
	b.mu.Lock()
	for _, rt := range b.vhosts {
		if rt.conn != nil {
			rt.conn.Close()
			rt.conn = nil
			rt.channel = nil
		}
	}
	b.mu.Unlock()
	b.rootCancel()
}

// Bounce implements §4.3's bounce(): unsubscribeAll, then close and
// reconnect every vhost.
func (b *Broker) Bounce(ctx context.Context) error {
	b.UnsubscribeAll()
	b.mu.Lock()
	names := make([]string, 0, len(b.vhosts))
	for name, rt := range b.vhosts {
		if rt.conn != nil {
			rt.conn.Close()
			rt.conn = nil
			rt.channel = nil
		}
		names = append(names, name)
	}
	b.mu.Unlock()

	for _, name := range names {
		if _, err := b.Connect(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// ConnectionSnapshot is one entry in GetConnections' result (§4.3).
type ConnectionSnapshot struct {
	Vhost       string
	LoggableURL string
	Connected   bool
}

// GetConnections implements §4.3's getConnections(): a snapshot of
// per-vhost active connection details.
func (b *Broker) GetConnections() []ConnectionSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ConnectionSnapshot, 0, len(b.vhosts))
	for name, rt := range b.vhosts {
		snap := ConnectionSnapshot{Vhost: name}
		if rt.conn != nil && len(rt.vhost.Connections) > rt.connIndex {
			snap.LoggableURL = rt.vhost.Connections[rt.connIndex].LoggableURL
			snap.Connected = !rt.conn.IsClosed()
		}
		out = append(out, snap)
	}
	return out
}

// GetFullyQualifiedName implements §4.3's getFullyQualifiedName(vhost,
// name): qualify(name, vhost.namespace).
func (b *Broker) GetFullyQualifiedName(vhostName, name string) (string, error) {
	vh, ok := b.config.Vhosts[vhostName]
	if !ok {
		return "", newOperationalError("Unknown vhost: %s", vhostName)
	}
	return topology.Qualify(name, vh.Namespace), nil
}

// managementView adapts Broker to internal/management.BrokerView so that
// package cannot import the root package back (it is the root package
// that depends on internal/management, not the reverse).
type managementView struct{ b *Broker }

func (v managementView) Config() *topology.Config { return v.b.config }

func (v managementView) GetConnections() []management.ConnectionView {
	snaps := v.b.GetConnections()
	out := make([]management.ConnectionView, len(snaps))
	for i, s := range snaps {
		out[i] = management.ConnectionView{Vhost: s.Vhost, LoggableURL: s.LoggableURL, Connected: s.Connected}
	}
	return out
}

// ManagementView exposes the Broker through internal/management's
// read-only introspection contract.
func (b *Broker) ManagementView() management.BrokerView {
	return managementView{b: b}
}
