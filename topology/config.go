// Package topology defines the fully-resolved shape of a rascal
// configuration tree and the pure helpers (name qualification, connection
// URL parsing) used to resolve it. It has no knowledge of AMQP wire I/O:
// everything here is data.
//
// A Config value can be built two ways: directly, as a Go struct literal
// (the caller picks one shape for every ambiguous field, since Go is
// statically typed), or by decoding a dynamic tree (YAML/JSON) through
// internal/configurator, which absorbs the sparse, array-or-mapping input
// shapes described in the specification's §9 and hands back a Config in
// exactly this resolved form.
package topology

// Config is the root of a rascal configuration tree. Every keyed
// collection is a map so that, after configuration, a component's `Name`
// field is guaranteed to equal its key (§8, invariant 1).
type Config struct {
	Vhosts        map[string]*VhostConfig        `yaml:"vhosts,omitempty" json:"vhosts,omitempty"`
	Publications  map[string]*PublicationConfig  `yaml:"publications,omitempty" json:"publications,omitempty"`
	Subscriptions map[string]*SubscriptionConfig `yaml:"subscriptions,omitempty" json:"subscriptions,omitempty"`
	Shovels       map[string]*ShovelConfig       `yaml:"shovels,omitempty" json:"shovels,omitempty"`
	Redeliveries  RedeliveriesConfig             `yaml:"redeliveries,omitempty" json:"redeliveries,omitempty"`
	Encryption    map[string]*EncryptionProfile  `yaml:"encryption,omitempty" json:"encryption,omitempty"`
	Defaults      DefaultsConfig                 `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// RedeliveriesConfig holds the counters sub-tree (§6).
type RedeliveriesConfig struct {
	Counters map[string]*CounterConfig `yaml:"counters,omitempty" json:"counters,omitempty"`
}

// DefaultsConfig is the baseline merged underneath every user config (§4.1.1).
type DefaultsConfig struct {
	Vhost        VhostConfig        `yaml:"vhost,omitempty" json:"vhost,omitempty"`
	Exchange     ExchangeConfig     `yaml:"exchanges,omitempty" json:"exchanges,omitempty"`
	Queue        QueueConfig        `yaml:"queues,omitempty" json:"queues,omitempty"`
	Publication  PublicationConfig  `yaml:"publications,omitempty" json:"publications,omitempty"`
	Subscription SubscriptionConfig `yaml:"subscription,omitempty" json:"subscription,omitempty"`
	Shovel       ShovelConfig       `yaml:"shovel,omitempty" json:"shovel,omitempty"`
	Connection   ConnectionConfig   `yaml:"connection,omitempty" json:"connection,omitempty"`
	Redeliveries RedeliveriesConfig `yaml:"redeliveries,omitempty" json:"redeliveries,omitempty"`
}

// VhostConfig is a single virtual host entry. Inline Publications/
// Subscriptions (§4.1.2.7) are promoted to the root collections during
// configuration and left empty here afterwards.
type VhostConfig struct {
	Name                    string                         `yaml:"-" json:"name"`
	Namespace               string                         `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Concurrency             int                            `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	ConnectionStrategy      string                         `yaml:"connectionStrategy,omitempty" json:"connectionStrategy,omitempty"`
	PublicationChannelPools map[string]int                 `yaml:"publicationChannelPools,omitempty" json:"publicationChannelPools,omitempty"`
	Connections             []*ConnectionConfig            `yaml:"connections,omitempty" json:"connections,omitempty"`
	Exchanges               map[string]*ExchangeConfig     `yaml:"exchanges,omitempty" json:"exchanges,omitempty"`
	Queues                  map[string]*QueueConfig        `yaml:"queues,omitempty" json:"queues,omitempty"`
	Bindings                map[string]*BindingConfig      `yaml:"bindings,omitempty" json:"bindings,omitempty"`
	Publications            map[string]*PublicationConfig  `yaml:"publications,omitempty" json:"publications,omitempty"`
	Subscriptions           map[string]*SubscriptionConfig `yaml:"subscriptions,omitempty" json:"subscriptions,omitempty"`
}

// ConnectionConfig is a single AMQP connection entry.
type ConnectionConfig struct {
	URL           string            `yaml:"url,omitempty" json:"url,omitempty"`
	LoggableURL   string            `yaml:"-" json:"loggableUrl,omitempty"`
	Protocol      string            `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Hostname      string            `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Port          int               `yaml:"port,omitempty" json:"port,omitempty"`
	User          string            `yaml:"user,omitempty" json:"user,omitempty"`
	Password      string            `yaml:"password,omitempty" json:"password,omitempty"`
	Vhost         string            `yaml:"vhost,omitempty" json:"vhost,omitempty"`
	Options       map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
	SocketOptions map[string]any    `yaml:"socketOptions,omitempty" json:"socketOptions,omitempty"`
	PreEncoded    PreEncodedConfig  `yaml:"preEncoded,omitempty" json:"preEncoded,omitempty"`
	Management    ManagementConfig  `yaml:"management,omitempty" json:"management,omitempty"`
	Index         int               `yaml:"-" json:"-"`
}

// PreEncodedConfig flags which URL components are already percent-encoded
// and must not be re-encoded when the URL is recomposed (§4.1.2.3).
type PreEncodedConfig struct {
	Auth     bool `yaml:"auth,omitempty" json:"auth,omitempty"`
	Pathname bool `yaml:"pathname,omitempty" json:"pathname,omitempty"`
	Query    bool `yaml:"query,omitempty" json:"query,omitempty"`
}

// ManagementConfig is the sibling management-API connection block.
type ManagementConfig struct {
	Hostname    string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	Port        int    `yaml:"port,omitempty" json:"port,omitempty"`
	User        string `yaml:"user,omitempty" json:"user,omitempty"`
	Password    string `yaml:"password,omitempty" json:"password,omitempty"`
	URL         string `yaml:"-" json:"url,omitempty"`
	LoggableURL string `yaml:"-" json:"loggableUrl,omitempty"`
}

// ExchangeConfig describes an AMQP exchange.
type ExchangeConfig struct {
	Name               string         `yaml:"-" json:"name"`
	FullyQualifiedName string         `yaml:"-" json:"fullyQualifiedName"`
	Type               string         `yaml:"type,omitempty" json:"type,omitempty"`
	Assert             *bool          `yaml:"assert,omitempty" json:"assert,omitempty"`
	Options            map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// QueueConfig describes an AMQP queue. ReplyToTag is non-empty when this
// queue was declared with `replyTo: true` (or an explicit tag) and
// participates in its FQN (§4.1.2.5).
type QueueConfig struct {
	Name               string         `yaml:"-" json:"name"`
	FullyQualifiedName string         `yaml:"-" json:"fullyQualifiedName"`
	ReplyToTag         string         `yaml:"-" json:"replyToTag,omitempty"`
	Assert             *bool          `yaml:"assert,omitempty" json:"assert,omitempty"`
	Options            map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// BindingConfig is a single routing rule. Name follows
// `source[ key1, key2 ]-> destination` when parsed from a string key.
type BindingConfig struct {
	Name               string `yaml:"-" json:"name"`
	Source             string `yaml:"source,omitempty" json:"source,omitempty"`
	Destination        string `yaml:"destination,omitempty" json:"destination,omitempty"`
	BindingKey         string `yaml:"bindingKey,omitempty" json:"bindingKey,omitempty"`
	QualifyBindingKeys bool   `yaml:"qualifyBindingKeys,omitempty" json:"qualifyBindingKeys,omitempty"`
}

// PublicationConfig is a named routing endpoint applications publish through.
type PublicationConfig struct {
	Name        string             `yaml:"-" json:"name"`
	Vhost       string             `yaml:"vhost,omitempty" json:"vhost,omitempty"`
	Exchange    string             `yaml:"exchange,omitempty" json:"exchange,omitempty"`
	Queue       string             `yaml:"queue,omitempty" json:"queue,omitempty"`
	RoutingKey  string             `yaml:"routingKey,omitempty" json:"routingKey,omitempty"`
	Destination string             `yaml:"-" json:"destination,omitempty"`
	Confirm     *bool              `yaml:"confirm,omitempty" json:"confirm,omitempty"`
	Encryption  *EncryptionProfile `yaml:"-" json:"encryption,omitempty"`
	ReplyTo     string             `yaml:"replyTo,omitempty" json:"replyTo,omitempty"`
	Deprecated  bool               `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	AutoCreated bool               `yaml:"-" json:"autoCreated,omitempty"`
	Options     map[string]any     `yaml:"options,omitempty" json:"options,omitempty"`
}

// SubscriptionConfig is a named consumer endpoint applications subscribe to.
type SubscriptionConfig struct {
	Name         string                        `yaml:"-" json:"name"`
	Vhost        string                        `yaml:"vhost,omitempty" json:"vhost,omitempty"`
	Queue        string                        `yaml:"queue,omitempty" json:"queue,omitempty"`
	Source       string                        `yaml:"-" json:"source,omitempty"`
	Prefetch     int                           `yaml:"prefetch,omitempty" json:"prefetch,omitempty"`
	Redeliveries string                        `yaml:"redeliveries,omitempty" json:"redeliveries,omitempty"`
	Encryption   map[string]*EncryptionProfile `yaml:"-" json:"encryption,omitempty"`
	AutoCreated  bool                          `yaml:"-" json:"autoCreated,omitempty"`
	Options      map[string]any                `yaml:"options,omitempty" json:"options,omitempty"`
}

// ShovelConfig bridges a subscription to a publication.
type ShovelConfig struct {
	Name         string `yaml:"-" json:"name"`
	Subscription string `yaml:"subscription,omitempty" json:"subscription,omitempty"`
	Publication  string `yaml:"publication,omitempty" json:"publication,omitempty"`
}

// CounterConfig configures a redelivery counter.
type CounterConfig struct {
	Name    string         `yaml:"-" json:"name"`
	Type    string         `yaml:"type,omitempty" json:"type,omitempty"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// EncryptionProfile is a named symmetric-cipher profile (§6).
type EncryptionProfile struct {
	Name      string `yaml:"-" json:"name"`
	Key       string `yaml:"key,omitempty" json:"key,omitempty"` // hex-encoded
	IVLength  int    `yaml:"ivLength,omitempty" json:"ivLength,omitempty"`
	Algorithm string `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
}
