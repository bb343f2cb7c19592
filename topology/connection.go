package topology

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultAMQPPort is used when a connection URL/attribute set omits a port.
const DefaultAMQPPort = 5672

// ParseConnectionURL decomposes a standard AMQP URI
// (amqp[s]://user:pass@host:port/vhostPath?opt=val) into its attributes
// (§6). Percent-encoded components are decoded; callers that need the
// original encoding preserved on recompose should set the matching
// PreEncodedConfig flag before calling RecomposeURL.
//
// net/url is used directly here rather than a third-party URI library:
// nothing in the retrieved pack offers component-level control over which
// parts of an AMQP URI stay percent-encoded, which RecomposeURL needs.
func ParseConnectionURL(raw string) (*ConnectionConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid connection url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "amqp", "amqps":
	default:
		return nil, fmt.Errorf("invalid connection url %q: unsupported scheme %q", raw, u.Scheme)
	}

	cfg := &ConnectionConfig{
		Protocol: u.Scheme,
		Hostname: u.Hostname(),
	}
	if port := u.Port(); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid connection url %q: bad port %q", raw, port)
		}
		cfg.Port = p
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if vh := strings.TrimPrefix(u.Path, "/"); vh != "" {
		cfg.Vhost = vh
	}
	if q := u.RawQuery; q != "" {
		values, err := url.ParseQuery(q)
		if err != nil {
			return nil, fmt.Errorf("invalid connection url %q: bad query: %w", raw, err)
		}
		cfg.Options = make(map[string]string, len(values))
		for k, v := range values {
			if len(v) > 0 {
				cfg.Options[k] = v[0]
			}
		}
	}
	return cfg, nil
}

// RecomposeURL rebuilds the URL from a connection's attributes
// (§4.1.2.3); LoggableURL derives the masked form from its result. It
// honors PreEncoded flags for components that
// must not be re-percent-encoded (e.g. a password already containing a
// literal '%').
func RecomposeURL(c *ConnectionConfig) string {
	var b strings.Builder
	protocol := c.Protocol
	if protocol == "" {
		protocol = "amqp"
	}
	b.WriteString(protocol)
	b.WriteString("://")

	if c.User != "" || c.Password != "" {
		if c.PreEncoded.Auth {
			b.WriteString(c.User)
			if c.Password != "" {
				b.WriteString(":")
				b.WriteString(c.Password)
			}
		} else {
			b.WriteString(url.UserPassword(c.User, c.Password).String())
		}
		b.WriteString("@")
	}

	host := c.Hostname
	if host == "" {
		host = "localhost"
	}
	b.WriteString(host)
	if c.Port != 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(c.Port))
	}

	b.WriteString("/")
	if c.Vhost != "" {
		if c.PreEncoded.Pathname {
			b.WriteString(c.Vhost)
		} else {
			b.WriteString(url.PathEscape(c.Vhost))
		}
	}

	if len(c.Options) > 0 {
		if c.PreEncoded.Query {
			var parts []string
			for k, v := range c.Options {
				parts = append(parts, k+"="+v)
			}
			b.WriteString("?")
			b.WriteString(strings.Join(parts, "&"))
		} else {
			values := url.Values{}
			for k, v := range c.Options {
				values.Set(k, v)
			}
			b.WriteString("?")
			b.WriteString(values.Encode())
		}
	}

	return b.String()
}

// LoggableURL returns url with any password component replaced by '***'
// (§3 invariant).
func LoggableURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User == nil {
		return rawURL
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return rawURL
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	// url.Userinfo percent-encodes '*'; put the literal mask back.
	return strings.Replace(u.String(), ":%2A%2A%2A@", ":***@", 1)
}
