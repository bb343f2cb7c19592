package configurator

import "fmt"

// ConfigurationError reports a structural contradiction discovered while
// expanding the configuration tree (§4.1, §7). It always names the
// offending entity so the message is actionable without a stack trace.
type ConfigurationError struct {
	Entity string
	reason string
}

func (e *ConfigurationError) Error() string {
	return e.reason
}

func newConfigError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{reason: fmt.Sprintf(format, args...)}
}
