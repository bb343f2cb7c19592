package rascal

import "fmt"

// OperationalError is §7's second error class: unknown publication/
// subscription/vhost, encryption failures, AMQP channel errors. It is
// surfaced to the caller of the originating verb, or emitted on the
// affected publication/session; the broker never self-recovers from it.
// Grounded on the teacher's internal/amqp/errors pattern (small struct +
// constructor + Error()).
type OperationalError struct {
	Entity string
	text   string
}

func (e *OperationalError) Error() string {
	return e.text
}

func newOperationalError(format string, args ...any) *OperationalError {
	return &OperationalError{text: fmt.Sprintf(format, args...)}
}
