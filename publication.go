package rascal

import "time"

// PublicationStats carries the monotonic duration §4.3 requires every
// publication report, measured from the publish call to success. It stays
// zero when the publish fails.
type PublicationStats struct {
	Duration time.Duration
}

// PublicationHandle is the event-emitting handle publish/forward return
// (§4.3, §6's event surface): success(messageId), return(message),
// error(err), stats.duration. Modeled as buffered channels rather than
// callback registration, since Go favors channels over the JS
// EventEmitter idiom the original publication handle used.
type PublicationHandle struct {
	Success chan string
	Return  chan []byte
	Err     chan error
	Stats   PublicationStats
}

func newPublicationHandle() *PublicationHandle {
	return &PublicationHandle{
		Success: make(chan string, 1),
		Return:  make(chan []byte, 1),
		Err:     make(chan error, 1),
	}
}

func (h *PublicationHandle) succeed(messageID string, duration time.Duration) {
	h.Stats.Duration = duration
	h.Success <- messageID
	close(h.Success)
	close(h.Err)
}

func (h *PublicationHandle) fail(err error) {
	h.Err <- err
	close(h.Err)
	close(h.Success)
}
