package mailbox

import "context"

// Mailbox is a single-slot buffer where the latest job always wins.
// It is NOT a queue: triggers that arrive while a capture is still running
// collapse into one pending job instead of piling up.
type Mailbox[T any] struct {
	slot chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// Put stores a job, replacing any pending one. It never blocks and reports
// whether a pending job was dropped.
func (m *Mailbox[T]) Put(j T) (replaced bool) {
	for {
		select {
		case m.slot <- j:
			return replaced
		default:
		}

		select {
		case <-m.slot:
			replaced = true
		default:
		}
	}
}

// Take blocks until a job is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case j := <-m.slot:
		return j, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}
