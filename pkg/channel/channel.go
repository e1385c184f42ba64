package channel

import (
	"errors"
	"sync"

	"github.com/eapache/queue"
)

var (
	// ErrClosed is returned when sending through a Sender handle that has been closed.
	ErrClosed = errors.New("channel: send on closed sender")
	// ErrDisconnected is returned when sending after the Receiver has been closed.
	ErrDisconnected = errors.New("channel: receiver disconnected")
)

// state is shared by every Sender handle and the Receiver of one channel.
type state struct {
	mu      sync.Mutex
	ready   *sync.Cond
	items   *queue.Queue
	senders int  // live Sender handles
	rxGone  bool // Receiver closed
}

// Sender is the producing end of an unbounded FIFO channel.
// A Sender may be cloned; the channel closes once every handle is closed.
type Sender[T any] struct {
	st     *state
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// Receiver is the consuming end of the channel. It is safe to call Recv from many
// goroutines; each item is handed to exactly one caller.
type Receiver[T any] struct {
	st *state
}

// New creates an unbounded multi-producer channel and returns its two ends.
func New[T any]() (*Sender[T], *Receiver[T]) {
	st := &state{
		items:   queue.New(),
		senders: 1,
	}
	st.ready = sync.NewCond(&st.mu)
	return &Sender[T]{st: st}, &Receiver[T]{st: st}
}

// Send appends v to the queue. It never blocks waiting for a consumer.
func (s *Sender[T]) Send(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.rxGone {
		return ErrDisconnected
	}
	st.items.Add(v)
	st.ready.Signal()
	return nil
}

// Clone returns a new Sender handle for the same channel.
func (s *Sender[T]) Clone() (*Sender[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	s.st.mu.Lock()
	s.st.senders++
	s.st.mu.Unlock()
	return &Sender[T]{st: s.st}, nil
}

// Close releases this handle. When the last handle is closed, receivers drain the
// remaining items and then observe the channel as closed. Close is idempotent.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		st := s.st
		st.mu.Lock()
		st.senders--
		if st.senders == 0 {
			st.ready.Broadcast()
		}
		st.mu.Unlock()
	})
}

// Recv blocks until an item is available or the channel is closed and drained.
// ok is false only in the latter case.
func (r *Receiver[T]) Recv() (v T, ok bool) {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()
	for st.items.Length() == 0 {
		if st.senders == 0 || st.rxGone {
			return v, false
		}
		st.ready.Wait()
	}
	v, _ = st.items.Remove().(T)
	return v, true
}

// Len reports the number of queued items.
func (r *Receiver[T]) Len() int {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.items.Length()
}

// Close tears down the consuming end. Later sends fail with ErrDisconnected and
// anything still queued is discarded. It returns the number of discarded items.
func (r *Receiver[T]) Close() int {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.rxGone {
		return 0
	}
	st.rxGone = true
	dropped := 0
	for st.items.Length() > 0 {
		st.items.Remove()
		dropped++
	}
	st.ready.Broadcast()
	return dropped
}
