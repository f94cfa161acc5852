package log

import (
	"bytes"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 16

// Publisher is an [io.Writer] that fans out written log lines to
// subscribers.
//
// Each call to [Publisher.Write] is split into lines; every non-empty line is
// delivered to each active [Subscription] via a buffered channel with
// ring-buffer semantics: when a subscriber's channel is full the oldest line
// is dropped, so Write never blocks the code that is logging. Safe for
// concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 16 lines.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(1, n)
	}
}

// Write delivers each line of b to all active subscribers. Closed
// subscriptions are compacted out of the subscriber list. Write always
// returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	var lines []string

	for line := range bytes.Lines(b) {
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)

			continue
		}

		for _, line := range lines {
			sub.send(line)
		}

		alive = append(alive, sub)
	}

	clear(p.subscribers[len(alive):])
	p.subscribers = alive

	return len(b), nil
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan string, p.bufSize),
	}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed, closes all subscription channels,
// and releases the subscriber list. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives log lines from a [Publisher].
type Subscription struct {
	ch     chan string
	closed atomic.Bool
}

// C returns the read-only channel that delivers log lines, without trailing
// newlines.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close marks the subscription as closed. The Publisher will close the
// underlying channel on its next Write or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}

// send delivers line, dropping the oldest buffered line when full. Only
// called with the publisher lock held.
func (s *Subscription) send(line string) {
	select {
	case s.ch <- line:
	default:
		select {
		case <-s.ch:
		default:
		}

		s.ch <- line
	}
}
