// Package telemetry captures anonymous product events on a best-effort basis.
// Capture never blocks the caller: events are queued for a single background
// worker and dropped when the queue is full, telemetry is disabled, or the
// sink fails.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/google/uuid"
)

// DistinctIDKey is the state key holding the installation's anonymous id.
const DistinctIDKey = "telemetry.distinctId"

// Event is a single captured event.
type Event struct {
	Name       string
	DistinctID string
	Properties map[string]any
	Timestamp  time.Time
}

// Sink delivers events.
type Sink interface {
	Capture(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event) error

// Capture calls f.
func (f SinkFunc) Capture(ctx context.Context, e Event) error { return f(ctx, e) }

// Nop discards every event.
var Nop Sink = SinkFunc(func(context.Context, Event) error { return nil })

// Options configures a Client.
type Options struct {
	Sink       Sink
	Enabled    bool
	DistinctID string
	QueueSize  int           // default 64
	Timeout    time.Duration // per-delivery timeout, default 5s
	Logger     *slog.Logger
}

// Client queues events for asynchronous delivery. It is safe for concurrent
// use.
type Client struct {
	sink       Sink
	enabled    bool
	distinctID string
	timeout    time.Duration
	log        *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// New starts a Client. Close must be called to release the worker.
func New(opts Options) *Client {
	if opts.Sink == nil {
		opts.Sink = Nop
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Client{
		sink:       opts.Sink,
		enabled:    opts.Enabled,
		distinctID: opts.DistinctID,
		timeout:    opts.Timeout,
		log:        opts.Logger,
		queue:      make(chan Event, opts.QueueSize),
		done:       make(chan struct{}),
	}

	go c.run()

	return c
}

// Disabled returns a Client that drops every event.
func Disabled() *Client { return New(Options{}) }

// Enabled reports whether events are being captured.
func (c *Client) Enabled() bool { return c.enabled }

// DistinctID returns the anonymous id attached to events.
func (c *Client) DistinctID() string { return c.distinctID }

// Capture queues an event and reports whether it was accepted. It never
// blocks.
func (c *Client) Capture(name string, props map[string]any) bool {
	if !c.enabled {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	e := Event{
		Name:       name,
		DistinctID: c.distinctID,
		Properties: props,
		Timestamp:  time.Now(),
	}

	select {
	case c.queue <- e:
		return true
	default:
		c.log.Debug("telemetry: queue full, dropping event", "event", name)
		return false
	}
}

// Close stops accepting events and waits for queued ones to be delivered or
// for ctx to be done.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) run() {
	defer close(c.done)

	for e := range c.queue {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		if err := c.sink.Capture(ctx, e); err != nil {
			c.log.Debug("telemetry: delivery failed", "event", e.Name, "error", err)
		}
		cancel()
	}
}

// DistinctID returns the installation's anonymous id from state, generating
// and persisting a new one on first use. A state write failure still returns
// the generated id.
func DistinctID(state globalstate.Memento) string {
	if id, ok := globalstate.String(state, DistinctIDKey); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	_ = state.Update(DistinctIDKey, id)

	return id
}
