package extension

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/germanamz/continuum/pkg/config"
	"github.com/germanamz/continuum/pkg/contextprovider"
	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/germanamz/continuum/pkg/host"
	"github.com/germanamz/continuum/pkg/settings"
)

// Options configures New.
type Options struct {
	Host     host.Host
	State    globalstate.Memento
	Settings *settings.Settings
	Config   config.SerializedConfig
	Logger   *slog.Logger
}

// Extension is the long-lived object created by activation. Exactly one is
// published per process through a Future.
type Extension struct {
	host     host.Host
	state    globalstate.Memento
	settings *settings.Settings
	config   config.SerializedConfig
	registry contextprovider.Registry
	bus      EventBus
	log      *slog.Logger

	pending sync.WaitGroup
}

// New creates an Extension. A nil Settings reads as all defaults and a nil
// Logger uses slog.Default.
func New(opts Options) *Extension {
	if opts.Settings == nil {
		opts.Settings = settings.FromMap(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Extension{
		host:     opts.Host,
		state:    opts.State,
		settings: opts.Settings,
		config:   opts.Config.Clone(),
		log:      opts.Logger,
	}
}

// Host returns the host the extension was activated in.
func (e *Extension) Host() host.Host { return e.host }

// State returns the durable global state.
func (e *Extension) State() globalstate.Memento { return e.state }

// Settings returns the user settings.
func (e *Extension) Settings() *settings.Settings { return e.settings }

// Config returns a copy of the effective configuration.
func (e *Extension) Config() config.SerializedConfig { return e.config.Clone() }

// Events returns the extension's event bus.
func (e *Extension) Events() *EventBus { return &e.bus }

// Logger returns the extension logger.
func (e *Extension) Logger() *slog.Logger { return e.log }

// ContextProviders returns the context-provider registry.
func (e *Extension) ContextProviders() *contextprovider.Registry { return &e.registry }

// RegisterContextProvider adds a custom context provider.
func (e *Extension) RegisterContextProvider(p contextprovider.Provider) error {
	if err := e.registry.Register(p); err != nil {
		return fmt.Errorf("extension: register context provider: %w", err)
	}

	title := p.Description().Title
	e.log.Info("context provider registered", "title", title)
	e.bus.Publish(EventContextProviderRegistered, title)

	return nil
}

// Go runs fn on its own goroutine and tracks it for WaitIdle.
func (e *Extension) Go(fn func()) {
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		fn()
	}()
}

// WaitIdle blocks until every goroutine started with Go has returned or ctx
// is done.
func (e *Extension) WaitIdle(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		e.pending.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
