package extension

import (
	"context"

	"github.com/germanamz/continuum/pkg/contextprovider"
)

// API is the surface returned from activation to other extensions.
type API struct {
	ext *Extension
}

// NewAPI binds an API to ext.
func NewAPI(ext *Extension) *API { return &API{ext: ext} }

// Extension returns the singleton the API is bound to.
func (a *API) Extension() *Extension { return a.ext }

// RegisterCustomContextProvider adds p to the singleton's registry.
func (a *API) RegisterCustomContextProvider(p contextprovider.Provider) error {
	return a.ext.RegisterContextProvider(p)
}

// ContextProviders lists the descriptions of every registered provider in
// registration order.
func (a *API) ContextProviders() []contextprovider.Description {
	return a.ext.registry.Descriptions()
}

// Events returns the singleton's event bus. Events published before a
// subscription exists are not replayed.
func (a *API) Events() *EventBus { return a.ext.Events() }

// WaitIdle blocks until background activation work, such as a pending user
// message, has settled.
func (a *API) WaitIdle(ctx context.Context) error {
	return a.ext.WaitIdle(ctx)
}
