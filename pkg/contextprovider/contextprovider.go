// Package contextprovider defines the contract for named sources of prompt
// context (files, diffs, terminal output, ...) and an ordered registry of
// custom providers contributed at runtime.
package contextprovider

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrDuplicate is returned when registering a provider whose title is taken.
var ErrDuplicate = errors.New("contextprovider: duplicate title")

// Type controls how the editor offers a provider to the user.
type Type string

const (
	TypeNormal  Type = "normal"  // inserted directly
	TypeQuery   Type = "query"   // prompts for a query first
	TypeSubmenu Type = "submenu" // lets the user choose among items
)

// Description identifies a provider to the editor.
type Description struct {
	Title        string `json:"title"`
	DisplayTitle string `json:"displayTitle"`
	Description  string `json:"description"`
	Type         Type   `json:"type"`
}

// Item is one piece of context returned by a provider.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Provider supplies context items for a workspace query.
type Provider interface {
	Description() Description
	Items(ctx context.Context, query string) ([]Item, error)
}

// Registry holds providers in registration order. The zero value is ready to
// use.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
}

// Register adds p. Titles must be non-empty and unique.
func (r *Registry) Register(p Provider) error {
	if isNil(p) {
		return errors.New("contextprovider: nil provider")
	}

	d := p.Description()
	if d.Title == "" {
		return errors.New("contextprovider: title is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.providers {
		if existing.Description().Title == d.Title {
			return fmt.Errorf("%w: %q", ErrDuplicate, d.Title)
		}
	}

	r.providers = append(r.providers, p)

	return nil
}

// isNil reports whether p is nil or an interface holding a nil pointer, map,
// slice, func or chan.
func isNil(p Provider) bool {
	if p == nil {
		return true
	}

	switch v := reflect.ValueOf(p); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Get returns the provider registered under title.
func (r *Registry) Get(title string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Description().Title == title {
			return p, true
		}
	}

	return nil, false
}

// List returns the registered providers in order.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Provider(nil), r.providers...)
}

// Descriptions returns the description of every provider in order.
func (r *Registry) Descriptions() []Description {
	list := r.List()

	out := make([]Description, len(list))
	for i, p := range list {
		out[i] = p.Description()
	}

	return out
}

// Func adapts a function to Provider.
type Func struct {
	Desc  Description
	Fetch func(ctx context.Context, query string) ([]Item, error)
}

// Description implements Provider.
func (f Func) Description() Description { return f.Desc }

// Items implements Provider.
func (f Func) Items(ctx context.Context, query string) ([]Item, error) {
	if f.Fetch == nil {
		return nil, nil
	}

	return f.Fetch(ctx, query)
}
