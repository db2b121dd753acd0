// Package providers defines the model backend collaborator and a registry of
// known provider kinds. Inference itself lives in external implementations
// registered through Register; the registry only knows which kind names are
// valid and how to construct a backend for each.
package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/germanamz/continuum/pkg/config"
	"github.com/samber/lo"
)

// ErrNotImplemented is returned by Build for a known kind with no factory.
var ErrNotImplemented = errors.New("providers: no implementation registered")

// ModelProvider completes prompts against a model backend.
type ModelProvider interface {
	Complete(ctx context.Context, model config.ModelDescription, prompt string) (string, error)
}

// Factory creates a ModelProvider for a model description.
type Factory func(model config.ModelDescription) (ModelProvider, error)

// Built-in provider kinds referenced by the default configurations.
const (
	KindFreeTrial = "free-trial"
	KindOllama    = "ollama"
	KindOpenAI    = "openai"
	KindAnthropic = "anthropic"
	KindGemini    = "gemini"
)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
	builtins  sync.Once
)

func ensureBuiltins() {
	builtins.Do(func() {
		for _, k := range []string{KindFreeTrial, KindOllama, KindOpenAI, KindAnthropic, KindGemini} {
			if _, ok := factories[k]; !ok {
				factories[k] = nil
			}
		}
	})
}

// Register adds or replaces the factory for kind. A nil factory registers
// the kind name without an implementation.
func Register(kind string, f Factory) {
	ensureBuiltins()

	mu.Lock()
	defer mu.Unlock()

	factories[kind] = f
}

// Kinds returns every known provider kind, sorted.
func Kinds() []string {
	ensureBuiltins()

	mu.RLock()
	defer mu.RUnlock()

	kinds := lo.Keys(factories)
	sort.Strings(kinds)

	return kinds
}

// Known reports whether kind is registered.
func Known(kind string) bool {
	ensureBuiltins()

	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]

	return ok
}

// Build creates the backend for model using its provider kind.
func Build(model config.ModelDescription) (ModelProvider, error) {
	ensureBuiltins()

	mu.RLock()
	f, ok := factories[model.Provider]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("providers: unknown provider kind %q", model.Provider)
	}
	if f == nil {
		return nil, fmt.Errorf("%w for %q", ErrNotImplemented, model.Provider)
	}

	return f(model)
}
