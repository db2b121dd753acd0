package providers

import (
	"context"
	"testing"

	"github.com/germanamz/continuum/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct{}

func (echo) Complete(_ context.Context, m config.ModelDescription, prompt string) (string, error) {
	return m.Model + ": " + prompt, nil
}

func TestKinds_Builtins(t *testing.T) {
	kinds := Kinds()

	assert.Contains(t, kinds, KindFreeTrial)
	assert.Contains(t, kinds, KindOllama)
	assert.True(t, Known(KindAnthropic))
	assert.False(t, Known("carrier-pigeon"))
}

func TestDefaultsValidateAgainstBuiltins(t *testing.T) {
	for _, f := range config.Flavors() {
		assert.Empty(t, config.Validate(config.Defaults(f), Kinds()), "flavor %s", f)
	}
}

func TestBuild(t *testing.T) {
	Register("echo-test", func(config.ModelDescription) (ModelProvider, error) { return echo{}, nil })

	p, err := Build(config.ModelDescription{Provider: "echo-test", Model: "m"})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), config.ModelDescription{Model: "m"}, "hi")
	require.NoError(t, err)
	assert.Equal(t, "m: hi", out)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(config.ModelDescription{Provider: "unknown-kind"})
	assert.Error(t, err)

	_, err = Build(config.ModelDescription{Provider: KindGemini})
	assert.ErrorIs(t, err, ErrNotImplemented)
}
