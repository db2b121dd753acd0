package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/continuum/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticActions struct{}

func (staticActions) Name() string { return "static" }

func (staticActions) ProvideCodeActions(d host.Diagnostic) []host.CodeAction {
	return []host.CodeAction{{Title: "fix " + d.Message}}
}

type staticTip struct{}

func (staticTip) Tip(s host.Selection) (string, bool) { return "tip", s.Text != "" }

func TestHost_ShowInformationMessage(t *testing.T) {
	var out bytes.Buffer
	h := New(&out, WithChooser(func(_ context.Context, _ string, actions []string) (string, error) {
		return actions[1], nil
	}))

	choice, err := h.ShowInformationMessage(context.Background(), "upgrade the server", "Got it", "Don't show again")
	require.NoError(t, err)

	assert.Equal(t, "Don't show again", choice)
	assert.Contains(t, out.String(), "upgrade the server")
	assert.Contains(t, out.String(), "Got it")
}

func TestHost_ShowInformationMessage_NoActions(t *testing.T) {
	var out bytes.Buffer
	called := false
	h := New(&out, WithChooser(func(context.Context, string, []string) (string, error) {
		called = true
		return "x", nil
	}))

	choice, err := h.ShowInformationMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, choice)
	assert.False(t, called)
}

func TestHost_PreviewMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "welcome.md")
	require.NoError(t, os.WriteFile(path, []byte("# Welcome\n\nHello there."), 0o600))

	var out bytes.Buffer
	h := New(&out, WithWidth(60))

	require.NoError(t, h.ExecuteCommand(context.Background(), host.CommandShowMarkdownPreview, path))
	assert.Contains(t, out.String(), "Hello there.")
}

func TestHost_ExecuteCommand_Errors(t *testing.T) {
	h := New(&bytes.Buffer{})
	ctx := context.Background()

	assert.Error(t, h.ExecuteCommand(ctx, "workbench.action.reload"))
	assert.Error(t, h.ExecuteCommand(ctx, host.CommandShowMarkdownPreview))
	assert.Error(t, h.ExecuteCommand(ctx, host.CommandShowMarkdownPreview, 42))
	assert.Error(t, h.ExecuteCommand(ctx, host.CommandShowMarkdownPreview, filepath.Join(t.TempDir(), "missing.md")))
}

func TestHost_Registrations(t *testing.T) {
	h := New(&bytes.Buffer{})
	require.NoError(t, h.RegisterCodeActions(staticActions{}))
	require.NoError(t, h.RegisterInlineTips(staticTip{}))

	actions := h.CodeActions(host.Diagnostic{Message: "unused variable"})
	require.Len(t, actions, 1)
	assert.Equal(t, "fix unused variable", actions[0].Title)

	tip, ok := h.Tip(host.Selection{Text: "x := 1"})
	assert.True(t, ok)
	assert.Equal(t, "tip", tip)

	_, ok = h.Tip(host.Selection{})
	assert.False(t, ok)
}
