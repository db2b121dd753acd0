package hosttest

import (
	"context"
	"errors"
	"testing"

	"github.com/germanamz/continuum/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tips struct{}

func (tips) Tip(host.Selection) (string, bool) { return "", false }

var _ host.Host = (*Recorder)(nil)

func TestRecorder_Strict(t *testing.T) {
	r := &Recorder{StrictRegistration: true}

	require.NoError(t, r.RegisterInlineTips(tips{}))
	assert.ErrorIs(t, r.RegisterInlineTips(tips{}), ErrAlreadyRegistered)
	assert.Len(t, r.InlineTipProviders(), 1)
}

func TestRecorder_CommandsAndMessages(t *testing.T) {
	r := &Recorder{CommandErr: errors.New("boom"), Respond: Choose("Yes")}

	assert.Error(t, r.ExecuteCommand(context.Background(), host.CommandShowMarkdownPreview, "/tmp/a.md"))
	r.CommandErr = nil
	require.NoError(t, r.ExecuteCommand(context.Background(), "other"))
	assert.Len(t, r.CommandsNamed(host.CommandShowMarkdownPreview), 1)
	assert.Len(t, r.Commands(), 2)

	choice, err := r.ShowInformationMessage(context.Background(), "hello", "Yes", "No")
	require.NoError(t, err)
	assert.Equal(t, "Yes", choice)
	assert.Equal(t, []Message{{Text: "hello", Actions: []string{"Yes", "No"}}}, r.Messages())
}
