package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema_Defaults(t *testing.T) {
	for _, f := range Flavors() {
		data, err := json.Marshal(Defaults(f))
		require.NoError(t, err)

		issues, err := ValidateSchema(data)
		require.NoError(t, err)
		assert.Empty(t, issues, "flavor %s", f)
	}
}

func TestValidateSchema_MissingTitle(t *testing.T) {
	raw := []byte(`{
  // title intentionally left out
  "models": [{"provider": "ollama", "model": "llama3"}]
}`)

	issues, err := ValidateSchema(raw)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, "/models/0", issues[0].Path)
	assert.Contains(t, issues[0].Message, "title")
}

func TestValidateSchema_WrongType(t *testing.T) {
	issues, err := ValidateSchema([]byte(`{"slashCommands": "edit"}`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "/slashCommands", issues[0].Path)
}

func TestValidateSchema_Unparsable(t *testing.T) {
	_, err := ValidateSchema([]byte(`{"models": [`))
	assert.Error(t, err)
}
