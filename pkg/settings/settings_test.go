package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(Options{})
	require.NoError(t, err)

	assert.False(t, s.ManuallyRunningServer())
	assert.True(t, s.TelemetryEnabled())
	assert.Empty(t, s.TelemetryEndpoint())
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	s, err := Load(Options{Path: filepath.Join(t.TempDir(), "settings.json")})
	require.NoError(t, err)
	assert.False(t, s.ManuallyRunningServer())
}

func TestLoad_JSONCFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	data := `{
  // legacy server mode
  "continue.manuallyRunningServer": true,
  "continue.telemetryEnabled": false,
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	s, err := Load(Options{Path: path})
	require.NoError(t, err)

	assert.True(t, s.ManuallyRunningServer())
	assert.False(t, s.TelemetryEnabled())
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"continue.manuallyRunningServer": `), 0o600))

	_, err := Load(Options{Path: path})
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONTINUE_MANUALLY_RUNNING_SERVER", "true")
	t.Setenv("CONTINUE_TELEMETRY_ENDPOINT", "https://example.test")

	s, err := Load(Options{Env: true})
	require.NoError(t, err)

	assert.True(t, s.ManuallyRunningServer())
	assert.Equal(t, "https://example.test", s.TelemetryEndpoint())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CONTINUE_MANUALLY_RUNNING_SERVER", "true")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("manually-running-server", false, "")
	fs.Bool("unmapped", true, "")
	require.NoError(t, fs.Parse([]string{"--manually-running-server=false"}))

	s, err := Load(Options{
		Env:      true,
		Flags:    fs,
		FlagKeys: map[string]string{"manually-running-server": KeyManuallyRunningServer},
	})
	require.NoError(t, err)

	assert.False(t, s.ManuallyRunningServer())
	_, ok := s.All()["unmapped"]
	assert.False(t, ok)
}

func TestLoad_UnchangedFlagKeepsLowerLayer(t *testing.T) {
	t.Setenv("CONTINUE_MANUALLY_RUNNING_SERVER", "true")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("manually-running-server", false, "")
	require.NoError(t, fs.Parse(nil))

	s, err := Load(Options{
		Env:      true,
		Flags:    fs,
		FlagKeys: map[string]string{"manually-running-server": KeyManuallyRunningServer},
	})
	require.NoError(t, err)

	assert.True(t, s.ManuallyRunningServer())
}

func TestFromMap(t *testing.T) {
	s := FromMap(map[string]any{KeyManuallyRunningServer: true})

	assert.True(t, s.ManuallyRunningServer())
	assert.True(t, s.TelemetryEnabled())
}

func TestEnvKey(t *testing.T) {
	key, v := envKey("CONTINUE_TELEMETRY_API_KEY", "k")
	assert.Equal(t, KeyTelemetryAPIKey, key)
	assert.Equal(t, "k", v)

	key, _ = envKey("CONTINUE_GLOBAL_DIR", "/tmp")
	assert.Empty(t, key)
}
