// Package settings exposes the user-controlled editor settings the extension
// reads, such as continue.manuallyRunningServer. Values are layered from
// built-in defaults, a JSONC settings file, CONTINUE_* environment variables
// and command-line flags, in that order. Settings are read-only once loaded.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/matthewmueller/jsonc"
	"github.com/spf13/pflag"
)

// Setting keys read by the extension.
const (
	KeyManuallyRunningServer = "continue.manuallyRunningServer"
	KeyTelemetryEnabled      = "continue.telemetryEnabled"
	KeyTelemetryEndpoint     = "continue.telemetryEndpoint"
	KeyTelemetryAPIKey       = "continue.telemetryApiKey"
)

// EnvPrefix is the prefix of environment variables mapped onto settings.
const EnvPrefix = "CONTINUE_"

var defaults = map[string]any{
	KeyManuallyRunningServer: false,
	KeyTelemetryEnabled:      true,
	KeyTelemetryEndpoint:     "",
	KeyTelemetryAPIKey:       "",
}

// Options controls where settings are loaded from.
type Options struct {
	// Path is a JSONC settings file. A missing file is not an error.
	Path string
	// Env enables CONTINUE_* environment variables.
	Env bool
	// Flags are applied last. Only flags named in FlagKeys and explicitly
	// set on the command line are used.
	Flags    *pflag.FlagSet
	FlagKeys map[string]string
}

// Settings is a read-only view over the layered settings.
type Settings struct {
	k *koanf.Koanf
}

// Load builds Settings from opts.
func Load(opts Options) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("settings: load defaults: %w", err)
	}

	if opts.Path != "" {
		if err := k.Load(file.Provider(opts.Path), Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("settings: load %s: %w", opts.Path, err)
		}
	}

	if opts.Env {
		if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, fmt.Errorf("settings: load env: %w", err)
		}
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := opts.FlagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}

			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("settings: load flags: %w", err)
		}
	}

	return &Settings{k: k}, nil
}

// FromMap returns Settings holding the defaults overridden by values. Keys are
// full dotted setting names.
func FromMap(values map[string]any) *Settings {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults, "."), nil)
	_ = k.Load(confmap.Provider(values, "."), nil)

	return &Settings{k: k}
}

// Bool returns the boolean setting at key, false when unset.
func (s *Settings) Bool(key string) bool { return s.k.Bool(key) }

// String returns the string setting at key, "" when unset.
func (s *Settings) String(key string) string { return s.k.String(key) }

// All returns every setting as a flat map.
func (s *Settings) All() map[string]any { return s.k.All() }

// ManuallyRunningServer reports whether the user runs the legacy server
// process themselves.
func (s *Settings) ManuallyRunningServer() bool { return s.Bool(KeyManuallyRunningServer) }

// TelemetryEnabled reports whether anonymous telemetry may be sent.
func (s *Settings) TelemetryEnabled() bool { return s.Bool(KeyTelemetryEnabled) }

// TelemetryEndpoint returns the capture endpoint, or "" to log events only.
func (s *Settings) TelemetryEndpoint() string { return s.String(KeyTelemetryEndpoint) }

// TelemetryAPIKey returns the project key sent with captured events.
func (s *Settings) TelemetryAPIKey() string { return s.String(KeyTelemetryAPIKey) }

// envKey maps CONTINUE_MANUALLY_RUNNING_SERVER to continue.manuallyRunningServer.
func envKey(name, value string) (string, interface{}) {
	rest := strings.TrimPrefix(name, EnvPrefix)
	if rest == "" || rest == "GLOBAL_DIR" {
		return "", nil
	}

	parts := strings.Split(strings.ToLower(rest), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}

	return "continue." + strings.Join(parts, ""), value
}

// JSONC parses editor-style settings files: JSON with comments, trailing
// commas and dotted top-level keys.
type JSONC struct{}

// Parser returns a koanf parser for JSONC settings files.
func Parser() *JSONC { return &JSONC{} }

// Unmarshal parses b into a nested map.
func (p *JSONC) Unmarshal(b []byte) (map[string]interface{}, error) {
	std, err := jsonc.Standardize(b)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal(std, &out); err != nil {
		return nil, err
	}

	return maps.Unflatten(out, "."), nil
}

// Marshal encodes o as indented JSON.
func (p *JSONC) Marshal(o map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}
