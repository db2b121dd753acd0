// Package appdir encapsulates path knowledge for the assistant's global
// directory. It provides a Dir value object with accessors for the user
// config, settings, durable state, type definitions, bundled media and logs.
package appdir

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// EnvGlobalDir overrides the default global directory location.
const EnvGlobalDir = "CONTINUE_GLOBAL_DIR"

// Dir is a value object that resolves paths within the global directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use EnsureStructure to create the
// directory layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Default returns the Dir named by $CONTINUE_GLOBAL_DIR, falling back to
// continuum/ under the XDG config home.
func Default() Dir {
	if root := os.Getenv(EnvGlobalDir); root != "" {
		return New(root)
	}

	return New(filepath.Join(xdg.ConfigHome, "continuum"))
}

// Root returns the absolute path to the global directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the user configuration file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.json") }

// SettingsPath returns the path to the editor-style settings file.
func (d Dir) SettingsPath() string { return filepath.Join(d.root, "settings.json") }

// LocalDir returns the path to the machine-local runtime state directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// StatePath returns the path to the durable global state file inside local/.
func (d Dir) StatePath() string { return filepath.Join(d.root, "local", "globalState.json") }

// LegacyStatePath returns where earlier versions kept the global state.
func (d Dir) LegacyStatePath() string { return filepath.Join(d.root, "globalState.json") }

// TypesDir returns the directory holding config type definitions.
func (d Dir) TypesDir() string { return filepath.Join(d.root, "types") }

// TsConfigPath returns the path to the tsconfig used to type-check config.ts.
func (d Dir) TsConfigPath() string { return filepath.Join(d.root, "types", "tsconfig.json") }

// MediaDir returns the directory holding bundled documents.
func (d Dir) MediaDir() string { return filepath.Join(d.root, "media") }

// WelcomePath returns the path to the welcome document.
func (d Dir) WelcomePath() string { return filepath.Join(d.root, "media", "welcome.md") }

// LogPath returns the path to the rotating log file.
func (d Dir) LogPath() string { return filepath.Join(d.root, "local", "logs", "continuum.log") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
