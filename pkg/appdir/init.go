package appdir

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed assets/welcome.md
var welcomeDoc []byte

const tsConfigContent = `{
  "compilerOptions": {
    "target": "ESNext",
    "useDefineForClassFields": true,
    "lib": ["DOM", "DOM.Iterable", "ESNext"],
    "allowJs": true,
    "skipLibCheck": true,
    "esModuleInterop": false,
    "allowSyntheticDefaultImports": true,
    "strict": true,
    "forceConsistentCasingInFileNames": true,
    "module": "System",
    "moduleResolution": "Node",
    "noEmit": false,
    "noEmitOnError": false,
    "outFile": "./out/config.js",
    "typeRoots": ["./node_modules/@types", "./types"]
  },
  "include": ["./config.ts"]
}
`

// EnsureStructure creates the root, local/, types/ and media/ directories if
// they are missing. It is safe to call multiple times.
func EnsureStructure(d Dir) error {
	for _, dir := range []string{d.root, d.LocalDir(), d.TypesDir(), d.MediaDir(), filepath.Dir(d.LogPath())} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("appdir: create %s: %w", dir, err)
		}
	}

	return nil
}

// EnsureTsConfig writes the default tsconfig.json if none exists and returns
// its path.
func EnsureTsConfig(d Dir) (string, error) {
	path := d.TsConfigPath()
	if err := writeIfMissing(path, []byte(tsConfigContent)); err != nil {
		return "", fmt.Errorf("appdir: tsconfig: %w", err)
	}

	return path, nil
}

// EnsureWelcome writes the bundled welcome document if none exists and
// returns its path. A user-edited copy is never overwritten.
func EnsureWelcome(d Dir) (string, error) {
	path := d.WelcomePath()
	if err := writeIfMissing(path, welcomeDoc); err != nil {
		return "", fmt.Errorf("appdir: welcome: %w", err)
	}

	return path, nil
}

func writeIfMissing(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
