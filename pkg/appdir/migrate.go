package appdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MigrateLegacyState moves a globalState.json left at the root by older
// releases into local/. An existing local copy always wins and the legacy
// file is then left alone. It reports whether a file was moved. Run it before
// the state store is opened.
func MigrateLegacyState(d Dir) (bool, error) {
	moved, err := moveIfAbsent(d.LegacyStatePath(), d.StatePath())
	if err != nil {
		return false, fmt.Errorf("appdir: migrate state: %w", err)
	}

	return moved, nil
}

// moveIfAbsent renames src to dst when src exists and dst does not. It
// reports whether a rename happened.
func moveIfAbsent(src, dst string) (bool, error) {
	switch _, err := os.Stat(src); {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}

	switch _, err := os.Stat(dst); {
	case err == nil:
		return false, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return false, err
	}

	if err := os.Rename(src, dst); err != nil {
		return false, err
	}

	return true, nil
}
