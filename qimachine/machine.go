// Package qimachine persists the machine-identity UUID described in
// §6: a single UUID v4, generated once and reused across runs, stored
// at $CONFIG_DIR/qimessaging/machine_id.
package qimachine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ID reads the machine identity from dir, generating and persisting a
// new one on first run.
func ID(dir string) (uuid.UUID, error) {
	path := filepath.Join(dir, "qimessaging", "machine_id")

	data, err := os.ReadFile(path)
	if err == nil {
		id, perr := uuid.Parse(strings.TrimSpace(string(data)))
		if perr == nil {
			return id, nil
		}
		// fall through: regenerate a corrupt file rather than fail outright
	} else if !os.IsNotExist(err) {
		return uuid.UUID{}, fmt.Errorf("qimachine: read %s: %w", path, err)
	}

	id := uuid.New()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return uuid.UUID{}, fmt.Errorf("qimachine: create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id.String()+"\n"), 0o644); err != nil {
		return uuid.UUID{}, fmt.Errorf("qimachine: write %s: %w", path, err)
	}
	return id, nil
}

// DefaultID reads the machine identity from os.UserConfigDir, the
// stdlib's cross-platform per-user config directory resolver — the
// pack has no third-party config-path library to ground an
// alternative on.
func DefaultID() (uuid.UUID, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("qimachine: resolve config dir: %w", err)
	}
	return ID(dir)
}
