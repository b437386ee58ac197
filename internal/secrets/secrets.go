// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads and writes the per-user credential file, a KEY=value
// dotenv file at ~/.config/last30days/.env. The file is created once by the
// setup flow with owner-only permissions and read by every run.
//
// Recognised keys: OPENAI_API_KEY, XAI_API_KEY, OPENAI_MODEL_POLICY,
// OPENAI_MODEL_PIN, XAI_MODEL_POLICY, XAI_MODEL_PIN.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// DefaultPath returns ~/.config/last30days/.env.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "last30days", ".env"), nil
}

// Exists reports whether the credential file is present. Its absence means
// the one-time setup flow has not run.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the credential file and returns its non-empty values with keys
// and values trimmed. A missing file is not an error; Load returns an empty map.
func Load(path string) (map[string]string, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credential file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		values[k] = v
	}
	return values, nil
}

// Write stores values at path with 0600 permissions, creating the parent
// directory with 0700. The file is written to a temporary sibling and
// renamed into place so a failed write never leaves a truncated file.
func Write(path string, values map[string]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	content, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".env-*")
	if err != nil {
		return fmt.Errorf("creating temporary credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting credential file permissions: %w", err)
	}
	if _, err := tmp.WriteString(content + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing credential file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("installing credential file %s: %w", path, err)
	}
	return nil
}
