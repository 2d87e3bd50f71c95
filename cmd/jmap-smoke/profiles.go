package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"go.mau.fi/util/jsontime"
)

const (
	defaultProfileDirName  = ".config/jmap-smoke"
	defaultProfileFileName = "profiles.json"
)

// Profile is one saved server and credential set.
type Profile struct {
	Host           string           `json:"host"`
	Username       string           `json:"username,omitempty"`
	Password       string           `json:"password,omitempty"`
	Token          string           `json:"token,omitempty"`
	RequestTimeout jsontime.Seconds `json:"request_timeout"`
}

// ProfileStore is the on-disk profile file.
type ProfileStore struct {
	Version  int                `json:"version"`
	Profiles map[string]Profile `json:"profiles"`
}

// resolveProfilePath resolves the store path, expanding a leading ~ and
// defaulting to a fixed location under the user's home directory.
func resolveProfilePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed != "" {
		if strings.HasPrefix(trimmed, "~") {
			if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
				return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
			}
		}
		return filepath.Clean(trimmed)
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return filepath.Join(os.TempDir(), "jmap-smoke", defaultProfileFileName)
	}
	return filepath.Join(home, defaultProfileDirName, defaultProfileFileName)
}

// loadProfiles reads the store, tolerating a missing file. A present but
// unparsable file is an error: the store holds credentials, so it must
// never be silently reset.
func loadProfiles(path string) (ProfileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileStore{Version: 1, Profiles: map[string]Profile{}}, nil
	}
	var parsed ProfileStore
	if err := json5.Unmarshal(data, &parsed); err != nil {
		return ProfileStore{}, fmt.Errorf("invalid profile store %s: %w", path, err)
	}
	if parsed.Version == 0 {
		parsed.Version = 1
	}
	if parsed.Profiles == nil {
		parsed.Profiles = map[string]Profile{}
	}
	return parsed, nil
}

// saveProfiles writes the store atomically, owner-readable only.
func saveProfiles(path string, store ProfileStore) error {
	if store.Version == 0 {
		store.Version = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	payload, err := json5.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
