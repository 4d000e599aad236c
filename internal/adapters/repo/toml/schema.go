package toml

import "fmt"

const currentSchemaVersion = 1

type sessionFileSchema struct {
	Version int            `toml:"version"`
	Session *sessionSchema `toml:"session,omitempty"`
}

type sessionSchema struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	SelectedAt string `toml:"selected_at,omitempty"`
}

func (s *sessionFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s sessionFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}
