package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int                `toml:"version"`
	Credentials []credentialSchema `toml:"credentials"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported credentials schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type credentialSchema struct {
	Game        string `toml:"game"`
	LtUID       string `toml:"ltuid_v2"`
	LtToken     string `toml:"ltoken_v2"`
	AccountID   string `toml:"account_id_v2"`
	CookieToken string `toml:"cookie_token_v2"`
	Lang        string `toml:"lang,omitempty"`
}
