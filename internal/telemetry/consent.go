package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ConsentFileName is the opt-in record inside the config directory.
const ConsentFileName = "telemetry.json"

// Consent is the locally stored opt-in state. Telemetry stays off until
// the user enables it explicitly.
type Consent struct {
	Enabled     bool   `json:"enabled"`
	AnonymousID string `json:"anonymousId"`
}

// LoadConsent reads the consent record from configDir. A missing file
// yields a disabled record with a fresh anonymous id; nothing is written
// until SaveConsent.
func LoadConsent(configDir string) (*Consent, error) {
	path := filepath.Join(configDir, ConsentFileName)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Consent{Enabled: false, AnonymousID: uuid.NewString()}, nil
	}
	if err != nil {
		return nil, err
	}

	var c Consent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.AnonymousID == "" {
		c.AnonymousID = uuid.NewString()
	}
	return &c, nil
}

// SaveConsent persists the consent record.
func SaveConsent(configDir string, c *Consent) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, ConsentFileName), raw, 0o600)
}
