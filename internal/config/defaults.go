// Package config resolves backend credentials and tuning knobs from Viper,
// environment variables, and defaults, and writes updates back to the
// global config file.
package config

import (
	"os"
	"path/filepath"

	"github.com/josephgoksu/PromptWing/types"
)

// DefaultService is used when no active backend is configured.
const DefaultService = types.ServiceDeepSeek

// Default model constants for each hosted backend.
const (
	DefaultDeepSeekModel   = "deepseek-chat"
	DefaultKimiModel       = "moonshot-v1-8k"
	DefaultOpenRouterModel = "openrouter/auto"
)

// ConfigFileName is the global config file inside the config directory.
const ConfigFileName = "config.yaml"

// DefaultModelForService returns the default model for a backend. Custom
// backends have no default; the user must name their model.
func DefaultModelForService(service types.ServiceName) string {
	switch service {
	case types.ServiceDeepSeek:
		return DefaultDeepSeekModel
	case types.ServiceKimi:
		return DefaultKimiModel
	case types.ServiceOpenRouter:
		return DefaultOpenRouterModel
	default:
		return ""
	}
}

// GetGlobalConfigDir returns the path to the global configuration directory
// (~/.promptwing). It is a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".promptwing"), nil
}
