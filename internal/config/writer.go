package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/josephgoksu/PromptWing/types"
)

// allowed per-service fields for SetServiceField.
var serviceFields = map[types.ServiceName]map[string]bool{
	types.ServiceDeepSeek:   {"apiKey": true, "model": true},
	types.ServiceKimi:       {"apiKey": true, "model": true},
	types.ServiceOpenRouter: {"apiKey": true, "model": true},
	types.ServiceCustom:     {"apiKey": true, "model": true, "endpoint": true},
}

// SetServiceField writes one per-service value to the global config file,
// preserving everything else in it.
func SetServiceField(service types.ServiceName, field, value string) error {
	fields, ok := serviceFields[service]
	if !ok {
		return fmt.Errorf("unknown service: %s", service)
	}
	if !fields[field] {
		return fmt.Errorf("unknown field %q for service %s", field, service)
	}
	return writeGlobalValue(serviceKey(service, field), value)
}

// SetActiveService records the backend selection in the global config file.
func SetActiveService(service types.ServiceName) error {
	if _, ok := serviceFields[service]; !ok {
		return fmt.Errorf("unknown service: %s", service)
	}
	return writeGlobalValue("services.active", string(service))
}

func writeGlobalValue(key string, value any) error {
	path, err := globalConfigFile()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Read existing config, if any, to preserve other settings.
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return err
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	// The file holds credentials; keep it private.
	return os.Chmod(path, 0o600)
}

func globalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
