package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/josephgoksu/PromptWing/types"
)

// ActiveService returns the configured backend selection, defaulting when
// unset.
func ActiveService() types.ServiceName {
	active := strings.TrimSpace(viper.GetString("services.active"))
	if active == "" {
		return DefaultService
	}
	return types.ServiceName(active)
}

// ActiveServiceConfig resolves the full configuration for the active
// backend. Precedence per field: explicit Viper config > provider-specific
// environment variable > default. A missing credential is not an error
// here; ValidateService reports completeness.
func ActiveServiceConfig() (types.ServiceConfig, error) {
	return ServiceConfigFor(ActiveService())
}

// ServiceConfigFor resolves the configuration for a named backend.
func ServiceConfigFor(service types.ServiceName) (types.ServiceConfig, error) {
	switch service {
	case types.ServiceDeepSeek, types.ServiceKimi, types.ServiceOpenRouter, types.ServiceCustom:
	default:
		return types.ServiceConfig{}, fmt.Errorf("unknown service: %s", service)
	}

	cfg := types.ServiceConfig{
		Service: service,
		APIKey:  ResolveAPIKey(service),
		Model:   strings.TrimSpace(viper.GetString(serviceKey(service, "model"))),
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModelForService(service)
	}
	if service == types.ServiceCustom {
		cfg.Endpoint = strings.TrimSpace(viper.GetString(serviceKey(service, "endpoint")))
	}
	return cfg, nil
}

// ResolveAPIKey returns the best API key for the given backend: the
// per-service config key first, then the backend-specific env var.
func ResolveAPIKey(service types.ServiceName) string {
	if key := strings.TrimSpace(viper.GetString(serviceKey(service, "apiKey"))); key != "" {
		return key
	}
	return serviceEnvKey(service)
}

func serviceEnvKey(service types.ServiceName) string {
	switch service {
	case types.ServiceDeepSeek:
		return strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY"))
	case types.ServiceKimi:
		key := strings.TrimSpace(os.Getenv("MOONSHOT_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("KIMI_API_KEY"))
		}
		return key
	case types.ServiceOpenRouter:
		return strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	default:
		return ""
	}
}

func serviceKey(service types.ServiceName, field string) string {
	return fmt.Sprintf("services.%s.%s", service, field)
}

// ValidateService reports whether a resolved configuration is complete
// enough to send requests, listing the missing field names when not. All
// backends need an API key and a model; a custom backend also needs its
// endpoint URL.
func ValidateService(cfg types.ServiceConfig) (bool, []string) {
	var missing []string
	if strings.TrimSpace(cfg.APIKey) == "" {
		missing = append(missing, "apiKey")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		missing = append(missing, "model")
	}
	if cfg.Service == types.ServiceCustom && strings.TrimSpace(cfg.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	return len(missing) == 0, missing
}

// MaxClarificationRounds returns the configured round ceiling, falling back
// to the given default when unset.
func MaxClarificationRounds(fallback int) int {
	if n := viper.GetInt("llm.maxClarificationRounds"); n > 0 {
		return n
	}
	return fallback
}
