/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// ServiceName identifies a supported AI backend.
type ServiceName string

const (
	ServiceDeepSeek   ServiceName = "deepseek"
	ServiceKimi       ServiceName = "kimi"
	ServiceOpenRouter ServiceName = "openrouter"
	ServiceCustom     ServiceName = "custom"
)

// ServiceConfig is the resolved credential/model/endpoint triple for the
// active backend. It is immutable per request; every network call requires
// one.
type ServiceConfig struct {
	Service ServiceName
	APIKey  string
	Model   string
	// Endpoint is only consulted for ServiceCustom, where it is mandatory.
	Endpoint string
}

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose"`
	Config     string           `mapstructure:"config"`
	Services   ServicesConfig   `mapstructure:"services" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"omitempty"`
	Frameworks FrameworksConfig `mapstructure:"frameworks" validate:"omitempty"`
	History    HistoryConfig    `mapstructure:"history" validate:"omitempty"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" validate:"omitempty"`
}

// ServicesConfig holds per-backend credentials plus the active selection.
type ServicesConfig struct {
	Active     string        `mapstructure:"active" validate:"omitempty,oneof=deepseek kimi openrouter custom"`
	DeepSeek   ServiceCreds  `mapstructure:"deepseek"`
	Kimi       ServiceCreds  `mapstructure:"kimi"`
	OpenRouter ServiceCreds  `mapstructure:"openrouter"`
	Custom     CustomService `mapstructure:"custom"`
}

// ServiceCreds is a key/model pair for a hosted backend.
type ServiceCreds struct {
	APIKey string `mapstructure:"apiKey"`
	Model  string `mapstructure:"model"`
}

// CustomService is an OpenAI-compatible backend the user hosts or proxies;
// unlike the hosted backends it also needs an endpoint URL.
type CustomService struct {
	APIKey   string `mapstructure:"apiKey"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// LLMConfig holds tuning knobs for completion calls.
type LLMConfig struct {
	// RequestTimeoutSeconds controls the per-attempt HTTP timeout.
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
	// MaxRetries bounds automatic retries on rate-limit responses.
	MaxRetries int `mapstructure:"maxRetries" validate:"omitempty,min=0,max=3"`
	// MaxClarificationRounds bounds the question/answer loop per conversation.
	MaxClarificationRounds int `mapstructure:"maxClarificationRounds" validate:"omitempty,min=1,max=5"`
	// Debug enables extra request/response logging in the completion client.
	Debug bool `mapstructure:"debug"`
}

// FrameworksConfig points the catalog at an optional override directory.
// When unset, the embedded resource pack is used.
type FrameworksConfig struct {
	Dir string `mapstructure:"dir"`
}

// HistoryConfig controls the generated-prompt archive.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

// TelemetryConfig controls opt-in anonymous usage events.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
