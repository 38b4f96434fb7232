package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/PromptWing/types"
)

// PortableConfig is the shareable subset of the configuration. API keys are
// deliberately absent: an exported file must be safe to attach to a ticket
// or commit to a dotfiles repo.
type PortableConfig struct {
	Services struct {
		Active     string          `yaml:"active,omitempty"`
		DeepSeek   portableService `yaml:"deepseek,omitempty"`
		Kimi       portableService `yaml:"kimi,omitempty"`
		OpenRouter portableService `yaml:"openrouter,omitempty"`
		Custom     portableCustom  `yaml:"custom,omitempty"`
	} `yaml:"services"`
	LLM struct {
		MaxClarificationRounds int `yaml:"maxClarificationRounds,omitempty"`
	} `yaml:"llm,omitempty"`
}

type portableService struct {
	Model string `yaml:"model,omitempty"`
}

type portableCustom struct {
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Export writes the current configuration, minus credentials, as YAML.
func Export(w io.Writer) error {
	var p PortableConfig
	p.Services.Active = viper.GetString("services.active")
	p.Services.DeepSeek.Model = viper.GetString("services.deepseek.model")
	p.Services.Kimi.Model = viper.GetString("services.kimi.model")
	p.Services.OpenRouter.Model = viper.GetString("services.openrouter.model")
	p.Services.Custom.Model = viper.GetString("services.custom.model")
	p.Services.Custom.Endpoint = viper.GetString("services.custom.endpoint")
	p.LLM.MaxClarificationRounds = viper.GetInt("llm.maxClarificationRounds")

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&p); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Import merges a portable configuration into the global config file.
// Present fields overwrite, absent fields are left alone, and stored API
// keys are never touched.
func Import(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var p PortableConfig
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	type update struct {
		key   string
		value string
	}
	updates := []update{
		{"services.active", p.Services.Active},
		{serviceKey(types.ServiceDeepSeek, "model"), p.Services.DeepSeek.Model},
		{serviceKey(types.ServiceKimi, "model"), p.Services.Kimi.Model},
		{serviceKey(types.ServiceOpenRouter, "model"), p.Services.OpenRouter.Model},
		{serviceKey(types.ServiceCustom, "model"), p.Services.Custom.Model},
		{serviceKey(types.ServiceCustom, "endpoint"), p.Services.Custom.Endpoint},
	}
	for _, u := range updates {
		if u.value == "" {
			continue
		}
		if err := writeGlobalValue(u.key, u.value); err != nil {
			return err
		}
		viper.Set(u.key, u.value)
	}
	if p.LLM.MaxClarificationRounds > 0 {
		if err := writeGlobalValue("llm.maxClarificationRounds", p.LLM.MaxClarificationRounds); err != nil {
			return err
		}
		viper.Set("llm.maxClarificationRounds", p.LLM.MaxClarificationRounds)
	}
	return nil
}
