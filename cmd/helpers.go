package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/josephgoksu/PromptWing/internal/catalog"
	"github.com/josephgoksu/PromptWing/internal/config"
	"github.com/josephgoksu/PromptWing/internal/conversation"
	"github.com/josephgoksu/PromptWing/internal/engine"
	"github.com/josephgoksu/PromptWing/internal/history"
	"github.com/josephgoksu/PromptWing/internal/telemetry"
	"github.com/josephgoksu/PromptWing/llm"
)

// newCatalog loads the framework catalog, honoring a configured override
// directory.
func newCatalog() (*catalog.Catalog, error) {
	var opts []catalog.Option
	if dir := viper.GetString("frameworks.dir"); dir != "" {
		opts = append(opts, catalog.WithOverrideDir(dir))
	}
	cat := catalog.New(opts...)
	if !cat.Initialize() {
		return nil, fmt.Errorf("failed to load the framework catalog")
	}
	return cat, nil
}

// newCompletionClient builds the HTTP client from the tuning knobs.
func newCompletionClient() *llm.Client {
	timeout := time.Duration(viper.GetInt("llm.requestTimeoutSeconds")) * time.Second
	return llm.NewClient(timeout, viper.GetInt("llm.maxRetries"), viper.GetBool("llm.debug"))
}

// newController wires the full conversation stack.
func newController(cat *catalog.Catalog) *conversation.Controller {
	client := newCompletionClient()
	templates := engine.WithTemplatesDir(viper.GetString("prompts.templatesDir"))
	return conversation.NewController(
		engine.NewMatcher(client, cat, templates),
		engine.NewClarifier(client),
		engine.NewComposer(client, templates),
		cat,
		config.ActiveServiceConfig,
		conversation.WithMaxRounds(config.MaxClarificationRounds(conversation.DefaultMaxRounds)),
	)
}

// newHistoryStore opens the prompt archive, or returns nil when history is
// disabled.
func newHistoryStore() (*history.Store, error) {
	if !viper.GetBool("history.enabled") {
		return nil, nil
	}
	return history.NewStore(viper.GetString("history.file"))
}

// newTelemetryClient returns the configured telemetry client; disabled or
// unconfigured telemetry yields a no-op client.
func newTelemetryClient() telemetry.Client {
	if !viper.GetBool("telemetry.enabled") {
		return telemetry.NewNoopClient()
	}
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return telemetry.NewNoopClient()
	}
	consent, err := telemetry.LoadConsent(dir)
	if err != nil {
		return telemetry.NewNoopClient()
	}
	consent.Enabled = true
	client, err := telemetry.NewClient(telemetry.ClientConfig{
		APIKey:  viper.GetString("telemetry.apiKey"),
		Version: version,
		Consent: consent,
	})
	if err != nil {
		return telemetry.NewNoopClient()
	}
	return client
}
