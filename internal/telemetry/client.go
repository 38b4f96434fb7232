// Package telemetry sends opt-in anonymous usage events. Events carry no
// prompt text, no credentials, and no user identifiers beyond a random
// per-install id.
package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client is the interface for telemetry clients, allowing a no-op swap when
// telemetry is disabled and mocking in tests.
type Client interface {
	// Track sends an event asynchronously; a no-op when disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events. It must never block the CLI for long.
	Close() error
}

// Properties is a type alias for event properties.
type Properties = map[string]any

// enqueuer is the subset of the PostHog client used here, extracted so
// tests can substitute a recorder.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient wraps the PostHog SDK for async event delivery.
type PostHogClient struct {
	client      enqueuer
	consent     *Consent
	version     string
	mu          sync.RWMutex
	initialized bool
}

// ClientConfig holds what is needed to initialize the telemetry client.
type ClientConfig struct {
	// APIKey is the PostHog project API key. Empty disables telemetry.
	APIKey string

	// Version is the CLI version string.
	Version string

	// Consent is the stored opt-in state and anonymous id.
	Consent *Consent

	// Endpoint optionally points at a self-hosted PostHog instance.
	Endpoint string
}

// NewClient creates a telemetry client. Without an API key or consent
// record it returns an uninitialized client that drops every event.
func NewClient(cfg ClientConfig) (*PostHogClient, error) {
	if cfg.APIKey == "" || cfg.Consent == nil {
		return &PostHogClient{consent: cfg.Consent, version: cfg.Version}, nil
	}

	phConfig := posthog.Config{
		// The CLI exits quickly and sends few events.
		BatchSize: 10,
		Interval:  1 * time.Second,
		// Transport warnings must never pollute normal CLI output.
		Logger: quietLogger{},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}

	return &PostHogClient{
		client:      client,
		consent:     cfg.Consent,
		version:     cfg.Version,
		initialized: true,
	}, nil
}

// newClientWithEnqueuer creates a client with a custom enqueuer, for tests.
func newClientWithEnqueuer(enq enqueuer, consent *Consent, version string) *PostHogClient {
	return &PostHogClient{
		client:      enq,
		consent:     consent,
		version:     version,
		initialized: true,
	}
}

// Track sends one event. It returns immediately; the SDK handles batching
// and dispatch.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized || c.consent == nil || !c.consent.Enabled {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)
	// Keep events truly anonymous: no person profiles.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.consent.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue via the SDK's own timeouts.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NoopClient drops every event. Used when telemetry is disabled.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

func NewNoopClient() *NoopClient { return &NoopClient{} }

// quietLogger suppresses PostHog client logs.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
