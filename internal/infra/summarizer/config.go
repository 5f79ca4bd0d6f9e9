package summarizer

import (
	"fmt"
	"time"

	"docsum/pkg/config"
)

// GatewayConfig holds the connection settings for the OpenAI-compatible
// inference gateway that serves the registered summarization models.
type GatewayConfig struct {
	// BaseURL is the gateway endpoint, e.g. "http://inference:8080/v1".
	BaseURL string

	// APIKey authenticates against the gateway. May be empty for
	// deployments that sit behind network-level auth.
	APIKey string

	// Timeout is the maximum duration for a single inference call.
	Timeout time.Duration
}

// Validate checks the configuration.
func (c GatewayConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("gateway base URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// LoadGatewayConfig loads gateway settings from the environment.
//
// Environment variables:
//   - INFERENCE_GATEWAY_URL: gateway base URL (required)
//   - INFERENCE_GATEWAY_API_KEY: bearer token (optional)
//   - INFERENCE_TIMEOUT: per-call timeout (default: 60s)
func LoadGatewayConfig() (GatewayConfig, error) {
	cfg := GatewayConfig{
		BaseURL: config.GetEnvString("INFERENCE_GATEWAY_URL", ""),
		APIKey:  config.GetEnvString("INFERENCE_GATEWAY_API_KEY", ""),
		Timeout: config.GetEnvDuration("INFERENCE_TIMEOUT", 60*time.Second, config.ValidatePositiveDuration),
	}
	if err := cfg.Validate(); err != nil {
		return GatewayConfig{}, fmt.Errorf("invalid inference gateway configuration: %w", err)
	}
	return cfg, nil
}
