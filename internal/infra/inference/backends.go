package inference

import (
	"fmt"

	"docsum/internal/domain/entity"
	"docsum/internal/infra/summarizer"
)

// BackendTable is the straightforward Backends implementation: a fixed map
// from model id to backend, built once at startup and read-only afterwards.
type BackendTable map[string]summarizer.Summarizer

// Backend implements Backends.
func (t BackendTable) Backend(modelID string) (summarizer.Summarizer, bool) {
	s, ok := t[modelID]
	return s, ok
}

// BuildBackends constructs one backend per registered model, dispatching on
// the spec's provider. Gateway-backed models share the gateway config;
// anthropic-backed models need ANTHROPIC_API_KEY in anthropicKey.
func BuildBackends(specs []entity.ModelSpec, gateway summarizer.GatewayConfig, anthropicKey string) (BackendTable, error) {
	table := make(BackendTable, len(specs))
	for _, spec := range specs {
		switch spec.Provider {
		case entity.ProviderOpenAICompat, "":
			table[spec.ID] = summarizer.NewOpenAICompat(gateway, spec)
		case entity.ProviderAnthropic:
			if anthropicKey == "" {
				return nil, fmt.Errorf("model %q requires an anthropic api key", spec.ID)
			}
			table[spec.ID] = summarizer.NewClaude(anthropicKey, spec, gateway.Timeout)
		case entity.ProviderNoop:
			table[spec.ID] = summarizer.NewNoOp()
		default:
			return nil, fmt.Errorf("model %q has unsupported provider %q", spec.ID, spec.Provider)
		}
	}
	return table, nil
}
