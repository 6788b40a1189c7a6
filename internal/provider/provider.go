package provider

import (
	"fmt"
	"sort"
)

// Provider describes a transcription backend that can return word timings.
type Provider interface {
	Name() string
	RequiresAPIKey() bool
	ValidateAPIKey(key string) bool
	IsLocal() bool
	Models() []Model
	DefaultModel() string
}

var registry = make(map[string]Provider)

func init() {
	Register(&WhisperCppProvider{})
	Register(&WhisperNativeProvider{})
	Register(&OpenAIProvider{})
	Register(&GroqProvider{})
	Register(&ElevenLabsProvider{})
	Register(&DeepgramProvider{})
}

// Register adds a provider to the registry
func Register(p Provider) {
	registry[p.Name()] = p
}

// GetProvider returns a provider by name, or nil if not found
func GetProvider(name string) Provider {
	return registry[name]
}

// ListProviders returns all registered provider names, sorted
func ListProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindModel looks up a model of a specific provider.
func FindModel(providerName, modelID string) (*Model, error) {
	p := GetProvider(providerName)
	if p == nil {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	for _, m := range p.Models() {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("unknown model %q for provider %s", modelID, providerName)
}

// FindModelByID searches every provider for a model ID. Local providers
// share the whisper catalogue, so the first match in name order wins.
func FindModelByID(modelID string) (*Model, Provider, error) {
	for _, name := range ListProviders() {
		p := registry[name]
		for _, m := range p.Models() {
			if m.ID == modelID {
				return &m, p, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("model not found: %s", modelID)
}

// ModelIDs returns the model IDs of a provider in declaration order.
func ModelIDs(p Provider) []string {
	models := p.Models()
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}
