package provider

import "strings"

// OpenAIProvider implements Provider for the OpenAI transcription API.
// Only whisper-1 returns word-level timestamps.
type OpenAIProvider struct{}

func (p *OpenAIProvider) Name() string         { return ProviderOpenAI }
func (p *OpenAIProvider) RequiresAPIKey() bool { return true }
func (p *OpenAIProvider) IsLocal() bool        { return false }
func (p *OpenAIProvider) DefaultModel() string { return "whisper-1" }

func (p *OpenAIProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "sk-")
}

func (p *OpenAIProvider) Models() []Model {
	return []Model{
		{
			ID:          "whisper-1",
			Name:        "Whisper 1",
			Description: "OpenAI's hosted whisper, word timestamps via verbose_json",
			AdapterType: AdapterOpenAI,
			Endpoint:    &EndpointConfig{BaseURL: "https://api.openai.com/v1", Path: "/audio/transcriptions"},
		},
	}
}

// GroqProvider implements Provider for Groq's OpenAI-compatible whisper API
type GroqProvider struct{}

func (p *GroqProvider) Name() string         { return ProviderGroq }
func (p *GroqProvider) RequiresAPIKey() bool { return true }
func (p *GroqProvider) IsLocal() bool        { return false }
func (p *GroqProvider) DefaultModel() string { return "whisper-large-v3-turbo" }

func (p *GroqProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "gsk_")
}

func (p *GroqProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: "https://api.groq.com/openai/v1", Path: "/audio/transcriptions"}
	return []Model{
		{
			ID:          "whisper-large-v3",
			Name:        "Whisper Large V3",
			Description: "Best accuracy on Groq",
			AdapterType: AdapterOpenAI,
			Endpoint:    endpoint,
		},
		{
			ID:          "whisper-large-v3-turbo",
			Name:        "Whisper Large V3 Turbo",
			Description: "Faster and cheaper, slightly lower accuracy",
			AdapterType: AdapterOpenAI,
			Endpoint:    endpoint,
		},
	}
}

// ElevenLabsProvider implements Provider for the ElevenLabs Scribe API
type ElevenLabsProvider struct{}

func (p *ElevenLabsProvider) Name() string         { return ProviderElevenLabs }
func (p *ElevenLabsProvider) RequiresAPIKey() bool { return true }
func (p *ElevenLabsProvider) IsLocal() bool        { return false }
func (p *ElevenLabsProvider) DefaultModel() string { return "scribe_v1" }

// ElevenLabs API keys don't have a consistent prefix, just check non-empty
func (p *ElevenLabsProvider) ValidateAPIKey(key string) bool {
	return len(key) > 0
}

func (p *ElevenLabsProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: "https://api.elevenlabs.io", Path: "/v1/speech-to-text"}
	return []Model{
		{
			ID:          "scribe_v1",
			Name:        "Scribe v1",
			Description: "90+ languages, word timestamps",
			AdapterType: AdapterElevenLabs,
			Endpoint:    endpoint,
		},
		{
			ID:          "scribe_v2",
			Name:        "Scribe v2",
			Description: "Lower latency batch transcription",
			AdapterType: AdapterElevenLabs,
			Endpoint:    endpoint,
		},
	}
}

// DeepgramProvider implements Provider for Deepgram pre-recorded transcription
type DeepgramProvider struct{}

func (p *DeepgramProvider) Name() string         { return ProviderDeepgram }
func (p *DeepgramProvider) RequiresAPIKey() bool { return true }
func (p *DeepgramProvider) IsLocal() bool        { return false }
func (p *DeepgramProvider) DefaultModel() string { return "nova-3" }

// Deepgram API keys are alphanumeric, just check non-empty
func (p *DeepgramProvider) ValidateAPIKey(key string) bool {
	return len(key) > 0
}

func (p *DeepgramProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: "https://api.deepgram.com", Path: "/v1/listen"}
	return []Model{
		{
			ID:          "nova-3",
			Name:        "Nova-3",
			Description: "Best accuracy, 40+ languages",
			AdapterType: AdapterDeepgram,
			Endpoint:    endpoint,
		},
		{
			ID:          "nova-2",
			Name:        "Nova-2",
			Description: "Fast, 30+ languages",
			AdapterType: AdapterDeepgram,
			Endpoint:    endpoint,
		},
	}
}
