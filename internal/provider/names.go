package provider

// Provider names as used in config (transcription.provider)
const (
	ProviderWhisperCpp    = "whisper-cpp"
	ProviderWhisperNative = "whisper-native"
	ProviderOpenAI        = "openai"
	ProviderGroq          = "groq"
	ProviderElevenLabs    = "elevenlabs"
	ProviderDeepgram      = "deepgram"
)

// Adapter type constants for transcription backends
const (
	AdapterWhisperCpp    = "whisper-cpp"
	AdapterWhisperNative = "whisper-native"
	AdapterOpenAI        = "openai"
	AdapterElevenLabs    = "elevenlabs"
	AdapterDeepgram      = "deepgram"
)

// Environment variable names for API keys
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvDeepgramKey   = "DEEPGRAM_API_KEY"
)

// EnvVarForProvider returns the environment variable name for a provider's API key
func EnvVarForProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return EnvOpenAIKey
	case ProviderGroq:
		return EnvGroqKey
	case ProviderElevenLabs:
		return EnvElevenLabsKey
	case ProviderDeepgram:
		return EnvDeepgramKey
	default:
		return ""
	}
}
