package provider

import "github.com/leonardotrapani/profanity-silencer/internal/models/whisper"

// WhisperCppProvider runs the whisper-cli binary from whisper.cpp
type WhisperCppProvider struct{}

func (p *WhisperCppProvider) Name() string                   { return ProviderWhisperCpp }
func (p *WhisperCppProvider) RequiresAPIKey() bool           { return false }
func (p *WhisperCppProvider) ValidateAPIKey(key string) bool { return true }
func (p *WhisperCppProvider) IsLocal() bool                  { return true }
func (p *WhisperCppProvider) DefaultModel() string           { return "base.en" }

func (p *WhisperCppProvider) Models() []Model {
	return localModels(AdapterWhisperCpp)
}

// WhisperNativeProvider links whisper.cpp in-process (build tag whisper_cpp)
type WhisperNativeProvider struct{}

func (p *WhisperNativeProvider) Name() string                   { return ProviderWhisperNative }
func (p *WhisperNativeProvider) RequiresAPIKey() bool           { return false }
func (p *WhisperNativeProvider) ValidateAPIKey(key string) bool { return true }
func (p *WhisperNativeProvider) IsLocal() bool                  { return true }
func (p *WhisperNativeProvider) DefaultModel() string           { return "base.en" }

func (p *WhisperNativeProvider) Models() []Model {
	return localModels(AdapterWhisperNative)
}

func localModels(adapter string) []Model {
	catalogue := whisper.ListModels()
	result := make([]Model, 0, len(catalogue))
	for _, wm := range catalogue {
		result = append(result, Model{
			ID:          wm.ID,
			Name:        wm.Name,
			Description: modelDescription(wm),
			Local:       true,
			AdapterType: adapter,
			LocalInfo: &LocalModelInfo{
				Filename:    wm.Filename,
				Size:        wm.Size,
				DownloadURL: whisper.GetDownloadURL(wm.ID),
			},
		})
	}
	return result
}

func modelDescription(m whisper.ModelInfo) string {
	switch m.ID {
	case "tiny.en":
		return "fastest, misses quiet or fast speech"
	case "base.en":
		return "balanced speed and accuracy, recommended start"
	case "small.en", "small":
		return "better word timing, needs decent CPU"
	case "medium.en", "medium":
		return "high accuracy, needs good CPU/RAM"
	case "large-v3":
		return "best accuracy, needs strong hardware"
	case "large-v3-turbo":
		return "near-best accuracy with better speed"
	}
	if m.Multilingual {
		return "multilingual"
	}
	return "English only"
}
