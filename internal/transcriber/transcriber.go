// Package transcriber turns decoded audio into timestamped words using
// one of the registered speech-recognition providers.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/deps"
	"github.com/leonardotrapani/profanity-silencer/internal/models/whisper"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
)

// Transcriber produces an ordered word sequence for one recording.
type Transcriber interface {
	Transcribe(ctx context.Context, in Input) ([]transcript.Word, error)
	Close() error
}

// Input is the canonical WAV on disk together with its decoded samples.
// Adapters pick whichever form their backend needs.
type Input struct {
	Path  string
	Audio *audio.Buffer
}

// Config for the transcriber
type Config struct {
	Provider string
	Model    string
	Language string // empty means auto-detect
	APIKey   string
	Threads  int      // local providers only, 0 for auto
	Keywords []string // boosted terms for providers that support them
	ModelDir string   // whisper model directory, empty for the default
}

// DefaultConfig returns the local whisper-cli setup used with no config file.
func DefaultConfig() Config {
	return Config{
		Provider: provider.ProviderWhisperCpp,
		Model:    "base.en",
	}
}

// New builds the transcriber for cfg. Loading or locating the model is
// the only initialization step, and the caller owns the result.
func New(cfg Config) (Transcriber, error) {
	p := provider.GetProvider(cfg.Provider)
	if p == nil {
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if cfg.Model == "" {
		cfg.Model = p.DefaultModel()
	}

	if cfg.APIKey == "" && p.RequiresAPIKey() {
		if env := provider.EnvVarForProvider(cfg.Provider); env != "" {
			cfg.APIKey = os.Getenv(env)
		}
		if cfg.APIKey == "" {
			return nil, newSetupError(fmt.Errorf("%s API key required: set it in the config or %s", cfg.Provider, provider.EnvVarForProvider(cfg.Provider)), hintConfigure)
		}
	}

	if p.IsLocal() {
		return newLocal(cfg)
	}

	model, err := provider.FindModel(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, newSetupError(err, hintModelsList)
	}

	switch model.AdapterType {
	case provider.AdapterOpenAI:
		return NewOpenAIAdapter(model.Endpoint, cfg.APIKey, model.ID, cfg.Language), nil
	case provider.AdapterElevenLabs:
		return NewElevenLabsAdapter(model.Endpoint, cfg.APIKey, model.ID, cfg.Language, cfg.Keywords), nil
	case provider.AdapterDeepgram:
		return NewDeepgramAdapter(model.Endpoint, cfg.APIKey, model.ID, cfg.Language, cfg.Keywords), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", model.AdapterType)
	}
}

func newLocal(cfg Config) (Transcriber, error) {
	store, err := whisper.NewStore(cfg.ModelDir)
	if err != nil {
		return nil, newSetupError(err, "set transcription.model_dir in the config")
	}
	modelPath, err := store.Resolve(cfg.Model)
	if errors.Is(err, whisper.ErrNotInstalled) {
		return nil, newSetupError(err, "run `profanity-silencer models download "+cfg.Model+"`")
	}
	if err != nil {
		return nil, newSetupError(err, hintModelsList)
	}

	if cfg.Provider == provider.ProviderWhisperNative {
		engine, err := NewNativeEngine(modelPath, cfg.Language, cfg.Threads)
		if err != nil {
			return nil, newSetupError(err, "rebuild with -tags whisper_cpp or use --provider whisper-cpp")
		}
		return engine, nil
	}

	status := deps.CheckWhisperCli()
	if err := status.Err(); err != nil {
		return nil, newSetupError(err, hintInstallWhisper)
	}
	return NewWhisperCliAdapter(status.Path, modelPath, cfg.Language, cfg.Threads), nil
}
