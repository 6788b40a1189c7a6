package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/leonardotrapani/profanity-silencer/internal/config"
	"github.com/leonardotrapani/profanity-silencer/internal/language"
	"github.com/leonardotrapani/profanity-silencer/internal/models/whisper"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
)

// providerDisplayNames maps provider IDs to human-readable names.
var providerDisplayNames = map[string]string{
	provider.ProviderWhisperCpp:    "Whisper.cpp CLI (local)",
	provider.ProviderWhisperNative: "Whisper.cpp linked in (local, build tag)",
	provider.ProviderOpenAI:        "OpenAI",
	provider.ProviderGroq:          "Groq",
	provider.ProviderElevenLabs:    "ElevenLabs Scribe",
	provider.ProviderDeepgram:      "Deepgram",
}

func getProviderDisplayName(name string) string {
	if d, ok := providerDisplayNames[name]; ok {
		return d
	}
	return name
}

func providerOptions() []huh.Option[string] {
	names := provider.ListProviders()
	opts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		opts = append(opts, huh.NewOption(getProviderDisplayName(name), name))
	}
	return opts
}

// modelOptions lists a provider's models. Local models are marked with
// their install state in store.
func modelOptions(providerName string, store *whisper.Store) []huh.Option[string] {
	p := provider.GetProvider(providerName)
	if p == nil {
		return nil
	}
	models := p.Models()
	opts := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		opts = append(opts, huh.NewOption(modelLabel(m, store), m.ID))
	}
	return opts
}

func modelLabel(m provider.Model, store *whisper.Store) string {
	parts := []string{m.ID}
	if m.Description != "" {
		parts = append(parts, m.Description)
	}
	if m.Local && m.LocalInfo != nil {
		parts = append(parts, m.LocalInfo.Size)
		if store != nil && store.IsInstalled(m.ID) {
			parts = append(parts, "installed")
		} else {
			parts = append(parts, "not installed")
		}
	}
	return strings.Join(parts, " - ")
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

func validatePadding(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("padding must be a whole number of milliseconds")
	}
	if n < 0 || n > 5000 {
		return fmt.Errorf("padding must be between 0 and 5000 ms")
	}
	return nil
}

func validateBitrate(s string) error {
	cfg := config.DefaultConfig()
	cfg.Output.Bitrate = strings.TrimSpace(s)
	return cfg.Validate()
}

func languageOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption(language.Auto.Name, "")}
	for _, lang := range language.List() {
		label := lang.Name
		if lang.NativeName != "" && lang.NativeName != lang.Name {
			label += " (" + lang.NativeName + ")"
		}
		options = append(options, huh.NewOption(label, lang.Code))
	}
	return options
}

// summaryLines renders the settings shown before saving.
func summaryLines(cfg *config.Config) []string {
	lines := []string{
		fmt.Sprintf("  %s %s (%s)", StyleLabel.Render("Transcription:"), getProviderDisplayName(cfg.Transcription.Provider), cfg.Transcription.Model),
		fmt.Sprintf("  %s %s", StyleLabel.Render("Language:"), language.Label(cfg.Transcription.Language)),
		fmt.Sprintf("  %s %d ms", StyleLabel.Render("Padding:"), cfg.Silence.PaddingMs),
		fmt.Sprintf("  %s %s", StyleLabel.Render("Bitrate:"), cfg.Output.Bitrate),
	}
	if key := cfg.Providers[cfg.Transcription.Provider].APIKey; key != "" {
		lines = append(lines, fmt.Sprintf("  %s %s", StyleLabel.Render("API key:"), maskAPIKey(key)))
	}
	if cfg.Output.TranscriptPath != "" {
		lines = append(lines, fmt.Sprintf("  %s %s", StyleLabel.Render("Transcript:"), cfg.Output.TranscriptPath))
	}
	if cfg.Notifications.Enabled {
		lines = append(lines, fmt.Sprintf("  %s %s", StyleLabel.Render("Notify:"), cfg.Notifications.Type))
	}
	return lines
}
