// Package tui holds the interactive configuration wizard and the shared
// terminal styles.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/leonardotrapani/profanity-silencer/internal/config"
	"github.com/leonardotrapani/profanity-silencer/internal/language"
	"github.com/leonardotrapani/profanity-silencer/internal/models/whisper"
	"github.com/leonardotrapani/profanity-silencer/internal/notify"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/muesli/termenv"
)

// ConfigureResult holds the configuration result from the wizard
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// Run walks through the settings starting from existing and returns the
// edited copy. Nothing is written to disk here.
func Run(existing *config.Config) (*ConfigureResult, error) {
	if existing == nil {
		existing = config.DefaultConfig()
	}
	cfg := *existing
	cfg.Providers = make(map[string]config.ProviderConfig, len(existing.Providers))
	for k, v := range existing.Providers {
		cfg.Providers[k] = v
	}

	clearScreen()
	fmt.Println(Logo())
	fmt.Println()

	store, err := whisper.NewStore(cfg.Transcription.ModelDir)
	if err != nil {
		return nil, err
	}

	steps := []func(*config.Config, *whisper.Store) error{
		editProvider,
		editModel,
		editAPIKey,
		editSilence,
	}
	for _, step := range steps {
		if err := step(&cfg, store); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return &ConfigureResult{Cancelled: true}, nil
			}
			return nil, err
		}
	}

	confirmed, err := showSummary(&cfg)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return nil, err
	}
	if !confirmed {
		return &ConfigureResult{Cancelled: true}, nil
	}
	return &ConfigureResult{Config: &cfg}, nil
}

func editProvider(cfg *config.Config, _ *whisper.Store) error {
	selected := cfg.Transcription.Provider
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Provider").
				Description("Service used to find each word and its timing").
				Options(providerOptions()...).
				Value(&selected),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}
	if selected != cfg.Transcription.Provider {
		cfg.Transcription.Model = ""
	}
	cfg.Transcription.Provider = selected
	return nil
}

func editModel(cfg *config.Config, store *whisper.Store) error {
	p := provider.GetProvider(cfg.Transcription.Provider)
	if p == nil {
		return fmt.Errorf("unknown provider: %s", cfg.Transcription.Provider)
	}
	selected := cfg.Transcription.Model
	if selected == "" {
		selected = p.DefaultModel()
	}
	lang := language.Normalize(cfg.Transcription.Language)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				Options(modelOptions(p.Name(), store)...).
				Value(&selected),
			huh.NewSelect[string]().
				Title("Language").
				Options(languageOptions()...).
				Value(&lang),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}
	cfg.Transcription.Model = selected
	if p.IsLocal() && language.EnglishOnlyModel(selected) && lang != "" && lang != "en" {
		fmt.Println(StyleWarning.Render(fmt.Sprintf("%s is English-only, language reset to en", selected)))
		lang = "en"
	}
	cfg.Transcription.Language = lang

	if p.IsLocal() && !store.IsInstalled(selected) {
		fmt.Println(StyleWarning.Render(fmt.Sprintf("Model %s is not installed yet: profanity-silencer models download %s", selected, selected)))
	}
	return nil
}

func editAPIKey(cfg *config.Config, _ *whisper.Store) error {
	name := cfg.Transcription.Provider
	p := provider.GetProvider(name)
	if p == nil || !p.RequiresAPIKey() {
		return nil
	}

	current := cfg.Providers[name].APIKey
	desc := fmt.Sprintf("Leave empty to use %s", provider.EnvVarForProvider(name))
	if current != "" {
		desc = fmt.Sprintf("Currently: %s (leave empty to keep)", maskAPIKey(current))
	}

	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(getProviderDisplayName(name)+" API Key").
				Description(desc).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s != "" && !p.ValidateAPIKey(strings.TrimSpace(s)) {
						return fmt.Errorf("that does not look like a %s key", getProviderDisplayName(name))
					}
					return nil
				}).
				Value(&key),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}
	if key = strings.TrimSpace(key); key != "" {
		cfg.Providers[name] = config.ProviderConfig{APIKey: key}
	}
	return nil
}

func editSilence(cfg *config.Config, _ *whisper.Store) error {
	padding := strconv.Itoa(cfg.Silence.PaddingMs)
	bitrate := cfg.Output.Bitrate
	transcriptPath := cfg.Output.TranscriptPath
	notifyType := cfg.Notifications.Type
	if !cfg.Notifications.Enabled {
		notifyType = notify.TypeNone
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Padding (ms)").
				Description("Extra silence before and after each muted word").
				Validate(validatePadding).
				Value(&padding),
			huh.NewInput().
				Title("MP3 Bitrate").
				Validate(validateBitrate).
				Value(&bitrate),
			huh.NewInput().
				Title("Transcript File").
				Description("Optional TSV of every word, profanity masked").
				Value(&transcriptPath),
			huh.NewSelect[string]().
				Title("Notify When Done").
				Options(
					huh.NewOption("Desktop notification", notify.TypeDesktop),
					huh.NewOption("Log line", notify.TypeLog),
					huh.NewOption("Off", notify.TypeNone),
				).
				Value(&notifyType),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	n, _ := strconv.Atoi(strings.TrimSpace(padding))
	cfg.Silence.PaddingMs = n
	cfg.Output.Bitrate = strings.TrimSpace(bitrate)
	cfg.Output.TranscriptPath = strings.TrimSpace(transcriptPath)
	cfg.Notifications.Enabled = notifyType != notify.TypeNone
	cfg.Notifications.Type = notifyType
	return nil
}

func showSummary(cfg *config.Config) (bool, error) {
	fmt.Println()
	fmt.Println(StyleHeader.Render("Configuration Summary"))
	for _, line := range summaryLines(cfg) {
		fmt.Println(line)
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Println(StyleWarning.Render("Warning: " + err.Error()))
	}

	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}
