package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/leonardotrapani/profanity-silencer/internal/language"
	"github.com/leonardotrapani/profanity-silencer/internal/notify"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/rs/zerolog"
)

var bitratePattern = regexp.MustCompile(`^[1-9][0-9]*k$`)

const maxPaddingMs = 5000

func (c *Config) Validate() error {
	p := provider.GetProvider(c.Transcription.Provider)
	if p == nil {
		return fmt.Errorf("invalid transcription.provider: %q (one of %v)", c.Transcription.Provider, provider.ListProviders())
	}
	if c.Transcription.Model != "" && !(p.IsLocal() && isModelPath(c.Transcription.Model)) {
		if _, err := provider.FindModel(c.Transcription.Provider, c.Transcription.Model); err != nil {
			return fmt.Errorf("invalid transcription.model: %w (one of %v)", err, provider.ModelIDs(p))
		}
	}
	if lang := c.Transcription.Language; !language.IsValidCode(lang) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'en', 'es', 'fr')", lang)
	} else if p.IsLocal() && language.EnglishOnlyModel(c.Transcription.Model) && language.Normalize(lang) != "" && language.Normalize(lang) != "en" {
		return fmt.Errorf("invalid transcription.language: %s (model %s is English-only)", lang, c.Transcription.Model)
	}
	if c.Transcription.Threads < 0 {
		return fmt.Errorf("invalid transcription.threads: %d", c.Transcription.Threads)
	}

	if p.RequiresAPIKey() && c.ResolveAPIKey(c.Transcription.Provider) == "" {
		return fmt.Errorf("%s API key required: not found in config (providers.%s.api_key) or environment variable (%s)",
			c.Transcription.Provider, c.Transcription.Provider, provider.EnvVarForProvider(c.Transcription.Provider))
	}
	for name, pc := range c.Providers {
		pp := provider.GetProvider(name)
		if pp == nil {
			return fmt.Errorf("invalid providers.%s: unknown provider", name)
		}
		if pc.APIKey != "" && !pp.ValidateAPIKey(pc.APIKey) {
			return fmt.Errorf("invalid providers.%s.api_key: unexpected format", name)
		}
	}

	if c.Silence.PaddingMs < 0 || c.Silence.PaddingMs > maxPaddingMs {
		return fmt.Errorf("invalid silence.padding_ms: %d (must be between 0 and %d)", c.Silence.PaddingMs, maxPaddingMs)
	}
	if !bitratePattern.MatchString(c.Output.Bitrate) {
		return fmt.Errorf("invalid output.bitrate: %q (e.g. '128k', '192k')", c.Output.Bitrate)
	}
	if !notify.IsValidType(c.Notifications.Type) {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	return nil
}

// local providers also accept a path to a ggml file
func isModelPath(model string) bool {
	return strings.ContainsRune(model, os.PathSeparator) || strings.HasSuffix(model, ".bin")
}
