package config

import (
	"os"

	"github.com/leonardotrapani/profanity-silencer/internal/language"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/transcriber"
)

// ResolveAPIKey returns the key for a provider: config first, then the
// provider's environment variable.
func (c *Config) ResolveAPIKey(providerName string) string {
	if pc, ok := c.Providers[providerName]; ok && pc.APIKey != "" {
		return pc.APIKey
	}
	if env := provider.EnvVarForProvider(providerName); env != "" {
		return os.Getenv(env)
	}
	return ""
}

// ToTranscriberConfig builds the transcriber settings. keywords are passed
// to providers that support recognition boosting.
func (c *Config) ToTranscriberConfig(keywords []string) transcriber.Config {
	return transcriber.Config{
		Provider: c.Transcription.Provider,
		Model:    c.Transcription.Model,
		Language: language.Normalize(c.Transcription.Language),
		APIKey:   c.ResolveAPIKey(c.Transcription.Provider),
		Threads:  c.Transcription.Threads,
		Keywords: keywords,
		ModelDir: c.Transcription.ModelDir,
	}
}
