package config

import (
	"github.com/leonardotrapani/profanity-silencer/internal/notify"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
)

const (
	DefaultPaddingMs = 50
	DefaultBitrate   = "192k"
	DefaultLogLevel  = "warn"
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Transcription: TranscriptionConfig{
			Provider: provider.ProviderWhisperCpp,
			Model:    "base.en",
		},
		Providers: make(map[string]ProviderConfig),
		Silence: SilenceConfig{
			PaddingMs: DefaultPaddingMs,
		},
		Output: OutputConfig{
			Bitrate: DefaultBitrate,
		},
		Notifications: NotificationsConfig{
			Type: notify.TypeDesktop,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// applyDefaults fills fields a partial file left empty. Padding keeps an
// explicit 0 only when the key was present in the file.
func (c *Config) applyDefaults(paddingSet bool) {
	d := DefaultConfig()
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = d.Transcription.Provider
	}
	if c.Transcription.Model == "" {
		if p := provider.GetProvider(c.Transcription.Provider); p != nil {
			c.Transcription.Model = p.DefaultModel()
		}
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if !paddingSet {
		c.Silence.PaddingMs = d.Silence.PaddingMs
	}
	if c.Output.Bitrate == "" {
		c.Output.Bitrate = d.Output.Bitrate
	}
	if c.Notifications.Type == "" {
		c.Notifications.Type = d.Notifications.Type
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
