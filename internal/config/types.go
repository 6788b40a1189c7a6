package config

// Config is the on-disk configuration. Every field has a default, so a
// missing file behaves like an empty one.
type Config struct {
	Transcription TranscriptionConfig       `toml:"transcription"`
	Providers     map[string]ProviderConfig `toml:"providers"`
	Silence       SilenceConfig             `toml:"silence"`
	Output        OutputConfig              `toml:"output"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Log           LogConfig                 `toml:"log"`
}

// TranscriptionConfig selects the speech recognition backend
type TranscriptionConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Language string `toml:"language"`  // empty for auto-detect
	Threads  int    `toml:"threads"`   // local providers, 0 for auto
	ModelDir string `toml:"model_dir"` // whisper model directory override
}

// ProviderConfig holds per-provider credentials
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

// SilenceConfig controls how flagged words are muted
type SilenceConfig struct {
	PaddingMs int `toml:"padding_ms"`
}

// OutputConfig controls the encoded result and optional artifacts
type OutputConfig struct {
	Bitrate        string `toml:"bitrate"`
	TranscriptPath string `toml:"transcript_path"` // empty disables the TSV artifact
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// LogConfig controls stderr logging
type LogConfig struct {
	Level string `toml:"level"`
}
