// Package whisper manages the ggml model files used by the local
// whisper.cpp transcription backends.
package whisper

import (
	"os"
	"path/filepath"
)

// ModelInfo holds metadata for a whisper model
type ModelInfo struct {
	ID           string // model identifier (e.g., "base.en")
	Name         string // display name (e.g., "Base English")
	Filename     string // file name (e.g., "ggml-base.en.bin")
	Size         string // human readable size
	SizeBytes    int64  // expected size, used when the server omits Content-Length
	Multilingual bool
}

// ggml files published at huggingface.co/ggerganov/whisper.cpp
var models = []ModelInfo{
	{ID: "tiny.en", Name: "Tiny English", Filename: "ggml-tiny.en.bin", Size: "75MB", SizeBytes: 77_704_715},
	{ID: "base.en", Name: "Base English", Filename: "ggml-base.en.bin", Size: "142MB", SizeBytes: 147_964_211},
	{ID: "small.en", Name: "Small English", Filename: "ggml-small.en.bin", Size: "466MB", SizeBytes: 487_614_201},
	{ID: "medium.en", Name: "Medium English", Filename: "ggml-medium.en.bin", Size: "1.5GB", SizeBytes: 1_533_774_781},
	{ID: "small", Name: "Small", Filename: "ggml-small.bin", Size: "466MB", SizeBytes: 487_601_967, Multilingual: true},
	{ID: "medium", Name: "Medium", Filename: "ggml-medium.bin", Size: "1.5GB", SizeBytes: 1_533_763_059, Multilingual: true},
	{ID: "large-v3-turbo", Name: "Large V3 Turbo", Filename: "ggml-large-v3-turbo.bin", Size: "1.6GB", SizeBytes: 1_624_555_275, Multilingual: true},
	{ID: "large-v3", Name: "Large V3", Filename: "ggml-large-v3.bin", Size: "3.1GB", SizeBytes: 3_095_033_483, Multilingual: true},
}

const baseDownloadURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// GetModel returns info for a model by ID, or nil if unknown.
func GetModel(modelID string) *ModelInfo {
	for _, m := range models {
		if m.ID == modelID {
			return &m
		}
	}
	return nil
}

// GetDownloadURL returns the full download URL for a model, or "" if unknown.
func GetDownloadURL(modelID string) string {
	info := GetModel(modelID)
	if info == nil {
		return ""
	}
	return baseDownloadURL + "/" + info.Filename
}

// ListModels returns all known whisper models
func ListModels() []ModelInfo {
	result := make([]ModelInfo, len(models))
	copy(result, models)
	return result
}

// DefaultDir is $XDG_DATA_HOME/profanity-silencer/models/whisper, falling
// back to ~/.local/share when XDG_DATA_HOME is unset.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "profanity-silencer", "models", "whisper"), nil
}
