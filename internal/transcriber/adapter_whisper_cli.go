package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
	"github.com/rs/zerolog/log"
)

// WhisperCliAdapter runs whisper.cpp's whisper-cli with one word per segment
type WhisperCliAdapter struct {
	binary    string
	modelPath string
	language  string
	threads   int
}

// NewWhisperCliAdapter creates a whisper-cli adapter
// binary: path to whisper-cli
// modelPath: full path to the ggml model file
// lang: whisper language code, empty for auto
// threads: number of CPU threads (0 for whisper-cli's default)
func NewWhisperCliAdapter(binary, modelPath, lang string, threads int) *WhisperCliAdapter {
	return &WhisperCliAdapter{
		binary:    binary,
		modelPath: modelPath,
		language:  lang,
		threads:   threads,
	}
}

// whisperCliOutput is the subset of whisper-cli's -oj document we read.
type whisperCliOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (a *WhisperCliAdapter) Transcribe(ctx context.Context, in Input) ([]transcript.Word, error) {
	if in.Audio == nil || in.Audio.Frames() == 0 {
		return nil, nil
	}
	if _, err := os.Stat(a.modelPath); err != nil {
		return nil, newSetupError(fmt.Errorf("model file not found: %s", a.modelPath), hintModelsList)
	}

	workDir, err := os.MkdirTemp("", "profanity-silencer-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// whisper-cli only reads 16 kHz mono
	wavPath := filepath.Join(workDir, "input.wav")
	if err := audio.EncodeFile(wavPath, audio.Mono16kPCM(in.Audio)); err != nil {
		return nil, fmt.Errorf("write 16k wav: %w", err)
	}
	outPrefix := filepath.Join(workDir, "out")

	lang := a.language
	if lang == "" {
		lang = "auto"
	}
	args := []string{
		"-m", a.modelPath,
		"-l", lang,
		"-ml", "1", // one token per segment
		"-sow", // split on word boundaries
		"-oj",
		"-of", outPrefix,
		"-np",
		"-f", wavPath,
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}

	cmd := exec.CommandContext(ctx, a.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error().Str("component", "whisper-cli").Dur("took", duration).Str("stderr", strings.TrimSpace(stderr.String())).Err(err).Msg("command failed")
		return nil, fmt.Errorf("whisper-cli failed: %w", err)
	}

	raw, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper-cli output: %w", err)
	}
	words, err := parseWhisperCliJSON(raw)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("component", "whisper-cli").Dur("took", duration).Int("words", len(words)).Msg("transcribed")
	return words, nil
}

func (a *WhisperCliAdapter) Close() error { return nil }

func parseWhisperCliJSON(raw []byte) ([]transcript.Word, error) {
	var out whisperCliOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode whisper-cli output: %w", err)
	}
	words := make([]transcript.Word, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" || isAnnotation(text) {
			continue
		}
		words = append(words, transcript.Word{
			Text:  text,
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
		})
	}
	return words, nil
}

// isAnnotation matches non-speech markers such as [BLANK_AUDIO] or (music).
func isAnnotation(text string) bool {
	return (strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")) ||
		(strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")"))
}
