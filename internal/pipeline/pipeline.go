// Package pipeline drives one silencing run: decode, transcribe, classify,
// mute and encode, strictly in that order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/media"
	"github.com/leonardotrapani/profanity-silencer/internal/silence"
	"github.com/leonardotrapani/profanity-silencer/internal/transcriber"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
)

// Media converts inputs to WAV and writes the compressed result.
type Media interface {
	PrepareWAV(ctx context.Context, input, output string) (*media.Intermediate, error)
	Encode(ctx context.Context, buf *audio.Buffer, outPath string) error
}

// Classifier flags profane words and masks them for the transcript artifact.
type Classifier interface {
	Classify(word string) bool
	Censor(word string) string
}

// Runner holds everything a run needs. The caller owns Transcriber and
// closes it.
type Runner struct {
	Transcriber    transcriber.Transcriber
	Classifier     Classifier
	Media          Media
	PaddingMs      int
	TranscriptPath string // optional TSV of the normalized transcript
}

// Result describes a run. It is returned even when Run fails, so warnings
// and whatever stages completed can still be reported.
type Result struct {
	RunID      string
	Words      []transcript.Word
	Flagged    []transcript.FlaggedWord
	Spans      []silence.Span
	Clamps     []silence.Clamp
	DurationMs int
	Elapsed    time.Duration
	Warnings   []error
}

// ProfaneCount returns how many words were flagged.
func (res *Result) ProfaneCount() int {
	return len(transcript.Profane(res.Flagged))
}

// Run silences profanity in input and writes the result to output.
// Temporary files are removed on every path; a failed removal is reported
// as a CleanupWarning in Result.Warnings.
func (r *Runner) Run(ctx context.Context, input, output string) (res *Result, err error) {
	res = &Result{RunID: uuid.NewString()}
	logger := log.With().Str("component", "pipeline").Str("run_id", res.RunID).Logger()
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if err != nil {
			logger.Debug().Err(err).Dur("elapsed", res.Elapsed).Msg("run failed")
		} else {
			logger.Info().Dur("elapsed", res.Elapsed).Int("profane", res.ProfaneCount()).Int("spans", len(res.Spans)).Msg("run complete")
		}
	}()

	if err := checkPaths(input, output); err != nil {
		return res, err
	}

	logger.Debug().Str("input", input).Msg("preparing input")
	prepared, err := r.Media.PrepareWAV(ctx, input, output)
	if err != nil {
		return res, &DecodeError{Path: input, Err: err}
	}
	defer func() {
		if cerr := prepared.Cleanup(); cerr != nil {
			w := &CleanupWarning{Path: prepared.Path, Err: cerr}
			logger.Warn().Err(w).Msg("cleanup failed")
			res.Warnings = append(res.Warnings, w)
		}
	}()

	buf, err := audio.DecodeFile(prepared.Path)
	if err != nil {
		return res, &DecodeError{Path: input, Err: err}
	}
	res.DurationMs = buf.DurationMs()
	logger.Debug().Int("sample_rate", buf.SampleRate).Int("channels", buf.Channels).Int("duration_ms", res.DurationMs).Msg("decoded")

	words, err := r.Transcriber.Transcribe(ctx, transcriber.Input{Path: prepared.Path, Audio: buf})
	if err != nil {
		return res, &TranscriptionError{Err: err}
	}
	words, inverted := transcript.Normalize(words)
	if inverted > 0 {
		logger.Warn().Int("count", inverted).Msg("words ending before they start were clamped")
	}
	res.Words = words
	res.Flagged = transcript.Flag(words, r.Classifier)
	logger.Debug().Int("words", len(words)).Int("profane", res.ProfaneCount()).Msg("classified")

	if r.TranscriptPath != "" {
		if err := writeTranscript(r.TranscriptPath, res.Flagged, r.Classifier); err != nil {
			logger.Warn().Err(err).Str("path", r.TranscriptPath).Msg("transcript not written")
			res.Warnings = append(res.Warnings, err)
		}
	}

	muted := silence.Mute(buf, res.Flagged, r.PaddingMs)
	res.Spans = muted.Spans
	res.Clamps = muted.Clamps

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := r.Media.Encode(ctx, muted.Audio, output); err != nil {
		return res, &EncodeError{Path: output, Err: err}
	}
	return res, nil
}

// checkPaths refuses to overwrite the input with the output.
func checkPaths(input, output string) error {
	if input == "" || output == "" {
		return errors.New("input and output paths are required")
	}
	in, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolve output: %w", err)
	}
	if in == out {
		return fmt.Errorf("output %s would overwrite the input", output)
	}
	return nil
}

func writeTranscript(path string, flagged []transcript.FlaggedWord, c transcript.Censorer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close transcript: %w", cerr)
		}
	}()
	if err := transcript.WriteTSV(f, flagged, c); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
