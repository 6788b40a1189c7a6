// Package media converts between arbitrary audio containers and the PCM WAV
// files the rest of the pipeline works on. It shells out to ffmpeg.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/deps"
)

// CanonicalExt is the extension of the intermediate PCM format.
const CanonicalExt = ".wav"

// DefaultBitrate is used when no bitrate is configured.
const DefaultBitrate = "192k"

// FFmpeg runs conversions through an ffmpeg binary.
type FFmpeg struct {
	Binary  string
	Bitrate string
}

// NewFFmpeg locates ffmpeg on PATH.
func NewFFmpeg(bitrate string) (*FFmpeg, error) {
	status := deps.CheckFFmpeg()
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("%w: install ffmpeg first", err)
	}
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	return &FFmpeg{Binary: status.Path, Bitrate: bitrate}, nil
}

// Intermediate is the canonical WAV the pipeline decodes. When it was created
// by a conversion, Cleanup removes it.
type Intermediate struct {
	Path    string
	created bool
}

// NewIntermediate wraps an existing file. created marks it for removal by
// Cleanup.
func NewIntermediate(path string, created bool) *Intermediate {
	return &Intermediate{Path: path, created: created}
}

// Created reports whether the file was produced by a conversion.
func (i *Intermediate) Created() bool {
	return i != nil && i.created
}

// Cleanup removes the intermediate file if this run created it. It is safe to
// call more than once.
func (i *Intermediate) Cleanup() error {
	if !i.Created() {
		return nil
	}
	err := os.Remove(i.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove intermediate %s: %w", i.Path, err)
	}
	i.created = false
	return nil
}

// PrepareWAV returns a PCM WAV for input. Plain PCM WAV inputs are used in
// place; anything else, including extensible or float WAVs, is converted to
// a sibling file with the same base name. output is never picked as the
// sibling, since Cleanup would remove the result.
func (f *FFmpeg) PrepareWAV(ctx context.Context, input, output string) (*Intermediate, error) {
	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if strings.EqualFold(filepath.Ext(input), CanonicalExt) {
		err := audio.Probe(input)
		if err == nil {
			return &Intermediate{Path: input}, nil
		}
		if !errors.Is(err, audio.ErrInvalidWAV) {
			return nil, err
		}
		log.Debug().Str("component", "media").Err(err).Msg("wav is not plain pcm")
	}

	out, err := intermediatePath(input, output)
	if err != nil {
		return nil, err
	}
	im := &Intermediate{Path: out, created: true}

	log.Info().Str("component", "media").Str("input", input).Str("wav", out).Msg("converting input to wav")
	err = f.run(ctx,
		"-y", "-i", input,
		"-vn",
		"-acodec", "pcm_s16le",
		"-f", "wav",
		out,
	)
	if err != nil {
		if cerr := im.Cleanup(); cerr != nil {
			log.Warn().Str("component", "media").Err(cerr).Msg("cleanup after failed conversion")
		}
		return nil, fmt.Errorf("convert to wav: %w", err)
	}
	return im, nil
}

// Encode writes buf to outPath as MP3. The output only appears once the
// encode succeeded; a failed encode leaves no file behind.
func (f *FFmpeg) Encode(ctx context.Context, buf *audio.Buffer, outPath string) error {
	tmp, err := os.CreateTemp("", "profanity-silencer-*"+CanonicalExt)
	if err != nil {
		return fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("component", "media").Err(err).Str("path", tmpPath).Msg("failed to remove temp wav")
		}
	}()

	if err := audio.EncodeFile(tmpPath, buf); err != nil {
		return fmt.Errorf("write temp wav: %w", err)
	}
	return f.EncodeCompressed(ctx, tmpPath, outPath)
}

// EncodeCompressed encodes wavPath to outPath as MP3 via a partial file that
// is renamed into place on success.
func (f *FFmpeg) EncodeCompressed(ctx context.Context, wavPath, outPath string) error {
	partial := outPath + ".partial"
	defer os.Remove(partial)

	bitrate := f.Bitrate
	if bitrate == "" {
		bitrate = DefaultBitrate
	}

	err := f.run(ctx,
		"-y", "-i", wavPath,
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", bitrate,
		"-f", "mp3",
		partial,
	)
	if err != nil {
		return fmt.Errorf("encode mp3: %w", err)
	}

	if err := os.Rename(partial, outPath); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	binary := f.Binary
	if binary == "" {
		binary = deps.FFmpeg
	}
	args = append([]string{"-hide_banner", "-loglevel", "error"}, args...)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg failed after %v: %w", duration, err)
		}
		return fmt.Errorf("ffmpeg failed after %v: %w: %s", duration, err, msg)
	}

	log.Debug().Str("component", "media").Dur("took", duration).Strs("args", args).Msg("ffmpeg finished")
	return nil
}

// intermediatePath picks the sibling WAV path for input. An existing file at
// that path belongs to the user and output is about to, so either forces a
// unique sibling name.
func intermediatePath(input, output string) (string, error) {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	candidate := filepath.Join(dir, base+CanonicalExt)

	if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) && !samePath(candidate, output) {
		return candidate, nil
	}

	f, err := os.CreateTemp(dir, base+"-*"+CanonicalExt)
	if err != nil {
		return "", fmt.Errorf("create intermediate: %w", err)
	}
	name := f.Name()
	f.Close()
	return name, nil
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
