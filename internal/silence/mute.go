// Package silence replaces flagged time spans of a PCM buffer with digital
// silence.
//
// Work happens in three pure steps: Plan computes padded spans from the
// transcript, Merge collapses overlapping or touching spans, and Apply
// rewrites the sample data once into a new buffer. Spans are only ever
// overwritten with silence of the same length, so offsets computed from the
// original transcript stay valid for the whole pass.
package silence

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
)

// Result is the outcome of Mute.
type Result struct {
	Audio  *audio.Buffer
	Spans  []Span
	Clamps []Clamp
}

// Apply returns a copy of buf where every sample inside spans is set to the
// silence value. Spans should already be merged; overlapping input is still
// handled correctly, just rewritten more than once. buf is not modified.
func Apply(buf *audio.Buffer, spans []Span) *audio.Buffer {
	out := buf.Clone()
	if out == nil || out.Channels <= 0 {
		return out
	}

	silent := out.SilenceValue()
	durationMs := out.DurationMs()
	for _, s := range spans {
		from := out.FrameAt(s.StartMs) * out.Channels
		to := out.FrameAt(s.EndMs) * out.Channels
		// DurationMs rounds down, so a span clamped to it owns the tail frames.
		if s.EndMs >= durationMs {
			to = out.Frames() * out.Channels
		}
		for i := from; i < to; i++ {
			out.Data[i] = silent
		}
	}
	return out
}

// Mute plans, merges and applies silence for the profane words in flagged.
func Mute(buf *audio.Buffer, flagged []transcript.FlaggedWord, paddingMs int) Result {
	logger := log.With().Str("component", "silence").Logger()

	spans, clamps := Plan(flagged, paddingMs, buf.DurationMs())
	for _, c := range clamps {
		logger.Warn().
			Str("word", c.Word).
			Stringer("before", c.Before).
			Stringer("after", c.After).
			Str("reason", c.Reason).
			Msg("clamped span")
	}

	merged := Merge(spans)
	logSpans(logger, len(spans), merged)

	return Result{
		Audio:  Apply(buf, merged),
		Spans:  merged,
		Clamps: clamps,
	}
}

func logSpans(logger zerolog.Logger, planned int, merged []Span) {
	total := 0
	for _, s := range merged {
		total += s.DurationMs()
	}
	logger.Debug().
		Int("planned", planned).
		Int("merged", len(merged)).
		Int("silenced_ms", total).
		Msg("muting spans")
}
