package silence

import (
	"fmt"
	"math"
	"sort"

	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
)

// Span is a half-open time range [StartMs, EndMs) to be silenced.
type Span struct {
	StartMs int
	EndMs   int
}

// DurationMs returns the span length.
func (s Span) DurationMs() int {
	return s.EndMs - s.StartMs
}

func (s Span) String() string {
	return fmt.Sprintf("%dms-%dms", s.StartMs, s.EndMs)
}

// Clamp records a span that had to be adjusted to fit the audio.
type Clamp struct {
	Word   string
	Before Span
	After  Span
	Reason string
}

func (c Clamp) String() string {
	return fmt.Sprintf("%q %s -> %s (%s)", c.Word, c.Before, c.After, c.Reason)
}

// Plan turns profane words into padded spans clamped to [0, durationMs].
// Clean words produce nothing. Every adjusted span is reported in the
// returned clamps; spans that end up empty are reported and dropped.
func Plan(flagged []transcript.FlaggedWord, paddingMs, durationMs int) ([]Span, []Clamp) {
	if paddingMs < 0 {
		paddingMs = 0
	}
	if durationMs < 0 {
		durationMs = 0
	}

	var (
		spans  []Span
		clamps []Clamp
	)
	for _, fw := range flagged {
		if !fw.Profane {
			continue
		}
		raw := Span{
			StartMs: secondsToMs(fw.Start) - paddingMs,
			EndMs:   secondsToMs(fw.End) + paddingMs,
		}
		s, reason := clampSpan(raw, durationMs)
		if reason != "" {
			clamps = append(clamps, Clamp{Word: fw.Text, Before: raw, After: s, Reason: reason})
		}
		if s.DurationMs() > 0 {
			spans = append(spans, s)
		}
	}
	return spans, clamps
}

func clampSpan(s Span, durationMs int) (Span, string) {
	var reason string
	switch {
	case s.StartMs > s.EndMs:
		reason = "start after end"
	case s.StartMs > durationMs:
		reason = "start past audio"
	case s.StartMs < 0 && s.EndMs > durationMs:
		reason = "span exceeds audio"
	case s.StartMs < 0:
		reason = "start before audio"
	case s.EndMs > durationMs:
		reason = "end past audio"
	}

	s.StartMs = clampInt(s.StartMs, 0, durationMs)
	s.EndMs = clampInt(s.EndMs, 0, durationMs)
	if s.EndMs < s.StartMs {
		s.EndMs = s.StartMs
	}
	return s, reason
}

// Merge sorts spans and joins any that overlap or touch. The input slice is
// not modified.
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartMs != sorted[j].StartMs {
			return sorted[i].StartMs < sorted[j].StartMs
		}
		return sorted[i].EndMs < sorted[j].EndMs
	})

	merged := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.StartMs <= last.EndMs {
			if s.EndMs > last.EndMs {
				last.EndMs = s.EndMs
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func secondsToMs(sec float64) int {
	return int(math.Round(sec * 1000))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
