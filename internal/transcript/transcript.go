// Package transcript holds the word-level transcript produced by a transcriber
// and the per-word profanity flags derived from it.
//
// Times are seconds here. Everything past this package works in milliseconds.
package transcript

import (
	"sort"
	"strings"
)

// Word is one recognized token with its start and end time in seconds.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// FlaggedWord is a Word plus the classifier's verdict.
type FlaggedWord struct {
	Word
	Profane bool
}

// Classifier is satisfied by *profanity.Classifier.
type Classifier interface {
	Classify(word string) bool
}

// Normalize trims token text, drops empty tokens, clamps End up to Start when
// a transcriber reports them inverted, and stable-sorts by Start. It returns
// the cleaned words and how many had their times clamped.
func Normalize(words []Word) ([]Word, int) {
	out := make([]Word, 0, len(words))
	clamped := 0
	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}
		if w.Start < 0 {
			w.Start = 0
			clamped++
		}
		if w.End < w.Start {
			w.End = w.Start
			clamped++
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, clamped
}

// Flag classifies every word, one FlaggedWord per input Word.
func Flag(words []Word, c Classifier) []FlaggedWord {
	flagged := make([]FlaggedWord, len(words))
	for i, w := range words {
		flagged[i] = FlaggedWord{Word: w, Profane: c.Classify(w.Text)}
	}
	return flagged
}

// Profane returns only the flagged words.
func Profane(flagged []FlaggedWord) []FlaggedWord {
	var out []FlaggedWord
	for _, fw := range flagged {
		if fw.Profane {
			out = append(out, fw)
		}
	}
	return out
}
