// Package profanity flags transcribed words against a fixed keyword list.
//
// Matching is a case-folded substring test, not a word-boundary test. A benign
// word that contains a keyword ("shitake" contains "shit") is flagged, and a
// multi-word keyword such as "god damn" can only match when the transcriber
// emits both words as one token. Both behaviours are intentional and covered
// by tests; change them here, not in callers.
package profanity

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultKeywords is the fixed, ordered keyword list. Longer keywords come
// before their prefixes so Censor masks "fucking" as one run.
var DefaultKeywords = []string{"fucking", "fuck", "shit", "god damn", "damn"}

// Classifier decides whether a single transcript token is profane.
type Classifier struct {
	keywords []string
}

// New creates a classifier for the given keywords. Keywords are folded once
// here; empty entries are ignored.
func New(keywords []string) *Classifier {
	fold := cases.Fold()
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = fold.String(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	return &Classifier{keywords: kw}
}

// NewDefault creates a classifier over DefaultKeywords.
func NewDefault() *Classifier {
	return New(DefaultKeywords)
}

// Keywords returns a copy of the folded keyword list.
func (c *Classifier) Keywords() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

// Classify reports whether word contains any keyword.
func (c *Classifier) Classify(word string) bool {
	if word == "" {
		return false
	}
	folded := cases.Fold().String(word)
	for _, k := range c.keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// Censor masks every keyword occurrence in word with asterisks, keeping the
// rest of word as written. When folding changes the byte length of any rune
// the offsets no longer line up, and the folded word is masked instead.
func (c *Classifier) Censor(word string) string {
	if !c.Classify(word) {
		return word
	}
	folded, aligned := foldAligned(word)
	out := []byte(word)
	if !aligned {
		folded = cases.Fold().String(word)
		out = []byte(folded)
	}
	for _, k := range c.keywords {
		for i := 0; i < len(folded); {
			j := strings.Index(folded[i:], k)
			if j < 0 {
				break
			}
			start := i + j
			for b := start; b < start+len(k); b++ {
				out[b] = '*'
			}
			i = start + len(k)
		}
	}
	return string(out)
}

// foldAligned folds word rune by rune and reports whether every rune kept
// its byte length, so offsets in the result are valid in word.
func foldAligned(word string) (string, bool) {
	fold := cases.Fold()
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		orig := string(r)
		f := fold.String(orig)
		if len(f) != len(orig) {
			return "", false
		}
		b.WriteString(f)
	}
	return b.String(), true
}
