package transcript

import (
	"bytes"
	"strings"
	"testing"
)

type keywordClassifier map[string]bool

func (k keywordClassifier) Classify(word string) bool { return k[strings.ToLower(word)] }

func (k keywordClassifier) Censor(word string) string {
	return strings.Repeat("*", len(word))
}

func TestNormalize(t *testing.T) {
	in := []Word{
		{Text: " second ", Start: 1.0, End: 1.2},
		{Text: "", Start: 0.2, End: 0.3},
		{Text: "first", Start: 0.5, End: 0.4},
		{Text: "tie-a", Start: 1.0, End: 1.1},
	}

	got, clamped := Normalize(in)

	if clamped != 1 {
		t.Errorf("clamped = %d, want 1", clamped)
	}
	if len(got) != 3 {
		t.Fatalf("got %d words, want 3", len(got))
	}
	if got[0].Text != "first" || got[0].End != 0.5 {
		t.Errorf("first word = %+v, want clamped 'first' ending at 0.5", got[0])
	}
	if got[1].Text != "second" || got[2].Text != "tie-a" {
		t.Errorf("stable order lost: %q, %q", got[1].Text, got[2].Text)
	}
}

func TestNormalize_NegativeStart(t *testing.T) {
	got, clamped := Normalize([]Word{{Text: "x", Start: -0.5, End: 0.2}})
	if clamped != 1 || got[0].Start != 0 {
		t.Errorf("got %+v (clamped %d), want start 0", got[0], clamped)
	}
}

func TestFlag_OneToOne(t *testing.T) {
	words := []Word{
		{Text: "fuck", Start: 1.0, End: 1.4},
		{Text: "you", Start: 1.4, End: 1.6},
	}
	flagged := Flag(words, keywordClassifier{"fuck": true})

	if len(flagged) != len(words) {
		t.Fatalf("got %d flagged words, want %d", len(flagged), len(words))
	}
	if !flagged[0].Profane || flagged[1].Profane {
		t.Errorf("unexpected flags: %+v", flagged)
	}
	if flagged[0].Word != words[0] {
		t.Error("flagging changed the word")
	}
	if p := Profane(flagged); len(p) != 1 || p[0].Text != "fuck" {
		t.Errorf("Profane() = %+v", p)
	}
}

func TestTSV_RoundTrip(t *testing.T) {
	flagged := []FlaggedWord{
		{Word: Word{Text: "fuck", Start: 1.0, End: 1.4}, Profane: true},
		{Word: Word{Text: "you", Start: 1.4, End: 1.6}},
	}

	var buf bytes.Buffer
	if err := WriteTSV(&buf, flagged, keywordClassifier{}); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	want := "1.000\t1.400\t****\n1.400\t1.600\tyou\n"
	if buf.String() != want {
		t.Errorf("WriteTSV output = %q, want %q", buf.String(), want)
	}

	words, err := ReadTSV(&buf)
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if len(words) != 2 || words[1] != (Word{Text: "you", Start: 1.4, End: 1.6}) {
		t.Errorf("ReadTSV = %+v", words)
	}
}

func TestReadTSV_SkipsMalformedRows(t *testing.T) {
	in := "0.1\t0.2\thello\n" +
		"only\ttwo\n" +
		"x\t0.5\tbad-start\n" +
		"0.6\t0.9\tworld\textra\n" +
		"\n" +
		"1.0\t1.2\tend\n"

	words, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if len(words) != 2 || words[0].Text != "hello" || words[1].Text != "end" {
		t.Errorf("ReadTSV = %+v, want hello and end", words)
	}
}
