package transcript

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Censorer masks profane tokens for the debug artifact.
type Censorer interface {
	Censor(word string) string
}

// WriteTSV writes one "start\tend\tword" row per word, times in seconds with
// millisecond precision. Profane words are masked when c is non-nil.
func WriteTSV(w io.Writer, flagged []FlaggedWord, c Censorer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, fw := range flagged {
		text := fw.Text
		if fw.Profane && c != nil {
			text = c.Censor(text)
		}
		row := []string{
			strconv.FormatFloat(fw.Start, 'f', 3, 64),
			strconv.FormatFloat(fw.End, 'f', 3, 64),
			text,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write tsv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTSV parses rows written by WriteTSV. Rows that do not have exactly
// three fields, or whose times do not parse, are skipped.
func ReadTSV(r io.Reader) ([]Word, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var words []Word
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tsv: %w", err)
		}
		if len(row) != 3 {
			continue
		}
		start, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		words = append(words, Word{Text: row[2], Start: start, End: end})
	}
	return words, nil
}
