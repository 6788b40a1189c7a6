// Package report prints what a run muted.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/leonardotrapani/profanity-silencer/internal/pipeline"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
	"github.com/leonardotrapani/profanity-silencer/internal/tui"
)

// SuccessMessage is printed after a run that wrote its output.
const SuccessMessage = "Profanity silenced successfully."

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Printer writes status lines and summaries, styled only on terminals.
type Printer struct {
	w        io.Writer
	colorize bool
	censor   transcript.Censorer
}

// NewPrinter returns a printer for w. censor masks profane words in the
// summary; nil prints them as transcribed.
func NewPrinter(w io.Writer, censor transcript.Censorer) *Printer {
	return &Printer{w: w, colorize: ShouldColorize(w), censor: censor}
}

func (p *Printer) style(s lipgloss.Style, msg string) string {
	if !p.colorize {
		return msg
	}
	return s.Render(msg)
}

// Success prints the success line.
func (p *Printer) Success() {
	fmt.Fprintln(p.w, p.style(tui.StyleSuccess, SuccessMessage))
}

// Error prints "Error: <message>".
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.style(tui.StyleError, "Error: "+err.Error()))
}

// Warnings prints one line per non-fatal problem.
func (p *Printer) Warnings(res *pipeline.Result) {
	if res == nil {
		return
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(p.w, p.style(tui.StyleWarning, "Warning: "+w.Error()))
	}
}

// Summary prints the flagged words and the spans that were muted.
func (p *Printer) Summary(res *pipeline.Result) {
	if res == nil {
		return
	}
	fmt.Fprintln(p.w, p.style(tui.StyleMuted, fmt.Sprintf("run %s: %d words, %d profane, %d spans muted, %s of audio",
		res.RunID, len(res.Words), res.ProfaneCount(), len(res.Spans), formatMs(res.DurationMs))))

	if rows := p.wordRows(res); len(rows) > 0 {
		fmt.Fprintln(p.w, Table([]string{"#", "Word", "Start", "End"}, rows, []Align{AlignRight, AlignLeft, AlignRight, AlignRight}))
	}
	if len(res.Spans) > 0 {
		fmt.Fprintln(p.w, Table([]string{"Muted from", "Muted to", "Length"}, spanRows(res), []Align{AlignRight, AlignRight, AlignRight}))
	}
	for _, c := range res.Clamps {
		fmt.Fprintln(p.w, p.style(tui.StyleWarning, "clamped: "+c.String()))
	}
}

func (p *Printer) wordRows(res *pipeline.Result) [][]string {
	var rows [][]string
	for _, fw := range transcript.Profane(res.Flagged) {
		text := fw.Text
		if p.censor != nil {
			text = p.censor.Censor(text)
		}
		rows = append(rows, []string{
			strconv.Itoa(len(rows) + 1),
			text,
			formatSeconds(fw.Start),
			formatSeconds(fw.End),
		})
	}
	return rows
}

func spanRows(res *pipeline.Result) [][]string {
	rows := make([][]string, 0, len(res.Spans))
	for _, s := range res.Spans {
		rows = append(rows, []string{formatMs(s.StartMs), formatMs(s.EndMs), formatMs(s.DurationMs())})
	}
	return rows
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64) + "s"
}

// formatMs renders milliseconds as m:ss.mmm
func formatMs(ms int) string {
	if ms < 0 {
		return "-" + formatMs(-ms)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
	return b.String()
}
