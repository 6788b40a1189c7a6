// Package notify tells the user a long silencing run has finished.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const appName = "Profanity Silencer"

// Types accepted by New.
const (
	TypeDesktop = "desktop"
	TypeLog     = "log"
	TypeNone    = "none"
)

type Notifier interface {
	Done(output string, muted int)
	Error(msg string)
}

// New returns the notifier for typ. Unknown types and a disabled config
// yield Nop.
func New(enabled bool, typ string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch typ {
	case TypeDesktop:
		return Desktop{}
	case TypeLog:
		return Log{}
	default:
		return Nop{}
	}
}

// IsValidType reports whether typ can be passed to New.
func IsValidType(typ string) bool {
	return typ == TypeDesktop || typ == TypeLog || typ == TypeNone
}

func doneMessage(output string, muted int) string {
	return fmt.Sprintf("Muted %d word(s) in %s", muted, filepath.Base(output))
}

// Desktop sends notifications through notify-send.
type Desktop struct{}

func (Desktop) Done(output string, muted int) {
	send("-a", appName, appName, doneMessage(output, muted))
}

func (Desktop) Error(msg string) {
	send("-a", appName, "-u", "critical", appName, msg)
}

func send(args ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "notify-send", args...).Run(); err != nil {
		log.Debug().Str("component", "notify").Err(err).Msg("failed to send notification")
	}
}

// Log writes notifications to the global logger instead of the desktop.
type Log struct{}

func (Log) Done(output string, muted int) {
	log.Info().Str("component", "notify").Str("output", output).Int("muted", muted).Msg(doneMessage(output, muted))
}

func (Log) Error(msg string) {
	log.Error().Str("component", "notify").Msg(msg)
}

// Nop is a Notifier that does nothing.
type Nop struct{}

func (Nop) Done(string, int) {}
func (Nop) Error(string)     {}
