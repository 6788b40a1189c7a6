package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/profanity-silencer/internal/deps"
	"github.com/leonardotrapani/profanity-silencer/internal/report"
)

func depsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools (ffmpeg, whisper-cli)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(stdout, deps.All())
		},
	}
}

// runDeps prints the status table. ffmpeg is required for every run;
// whisper-cli only for the default local provider.
func runDeps(w io.Writer, statuses []deps.Status) error {
	var rows [][]string
	var missingFFmpeg bool
	for _, s := range statuses {
		state := "missing"
		if s.Installed {
			state = "ok"
		} else if s.Name == deps.FFmpeg {
			missingFFmpeg = true
		}
		rows = append(rows, []string{s.Name, state, s.Path, s.Version})
	}
	fmt.Fprintln(w, report.Table([]string{"Tool", "Status", "Path", "Version"}, rows, nil))
	if missingFFmpeg {
		return errors.New("ffmpeg is required")
	}
	return nil
}
