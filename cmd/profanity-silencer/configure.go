package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/profanity-silencer/internal/config"
	"github.com/leonardotrapani/profanity-silencer/internal/tui"
)

func configureCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard.
This will guide you through:
- Transcription provider, model and language
- Provider API keys
- Padding, bitrate and the optional transcript file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(opts.configPath, stdout)
		},
	}
}

func runConfigure(path string, w io.Writer) error {
	cfg, err := config.Read(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg = config.DefaultConfig()
	} else if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}
	if result.Cancelled {
		fmt.Fprintln(w, "Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	if err := config.Save(path, result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration saved successfully!")
	fmt.Fprintf(w, "Config file location: %s\n", path)
	return nil
}
