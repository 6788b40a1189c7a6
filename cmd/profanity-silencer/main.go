package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/profanity-silencer/internal/config"
	"github.com/leonardotrapani/profanity-silencer/internal/media"
	"github.com/leonardotrapani/profanity-silencer/internal/notify"
	"github.com/leonardotrapani/profanity-silencer/internal/pipeline"
	"github.com/leonardotrapani/profanity-silencer/internal/profanity"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/report"
	"github.com/leonardotrapani/profanity-silencer/internal/transcriber"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code. Results and
// "Error: ..." go to stdout, logs go to stderr.
func execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		report.NewPrinter(stdout, nil).Error(err)
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	provider   string
	model      string
	language   string
	transcript string
	logLevel   string
	padding    int
	summary    bool
	notify     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return buildRootCmd(&rootOptions{}, stdout, stderr)
}

func buildRootCmd(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profanity-silencer <input> <output>",
		Short: "Mute profanity in an audio file",
		Long: `Transcribes the input to timestamped words, mutes every word that contains
a profane keyword (plus padding on both sides) and writes the result as MP3.

Inputs that are not WAV are converted with ffmpeg first; the temporary WAV is
always removed afterwards.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := opts.logLevel
			if level == "" {
				level = config.DefaultLogLevel
			}
			return setupLogging(stderr, level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetupHint(runSilence(cmd, opts, args[0], args[1], stdout, stderr))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/profanity-silencer/config.toml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	f := cmd.Flags()
	f.IntVar(&opts.padding, "padding", config.DefaultPaddingMs, "milliseconds of extra silence around each profane word")
	f.StringVar(&opts.provider, "provider", "", fmt.Sprintf("transcription provider %v", provider.ListProviders()))
	f.StringVar(&opts.model, "model", "", "transcription model (see: models list)")
	f.StringVar(&opts.language, "language", "", "spoken language code, empty to auto-detect")
	f.StringVar(&opts.transcript, "transcript", "", "also write the word transcript as TSV to this path")
	f.BoolVar(&opts.summary, "summary", false, "print the muted words and spans")
	f.BoolVar(&opts.notify, "notify", false, "send a notification when the run finishes")

	cmd.AddCommand(
		modelsCmd(opts, stdout),
		depsCmd(stdout),
		configureCmd(opts, stdout),
	)
	return cmd
}

// loadConfig reads the config file and applies flags that were set
// explicitly on cmd.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		if o.provider != cfg.Transcription.Provider && !flags.Changed("model") {
			cfg.Transcription.Model = ""
		}
		cfg.Transcription.Provider = o.provider
	}
	if flags.Changed("model") {
		cfg.Transcription.Model = o.model
	}
	if cfg.Transcription.Model == "" {
		if p := provider.GetProvider(cfg.Transcription.Provider); p != nil {
			cfg.Transcription.Model = p.DefaultModel()
		}
	}
	if flags.Changed("language") {
		cfg.Transcription.Language = o.language
	}
	if flags.Changed("padding") {
		cfg.Silence.PaddingMs = o.padding
	}
	if flags.Changed("transcript") {
		cfg.Output.TranscriptPath = o.transcript
	}
	if flags.Changed("notify") {
		cfg.Notifications.Enabled = o.notify
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// withSetupHint appends the remediation for transcriber setup failures, so
// the single error line says what to fix.
func withSetupHint(err error) error {
	if hint := transcriber.SetupHint(err); hint != "" {
		return fmt.Errorf("%w (%s)", err, hint)
	}
	return err
}

func runSilence(cmd *cobra.Command, opts *rootOptions, input, output string, stdout, stderr io.Writer) error {
	if _, err := os.Stat(input); err != nil {
		return &pipeline.DecodeError{Path: input, Err: err}
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(stderr, cfg.Log.Level); err != nil {
		return err
	}

	ff, err := media.NewFFmpeg(cfg.Output.Bitrate)
	if err != nil {
		return err
	}

	classifier := profanity.NewDefault()
	tr, err := transcriber.New(cfg.ToTranscriberConfig(classifier.Keywords()))
	if err != nil {
		return &pipeline.TranscriptionError{Err: err}
	}
	defer tr.Close()

	runner := &pipeline.Runner{
		Transcriber:    tr,
		Classifier:     classifier,
		Media:          ff,
		PaddingMs:      cfg.Silence.PaddingMs,
		TranscriptPath: cfg.Output.TranscriptPath,
	}
	notifier := notify.New(cfg.Notifications.Enabled, cfg.Notifications.Type)
	res, err := runner.Run(cmd.Context(), input, output)

	printer := report.NewPrinter(stdout, classifier)
	printer.Warnings(res)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		notifier.Error(err.Error())
		return err
	}
	notifier.Done(output, res.ProfaneCount())
	if opts.summary {
		printer.Summary(res)
	}
	printer.Success()
	return nil
}
