package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/profanity-silencer/internal/config"
	"github.com/leonardotrapani/profanity-silencer/internal/models/whisper"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/report"
)

func modelsCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage transcription models",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(modelListCmd(opts, stdout))
	cmd.AddCommand(modelDownloadCmd(opts, stdout))
	cmd.AddCommand(modelRemoveCmd(opts, stdout))

	return cmd
}

// openStore uses the model directory from the config file, if any.
func openStore(opts *rootOptions) (*whisper.Store, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	return whisper.NewStore(cfg.Transcription.ModelDir)
}

func modelListCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	var providerFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transcription models per provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			return runModelList(stdout, store, providerFilter)
		},
	}
	cmd.Flags().StringVar(&providerFilter, "provider", "", "filter by provider name")
	return cmd
}

func runModelList(w io.Writer, store *whisper.Store, providerFilter string) error {
	names := provider.ListProviders()
	if providerFilter != "" {
		if provider.GetProvider(providerFilter) == nil {
			return fmt.Errorf("unknown provider: %s", providerFilter)
		}
		names = []string{providerFilter}
	}

	var rows [][]string
	for _, name := range names {
		p := provider.GetProvider(name)
		for _, m := range p.Models() {
			size, state := "", "cloud"
			if m.LocalInfo != nil {
				size = m.LocalInfo.Size
				state = "not installed"
				if store.IsInstalled(m.ID) {
					state = "installed"
				}
			}
			id := m.ID
			if m.ID == p.DefaultModel() {
				id += " *"
			}
			rows = append(rows, []string{name, id, m.Description, size, state})
		}
	}

	fmt.Fprintln(w, report.Table([]string{"Provider", "Model", "Description", "Size", "Status"}, rows, []report.Align{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight}))
	fmt.Fprintln(w, "* provider default")
	return nil
}

func modelDownloadCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "download <model>",
		Short: "Download a local whisper model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			return runModelDownload(cmd, stdout, store, args[0])
		},
	}
}

func runModelDownload(cmd *cobra.Command, w io.Writer, store *whisper.Store, modelID string) error {
	info := whisper.GetModel(modelID)
	if info == nil {
		if _, _, err := provider.FindModelByID(modelID); err == nil {
			fmt.Fprintf(w, "model '%s' is a cloud model and does not require download\n", modelID)
			return nil
		}
		return fmt.Errorf("unknown model: %s", modelID)
	}
	if store.IsInstalled(modelID) {
		fmt.Fprintf(w, "model '%s' is already installed at %s\n", modelID, store.Path(modelID))
		return nil
	}

	fmt.Fprintf(w, "downloading %s (%s)...\n", modelID, info.Size)
	lastPercent := 0
	err := store.Download(cmd.Context(), modelID, func(done, total int64) {
		if total <= 0 {
			return
		}
		if percent := int(done * 100 / total); percent >= lastPercent+10 {
			fmt.Fprintf(w, "%d%% ", percent)
			lastPercent = percent
		}
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	fmt.Fprintf(w, "\ndownload complete: %s\n", store.Path(modelID))
	return nil
}

func modelRemoveCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a downloaded local model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "model '%s' removed successfully\n", args[0])
			return nil
		},
	}
}
