package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/config"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/logging"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/providers"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var typeFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:           "lookup <imdb-id>",
		Short:         "Look up Internet Archive streams for a movie",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the environment still applies
			_ = godotenv.Load()

			cfg, err := config.Load(configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer closer.Close()

			httpClient := &http.Client{}
			provider := providers.NewArchiveProvider(
				services.NewCinemetaClient(cfg.Upstream.CinemetaURL, httpClient),
				services.NewArchiveClient(cfg.Upstream.ArchiveURL, httpClient),
				*cfg,
				logger,
			)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout := cfg.Server.RequestTimeout.Duration; timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			resp := provider.GetStreams(ctx, models.StreamRequest{Type: typeFlag, ID: strings.TrimSpace(args[0])})
			if jsonFlag {
				return writeJSON(cmd, resp)
			}
			return writeStreams(cmd, resp.Streams)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&typeFlag, "type", "movie", "Stremio content type")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the raw stream envelope as JSON")

	return cmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStreams(cmd *cobra.Command, streams []models.Stream) error {
	out := cmd.OutOrStdout()
	if len(streams) == 0 {
		_, err := fmt.Fprintln(out, "No streams found")
		return err
	}

	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		rows = append(rows, streamRow(s))
	}

	headers := []string{"Name", "Size", "Locator", "Filename"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}
	_, err := fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return err
}

func streamRow(s models.Stream) []string {
	locator := s.URL
	if s.IsTorrent() {
		locator = providers.MagnetLink(s)
	}
	return []string{s.Name, providers.FormatSize(s.BehaviorHints.VideoSize), locator, s.BehaviorHints.Filename}
}
