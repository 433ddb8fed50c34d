package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/config"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/services"
)

// MetadataSource resolves an IMDb ID to movie metadata
type MetadataSource interface {
	GetMovie(ctx context.Context, imdbID string) (*models.MovieMetadata, error)
}

// ArchiveSource searches the archive and lists item files
type ArchiveSource interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error)
	Files(ctx context.Context, identifier string) ([]models.ArchiveFile, error)
	DownloadURL(identifier, filename string) string
}

// ArchiveProvider finds Internet Archive streams for a movie. It holds no per-request
// state and is safe for concurrent use.
type ArchiveProvider struct {
	meta        MetadataSource
	archive     ArchiveSource
	rules       Rules
	query       services.QueryOptions
	maxResults  int
	concurrency int
	logger      *slog.Logger
}

func NewArchiveProvider(meta MetadataSource, archive ArchiveSource, cfg config.Config, logger *slog.Logger) *ArchiveProvider {
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Archive.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &ArchiveProvider{
		meta:    meta,
		archive: archive,
		rules:   NewRules(cfg.Classifier),
		query: services.QueryOptions{
			MinItemSize: cfg.Archive.MinItemSize,
			MaxItemSize: cfg.Archive.MaxItemSize,
		},
		maxResults:  cfg.Archive.MaxCandidates,
		concurrency: concurrency,
		logger:      logger,
	}
}

// GetStreams is the addon entry point. Only movies are handled; every failure is
// logged and turned into an empty envelope.
func (p *ArchiveProvider) GetStreams(ctx context.Context, req models.StreamRequest) models.StreamResponse {
	if req.Type != "movie" {
		p.logger.Debug("Ignoring unsupported type", "type", req.Type, "id", req.ID)
		return models.EmptyStreamResponse()
	}

	imdbID := strings.TrimSpace(strings.SplitN(req.ID, ":", 2)[0])
	if imdbID == "" {
		return models.EmptyStreamResponse()
	}

	streams, err := p.GetMovieStreams(ctx, imdbID)
	if err != nil {
		p.logger.Warn("Stream lookup failed", "imdb_id", imdbID, "error", err)
		return models.EmptyStreamResponse()
	}

	return models.StreamResponse{Streams: streams}
}

// GetMovieStreams runs the lookup pipeline. Metadata and search failures are returned;
// per-candidate failures are logged and the candidate is skipped.
func (p *ArchiveProvider) GetMovieStreams(ctx context.Context, imdbID string) ([]models.Stream, error) {
	meta, err := p.meta.GetMovie(ctx, imdbID)
	if err != nil {
		return nil, fmt.Errorf("resolve metadata: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("resolve metadata: %w", services.ErrMissingMeta)
	}

	query := services.BuildArchiveQuery(*meta, p.query)
	p.logger.Debug("Built archive query", "imdb_id", imdbID, "query", query)

	candidates, err := p.archive.Search(ctx, query, p.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search archive: %w", err)
	}
	if p.maxResults > 0 && len(candidates) > p.maxResults {
		candidates = candidates[:p.maxResults]
	}

	p.logger.Info("Found results on IA", "count", len(candidates), "title", meta.Title, "imdb_id", imdbID)

	perCandidate := p.collect(ctx, *meta, candidates)

	streams := make([]models.Stream, 0)
	for _, s := range perCandidate {
		streams = append(streams, s...)
	}

	p.logger.Info("Returning streams", "count", len(streams), "imdb_id", imdbID)
	return streams, nil
}

// collect processes candidates one at a time, or with bounded fan-out when
// concurrency > 1. Either way result i belongs to candidates[i].
func (p *ArchiveProvider) collect(ctx context.Context, meta models.MovieMetadata, candidates []models.SearchCandidate) [][]models.Stream {
	if p.concurrency <= 1 || len(candidates) <= 1 {
		results := make([][]models.Stream, 0, len(candidates))
		for _, c := range candidates {
			results = append(results, p.candidateStreams(ctx, meta, c))
		}
		return results
	}

	mapper := iter.Mapper[models.SearchCandidate, []models.Stream]{MaxGoroutines: p.concurrency}
	return mapper.Map(candidates, func(c *models.SearchCandidate) []models.Stream {
		return p.candidateStreams(ctx, meta, *c)
	})
}

func (p *ArchiveProvider) candidateStreams(ctx context.Context, meta models.MovieMetadata, candidate models.SearchCandidate) []models.Stream {
	files, err := p.archive.Files(ctx, candidate.Identifier)
	if err != nil {
		p.logger.Warn("Skipping candidate, file listing failed", "identifier", candidate.Identifier, "error", err)
		return nil
	}
	if len(files) == 0 {
		p.logger.Info("Skipping candidate, empty listing", "identifier", candidate.Identifier)
		return nil
	}

	streams, skipped := AssembleStreams(candidate, files, meta, p.rules, p.archive.DownloadURL)
	if skipped > 0 {
		p.logger.Warn("Dropped torrent descriptors without a valid info hash", "identifier", candidate.Identifier, "count", skipped)
	}
	if len(streams) == 0 {
		p.logger.Info("Skipping candidate, no video files", "identifier", candidate.Identifier)
		return nil
	}

	p.logger.Info("Candidate streams", "identifier", candidate.Identifier, "count", len(streams))
	return streams
}
