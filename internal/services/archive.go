package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

const (
	archiveBaseURL = "https://archive.org"
	searchPath     = "/services/search/beta/page_production/"
)

// ArchiveClient talks to the Internet Archive search and item metadata APIs
type ArchiveClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewArchiveClient creates an archive client. An empty baseURL means archive.org
// and a nil client means one without a timeout.
func NewArchiveClient(baseURL string, httpClient *http.Client) *ArchiveClient {
	if baseURL == "" {
		baseURL = archiveBaseURL
	}
	return &ArchiveClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(httpClient),
	}
}

// Search API responses
type archiveSearchResponse struct {
	Response *struct {
		Body *struct {
			Hits *struct {
				Hits *[]archiveHit `json:"hits"`
			} `json:"hits"`
		} `json:"body"`
	} `json:"response"`
}

type archiveHit struct {
	Fields struct {
		Identifier  looseString `json:"identifier"`
		Title       looseString `json:"title"`
		Description looseString `json:"description"`
	} `json:"fields"`
}

// Item metadata API responses
type archiveFilesResponse struct {
	Result *[]archiveFile `json:"result"`
}

type archiveFile struct {
	Name   string      `json:"name"`
	Size   looseNumber `json:"size"`
	Length looseNumber `json:"length"`
	Height looseNumber `json:"height"`
	Width  looseNumber `json:"width"`
	Format looseString `json:"format"`
	Source looseString `json:"source"`
	BTIH   looseString `json:"btih"`
}

// SearchURL returns the search endpoint for an unencoded query
func (c *ArchiveClient) SearchURL(query string, limit int) string {
	return fmt.Sprintf("%s%s?user_query=%s&hits_per_page=%d", c.baseURL, searchPath, EncodeQueryComponent(query), limit)
}

// Search runs a query and returns at most limit candidates in service order
func (c *ArchiveClient) Search(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error) {
	var response archiveSearchResponse
	if err := getJSON(ctx, c.httpClient, c.SearchURL(query, limit), &response); err != nil {
		return nil, fmt.Errorf("archive search: %w", err)
	}

	if response.Response == nil || response.Response.Body == nil || response.Response.Body.Hits == nil || response.Response.Body.Hits.Hits == nil {
		return nil, fmt.Errorf("archive search: %w", ErrMissingHits)
	}

	hits := *response.Response.Body.Hits.Hits
	candidates := make([]models.SearchCandidate, 0, len(hits))
	for _, hit := range hits {
		identifier := strings.TrimSpace(string(hit.Fields.Identifier))
		if identifier == "" {
			continue
		}
		candidates = append(candidates, models.SearchCandidate{
			Identifier:  identifier,
			Title:       string(hit.Fields.Title),
			Description: string(hit.Fields.Description),
		})
		if limit > 0 && len(candidates) == limit {
			break
		}
	}

	return candidates, nil
}

// Files returns the flat file listing of an archive item
func (c *ArchiveClient) Files(ctx context.Context, identifier string) ([]models.ArchiveFile, error) {
	endpoint := fmt.Sprintf("%s/metadata/%s/files", c.baseURL, url.PathEscape(identifier))

	var response archiveFilesResponse
	if err := getJSON(ctx, c.httpClient, endpoint, &response); err != nil {
		return nil, fmt.Errorf("archive files %s: %w", identifier, err)
	}

	if response.Result == nil {
		return nil, fmt.Errorf("archive files %s: %w", identifier, ErrMissingFiles)
	}

	files := make([]models.ArchiveFile, 0, len(*response.Result))
	for _, f := range *response.Result {
		if f.Name == "" {
			continue
		}
		files = append(files, models.ArchiveFile{
			Name:            f.Name,
			Extension:       FileExtension(f.Name),
			Size:            f.Size.Int64(),
			DurationSeconds: float64(f.Length),
			Height:          f.Height.Int(),
			Width:           f.Width.Int(),
			Format:          string(f.Format),
			Source:          string(f.Source),
			InfoHash:        string(f.BTIH),
		})
	}

	return files, nil
}

// DownloadURL returns the direct download URL of a file inside an item
func (c *ArchiveClient) DownloadURL(identifier, filename string) string {
	segments := strings.Split(filename, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/download/%s/%s", c.baseURL, url.PathEscape(identifier), strings.Join(segments, "/"))
}

// FileExtension returns the lowercased last three characters of a filename
func FileExtension(name string) string {
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[len(runes)-3:]
	}
	return strings.ToLower(string(runes))
}
