package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

// QueryOptions bounds the item size clause of the archive query
type QueryOptions struct {
	MinItemSize int64
	MaxItemSize int64
}

// DirectorSurname returns the last whitespace-delimited token of a director's name
func DirectorSurname(director string) string {
	fields := strings.Fields(director)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// BuildArchiveQuery builds the boolean search query for a movie. The result is not encoded.
func BuildArchiveQuery(meta models.MovieMetadata, opts QueryOptions) string {
	parts := []string{
		// director's surname or year (±1)
		fmt.Sprintf("(%s OR %d OR %d OR %d)", DirectorSurname(meta.Director), meta.Year, meta.Year-1, meta.Year+1),
		// lowercase: the search engine parses a bare "TO" in a title as a range operator
		fmt.Sprintf("title:(%s)", strings.ToLower(meta.Title)),
		"-title:trailer",
		"mediatype:movies",
		fmt.Sprintf(`item_size:["%d" TO "%d"]`, opts.MinItemSize, opts.MaxItemSize),
	}
	return strings.Join(parts, " AND ")
}

// EncodeQueryComponent percent-encodes s the way JavaScript's encodeURIComponent does
func EncodeQueryComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")

	// encodeURIComponent leaves these unreserved marks alone
	replacer := strings.NewReplacer(
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	)
	return replacer.Replace(escaped)
}
