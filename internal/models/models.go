package models

// MovieMetadata is the resolved view of a movie used to build the archive query
type MovieMetadata struct {
	Title          string `json:"title"`
	Year           int    `json:"year"`
	Director       string `json:"director"`
	RuntimeSeconds int    `json:"runtime_seconds"`
}

// SearchCandidate is one archive item returned by the search service
type SearchCandidate struct {
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ArchiveFile is one entry of an item's file listing
type ArchiveFile struct {
	Name            string  `json:"name"`
	Extension       string  `json:"extension"`
	Size            int64   `json:"size"`
	DurationSeconds float64 `json:"duration_seconds"`
	Height          int     `json:"height"`
	Width           int     `json:"width"`
	Format          string  `json:"format"`
	Source          string  `json:"source"`
	InfoHash        string  `json:"info_hash,omitempty"`
}

// Subtitle represents a Stremio subtitle track
type Subtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// StreamBehaviorHints provides hints to Stremio about stream behavior
type StreamBehaviorHints struct {
	NotWebReady bool   `json:"notWebReady,omitempty"`
	VideoSize   int64  `json:"videoSize,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// Stream is a single playable source in Stremio format.
// Exactly one of URL or InfoHash is set.
type Stream struct {
	URL           string              `json:"url,omitempty"`
	InfoHash      string              `json:"infoHash,omitempty"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Subtitles     []Subtitle          `json:"subtitles"`
	BehaviorHints StreamBehaviorHints `json:"behaviorHints"`
}

// IsTorrent reports whether the stream is located by info hash
func (s Stream) IsTorrent() bool {
	return s.InfoHash != ""
}

// StreamRequest represents a request for streams, following Stremio SDK pattern
type StreamRequest struct {
	Type string // "movie" is the only handled type
	ID   string // IMDb ID, optionally followed by ":season:episode"
}

// StreamResponse is the envelope returned to Stremio
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}

// EmptyStreamResponse returns an envelope that serialises as {"streams":[]}
func EmptyStreamResponse() StreamResponse {
	return StreamResponse{Streams: []Stream{}}
}
