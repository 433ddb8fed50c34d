package providers

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/config"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/services"
)

const (
	bytesPerGiB = 1073741824
	bytesPerMiB = 1048576

	torrentSuffix = "torrent"
)

// Rules are the classification heuristics, built from config.Classifier
type Rules struct {
	videoExtensions    map[string]bool
	subtitleExtensions map[string]bool
	SubtitleLanguage   string
	RuntimeRatio       float64
	WebReadyExtension  string
}

// NewRules builds lookup sets from the classifier config
func NewRules(cfg config.Classifier) Rules {
	rules := Rules{
		videoExtensions:    make(map[string]bool, len(cfg.VideoExtensions)),
		subtitleExtensions: make(map[string]bool, len(cfg.SubtitleExtensions)),
		SubtitleLanguage:   cfg.SubtitleLanguage,
		RuntimeRatio:       cfg.SubtitleRuntimeRatio,
		WebReadyExtension:  strings.ToLower(cfg.WebReadyExtension),
	}
	for _, ext := range cfg.VideoExtensions {
		rules.videoExtensions[strings.ToLower(ext)] = true
	}
	for _, ext := range cfg.SubtitleExtensions {
		rules.subtitleExtensions[strings.ToLower(ext)] = true
	}
	return rules
}

// DefaultRules returns the rules of the default configuration
func DefaultRules() Rules {
	return NewRules(config.Default().Classifier)
}

func (r Rules) IsVideo(ext string) bool {
	return r.videoExtensions[ext]
}

func (r Rules) IsSubtitle(ext string) bool {
	return r.subtitleExtensions[ext]
}

// IsWebReady reports whether Stremio can play the container in a browser
func (r Rules) IsWebReady(ext string) bool {
	return ext == r.WebReadyExtension
}

// IsTorrentDescriptor reports whether the filename ends with the literal "torrent"
func IsTorrentDescriptor(name string) bool {
	return strings.HasSuffix(name, torrentSuffix)
}

// extensionOf prefers the extension derived at decode time
func extensionOf(f models.ArchiveFile) string {
	if f.Extension != "" {
		return f.Extension
	}
	return services.FileExtension(f.Name)
}

// Classification is one item's listing split by role; each group keeps listing order
type Classification struct {
	Videos    []models.ArchiveFile
	Subtitles []models.ArchiveFile
	Torrents  []models.ArchiveFile
}

// Classify partitions a file listing. Subtitle files whose duration reaches
// RuntimeRatio of the film's runtime are treated as mislabelled clips and dropped;
// with an unknown runtime (0) no duration filter is applied.
func Classify(files []models.ArchiveFile, runtimeSeconds int, rules Rules) Classification {
	var c Classification
	maxSubtitleDuration := rules.RuntimeRatio * float64(runtimeSeconds)

	for _, f := range files {
		ext := extensionOf(f)
		switch {
		case rules.IsSubtitle(ext):
			if runtimeSeconds > 0 && f.DurationSeconds >= maxSubtitleDuration {
				continue
			}
			c.Subtitles = append(c.Subtitles, f)
		case rules.IsVideo(ext):
			c.Videos = append(c.Videos, f)
		case IsTorrentDescriptor(f.Name):
			c.Torrents = append(c.Torrents, f)
		}
	}

	return c
}

var qualityTagPattern = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])((?:dvd|blu-?ray|bd|hd|web)(?:-?(?:rip|dl))?|nd-?rip|remux)(?:$|[^a-z0-9])`)

// ExtractQualityTag scans the texts in order for a release-quality token such as
// "BluRay", "WEB-DL" or "DVDRip" and returns the first one as written, or "".
func ExtractQualityTag(texts ...string) string {
	m := qualityTagPattern.FindStringSubmatch(strings.Join(texts, " "))
	if m == nil {
		return ""
	}
	return m[1]
}

// Reference describes the file whose properties are imputed onto torrent streams
type Reference struct {
	Filename        string
	Extension       string
	Format          string
	Height          int
	Size            int64
	DurationSeconds float64
}

// SelectReference picks the largest video (first one on ties). Its height falls back
// to the tallest video's when missing. ok is false when videos is empty.
func SelectReference(videos []models.ArchiveFile) (ref Reference, ok bool) {
	if len(videos) == 0 {
		return Reference{}, false
	}

	largest := videos[0]
	maxHeight := 0
	for _, v := range videos {
		if v.Size > largest.Size {
			largest = v
		}
		if v.Height > maxHeight {
			maxHeight = v.Height
		}
	}

	ref = Reference{
		Filename:        largest.Name,
		Extension:       extensionOf(largest),
		Format:          largest.Format,
		Height:          largest.Height,
		Size:            largest.Size,
		DurationSeconds: largest.DurationSeconds,
	}
	if ref.Height == 0 {
		ref.Height = maxHeight
	}
	return ref, true
}

// FormatSize renders bytes as "X.YGB" from 1 GiB upwards, otherwise as whole "XMB"
func FormatSize(bytes int64) string {
	if bytes >= bytesPerGiB {
		gb := math.Round(float64(bytes)/bytesPerGiB*10) / 10
		return fmt.Sprintf("%.1fGB", gb)
	}
	return fmt.Sprintf("%dMB", int64(math.Round(float64(bytes)/bytesPerMiB)))
}

// FormatMinutes renders a duration in seconds as whole minutes
func FormatMinutes(seconds float64) string {
	return fmt.Sprintf("%d", int64(math.Round(seconds/60)))
}
