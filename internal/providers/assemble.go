package providers

import (
	"fmt"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

const streamNamePrefix = "IA"

// DownloadURLFunc maps an item identifier and a filename to a direct URL
type DownloadURLFunc func(identifier, filename string) string

// AssembleStreams turns one candidate's listing into Stremio streams: one per video
// file, then one per torrent descriptor. A listing without videos yields nothing.
// skipped counts torrent descriptors dropped for a missing or invalid info hash.
func AssembleStreams(candidate models.SearchCandidate, files []models.ArchiveFile, meta models.MovieMetadata, rules Rules, downloadURL DownloadURLFunc) (streams []models.Stream, skipped int) {
	classified := Classify(files, meta.RuntimeSeconds, rules)
	if len(classified.Videos) == 0 {
		return nil, 0
	}

	subtitles := buildSubtitles(candidate.Identifier, classified.Subtitles, rules, downloadURL)
	quality := ExtractQualityTag(candidate.Title, classified.Videos[0].Name, candidate.Description)

	streams = make([]models.Stream, 0, len(classified.Videos)+len(classified.Torrents))
	for _, f := range classified.Videos {
		ext := extensionOf(f)
		streams = append(streams, models.Stream{
			URL:  downloadURL(candidate.Identifier, f.Name),
			Name: streamName(quality, f.Height, f.Format),
			Description: streamDescription(
				candidate.Title,
				f.Name,
				joinNonEmpty(ext, f.Source),
				f.DurationSeconds,
				f.Size,
			),
			Subtitles: subtitles,
			BehaviorHints: models.StreamBehaviorHints{
				NotWebReady: !rules.IsWebReady(ext),
				VideoSize:   f.Size,
				Filename:    f.Name,
			},
		})
	}

	ref, _ := SelectReference(classified.Videos)
	for _, f := range classified.Torrents {
		infoHash, ok := NormalizeInfoHash(f.InfoHash)
		if !ok {
			skipped++
			continue
		}
		streams = append(streams, models.Stream{
			InfoHash: infoHash,
			Name:     streamName(quality, ref.Height, ref.Format),
			Description: streamDescription(
				candidate.Title,
				f.Name,
				ref.Extension+" (archive torrent)",
				ref.DurationSeconds,
				ref.Size,
			),
			Subtitles: subtitles,
			BehaviorHints: models.StreamBehaviorHints{
				VideoSize: ref.Size,
				Filename:  ref.Filename,
			},
		})
	}

	return streams, skipped
}

func buildSubtitles(identifier string, files []models.ArchiveFile, rules Rules, downloadURL DownloadURLFunc) []models.Subtitle {
	subtitles := make([]models.Subtitle, 0, len(files))
	for _, f := range files {
		subtitles = append(subtitles, models.Subtitle{
			ID:   f.Name,
			URL:  downloadURL(identifier, f.Name),
			Lang: rules.SubtitleLanguage,
		})
	}
	return subtitles
}

// NormalizeInfoHash validates a hex BitTorrent v1 info hash and returns it lowercased
func NormalizeInfoHash(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	var h metainfo.Hash
	if err := h.FromHexString(raw); err != nil {
		return "", false
	}
	return h.HexString(), true
}

// MagnetLink returns a magnet URI for a stream located by info hash, "" otherwise
func MagnetLink(s models.Stream) string {
	if !s.IsTorrent() {
		return ""
	}
	var h metainfo.Hash
	if err := h.FromHexString(s.InfoHash); err != nil {
		return ""
	}
	return metainfo.Magnet{InfoHash: h, DisplayName: s.BehaviorHints.Filename}.String()
}

func streamName(quality string, height int, format string) string {
	resolution := ""
	if height > 0 {
		resolution = fmt.Sprintf("%dp", height)
	}
	return joinNonEmpty(streamNamePrefix, quality, resolution, format)
}

func streamDescription(title, filename, kind string, durationSeconds float64, size int64) string {
	return fmt.Sprintf("%s\n%s\n🎬 %s\n🕥 %s min   💾 %s",
		title, filename, kind, FormatMinutes(durationSeconds), FormatSize(size))
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
