package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/config"
	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

func file(name string) models.ArchiveFile {
	return models.ArchiveFile{Name: name}
}

func TestRulesExtensions(t *testing.T) {
	rules := DefaultRules()

	for _, ext := range []string{"avi", "mp4", "mkv", "wmv", "mov", "m4v"} {
		assert.True(t, rules.IsVideo(ext), ext)
	}
	for _, ext := range []string{"srt", "vtt", "ass"} {
		assert.True(t, rules.IsSubtitle(ext), ext)
		assert.False(t, rules.IsVideo(ext), ext)
	}
	assert.False(t, rules.IsVideo("ogv"))
	assert.True(t, rules.IsWebReady("mp4"))
	assert.False(t, rules.IsWebReady("m4v"))
}

func TestNewRulesSubstitution(t *testing.T) {
	cfg := config.Default().Classifier
	cfg.VideoExtensions = []string{"OGV"}
	cfg.WebReadyExtension = "OGV"

	rules := NewRules(cfg)
	assert.True(t, rules.IsVideo("ogv"))
	assert.False(t, rules.IsVideo("mp4"))
	assert.True(t, rules.IsWebReady("ogv"))
}

func TestIsTorrentDescriptor(t *testing.T) {
	assert.True(t, IsTorrentDescriptor("nosferatu_archive.torrent"))
	assert.True(t, IsTorrentDescriptor("torrent"))
	assert.False(t, IsTorrentDescriptor("nosferatu_archive.TORRENT"))
	assert.False(t, IsTorrentDescriptor("torrent.txt"))
	assert.False(t, IsTorrentDescriptor("rent"))
}

func TestClassify(t *testing.T) {
	files := []models.ArchiveFile{
		{Name: "Nosferatu.MKV", Size: 1500000000},
		{Name: "Nosferatu.srt"},
		{Name: "nosferatu_archive.torrent", InfoHash: "0123456789abcdef0123456789abcdef01234567"},
		{Name: "Nosferatu.mp4", Size: 700000000},
		{Name: "preview.vtt", DurationSeconds: 5000},
		{Name: "short.ass", DurationSeconds: 60},
		{Name: "Nosferatu_meta.xml"},
		{Name: "Nosferatu.gif"},
	}

	c := Classify(files, 94*60, DefaultRules())

	require.Len(t, c.Videos, 2)
	assert.Equal(t, "Nosferatu.MKV", c.Videos[0].Name)
	assert.Equal(t, "Nosferatu.mp4", c.Videos[1].Name)

	require.Len(t, c.Subtitles, 2)
	assert.Equal(t, "Nosferatu.srt", c.Subtitles[0].Name)
	assert.Equal(t, "short.ass", c.Subtitles[1].Name)

	require.Len(t, c.Torrents, 1)
	assert.Equal(t, "nosferatu_archive.torrent", c.Torrents[0].Name)
}

func TestClassifySubtitleThreshold(t *testing.T) {
	runtime := 1000
	files := []models.ArchiveFile{
		{Name: "below.srt", DurationSeconds: 699},
		{Name: "at.srt", DurationSeconds: 700},
		{Name: "above.srt", DurationSeconds: 900},
	}

	c := Classify(files, runtime, DefaultRules())
	require.Len(t, c.Subtitles, 1)
	assert.Equal(t, "below.srt", c.Subtitles[0].Name)

	unknown := Classify(files, 0, DefaultRules())
	assert.Len(t, unknown.Subtitles, 3)
}

func TestClassifyUsesDecodedExtension(t *testing.T) {
	c := Classify([]models.ArchiveFile{{Name: "odd", Extension: "mp4"}}, 0, DefaultRules())
	assert.Len(t, c.Videos, 1)
}

func TestExtractQualityTag(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{"bluray in title", []string{"Nosferatu 1922 BluRay", "nosferatu.mp4", ""}, "BluRay"},
		{"hyphenated blu-ray", []string{"", "Nosferatu.Blu-ray.mkv", ""}, "Blu-ray"},
		{"lowercase bdrip", []string{"", "nosferatu_bdrip.avi", ""}, "bdrip"},
		{"web-dl", []string{"Nosferatu", "Nosferatu.WEB-DL.mkv", ""}, "WEB-DL"},
		{"webrip", []string{"", "", "Encoded from a WEBRip source"}, "WEBRip"},
		{"dvdrip", []string{"Nosferatu DVDRip", "", ""}, "DVDRip"},
		{"hd", []string{"Nosferatu HD", "", ""}, "HD"},
		{"nd-rip", []string{"", "Nosferatu.ND-Rip.avi", ""}, "ND-Rip"},
		{"remux", []string{"", "", "4K REMUX of the restoration"}, "REMUX"},
		{"first field wins", []string{"DVD", "x.BluRay.mkv", "WEB"}, "DVD"},
		{"description only", []string{"Nosferatu", "nosferatu.mp4", "dvd transfer"}, "dvd"},
		{"embedded words ignored", []string{"Shadows of the children", "hdd_backup.mp4", "website"}, ""},
		{"none", []string{"Nosferatu", "nosferatu.mp4", ""}, ""},
		{"no texts", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractQualityTag(tt.texts...))
		})
	}
}

func TestSelectReference(t *testing.T) {
	videos := []models.ArchiveFile{
		{Name: "small.mp4", Size: 400000000, Height: 480, Format: "h.264", DurationSeconds: 5600},
		{Name: "large.MKV", Size: 1500000000, Format: "Matroska", DurationSeconds: 5640},
		{Name: "mid.avi", Size: 900000000, Height: 576},
	}

	ref, ok := SelectReference(videos)
	require.True(t, ok)
	assert.Equal(t, "large.MKV", ref.Filename)
	assert.Equal(t, "mkv", ref.Extension)
	assert.Equal(t, "Matroska", ref.Format)
	assert.Equal(t, int64(1500000000), ref.Size)
	assert.Equal(t, 576, ref.Height, "missing height falls back to the tallest video")
	assert.InDelta(t, 5640, ref.DurationSeconds, 1e-9)

	_, ok = SelectReference(nil)
	assert.False(t, ok)
}

func TestSelectReferenceTieKeepsFirst(t *testing.T) {
	ref, ok := SelectReference([]models.ArchiveFile{
		{Name: "a.mp4", Size: 10, Height: 720},
		{Name: "b.mp4", Size: 10, Height: 1080},
	})
	require.True(t, ok)
	assert.Equal(t, "a.mp4", ref.Filename)
	assert.Equal(t, 720, ref.Height)
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		1073741824: "1.0GB",
		1048576:    "1MB",
		1610612736: "1.5GB",
		700000000:  "668MB",
		1073741823: "1024MB",
		0:          "0MB",
		524288:     "1MB",
		5368709120: "5.0GB",
	}
	for bytes, want := range tests {
		assert.Equal(t, want, FormatSize(bytes), "size %d", bytes)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "94", FormatMinutes(5640.52))
	assert.Equal(t, "0", FormatMinutes(0))
	assert.Equal(t, "2", FormatMinutes(90))
}

func TestFileHelper(t *testing.T) {
	assert.Equal(t, "mp4", extensionOf(file("a.mp4")))
}
