package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

const nosferatuHash = "0123456789abcdef0123456789abcdef01234567"

func upstreamServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/meta/movie/tt0013442.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"id":"tt0013442","name":"Nosferatu","year":"1922","director":["F.W. Murnau"],"runtime":"94 min"}}`))
	})
	mux.HandleFunc("/services/search/beta/page_production/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"body":{"hits":{"hits":[{"fields":{"identifier":"nosferatu","title":"Nosferatu"}}]}}}}`))
	})
	mux.HandleFunc("/metadata/nosferatu/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[
			{"name":"Nosferatu.mp4","size":"700000000","length":"5640.2","height":"720","format":"h.264","source":"derivative"},
			{"name":"nosferatu_archive.torrent","format":"Archive BitTorrent","btih":"` + nosferatuHash + `"}
		]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runLookup(t *testing.T, args ...string) (string, error) {
	t.Helper()
	srv := upstreamServer(t)
	t.Setenv("IA_CINEMETA_URL", srv.URL)
	t.Setenv("IA_ARCHIVE_URL", srv.URL)
	t.Setenv("IA_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestLookupJSON(t *testing.T) {
	out, err := runLookup(t, "tt0013442", "--json")
	require.NoError(t, err)

	var resp models.StreamResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Streams, 2)
	assert.Equal(t, "IA 720p h.264", resp.Streams[0].Name)
	assert.Contains(t, resp.Streams[0].URL, "/download/nosferatu/Nosferatu.mp4")
	assert.Equal(t, nosferatuHash, resp.Streams[1].InfoHash)
	assert.Equal(t, int64(700000000), resp.Streams[1].BehaviorHints.VideoSize)
}

func TestLookupTable(t *testing.T) {
	out, err := runLookup(t, "tt0013442")
	require.NoError(t, err)

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Locator")
	assert.Contains(t, out, "IA 720p h.264")
	assert.Contains(t, out, "668MB")
	assert.Contains(t, out, "magnet:?xt=urn:btih:"+nosferatuHash)
	assert.Contains(t, out, "Nosferatu.mp4")
}

func TestLookupUnsupportedType(t *testing.T) {
	out, err := runLookup(t, "tt0013442", "--type", "series")
	require.NoError(t, err)
	assert.Contains(t, out, "No streams found")
}

func TestLookupRequiresID(t *testing.T) {
	_, err := runLookup(t)
	assert.Error(t, err)
}

func TestLookupBadConfig(t *testing.T) {
	_, err := runLookup(t, "tt0013442", "--config", "/nonexistent/archive.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRenderTable(t *testing.T) {
	assert.Empty(t, renderTable(nil, nil, nil))

	out := renderTable([]string{"A", "B"}, [][]string{{"x"}, {"y", "z"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "z")
}
