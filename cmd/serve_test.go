package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/tabdex/db"
	"github.com/jsphweid/tabdex/gp3"
	"github.com/jsphweid/tabdex/gp3/gp3test"
	"github.com/jsphweid/tabdex/model"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

type fakeStore struct {
	rows map[string]db.SongMetadata
	puts [][]db.SongMetadata
}

func (f *fakeStore) GetSongMetadatas(_ context.Context, names []string) (map[string]db.SongMetadata, error) {
	res := make(map[string]db.SongMetadata)
	for _, n := range names {
		if row, ok := f.rows[n]; ok {
			res[n] = row
		}
	}
	return res, nil
}

func (f *fakeStore) PutSongMetadatas(_ context.Context, rows []db.SongMetadata) error {
	f.puts = append(f.puts, rows)
	if f.rows == nil {
		f.rows = make(map[string]db.SongMetadata)
	}
	for _, row := range rows {
		f.rows[row.PK] = row
	}
	return nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// library lays out a media dir with two good tabs and one broken one.
func library(t *testing.T) string {
	root := t.TempDir()
	write := func(name string, b []byte) {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, b, 0o644))
	}
	write("minimal.gp3", gp3test.MinimalSong())
	write("rock/riff.gp3", gp3test.Riff())
	write("broken.gp3", gp3test.Riff()[:100])
	write("readme.txt", []byte("not a tab"))
	return root
}

func testServer(t *testing.T) (*server, http.Handler) {
	s := &server{mediaDir: library(t), store: &fakeStore{}, log: quietLogger()}
	return s, newRouter(s)
}

func do(h http.Handler, method, target string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestDecodeEndpoint(t *testing.T) {
	_, h := testServer(t)
	resp := do(h, http.MethodPost, "/decode", bytes.NewReader(gp3test.MinimalSong()))

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.NotEmpty(resp.Header.Get("X-Request-Id"))

	var body model.DecodeResponse
	decodeBody(t, resp, &body)
	assert.Equal("Minimal", body.Song.Metadata.Title)
	assert.Equal(int8(5), *body.Song.Measures[0][0].Beats[0].Notes.Strings[0].Fret)
	assert.Empty(body.Warnings)
}

func TestDecodeEndpointModes(t *testing.T) {
	var w gp3test.Writer
	w.PaddedByteString("FICHIER GUITAR PRO v3.10", 30)
	tab := append(w.Bytes(), gp3test.MinimalSong()[31:]...)
	_, h := testServer(t)

	assert := assert.New(t)
	resp := do(h, http.MethodPost, "/decode", bytes.NewReader(tab))
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	var e model.ErrorResponse
	decodeBody(t, resp, &e)
	assert.Contains(e.Error, "unsupported version")

	resp = do(h, http.MethodPost, "/decode?mode=best-effort", bytes.NewReader(tab))
	assert.Equal(http.StatusOK, resp.StatusCode)
	var body model.DecodeResponse
	decodeBody(t, resp, &body)
	assert.Len(body.Warnings, 1)

	resp = do(h, http.MethodPost, "/decode?mode=chaotic", bytes.NewReader(tab))
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestSongsEndpoint(t *testing.T) {
	_, h := testServer(t)
	resp := do(h, http.MethodGet, "/songs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.SongsResponse
	decodeBody(t, resp, &body)

	assert := assert.New(t)
	require.Len(t, body.Songs, 2)
	assert.Equal("minimal.gp3", body.Songs[0].Path)
	assert.Equal("rock/riff.gp3", body.Songs[1].Path)
	assert.Equal([]string{"E4", "B3", "G3", "D3", "A2", "E2"}, body.Songs[1].Tracks[0].Tuning)
	assert.Equal(7, body.Songs[1].Tracks[0].NoteCount)
	assert.Equal([]string{"40-47"}, body.Songs[1].Tracks[0].Chords)
	assert.Equal([]string{"broken.gp3"}, body.Failed)
}

func TestSongEndpoint(t *testing.T) {
	_, h := testServer(t)

	assert := assert.New(t)
	resp := do(h, http.MethodGet, "/songs/rock%2Friff.gp3", nil)
	assert.Equal(http.StatusOK, resp.StatusCode)
	var body model.DecodeResponse
	decodeBody(t, resp, &body)
	assert.Equal("Riff", body.Song.Metadata.Title)

	assert.Equal(http.StatusNotFound, do(h, http.MethodGet, "/songs/nope.gp3", nil).StatusCode)
	assert.Equal(http.StatusBadRequest, do(h, http.MethodGet, "/songs/..%2Fetc.gp3", nil).StatusCode)
	assert.Equal(http.StatusUnprocessableEntity, do(h, http.MethodGet, "/songs/broken.gp3", nil).StatusCode)
}

func TestMidiEndpoint(t *testing.T) {
	_, h := testServer(t)

	resp := do(h, http.MethodGet, "/songs/rock%2Friff.gp3/tracks/1/midi", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert := assert.New(t)
	assert.Equal("audio/midi", resp.Header.Get("Content-Type"))
	assert.Contains(resp.Header.Get("Content-Disposition"), "riff.track1.mid")

	s, err := smf.ReadFrom(resp.Body)
	require.NoError(t, err)
	var ons int
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			ons++
		}
	}
	assert.Equal(7, ons)

	preview := do(h, http.MethodGet, "/songs/rock%2Friff.gp3/tracks/1/midi?preview=2", nil)
	assert.Equal(http.StatusOK, preview.StatusCode)
	assert.Equal(http.StatusNotFound, do(h, http.MethodGet, "/songs/rock%2Friff.gp3/tracks/2/midi", nil).StatusCode)
	assert.Equal(http.StatusBadRequest, do(h, http.MethodGet, "/songs/rock%2Friff.gp3/tracks/1/midi?preview=x", nil).StatusCode)
}

func TestMetadataEndpoint(t *testing.T) {
	s, h := testServer(t)
	s.store = &fakeStore{rows: map[string]db.SongMetadata{
		"rock/riff.gp3": {PK: "rock/riff.gp3", Title: "Riff"},
	}}

	resp := do(h, http.MethodPost, "/metadata", strings.NewReader(`{"paths": ["rock/riff.gp3", "other.gp3"]}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]db.SongMetadata
	decodeBody(t, resp, &body)

	assert := assert.New(t)
	assert.Len(body, 1)
	assert.Equal("Riff", body["rock/riff.gp3"].Title)
	assert.Equal(http.StatusBadRequest, do(h, http.MethodPost, "/metadata", strings.NewReader("{")).StatusCode)
}

func TestNoMediaDir(t *testing.T) {
	h := newRouter(&server{log: quietLogger()})

	assert := assert.New(t)
	assert.Equal(http.StatusServiceUnavailable, do(h, http.MethodGet, "/songs", nil).StatusCode)
	assert.Equal(http.StatusServiceUnavailable, do(h, http.MethodGet, "/songs/a.gp3", nil).StatusCode)
	assert.Equal(http.StatusServiceUnavailable, do(h, http.MethodPost, "/metadata", strings.NewReader("{}")).StatusCode)
	assert.Equal(http.StatusOK, do(h, http.MethodPost, "/decode", bytes.NewReader(gp3test.MinimalSong())).StatusCode)
}

func TestIndexLibrary(t *testing.T) {
	root := library(t)
	store := &fakeStore{}

	rows, err := indexLibrary(context.Background(), root, 0, store, gp3.Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, rows, 2)
	assert.Equal("minimal.gp3", rows[0].PK)
	assert.Equal("rock/riff.gp3", rows[1].PK)
	assert.Equal(rows[0].RunID, rows[1].RunID)
	assert.NotEmpty(rows[0].RunID)
	assert.Len(store.puts, 1)
	assert.Equal("The Band", store.rows["rock/riff.gp3"].Artist)

	limited, err := indexLibrary(context.Background(), root, 1, &fakeStore{}, gp3.Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Empty(limited, "the first tab in walk order is the broken one")
}

func TestPrintSummary(t *testing.T) {
	res, err := gp3.DecodeBytes(gp3test.Riff(), gp3.Options{Logger: quietLogger()})
	require.NoError(t, err)

	var buf bytes.Buffer
	sum := model.Summarize(res.Song, func(v int32) string { return "x" })
	sum.Tracks[0].Chords = []string{"40-47", "45-52"}
	printSummary(&buf, sum, []string{"title: oops"})

	out := buf.String()
	assert := assert.New(t)
	assert.Contains(out, "Title:    Riff")
	assert.Contains(out, "Tracks:   1 (7 notes)")
	assert.Contains(out, "[x x x x x x]")
	assert.Contains(out, "chords: 40-47 45-52")
	assert.Contains(out, "warning: title: oops")
}

func TestSummarizeCollectsDistinctChords(t *testing.T) {
	res, err := gp3.DecodeBytes(gp3test.Riff(), gp3.Options{Logger: quietLogger()})
	require.NoError(t, err)

	sum := summarize(res.Song)
	require.Len(t, sum.Tracks, 1)
	assert.Equal(t, []string{"40-47"}, sum.Tracks[0].Chords)
	assert.Equal(t, []string{"E4", "B3", "G3", "D3", "A2", "E2"}, sum.Tracks[0].Tuning)
}
