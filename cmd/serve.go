package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/db"
	"github.com/jsphweid/tabdex/file"
	"github.com/jsphweid/tabdex/gp3"
	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/sample"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const maxUploadBytes = 16 << 20

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetListenAddr(), "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the tab library over HTTP",
	Long:  `Serves decoding, the tabs under MEDIA_PATH, MIDI exports and indexed metadata over HTTP.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(serveAddr)
	},
}

type metadataReader interface {
	GetSongMetadatas(ctx context.Context, names []string) (map[string]db.SongMetadata, error)
}

type server struct {
	mediaDir string
	store    metadataReader
	mode     gp3.Mode
	log      logrus.FieldLogger
}

func serve(addr string) error {
	s := &server{mode: decodeOptions().Mode, log: logrus.StandardLogger()}
	if dir, ok := constants.GetMediaDir(); ok {
		s.mediaDir = dir
	} else {
		s.log.Warn("MEDIA_PATH is not set, only /decode will work")
	}
	client, err := db.NewClient()
	if err != nil {
		return err
	}
	s.store = client

	s.log.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, newRouter(s))
}

func newRouter(s *server) http.Handler {
	router := mux.NewRouter().StrictSlash(true).UseEncodedPath()
	router.Use(s.withRequestID)
	router.HandleFunc("/decode", s.handleDecode).Methods("POST")
	router.HandleFunc("/songs", s.handleSongs).Methods("GET")
	router.HandleFunc("/songs/{name}", s.handleSong).Methods("GET")
	router.HandleFunc("/songs/{name}/tracks/{track:[0-9]+}/midi", s.handleMidi).Methods("GET")
	router.HandleFunc("/metadata", s.handleMetadata).Methods("POST")

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		s.log.WithFields(logrus.Fields{"id": id, "method": r.Method, "path": r.URL.Path}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func (s *server) options(r *http.Request) (gp3.Options, error) {
	opts := gp3.Options{Mode: s.mode, Logger: s.log}
	if m := r.URL.Query().Get("mode"); m != "" {
		mode, err := gp3.ParseMode(m)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}
	return opts, nil
}

func (s *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Wrap(err, "could not read body"))
		return
	}
	res, err := gp3.DecodeBytes(body, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, model.DecodeResponse{Song: res.Song, Warnings: warnings})
}

func (s *server) handleSongs(w http.ResponseWriter, r *http.Request) {
	if s.mediaDir == "" {
		writeError(w, http.StatusServiceUnavailable, errors.New("no media dir configured"))
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	paths, err := util.GatherAllTabPaths(s.mediaDir, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	res := model.SongsResponse{Songs: []model.SongSummary{}}
	for _, p := range paths {
		name, err := file.RelativeName(s.mediaDir, p)
		if err != nil {
			continue
		}
		decoded, err := gp3.DecodeFile(p, opts)
		if err != nil {
			s.log.WithField("path", name).Warn(err.Error())
			res.Failed = append(res.Failed, name)
			continue
		}
		sum := summarize(decoded.Song)
		sum.Path = name
		res.Songs = append(res.Songs, sum)
	}
	writeJSON(w, http.StatusOK, res)
}

// loadSong decodes the tab named in the route, writing the error response
// itself when that fails.
func (s *server) loadSong(w http.ResponseWriter, r *http.Request) (string, *gp3.Result, bool) {
	if s.mediaDir == "" {
		writeError(w, http.StatusServiceUnavailable, errors.New("no media dir configured"))
		return "", nil, false
	}
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "bad tab name"))
		return "", nil, false
	}
	p, err := file.Resolve(s.mediaDir, name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}
	if _, err := os.Stat(p); err != nil {
		writeError(w, http.StatusNotFound, errors.Errorf("no tab named %q", name))
		return "", nil, false
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}
	res, err := gp3.DecodeFile(p, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return "", nil, false
	}
	return name, res, true
}

func (s *server) handleSong(w http.ResponseWriter, r *http.Request) {
	_, res, ok := s.loadSong(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.DecodeResponse{Song: res.Song, Warnings: res.Warnings})
}

func (s *server) handleMidi(w http.ResponseWriter, r *http.Request) {
	name, res, ok := s.loadSong(w, r)
	if !ok {
		return
	}
	track, _ := strconv.Atoi(mux.Vars(r)["track"])
	smf, err := midi.FromTrack(res.Song, track-1)
	if errors.Is(err, midi.ErrNoSuchTrack) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if p := r.URL.Query().Get("preview"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.Errorf("bad preview %q", p))
			return
		}
		smf = sample.Create(smf, 0, n)
	}

	base := path.Base(name)
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", midi.FileName(base[:len(base)-len(path.Ext(base))], track-1)))
	if _, err := midi.Write(w, smf); err != nil {
		s.log.WithField("path", name).Warn(err.Error())
	}
}

func (s *server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no metadata store configured"))
		return
	}
	var input model.MetadataRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return
	}
	rows, err := s.store.GetSongMetadatas(r.Context(), input.Paths)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
