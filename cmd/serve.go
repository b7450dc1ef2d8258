package cmd

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/engine"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/transpose"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var watch bool

func init() {
	serveCmd.Flags().BoolVar(&watch, "watch", false, "reload the project file when it changes")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves scale, resolve, frame and transpose queries over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		store := engine.NewStore(log)
		if _, err := store.Publish(p); err != nil {
			return err
		}

		server := NewServer(store, log)
		if watch {
			if projectID != "" {
				return errors.New("--watch only works with a project file")
			}
			stop, err := server.Watch(projectPath, constants.GetReloadDebounce())
			if err != nil {
				return err
			}
			defer stop()
		}

		addr := ":" + constants.GetPort()
		log.WithField("addr", addr).Info("Listening")
		return http.ListenAndServe(addr, server.Router())
	},
}

// Server answers queries against whatever engine its store holds when the
// request comes in.
type Server struct {
	store *engine.Store
	log   logrus.FieldLogger
}

func NewServer(store *engine.Store, log logrus.FieldLogger) *Server {
	return &Server{store: store, log: logger.OrDiscard(log)}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/scale/{trackId}", s.HandleScale).Methods("GET")
	router.HandleFunc("/resolve", s.HandleResolve).Methods("POST")
	router.HandleFunc("/frame/{tick}", s.HandleFrame).Methods("GET")
	router.HandleFunc("/transpose/key", HandleTransposeKey).Methods("POST")
	router.HandleFunc("/transpose/pitch", HandleTransposePitch).Methods("POST")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	var missing *diag.MissingReferenceError
	var cycle *diag.CycleError
	switch {
	case errors.As(err, &missing):
		return http.StatusNotFound
	case errors.As(err, &cycle):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) current(w http.ResponseWriter) *engine.Engine {
	e := s.store.Current()
	if e == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no project loaded"))
	}
	return e
}

func (s *Server) HandleScale(w http.ResponseWriter, r *http.Request) {
	e := s.current(w)
	if e == nil {
		return
	}
	trackID := mux.Vars(r)["trackId"]
	rs, warnings, err := e.Scale(trackID)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	k, err := keyFor(r.URL.Query().Get("key"), r.URL.Query().Get("mode"), rs.Tonic)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ScaleResponse{
		Track:     trackID,
		Tonic:     rs.Tonic,
		Intervals: rs.Intervals,
		Pitches:   rs.Pitches,
		Names:     names(rs.Pitches, k),
		Warnings:  warnings.Dedup().Strings(),
	})
}

func (s *Server) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var input model.ResolveRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
		return
	}
	e := s.current(w)
	if e == nil {
		return
	}
	if _, ok := e.Project().Hierarchy.Track(input.Track); !ok {
		writeError(w, http.StatusNotFound, diag.Missing(diag.TrackRef, input.Track, ""))
		return
	}

	pitches, warnings, err := e.ResolveBlock(model.NotesFromDocs(input.Notes), input.Track, input.Tick)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	rs, w2, err := e.Scale(input.Track)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	warnings.Add(w2...)
	k, err := keyFor("", "", rs.Tonic)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ResolveResponse{
		Pitches:  pitches,
		Names:    names(pitches, k),
		Warnings: warnings.Dedup().Strings(),
	})
}

func (s *Server) HandleFrame(w http.ResponseWriter, r *http.Request) {
	tick, err := strconv.Atoi(mux.Vars(r)["tick"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "bad tick"))
		return
	}
	e := s.current(w)
	if e == nil {
		return
	}

	frame, err := e.Frame(r.Context(), tick)
	if err != nil {
		s.log.WithError(err).WithField("tick", tick).Error("Could not resolve frame")
		writeError(w, statusOf(err), err)
		return
	}
	notes := make([]model.FrameNote, 0, len(frame.Events))
	for _, evt := range frame.Events {
		notes = append(notes, model.FrameNote{
			Track:    evt.TrackID,
			Clip:     evt.ClipID,
			Pitch:    evt.Pitch,
			Velocity: evt.Velocity,
		})
	}
	writeJSON(w, http.StatusOK, model.FrameResponse{
		Version:  frame.Version,
		Tick:     frame.Tick,
		Notes:    notes,
		Warnings: frame.Warnings.Dedup().Strings(),
	})
}

func tableNames(k transpose.Key) []string {
	table := k.Table()
	res := make([]string, 0, len(table))
	for _, s := range table {
		res = append(res, s.String())
	}
	return res
}

func HandleTransposeKey(w http.ResponseWriter, r *http.Request) {
	var input model.TransposeKeyRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
		return
	}
	k, err := transpose.ParseKey(input.Key, input.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dest := transpose.TransposeKey(k, input.Halftones)
	writeJSON(w, http.StatusOK, model.TransposeResponse{
		Key:   dest.String(),
		Table: tableNames(dest),
	})
}

func HandleTransposePitch(w http.ResponseWriter, r *http.Request) {
	var input model.TransposePitchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
		return
	}
	k, err := transpose.ParseKey(input.Key, input.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	n := transpose.TransposePitch(input.Pitch, k, input.Halftones)
	pitch := n.MIDI()
	writeJSON(w, http.StatusOK, model.TransposeResponse{
		Key:   transpose.TransposeKey(k, input.Halftones).String(),
		Pitch: &pitch,
		Name:  n.String(),
	})
}
