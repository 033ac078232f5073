// Package web exposes schedule generation over HTTP: start a run, poll its
// progress, and fetch the result once the pipeline finishes.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
	"github.com/ALEX0661/OPTISCHEDULE/internal/progress"
	"github.com/ALEX0661/OPTISCHEDULE/internal/scheduler"
)

type result struct {
	impossible bool
	events     []scheduler.ScheduledEvent
}

type Server struct {
	src   catalog.Source
	cfg   scheduler.Config
	log   *zap.Logger
	board *progress.Board

	mu      sync.RWMutex
	results map[string]result
}

func NewServer(src catalog.Source, cfg scheduler.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		src:     src,
		cfg:     cfg,
		log:     log,
		board:   progress.NewBoard(),
		results: make(map[string]result),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/schedules", s.handleCreate)
	mux.HandleFunc("/api/schedules/", s.handleGet)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// handleCreate starts a generation run and returns its process id; the
// pipeline runs in the background and may take minutes.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := uuid.NewString()
	s.board.Set(id, 0)
	go s.generate(id)

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"process_id": id})
}

func (s *Server) generate(id string) {
	sched := scheduler.New(s.src, s.cfg, s.log.With(zap.String("process_id", id)), s.board, id)
	events, err := sched.Generate(context.Background())

	res := result{events: events}
	if err != nil {
		if !errors.Is(err, scheduler.ErrImpossible) {
			s.log.Error("generation failed", zap.String("process_id", id), zap.Error(err))
		}
		res = result{impossible: true}
	}
	s.mu.Lock()
	s.results[id] = res
	s.mu.Unlock()
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/schedules/")

	if id, ok := strings.CutSuffix(rest, "/progress"); ok {
		value, tracked := s.board.Get(id)
		if !tracked {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]int{"progress": value})
		return
	}

	id := rest
	s.mu.RLock()
	res, done := s.results[id]
	s.mu.RUnlock()
	if !done {
		if value, tracked := s.board.Get(id); tracked {
			writeJSON(w, map[string]interface{}{"status": "pending", "progress": value})
			return
		}
		http.NotFound(w, r)
		return
	}
	if res.impossible {
		writeJSON(w, "impossible")
		return
	}
	writeJSON(w, res.events)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
