package server

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nick-dorsch/taskboard/embed/web"
	"github.com/nick-dorsch/taskboard/internal/board"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

var pageTemplate = template.Must(template.ParseFS(web.Templates, "templates/index.html"))

type Server struct {
	board  *board.Board
	logger *slog.Logger
	server *http.Server
}

func NewServer(b *board.Board, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{board: b, logger: logger}
}

// Handler builds the router for the page and the JSON API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Post("/tasks", s.handleAdd)
	r.Post("/tasks/{id}/toggle", s.handleToggle)
	r.Post("/tasks/{id}/delete", s.handleDelete)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.handleAPIList)
		r.Post("/tasks", s.handleAPIAdd)
		r.Post("/tasks/{id}/toggle", s.handleAPIToggle)
		r.Delete("/tasks/{id}", s.handleAPIDelete)
		r.Get("/stats", s.handleAPIStats)
	})

	return r
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("web server listening", "addr", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

type filterLink struct {
	Label    string
	Href     string
	Selected bool
}

type pageData struct {
	Filter       models.FilterMode
	Filters      []filterLink
	Tasks        []*models.Task
	Stats        models.Stats
	EmptyMessage string
	Footer       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	mode := models.ParseFilterMode(r.URL.Query().Get("filter"))
	tasks := s.board.Tasks()
	stats := board.ComputeStats(tasks)

	data := pageData{
		Filter:       mode,
		Tasks:        board.Filter(tasks, mode),
		Stats:        stats,
		EmptyMessage: board.EmptyMessage(mode),
		Footer:       board.CompletionMessage(stats),
	}
	for _, m := range models.FilterModes {
		data.Filters = append(data.Filters, filterLink{
			Label:    board.FilterLabel(m),
			Href:     indexURL(m),
			Selected: m == mode,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.board.Add(r.Context(), r.FormValue("text"))
	s.redirectBack(w, r)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.board.Toggle(r.Context(), taskID(r))
	s.redirectBack(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.board.Remove(r.Context(), taskID(r))
	s.redirectBack(w, r)
}

func (s *Server) redirectBack(w http.ResponseWriter, r *http.Request) {
	mode := models.ParseFilterMode(r.FormValue("filter"))
	http.Redirect(w, r, indexURL(mode), http.StatusSeeOther)
}

func indexURL(mode models.FilterMode) string {
	if mode == models.FilterAll {
		return "/"
	}
	return "/?filter=" + url.QueryEscape(string(mode))
}

func taskID(r *http.Request) models.TaskID {
	return models.TaskID(chi.URLParam(r, "id"))
}

type listResponse struct {
	Filter models.FilterMode `json:"filter"`
	Tasks  []*models.Task    `json:"tasks"`
	Stats  models.Stats      `json:"stats"`
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	mode := models.ParseFilterMode(r.URL.Query().Get("filter"))
	tasks := s.board.Tasks()
	s.respond(w, http.StatusOK, listResponse{
		Filter: mode,
		Tasks:  board.Filter(tasks, mode),
		Stats:  board.ComputeStats(tasks),
	})
}

type addRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAPIAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	task, ok := s.board.Add(r.Context(), req.Text)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respond(w, http.StatusCreated, task)
}

func (s *Server) handleAPIToggle(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if !s.board.Toggle(r.Context(), id) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respond(w, http.StatusOK, s.board.Get(id))
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	s.board.Remove(r.Context(), taskID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, board.ComputeStats(s.board.Tasks()))
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}
