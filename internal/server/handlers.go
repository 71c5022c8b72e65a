package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/electoral/pkg/buildinfo"
	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
		Sessions int `json:"sessions"`
	}{
		Status:   "ok",
		Info:     buildinfo.Get(),
		Sessions: s.liveSessions(),
	})
}

func (s *Server) liveSessions() int {
	if s.sessions == nil {
		return 0
	}
	return s.sessions.Live()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.runner.Summaries(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	year, err := errors.ParseYear(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.runner.Load(r.Context(), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// handleChart renders one chart of one year without a session. Query
// parameters: width, popups, brush=start:end and refresh.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	year, err := errors.ParseYear(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, format, err := chartParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Year:    year,
		Width:   s.width,
		Charts:  []string{name},
		Formats: []string{format},
		Logger:  s.logger,
	}
	if err := queryOptions(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	writeArtifact(w, format, result.Artifacts[name][format])
}

func chartParams(r *http.Request) (string, string, error) {
	name := chi.URLParam(r, "chart")
	if err := chart.ValidateName(name); err != nil {
		return "", "", err
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", "", err
	}
	return name, format, nil
}

func queryOptions(r *http.Request, opts *pipeline.Options) error {
	q := r.URL.Query()
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid width %q", v)
		}
		opts.Width = width
	}
	if v := q.Get("brush"); v != "" {
		rng, err := pipeline.ParseRange(v)
		if err != nil {
			return err
		}
		opts.Brush = &rng
	}
	opts.Popups = q.Get("popups") != "false"
	opts.Refresh = q.Get("refresh") == "true"
	return nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	if format == pipeline.FormatSVG {
		writeSVG(w, data)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}

// =============================================================================
// Sessions
// =============================================================================

type sessionResponse struct {
	ID        string    `json:"id"`
	Year      int       `json:"year,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type brushRequest struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type brushResponse struct {
	States []string `json:"states"`
}

func (s *Server) sessionsEnabled(w http.ResponseWriter, r *http.Request) bool {
	if s.sessions == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "sessions are disabled"))
		return false
	}
	return true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Year: sess.Year, ExpiresAt: sess.ExpiresAt})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSelect selects a year on the session dashboard and returns the new
// layouts. A selection overtaken by a newer one answers 409.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	year, err := errors.ParseYear(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.sessions.Select(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSessionChart(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	name, format, err := chartParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if name == chart.YearChart {
		if _, err := sess.Dashboard.LoadTimeline(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	opts := pipeline.Options{
		Formats:  []string{format},
		Popups:   r.URL.Query().Get("popups") != "false",
		PNGScale: pipeline.DefaultPNGScale,
	}
	artifacts, err := pipeline.RenderChart(r.Context(), sess.Dashboard, name, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) handleBrush(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	var req brushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid brush body"))
		return
	}
	if req.Start == nil || req.End == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "brush needs start and end"))
		return
	}
	states, err := s.sessions.Brush(r.Context(), chi.URLParam(r, "id"), *req.Start, *req.End)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if states == nil {
		states = []string{}
	}
	writeJSON(w, http.StatusOK, brushResponse{States: states})
}

func (s *Server) handleClearBrush(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	if err := s.sessions.ClearBrush(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
