package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/export"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/session"
)

// viewResponse is the JSON shape of a view: the state plus both Plotly
// figures.
type viewResponse struct {
	Selection dashboard.Selection `json:"selection"`
	Years     []int               `json:"years"`
	Scatter   chart.Figure        `json:"scatter"`
	Sunburst  chart.Figure        `json:"sunburst"`
}

func newViewResponse(v dashboard.View) viewResponse {
	return viewResponse{
		Selection: v.Selection,
		Years:     v.Years,
		Scatter:   v.Scatter.Figure(),
		Sunburst:  v.Sunburst.Figure(),
	}
}

type yearRequest struct {
	Year *int `json:"year"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func controller(w http.ResponseWriter, r *http.Request) (*dashboard.Controller, bool) {
	ctrl, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("no session"))
	}
	return ctrl, ok
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"records":  s.ds.Len(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := controller(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.renderPage(&buf, ctrl.View()); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newViewResponse(ctrl.View()))
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]int{"years": s.ds.DistinctYears()})
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := controller(w, r)
	if !ok {
		return
	}

	var req yearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, bodyStatus(err), fmt.Errorf("decode year: %w", err))
		return
	}
	if req.Year == nil {
		writeError(w, http.StatusBadRequest, errors.New("missing year"))
		return
	}

	v, err := ctrl.Dispatch(dashboard.YearChanged{Year: *req.Year})
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, gapminder.ErrUnknownYear) {
			code = http.StatusBadRequest
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, newViewResponse(v))
}

// handleClick forwards the raw click payload; anything unparseable leaves
// the view unchanged and still answers 200.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := controller(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, bodyStatus(err), fmt.Errorf("read click: %w", err))
		return
	}

	v, err := ctrl.Dispatch(dashboard.ClickPayload(body))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("click", "session", session.IDFromContext(r.Context()), "selection", v.Selection.String())
	writeJSON(w, http.StatusOK, newViewResponse(v))
}

// handleExport renders a chart for an explicit selection without touching
// any session. The name is "<chart>.<format>".
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	chartName, format, ok := strings.Cut(name, ".")
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", export.ErrUnsupported, name))
		return
	}
	render, contentType, err := s.registry.Get(chartName, format)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	sel := dashboard.Selection{Year: s.ds.MinYear(), Continent: r.URL.Query().Get("continent")}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("year %q: %w", raw, err))
			return
		}
		if !s.ds.HasYear(year) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %d", gapminder.ErrUnknownYear, year))
			return
		}
		sel.Year = year
	}

	v := dashboard.New(s.ds,
		dashboard.WithChartOptions(s.opts),
		dashboard.WithSelection(sel),
	).View()

	var buf bytes.Buffer
	if err := render(&buf, v); err != nil {
		s.logger.Error("export", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		fmt.Sprintf("gapminder_%d.%s", sel.Year, name)))
	w.Write(buf.Bytes())
}

func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
