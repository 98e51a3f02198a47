package main

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/tradeflow/internal/exrate"
	"github.com/Simplici0/tradeflow/internal/money"
	"github.com/Simplici0/tradeflow/internal/scenario"
	"github.com/Simplici0/tradeflow/internal/session"
	"github.com/Simplici0/tradeflow/internal/tariff"
	"github.com/Simplici0/tradeflow/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

const historyLimit = 10

type rateSource interface {
	Refresh()
	Rate() (float64, bool)
}

type rateHistory interface {
	Recent(ctx context.Context, limit int) ([]exrate.Quote, error)
}

type serverDeps struct {
	logger   *zap.Logger
	sessions *session.Store
	registry *session.Registry
	catalog  *tariff.Catalog
	rates    rateSource
	history  rateHistory
}

type server struct {
	serverDeps
	pages *template.Template
}

type calculatorViewData struct {
	Theme     session.Theme
	View      view.View
	Fields    []string
	Displays  []string
	Scenarios []scenario.Name
}

func newServer(deps serverDeps) (*server, error) {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}

	pages, err := template.New("layout.html").Funcs(template.FuncMap{
		"isMode": func(id string) bool { return strings.HasSuffix(id, view.ModeField("")) },
	}).ParseFS(templateFS, "templates/layout.html", "templates/calculator.html")
	if err != nil {
		return nil, err
	}

	return &server{serverDeps: deps, pages: pages}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/theme", s.handleTheme)
	r.Post("/theme/toggle", s.handleThemeToggle)

	r.Route("/api", func(r chi.Router) {
		r.Get("/calc", s.handleCalc)
		r.Post("/calc/fields", s.handleCalcFields)
		r.Post("/calc/scenario/{name}", s.handleCalcScenario)
		r.Post("/calc/classification", s.handleCalcClassification)
		r.Post("/calc/local-currency", s.handleCalcLocalCurrency)
		r.Get("/classifications", s.handleClassifications)
		r.Get("/rate", s.handleRate)
		r.Post("/rate/refresh", s.handleRateRefresh)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) controller(w http.ResponseWriter, r *http.Request) (*view.Controller, bool) {
	id, err := s.sessions.CalculatorID(w, r)
	if err != nil {
		s.logger.Error("failed to assign calculator session", zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "no se pudo iniciar la sesión")
		return nil, false
	}
	return s.registry.Get(id), true
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	s.renderTemplate(w, calculatorViewData{
		Theme:     s.sessions.Theme(r),
		View:      c.View(),
		Fields:    view.StandardFields(),
		Displays:  view.StandardDisplays(),
		Scenarios: scenario.Names,
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	_, known := s.rates.Rate()
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"sessions":        s.registry.Len(),
		"rateKnown":       known,
		"classifications": len(s.catalog.Classifications()),
	})
}

func (s *server) handleTheme(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"theme": string(s.sessions.Theme(r))})
}

func (s *server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	theme, err := s.sessions.ToggleTheme(w, r)
	if err != nil {
		s.logger.Error("failed to toggle theme", zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "no se pudo guardar el tema")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"theme": string(theme)})
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, c.View())
}

func (s *server) handleCalcFields(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errorResponse(w, http.StatusBadRequest, "formulario inválido")
		return
	}

	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	values := make(map[string]string, len(r.PostForm))
	for id := range r.PostForm {
		values[id] = r.PostForm.Get(id)
	}
	c.EditFields(values)

	jsonResponse(w, http.StatusOK, c.View())
}

func (s *server) handleCalcScenario(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	c.SelectScenario(chi.URLParam(r, "name"))
	jsonResponse(w, http.StatusOK, c.View())
}

func (s *server) handleClassifications(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	matches := c.Search(query)
	jsonResponse(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": matches,
	})
}

func (s *server) handleCalcClassification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errorResponse(w, http.StatusBadRequest, "formulario inválido")
		return
	}

	code := strings.TrimSpace(r.PostForm.Get("code"))
	if code == "" {
		errorResponse(w, http.StatusBadRequest, "posición arancelaria requerida")
		return
	}

	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	rates := c.SelectClassification(code, r.PostForm.Get("description"))
	jsonResponse(w, http.StatusOK, map[string]any{
		"rates": rates,
		"view":  c.View(),
	})
}

func (s *server) handleCalcLocalCurrency(w http.ResponseWriter, r *http.Request) {
	c, ok := s.controller(w, r)
	if !ok {
		return
	}

	amount, converted := c.ViewInLocalCurrency()
	resp := map[string]any{
		"converted": converted,
		"view":      c.View(),
	}
	if converted {
		resp["amount"] = money.Round2(amount)
		resp["formatted"] = money.FormatLocal(amount)
	}
	jsonResponse(w, http.StatusOK, resp)
}

type rateResponse struct {
	Rate    float64        `json:"rate"`
	Known   bool           `json:"known"`
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	Rate float64   `json:"rate"`
	At   time.Time `json:"at"`
}

func (s *server) handleRate(w http.ResponseWriter, r *http.Request) {
	rate, known := s.rates.Rate()
	resp := rateResponse{Rate: rate, Known: known, History: []historyEntry{}}

	if s.history != nil {
		quotes, err := s.history.Recent(r.Context(), historyLimit)
		if err != nil {
			s.logger.Error("failed to load rate history", zap.Error(err))
			errorResponse(w, http.StatusInternalServerError, "no se pudo leer el historial de cotizaciones")
			return
		}
		for _, q := range quotes {
			resp.History = append(resp.History, historyEntry{Rate: q.Rate, At: q.At})
		}
	}

	jsonResponse(w, http.StatusOK, resp)
}

func (s *server) handleRateRefresh(w http.ResponseWriter, r *http.Request) {
	s.rates.Refresh()
	jsonResponse(w, http.StatusAccepted, map[string]string{"status": "refresh requested"})
}

func (s *server) renderTemplate(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("failed to render template", zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
