// Package api provides the HTTP REST API server for compounder.
//
// It exposes company valuation, statement tables and sensitivity grids
// over JSON, with HTML and plain-text renderings of the full report.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/seenimoa/compounder/internal/analysis/fundamental"
	"github.com/seenimoa/compounder/internal/config"
	"github.com/seenimoa/compounder/internal/datasource"
	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/financials"
	"github.com/seenimoa/compounder/internal/pipeline"
	"github.com/seenimoa/compounder/internal/report"
	"github.com/seenimoa/compounder/pkg/models"
	"github.com/seenimoa/compounder/pkg/utils"
)

// maxUploadBytes bounds an uploaded company page.
const maxUploadBytes = 8 << 20

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	source  datasource.Source
	logger  zerolog.Logger
	version string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, source datasource.Source, logger zerolog.Logger, version string) *Server {
	srv := &Server{
		cfg:     cfg,
		source:  source,
		logger:  logger.With().Str("component", "api").Logger(),
		version: version,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully when
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Valuation
		r.Get("/valuation/{ticker}", s.handleValuation)
		r.Post("/valuation", s.handleValuationUpload)

		// Statement tables and growth
		r.Get("/tables/{ticker}", s.handleTables)

		// Sensitivity grid
		r.Get("/sensitivity/{ticker}", s.handleSensitivity)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/credentials", s.handleGetCredentials)
	})

	return r
}

// requestLogger logs one line per request with zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TablesResponse is the body of GET /api/v1/tables/{ticker}.
type TablesResponse struct {
	Symbol       string                `json:"symbol"`
	CompanyName  models.MetricValue    `json:"company_name"`
	Tables       []*models.MetricTable `json:"tables"`
	SalesGrowth  *models.GrowthMatrix  `json:"sales_growth,omitempty"`
	ProfitGrowth *models.GrowthMatrix  `json:"profit_growth,omitempty"`
	Warnings     []string              `json:"warnings,omitempty"`
}

// TablesFrom selects the extracted tables of a report.
func TablesFrom(rep *models.Report) TablesResponse {
	return TablesResponse{
		Symbol:       rep.Symbol,
		CompanyName:  rep.CompanyName,
		Tables:       rep.Tables,
		SalesGrowth:  rep.SalesGrowth,
		ProfitGrowth: rep.ProfitGrowth,
		Warnings:     rep.Warnings,
	}
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status":   "ok",
			"version":  s.version,
			"time_ist": utils.FormatDateTimeIST(utils.NowIST()),
		},
	})
}

// handleValuation fetches the company page and values it. Query
// parameters override the configured assumptions; ?format=html|text
// returns a rendered report instead of JSON.
func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	pl, format, ok := s.requestPipeline(w, r)
	if !ok {
		return
	}
	doc, symbol, ok := s.fetch(w, r)
	if !ok {
		return
	}
	rep, err := pl.Run(symbol, doc)
	s.writeReport(w, rep, err, format)
}

// handleValuationUpload values a company page posted as the request body.
func (s *Server) handleValuationUpload(w http.ResponseWriter, r *http.Request) {
	pl, format, ok := s.requestPipeline(w, r)
	if !ok {
		return
	}
	doc, err := document.ParseHTML(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid HTML body: "+err.Error())
		return
	}
	symbol := utils.NormalizeTicker(r.URL.Query().Get("symbol"))
	rep, err := pl.Run(symbol, doc)
	s.writeReport(w, rep, err, format)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	doc, symbol, ok := s.fetch(w, r)
	if !ok {
		return
	}
	// Tables do not depend on the assumptions; a valuation failure is
	// irrelevant here.
	rep, _ := pipeline.New(pipeline.ParamsFromConfig(s.cfg.Valuation), s.logger).Run(symbol, doc)
	if len(rep.Tables) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no statement tables found")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: TablesFrom(rep)})
}

// handleSensitivity returns intrinsic P/E over a growth × cost of capital
// grid. Ranges are given as growth_from/growth_to/growth_step and
// coc_from/coc_to/coc_step.
func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	pl, _, ok := s.requestPipeline(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	growth, err := rangeParam(q.Get("growth_from"), q.Get("growth_to"), q.Get("growth_step"), 8, 20, 2)
	if err != nil {
		writeError(w, http.StatusBadRequest, "growth range: "+err.Error())
		return
	}
	costs, err := rangeParam(q.Get("coc_from"), q.Get("coc_to"), q.Get("coc_step"), 8, 16, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cost of capital range: "+err.Error())
		return
	}
	if len(growth)*len(costs) > 10000 {
		writeError(w, http.StatusBadRequest, "grid too large")
		return
	}

	doc, symbol, ok := s.fetch(w, r)
	if !ok {
		return
	}
	rep, err := pl.Run(symbol, doc)
	if errors.Is(err, pipeline.ErrIncompleteData) {
		writeError(w, statusFor(err), err.Error())
		return
	}
	grid, err := pl.Sensitivity(r.Context(), rep, growth, costs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: grid})
}

// ============================================================
// Helpers
// ============================================================

// requestPipeline builds a pipeline from the configured assumptions and
// the request's overrides, writing a 400 on invalid input.
func (s *Server) requestPipeline(w http.ResponseWriter, r *http.Request) (*pipeline.Pipeline, report.Format, bool) {
	q := r.URL.Query()
	format, err := report.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	if q.Get("format") == "" {
		format = report.FormatJSON
	}

	v := s.cfg.Valuation
	if err := applyOverrides(&v, q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	if err := v.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return pipeline.New(pipeline.ParamsFromConfig(v), s.logger), format, true
}

// fetch retrieves the document named by the {ticker} URL parameter.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (document.Document, string, bool) {
	symbol := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	doc, err := s.source.FetchDocument(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("fetch failed")
		writeError(w, statusFor(err), err.Error())
		return nil, "", false
	}
	return doc, symbol, true
}

func (s *Server) writeReport(w http.ResponseWriter, rep *models.Report, runErr error, format report.Format) {
	status := http.StatusOK
	if runErr != nil {
		status = statusFor(runErr)
	}

	switch format {
	case report.FormatHTML, report.FormatText:
		var buf []byte
		contentType := "text/plain; charset=utf-8"
		if format == report.FormatHTML {
			html, err := report.GenerateHTML(rep, report.DefaultConfig())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			buf, contentType = []byte(html), "text/html; charset=utf-8"
		} else {
			text, err := report.GenerateText(rep, report.DefaultConfig())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			buf = []byte(text)
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write(buf) //nolint:errcheck

	default:
		resp := APIResponse{Success: runErr == nil, Data: rep}
		if runErr != nil {
			resp.Error = runErr.Error()
		}
		writeJSON(w, status, resp)
	}
}

// applyOverrides copies recognised query parameters onto v.
func applyOverrides(v *config.ValuationConfig, q map[string][]string) error {
	floats := map[string]*float64{
		"coc":      &v.CostOfCapital,
		"growth":   &v.GrowthRate,
		"terminal": &v.TerminalGrowthRate,
		"roce":     &v.ROCE,
	}
	for name, dst := range floats {
		vals, ok := q[name]
		if !ok || len(vals) == 0 {
			continue
		}
		f, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q", name, vals[0])
		}
		*dst = f
	}

	ints := map[string]*int{
		"high_growth": &v.HighGrowthPeriod,
		"fade":        &v.FadePeriod,
	}
	for name, dst := range ints {
		vals, ok := q[name]
		if !ok || len(vals) == 0 {
			continue
		}
		n, err := strconv.Atoi(vals[0])
		if err != nil {
			return fmt.Errorf("invalid %s %q", name, vals[0])
		}
		*dst = n
	}

	if vals, ok := q["eps_period"]; ok && len(vals) > 0 {
		v.EPSPeriod = vals[0]
	}
	return nil
}

// rangeParam parses an inclusive numeric range, falling back to the
// given defaults for absent values.
func rangeParam(fromS, toS, stepS string, from, to, step float64) ([]float64, error) {
	parse := func(s string, def float64) (float64, error) {
		if s == "" {
			return def, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	var err error
	if from, err = parse(fromS, from); err != nil {
		return nil, err
	}
	if to, err = parse(toS, to); err != nil {
		return nil, err
	}
	if step, err = parse(stepS, step); err != nil {
		return nil, err
	}
	values := fundamental.Range(from, to, step)
	if len(values) == 0 {
		return nil, fmt.Errorf("invalid range %g..%g step %g", from, to, step)
	}
	return values, nil
}

// statusFor maps a domain error to an HTTP status code.
func statusFor(err error) int {
	var httpErr *datasource.ErrHTTP
	switch {
	case errors.Is(err, datasource.ErrInvalidTicker),
		errors.Is(err, fundamental.ErrInvalidParameters),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrTickerNotFound):
		return http.StatusNotFound
	case errors.Is(err, financials.ErrDataShape),
		errors.Is(err, pipeline.ErrIncompleteData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, datasource.ErrRateLimited),
		errors.As(err, &httpErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
