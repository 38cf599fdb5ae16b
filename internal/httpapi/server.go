package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"stratboard/internal/analytics"
	"stratboard/internal/catalog"
	"stratboard/internal/domain"
	"stratboard/internal/interpret"
	"stratboard/internal/store"
)

// Server serves the stratboard HTTP API. The fork and trade stores are
// optional; endpoints that need a missing store answer 503.
type Server struct {
	catalog *catalog.Registry
	forks   store.ForkStore
	trades  store.TradeStore
	log     *slog.Logger
}

// NewServer creates an API server over the given catalog and stores.
func NewServer(reg *catalog.Registry, forks store.ForkStore, trades store.TradeStore, log *slog.Logger) *Server {
	return &Server{
		catalog: reg,
		forks:   forks,
		trades:  trades,
		log:     log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /api/templates/{id}", s.handleTemplate)
	mux.HandleFunc("GET /api/templates/{id}/export", s.handleExport)
	mux.HandleFunc("POST /api/templates/{id}/fork", s.handleFork)
	mux.HandleFunc("GET /api/forks", s.handleListForks)
	mux.HandleFunc("GET /api/forks/{id}", s.handleGetFork)
	mux.HandleFunc("DELETE /api/forks/{id}", s.handleDeleteFork)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/analytics", s.handleStoredAnalytics)
	mux.HandleFunc("GET /api/interpret", s.handleInterpret)
	mux.HandleFunc("POST /api/equity-curve", s.handleEquityCurve)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

// handleTemplates lists templates with optional filters: category, risk,
// difficulty, capital, tags (+matchAll), and sort (+order).
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	templates := s.catalog.All()

	if c := q.Get("category"); c != "" {
		templates = keep(templates, func(t *domain.StrategyTemplate) bool {
			return t.Category == domain.Category(c)
		})
	}
	if p := q.Get("risk"); p != "" {
		templates = keep(templates, func(t *domain.StrategyTemplate) bool {
			return t.RiskProfile == domain.RiskProfile(p)
		})
	}
	if d := q.Get("difficulty"); d != "" {
		templates = keep(templates, func(t *domain.StrategyTemplate) bool {
			return t.Difficulty == domain.Difficulty(d)
		})
	}
	if capStr := q.Get("capital"); capStr != "" {
		capital, err := strconv.ParseFloat(capStr, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid capital")
			return
		}
		templates = keep(templates, func(t *domain.StrategyTemplate) bool {
			return t.Requirements.MinCapital <= capital
		})
	}
	if tags := q.Get("tags"); tags != "" {
		query := strings.Split(tags, ",")
		matchAll := q.Get("matchAll") == "true"
		templates = keep(templates, func(t *domain.StrategyTemplate) bool {
			if matchAll {
				for _, tag := range query {
					if !t.HasTag(tag) {
						return false
					}
				}
				return true
			}
			for _, tag := range query {
				if t.HasTag(tag) {
					return true
				}
			}
			return false
		})
	}

	if metric := q.Get("sort"); metric != "" {
		descending := q.Get("order") != "asc"
		value := func(t *domain.StrategyTemplate) float64 {
			v, ok := t.Backtest.Metric(metric)
			if !ok {
				return 0
			}
			return v
		}
		sort.SliceStable(templates, func(i, j int) bool {
			if descending {
				return value(templates[i]) > value(templates[j])
			}
			return value(templates[i]) < value(templates[j])
		})
	}

	out := make([]TemplateSummaryJSON, 0, len(templates))
	for _, t := range templates {
		out = append(out, convertSummary(t))
	}
	writeJSON(w, TemplatesResponse{Total: len(out), Templates: out})
}

// keep filters a template slice in place-order by pred.
func keep(ts []*domain.StrategyTemplate, pred func(*domain.StrategyTemplate) bool) []*domain.StrategyTemplate {
	out := ts[:0]
	for _, t := range ts {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, TemplateDetailJSON{
		StrategyTemplate:      t,
		RiskScore:             catalog.RiskScore(t),
		ExpectedMonthlyReturn: catalog.ExpectedMonthlyReturn(t),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.ExportConfig(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, out)
}

// ---------------------------------------------------------------------------
// Forks
// ---------------------------------------------------------------------------

func (s *Server) handleFork(w http.ResponseWriter, r *http.Request) {
	var overrides catalog.Overrides
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid overrides body")
		return
	}

	fork, err := s.catalog.Fork(r.PathValue("id"), overrides)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.forks != nil {
		if err := s.forks.SaveFork(r.Context(), fork); err != nil {
			s.log.Error("saving fork", "id", fork.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist fork")
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, ForkResponse{Template: fork, Validation: catalog.Validate(fork)})
}

func (s *Server) handleListForks(w http.ResponseWriter, r *http.Request) {
	if s.forks == nil {
		writeError(w, http.StatusServiceUnavailable, "fork store not configured")
		return
	}
	forks, err := s.forks.ListForks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list forks")
		return
	}
	if forks == nil {
		forks = []domain.StrategyTemplate{}
	}
	writeJSON(w, ForksResponse{Total: len(forks), Forks: forks})
}

func (s *Server) handleGetFork(w http.ResponseWriter, r *http.Request) {
	if s.forks == nil {
		writeError(w, http.StatusServiceUnavailable, "fork store not configured")
		return
	}
	fork, err := s.forks.GetFork(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrForkNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load fork")
		return
	}
	writeJSON(w, fork)
}

func (s *Server) handleDeleteFork(w http.ResponseWriter, r *http.Request) {
	if s.forks == nil {
		writeError(w, http.StatusServiceUnavailable, "fork store not configured")
		return
	}
	if err := s.forks.DeleteFork(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrForkNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete fork")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Validation and summary
// ---------------------------------------------------------------------------

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var t domain.StrategyTemplate
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid template body")
		return
	}
	writeJSON(w, catalog.Validate(&t))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.catalog.Summary())
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	var trades []domain.TradeRecord
	if err := json.NewDecoder(r.Body).Decode(&trades); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trades body")
		return
	}
	writeJSON(w, convertSnapshot(analytics.Aggregate(trades)))
}

// handleStoredAnalytics aggregates trades read from the trade store for
// the requested [from, to] date range (defaults: last 30 days).
func (s *Server) handleStoredAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.trades == nil {
		writeError(w, http.StatusServiceUnavailable, "trade store not configured")
		return
	}

	q := r.URL.Query()
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	var err error
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		// Include the whole end day.
		to = to.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	trades, err := s.trades.ReadTrades(r.Context(), from, to)
	if err != nil {
		s.log.Error("reading trades", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read trades")
		return
	}
	writeJSON(w, convertSnapshot(analytics.Aggregate(trades)))
}

// ---------------------------------------------------------------------------
// Interpreter
// ---------------------------------------------------------------------------

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var resp InterpretResponse
	var any bool

	rate := func(param string, classify func(float64) interpret.Rating) (*MetricRating, bool) {
		v := q.Get(param)
		if v == "" {
			return nil, true
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+param)
			return nil, false
		}
		any = true
		return &MetricRating{Value: f, Rating: classify(f)}, true
	}

	var ok bool
	if resp.Sharpe, ok = rate("sharpe", interpret.ClassifySharpe); !ok {
		return
	}
	if resp.Sortino, ok = rate("sortino", interpret.ClassifySortino); !ok {
		return
	}
	if resp.Drawdown, ok = rate("drawdown", interpret.ClassifyDrawdown); !ok {
		return
	}
	if resp.ProfitFactor, ok = rate("profitFactor", interpret.ClassifyProfitFactor); !ok {
		return
	}

	if !any {
		writeError(w, http.StatusBadRequest, "no metrics given")
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleEquityCurve(w http.ResponseWriter, r *http.Request) {
	var req EquityCurveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	points := interpret.CumulativeEquity(req.MonthlyReturns, req.InitialCapital)
	writeJSON(w, EquityCurveResponse{Points: points})
}
