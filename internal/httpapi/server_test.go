package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stratboard/internal/catalog"
	"stratboard/internal/domain"
	"stratboard/internal/interpret"
	"stratboard/internal/store"
)

// memForkStore is an in-memory ForkStore for handler tests.
type memForkStore struct {
	forks map[string]*domain.StrategyTemplate
}

func newMemForkStore() *memForkStore {
	return &memForkStore{forks: make(map[string]*domain.StrategyTemplate)}
}

func (m *memForkStore) SaveFork(_ context.Context, t *domain.StrategyTemplate) error {
	m.forks[t.ID] = t
	return nil
}

func (m *memForkStore) GetFork(_ context.Context, id string) (*domain.StrategyTemplate, error) {
	t, ok := m.forks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrForkNotFound, id)
	}
	return t, nil
}

func (m *memForkStore) ListForks(_ context.Context) ([]domain.StrategyTemplate, error) {
	var out []domain.StrategyTemplate
	for _, t := range m.forks {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memForkStore) DeleteFork(_ context.Context, id string) error {
	if _, ok := m.forks[id]; !ok {
		return fmt.Errorf("%w: %q", store.ErrForkNotFound, id)
	}
	delete(m.forks, id)
	return nil
}

// memTradeStore serves a fixed trade list.
type memTradeStore struct {
	trades []domain.TradeRecord
}

func (m *memTradeStore) WriteTrades(_ context.Context, trades []domain.TradeRecord) error {
	m.trades = append(m.trades, trades...)
	return nil
}

func (m *memTradeStore) ReadTrades(_ context.Context, start, end time.Time) ([]domain.TradeRecord, error) {
	var out []domain.TradeRecord
	for _, t := range m.trades {
		if !t.Timestamp.Before(start) && !t.Timestamp.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memForkStore, *memTradeStore) {
	t.Helper()
	forks := newMemForkStore()
	trades := &memTradeStore{}
	srv := NewServer(catalog.Builtin(), forks, trades, slog.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, forks, trades
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url string, body, out any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshalling body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp
}

func TestHandleTemplates(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var resp TemplatesResponse
	getJSON(t, ts.URL+"/api/templates", &resp)
	if resp.Total != 9 {
		t.Errorf("Total = %d, want 9", resp.Total)
	}

	var arb TemplatesResponse
	getJSON(t, ts.URL+"/api/templates?category=arbitrage", &arb)
	if arb.Total != 2 {
		t.Errorf("category=arbitrage Total = %d, want 2", arb.Total)
	}

	var tagged TemplatesResponse
	getJSON(t, ts.URL+"/api/templates?tags=beginner-friendly", &tagged)
	ids := map[string]bool{}
	for _, tpl := range tagged.Templates {
		ids[tpl.ID] = true
	}
	if !ids["conservative-arb-bot"] || !ids["trend-following-swing"] {
		t.Errorf("tags filter = %v, want both beginner-friendly templates", ids)
	}

	var sorted TemplatesResponse
	getJSON(t, ts.URL+"/api/templates?sort=sharpeRatio", &sorted)
	if sorted.Templates[0].ID != "conservative-arb-bot" {
		t.Errorf("sort=sharpeRatio first = %s, want conservative-arb-bot", sorted.Templates[0].ID)
	}

	var capped TemplatesResponse
	getJSON(t, ts.URL+"/api/templates?capital=2000", &capped)
	for _, tpl := range capped.Templates {
		if tpl.MinCapital > 2000 {
			t.Errorf("capital filter let through %s (minCapital %v)", tpl.ID, tpl.MinCapital)
		}
	}
}

func TestHandleTemplate(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var detail TemplateDetailJSON
	resp := getJSON(t, ts.URL+"/api/templates/conservative-arb-bot", &detail)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if detail.Name != "Conservative Arb Bot" {
		t.Errorf("Name = %q, want Conservative Arb Bot", detail.Name)
	}
	if detail.RiskScore < 1 || detail.RiskScore > 10 {
		t.Errorf("RiskScore = %d, want in [1, 10]", detail.RiskScore)
	}

	if resp := getJSON(t, ts.URL+"/api/templates/nope", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleExport(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var export catalog.ConfigExport
	resp := getJSON(t, ts.URL+"/api/templates/grid-yield-harvester/export", &export)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if export.ID != "grid-yield-harvester" || len(export.Config) == 0 {
		t.Errorf("export = %+v, want populated grid-yield-harvester", export)
	}
}

func TestHandleFork(t *testing.T) {
	ts, forks, _ := newTestServer(t)

	var fr ForkResponse
	resp := postJSON(t, ts.URL+"/api/templates/conservative-arb-bot/fork",
		catalog.Overrides{Name: "Mine"}, &fr)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if fr.Template.Name != "Mine" || fr.Template.ForkedFrom != "conservative-arb-bot" {
		t.Errorf("fork = %+v, want named override of conservative-arb-bot", fr.Template)
	}
	if !fr.Validation.IsValid {
		t.Errorf("fork validation = %+v, want valid", fr.Validation)
	}
	if _, ok := forks.forks[fr.Template.ID]; !ok {
		t.Error("fork was not persisted")
	}

	resp = postJSON(t, ts.URL+"/api/templates/nope/fork", catalog.Overrides{}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("fork unknown status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleForkCRUD(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var fr ForkResponse
	postJSON(t, ts.URL+"/api/templates/micro-scalp-engine/fork", catalog.Overrides{}, &fr)

	var list ForksResponse
	getJSON(t, ts.URL+"/api/forks", &list)
	if list.Total != 1 {
		t.Fatalf("fork list Total = %d, want 1", list.Total)
	}

	var got domain.StrategyTemplate
	getJSON(t, ts.URL+"/api/forks/"+fr.Template.ID, &got)
	if got.ID != fr.Template.ID {
		t.Errorf("GetFork id = %s, want %s", got.ID, fr.Template.ID)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/forks/"+fr.Template.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/forks/"+fr.Template.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE (again): %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete again status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleValidate(t *testing.T) {
	ts, _, _ := newTestServer(t)

	bad := domain.StrategyTemplate{
		ID:     "x",
		Name:   "X",
		Config: domain.Config{domain.CfgMaxPositionSize: 1.5},
		Rules: domain.Rules{
			Entry: []domain.Condition{{Kind: domain.CondTimeWindow}},
			Exit:  []domain.Condition{{Kind: domain.CondTimeWindow}},
		},
	}
	var res catalog.ValidationResult
	postJSON(t, ts.URL+"/api/validate", bad, &res)
	if res.IsValid {
		t.Fatal("validation = valid, want invalid")
	}
	found := false
	for _, msg := range res.Errors {
		if strings.Contains(msg, "cannot exceed 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want a 'cannot exceed 1' message", res.Errors)
	}
}

func TestHandleSummary(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var s catalog.Summary
	getJSON(t, ts.URL+"/api/summary", &s)
	if s.Total != 9 {
		t.Errorf("summary Total = %d, want 9", s.Total)
	}
}

func TestHandleAnalytics(t *testing.T) {
	ts, _, _ := newTestServer(t)

	trades := []domain.TradeRecord{
		{PnL: 100, Timestamp: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), Platform: "binance", Strategy: "arb"},
		{PnL: -25, Timestamp: time.Date(2025, 6, 3, 11, 0, 0, 0, time.UTC), Platform: "binance", Strategy: "arb"},
	}
	var snap SnapshotJSON
	postJSON(t, ts.URL+"/api/analytics", trades, &snap)
	if snap.TotalTrades != 2 || snap.TotalWins != 1 || snap.TotalLosses != 1 {
		t.Errorf("snapshot totals = %d/%d/%d, want 2/1/1",
			snap.TotalTrades, snap.TotalWins, snap.TotalLosses)
	}
	if snap.ProfitFactor != "4.00" {
		t.Errorf("profitFactor = %q, want 4.00", snap.ProfitFactor)
	}

	// Wins without losses serialize as "inf".
	var infSnap SnapshotJSON
	postJSON(t, ts.URL+"/api/analytics", trades[:1], &infSnap)
	if infSnap.ProfitFactor != "inf" {
		t.Errorf("profitFactor = %q, want inf", infSnap.ProfitFactor)
	}
}

func TestHandleStoredAnalytics(t *testing.T) {
	ts, _, trades := newTestServer(t)
	trades.trades = []domain.TradeRecord{
		{PnL: 10, Timestamp: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), Platform: "a", Strategy: "x"},
		{PnL: -5, Timestamp: time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC), Platform: "a", Strategy: "x"},
	}

	var snap SnapshotJSON
	getJSON(t, ts.URL+"/api/analytics?from=2025-06-01&to=2025-06-30", &snap)
	if snap.TotalTrades != 1 {
		t.Errorf("ranged snapshot TotalTrades = %d, want 1", snap.TotalTrades)
	}
}

func TestHandleInterpret(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var resp InterpretResponse
	getJSON(t, ts.URL+"/api/interpret?sharpe=2.5&drawdown=8", &resp)
	if resp.Sharpe == nil || resp.Sharpe.Rating != "Excellent" {
		t.Errorf("sharpe = %+v, want Excellent", resp.Sharpe)
	}
	if resp.Drawdown == nil || resp.Drawdown.Rating != "Low Risk" {
		t.Errorf("drawdown = %+v, want Low Risk", resp.Drawdown)
	}
	if resp.Sortino != nil || resp.ProfitFactor != nil {
		t.Error("unqueried metrics should be omitted")
	}

	if r := getJSON(t, ts.URL+"/api/interpret", nil); r.StatusCode != http.StatusBadRequest {
		t.Errorf("no metrics status = %d, want 400", r.StatusCode)
	}
}

func TestHandleEquityCurve(t *testing.T) {
	ts, _, _ := newTestServer(t)

	body := EquityCurveRequest{
		MonthlyReturns: []interpret.MonthlyReturn{
			{Month: "Jan", PnL: 100},
			{Month: "Feb", PnL: -40},
		},
		InitialCapital: 1000,
	}
	var resp EquityCurveResponse
	postJSON(t, ts.URL+"/api/equity-curve", body, &resp)
	if len(resp.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(resp.Points))
	}
	if resp.Points[1].Cumulative != 60 || resp.Points[1].Capital != 1060 {
		t.Errorf("second point = %+v, want cumulative 60, capital 1060", resp.Points[1])
	}
}
