package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stratboard/pkg/stratboard"
)

// Styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tabActive   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))

	nameStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameHlStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))

	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	riskLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	riskMidStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	riskHighStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	highlightBG = lipgloss.Color("236")
)

func riskStyle(score int) lipgloss.Style {
	switch {
	case score <= 3:
		return riskLowStyle
	case score <= 6:
		return riskMidStyle
	default:
		return riskHighStyle
	}
}

func pnlStyle(v float64) lipgloss.Style {
	if v >= 0 {
		return gainStyle
	}
	return lossStyle
}

func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

// Tabs.
const (
	tabTemplates = iota
	tabAnalytics
	tabSummary
	tabCount
)

var tabNames = [tabCount]string{"Templates", "Analytics", "Summary"}

// Sort metrics cycled with "s" on the templates tab.
var sortMetrics = []string{"", "sharpeRatio", "winRate", "maxDrawdown", "annualizedReturn"}

func sortLabel(metric string) string {
	if metric == "" {
		return "catalog"
	}
	return metric
}

// Messages.
type templatesLoadedMsg struct {
	list *stratboard.TemplateList
	err  error
}

type detailLoadedMsg struct {
	tpl *stratboard.Template
	err error
}

type analyticsLoadedMsg struct {
	snap *stratboard.Snapshot
	err  error
}

type summaryLoadedMsg struct {
	summary *stratboard.Summary
	err     error
}

type forkDoneMsg struct {
	res *stratboard.ForkResult
	err error
}

// Model.
type model struct {
	client *stratboard.Client
	logger *slog.Logger

	tab      int
	sortIdx  int
	viewport viewport.Model
	ready    bool
	width    int
	height   int
	status   string

	templates []stratboard.TemplateSummary
	selected  int
	detail    *stratboard.Template

	snapshot *stratboard.Snapshot
	summary  *stratboard.Summary
}

func initialModel(client *stratboard.Client, logger *slog.Logger) model {
	return model{client: client, logger: logger}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadTemplates(), m.loadAnalytics(), m.loadSummary())
}

func (m model) loadTemplates() tea.Cmd {
	client := m.client
	metric := sortMetrics[m.sortIdx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		list, err := client.ListTemplates(ctx, stratboard.TemplateFilter{Sort: metric})
		return templatesLoadedMsg{list: list, err: err}
	}
}

func (m model) loadDetail(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		tpl, err := client.GetTemplate(ctx, id)
		return detailLoadedMsg{tpl: tpl, err: err}
	}
}

func (m model) loadAnalytics() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		snap, err := client.StoredAnalytics(ctx, time.Time{}, time.Time{})
		return analyticsLoadedMsg{snap: snap, err: err}
	}
}

func (m model) loadSummary() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s, err := client.GetSummary(ctx)
		return summaryLoadedMsg{summary: s, err: err}
	}
}

func (m model) forkSelected() tea.Cmd {
	if m.selected >= len(m.templates) {
		return nil
	}
	client := m.client
	id := m.templates[m.selected].ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := client.ForkTemplate(ctx, id, stratboard.Overrides{})
		return forkDoneMsg{res: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % tabCount
			m.detail = nil
			m.refresh()
			return m, nil
		case "1", "2", "3":
			m.tab = int(msg.String()[0] - '1')
			m.detail = nil
			m.refresh()
			return m, nil
		case "s":
			if m.tab == tabTemplates && m.detail == nil {
				m.sortIdx = (m.sortIdx + 1) % len(sortMetrics)
				return m, m.loadTemplates()
			}
			return m, nil
		case "up":
			if m.tab == tabTemplates && m.detail == nil && m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil
		case "down":
			if m.tab == tabTemplates && m.detail == nil && m.selected < len(m.templates)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil
		case "enter":
			if m.tab == tabTemplates && m.detail == nil && m.selected < len(m.templates) {
				return m, m.loadDetail(m.templates[m.selected].ID)
			}
			return m, nil
		case "esc":
			if m.detail != nil {
				m.detail = nil
				m.refresh()
			}
			return m, nil
		case "f":
			if m.tab == tabTemplates && m.detail == nil {
				m.status = "forking..."
				m.refresh()
				return m, m.forkSelected()
			}
			return m, nil
		case "r":
			return m, tea.Batch(m.loadTemplates(), m.loadAnalytics(), m.loadSummary())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case templatesLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("loading templates: %v", msg.err)
			m.logger.Error("loading templates", "error", msg.err)
		} else {
			m.templates = msg.list.Templates
			if m.selected >= len(m.templates) {
				m.selected = 0
			}
			m.status = ""
		}
		m.refresh()
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("loading template: %v", msg.err)
		} else {
			m.detail = msg.tpl
			m.status = ""
		}
		m.refresh()
		return m, nil

	case analyticsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading analytics", "error", msg.err)
		} else {
			m.snapshot = msg.snap
		}
		m.refresh()
		return m, nil

	case summaryLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading summary", "error", msg.err)
		} else {
			m.summary = msg.summary
		}
		m.refresh()
		return m, nil

	case forkDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("fork failed: %v", msg.err)
		} else {
			m.status = "forked -> " + msg.res.Template.ID
		}
		m.refresh()
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf(" %d %s ", i+1, name)
		if i == m.tab {
			tabs = append(tabs, tabActive.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	title := " stratboard  "
	header := title + strings.Join(tabs, " ")
	if m.status != "" {
		header += "  " + m.status
	}
	headerBar := headerStyle.Render(padOrTrunc(header, m.width))

	footer := " q quit  tab/1-3 views  up/dn select  enter detail  esc back  f fork  s sort  r refresh"
	footerBar := footerStyle.Render(padOrTrunc(footer, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderContent() string {
	var b strings.Builder
	switch m.tab {
	case tabTemplates:
		if m.detail != nil {
			renderDetail(&b, m.detail)
		} else {
			m.renderTemplates(&b)
		}
	case tabAnalytics:
		renderAnalytics(&b, m.snapshot)
	case tabSummary:
		renderSummary(&b, m.summary)
	}
	return b.String()
}

func (m model) renderTemplates(b *strings.Builder) {
	b.WriteString(sectionStyle.Width(m.width).Render(
		fmt.Sprintf("  Strategy Templates    sort: %s  ", sortLabel(sortMetrics[m.sortIdx]))))
	b.WriteString("\n\n")

	if len(m.templates) == 0 {
		b.WriteString(dimStyle.Render("  (no templates loaded)"))
		b.WriteString("\n")
		return
	}

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf(
		"  %-3s %-26s %-15s %-13s %5s %6s %9s %9s",
		"#", "Name", "Category", "Risk", "Score", "Win%", "Exp/mo", "MinCap")))
	b.WriteString("\n")

	for i, t := range m.templates {
		hl := i == m.selected
		b.WriteString(hlStyle(dimStyle, hl).Render(fmt.Sprintf("  %-3d", i+1)))
		ns := nameStyle
		if hl {
			ns = nameHlStyle
		}
		b.WriteString(hlStyle(ns, hl).Render(fmt.Sprintf(" %-26s", t.Name)))
		b.WriteString(hlStyle(lipgloss.NewStyle(), hl).Render(fmt.Sprintf(" %-15s %-13s", t.Category, t.RiskProfile)))
		b.WriteString(hlStyle(riskStyle(t.RiskScore), hl).Render(fmt.Sprintf(" %5d", t.RiskScore)))
		b.WriteString(hlStyle(lipgloss.NewStyle(), hl).Render(fmt.Sprintf(
			" %5.0f %9.0f %9.0f", t.WinRate*100, t.ExpectedMonthlyReturn, t.MinCapital)))
		b.WriteString("\n")
	}
}

func renderDetail(b *strings.Builder, t *stratboard.Template) {
	b.WriteString(nameStyle.Render("  " + t.Name))
	b.WriteString(dimStyle.Render("  " + t.ID))
	b.WriteString("\n\n")
	if t.Description != "" {
		b.WriteString("  " + t.Description + "\n\n")
	}

	line := func(label, value string) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-14s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	line("category", t.Category)
	line("difficulty", t.Difficulty)
	b.WriteString(dimStyle.Render("  risk          "))
	b.WriteString(t.RiskProfile + " ")
	b.WriteString(riskStyle(t.RiskScore).Render(fmt.Sprintf("(%d/10)", t.RiskScore)))
	b.WriteString("\n")
	line("author", fmt.Sprintf("%s  v%s", t.Author, t.Version))
	if t.ForkedFrom != "" {
		line("forked from", t.ForkedFrom)
	}
	line("tags", strings.Join(t.Tags, ", "))
	line("min capital", fmt.Sprintf("%.0f (recommended %.0f)", t.Requirements.MinCapital, t.Requirements.RecommendedCapital))
	line("expected/mo", fmt.Sprintf("%.2f", t.ExpectedMonthlyReturn))

	if bt := t.Backtest; bt != nil {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(fmt.Sprintf("  backtest  %d trades  ", bt.TotalTrades)))
		b.WriteString("\n")
		line("win rate", fmt.Sprintf("%.1f%%", bt.WinRate*100))
		line("sharpe", fmt.Sprintf("%.2f", bt.SharpeRatio))
		line("sortino", fmt.Sprintf("%.2f", bt.SortinoRatio))
		line("max drawdown", fmt.Sprintf("%.1f%%", bt.MaxDrawdown*100))
		line("profit factor", fmt.Sprintf("%.2f", bt.ProfitFactor))
		line("annualized", fmt.Sprintf("%.1f%%", bt.AnnualizedReturn*100))
		line("avg hold", bt.AvgHoldTime)
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  rules  "))
	b.WriteString("\n")
	for _, c := range t.Rules.Entry {
		b.WriteString(gainStyle.Render("  entry ") + c.Kind + "\n")
	}
	for _, c := range t.Rules.Exit {
		b.WriteString(lossStyle.Render("  exit  ") + c.Kind + "\n")
	}
}

func renderAnalytics(b *strings.Builder, snap *stratboard.Snapshot) {
	b.WriteString(sectionStyle.Render("  Trade Analytics (last 30 days)  "))
	b.WriteString("\n\n")

	if snap == nil || snap.TotalTrades == 0 {
		b.WriteString(dimStyle.Render("  (no trades recorded)"))
		b.WriteString("\n")
		return
	}

	pf := "inf"
	if !math.IsInf(float64(snap.ProfitFactor), 1) {
		pf = fmt.Sprintf("%.2f", float64(snap.ProfitFactor))
	}
	b.WriteString(fmt.Sprintf("  %d trades   %d wins / %d losses   win rate %.1f%%   profit factor %s\n",
		snap.TotalTrades, snap.TotalWins, snap.TotalLosses, snap.WinRate, pf))
	b.WriteString(fmt.Sprintf("  avg win %.2f   avg loss %.2f   expectancy ", snap.AvgWin, snap.AvgLoss))
	b.WriteString(pnlStyle(snap.Expectancy).Render(fmt.Sprintf("%+.2f", snap.Expectancy)))
	b.WriteString("\n\n")

	b.WriteString(colHeaderStyle.Render("  day of week"))
	b.WriteString("\n")
	for _, d := range snap.ByDayOfWeek {
		marker := "  "
		if snap.BestDay != nil && d.Label == snap.BestDay.Label {
			marker = gainStyle.Render("* ")
		} else if snap.WorstDay != nil && d.Label == snap.WorstDay.Label {
			marker = lossStyle.Render("* ")
		}
		b.WriteString(fmt.Sprintf("  %s%-10s ", marker, d.Label))
		b.WriteString(pnlStyle(d.PnL).Render(fmt.Sprintf("%+10.2f", d.PnL)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d trades, %d wins", d.Trades, d.Wins)))
		b.WriteString("\n")
	}

	if len(snap.ByPlatform) > 0 {
		b.WriteString("\n")
		b.WriteString(colHeaderStyle.Render("  platform"))
		b.WriteString("\n")
		for _, p := range snap.ByPlatform {
			b.WriteString(fmt.Sprintf("    %-12s ", p.Label))
			b.WriteString(pnlStyle(p.PnL).Render(fmt.Sprintf("%+10.2f", p.PnL)))
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d trades", p.Trades)))
			b.WriteString("\n")
		}
	}
	if len(snap.ByStrategy) > 0 {
		b.WriteString("\n")
		b.WriteString(colHeaderStyle.Render("  strategy"))
		b.WriteString("\n")
		for _, s := range snap.ByStrategy {
			b.WriteString(fmt.Sprintf("    %-12s ", s.Label))
			b.WriteString(pnlStyle(s.PnL).Render(fmt.Sprintf("%+10.2f", s.PnL)))
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d trades", s.Trades)))
			b.WriteString("\n")
		}
	}
}

func renderSummary(b *strings.Builder, s *stratboard.Summary) {
	b.WriteString(sectionStyle.Render("  Catalog Summary  "))
	b.WriteString("\n\n")

	if s == nil {
		b.WriteString(dimStyle.Render("  (not loaded)"))
		b.WriteString("\n")
		return
	}

	b.WriteString(fmt.Sprintf("  %d templates\n\n", s.Total))
	b.WriteString(colHeaderStyle.Render("  by category"))
	b.WriteString("\n")
	for cat, n := range s.ByCategory {
		if n > 0 {
			b.WriteString(fmt.Sprintf("    %-16s %d\n", cat, n))
		}
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  avg win rate      %.1f%%\n", s.AvgWinRate*100))
	b.WriteString(fmt.Sprintf("  avg annualized    %.1f%%\n", s.AvgAnnualized*100))
	b.WriteString(fmt.Sprintf("  highest win rate  %.1f%%\n", s.HighestWinRate*100))
	b.WriteString(fmt.Sprintf("  highest return    %.1f%%\n", s.HighestReturn*100))

	b.WriteString("\n")
	b.WriteString(colHeaderStyle.Render("  metric bands"))
	b.WriteString("\n")
	b.WriteString("    sharpe/sortino   >=2.0 Excellent   >=1.0 Good   >=0.5 Acceptable   else Poor\n")
	b.WriteString("    drawdown         <=5% Very Low     <=10% Low    <=20% Moderate     else High\n")
	b.WriteString("    profit factor    >=2.0 Excellent   >=1.5 Good   >=1.0 Break-even   else Losing\n")
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}

func main() {
	server := os.Getenv("STRATBOARD_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}

	logPath := fmt.Sprintf("/tmp/stratboard-tui-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client := stratboard.NewClient(server)
	logger.Info("stratboard tui starting", "server", server)

	p := tea.NewProgram(
		initialModel(client, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
