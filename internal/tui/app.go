package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ratedash/internal/domain"
	"ratedash/internal/service"
	"ratedash/internal/trend"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	refreshInterval     = 30 * time.Second
	trendWindowDays     = 30
	forecastHorizonDays = 7
)

// RateQuerier supplies the dashboard's rate and conversion data.
type RateQuerier interface {
	GetRate(ctx context.Context, from, to string) (float64, error)
	Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error)
}

// TrendQuerier supplies the dashboard's trend and chart data.
type TrendQuerier interface {
	Trend(ctx context.Context, from, to string, days int) (trend.Summary, error)
	Forecast(ctx context.Context, from, to string, historyDays, horizon int) (service.ForecastResult, error)
	Statistics(ctx context.Context, from, to string, days int) (service.StatisticsResult, error)
}

// AdvisorQuerier answers free-form questions in the advisor tab.
type AdvisorQuerier interface {
	Ask(ctx context.Context, chatID int64, question string) (string, error)
}

// Services bundles everything the dashboard model needs.
type Services struct {
	Rates    RateQuerier
	Trends   TrendQuerier
	Advisor  AdvisorQuerier
	Username string
}

type tab int

const (
	tabRates tab = iota
	tabChart
	tabConvert
	tabAdvisor
)

var tabNames = []string{"Rates", "Chart", "Convert", "Advisor"}

type pairRow struct {
	pair    string
	rate    float64
	summary *trend.Summary
}

type ratesLoadedMsg struct {
	rows []pairRow
	err  error
}

type convertDoneMsg struct {
	conversion domain.Conversion
	err        error
}

type advisorReplyMsg struct {
	reply string
	err   error
}

type chartLoadedMsg struct {
	pair     string
	history  []float64
	forecast []float64
	analysis service.Analysis
	err      error
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Padding(0, 2)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57")).
			Padding(0, 1)
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	stableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// AppModel is the root bubbletea model served over SSH.
type AppModel struct {
	svc    Services
	active tab

	width  int
	height int

	rateTable table.Model
	rows      []pairRow
	lastErr   error
	loading   bool

	chartPair     string
	chartHistory  []float64
	chartForecast []float64
	chartAnalysis service.Analysis
	chartErr      error
	chartLoading  bool

	convertInput textinput.Model
	conversion   *domain.Conversion
	convertErr   error

	advisorInput textinput.Model
	advisorReply string
	advisorErr   error
	advisorBusy  bool
}

func NewAppModel(svc Services) *AppModel {
	columns := []table.Column{
		{Title: "Pair", Width: 10},
		{Title: "Rate", Width: 12},
		{Title: "30d Trend", Width: 10},
		{Title: "Change", Width: 10},
		{Title: "Conf", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(len(domain.TrackedPairs)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("229"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	convertInput := textinput.New()
	convertInput.Placeholder = "100 EUR USD"
	convertInput.CharLimit = 32

	advisorInput := textinput.New()
	advisorInput.Placeholder = "Is EUR/USD a good time to convert?"
	advisorInput.CharLimit = 256

	return &AppModel{
		svc:          svc,
		rateTable:    t,
		convertInput: convertInput,
		advisorInput: advisorInput,
		loading:      true,
	}
}

// SetSize is called by the SSH server with the client's PTY dimensions.
func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.loadRates(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *AppModel) loadRates() tea.Cmd {
	rates := m.svc.Rates
	trends := m.svc.Trends
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rows := make([]pairRow, 0, len(domain.TrackedPairs))
		for _, pair := range domain.TrackedPairs {
			from, to, err := domain.ParsePair(pair)
			if err != nil {
				continue
			}
			row := pairRow{pair: from + "/" + to}
			rate, err := rates.GetRate(ctx, from, to)
			if err != nil {
				return ratesLoadedMsg{err: err}
			}
			row.rate = rate
			if trends != nil {
				if summary, err := trends.Trend(ctx, from, to, trendWindowDays); err == nil {
					row.summary = &summary
				}
			}
			rows = append(rows, row)
		}
		return ratesLoadedMsg{rows: rows}
	}
}

func (m *AppModel) loadChart(pair string) tea.Cmd {
	trends := m.svc.Trends
	return func() tea.Msg {
		from, to, err := domain.ParsePair(pair)
		if err != nil {
			return chartLoadedMsg{pair: pair, err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := trends.Statistics(ctx, from, to, trendWindowDays)
		if err != nil {
			return chartLoadedMsg{pair: pair, err: err}
		}
		fc, err := trends.Forecast(ctx, from, to, trendWindowDays, forecastHorizonDays)
		if err != nil {
			return chartLoadedMsg{pair: pair, err: err}
		}

		history := make([]float64, len(stats.Rates))
		for i, p := range stats.Rates {
			history[i] = p.Rate
		}
		forecast := make([]float64, len(fc.Forecast))
		for i, p := range fc.Forecast {
			forecast[i] = p.Rate
		}
		return chartLoadedMsg{
			pair:     from + "/" + to,
			history:  history,
			forecast: forecast,
			analysis: fc.Analysis,
		}
	}
}

func (m *AppModel) runConversion(input string) tea.Cmd {
	rates := m.svc.Rates
	return func() tea.Msg {
		fields := strings.Fields(strings.ToUpper(input))
		if len(fields) != 3 {
			return convertDoneMsg{err: fmt.Errorf("usage: <amount> <from> <to>, e.g. 100 EUR USD")}
		}
		amount, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || amount <= 0 {
			return convertDoneMsg{err: fmt.Errorf("invalid amount %q", fields[0])}
		}
		if !domain.IsSupported(fields[1]) || !domain.IsSupported(fields[2]) {
			return convertDoneMsg{err: fmt.Errorf("supported currencies: %s", strings.Join(domain.SupportedCodes, ", "))}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conv, err := rates.Convert(ctx, fields[1], fields[2], amount)
		if err != nil {
			return convertDoneMsg{err: err}
		}
		return convertDoneMsg{conversion: conv}
	}
}

func (m *AppModel) askAdvisor(question string) tea.Cmd {
	advisor := m.svc.Advisor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		reply, err := advisor.Ask(ctx, 0, question)
		return advisorReplyMsg{reply: reply, err: err}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.loadRates(), tick())

	case ratesLoadedMsg:
		m.loading = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			m.rateTable.SetRows(m.tableRows())
		}
		return m, nil

	case convertDoneMsg:
		m.convertErr = msg.err
		if msg.err == nil {
			conv := msg.conversion
			m.conversion = &conv
		}
		return m, nil

	case chartLoadedMsg:
		m.chartLoading = false
		m.chartErr = msg.err
		m.chartPair = msg.pair
		if msg.err == nil {
			m.chartHistory = msg.history
			m.chartForecast = msg.forecast
			m.chartAnalysis = msg.analysis
		}
		return m, nil

	case advisorReplyMsg:
		m.advisorBusy = false
		m.advisorErr = msg.err
		m.advisorReply = msg.reply
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		// Quit only from non-input tabs; elsewhere "q" is text input.
		if m.active == tabRates || m.active == tabChart {
			return m, tea.Quit
		}
	case "tab":
		m.active = (m.active + 1) % tab(len(tabNames))
		m.syncFocus()
		return m, m.enterTab()
	case "shift+tab":
		m.active = (m.active + tab(len(tabNames)) - 1) % tab(len(tabNames))
		m.syncFocus()
		return m, m.enterTab()
	case "r":
		switch m.active {
		case tabRates:
			m.loading = true
			return m, m.loadRates()
		case tabChart:
			if m.chartPair != "" {
				m.chartLoading = true
				return m, m.loadChart(m.chartPair)
			}
		}
	case "enter":
		switch m.active {
		case tabRates:
			pair := m.selectedPair()
			if pair == "" {
				return m, nil
			}
			m.active = tabChart
			m.chartLoading = true
			m.syncFocus()
			return m, m.loadChart(pair)
		case tabConvert:
			input := m.convertInput.Value()
			m.convertInput.SetValue("")
			return m, m.runConversion(input)
		case tabAdvisor:
			if m.svc.Advisor == nil || m.advisorBusy {
				return m, nil
			}
			question := strings.TrimSpace(m.advisorInput.Value())
			if question == "" {
				return m, nil
			}
			m.advisorInput.SetValue("")
			m.advisorBusy = true
			return m, m.askAdvisor(question)
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case tabRates:
		m.rateTable, cmd = m.rateTable.Update(msg)
	case tabConvert:
		m.convertInput, cmd = m.convertInput.Update(msg)
	case tabAdvisor:
		m.advisorInput, cmd = m.advisorInput.Update(msg)
	}
	return m, cmd
}

// enterTab loads chart data the first time the chart tab is opened.
func (m *AppModel) enterTab() tea.Cmd {
	if m.active == tabChart && m.chartPair == "" && !m.chartLoading {
		pair := m.selectedPair()
		if pair == "" {
			return nil
		}
		m.chartLoading = true
		return m.loadChart(pair)
	}
	return nil
}

func (m *AppModel) selectedPair() string {
	if len(m.rows) == 0 {
		if len(domain.TrackedPairs) == 0 {
			return ""
		}
		return domain.TrackedPairs[0]
	}
	idx := m.rateTable.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		idx = 0
	}
	return m.rows[idx].pair
}

func (m *AppModel) syncFocus() {
	m.convertInput.Blur()
	m.advisorInput.Blur()
	switch m.active {
	case tabConvert:
		m.convertInput.Focus()
	case tabAdvisor:
		m.advisorInput.Focus()
	}
}

func (m *AppModel) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		direction, change, conf := "-", "-", "-"
		if r.summary != nil {
			direction = directionLabel(r.summary.Direction)
			change = fmt.Sprintf("%+.2f%%", r.summary.PercentChange)
			conf = fmt.Sprintf("%.0f", r.summary.Confidence)
		}
		rows = append(rows, table.Row{
			r.pair,
			fmt.Sprintf("%.4f", r.rate),
			direction,
			change,
			conf,
		})
	}
	return rows
}

func directionLabel(d trend.Direction) string {
	switch d {
	case trend.DirectionUp:
		return upStyle.Render("▲ up")
	case trend.DirectionDown:
		return downStyle.Render("▼ down")
	default:
		return stableStyle.Render("- stable")
	}
}

func (m *AppModel) View() string {
	var sb strings.Builder

	header := titleStyle.Render("ratedash")
	if m.svc.Username != "" {
		header += helpStyle.Render(" " + m.svc.Username)
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	switch m.active {
	case tabRates:
		sb.WriteString(m.renderRates())
	case tabChart:
		sb.WriteString(m.renderChart())
	case tabConvert:
		sb.WriteString(m.renderConvert())
	case tabAdvisor:
		sb.WriteString(m.renderAdvisor())
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab: switch • enter: chart pair • r: refresh • q/ctrl+c: quit"))
	return sb.String()
}

func (m *AppModel) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.active {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *AppModel) renderRates() string {
	if m.loading && len(m.rows) == 0 {
		return "Loading rates..."
	}
	if m.lastErr != nil {
		return errStyle.Render("rate fetch failed: " + m.lastErr.Error())
	}
	return panelStyle.Render(m.rateTable.View())
}

func (m *AppModel) renderConvert() string {
	var sb strings.Builder
	sb.WriteString("Convert an amount: <amount> <from> <to>\n\n")
	sb.WriteString(m.convertInput.View())
	sb.WriteString("\n\n")
	if m.convertErr != nil {
		sb.WriteString(errStyle.Render(m.convertErr.Error()))
	} else if m.conversion != nil {
		c := m.conversion
		sb.WriteString(panelStyle.Render(fmt.Sprintf(
			"%s %.2f = %s %.2f\nRate: %.4f",
			c.From, c.Amount, c.To, c.Result, c.Rate,
		)))
	}
	return sb.String()
}

func (m *AppModel) renderAdvisor() string {
	if m.svc.Advisor == nil {
		return helpStyle.Render("Advisor is not configured on this server.")
	}
	var sb strings.Builder
	sb.WriteString("Ask about any tracked pair:\n\n")
	sb.WriteString(m.advisorInput.View())
	sb.WriteString("\n\n")
	switch {
	case m.advisorBusy:
		sb.WriteString("Thinking...")
	case m.advisorErr != nil:
		sb.WriteString(errStyle.Render(m.advisorErr.Error()))
	case m.advisorReply != "":
		width := m.width - 4
		if width < 20 {
			width = 76
		}
		sb.WriteString(panelStyle.Width(width).Render(m.advisorReply))
	}
	return sb.String()
}
