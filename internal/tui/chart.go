package tui

import (
	"fmt"
	"strings"
)

const (
	chartHeight    = 10
	historyMarker  = '·'
	forecastMarker = '+'
)

func (m *AppModel) renderChart() string {
	if m.chartLoading {
		return "Loading chart..."
	}
	if m.chartErr != nil {
		return errStyle.Render("chart load failed: " + m.chartErr.Error())
	}
	if len(m.chartHistory) == 0 {
		return helpStyle.Render("Select a pair on the Rates tab and press enter.")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.chartPair))
	sb.WriteString("\n")
	sb.WriteString(panelStyle.Render(renderSeries(m.chartHistory, m.chartForecast, chartHeight)))
	sb.WriteString("\n")

	a := m.chartAnalysis
	summary := fmt.Sprintf(
		"%s %+.2f%% over %dd, confidence %.0f • next %dd range %.4f – %.4f",
		directionLabel(a.Direction), a.PercentChange, trendWindowDays,
		a.Confidence, forecastHorizonDays, a.ExpectedLow, a.ExpectedHigh,
	)
	sb.WriteString(summary)
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(fmt.Sprintf("%c history  %c forecast", historyMarker, forecastMarker)))
	return sb.String()
}

// renderSeries plots the history followed by the forecast on a
// fixed-height grid, one column per point, history and forecast drawn
// with distinct markers.
func renderSeries(history, forecast []float64, height int) string {
	n := len(history) + len(forecast)
	if n == 0 {
		return "no data"
	}
	if height < 2 {
		height = 2
	}

	first := forecast
	if len(history) > 0 {
		first = history
	}
	low, high := first[0], first[0]
	for _, v := range history {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	for _, v := range forecast {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	span := high - low

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, n)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	plot := func(col int, v float64, marker rune) {
		row := height - 1
		if span > 0 {
			row = height - 1 - int((v-low)/span*float64(height-1)+0.5)
		}
		grid[row][col] = marker
	}
	for i, v := range history {
		plot(i, v, historyMarker)
	}
	for i, v := range forecast {
		plot(len(history)+i, v, forecastMarker)
	}

	var sb strings.Builder
	for i, row := range grid {
		switch i {
		case 0:
			fmt.Fprintf(&sb, "%9.4f ┤", high)
		case height - 1:
			fmt.Fprintf(&sb, "%9.4f ┤", low)
		default:
			sb.WriteString(strings.Repeat(" ", 10) + "│")
		}
		sb.WriteString(string(row))
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(" ", 10) + "└" + strings.Repeat("─", n))
	return sb.String()
}
