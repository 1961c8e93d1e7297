package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/activity/internal/report"
	"github.com/sadopc/activity/internal/tracker"
)

var barColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type reportsModel struct {
	svc    *tracker.Service
	width  int
	height int

	timeframe report.Timeframe
	buckets   []report.Bucket
	bucketPos int
	result    tracker.Report

	chart barchart.Model
}

func newReportsModel(svc *tracker.Service) reportsModel {
	return reportsModel{
		svc:       svc,
		timeframe: report.Weekly,
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	timeframe report.Timeframe
	buckets   []report.Bucket
	bucketPos int
	result    tracker.Report
	err       error
}

// refresh reloads the bucket list and the report for the bucket at pos. A
// negative pos selects the most recent bucket.
func (r reportsModel) refresh() tea.Cmd {
	return r.load(-1)
}

func (r reportsModel) load(pos int) tea.Cmd {
	tf := r.timeframe
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		buckets, err := r.svc.Buckets(ctx, tf.Granularity())
		if err != nil {
			return reportsDataMsg{timeframe: tf, err: err}
		}
		if len(buckets) == 0 {
			return reportsDataMsg{timeframe: tf}
		}
		if pos < 0 || pos >= len(buckets) {
			pos = len(buckets) - 1
		}
		result, err := r.svc.Report(ctx, tf, buckets[pos].Start())
		return reportsDataMsg{timeframe: tf, buckets: buckets, bucketPos: pos, result: result, err: err}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.timeframe != r.timeframe {
			return r, nil
		}
		if msg.err != nil {
			return r, errStatus("Report error", msg.err)
		}
		r.buckets = msg.buckets
		r.bucketPos = msg.bucketPos
		r.result = msg.result
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if r.bucketPos > 0 {
				return r, r.load(r.bucketPos - 1)
			}
		case key.Matches(msg, keys.Right):
			if r.bucketPos < len(r.buckets)-1 {
				return r, r.load(r.bucketPos + 1)
			}
		case key.Matches(msg, keys.Up):
			r.timeframe = report.Timeframes[(int(r.timeframe)+len(report.Timeframes)-1)%len(report.Timeframes)]
			return r, r.refresh()
		case key.Matches(msg, keys.Down):
			r.timeframe = report.Timeframes[(int(r.timeframe)+1)%len(report.Timeframes)]
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, row := range r.result.Rows {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(barColors[i%len(barColors)]))
		bars = append(bars, barchart.BarData{
			Label: truncate(row.TaskName, 10),
			Values: []barchart.BarValue{{
				Name:  row.TaskName,
				Value: row.Duration.Hours(),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

func (r reportsModel) bucketLabel() string {
	if r.bucketPos < len(r.buckets) {
		return r.buckets[r.bucketPos].Label()
	}
	return "No data"
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for _, tf := range report.Timeframes {
		if tf == r.timeframe {
			tabs = append(tabs, activeTabStyle.Render(tf.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tf.String()))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	position := ""
	if len(r.buckets) > 1 {
		position = fmt.Sprintf(" (%d/%d)", r.bucketPos+1, len(r.buckets))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ",
		mutedStyle.Render(r.bucketLabel()+position),
	)

	body := []string{header, ""}
	if len(r.result.Rows) > 0 {
		body = append(body, r.chart.View(), "")
	}
	body = append(body, r.renderSummaryTable(w), "", mutedStyle.Render("  ←/→: period  ↑/↓: timeframe"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.result.Rows) == 0 {
		return mutedStyle.Render("  No time recorded for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-20s %12s %7s", "Task", "Project", "Time", "Hours")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 66))))

	for i, row := range r.result.Rows {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(barColors[i%len(barColors)])).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-22s %-20s %12s %7s",
			dot, row.TaskName, row.ProjectName, formatTotal(row.Duration), formatHours(row.Duration)))
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 66))))
	rows = append(rows, fmt.Sprintf("  %-45s %12s %7s", "Total", formatTotal(r.result.Total), formatHours(r.result.Total)))

	return strings.Join(rows, "\n")
}
