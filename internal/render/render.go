// Package render formats experiment results for terminal output.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eugenenazirov/binpack-bench/internal/experiment"
)

var (
	colorAccent = lipgloss.Color("#874BFD")
	colorBar    = lipgloss.Color("#00FF99")
	colorSubtle = lipgloss.Color("#64748B")

	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(colorSubtle).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(colorBar)
	subtleStyle = lipgloss.NewStyle().Foreground(colorSubtle)
)

const barWidth = 30

// Summary renders the result as an aligned table with one bar per
// algorithm, scaled against the worst mean bin count.
func Summary(result experiment.Result) string {
	var b strings.Builder

	cfg := result.Config
	b.WriteString(titleStyle.Render("bin packing benchmark"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf(
		"%s distribution, %d items, %d trials, seed %d",
		cfg.Distribution.Kind, cfg.Items, cfg.Trials, cfg.Seed,
	)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"%-22s %9s %9s %9s %7s %7s %9s",
		"algorithm", "mean", "median", "stddev", "min", "max", "p95",
	)))
	b.WriteString("\n")

	maxMean := 0.0
	for _, s := range result.Summaries {
		if s.MeanBins > maxMean {
			maxMean = s.MeanBins
		}
	}

	for _, s := range result.Summaries {
		b.WriteString(fmt.Sprintf(
			"%-22s %9.2f %9.1f %9.2f %7d %7d %9.1f  ",
			s.Algorithm, s.MeanBins, s.MedianBins, s.StdDevBins,
			s.MinBins, s.MaxBins, s.P95Bins,
		))
		b.WriteString(barStyle.Render(bar(s.MeanBins, maxMean)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("completed in %d ms", result.ElapsedMs)))
	b.WriteString("\n")

	return b.String()
}

// JSON renders the result as indented JSON, suitable for piping.
func JSON(result experiment.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data) + "\n", nil
}

func bar(value, max float64) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(value / max * barWidth)
	if n < 1 {
		n = 1
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n)
}
