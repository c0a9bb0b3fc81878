package web

import (
	"bytes"
	"html/template"

	"github.com/wcharczuk/go-chart/v2"

	"analytics-dashboard/models"
)

const (
	chartWidth  = 520
	chartHeight = 400
)

const noDataChart = template.HTML(`<div class="chart-empty">No data for the current selection</div>`)

// PieSVG draws each category's share of the total. Slices with no positive
// value are left out; if nothing is left a placeholder is returned.
func PieSVG(title string, parts []models.Breakdown) (template.HTML, error) {
	values := make([]chart.Value, 0, len(parts))
	for _, p := range parts {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: p.Category, Value: p.Value})
	}
	if len(values) == 0 {
		return noDataChart, nil
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// BarSVG draws one bar per category. All-zero input has no range to plot and
// renders the placeholder.
func BarSVG(title string, parts []models.Breakdown) (template.HTML, error) {
	bars := make([]chart.Value, 0, len(parts))
	nonZero := false
	for _, p := range parts {
		if p.Value != 0 {
			nonZero = true
		}
		bars = append(bars, chart.Value{Label: p.Category, Value: p.Value})
	}
	if !nonZero {
		return noDataChart, nil
	}

	bar := chart.BarChart{
		Title:        title,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Width:        chartWidth,
		Height:       chartHeight,
		BarWidth:     48,
		Bars:         bars,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis:        chart.YAxis{Range: barRange(parts)},
	}

	var buf bytes.Buffer
	if err := bar.Render(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// barRange spans zero and every value.
func barRange(parts []models.Breakdown) *chart.ContinuousRange {
	r := &chart.ContinuousRange{}
	for _, p := range parts {
		r.Min = min(r.Min, p.Value)
		r.Max = max(r.Max, p.Value)
	}
	return r
}
