// Package charts renders summary charts as PNG images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/fintrackapp/fintrack-be/internal/money"
	"github.com/fintrackapp/fintrack-be/internal/services"
)

// Generator renders summary data into chart PNGs
type Generator struct{}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryPie renders the per-category expense distribution as a pie
// chart. Returns nil bytes when there is nothing to plot.
func (g *Generator) CategoryPie(summary *services.Summary) ([]byte, error) {
	if len(summary.ExpenseByCategory) == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(summary.ExpenseByCategory))
	for _, ct := range summary.ExpenseByCategory {
		if ct.Total <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", ct.Category, money.Format(ct.Total)),
			Value: float64(ct.Total),
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:  "Expenses by category",
		Width:  800,
		Height: 800,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Balance renders income vs expense totals as a bar chart.
func (g *Generator) Balance(summary *services.Summary) ([]byte, error) {
	if summary.IncomeTotal == 0 && summary.ExpenseTotal == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:  "Income vs expenses",
		Width:  800,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		BarWidth: 120,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return money.Format(int64(f))
				}
				return ""
			},
		},
		Bars: []chart.Value{
			{Label: "Income", Value: float64(summary.IncomeTotal), Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
			{Label: "Expenses", Value: float64(summary.ExpenseTotal), Style: chart.Style{FillColor: chart.ColorRed, StrokeColor: chart.ColorRed}},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render balance chart: %w", err)
	}
	return buf.Bytes(), nil
}
