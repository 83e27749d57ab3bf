package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"MarathonTracker/internal/model"
)

// ErrNotEnoughData is returned when too few entries exist to draw a chart.
var ErrNotEnoughData = errors.New("need at least two entries to draw a chart")

// Chart renders the plan-vs-actual lines as a PNG.
func Chart(entries []model.BalanceEntry, currency string) ([]byte, error) {
	if len(entries) < 2 {
		return nil, ErrNotEnoughData
	}

	days := make([]float64, len(entries))
	plan := make([]float64, len(entries))
	actual := make([]float64, len(entries))
	for i, e := range entries {
		days[i] = float64(e.Day)
		plan[i] = e.Planned.InexactFloat64()
		actual[i] = e.Actual.InexactFloat64()
	}

	graph := chart.Chart{
		Title:  "Financial marathon",
		Width:  1000,
		Height: 500,
		XAxis:  chart.XAxis{Name: "Day"},
		YAxis:  chart.YAxis{Name: fmt.Sprintf("Balance (%s)", currency)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Plan",
				XValues: days,
				YValues: plan,
				Style: chart.Style{
					StrokeColor:     drawing.ColorBlue,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.ContinuousSeries{
				Name:    "Actual",
				XValues: days,
				YValues: actual,
				Style: chart.Style{
					StrokeColor: drawing.ColorGreen,
					DotColor:    drawing.ColorGreen,
					DotWidth:    4,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
