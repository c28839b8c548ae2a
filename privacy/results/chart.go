package results

import (
	"io"

	chart "github.com/wcharczuk/go-chart"

	"github.com/youralert/youralert/golib/errors"
	"github.com/youralert/youralert/privacy/metrics"
)

// Curve is a named ROC curve
type Curve struct {
	Name   string
	Points []metrics.Point
}

// WriteROC renders the curves as a PNG. Curves without points are skipped.
func WriteROC(w io.Writer, title string, curves []Curve) error {
	var series []chart.Series
	for i, c := range curves {
		if len(c.Points) == 0 {
			continue
		}
		xs := make([]float64, len(c.Points))
		ys := make([]float64, len(c.Points))
		for j, p := range c.Points {
			xs[j], ys[j] = p.FPR, p.TPR
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				Show:        true,
				StrokeColor: chart.GetAlternateColor(i),
			},
		})
	}
	if len(series) == 0 {
		return errors.Errorf("no curve to plot")
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "False positive rate",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:      "True positive rate",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}
	return graph.Render(chart.PNG, w)
}
