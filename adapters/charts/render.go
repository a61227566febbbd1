package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"surveystat/domain/survey"
)

const (
	defaultWidth  = 480
	defaultHeight = 320
	barWidth      = 40
	barSpacing    = 16

	averagesTitle = "Average Values of Each Column"
)

// Renderer draws survey chart data as SVG documents
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the default chart size
func NewRenderer() *Renderer {
	return &Renderer{Width: defaultWidth, Height: defaultHeight}
}

func (r *Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col,
		StrokeColor: col,
		StrokeWidth: 1,
	}
}

// Histogram renders one bar per distinct response. Each label carries the
// response, its count and its share of present values. A histogram without
// points renders nothing.
func (r *Renderer) Histogram(h survey.Histogram) ([]byte, error) {
	if len(h.Points) == 0 {
		return nil, nil
	}

	width, height := r.size()
	if need := len(h.Points)*(barWidth+barSpacing) + 120; need > width {
		width = need
	}

	bars := make([]chart.Value, len(h.Points))
	maxCount := 0
	for i, p := range h.Points {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.0f%%)", survey.FormatResponse(p.Value), p.Percent),
			Value: float64(p.Count),
			Style: barStyle(chart.ColorBlue),
		}
		maxCount = max(maxCount, p.Count)
	}

	ticks := countTicks(maxCount)
	top := math.Max(ticks[len(ticks)-1].Value, float64(maxCount)*1.1)

	bc := chart.BarChart{
		Title:      "Histogram of " + h.Column,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			Ticks: ticks,
		},
		Bars: bars,
	}
	return render(bc.Render, h.Column)
}

// countTicks returns integer ticks from zero to at least maxCount
func countTicks(maxCount int) []chart.Tick {
	step := int(math.Max(1, math.Ceil(float64(maxCount)/5)))
	ticks := make([]chart.Tick, 0, 7)
	for v := 0; ; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
		if v >= maxCount {
			break
		}
	}
	return ticks
}

// Pie renders the share of each response. A pie without slices renders nothing.
func (r *Renderer) Pie(p survey.Pie) ([]byte, error) {
	if len(p.Slices) == 0 {
		return nil, nil
	}

	width, height := r.size()
	values := make([]chart.Value, len(p.Slices))
	for i, s := range p.Slices {
		values[i] = chart.Value{
			Label: survey.FormatResponse(s.Value),
			Value: float64(s.Count),
		}
	}

	pc := chart.PieChart{
		Title:  "Pie Chart of " + p.Column,
		Width:  width,
		Height: height,
		Values: values,
	}
	return render(pc.Render, p.Column)
}

// Averages renders the mean of every column as a line over the column order
func (r *Renderer) Averages(averages []survey.ColumnAverage) ([]byte, error) {
	if len(averages) == 0 {
		return nil, nil
	}

	width, height := r.size()
	if need := len(averages)*60 + 120; need > width {
		width = need
	}

	xs := make([]float64, len(averages))
	ys := make([]float64, len(averages))
	ticks := make([]chart.Tick, len(averages))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, a := range averages {
		xs[i] = float64(i + 1)
		ys[i] = a.Mean
		ticks[i] = chart.Tick{Value: xs[i], Label: a.Column}
		lo = math.Min(lo, a.Mean)
		hi = math.Max(hi, a.Mean)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	yRange := &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}

	// a line needs two x values; one column is drawn as a single bar
	if len(averages) == 1 {
		bc := chart.BarChart{
			Title:      averagesTitle,
			Width:      width,
			Height:     height,
			BarWidth:   barWidth,
			BarSpacing: barSpacing,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
			YAxis:      chart.YAxis{Name: "Average Value", Range: yRange},
			Bars: []chart.Value{{
				Label: averages[0].Column,
				Value: averages[0].Mean,
				Style: barStyle(chart.ColorBlue),
			}},
		}
		return render(bc.Render, "column averages")
	}

	ch := chart.Chart{
		Title:      averagesTitle,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Columns",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(averages)) + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Average Value",
			Range: yRange,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Average",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}
	return render(ch.Render, "column averages")
}

func render(fn func(chart.RendererProvider, io.Writer) error, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render chart for %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
