package charts

import (
	"context"

	"golang.org/x/sync/errgroup"

	"surveystat/domain/survey"
)

// ColumnCharts holds the rendered SVG charts of one item column
type ColumnCharts struct {
	Column    string
	Histogram []byte
	Pie       []byte
}

// ReportCharts holds every chart of a reliability report
type ReportCharts struct {
	Columns  []ColumnCharts
	Averages []byte
}

// RenderReport renders the per-column and averages charts of report with at
// most workers renderers running at once. The first render failure or a
// cancelled ctx stops the remaining work.
func (r *Renderer) RenderReport(ctx context.Context, report *survey.AlphaReport, workers int) (*ReportCharts, error) {
	if workers < 1 {
		workers = 1
	}
	out := &ReportCharts{Columns: make([]ColumnCharts, len(report.Histograms))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range report.Histograms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hist, err := r.Histogram(report.Histograms[i])
			if err != nil {
				return err
			}
			out.Columns[i] = ColumnCharts{Column: report.Histograms[i].Column, Histogram: hist}
			if i < len(report.Pies) {
				pie, err := r.Pie(report.Pies[i])
				if err != nil {
					return err
				}
				out.Columns[i].Pie = pie
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		averages, err := r.Averages(report.Averages)
		if err != nil {
			return err
		}
		out.Averages = averages
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
