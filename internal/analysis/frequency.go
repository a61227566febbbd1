package analysis

import (
	"math"
	"sort"

	"surveystat/domain/survey"
)

// roundHalfEven rounds to the given number of decimals, ties to even
func roundHalfEven(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*scale) / scale
}

// valueCounts counts each distinct present value and returns the values ascending
func valueCounts(col survey.Column) ([]float64, map[float64]int, int) {
	counts := make(map[float64]int)
	total := 0
	for _, v := range col.Values {
		if survey.IsMissing(v) {
			continue
		}
		counts[v]++
		total++
	}

	values := make([]float64, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Float64s(values)
	return values, counts, total
}

// FrequencyTable groups the present values of a column ascending and reports
// count, percent, valid percent and cumulative percent. Percents are rounded to
// one decimal; the cumulative column is accumulated before rounding so it ends at 100.
func FrequencyTable(col survey.Column) survey.FrequencyTable {
	values, counts, total := valueCounts(col)

	table := survey.FrequencyTable{
		Column: col.Name,
		Rows:   make([]survey.FrequencyRow, 0, len(values)),
	}

	cumulative := 0.0
	for _, v := range values {
		percent := float64(counts[v]) / float64(total) * 100
		cumulative += percent
		rounded := roundHalfEven(percent, 1)
		table.Rows = append(table.Rows, survey.FrequencyRow{
			Response:          v,
			Frequency:         counts[v],
			Percent:           rounded,
			ValidPercent:      rounded,
			CumulativePercent: roundHalfEven(cumulative, 1),
		})
	}
	return table
}

// Histogram returns the bars of a column with the unrounded percent overlay
func Histogram(col survey.Column) survey.Histogram {
	values, counts, total := valueCounts(col)

	hist := survey.Histogram{
		Column: col.Name,
		Points: make([]survey.HistogramPoint, len(values)),
	}
	for i, v := range values {
		hist.Points[i] = survey.HistogramPoint{
			Value:   v,
			Count:   counts[v],
			Percent: float64(counts[v]) / float64(total) * 100,
		}
	}
	return hist
}

// Pie returns the response shares of a column
func Pie(col survey.Column) survey.Pie {
	values, counts, _ := valueCounts(col)

	pie := survey.Pie{
		Column: col.Name,
		Slices: make([]survey.PieSlice, len(values)),
	}
	for i, v := range values {
		pie.Slices[i] = survey.PieSlice{Value: v, Count: counts[v]}
	}
	return pie
}
