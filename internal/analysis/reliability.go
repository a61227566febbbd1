package analysis

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

// FillMissing replaces every missing cell with the mean of the present values
// of its column. A column without any present value cannot be imputed.
func FillMissing(table *survey.Table) (*survey.FilledTable, error) {
	filled := make([]survey.Column, len(table.Columns))
	for j, col := range table.Columns {
		mean, err := stats.Mean(col.Valid())
		if err != nil {
			return nil, errors.ComputationErrorf("column %s has no numeric values to impute from", col.Name)
		}

		values := make([]float64, len(col.Values))
		for i, v := range col.Values {
			if survey.IsMissing(v) {
				v = mean
			}
			values[i] = v
		}
		filled[j] = survey.Column{Name: col.Name, Values: values}
	}
	return &survey.FilledTable{Table: survey.Table{Columns: filled}}, nil
}

// ColumnAverages returns the arithmetic mean of every imputed column, in column order
func ColumnAverages(filled *survey.FilledTable) []survey.ColumnAverage {
	averages := make([]survey.ColumnAverage, 0, len(filled.Columns))
	for _, col := range filled.Columns {
		mean, err := stats.Mean(col.Values)
		if err != nil {
			// zero-row table; nothing to average
			continue
		}
		averages = append(averages, survey.ColumnAverage{Column: col.Name, Mean: mean})
	}
	return averages
}

// ZeroVarianceReason is the undefined-marker text for a constant total score
const ZeroVarianceReason = "Cronbach's Alpha cannot be computed because the total score variance is zero"

// CronbachAlpha computes k/(k-1) * (1 - Σ item variance / total score variance)
// with sample variances (n-1 denominator). A zero total variance yields the
// undefined marker instead of a division. Fewer than two items or two
// respondents is a computation error.
func CronbachAlpha(filled *survey.FilledTable) (survey.AlphaResult, error) {
	k := len(filled.Columns)
	n := filled.Rows()

	if k < 2 {
		return survey.AlphaResult{}, errors.ComputationErrorf(
			"Cronbach's Alpha needs at least two item columns, got %d", k)
	}
	if n < 2 {
		return survey.AlphaResult{}, errors.ComputationErrorf(
			"Cronbach's Alpha needs at least two respondents, got %d", n)
	}

	itemVariances := 0.0
	totals := make([]float64, n)
	for _, col := range filled.Columns {
		itemVariances += stat.Variance(col.Values, nil)
		for i, v := range col.Values {
			totals[i] += v
		}
	}

	totalVariance := stat.Variance(totals, nil)
	if totalVariance == 0 {
		return survey.UndefinedAlpha(ZeroVarianceReason, k, n), nil
	}

	items := float64(k)
	return survey.AlphaResult{
		Value:       items / (items - 1) * (1 - itemVariances/totalVariance),
		Defined:     true,
		Items:       k,
		Respondents: n,
	}, nil
}
