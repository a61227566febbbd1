package analysis

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

func tableFromRows(t *testing.T, rows [][]float64) *survey.Table {
	t.Helper()
	require.NotEmpty(t, rows)
	columns := make([]survey.Column, len(rows[0]))
	for j := range columns {
		columns[j].Name = "Column" + string(rune('1'+j))
		columns[j].Values = make([]float64, len(rows))
		for i, row := range rows {
			columns[j].Values[i] = row[j]
		}
	}
	table, err := survey.NewTable(columns)
	require.NoError(t, err)
	return table
}

func filledFromRows(t *testing.T, rows [][]float64) *survey.FilledTable {
	t.Helper()
	filled, err := FillMissing(tableFromRows(t, rows))
	require.NoError(t, err)
	return filled
}

func TestCronbachAlphaKnownValues(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want float64
	}{
		{"perfectly consistent items", [][]float64{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}}, 1.0},
		{"moderate consistency", [][]float64{{1, 2}, {2, 1}, {3, 3}}, 2.0 / 3.0},
		{"negative for opposing items", [][]float64{{1, 2}, {2, 1}, {3, 1}}, -6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CronbachAlpha(filledFromRows(t, tt.rows))
			require.NoError(t, err)
			assert.True(t, result.Defined)
			assert.InDelta(t, tt.want, result.Value, 1e-9)
			assert.Equal(t, len(tt.rows[0]), result.Items)
			assert.Equal(t, len(tt.rows), result.Respondents)
		})
	}
}

func TestCronbachAlphaZeroTotalVarianceIsUndefined(t *testing.T) {
	// every respondent sums to 4 while the items themselves vary
	result, err := CronbachAlpha(filledFromRows(t, [][]float64{{1, 3}, {2, 2}, {3, 1}}))
	require.NoError(t, err)
	assert.False(t, result.Defined)
	assert.Equal(t, ZeroVarianceReason, result.Reason)
	assert.Zero(t, result.Value)

	constant, err := CronbachAlpha(filledFromRows(t, [][]float64{{5, 5}, {5, 5}, {5, 5}}))
	require.NoError(t, err)
	assert.False(t, constant.Defined)
}

func TestCronbachAlphaComputationErrors(t *testing.T) {
	_, err := CronbachAlpha(filledFromRows(t, [][]float64{{1}, {2}, {3}}))
	require.Error(t, err)
	assert.True(t, errors.IsComputation(err))

	_, err = CronbachAlpha(filledFromRows(t, [][]float64{{1, 2, 3}}))
	require.Error(t, err)
	assert.True(t, errors.IsComputation(err))
}

func TestCronbachAlphaRowOrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	rows := make([][]float64, 40)
	for i := range rows {
		base := float64(rng.IntN(5) + 1)
		rows[i] = []float64{base, base + float64(rng.IntN(2)), float64(rng.IntN(5) + 1), base}
	}

	original, err := CronbachAlpha(filledFromRows(t, rows))
	require.NoError(t, err)

	shuffled := make([][]float64, len(rows))
	copy(shuffled, rows)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	permuted, err := CronbachAlpha(filledFromRows(t, shuffled))
	require.NoError(t, err)
	assert.InDelta(t, original.Value, permuted.Value, 1e-9)
}

func TestFillMissingUsesColumnMean(t *testing.T) {
	table := tableFromRows(t, [][]float64{
		{1, 4},
		{survey.Missing(), 5},
		{3, 6},
	})

	filled, err := FillMissing(table)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, filled.Columns[0].Values)
	assert.Equal(t, []float64{4, 5, 6}, filled.Columns[1].Values)

	// the source table keeps its missing cell
	assert.True(t, survey.IsMissing(table.Columns[0].Values[1]))
}

func TestFillMissingRejectsEmptyColumn(t *testing.T) {
	table := tableFromRows(t, [][]float64{
		{1, survey.Missing()},
		{2, survey.Missing()},
	})
	_, err := FillMissing(table)
	require.Error(t, err)
	assert.True(t, errors.IsComputation(err))
}

func TestColumnAverages(t *testing.T) {
	table := tableFromRows(t, [][]float64{
		{1, 10},
		{survey.Missing(), 20},
		{5, 30},
		{3, 40},
	})
	filled, err := FillMissing(table)
	require.NoError(t, err)

	averages := ColumnAverages(filled)
	require.Len(t, averages, 2)
	assert.Equal(t, "Column1", averages[0].Column)
	assert.InDelta(t, 3.0, averages[0].Mean, 1e-12)
	// no missing values: filled and original means agree
	assert.InDelta(t, 25.0, averages[1].Mean, 1e-12)
}
