package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsRaggedColumns(t *testing.T) {
	_, err := NewTable([]Column{
		{Name: "Column1", Values: []float64{1, 2, 3}},
		{Name: "Column2", Values: []float64{1, 2}},
	})
	assert.Error(t, err)
}

func TestTableAccessors(t *testing.T) {
	table, err := NewTable([]Column{
		{Name: "Q1", Values: []float64{1, Missing(), 3}},
		{Name: "Q2", Values: []float64{4, 5, 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, table.Rows())
	assert.Equal(t, []string{"Q1", "Q2"}, table.Names())

	q1, ok := table.Column("Q1")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, q1.Valid())
	assert.Equal(t, 1, q1.MissingCount())

	_, ok = table.Column("Q9")
	assert.False(t, ok)

	row := table.Row(1)
	assert.True(t, IsMissing(row[0]))
	assert.Equal(t, 5.0, row[1])
}

func TestAlphaResultString(t *testing.T) {
	assert.Equal(t, "0.857", AlphaResult{Value: 0.85714, Defined: true}.String())
	assert.Equal(t, "-1.250", AlphaResult{Value: -1.25, Defined: true}.String())
	assert.Equal(t, "variance is zero", UndefinedAlpha("variance is zero", 3, 10).String())
}

func TestFormatResponse(t *testing.T) {
	assert.Equal(t, "3", FormatResponse(3))
	assert.Equal(t, "2.5", FormatResponse(2.5))
}

func TestAlphaResultInterpretation(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.95, "excellent"},
		{0.9, "excellent"},
		{0.85, "good"},
		{0.7, "acceptable"},
		{0.65, "questionable"},
		{0.5, "poor"},
		{0.1, "unacceptable"},
		{-6, "unacceptable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlphaResult{Value: tt.value, Defined: true}.Interpretation(), "alpha %v", tt.value)
	}
	assert.Equal(t, "undefined", UndefinedAlpha("zero variance", 2, 3).Interpretation())
}
