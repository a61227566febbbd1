package excel

import (
	"math"
	"strconv"
	"strings"

	"surveystat/domain/survey"
)

// CoerceNumeric converts one cell to a finite number, or the missing marker when
// the text is empty, not a decimal number, or not finite.
func CoerceNumeric(raw string) float64 {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return survey.Missing()
	}

	// ParseFloat also accepts hex floats; survey answers never use them.
	lower := strings.ToLower(strings.TrimLeft(cleanVal, "+-"))
	if strings.HasPrefix(lower, "0x") {
		return survey.Missing()
	}

	v, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return survey.Missing()
	}
	return v
}

// CoerceColumn builds a numeric column from raw cells
func CoerceColumn(name string, cells []string) survey.Column {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		values[i] = CoerceNumeric(cell)
	}
	return survey.Column{Name: name, Values: values}
}
