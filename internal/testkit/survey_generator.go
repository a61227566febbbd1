package testkit

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind selects the shape of a generated dataset
type Kind string

const (
	KindLikert Kind = "likert"
	KindNormal Kind = "normal"
	KindSkewed Kind = "skewed"
)

// ParseKind validates a dataset kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLikert, KindNormal, KindSkewed:
		return k, nil
	}
	return "", fmt.Errorf("unknown dataset kind %q (want likert, normal or skewed)", s)
}

// SurveyGeneratorConfig configures the survey data generator
type SurveyGeneratorConfig struct {
	Respondents int     `json:"respondents"`
	Items       int     `json:"items"`
	ScalePoints int     `json:"scale_points"`
	Consistency float64 `json:"consistency"` // loading of every item on the shared trait, 0..1
	MissingRate float64 `json:"missing_rate"`
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig returns a five-item, five-point questionnaire with good reliability
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 120,
		Items:       5,
		ScalePoints: 5,
		Consistency: 0.8,
		MissingRate: 0.02,
		Seed:        42,
	}
}

// SurveyDataGenerator produces reproducible survey answers
type SurveyDataGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyDataGenerator creates a new survey data generator
func NewSurveyDataGenerator(config SurveyGeneratorConfig) *SurveyDataGenerator {
	return &SurveyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// LikertRows generates one row per respondent. Every answer is driven by a
// shared latent trait plus item noise, then cut to the 1..ScalePoints scale.
// Missing answers are NaN.
func (g *SurveyDataGenerator) LikertRows() [][]float64 {
	c := math.Max(0, math.Min(1, g.config.Consistency))
	noise := math.Sqrt(1 - c*c)
	scale := float64(g.config.ScalePoints)
	center := (scale + 1) / 2
	spread := (scale - 1) / 4

	rows := make([][]float64, g.config.Respondents)
	for i := range rows {
		trait := g.rng.NormFloat64()
		row := make([]float64, g.config.Items)
		for j := range row {
			if g.rng.Float64() < g.config.MissingRate {
				row[j] = math.NaN()
				continue
			}
			latent := c*trait + noise*g.rng.NormFloat64()
			row[j] = math.Max(1, math.Min(scale, math.Round(center+spread*latent)))
		}
		rows[i] = row
	}
	return rows
}

// NormalSample draws n values from N(mean, sd²)
func (g *SurveyDataGenerator) NormalSample(n int, mean, sd float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = mean + sd*g.rng.NormFloat64()
	}
	return values
}

// SkewedSample draws n exponential values with the given rate
func (g *SurveyDataGenerator) SkewedSample(n int, rate float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = g.rng.ExpFloat64() / rate
	}
	return values
}

// NormalQuantiles returns n evenly spaced quantiles of N(mean, sd²), a
// noise-free sample that any normality test accepts.
func NormalQuantiles(n int, mean, sd float64) []float64 {
	dist := distuv.Normal{Mu: mean, Sigma: sd}
	values := make([]float64, n)
	for i := range values {
		values[i] = dist.Quantile((float64(i) + 0.5) / float64(n))
	}
	return values
}

// ExponentialQuantiles returns n evenly spaced quantiles of Exp(rate), a
// strongly right-skewed sample.
func ExponentialQuantiles(n int, rate float64) []float64 {
	dist := distuv.Exponential{Rate: rate}
	values := make([]float64, n)
	for i := range values {
		values[i] = dist.Quantile((float64(i) + 0.5) / float64(n))
	}
	return values
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PackedCSV renders rows the way spreadsheet exports arrive for the reliability
// workflow: every record is a single ';'-joined field. A "Q1;Q2;..." header is
// written when header is true.
func PackedCSV(rows [][]float64, header bool) []byte {
	var buf bytes.Buffer
	if header && len(rows) > 0 {
		names := make([]string, len(rows[0]))
		for j := range names {
			names[j] = fmt.Sprintf("Q%d", j+1)
		}
		buf.WriteString(strings.Join(names, ";"))
		buf.WriteByte('\n')
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		buf.WriteString(strings.Join(cells, ";"))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// NormalityCSV renders named columns as a ';'-delimited export with a header
// and two trailing metadata columns (Submitted, Source).
func NormalityCSV(names []string, columns [][]float64) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(append(append([]string{}, names...), "Submitted", "Source"), ";"))
	buf.WriteByte('\n')

	rows := 0
	for _, col := range columns {
		rows = max(rows, len(col))
	}
	for i := 0; i < rows; i++ {
		cells := make([]string, 0, len(columns)+2)
		for _, col := range columns {
			if i < len(col) {
				cells = append(cells, formatCell(col[i]))
			} else {
				cells = append(cells, "")
			}
		}
		cells = append(cells, fmt.Sprintf("2024-01-%02d", i%28+1), "web")
		buf.WriteString(strings.Join(cells, ";"))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Generate renders a dataset of the given kind as upload-ready CSV bytes
func (g *SurveyDataGenerator) Generate(kind Kind) ([]byte, error) {
	switch kind {
	case KindLikert:
		return PackedCSV(g.LikertRows(), true), nil
	case KindNormal:
		return NormalityCSV([]string{"Value"}, [][]float64{g.NormalSample(g.config.Respondents, 50, 10)}), nil
	case KindSkewed:
		return NormalityCSV([]string{"Value"}, [][]float64{g.SkewedSample(g.config.Respondents, 1)}), nil
	}
	return nil, fmt.Errorf("unknown dataset kind %q", kind)
}
