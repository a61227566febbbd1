package survey

import (
	"strconv"

	"surveystat/domain/core"
)

// FrequencyRow is one line of a per-item frequency table
type FrequencyRow struct {
	Response          float64 `json:"response" yaml:"response"`
	Frequency         int     `json:"frequency" yaml:"frequency"`
	Percent           float64 `json:"percent" yaml:"percent"`
	ValidPercent      float64 `json:"valid_percent" yaml:"valid_percent"`
	CumulativePercent float64 `json:"cumulative_percent" yaml:"cumulative_percent"`
}

// FrequencyTable lists the distinct responses of one column in ascending order
type FrequencyTable struct {
	Column string         `json:"column" yaml:"column"`
	Rows   []FrequencyRow `json:"rows" yaml:"rows"`
}

// Total returns the number of present values counted
func (f FrequencyTable) Total() int {
	n := 0
	for _, r := range f.Rows {
		n += r.Frequency
	}
	return n
}

// HistogramPoint is a bar of the per-item histogram with its percent overlay
type HistogramPoint struct {
	Value   float64 `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Histogram is the chart data of one column
type Histogram struct {
	Column string           `json:"column" yaml:"column"`
	Points []HistogramPoint `json:"points" yaml:"points"`
}

// PieSlice is one response value share
type PieSlice struct {
	Value float64 `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
}

// Pie is the pie chart data of one column
type Pie struct {
	Column string     `json:"column" yaml:"column"`
	Slices []PieSlice `json:"slices" yaml:"slices"`
}

// ColumnAverage is the mean of one imputed column
type ColumnAverage struct {
	Column string  `json:"column" yaml:"column"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// AlphaResult holds Cronbach's Alpha or the undefined marker (Defined == false).
// A defined value is not clamped: degenerate data can push it below 0 or above 1.
type AlphaResult struct {
	Value       float64 `json:"value" yaml:"value"`
	Defined     bool    `json:"defined" yaml:"defined"`
	Reason      string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Items       int     `json:"items" yaml:"items"`
	Respondents int     `json:"respondents" yaml:"respondents"`
}

// UndefinedAlpha builds the undefined marker
func UndefinedAlpha(reason string, items, respondents int) AlphaResult {
	return AlphaResult{Reason: reason, Items: items, Respondents: respondents}
}

// String renders the value rounded to three decimals, or the reason when undefined
func (a AlphaResult) String() string {
	if !a.Defined {
		return a.Reason
	}
	return strconv.FormatFloat(a.Value, 'f', 3, 64)
}

// Interpretation labels a defined alpha with the conventional reliability bands
func (a AlphaResult) Interpretation() string {
	switch {
	case !a.Defined:
		return "undefined"
	case a.Value >= 0.9:
		return "excellent"
	case a.Value >= 0.8:
		return "good"
	case a.Value >= 0.7:
		return "acceptable"
	case a.Value >= 0.6:
		return "questionable"
	case a.Value >= 0.5:
		return "poor"
	default:
		return "unacceptable"
	}
}

// Verdict classifies a normality test result
type Verdict string

const (
	VerdictNormal    Verdict = "consistent with normal distribution"
	VerdictNotNormal Verdict = "inconsistent with normal distribution"
)

// DistributionSummary describes the shape of the values a normality test ran on.
// Skewness and Kurtosis are bias-corrected sample estimates; Kurtosis is excess kurtosis.
type DistributionSummary struct {
	Mean     float64 `json:"mean" yaml:"mean"`
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Median   float64 `json:"median" yaml:"median"`
	Q25      float64 `json:"q25" yaml:"q25"`
	Q75      float64 `json:"q75" yaml:"q75"`
	Skewness float64 `json:"skewness" yaml:"skewness"`
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"`
	Outliers int     `json:"outliers" yaml:"outliers"`
}

// NormalityResult is the outcome of a Shapiro-Wilk test on one column
type NormalityResult struct {
	Column    string              `json:"column" yaml:"column"`
	N         int                 `json:"n" yaml:"n"`
	Missing   int                 `json:"missing" yaml:"missing"`
	Statistic float64             `json:"statistic" yaml:"statistic"`
	PValue    float64             `json:"p_value" yaml:"p_value"`
	Alpha     float64             `json:"significance_level" yaml:"significance_level"`
	Normal    bool                `json:"normal" yaml:"normal"`
	Verdict   Verdict             `json:"verdict" yaml:"verdict"`
	Summary   DistributionSummary `json:"summary" yaml:"summary"`
}

// AlphaReport is everything the reliability dashboard renders
type AlphaReport struct {
	RunID           core.RunID       `json:"run_id" yaml:"run_id"`
	Filename        string           `json:"filename" yaml:"filename"`
	Fingerprint     core.Hash        `json:"fingerprint" yaml:"fingerprint"`
	GeneratedAt     core.Timestamp   `json:"generated_at" yaml:"generated_at"`
	Alpha           AlphaResult      `json:"alpha" yaml:"alpha"`
	Columns         []string         `json:"columns" yaml:"columns"`
	FrequencyTables []FrequencyTable `json:"frequency_tables" yaml:"frequency_tables"`
	Histograms      []Histogram      `json:"histograms" yaml:"histograms"`
	Pies            []Pie            `json:"pies" yaml:"pies"`
	Averages        []ColumnAverage  `json:"column_averages" yaml:"column_averages"`
}

// NormalityReport is everything the normality dashboard renders
type NormalityReport struct {
	RunID            core.RunID       `json:"run_id" yaml:"run_id"`
	Filename         string           `json:"filename" yaml:"filename"`
	Fingerprint      core.Hash        `json:"fingerprint" yaml:"fingerprint"`
	GeneratedAt      core.Timestamp   `json:"generated_at" yaml:"generated_at"`
	AvailableColumns []string         `json:"available_columns" yaml:"available_columns"`
	SelectedColumn   string           `json:"selected_column,omitempty" yaml:"selected_column,omitempty"`
	Result           *NormalityResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// FormatResponse prints a response value without a trailing ".0"
func FormatResponse(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
