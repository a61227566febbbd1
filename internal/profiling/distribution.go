package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"surveystat/domain/survey"
	"surveystat/internal"
	"surveystat/internal/errors"
)

// DistributionAnalyzer summarizes the shape of a sample
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes location, spread, shape and IQR outliers of data
func (da *DistributionAnalyzer) Summarize(data []float64) (survey.DistributionSummary, error) {
	summary := survey.DistributionSummary{}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, errors.ComputationErrorf("no values to summarize: %v", err)
	}
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	summary.Mean = mean
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	if len(data) > 1 {
		summary.StdDev, _ = stats.StandardDeviationSample(data)
	}
	summary.Skewness = calculateSkewness(data, mean)
	summary.Kurtosis = calculateKurtosis(data, mean)
	summary.Outliers = detectOutliers(data, q25, q75)

	return summary, nil
}

// centralMoments returns the second, third and fourth population central moments
func centralMoments(data []float64, mean float64) (m2, m3, m4 float64) {
	for _, x := range data {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	n := float64(len(data))
	return m2 / n, m3 / n, m4 / n
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean float64) float64 {
	if len(data) < 3 {
		return 0
	}
	m2, m3, _ := centralMoments(data, mean)
	if m2 == 0 {
		return 0
	}

	n := float64(len(data))
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes bias-corrected sample excess kurtosis
func calculateKurtosis(data []float64, mean float64) float64 {
	if len(data) < 4 {
		return 0
	}
	m2, _, m4 := centralMoments(data, mean)
	if m2 == 0 {
		return 0
	}

	n := float64(len(data))
	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

// detectOutliers counts values outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}

// NormalityTester runs the Shapiro-Wilk test on table columns and classifies
// the result against a significance level.
type NormalityTester struct {
	alpha    float64
	analyzer *DistributionAnalyzer
	logger   *internal.Logger
}

// NewNormalityTester creates a tester; logger may be nil
func NewNormalityTester(alpha float64, logger *internal.Logger) *NormalityTester {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &NormalityTester{alpha: alpha, analyzer: NewDistributionAnalyzer(), logger: logger}
}

// Alpha returns the significance level
func (t *NormalityTester) Alpha() float64 {
	return t.alpha
}

// Test runs the normality test on the named column of table
func (t *NormalityTester) Test(table *survey.Table, column string) (*survey.NormalityResult, error) {
	if table == nil {
		return nil, errors.InvalidInput("no table loaded")
	}
	col, ok := table.Column(column)
	if !ok {
		return nil, errors.InvalidInput("column " + column + " does not exist in the uploaded file")
	}
	return t.TestColumn(col)
}

// TestColumn runs the normality test on the present values of col
func (t *NormalityTester) TestColumn(col survey.Column) (*survey.NormalityResult, error) {
	values := col.Valid()
	if len(values) > MaxShapiroSample {
		t.logger.Warn("[NormalityTester] column %s has %d values; p-value may be inaccurate above %d",
			col.Name, len(values), MaxShapiroSample)
	}

	w, p, err := ShapiroWilk(values)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s", col.Name)
	}

	summary, err := t.analyzer.Summarize(values)
	if err != nil {
		return nil, err
	}

	result := &survey.NormalityResult{
		Column:    col.Name,
		N:         len(values),
		Missing:   col.MissingCount(),
		Statistic: w,
		PValue:    p,
		Alpha:     t.alpha,
		Normal:    p > t.alpha,
		Verdict:   survey.VerdictNotNormal,
		Summary:   summary,
	}
	if result.Normal {
		result.Verdict = survey.VerdictNormal
	}

	t.logger.Debug("[NormalityTester] %s: n=%d W=%.4f p=%.4g (%s)", col.Name, result.N, w, p, result.Verdict)
	return result, nil
}
