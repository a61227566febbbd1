package profiling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"surveystat/internal/errors"
)

// MinShapiroSample and MaxShapiroSample bound the sample sizes for which the
// Royston approximation is calibrated. Larger samples still compute, with a
// less accurate p-value.
const (
	MinShapiroSample = 3
	MaxShapiroSample = 5000
)

// Royston (1995) AS R94 polynomial coefficients
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}

// shapiroCoefficients returns the antisymmetric weights a_1..a_n for a sorted sample of size n
func shapiroCoefficients(n int) []float64 {
	a := make([]float64, n)
	if n == 3 {
		a[0], a[2] = -math.Sqrt(0.5), math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	m := make([]float64, n)
	summ2 := 0.0
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (an + 0.25))
		summ2 += m[i] * m[i]
	}
	ssumm2 := math.Sqrt(summ2)
	u := 1 / math.Sqrt(an)

	last := poly(swC1, u) + m[n-1]/ssumm2
	a[n-1], a[0] = last, -last

	first := 1
	var phi float64
	if n > 5 {
		penultimate := poly(swC2, u) + m[n-2]/ssumm2
		a[n-2], a[1] = penultimate, -penultimate
		phi = (summ2 - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
			(1 - 2*last*last - 2*penultimate*penultimate)
		first = 2
	} else {
		phi = (summ2 - 2*m[n-1]*m[n-1]) / (1 - 2*last*last)
	}

	scale := math.Sqrt(phi)
	for i := first; i < n-first; i++ {
		a[i] = m[i] / scale
	}
	return a
}

// ShapiroWilk returns the W statistic and its p-value for the sample.
// The sample must hold at least three values that are not all identical.
func ShapiroWilk(data []float64) (w, p float64, err error) {
	n := len(data)
	if n < MinShapiroSample {
		return 0, 0, errors.ComputationErrorf(
			"Shapiro-Wilk test needs at least %d values, got %d", MinShapiroSample, n)
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)

	if x[n-1]-x[0] < 1e-19 {
		return 0, 0, errors.ComputationError("Shapiro-Wilk test is undefined when all values are identical")
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	a := shapiroCoefficients(n)
	numerator, ssq := 0.0, 0.0
	for i, v := range x {
		numerator += a[i] * v
		d := v - mean
		ssq += d * d
	}

	w = numerator * numerator / ssq
	if w > 1 {
		w = 1
	}

	return w, shapiroPValue(w, n), nil
}

// shapiroPValue maps W to its upper-tail probability under normality
func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		// exact distribution for three observations
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(1 - w)

	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		logN := math.Log(an)
		mu = poly(swC5, logN)
		sigma = math.Exp(poly(swC6, logN))
	}

	return distuv.UnitNormal.Survival((y - mu) / sigma)
}
