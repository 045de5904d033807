package formula

import (
	"math"
	"sort"
)

// #region registries

// scalarFuncs take already-evaluated float arguments.
// Registry lookup is case-insensitive (Excel-style ABS/abs/Abs all work).
var scalarFuncs = map[string]struct {
	minArgs int
	maxArgs int // -1 = unbounded
	call    func(args []float64) float64
}{
	"abs":     {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"min":     {1, -1, minOf},
	"max":     {1, -1, maxOf},
	"round":   {1, 2, roundFn},
	"average": {0, -1, average},
}

// twoListFuncs take two bracketed list-literal arguments: (known_ys, known_xs).
var twoListFuncs = map[string]func(ys, xs []float64) float64{
	"linest":    linest,
	"intercept": intercept,
	"rsq":       rsq,
	"correl":    correl,
}

// oneListFuncs take a single bracketed list-literal argument.
var oneListFuncs = map[string]func(vals []float64) float64{
	"stdev":  stdev,
	"stdevp": stdevp,
	"median": median,
}

// isFunctionName reports whether name (lowercased) is any registered
// function, including PLOT which shares the grammar but is consumed by the
// chart renderer.
func isFunctionName(lower string) bool {
	if lower == "plot" {
		return true
	}
	if _, ok := scalarFuncs[lower]; ok {
		return true
	}
	if _, ok := twoListFuncs[lower]; ok {
		return true
	}
	_, ok := oneListFuncs[lower]
	return ok
}

// #endregion registries

// #region scalar-impls

func minOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// roundFn rounds half-to-even like the source system; the optional second
// argument is the number of decimal places.
func roundFn(args []float64) float64 {
	if len(args) == 1 {
		return math.RoundToEven(args[0])
	}
	shift := math.Pow(10, math.Trunc(args[1]))
	return math.RoundToEven(args[0]*shift) / shift
}

func average(args []float64) float64 {
	if len(args) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range args {
		sum += v
	}
	return sum / float64(len(args))
}

// #endregion scalar-impls

// #region regression

// linest returns the slope of the least-squares line through (xs, ys).
// Mismatched or empty lists, or zero variance in x, give 0.0.
func linest(ys, xs []float64) float64 {
	if len(ys) == 0 || len(xs) == 0 || len(ys) != len(xs) {
		return 0.0
	}
	n := float64(len(ys))
	var sumX, sumY, sumXX, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0.0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// intercept returns b of the least-squares line y = mx + b.
func intercept(ys, xs []float64) float64 {
	if len(ys) == 0 || len(xs) == 0 || len(ys) != len(xs) {
		return 0.0
	}
	n := float64(len(ys))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	return sumY/n - linest(ys, xs)*(sumX/n)
}

// rsq returns the coefficient of determination for the regression.
// Zero total variance in y gives 1.0 (a flat series fits itself exactly).
func rsq(ys, xs []float64) float64 {
	if len(ys) == 0 || len(xs) == 0 || len(ys) != len(xs) {
		return 0.0
	}
	n := float64(len(ys))
	var sumY float64
	for _, y := range ys {
		sumY += y
	}
	meanY := sumY / n
	slope := linest(ys, xs)
	b := intercept(ys, xs)
	var ssTot, ssRes float64
	for i := range ys {
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
		fit := slope*xs[i] + b
		ssRes += (ys[i] - fit) * (ys[i] - fit)
	}
	if ssTot == 0 {
		return 1.0
	}
	return 1.0 - ssRes/ssTot
}

// correl returns the Pearson correlation coefficient.
func correl(ys, xs []float64) float64 {
	if len(ys) == 0 || len(xs) == 0 || len(ys) != len(xs) {
		return 0.0
	}
	n := float64(len(ys))
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
		sumXY += xs[i] * ys[i]
	}
	denom := (n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY)
	if denom <= 0 {
		return 0.0
	}
	return (n*sumXY - sumX*sumY) / math.Sqrt(denom)
}

// #endregion regression

// #region dispersion

// stdev is the sample standard deviation (n-1 denominator); fewer than two
// values gives 0.0.
func stdev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0.0
	}
	n := float64(len(vals))
	mean := average(vals)
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / (n - 1))
}

// stdevp is the population standard deviation (n denominator).
func stdevp(vals []float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}
	n := float64(len(vals))
	mean := average(vals)
	var variance float64
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / n)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// #endregion dispersion
