package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when a sample has fewer than 2 observations.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrZeroVariance is returned when both samples are constant and t is undefined.
	ErrZeroVariance = errors.New("zero variance in both samples")
)

// WelchResult holds the output of a two-sided Welch t-test.
type WelchResult struct {
	MeanA  float64
	MeanB  float64
	VarA   float64
	VarB   float64
	NA     int
	NB     int
	TStat  float64
	DF     float64
	PValue float64
}

// WelchTTest compares the means of a and b without assuming equal variances.
// Variances are unbiased (n-1); the p-value is two-tailed against Student's t
// with Welch-Satterthwaite degrees of freedom.
func WelchTTest(a, b []float64) (WelchResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return WelchResult{}, fmt.Errorf("%w: need at least 2 observations per group, got %d and %d",
			ErrInsufficientData, len(a), len(b))
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	seA := varA / na
	seB := varB / nb
	se2 := seA + seB
	if se2 == 0 {
		return WelchResult{}, ErrZeroVariance
	}

	t := (meanA - meanB) / math.Sqrt(se2)
	df := se2 * se2 / (seA*seA/(na-1) + seB*seB/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}

	return WelchResult{
		MeanA:  meanA,
		MeanB:  meanB,
		VarA:   varA,
		VarB:   varB,
		NA:     len(a),
		NB:     len(b),
		TStat:  t,
		DF:     df,
		PValue: p,
	}, nil
}
