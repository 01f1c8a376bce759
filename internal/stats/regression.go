package stats

import "math"

// Regression holds an ordinary least-squares fit of y against a 0..n-1
// index.
type Regression struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	PValue    float64
	N         int
}

// LinearRegression fits y = intercept + slope*i by closed-form OLS over the
// index i = 0..len(y)-1. Returns nil when fewer than two points exist.
func LinearRegression(y []float64) *Regression {
	n := len(y)
	if n < 2 {
		return nil
	}

	// x is the synthetic time index, so its sums have closed forms.
	nf := float64(n)
	sumX := nf * (nf - 1) / 2
	sumXX := nf * (nf - 1) * (2*nf - 1) / 6
	sumY := 0.0
	sumXY := 0.0
	for i, v := range y {
		sumY += v
		sumXY += float64(i) * v
	}

	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return nil
	}
	slope := (nf*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / nf

	meanY := sumY / nf
	ssTot := 0.0
	ssRes := 0.0
	for i, v := range y {
		fit := intercept + slope*float64(i)
		ssRes += (v - fit) * (v - fit)
		ssTot += (v - meanY) * (v - meanY)
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return &Regression{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		PValue:    slopePValue(slope, ssRes, sumXX-sumX*sumX/nf, n),
		N:         n,
	}
}

// slopePValue computes the two-sided p-value of the slope under the null
// hypothesis slope=0, via a t-test with n-2 degrees of freedom.
func slopePValue(slope, ssRes, sxx float64, n int) float64 {
	df := float64(n - 2)
	if df <= 0 || sxx <= 0 {
		return 1
	}
	residVar := ssRes / df
	if residVar <= 0 {
		// Perfect fit: the slope is either exactly zero or exactly right.
		if slope == 0 {
			return 1
		}
		return 0
	}
	se := math.Sqrt(residVar / sxx)
	t := math.Abs(slope / se)
	return studentTTwoSided(t, df)
}

// studentTTwoSided returns P(|T| > t) for a Student's t distribution with
// df degrees of freedom, via the regularized incomplete beta function.
func studentTTwoSided(t, df float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}
	x := df / (df + t*t)
	return regularizedIncompleteBeta(df/2, 0.5, x)
}

// regularizedIncompleteBeta evaluates I_x(a, b) by continued fraction.
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lbeta, _ := math.Lgamma(a + b)
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	front := math.Exp(lbeta - la - lb + a*math.Log(x) + b*math.Log(1-x))

	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction is the Lentz-method continued fraction for the
// incomplete beta function.
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-30
	)

	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		mf := float64(m)
		m2 := 2 * mf

		aa := mf * (b - mf) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + mf) * (qab + mf) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < epsilon {
			break
		}
	}

	return h
}
