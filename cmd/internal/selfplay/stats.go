package selfplay

import (
	"math"
	"math/big"
)

func binomprob(k, n int64, p float64) float64 {
	c := big.NewInt(0).Binomial(n, k)
	f := big.NewFloat(0).SetInt(c)
	f = f.Mul(f, big.NewFloat(math.Pow(p, float64(k))))
	f = f.Mul(f, big.NewFloat(math.Pow(1-p, float64(n-k))))
	out, _ := f.Float64()
	return out
}

// binomTest is the one-sided probability of seeing at least succ wins
// in succ+fail decisive games under win probability p.
func binomTest(succ, fail int64, p float64) float64 {
	var r float64
	for t := succ; t <= fail+succ; t++ {
		r += binomprob(t, succ+fail, p)
	}
	return r
}
