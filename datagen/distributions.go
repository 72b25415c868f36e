package datagen

import (
	"math"
	"math/rand"
)

// sampleGamma draws from Gamma(shape, 1) using the Marsaglia-Tsang squeeze
// method. Shapes below 1 are boosted via Gamma(a) = Gamma(a+1) * U^(1/a).
func sampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(rng, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// sampleBeta draws from Beta(alpha, beta) as a ratio of gamma variates, so the
// result lies in [0, 1] by construction with no post-hoc clamping.
func sampleBeta(rng *rand.Rand, alpha, beta float64) float64 {
	ga := sampleGamma(rng, alpha)
	gb := sampleGamma(rng, beta)
	if ga+gb == 0 {
		return 0.5
	}
	return ga / (ga + gb)
}

// samplePoisson draws a Poisson-distributed count. Knuth's product-of-uniforms
// method is exact but exp(-mean) underflows for large means, so those fall
// back to a clamped normal approximation.
func samplePoisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		n := int(math.Round(rng.NormFloat64()*math.Sqrt(mean) + mean))
		if n < 0 {
			n = 0
		}
		return n
	}

	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// boundedNoise draws symmetric gaussian noise scaled by amplitude and clamped
// to +/- 3 amplitudes. Amplitude 0 yields exactly 0 without consuming the
// random stream.
func boundedNoise(rng *rand.Rand, amplitude float64) float64 {
	if amplitude == 0 {
		return 0
	}
	n := rng.NormFloat64() * amplitude
	limit := 3 * amplitude
	if n > limit {
		return limit
	}
	if n < -limit {
		return -limit
	}
	return n
}
