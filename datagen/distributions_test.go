package datagen

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleBeta_SupportAndMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := sampleBeta(rng, 2, 8)
		if v < 0 || v > 1 {
			t.Fatalf("beta sample %v outside [0, 1]", v)
		}
		sum += v
	}

	// Beta(2, 8) has mean 0.2
	assert.InDelta(t, 0.2, sum/n, 0.01)
}

func TestSampleBeta_ShapeBelowOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		v := sampleBeta(rng, 0.5, 0.5)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestSampleGamma_Positive(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, shape := range []float64{0.3, 1, 2.5, 9} {
		for i := 0; i < 1000; i++ {
			assert.Greater(t, sampleGamma(rng, shape), 0.0, "shape %v", shape)
		}
	}
}

func TestSamplePoisson_Mean(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	t.Run("knuth path", func(t *testing.T) {
		const n = 20000
		sum := 0
		for i := 0; i < n; i++ {
			sum += samplePoisson(rng, 10)
		}
		assert.InDelta(t, 10, float64(sum)/n, 0.2)
	})

	t.Run("normal approximation path", func(t *testing.T) {
		const n = 20000
		sum := 0
		for i := 0; i < n; i++ {
			v := samplePoisson(rng, 8000)
			assert.GreaterOrEqual(t, v, 0)
			sum += v
		}
		assert.InDelta(t, 8000, float64(sum)/n, 10)
	})

	t.Run("non-positive mean", func(t *testing.T) {
		assert.Equal(t, 0, samplePoisson(rng, 0))
		assert.Equal(t, 0, samplePoisson(rng, -1))
	})
}

func TestBoundedNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	t.Run("zero amplitude is exactly zero", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			assert.Zero(t, boundedNoise(rng, 0))
		}
	})

	t.Run("bounded at three amplitudes", func(t *testing.T) {
		for i := 0; i < 20000; i++ {
			n := boundedNoise(rng, 2)
			assert.LessOrEqual(t, math.Abs(n), 6.0)
		}
	})
}
