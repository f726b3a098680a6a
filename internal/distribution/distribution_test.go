package distribution

import (
	"math"
	"testing"

	"goqmra/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDist(t *testing.T, d Distribution, err error) Distribution {
	t.Helper()
	require.NoError(t, err)
	return d
}

func TestTruncatedDistributionsStayInBounds(t *testing.T) {
	tn, err := NewTruncatedNormal(44.9, 20.93, 1, 100)
	baf := mustDist(t, tn, err)
	ln, err := NewLognormalFromMoments(53, 75, 5, 200)
	ingestion := mustDist(t, ln, err)
	ll, err := NewTruncatedLogLogistic(2.2046, 75.072, -0.9032, 5, 800, true)
	meal := mustDist(t, ll, err)
	tri, err := NewTriangular(0.2, 1.0, 4.0)
	duration := mustDist(t, tri, err)
	hs, err := NewHockeyStick(1, 10, 1000, 0)
	conc := mustDist(t, hs, err)
	tail, err := NewTruncatedNormal(0, 1, 5, 6)
	upperTail := mustDist(t, tail, err)

	tests := []struct {
		name         string
		dist         Distribution
		lower, upper float64
	}{
		{"bioaccumulation factor", baf, 1, 100},
		{"ingestion rate", ingestion, 5, 200},
		{"meal size", meal, 5, 800},
		{"swim duration", duration, 0.2, 4.0},
		{"hockey stick", conc, 1, 1000},
		{"upper tail normal", upperTail, 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := SampleSeeded(tt.dist, 20000, 7)
			require.Len(t, samples, 20000)
			for _, v := range samples {
				require.False(t, math.IsNaN(v))
				require.GreaterOrEqual(t, v, tt.lower)
				require.LessOrEqual(t, v, tt.upper)
			}
			lo, hi := tt.dist.Bounds()
			assert.Equal(t, tt.lower, lo)
			assert.Equal(t, tt.upper, hi)
		})
	}
}

func TestZeroSDReturnsConstant(t *testing.T) {
	d, err := NewTruncatedNormal(3, 0, 0, 10)
	require.NoError(t, err)
	for _, v := range SampleSeeded(d, 50, 1) {
		assert.Equal(t, 3.0, v)
	}

	ln, err := NewLognormal(math.Log(4), 0, 0, math.Inf(1))
	require.NoError(t, err)
	for _, v := range SampleSeeded(ln, 10, 1) {
		assert.InDelta(t, 4.0, v, 1e-12)
	}
}

func TestInvalidParametersAreConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"uniform min >= max", func() error { _, err := NewUniform(5, 5); return err }()},
		{"normal negative sd", func() error { _, err := NewTruncatedNormal(0, -1, 0, 1); return err }()},
		{"normal inverted bounds", func() error { _, err := NewTruncatedNormal(0, 1, 2, 1); return err }()},
		{"triangular mode outside", func() error { _, err := NewTriangular(0, 5, 4); return err }()},
		{"lognormal non-positive mean", func() error { _, err := NewLognormalFromMoments(0, 1, 0, 10); return err }()},
		{"log-logistic zero alpha", func() error { _, err := NewTruncatedLogLogistic(0, 1, 0, 1, 2, false); return err }()},
		{"log-logistic no mass", func() error { _, err := NewTruncatedLogLogistic(2.2046, 75.072, -0.9032, 5, 800, false); return err }()},
		{"hockey stick median outside", func() error { _, err := NewHockeyStick(1, 0.5, 10, 0); return err }()},
		{"empirical single knot", func() error { _, err := NewEmpiricalCDF([]Point{{1, 0}}); return err }()},
		{"empirical not ending at 1", func() error { _, err := NewEmpiricalCDF([]Point{{1, 0}, {2, 0.9}}); return err }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, core.IsConfigurationError(tt.err), "got %v", tt.err)
		})
	}
}

func TestLognormalMethodOfMoments(t *testing.T) {
	mu, sigma := LognormalParameters(53, 75)
	wantVar := math.Log(1 + (75.0*75.0)/(53.0*53.0))
	assert.InDelta(t, math.Sqrt(wantVar), sigma, 1e-12)
	assert.InDelta(t, math.Log(53)-wantVar/2, mu, 1e-12)

	d, err := NewLognormalFromMoments(53, 75, 0, math.Inf(1))
	require.NoError(t, err)
	samples := SampleSeeded(d, 200000, 11)
	var sum float64
	for _, v := range samples {
		sum += v
	}
	assert.InDelta(t, 53, sum/float64(len(samples)), 2.0)
}

func TestEmpiricalQuantileInterpolates(t *testing.T) {
	e, err := NewEmpiricalCDF([]Point{{0, 0}, {10, 0.5}, {100, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 5, e.Quantile(0.25), 1e-12)
	assert.InDelta(t, 55, e.Quantile(0.75), 1e-12)
	assert.Equal(t, 0.0, e.Quantile(0))
	assert.Equal(t, 100.0, e.Quantile(1))
}

func TestHockeyStickMedian(t *testing.T) {
	d, err := NewHockeyStick(1, 10, 1000, 200)
	require.NoError(t, err)
	assert.Equal(t, KindHockeyStick, d.Kind())

	samples := SampleSeeded(d, 40000, 3)
	below := 0
	for _, v := range samples {
		if v <= 10 {
			below++
		}
	}
	assert.InDelta(t, 0.5, float64(below)/float64(len(samples)), 0.01)
	assert.InDelta(t, 200, d.Quantile(0.95), 1e-9)
}

func TestEmpiricalFromData(t *testing.T) {
	d, err := NewEmpiricalFromData([]float64{4, 1, 3, 2, 5})
	require.NoError(t, err)
	lo, hi := d.Bounds()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 5.0, hi)
	assert.InDelta(t, 3, d.Quantile(0.5), 1e-12)
}

func TestSampleMatchesSequentialDraws(t *testing.T) {
	d, err := NewTriangular(0.2, 1, 4)
	require.NoError(t, err)

	batch := Sample(d, 100, NewRand(99))
	rng := NewRand(99)
	for i := 0; i < 100; i++ {
		assert.Equal(t, batch[i], d.Rand(rng))
	}
	assert.Empty(t, Sample(d, 0, rng))
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"Lognormal":        KindLognormal,
		"truncated-normal": KindTruncatedNormal,
		"Log Logistic":     KindTruncatedLogLogistic,
		"hockey-stick":     KindHockeyStick,
		" empirical ":      KindEmpiricalCDF,
		"fixed":            KindConstant,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("weibull")
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "hockey_stick")
}

func TestFromSpec(t *testing.T) {
	d, err := FromSpec(Spec{Kind: "triangular", Min: Float(0.2), Mode: 1, Max: Float(4)})
	require.NoError(t, err)
	assert.Equal(t, KindTriangular, d.Kind())

	d, err = FromSpec(Spec{Kind: "lognormal", Mean: 53, SD: 75, Min: Float(5), Max: Float(200)})
	require.NoError(t, err)
	lo, hi := d.Bounds()
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 200.0, hi)

	_, err = FromSpec(Spec{Kind: "uniform", Min: Float(1)})
	assert.True(t, core.IsConfigurationError(err))

	samples, err := SampleSpec(Spec{Kind: "constant", Value: 2.5}, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, samples)
}
