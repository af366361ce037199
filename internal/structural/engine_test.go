package structural

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/rng"
	"github.com/latentlab/semgen/internal/testutil"
)

func newTestRand() *rand.Rand { return rng.New(12345) }

func testModel(n int, seed int64) *config.ModelConfig {
	m := &config.ModelConfig{
		Project: "test",
		Constructs: []config.ConstructConfig{
			{Name: "PE", Items: 4, LatentSD: 1, Distribution: config.DistNormal, LoadingMean: 0.75, LoadingMin: 0.6, LoadingMax: 0.9},
			{Name: "EE", Items: 3, LatentSD: 1, Distribution: config.DistNormal, LoadingMean: 0.75, LoadingMin: 0.6, LoadingMax: 0.9},
			{Name: "BI", Items: 3, LatentSD: 1, Distribution: config.DistNormal, LoadingMean: 0.8, LoadingMin: 0.7, LoadingMax: 0.9},
		},
		Sample: config.SampleConfig{Respondents: n, LikertMin: 1, LikertMax: 5, Seed: seed},
		Structural: config.StructuralConfig{
			Paths: []config.PathConfig{
				{Source: "PE", Target: "BI", Beta: 0.45},
				{Source: "EE", Target: "BI", Beta: 0.30},
			},
		},
	}
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

func TestSimulateShapeAndOrder(t *testing.T) {
	m := testModel(200, 42)
	f, err := New(testutil.NewTestLogger(t)).Simulate(m)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if f.NumRows() != 200 || f.NumCols() != 3 {
		t.Fatalf("got %dx%d, want 200x3", f.NumRows(), f.NumCols())
	}
	names := f.Names()
	// Columns come out in declaration order, not topological order.
	want := []string{"PE", "EE", "BI"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSimulateDeterministic(t *testing.T) {
	a, err := New(nil).Simulate(testModel(300, 7))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	b, err := New(nil).Simulate(testModel(300, 7))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !a.Equal(b) {
		t.Error("same seed should reproduce identical latents")
	}

	c, err := New(nil).Simulate(testModel(300, 8))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if a.Equal(c) {
		t.Error("different seeds should differ")
	}
}

func TestSimulateHitsExplicitR2(t *testing.T) {
	m := testModel(2000, 11)
	m.Structural.Paths = []config.PathConfig{{Source: "PE", Target: "BI", Beta: 0.7}}
	m.Structural.R2Targets = map[string]float64{"BI": 0.60}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	f, err := New(testutil.NewTestLogger(t)).Simulate(m)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	pe, _ := f.Numeric("PE")
	bi, _ := f.Numeric("BI")
	r := stat.Correlation(pe, bi, nil)
	r2 := r * r
	if math.Abs(r2-0.60) > 0.03 {
		t.Errorf("realized R² = %.4f, want 0.60 ± 0.03", r2)
	}
}

func TestSimulateHeuristicR2(t *testing.T) {
	// sum(beta²) = 0.45² + 0.30² = 0.2925 -> heuristic 0.2925/1.2925 ≈ 0.226.
	m := testModel(4000, 5)
	f, err := New(nil).Simulate(m)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	pe, _ := f.Numeric("PE")
	ee, _ := f.Numeric("EE")
	bi, _ := f.Numeric("BI")

	// Regression R² for two near-orthogonal standardized predictors is close
	// to the sum of squared simple correlations.
	r2 := math.Pow(stat.Correlation(pe, bi, nil), 2) + math.Pow(stat.Correlation(ee, bi, nil), 2)
	want := 0.2925 / 1.2925
	if math.Abs(r2-want) > 0.05 {
		t.Errorf("realized R² = %.4f, want about %.4f", r2, want)
	}
}

func TestSimulateCycleFails(t *testing.T) {
	m := testModel(100, 1)
	m.Structural.Paths = []config.PathConfig{
		{Source: "PE", Target: "EE", Beta: 0.4},
		{Source: "EE", Target: "BI", Beta: 0.4},
		{Source: "BI", Target: "PE", Beta: 0.4},
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	_, err := New(nil).Simulate(m)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.Is(err, ErrCycle) {
		t.Errorf("error should wrap ErrCycle, got %v", err)
	}
}

func TestSimulateUnreferencedConstructIsExogenous(t *testing.T) {
	m := testModel(1500, 3)
	// EE has no incident paths at all.
	m.Structural.Paths = []config.PathConfig{{Source: "PE", Target: "BI", Beta: 0.5}}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	f, err := New(nil).Simulate(m)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	ee, ok := f.Numeric("EE")
	if !ok {
		t.Fatal("unreferenced construct should still be generated")
	}
	bi, _ := f.Numeric("BI")
	if r := stat.Correlation(ee, bi, nil); math.Abs(r) > 0.10 {
		t.Errorf("isolated construct correlates with BI at %.3f, want near zero", r)
	}
}

func TestSimulateNoPaths(t *testing.T) {
	m := testModel(500, 9)
	m.Structural.Paths = nil
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	f, err := New(nil).Simulate(m)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if f.NumCols() != 3 {
		t.Errorf("all constructs should be generated, got %d columns", f.NumCols())
	}
}

func TestSampleExogenousMoments(t *testing.T) {
	n := 20000
	tests := []struct {
		name string
		c    config.ConstructConfig
	}{
		{"normal", config.ConstructConfig{Distribution: config.DistNormal, LatentMean: 2, LatentSD: 0.5}},
		{"uniform", config.ConstructConfig{Distribution: config.DistUniform, LatentMean: 2, LatentSD: 0.5}},
		{"skewed", config.ConstructConfig{Distribution: config.DistSkewed, Skew: 0.8, LatentMean: 2, LatentSD: 0.5}},
		{"beta", config.ConstructConfig{Distribution: config.DistBeta, LatentMean: 2, LatentSD: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := sampleExogenous(&tt.c, n, newTestRand())
			mean, sd := stat.MeanStdDev(v, nil)
			if math.Abs(mean-2) > 0.05 {
				t.Errorf("mean = %.4f, want 2 ± 0.05", mean)
			}
			if math.Abs(sd-0.5) > 0.05 {
				t.Errorf("sd = %.4f, want 0.5 ± 0.05", sd)
			}
		})
	}
}

func TestSampleExogenousSkewDirection(t *testing.T) {
	c := &config.ConstructConfig{Distribution: config.DistSkewed, Skew: 1.2, LatentSD: 1}
	v := sampleExogenous(c, 20000, newTestRand())
	if s := skewness(v); s <= 0.2 {
		t.Errorf("positive skew parameter gave sample skewness %.3f", s)
	}

	c.Skew = -1.2
	v = sampleExogenous(c, 20000, newTestRand())
	if s := skewness(v); s >= -0.2 {
		t.Errorf("negative skew parameter gave sample skewness %.3f", s)
	}
}

func TestStandardizeConstantColumn(t *testing.T) {
	v := []float64{3, 3, 3, 3}
	standardize(v)
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("constant column standardized to %v", v)
		}
	}
}

func skewness(v []float64) float64 {
	mean, sd := stat.MeanStdDev(v, nil)
	var sum float64
	for _, x := range v {
		d := (x - mean) / sd
		sum += d * d * d
	}
	return sum / float64(len(v))
}
