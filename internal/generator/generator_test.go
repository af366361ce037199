package generator

import (
	"math"
	"testing"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/testutil"
)

func acceptanceModel(seed int64) *config.ModelConfig {
	return &config.ModelConfig{
		Project: "acceptance-study",
		Constructs: []config.ConstructConfig{
			{Name: "PE", Items: 4, LatentSD: 1, Distribution: config.DistNormal, LoadingMean: 0.78, LoadingMin: 0.65, LoadingMax: 0.88},
			{Name: "EE", Items: 4, LatentSD: 1, Distribution: config.DistSkewed, Skew: -0.4, LoadingMean: 0.75, LoadingMin: 0.6, LoadingMax: 0.9},
			{Name: "BI", Items: 3, LatentSD: 1, Distribution: config.DistNormal, LoadingMean: 0.8, LoadingMin: 0.7, LoadingMax: 0.9, ReverseItems: 1},
		},
		Sample:       config.SampleConfig{Respondents: 500, LikertMin: 1, LikertMax: 5, Seed: seed},
		Demographics: config.DemographicConfig{Enabled: true},
		Structural: config.StructuralConfig{
			Paths: []config.PathConfig{
				{Source: "PE", Target: "BI", Beta: 0.45},
				{Source: "EE", Target: "BI", Beta: 0.30},
			},
			R2Targets: map[string]float64{"BI": 0.55},
		},
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	result, err := New(testutil.NewTestLogger(t)).Generate(acceptanceModel(123))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if result.Items.NumRows() != 500 || result.Items.NumCols() != 11 {
		t.Fatalf("items: got %dx%d, want 500x11", result.Items.NumRows(), result.Items.NumCols())
	}
	if result.Full.NumRows() != 500 || result.Full.NumCols() != 15 {
		t.Fatalf("full: got %dx%d, want 500x15", result.Full.NumRows(), result.Full.NumCols())
	}

	// Demographics lead, indicators follow.
	names := result.Full.Names()
	for i, want := range DemographicColumns {
		if names[i] != want {
			t.Errorf("full column %d = %q, want %q", i, names[i], want)
		}
	}
	if names[len(DemographicColumns)] != "PE_01" {
		t.Errorf("first indicator column = %q, want PE_01", names[len(DemographicColumns)])
	}

	// Latent columns never leak into the output.
	for _, latent := range []string{"PE", "EE", "BI"} {
		if _, ok := result.Full.Column(latent); ok {
			t.Errorf("latent column %q leaked into the output", latent)
		}
	}

	// Every item cell is an integer on the scale.
	for _, name := range result.Items.Names() {
		col, _ := result.Items.Numeric(name)
		for i, v := range col {
			if v < 1 || v > 5 || v != math.Trunc(v) {
				t.Fatalf("%s[%d] = %v, want integer in [1, 5]", name, i, v)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := New(nil).Generate(acceptanceModel(123))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(nil).Generate(acceptanceModel(123))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Full.Equal(b.Full) {
		t.Error("same seed should reproduce the full frame bit for bit")
	}

	c, err := New(nil).Generate(acceptanceModel(124))
	if err != nil {
		t.Fatal(err)
	}
	if a.Full.Equal(c.Full) {
		t.Error("different seeds should differ")
	}
}

func TestGenerateWithoutDemographics(t *testing.T) {
	m := acceptanceModel(1)
	m.Demographics.Enabled = false

	result, err := New(nil).Generate(m)
	if err != nil {
		t.Fatal(err)
	}
	if result.Full.NumCols() != 11 {
		t.Errorf("full has %d columns, want 11 without demographics", result.Full.NumCols())
	}
	if !result.Full.Equal(result.Items) {
		t.Error("without demographics, full and items should match")
	}
}

func TestGenerateRejectsInvalidModel(t *testing.T) {
	m := acceptanceModel(1)
	m.Constructs = nil
	if _, err := New(nil).Generate(m); err == nil {
		t.Error("expected validation error")
	}
}

func TestDemographicsCategoriesAndDeterminism(t *testing.T) {
	m := acceptanceModel(55)
	a, err := generateDemographics(m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateDemographics(m)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("demographics should be reproducible from the seed")
	}

	for _, name := range DemographicColumns {
		col, ok := a.Column(name)
		if !ok {
			t.Fatalf("missing demographic column %q", name)
		}
		labels := demographicCategories[name].labels
		valid := make(map[string]bool, len(labels))
		for _, l := range labels {
			valid[l] = true
		}
		for i, v := range col.Labels {
			if !valid[v] {
				t.Fatalf("%s[%d] = %q is not a declared category", name, i, v)
			}
		}
	}
}

func TestDemographicsDisabledIsEmpty(t *testing.T) {
	m := acceptanceModel(1)
	m.Demographics.Enabled = false
	f, err := generateDemographics(m)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumCols() != 0 {
		t.Errorf("disabled demographics produced %d columns", f.NumCols())
	}
}
