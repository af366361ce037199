package generator

import (
	"golang.org/x/exp/rand"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/rng"
)

// DemographicColumns lists the categorical columns prepended to the full
// dataset when demographics are enabled, in output order.
var DemographicColumns = []string{"gender", "age_group", "income_band", "study_level"}

type category struct {
	labels []string
	probs  []float64
}

var demographicCategories = map[string]category{
	"gender": {
		labels: []string{"Male", "Female", "Other"},
		probs:  []float64{0.55, 0.43, 0.02},
	},
	"age_group": {
		labels: []string{"18-20", "21-23", "24-26", "27+"},
		probs:  []float64{0.35, 0.40, 0.20, 0.05},
	},
	"income_band": {
		labels: []string{"<15k", "15-30k", "30-50k", ">50k"},
		probs:  []float64{0.40, 0.30, 0.20, 0.10},
	},
	"study_level": {
		labels: []string{"1st year", "2nd year", "3rd year", "4th year", "Postgrad"},
		probs:  []float64{0.20, 0.25, 0.25, 0.20, 0.10},
	},
}

// generateDemographics samples the categorical demographic columns from their
// own seed-derived substream, so toggling demographics never perturbs the
// structural or measurement draws.
func generateDemographics(model *config.ModelConfig) (*dataset.Frame, error) {
	n := model.Sample.Respondents
	out := dataset.New(n)
	if !model.Demographics.Enabled {
		return out, nil
	}

	rn := rng.Substream(model.Sample.Seed, rng.DemographicsOffset)
	for _, name := range DemographicColumns {
		cat := demographicCategories[name]
		col := make([]string, n)
		for i := range col {
			col[i] = cat.labels[weightedIndex(cat.probs, rn)]
		}
		if err := out.AddCategorical(name, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// weightedIndex draws an index from a discrete distribution by inverse CDF.
func weightedIndex(probs []float64, rn *rand.Rand) int {
	u := rn.Float64()
	cum := 0.0
	for i, p := range probs {
		cum += p
		if u < cum {
			return i
		}
	}
	return len(probs) - 1
}
