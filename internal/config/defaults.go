package config

// Defaults applied before validation. Zero-valued fields in the loaded file
// pick these up; explicit values win.
const (
	DefaultRespondents = 500
	DefaultLikertMin   = 1
	DefaultLikertMax   = 5
	DefaultSeed        = 123

	DefaultLatentSD    = 1.0
	DefaultKurtosis    = 3.0
	DefaultLoadingMean = 0.75
	DefaultLoadingMin  = 0.60
	DefaultLoadingMax  = 0.90
)

// ApplyDefaults fills unset fields with defaults. Likert bounds are only
// defaulted when both are unset, so an explicit 0-based scale is preserved.
func (m *ModelConfig) ApplyDefaults() {
	if m.Sample.Respondents == 0 {
		m.Sample.Respondents = DefaultRespondents
	}
	if m.Sample.LikertMin == 0 && m.Sample.LikertMax == 0 {
		m.Sample.LikertMin = DefaultLikertMin
		m.Sample.LikertMax = DefaultLikertMax
	}
	if m.Sample.Seed == 0 {
		m.Sample.Seed = DefaultSeed
	}
	for i := range m.Constructs {
		c := &m.Constructs[i]
		if c.Distribution == "" {
			c.Distribution = DistNormal
		}
		if c.LatentSD == 0 {
			c.LatentSD = DefaultLatentSD
		}
		if c.Kurtosis == 0 {
			c.Kurtosis = DefaultKurtosis
		}
		if c.LoadingMean == 0 {
			c.LoadingMean = DefaultLoadingMean
		}
		// A defaulted bound never fights an explicit mean; explicit bounds
		// are left alone for Validate to check.
		if c.LoadingMin == 0 {
			c.LoadingMin = DefaultLoadingMin
			if c.LoadingMin > c.LoadingMean {
				c.LoadingMin = c.LoadingMean
			}
		}
		if c.LoadingMax == 0 {
			c.LoadingMax = DefaultLoadingMax
			if c.LoadingMax < c.LoadingMean {
				c.LoadingMax = c.LoadingMean
			}
		}
	}
}
