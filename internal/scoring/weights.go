package scoring

import "github.com/wayneh/stocklens/internal/contracts"

// Default nominal category weights.
// 技術面 50% / 籌碼面 30% / 基本面 20%
const (
	defaultTechnicalWeight   = 0.50
	defaultChipWeight        = 0.30
	defaultFundamentalWeight = 0.20
)

// WeightConfig holds nominal per-category weights. The nominal values
// need not sum to 1; Normalized rescales over the categories actually
// present. The config is read-only after construction, so a shared
// instance is safe under concurrent analyses.
type WeightConfig struct {
	weights map[contracts.Category]float64
}

// DefaultWeights returns the standard weight configuration.
func DefaultWeights() *WeightConfig {
	return NewWeightConfig(map[contracts.Category]float64{
		contracts.CategoryTechnical:   defaultTechnicalWeight,
		contracts.CategoryChip:        defaultChipWeight,
		contracts.CategoryFundamental: defaultFundamentalWeight,
	})
}

// NewWeightConfig builds a config from a nominal weight map.
// The map is copied so later caller edits cannot leak in.
func NewWeightConfig(weights map[contracts.Category]float64) *WeightConfig {
	w := make(map[contracts.Category]float64, len(weights))
	for cat, v := range weights {
		w[cat] = v
	}
	return &WeightConfig{weights: w}
}

// Weight returns the nominal weight for a category. The second return
// distinguishes "not weighted" from an explicit zero weight.
func (c *WeightConfig) Weight(cat contracts.Category) (float64, bool) {
	v, ok := c.weights[cat]
	return v, ok
}

// Merged returns a new config with overrides applied on top of this one
// (overrides win). The receiver is never mutated, so per-call overrides
// cannot corrupt the shared default config.
func (c *WeightConfig) Merged(overrides map[contracts.Category]float64) *WeightConfig {
	merged := make(map[contracts.Category]float64, len(c.weights))
	for cat, v := range c.weights {
		merged[cat] = v
	}
	for cat, v := range overrides {
		merged[cat] = v
	}
	return &WeightConfig{weights: merged}
}

// Normalized rescales the nominal weights over the given categories so
// the returned values sum to 1. Categories absent from the nominal map
// are dropped rather than defaulting to zero. If every present category
// has zero nominal weight, the filtered map is returned as-is; callers
// get an all-zero map instead of a division error. Pure function.
func (c *WeightConfig) Normalized(available []contracts.Category) map[contracts.Category]float64 {
	filtered := make(map[contracts.Category]float64, len(available))
	total := 0.0
	for _, cat := range available {
		if v, ok := c.weights[cat]; ok {
			filtered[cat] = v
			total += v
		}
	}

	if total == 0 {
		return filtered
	}

	normalized := make(map[contracts.Category]float64, len(filtered))
	for cat, v := range filtered {
		normalized[cat] = v / total
	}
	return normalized
}
