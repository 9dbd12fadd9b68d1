package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayneh/stocklens/internal/contracts"
)

func TestWeightConfig_Normalized(t *testing.T) {
	cfg := DefaultWeights()

	t.Run("all categories sum to 1", func(t *testing.T) {
		normalized := cfg.Normalized(contracts.AllCategories)

		sum := 0.0
		for _, v := range normalized {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.InDelta(t, 0.50, normalized[contracts.CategoryTechnical], 1e-9)
		assert.InDelta(t, 0.30, normalized[contracts.CategoryChip], 1e-9)
		assert.InDelta(t, 0.20, normalized[contracts.CategoryFundamental], 1e-9)
	})

	t.Run("subset rescales to 1", func(t *testing.T) {
		normalized := cfg.Normalized([]contracts.Category{
			contracts.CategoryTechnical, contracts.CategoryChip,
		})

		// 0.50 and 0.30 rescaled over 0.80.
		assert.InDelta(t, 0.625, normalized[contracts.CategoryTechnical], 1e-9)
		assert.InDelta(t, 0.375, normalized[contracts.CategoryChip], 1e-9)
		assert.Len(t, normalized, 2)
	})

	t.Run("single category gets full weight", func(t *testing.T) {
		normalized := cfg.Normalized([]contracts.Category{contracts.CategoryFundamental})
		assert.InDelta(t, 1.0, normalized[contracts.CategoryFundamental], 1e-9)
	})

	t.Run("empty input yields empty map", func(t *testing.T) {
		normalized := cfg.Normalized(nil)
		assert.Empty(t, normalized)
	})

	t.Run("unknown category is dropped, not zeroed", func(t *testing.T) {
		normalized := cfg.Normalized([]contracts.Category{
			contracts.CategoryTechnical, contracts.Category("sentiment"),
		})
		assert.Len(t, normalized, 1)
		assert.InDelta(t, 1.0, normalized[contracts.CategoryTechnical], 1e-9)
	})

	t.Run("all-zero weights returned unscaled", func(t *testing.T) {
		zero := NewWeightConfig(map[contracts.Category]float64{
			contracts.CategoryTechnical: 0,
			contracts.CategoryChip:      0,
		})
		normalized := zero.Normalized([]contracts.Category{
			contracts.CategoryTechnical, contracts.CategoryChip,
		})
		assert.Len(t, normalized, 2)
		assert.Equal(t, 0.0, normalized[contracts.CategoryTechnical])
		assert.Equal(t, 0.0, normalized[contracts.CategoryChip])
	})
}

func TestWeightConfig_Merged(t *testing.T) {
	base := DefaultWeights()
	merged := base.Merged(map[contracts.Category]float64{
		contracts.CategoryTechnical: 0.8,
	})

	v, ok := merged.Weight(contracts.CategoryTechnical)
	assert.True(t, ok)
	assert.Equal(t, 0.8, v)

	// Untouched categories carry over.
	v, ok = merged.Weight(contracts.CategoryChip)
	assert.True(t, ok)
	assert.Equal(t, 0.30, v)

	// The base config is never mutated.
	v, _ = base.Weight(contracts.CategoryTechnical)
	assert.Equal(t, 0.50, v)
}

func TestNewWeightConfig_CopiesInput(t *testing.T) {
	input := map[contracts.Category]float64{contracts.CategoryTechnical: 0.5}
	cfg := NewWeightConfig(input)

	input[contracts.CategoryTechnical] = 0.9

	v, _ := cfg.Weight(contracts.CategoryTechnical)
	assert.Equal(t, 0.5, v)
}
