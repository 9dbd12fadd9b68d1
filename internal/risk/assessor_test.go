package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayneh/stocklens/internal/contracts"
)

func ind(name string, dir contracts.SignalDirection, value float64) contracts.IndicatorResult {
	return contracts.IndicatorResult{Name: name, Direction: dir, Value: value}
}

func TestAssessor_Divergence(t *testing.T) {
	a := NewAssessor()

	t.Run("even split scores 100", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			ind("MACD", contracts.Bullish, 0),
			ind("KD", contracts.StrongBullish, 0),
			ind("MarginBalance", contracts.Bearish, 0),
			ind("ForeignShareholding", contracts.StrongBearish, 0),
		}
		result := a.Assess(indicators, nil)
		assert.Equal(t, 100.0, result.DivergenceScore)
		require.Len(t, result.Factors, 1)
		assert.Contains(t, result.Factors[0], "嚴重分歧")
		// Single factor but divergence above 50 still escalates.
		assert.Equal(t, contracts.RiskHigh, result.Level)
	})

	t.Run("minority side of one in four scores 50", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			ind("MACD", contracts.Bullish, 0),
			ind("KD", contracts.Bullish, 0),
			ind("MABias", contracts.Bullish, 0),
			ind("MarginBalance", contracts.Bearish, 0),
		}
		result := a.Assess(indicators, nil)
		assert.Equal(t, 50.0, result.DivergenceScore)
		require.Len(t, result.Factors, 1)
		assert.Contains(t, result.Factors[0], "3多/1空")
		assert.Equal(t, contracts.RiskMedium, result.Level)
	})

	t.Run("neutral indicators dilute divergence", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			ind("MACD", contracts.Bullish, 0),
			ind("KD", contracts.Bearish, 0),
			ind("MABias", contracts.Neutral, 0),
			ind("MarginBalance", contracts.Neutral, 0),
		}
		// minSide 1 of 4 total.
		result := a.Assess(indicators, nil)
		assert.Equal(t, 50.0, result.DivergenceScore)
	})

	t.Run("one-sided signals score zero", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			ind("MACD", contracts.Bullish, 0),
			ind("KD", contracts.Bullish, 0),
		}
		result := a.Assess(indicators, nil)
		assert.Equal(t, 0.0, result.DivergenceScore)
		assert.Empty(t, result.Factors)
		assert.Equal(t, contracts.RiskLow, result.Level)
	})

	t.Run("no indicators means no divergence", func(t *testing.T) {
		result := a.Assess(nil, nil)
		assert.Equal(t, 0.0, result.DivergenceScore)
		assert.Equal(t, contracts.RiskLow, result.Level)
	})
}

func TestAssessor_NamedExtremes(t *testing.T) {
	a := NewAssessor()

	t.Run("overbought RSI", func(t *testing.T) {
		result := a.Assess([]contracts.IndicatorResult{
			ind("RSI", contracts.Neutral, 85.0),
		}, nil)
		require.Len(t, result.Factors, 1)
		assert.Contains(t, result.Factors[0], "RSI達85.0")
		assert.Equal(t, contracts.RiskMedium, result.Level)
	})

	t.Run("oversold RSI", func(t *testing.T) {
		result := a.Assess([]contracts.IndicatorResult{
			ind("RSI", contracts.Neutral, 15.0),
		}, nil)
		require.Len(t, result.Factors, 1)
		assert.Contains(t, result.Factors[0], "超賣")
	})

	t.Run("mid-range RSI is quiet", func(t *testing.T) {
		result := a.Assess([]contracts.IndicatorResult{
			ind("RSI", contracts.Neutral, 50.0),
		}, nil)
		assert.Empty(t, result.Factors)
	})

	t.Run("volume spike reads the sub-value", func(t *testing.T) {
		spike := contracts.IndicatorResult{
			Name:      "VolumeRatio",
			Direction: contracts.Neutral,
			SubValues: map[string]float64{"TodayVsAvg20": 3.5},
		}
		result := a.Assess([]contracts.IndicatorResult{spike}, nil)
		require.Len(t, result.Factors, 1)
		assert.Contains(t, result.Factors[0], "3.5倍")
	})

	t.Run("volume indicator without sub-value is skipped", func(t *testing.T) {
		result := a.Assess([]contracts.IndicatorResult{
			ind("VolumeRatio", contracts.Neutral, 9.9),
		}, nil)
		assert.Empty(t, result.Factors)
	})

	t.Run("high director pledge", func(t *testing.T) {
		result := a.Assess([]contracts.IndicatorResult{
			ind("DirectorPledge", contracts.Neutral, 45.0),
		}, nil)
		require.Len(t, result.Factors, 1)
		assert.Contains(t, result.Factors[0], "質押")
	})
}

func TestAssessor_CategorySpread(t *testing.T) {
	a := NewAssessor()

	scores := []contracts.CategoryScore{
		{Category: contracts.CategoryTechnical, Score: 80},
		{Category: contracts.CategoryChip, Score: 40},
	}
	result := a.Assess(nil, scores)
	require.Len(t, result.Factors, 1)
	assert.Contains(t, result.Factors[0], "落差")

	// Spread of exactly 30 is not a factor.
	scores[1].Score = 50
	result = a.Assess(nil, scores)
	assert.Empty(t, result.Factors)

	// A single category has no spread.
	result = a.Assess(nil, scores[:1])
	assert.Empty(t, result.Factors)
}

func TestAssessor_Levels(t *testing.T) {
	a := NewAssessor()

	t.Run("three factors escalate to high", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			ind("RSI", contracts.Neutral, 85.0),
			ind("DirectorPledge", contracts.Neutral, 45.0),
			{Name: "VolumeRatio", Direction: contracts.Neutral,
				SubValues: map[string]float64{"TodayVsAvg20": 4.0}},
		}
		result := a.Assess(indicators, nil)
		assert.Len(t, result.Factors, 3)
		assert.Equal(t, contracts.RiskHigh, result.Level)
	})

	t.Run("four factors escalate to very high", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			ind("RSI", contracts.StrongBullish, 85.0),
			ind("DirectorPledge", contracts.Bearish, 45.0),
			{Name: "VolumeRatio", Direction: contracts.Bullish,
				SubValues: map[string]float64{"TodayVsAvg20": 4.0}},
			ind("MarginBalance", contracts.Bearish, 0),
		}
		// 2 bullish / 2 bearish adds the severe divergence factor.
		result := a.Assess(indicators, nil)
		assert.Len(t, result.Factors, 4)
		assert.Equal(t, contracts.RiskVeryHigh, result.Level)
	})
}

func TestAssessor_Deterministic(t *testing.T) {
	a := NewAssessor()
	indicators := []contracts.IndicatorResult{
		ind("RSI", contracts.Bullish, 85.0),
		ind("MACD", contracts.Bearish, 0),
	}
	scores := []contracts.CategoryScore{
		{Category: contracts.CategoryTechnical, Score: 75},
		{Category: contracts.CategoryChip, Score: 30},
	}

	first := a.Assess(indicators, scores)
	second := a.Assess(indicators, scores)
	assert.Equal(t, first, second)
}
