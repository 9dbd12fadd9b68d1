package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/logger"
)

func indicator(name string, cat contracts.Category, score int) contracts.IndicatorResult {
	return contracts.IndicatorResult{
		Name:      name,
		Category:  cat,
		Score:     score,
		Direction: contracts.DetermineDirection(float64(score)),
	}
}

func TestService_Compute(t *testing.T) {
	svc := NewService(logger.NewNop())

	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, svc.Compute(nil, DefaultWeights()))
	})

	t.Run("single category gets full weight", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			indicator("RSI", contracts.CategoryTechnical, 70),
			indicator("MACD", contracts.CategoryTechnical, 60),
			indicator("KD", contracts.CategoryTechnical, 50),
		}

		summary := svc.Compute(indicators, DefaultWeights())
		require.NotNil(t, summary)
		require.Len(t, summary.CategoryScores, 1)

		cs := summary.CategoryScores[0]
		assert.Equal(t, contracts.CategoryTechnical, cs.Category)
		assert.Equal(t, 60.0, cs.Score)
		assert.Equal(t, 1.0, cs.Weight)
		assert.Equal(t, 60.0, cs.WeightedScore)
		assert.Equal(t, 3, cs.IndicatorCount)
		assert.Equal(t, contracts.Bullish, cs.Direction)

		assert.Equal(t, 60.0, summary.OverallScore)
		assert.Equal(t, contracts.Bullish, summary.OverallDirection)
	})

	t.Run("two categories rescale nominal weights", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			indicator("RSI", contracts.CategoryTechnical, 70),
			indicator("MACD", contracts.CategoryTechnical, 60),
			indicator("KD", contracts.CategoryTechnical, 50),
			indicator("InstitutionalNetBuy", contracts.CategoryChip, 40),
		}

		summary := svc.Compute(indicators, DefaultWeights())
		require.NotNil(t, summary)
		require.Len(t, summary.CategoryScores, 2)

		// Nominal 0.50/0.30 rescaled over 0.80.
		tech := summary.CategoryScores[0]
		assert.Equal(t, contracts.CategoryTechnical, tech.Category)
		assert.Equal(t, 60.0, tech.Score)
		assert.InDelta(t, 0.625, tech.Weight, 1e-9)
		assert.Equal(t, 37.5, tech.WeightedScore)

		chip := summary.CategoryScores[1]
		assert.Equal(t, contracts.CategoryChip, chip.Category)
		assert.Equal(t, 40.0, chip.Score)
		assert.InDelta(t, 0.375, chip.Weight, 1e-9)
		assert.Equal(t, 15.0, chip.WeightedScore)

		assert.Equal(t, 52.5, summary.OverallScore)
		assert.Equal(t, contracts.Neutral, summary.OverallDirection)
	})

	t.Run("category order follows canonical order", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			indicator("PER", contracts.CategoryFundamental, 55),
			indicator("RSI", contracts.CategoryTechnical, 55),
		}

		summary := svc.Compute(indicators, DefaultWeights())
		require.Len(t, summary.CategoryScores, 2)
		assert.Equal(t, contracts.CategoryTechnical, summary.CategoryScores[0].Category)
		assert.Equal(t, contracts.CategoryFundamental, summary.CategoryScores[1].Category)
	})
}

func TestService_ComputeCategoryScore(t *testing.T) {
	svc := NewService(logger.NewNop())

	t.Run("empty category scores neutral midpoint", func(t *testing.T) {
		cs := svc.ComputeCategoryScore(contracts.CategoryChip, nil, map[contracts.Category]float64{})
		assert.Equal(t, 50.0, cs.Score)
		assert.Equal(t, 0.0, cs.Weight)
		assert.Equal(t, 0.0, cs.WeightedScore)
		assert.Equal(t, 0, cs.IndicatorCount)
		assert.Equal(t, contracts.Neutral, cs.Direction)
	})

	t.Run("average rounds to one decimal", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			indicator("RSI", contracts.CategoryTechnical, 70),
			indicator("MACD", contracts.CategoryTechnical, 65),
			indicator("KD", contracts.CategoryTechnical, 64),
		}
		// (70+65+64)/3 = 66.333...
		cs := svc.ComputeCategoryScore(contracts.CategoryTechnical, indicators,
			map[contracts.Category]float64{contracts.CategoryTechnical: 1.0})
		assert.Equal(t, 66.3, cs.Score)
	})

	t.Run("summary counts directions", func(t *testing.T) {
		indicators := []contracts.IndicatorResult{
			indicator("RSI", contracts.CategoryTechnical, 85),
			indicator("MACD", contracts.CategoryTechnical, 50),
			indicator("KD", contracts.CategoryTechnical, 10),
		}
		cs := svc.ComputeCategoryScore(contracts.CategoryTechnical, indicators,
			map[contracts.Category]float64{contracts.CategoryTechnical: 1.0})
		assert.Contains(t, cs.Summary, "技術面")
		assert.Contains(t, cs.Summary, "1多/1中/1空")
		assert.Contains(t, cs.Summary, "共3項指標")
	})
}

func TestGenerateRecommendation(t *testing.T) {
	bullishTech := contracts.CategoryScore{
		Category: contracts.CategoryTechnical, Direction: contracts.Bullish,
	}
	bearishTech := contracts.CategoryScore{
		Category: contracts.CategoryTechnical, Direction: contracts.Bearish,
	}
	bullishChip := contracts.CategoryScore{
		Category: contracts.CategoryChip, Direction: contracts.Bullish,
	}
	bearishChip := contracts.CategoryScore{
		Category: contracts.CategoryChip, Direction: contracts.Bearish,
	}
	neutralChip := contracts.CategoryScore{
		Category: contracts.CategoryChip, Direction: contracts.Neutral,
	}

	t.Run("bullish tech with bearish chip warns of distribution", func(t *testing.T) {
		rec := GenerateRecommendation(55, contracts.Neutral,
			[]contracts.CategoryScore{bullishTech, bearishChip})
		assert.Contains(t, rec, "大戶出貨風險")
	})

	t.Run("bearish tech with bullish chip hints accumulation", func(t *testing.T) {
		rec := GenerateRecommendation(45, contracts.Neutral,
			[]contracts.CategoryScore{bearishTech, bullishChip})
		assert.Contains(t, rec, "主力逢低吸籌")
	})

	t.Run("neutral chip never triggers divergence note", func(t *testing.T) {
		rec := GenerateRecommendation(55, contracts.Neutral,
			[]contracts.CategoryScore{bullishTech, neutralChip})
		assert.NotContains(t, rec, "大戶出貨風險")
		assert.NotContains(t, rec, "主力逢低吸籌")
	})

	t.Run("agreeing categories add no note", func(t *testing.T) {
		rec := GenerateRecommendation(65, contracts.Bullish,
			[]contracts.CategoryScore{bullishTech, bullishChip})
		assert.NotContains(t, rec, "注意")
		assert.NotContains(t, rec, "留意")
	})

	t.Run("score appears in every direction sentence", func(t *testing.T) {
		for _, dir := range []contracts.SignalDirection{
			contracts.StrongBullish, contracts.Bullish, contracts.Neutral,
			contracts.Bearish, contracts.StrongBearish,
		} {
			rec := GenerateRecommendation(42.5, dir, nil)
			assert.True(t, strings.Contains(rec, "42.5"), "direction %s: %s", dir, rec)
		}
	})
}
