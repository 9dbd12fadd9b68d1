package risk

import (
	"fmt"
	"math"

	"github.com/wayneh/stocklens/internal/contracts"
)

// Divergence factor thresholds.
const (
	severeDivergence = 60.0
	mildDivergence   = 30.0

	rsiOverbought    = 80.0
	rsiOversold      = 20.0
	volumeSpikeRatio = 3.0
	highPledgePct    = 30.0
	categorySpread   = 30.0
)

// Assessor derives a qualitative risk assessment from indicator results.
// Pure calculator: data collection and result assembly live in the
// analysis layer, this package only computes.
type Assessor struct{}

// NewAssessor creates a new risk assessor.
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess computes the risk assessment for one analysis run. It is a pure
// function of its inputs; neither argument is mutated and identical
// inputs always yield identical output.
func (a *Assessor) Assess(indicators []contracts.IndicatorResult, categoryScores []contracts.CategoryScore) contracts.RiskAssessment {
	factors := make([]string, 0, 4)

	// 1. Direction divergence across indicators.
	var bullish, bearish int
	for _, ind := range indicators {
		switch {
		case ind.Direction.IsBullish():
			bullish++
		case ind.Direction.IsBearish():
			bearish++
		}
	}
	divergence := 0.0
	if total := len(indicators); total > 0 {
		minSide := bullish
		if bearish < minSide {
			minSide = bearish
		}
		// 50/50 split gives exactly 100.
		divergence = float64(minSide) / float64(total) * 200
	}
	divergence = math.Round(divergence*10) / 10

	if divergence > severeDivergence {
		factors = append(factors,
			fmt.Sprintf("多空訊號嚴重分歧(%d多/%d空),行情方向極不明確", bullish, bearish))
	} else if divergence > mildDivergence {
		factors = append(factors,
			fmt.Sprintf("多空訊號出現分歧(%d多/%d空)", bullish, bearish))
	}

	// 2. Named single-indicator extremes. Each check is independent.
	for _, ind := range indicators {
		switch ind.Name {
		case "RSI":
			if ind.Value > rsiOverbought {
				factors = append(factors,
					fmt.Sprintf("RSI達%.1f,嚴重超買,回檔風險高", ind.Value))
			} else if ind.Value < rsiOversold {
				factors = append(factors,
					fmt.Sprintf("RSI僅%.1f,嚴重超賣,可能持續探底", ind.Value))
			}
		case "VolumeRatio":
			if ratio, ok := ind.SubValues["TodayVsAvg20"]; ok && ratio > volumeSpikeRatio {
				factors = append(factors,
					fmt.Sprintf("成交量異常放大,達20日均量的%.1f倍", ratio))
			}
		case "DirectorPledge":
			if ind.Value > highPledgePct {
				factors = append(factors,
					fmt.Sprintf("董監質押比率達%.1f%%,籌碼穩定度偏低", ind.Value))
			}
		}
	}

	// 3. Cross-category score spread.
	if len(categoryScores) >= 2 {
		minScore, maxScore := categoryScores[0].Score, categoryScores[0].Score
		for _, cs := range categoryScores[1:] {
			if cs.Score < minScore {
				minScore = cs.Score
			}
			if cs.Score > maxScore {
				maxScore = cs.Score
			}
		}
		if maxScore-minScore > categorySpread {
			factors = append(factors, "各面向評分落差大,訊號不一致")
		}
	}

	return contracts.RiskAssessment{
		Level:           riskLevel(len(factors), divergence),
		Factors:         factors,
		DivergenceScore: divergence,
	}
}

// riskLevel maps factor count and divergence to a level. Ordered case
// matching, first rule wins: factor-count thresholds before the
// divergence-only threshold, before the single-factor Medium case.
func riskLevel(factorCount int, divergence float64) contracts.RiskLevel {
	switch {
	case factorCount >= 4:
		return contracts.RiskVeryHigh
	case factorCount >= 3:
		return contracts.RiskHigh
	case divergence > 50:
		return contracts.RiskHigh
	case factorCount >= 1:
		return contracts.RiskMedium
	default:
		return contracts.RiskLow
	}
}
