package scoring

import (
	"fmt"
	"math"

	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/logger"
)

// Service aggregates indicator results into category and overall scores.
type Service struct {
	logger *logger.Logger
}

// NewService creates a new scoring service.
func NewService(log *logger.Logger) *Service {
	return &Service{logger: log}
}

// round1 rounds to 1 decimal, half away from zero (math.Round semantics).
// All published score values go through this helper so the rounding mode
// is consistent everywhere.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Compute groups indicators by category, scores each category with
// weights normalized over the categories present, and derives the
// overall score, direction and recommendation.
// Returns nil for an empty indicator list.
func (s *Service) Compute(indicators []contracts.IndicatorResult, weights *WeightConfig) *contracts.ScoreSummary {
	if len(indicators) == 0 {
		return nil
	}

	grouped := make(map[contracts.Category][]contracts.IndicatorResult)
	for _, ind := range indicators {
		grouped[ind.Category] = append(grouped[ind.Category], ind)
	}

	var available []contracts.Category
	for _, cat := range contracts.AllCategories {
		if len(grouped[cat]) > 0 {
			available = append(available, cat)
		}
	}
	normalized := weights.Normalized(available)

	var categoryScores []contracts.CategoryScore
	overall := 0.0
	for _, cat := range available {
		cs := s.ComputeCategoryScore(cat, grouped[cat], normalized)
		categoryScores = append(categoryScores, cs)
		overall += cs.WeightedScore
	}
	overall = round1(overall)

	direction := contracts.DetermineDirection(overall)
	summary := &contracts.ScoreSummary{
		CategoryScores:   categoryScores,
		OverallScore:     overall,
		OverallDirection: direction,
		Recommendation:   GenerateRecommendation(overall, direction, categoryScores),
	}

	s.logger.WithFields(map[string]interface{}{
		"overall_score": overall,
		"direction":     direction,
		"categories":    len(categoryScores),
	}).Debug("Computed composite score")

	return summary
}

// ComputeCategoryScore scores a single category. An empty indicator list
// yields the neutral midpoint 50, not an error. Score and WeightedScore
// are rounded to 1 decimal. A category missing from the weight map gets
// weight 0.
func (s *Service) ComputeCategoryScore(cat contracts.Category, indicators []contracts.IndicatorResult, weights map[contracts.Category]float64) contracts.CategoryScore {
	avg := 50.0
	if len(indicators) > 0 {
		sum := 0
		for _, ind := range indicators {
			sum += ind.Score
		}
		avg = round1(float64(sum) / float64(len(indicators)))
	}

	weight := weights[cat]
	direction := contracts.DetermineDirection(avg)

	return contracts.CategoryScore{
		Category:       cat,
		Score:          avg,
		Weight:         weight,
		WeightedScore:  round1(avg * weight),
		Direction:      direction,
		Summary:        categorySummary(cat, direction, indicators),
		IndicatorCount: len(indicators),
	}
}

// categorySummary renders the per-category sentence with the 多/中/空
// tri-count breakdown.
func categorySummary(cat contracts.Category, direction contracts.SignalDirection, indicators []contracts.IndicatorResult) string {
	var bullish, bearish, neutral int
	for _, ind := range indicators {
		switch {
		case ind.Direction.IsBullish():
			bullish++
		case ind.Direction.IsBearish():
			bearish++
		default:
			neutral++
		}
	}
	return fmt.Sprintf("%s整體%s(%d多/%d中/%d空,共%d項指標)",
		cat.Label(), direction.Label(), bullish, neutral, bearish, len(indicators))
}

// GenerateRecommendation builds the recommendation sentence for the
// overall direction, appending a divergence warning when the technical
// and chip categories disagree in class. Neutral never triggers the
// divergence branches.
func GenerateRecommendation(overallScore float64, direction contracts.SignalDirection, categoryScores []contracts.CategoryScore) string {
	var base string
	switch direction {
	case contracts.StrongBullish:
		base = fmt.Sprintf("綜合評分%.1f分,多項指標強勢看多,可考慮積極佈局,但仍需留意大盤環境。", overallScore)
	case contracts.Bullish:
		base = fmt.Sprintf("綜合評分%.1f分,指標偏多,可分批進場並設好停損。", overallScore)
	case contracts.Neutral:
		base = fmt.Sprintf("綜合評分%.1f分,多空訊號不明,建議觀望或小量試單。", overallScore)
	case contracts.Bearish:
		base = fmt.Sprintf("綜合評分%.1f分,指標偏空,不宜追高,持股者可考慮減碼。", overallScore)
	case contracts.StrongBearish:
		base = fmt.Sprintf("綜合評分%.1f分,多項指標強勢看空,建議保持觀望並嚴設風險控管。", overallScore)
	default:
		base = "資料不足,無法提供操作建議。"
	}

	var technical, chip *contracts.CategoryScore
	for i := range categoryScores {
		switch categoryScores[i].Category {
		case contracts.CategoryTechnical:
			technical = &categoryScores[i]
		case contracts.CategoryChip:
			chip = &categoryScores[i]
		}
	}
	if technical != nil && chip != nil {
		if technical.Direction.IsBullish() && chip.Direction.IsBearish() {
			base += "注意:技術面轉強但籌碼面偏空,需留意大戶出貨風險。"
		} else if technical.Direction.IsBearish() && chip.Direction.IsBullish() {
			base += "留意:技術面偏弱但籌碼面轉強,可能有主力逢低吸籌。"
		}
	}

	return base
}
