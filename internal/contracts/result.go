package contracts

import "time"

// CategoryScore is the aggregate for one category within a scoring run.
// WeightedScore always equals Score*Weight rounded to 1 decimal.
type CategoryScore struct {
	Category       Category        `json:"category"`
	Score          float64         `json:"score"`  // 0-100 average, 1 decimal
	Weight         float64         `json:"weight"` // 0-1 after normalization
	WeightedScore  float64         `json:"weighted_score"`
	Direction      SignalDirection `json:"direction"`
	Summary        string          `json:"summary"`
	IndicatorCount int             `json:"indicator_count"`
}

// ScoreSummary is the scoring service output: per-category scores plus
// the overall weighted composite.
type ScoreSummary struct {
	CategoryScores   []CategoryScore `json:"category_scores"`
	OverallScore     float64         `json:"overall_score"` // Σ weighted_score, 1 decimal
	OverallDirection SignalDirection `json:"overall_direction"`
	Recommendation   string          `json:"recommendation"`
}

// RiskLevel is the qualitative risk classification, ordered low to high.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Label returns the localized risk level name.
func (l RiskLevel) Label() string {
	switch l {
	case RiskLow:
		return "低風險"
	case RiskMedium:
		return "中等風險"
	case RiskHigh:
		return "高風險"
	case RiskVeryHigh:
		return "極高風險"
	default:
		return string(l)
	}
}

// RiskAssessment is the risk assessor output. Factors keep detection
// order, which is stable for a fixed indicator ordering.
type RiskAssessment struct {
	Level           RiskLevel `json:"level"`
	Factors         []string  `json:"factors"`
	DivergenceScore float64   `json:"divergence_score"` // 0-100, 1 decimal
}

// AnalysisConfig echoes the effective configuration of an analysis run.
// Effective, not requested: e.g. IncludeChip is false here whenever the
// resolved market has no chip provider, regardless of what was asked.
type AnalysisConfig struct {
	Market             MarketRegion         `json:"market"`
	IncludeTechnical   bool                 `json:"include_technical"`
	IncludeChip        bool                 `json:"include_chip"`
	IncludeFundamental bool                 `json:"include_fundamental"`
	WithScore          bool                 `json:"with_score"`
	WithRisk           bool                 `json:"with_risk"`
	OnlyIndicators     []string             `json:"only_indicators,omitempty"`
	ExcludeIndicators  []string             `json:"exclude_indicators,omitempty"`
	WeightOverrides    map[Category]float64 `json:"weight_overrides,omitempty"`
}

// AnalysisResult is the composite returned by the analyzer.
// Score and Risk are nil when the corresponding flag was off or no
// indicator survived filtering.
type AnalysisResult struct {
	StockCode   string            `json:"stock_code"`
	StockName   string            `json:"stock_name,omitempty"`
	Market      MarketRegion      `json:"market"`
	LatestClose float64           `json:"latest_close,omitempty"`
	DataRange   string            `json:"data_range,omitempty"`
	Indicators  []IndicatorResult `json:"indicators"`
	Score       *ScoreSummary     `json:"score,omitempty"`
	Risk        *RiskAssessment   `json:"risk,omitempty"`
	Config      AnalysisConfig    `json:"config"`
	GeneratedAt time.Time         `json:"generated_at"`
}
