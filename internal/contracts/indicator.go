package contracts

// Category groups indicators by the data domain they read from.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryChip        Category = "chip"
	CategoryFundamental Category = "fundamental"
)

// AllCategories lists categories in their canonical display order.
// Scoring iterates this slice, so category score ordering is stable.
var AllCategories = []Category{CategoryTechnical, CategoryChip, CategoryFundamental}

// Label returns the localized category name used in summaries.
func (c Category) Label() string {
	switch c {
	case CategoryTechnical:
		return "技術面"
	case CategoryChip:
		return "籌碼面"
	case CategoryFundamental:
		return "基本面"
	default:
		return string(c)
	}
}

// SignalDirection is the ordinal bullish/bearish classification of a signal.
type SignalDirection string

const (
	StrongBullish SignalDirection = "strong_bullish"
	Bullish       SignalDirection = "bullish"
	Neutral       SignalDirection = "neutral"
	Bearish       SignalDirection = "bearish"
	StrongBearish SignalDirection = "strong_bearish"
)

// Label returns the localized direction name used in summaries.
func (d SignalDirection) Label() string {
	switch d {
	case StrongBullish:
		return "強勢看多"
	case Bullish:
		return "看多"
	case Neutral:
		return "中性"
	case Bearish:
		return "看空"
	case StrongBearish:
		return "強勢看空"
	default:
		return string(d)
	}
}

// IsBullish reports whether the direction is bullish-class.
// Neutral belongs to neither class.
func (d SignalDirection) IsBullish() bool {
	return d == Bullish || d == StrongBullish
}

// IsBearish reports whether the direction is bearish-class.
func (d SignalDirection) IsBearish() bool {
	return d == Bearish || d == StrongBearish
}

// DetermineDirection maps a 0-100 score to a direction.
// Boundaries are inclusive on the lower bound: 20/40/60/80 belong to the
// upper bucket.
func DetermineDirection(score float64) SignalDirection {
	switch {
	case score >= 80:
		return StrongBullish
	case score >= 60:
		return Bullish
	case score >= 40:
		return Neutral
	case score >= 20:
		return Bearish
	default:
		return StrongBearish
	}
}

// IndicatorResult is one indicator's output for a single analysis run.
// Created once by the indicator engine and never mutated afterwards.
type IndicatorResult struct {
	Name      string             `json:"name"`
	Category  Category           `json:"category"`
	Value     float64            `json:"value"`
	SubValues map[string]float64 `json:"sub_values,omitempty"`
	Direction SignalDirection    `json:"direction"`
	Score     int                `json:"score"` // 0-100 normalized bullishness
	Signal    string             `json:"signal"`
	Reason    string             `json:"reason"`
}
