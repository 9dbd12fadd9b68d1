package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wayneh/stocklens/internal/analysis"
	"github.com/wayneh/stocklens/internal/contracts"
	"github.com/wayneh/stocklens/pkg/logger"
)

// AnalyzeHandler exposes the analysis pipeline over HTTP.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer *analysis.Analyzer, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, logger: log}
}

// analyzeRequest is the POST /api/v1/analyze body. Omitted booleans
// default to true so the simple case stays a one-field request.
type analyzeRequest struct {
	StockCode          string                         `json:"stock_code"`
	Market             contracts.MarketRegion         `json:"market,omitempty"`
	IncludeTechnical   *bool                          `json:"include_technical,omitempty"`
	IncludeChip        *bool                          `json:"include_chip,omitempty"`
	IncludeFundamental *bool                          `json:"include_fundamental,omitempty"`
	WithScore          *bool                          `json:"with_score,omitempty"`
	WithRisk           *bool                          `json:"with_risk,omitempty"`
	OnlyIndicators     []string                       `json:"only_indicators,omitempty"`
	ExcludeIndicators  []string                       `json:"exclude_indicators,omitempty"`
	WeightOverrides    map[contracts.Category]float64 `json:"weight_overrides,omitempty"`
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := analysis.NewOptions(req.StockCode)
	if req.Market != "" {
		opts = opts.WithMarket(req.Market)
	}
	if req.IncludeTechnical != nil || req.IncludeChip != nil || req.IncludeFundamental != nil {
		opts = opts.WithCategories(
			boolOrDefault(req.IncludeTechnical, true),
			boolOrDefault(req.IncludeChip, true),
			boolOrDefault(req.IncludeFundamental, true),
		)
	}
	if req.WithScore != nil {
		opts = opts.WithScoring(*req.WithScore)
	}
	if req.WithRisk != nil {
		opts = opts.WithRiskAssessment(*req.WithRisk)
	}
	if len(req.OnlyIndicators) > 0 {
		opts = opts.WithOnlyIndicators(req.OnlyIndicators...)
	}
	if len(req.ExcludeIndicators) > 0 {
		opts = opts.WithExcludeIndicators(req.ExcludeIndicators...)
	}
	if len(req.WeightOverrides) > 0 {
		opts = opts.WithWeightOverrides(req.WeightOverrides)
	}

	h.run(w, r, opts)
}

// AnalyzeByCode handles GET /api/v1/analyze/{code} with defaults.
func (h *AnalyzeHandler) AnalyzeByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	h.run(w, r, analysis.NewOptions(code))
}

func (h *AnalyzeHandler) run(w http.ResponseWriter, r *http.Request, opts analysis.Options) {
	result, err := h.analyzer.Run(r.Context(), opts)
	if err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// writeAnalysisError maps the analysis error taxonomy to HTTP status
// codes so callers can tell usage errors from upstream failures.
func (h *AnalyzeHandler) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *analysis.RequiredFetchError
	switch {
	case analysis.IsUsageError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fetchErr):
		h.logger.WithError(err).Warn("Analysis failed on required fetch")
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away or the request deadline hit.
		writeError(w, http.StatusGatewayTimeout, "analysis cancelled")
	default:
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("Analysis failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
