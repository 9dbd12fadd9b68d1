package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayneh/stocklens/internal/analysis"
	"github.com/wayneh/stocklens/internal/contracts"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [stock_code]",
	Short: "個股分析",
	Long: `對單一個股執行完整分析並輸出 JSON 結果。

這個命令會:
- 抓取日線價格、籌碼、基本面資料
- 計算技術/籌碼/基本面指標
- 產生綜合評分與風險評估

Example:
  go run ./cmd/stocklens analyze 2330
  go run ./cmd/stocklens analyze AAPL --no-fundamental
  go run ./cmd/stocklens analyze 2330 --only RSI,MACD --no-risk
  go run ./cmd/stocklens analyze 2330 --weight technical=0.7 --weight chip=0.3`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeMarket      string
	analyzeNoTechnical bool
	analyzeNoChip      bool
	analyzeNoFund      bool
	analyzeNoScore     bool
	analyzeNoRisk      bool
	analyzeOnly        []string
	analyzeExclude     []string
	analyzeWeights     []string
	analyzeTimeout     time.Duration
	analyzeCompact     bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeMarket, "market", "", "市場代碼 (TW|US), 預設由股票代號判斷")
	analyzeCmd.Flags().BoolVar(&analyzeNoTechnical, "no-technical", false, "跳過技術面指標")
	analyzeCmd.Flags().BoolVar(&analyzeNoChip, "no-chip", false, "跳過籌碼面指標")
	analyzeCmd.Flags().BoolVar(&analyzeNoFund, "no-fundamental", false, "跳過基本面指標")
	analyzeCmd.Flags().BoolVar(&analyzeNoScore, "no-score", false, "不產生綜合評分")
	analyzeCmd.Flags().BoolVar(&analyzeNoRisk, "no-risk", false, "不產生風險評估")
	analyzeCmd.Flags().StringSliceVar(&analyzeOnly, "only", nil, "只保留指定指標 (逗號分隔)")
	analyzeCmd.Flags().StringSliceVar(&analyzeExclude, "exclude", nil, "排除指定指標 (逗號分隔)")
	analyzeCmd.Flags().StringArrayVar(&analyzeWeights, "weight", nil, "類別權重覆寫, 格式 category=value")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "分析逾時")
	analyzeCmd.Flags().BoolVar(&analyzeCompact, "compact", false, "輸出單行 JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	opts := analysis.NewOptions(args[0]).
		WithCategories(!analyzeNoTechnical, !analyzeNoChip, !analyzeNoFund).
		WithScoring(!analyzeNoScore).
		WithRiskAssessment(!analyzeNoRisk)

	if analyzeMarket != "" {
		opts = opts.WithMarket(contracts.MarketRegion(strings.ToUpper(analyzeMarket)))
	}
	if len(analyzeOnly) > 0 {
		opts = opts.WithOnlyIndicators(analyzeOnly...)
	}
	if len(analyzeExclude) > 0 {
		opts = opts.WithExcludeIndicators(analyzeExclude...)
	}
	if len(analyzeWeights) > 0 {
		overrides, err := parseWeightFlags(analyzeWeights)
		if err != nil {
			return err
		}
		opts = opts.WithWeightOverrides(overrides)
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	result, err := deps.analyzer.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	if !analyzeCompact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// parseWeightFlags parses repeated "category=value" flags.
func parseWeightFlags(flags []string) (map[contracts.Category]float64, error) {
	overrides := make(map[contracts.Category]float64, len(flags))
	for _, flag := range flags {
		parts := strings.SplitN(flag, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid weight %q, expected category=value", flag)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value %q: %w", parts[1], err)
		}
		overrides[contracts.Category(strings.TrimSpace(parts[0]))] = value
	}
	return overrides, nil
}
