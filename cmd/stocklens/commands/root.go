package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stocklens",
	Short: "stocklens - 台股/美股綜合分析引擎",
	Long: `stocklens CLI

技術面、籌碼面、基本面指標計算與綜合評分。

Usage:
  go run ./cmd/stocklens [command]

Examples:
  go run ./cmd/stocklens analyze 2330
  go run ./cmd/stocklens analyze AAPL --no-score
  go run ./cmd/stocklens api
  go run ./cmd/stocklens watch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
