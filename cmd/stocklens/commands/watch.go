package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wayneh/stocklens/internal/scheduler"
	"github.com/wayneh/stocklens/internal/store"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watchlist 排程",
	Long: `依排程定期分析 WATCH_CODES 裡的股票。

這個命令會:
- 在 WATCH_CRON 指定的時間分析每一檔觀察股
- 資料庫啟用時回填日線價格

Example:
  WATCH_CODES=2330,2454,AAPL go run ./cmd/stocklens watch
  go run ./cmd/stocklens watch --now`,
	RunE: runWatch,
}

var watchNow bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchNow, "now", false, "啟動後立即執行一輪")
}

func runWatch(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	var prices *store.PriceRepository
	if deps.db != nil {
		prices = store.NewPriceRepository(deps.db.Pool)
	}

	sched := scheduler.New(deps.analyzer, deps.registry, prices, nil, deps.cfg.Watch, deps.log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start watchlist scheduler: %w", err)
	}

	if watchNow {
		sched.RunNow()
	}

	fmt.Printf("Watching %d codes on schedule %q\n", len(deps.cfg.Watch.Codes), deps.cfg.Watch.CronSpec)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
