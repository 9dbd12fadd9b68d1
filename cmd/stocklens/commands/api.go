package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayneh/stocklens/internal/api"
	"github.com/wayneh/stocklens/internal/api/handlers"
	"github.com/wayneh/stocklens/internal/scheduler"
	"github.com/wayneh/stocklens/internal/store"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 伺服器",
	Long: `啟動 REST API 伺服器。

Endpoints:
  GET  /health                 - Health check
  POST /api/v1/analyze         - 個股分析 (JSON body)
  GET  /api/v1/analyze/{code}  - 個股分析 (預設選項)
  GET  /ws/analyses            - Watchlist 分析結果串流 (websocket)

Example:
  go run ./cmd/stocklens api
  go run ./cmd/stocklens api --port 8090 --with-watch`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiWithWatch bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 伺服器埠號 (預設取 PORT)")
	apiCmd.Flags().BoolVar(&apiWithWatch, "with-watch", false, "同時啟動 watchlist 排程, 結果推送到 /ws/analyses")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if apiPort != "" {
		deps.cfg.Port = apiPort
	}

	hub := handlers.NewStreamHub(deps.log)
	analyzeHandler := handlers.NewAnalyzeHandler(deps.analyzer, deps.log)
	router := api.NewRouter(analyzeHandler, hub, deps.log)
	server := api.New(deps.cfg, deps.log, router)

	var sched *scheduler.Scheduler
	if apiWithWatch {
		var prices *store.PriceRepository
		if deps.db != nil {
			prices = store.NewPriceRepository(deps.db.Pool)
		}
		sched = scheduler.New(deps.analyzer, deps.registry, prices, hub, deps.cfg.Watch, deps.log)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start watchlist scheduler: %w", err)
		}
	}

	go func() {
		if err := server.Start(); err != nil {
			deps.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", deps.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
