package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/g2g/internal/api"
	"github.com/wonny/g2g/internal/api/handlers"
	"github.com/wonny/g2g/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server used by the dashboard.

Endpoints:
  GET    /health                 - Health check
  GET    /api/watchlist          - score the default watchlist
  GET    /api/analyze?tickers=   - score several tickers (highest first)
  GET    /api/score/{ticker}     - score one ticker
  POST   /api/stocks             - add a ticker (scored, returns the list)
  DELETE /api/stocks             - remove a ticker
  GET    /api/check-ticker       - raw Yahoo data + score
  GET    /api/rating?score=      - label for a bare score
  GET    /api/sector-leaders     - best tickers per sector
  GET    /api/top-performers     - best tickers overall
  GET    /api/eps-history/{id}   - screener.in EPS history
  GET    /api/jobs               - scheduler job statistics (--with-scheduler)
  POST   /api/jobs/{name}/run    - start a job now (--with-scheduler)

Example:
  go run ./cmd/g2g api
  go run ./cmd/g2g api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT env var)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "also run the cache warm-up scheduler")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== G2G API Server ===")

	// 1. Build dependencies
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	d.log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// 2. Optional background scheduler
	var sched *scheduler.Scheduler
	if apiWithScheduler {
		sched, err = newScheduler(d)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 3. Create handlers
	h := api.Handlers{
		Score:  handlers.NewScoreHandler(d.analyzer, d.yahoo, d.log),
		Market: handlers.NewMarketHandler(d.analyzer, d.log),
		EPS:    handlers.NewEPSHandler(d.screener, d.cache, d.log),
	}
	if sched != nil {
		h.Jobs = handlers.NewJobsHandler(sched)
	}

	// 4. Create router and server
	router := api.NewRouter(h, d.log)
	server := api.New(d.cfg, d.log, router)

	// 5. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	d.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	d.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
