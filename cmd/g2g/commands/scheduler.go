package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/g2g/internal/scheduler"
	"github.com/wonny/g2g/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the scheduler",
	Long: `Starts the cache warm-up scheduler or manages its jobs.

Subcommands:
  start   - start the scheduler
  list    - list registered jobs
  run     - run a job now and wait for it

Example:
  go run ./cmd/g2g scheduler start
  go run ./cmd/g2g scheduler list
  go run ./cmd/g2g scheduler run watchlist_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler with every registered job.

Registered jobs:
- watchlist_refresh: WATCHLIST_REFRESH_CRON (every 15 minutes by default)

Stop it with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var schedulerWithUniverse bool

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().BoolVar(&schedulerWithUniverse, "with-universe", true, "also warm the sector and top-performer pools")
}

// newScheduler registers every background job against d
func newScheduler(d *deps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.log).WithJobTimeout(d.cfg.Scheduler.JobTimeout)

	job := jobs.NewWatchlistRefreshJob(d.provider, d.catalog, d.cfg.Scheduler.WatchlistRefresh, schedulerWithUniverse, d.log)
	if err := sched.AddJob(job); err != nil {
		return nil, err
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== G2G Scheduler ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := newScheduler(d)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	printJobStats(sched.GetJobStats())
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := newScheduler(d)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	PrintList(sched.GetAllJobs())
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := newScheduler(d)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.RunNow(context.Background(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %s: %s", jobName, result.Duration, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintSuccess(fmt.Sprintf("%s completed in %s", jobName, result.Duration))
	return nil
}
