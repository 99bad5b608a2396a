package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crivelaro/garimpo/internal/external/statusinvest"
	"github.com/crivelaro/garimpo/internal/external/yahoo"
	"github.com/crivelaro/garimpo/internal/scheduler"
	"github.com/crivelaro/garimpo/internal/scheduler/jobs"
	"github.com/crivelaro/garimpo/internal/universe"
	"github.com/crivelaro/garimpo/pkg/database"
	"github.com/crivelaro/garimpo/pkg/redis"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Roda só o scheduler de atualização",
	Long: `Roda o scheduler de atualização dos universos sem o servidor HTTP,
para deploys em que a API e a coleta ficam em processos separados.

Example:
  go run ./cmd/garimpo scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, _, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	universeRepo := universe.NewRepository(db.Pool)
	provider := universe.NewProvider(universeRepo, redis.NewCache(redisClient, "garimpo"), log)

	sched := scheduler.New(log)
	job := jobs.NewRefreshJob(
		statusinvest.New(cfg, log),
		yahoo.New(cfg, log),
		universeRepo,
		provider,
		cfg.RefreshCron,
		log,
	)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}

	sched.Start()
	fmt.Printf("Scheduler running (%s)\nPress Ctrl+C to stop\n", cfg.RefreshCron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
