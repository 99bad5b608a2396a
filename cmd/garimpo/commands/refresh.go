package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crivelaro/garimpo/internal/external/statusinvest"
	"github.com/crivelaro/garimpo/internal/external/yahoo"
	"github.com/crivelaro/garimpo/internal/scheduler/jobs"
	"github.com/crivelaro/garimpo/internal/universe"
	"github.com/crivelaro/garimpo/pkg/database"
	"github.com/crivelaro/garimpo/pkg/redis"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Atualiza os universos agora",
	Long: `Busca ações, FIIs e ETFs nas fontes externas e persiste os universos,
invalidando os snapshots em cache.

Example:
  go run ./cmd/garimpo refresh`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
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

	job := jobs.NewRefreshJob(
		statusinvest.New(cfg, log),
		yahoo.New(cfg, log),
		universeRepo,
		provider,
		cfg.RefreshCron,
		log,
	)

	if err := job.Run(context.Background()); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	fmt.Println("Universos atualizados")
	return nil
}
