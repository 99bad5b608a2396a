package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crivelaro/garimpo/internal/api"
	"github.com/crivelaro/garimpo/internal/api/handlers"
	"github.com/crivelaro/garimpo/internal/external/statusinvest"
	"github.com/crivelaro/garimpo/internal/external/yahoo"
	"github.com/crivelaro/garimpo/internal/fixedincome"
	"github.com/crivelaro/garimpo/internal/scheduler"
	"github.com/crivelaro/garimpo/internal/scheduler/jobs"
	"github.com/crivelaro/garimpo/internal/strategies"
	"github.com/crivelaro/garimpo/internal/universe"
	"github.com/crivelaro/garimpo/pkg/database"
	"github.com/crivelaro/garimpo/pkg/redis"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inicia o servidor da API",
	Long: `Inicia o servidor REST com o scheduler de atualização embutido.

Endpoints:
  GET  /health
  GET  /api/strategies
  GET  /api/{acoes|fiis|etfs}/rank/{strategy}
  GET  /api/rendafixa/rank/{strategy}
  GET  /api/rendafixa/oportunidades
  POST /api/admin/refresh
  GET  /api/admin/jobs

Example:
  go run ./cmd/garimpo api
  go run ./cmd/garimpo api --port 8091 --no-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort     string
	noScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "porta do servidor (default: config)")
	apiCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "não inicia o scheduler embutido")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, p, err := bootstrap()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "garimpo")

	universeRepo := universe.NewRepository(db.Pool)
	provider := universe.NewProvider(universeRepo, cache, log)
	offerRepo := fixedincome.NewRepository(db.Pool)

	engine := strategies.NewEngine(p, log)
	fiEngine := fixedincome.NewEngine(log)

	// Scheduler keeps the universes fresh while the API runs.
	var sched *scheduler.Scheduler
	var admin *handlers.AdminHandler
	if !noScheduler {
		siClient := statusinvest.New(cfg, log)
		yahooClient := yahoo.New(cfg, log)

		sched = scheduler.New(log)
		refresh := jobs.NewRefreshJob(siClient, yahooClient, universeRepo, provider, cfg.RefreshCron, log)
		if err := sched.AddJob(refresh); err != nil {
			return fmt.Errorf("register refresh job: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		admin = handlers.NewAdminHandler(sched, log)
	}

	rank := handlers.NewRankHandler(provider, engine, fiEngine.Strategies(), cfg.Engine, log)
	fi := handlers.NewFixedIncomeHandler(offerRepo, fiEngine, log)

	router := api.NewRouter(rank, fi, admin, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
