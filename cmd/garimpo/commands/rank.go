package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
	"github.com/crivelaro/garimpo/internal/fixedincome"
	"github.com/crivelaro/garimpo/internal/strategies"
	"github.com/crivelaro/garimpo/internal/universe"
	"github.com/crivelaro/garimpo/pkg/database"
	"github.com/crivelaro/garimpo/pkg/logger"
	"github.com/crivelaro/garimpo/pkg/redis"
)

var rankCmd = &cobra.Command{
	Use:   "rank [classe] [estrategia]",
	Short: "Executa uma estratégia e imprime o ranking",
	Long: `Executa uma estratégia sobre o universo persistido.

Classes: acoes, fiis, etfs, rendafixa

Example:
  go run ./cmd/garimpo rank acoes graham
  go run ./cmd/garimpo rank fiis renda_constante --top 10
  go run ./cmd/garimpo rank rendafixa duelo_tributario --json`,
	Args: cobra.ExactArgs(2),
	RunE: runRank,
}

var (
	rankMinLiq   float64
	rankTopN     int
	rankHighRisk bool
	rankJSON     bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().Float64Var(&rankMinLiq, "min-liq", -1, "liquidez mínima diária (default: config)")
	rankCmd.Flags().IntVar(&rankTopN, "top", 0, "tamanho do ranking (default: config)")
	rankCmd.Flags().BoolVar(&rankHighRisk, "high-risk", false, "inclui ativos de alto risco")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "saída em JSON")
}

func runRank(cmd *cobra.Command, args []string) error {
	class, strategy := args[0], args[1]

	cfg, log, p, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if class == string(contracts.ClassRendaFixa) {
		return rankFixedIncome(ctx, db, strategy, log)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	provider := universe.NewProvider(universe.NewRepository(db.Pool), redis.NewCache(redisClient, "garimpo"), log)

	snap, err := provider.Snapshot(ctx, contracts.AssetClass(class))
	if err != nil {
		return fmt.Errorf("load %s universe: %w", class, err)
	}

	opts := strategies.Options{
		MinLiquidity: cfg.Engine.MinLiquidity,
		TopN:         cfg.Engine.TopN,
		ShowHighRisk: rankHighRisk,
	}
	if rankMinLiq >= 0 {
		opts.MinLiquidity = rankMinLiq
	}
	if rankTopN > 0 {
		opts.TopN = rankTopN
	}

	result := strategies.NewEngine(p, log).Apply(snap, strategy, opts)

	if rankJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printCaveats(result.Caveats)
	fmt.Printf("%-4s %-8s %12s   %s\n", "#", "Ticker", "Preço", result.ScoreColumn.Label)
	for i, entry := range result.Ranking {
		score, ok := entry.Get(result.ScoreColumn.Key)
		if !ok {
			// Score columns may point at a raw attribute instead of a
			// derived value.
			score, _ = engine.Value(entry.Instrument, result.ScoreColumn.Key)
		}
		if result.ScoreColumn.IsPercent {
			score *= 100
		}
		fmt.Printf("%-4d %-8s %12.2f   %.2f\n", i+1, entry.Ticker, deref(entry.Price), score)
	}
	fmt.Printf("\n%d de %d ativos\n", len(result.Ranking), result.TotalCount)
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func rankFixedIncome(ctx context.Context, db *database.DB, strategy string, log *logger.Logger) error {
	offers, err := fixedincome.NewRepository(db.Pool).ListOffers(ctx)
	if err != nil {
		return fmt.Errorf("load offers: %w", err)
	}

	result := fixedincome.NewEngine(log).Apply(offers, strategy)

	if rankJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printCaveats(result.Caveats)
	fmt.Printf("%-4s %-30s %-12s %10s\n", "#", "Emissor", "Tipo", "Taxa")
	for i, offer := range result.Ranking {
		fmt.Printf("%-4d %-30s %-12s %10.2f\n", i+1, offer.Issuer, offer.Type, offer.RateVal)
	}
	fmt.Printf("\n%d de %d ofertas\n", len(result.Ranking), result.TotalCount)
	return nil
}

func printCaveats(caveats []string) {
	for _, c := range caveats {
		fmt.Printf("! %s\n", c)
	}
	if len(caveats) > 0 {
		fmt.Println(strings.Repeat("-", 40))
	}
}
