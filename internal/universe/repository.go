// Package universe owns the materialization of asset-class universes: the
// Postgres store the scrapers write into and the snapshot provider the
// engines read from.
package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crivelaro/garimpo/internal/contracts"
)

// Repository persists instrument rows per asset class.
// SSOT: universe reads and writes go through here only.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const instrumentColumns = `
	ticker, market, setor, segmento,
	price, valor_mercado, patrimonio_liquido, liquidezmediadiaria,
	pl, pvp, lpa, vpa, ev_ebit, ev_ebitda,
	roe, roic, roa, margem_liquida,
	dy, payout, div_pat, div_liq_ebitda, div_liq_patri,
	cagr_lucros, retorno_12m, queda_do_maximo,
	taxa_admin, volatilidade, vacancia, qtd_imoveis`

// Load returns the universe snapshot for one asset class, stamped with the
// latest refresh time of that class.
func (r *Repository) Load(ctx context.Context, class contracts.AssetClass) (*contracts.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM instruments
		WHERE asset_class = $1
		ORDER BY ticker ASC
	`, instrumentColumns)

	rows, err := r.pool.Query(ctx, query, string(class))
	if err != nil {
		return nil, fmt.Errorf("load universe %s: %w", class, err)
	}
	defer rows.Close()

	var instruments []contracts.Instrument
	for rows.Next() {
		var inst contracts.Instrument
		var setor, segmento *string
		if err := rows.Scan(
			&inst.Ticker, &inst.Market, &setor, &segmento,
			&inst.Price, &inst.ValorMercado, &inst.PatrimonioLiquido, &inst.Liquidez,
			&inst.PL, &inst.PVP, &inst.LPA, &inst.VPA, &inst.EVEBIT, &inst.EVEBITDA,
			&inst.ROE, &inst.ROIC, &inst.ROA, &inst.MargemLiquida,
			&inst.DY, &inst.Payout, &inst.DivPat, &inst.DivLiqEBITDA, &inst.DivLiqPat,
			&inst.CAGRLucros, &inst.Retorno12M, &inst.QuedaMaximo,
			&inst.TaxaAdmin, &inst.Volatilidade, &inst.Vacancia, &inst.QtdImoveis,
		); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		if setor != nil {
			inst.Setor = *setor
		}
		if segmento != nil {
			inst.Segmento = *segmento
		}
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	version, err := r.lastRefresh(ctx, class)
	if err != nil {
		return nil, err
	}

	return &contracts.Snapshot{
		Class:       class,
		Version:     version,
		Instruments: instruments,
	}, nil
}

// Upsert replaces the stored attributes of each instrument, keyed on
// (asset_class, ticker), and bumps the class refresh timestamp.
func (r *Repository) Upsert(ctx context.Context, class contracts.AssetClass, instruments []contracts.Instrument) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO instruments (asset_class, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		ON CONFLICT (asset_class, ticker) DO UPDATE SET
			market = EXCLUDED.market,
			setor = EXCLUDED.setor,
			segmento = EXCLUDED.segmento,
			price = EXCLUDED.price,
			valor_mercado = EXCLUDED.valor_mercado,
			patrimonio_liquido = EXCLUDED.patrimonio_liquido,
			liquidezmediadiaria = EXCLUDED.liquidezmediadiaria,
			pl = EXCLUDED.pl,
			pvp = EXCLUDED.pvp,
			lpa = EXCLUDED.lpa,
			vpa = EXCLUDED.vpa,
			ev_ebit = EXCLUDED.ev_ebit,
			ev_ebitda = EXCLUDED.ev_ebitda,
			roe = EXCLUDED.roe,
			roic = EXCLUDED.roic,
			roa = EXCLUDED.roa,
			margem_liquida = EXCLUDED.margem_liquida,
			dy = EXCLUDED.dy,
			payout = EXCLUDED.payout,
			div_pat = EXCLUDED.div_pat,
			div_liq_ebitda = EXCLUDED.div_liq_ebitda,
			div_liq_patri = EXCLUDED.div_liq_patri,
			cagr_lucros = EXCLUDED.cagr_lucros,
			retorno_12m = EXCLUDED.retorno_12m,
			queda_do_maximo = EXCLUDED.queda_do_maximo,
			taxa_admin = EXCLUDED.taxa_admin,
			volatilidade = EXCLUDED.volatilidade,
			vacancia = EXCLUDED.vacancia,
			qtd_imoveis = EXCLUDED.qtd_imoveis
	`, instrumentColumns)

	for _, inst := range instruments {
		ticker := contracts.NormalizeTicker(inst.Ticker)
		if ticker == "" {
			continue
		}
		if _, err := tx.Exec(ctx, query,
			string(class), ticker, string(inst.Market), nullStr(inst.Setor), nullStr(inst.Segmento),
			inst.Price, inst.ValorMercado, inst.PatrimonioLiquido, inst.Liquidez,
			inst.PL, inst.PVP, inst.LPA, inst.VPA, inst.EVEBIT, inst.EVEBITDA,
			inst.ROE, inst.ROIC, inst.ROA, inst.MargemLiquida,
			inst.DY, inst.Payout, inst.DivPat, inst.DivLiqEBITDA, inst.DivLiqPat,
			inst.CAGRLucros, inst.Retorno12M, inst.QuedaMaximo,
			inst.TaxaAdmin, inst.Volatilidade, inst.Vacancia, inst.QtdImoveis,
		); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", class, ticker, err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO universe_refreshes (asset_class, refreshed_at)
		VALUES ($1, NOW())
		ON CONFLICT (asset_class) DO UPDATE SET refreshed_at = NOW()
	`, string(class)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) lastRefresh(ctx context.Context, class contracts.AssetClass) (time.Time, error) {
	var ts time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT refreshed_at FROM universe_refreshes WHERE asset_class = $1
	`, string(class)).Scan(&ts)
	if err != nil {
		// No refresh recorded yet: an empty class is still servable.
		return time.Time{}, nil
	}
	return ts, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
