package fixedincome

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crivelaro/garimpo/internal/contracts"
)

// Repository loads the curated offer list.
// SSOT: fixed-income offers are read here and nowhere else.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListOffers returns every active offer, newest quotes first.
func (r *Repository) ListOffers(ctx context.Context) ([]contracts.Offer, error) {
	query := `
		SELECT type, issuer, rate_type, rate_val, maturity,
		       min_investment, risk_score, safety_rating, liquidity
		FROM fixed_income_offers
		WHERE active = TRUE
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []contracts.Offer
	for rows.Next() {
		var o contracts.Offer
		if err := rows.Scan(
			&o.Type, &o.Issuer, &o.RateType, &o.RateVal, &o.Maturity,
			&o.MinInvestment, &o.RiskScore, &o.SafetyRating, &o.Liquidity,
		); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// ReplaceOffers swaps the active offer set inside one transaction.
func (r *Repository) ReplaceOffers(ctx context.Context, offers []contracts.Offer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE fixed_income_offers SET active = FALSE WHERE active = TRUE`); err != nil {
		return err
	}

	query := `
		INSERT INTO fixed_income_offers
			(type, issuer, rate_type, rate_val, maturity,
			 min_investment, risk_score, safety_rating, liquidity, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, NOW())
	`
	for _, o := range offers {
		if _, err := tx.Exec(ctx, query,
			o.Type, o.Issuer, o.RateType, o.RateVal, o.Maturity,
			o.MinInvestment, o.RiskScore, o.SafetyRating, o.Liquidity,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
