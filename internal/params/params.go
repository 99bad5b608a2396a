// Package params centralizes the empirically calibrated constants behind
// the strategy models. The thresholds are not hard invariants of the
// published methodologies; they are calibrations inherited from the data
// sources, so they live here as configuration with compiled-in defaults and
// an optional YAML override.
package params

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds every tunable constant the strategy libraries consume.
type Params struct {
	// Gordon dividend discount model
	GordonK float64 `yaml:"gordon_k"` // discount rate
	GordonG float64 `yaml:"gordon_g"` // perpetual growth

	// Bazin price ceilings (annual dividend / yield)
	BazinYield    float64 `yaml:"bazin_yield"`
	BazinFIIYield float64 `yaml:"bazin_fii_yield"`

	// Income model
	MinDividendYield float64 `yaml:"min_dividend_yield"` // fraction
	PayoutMin        float64 `yaml:"payout_min"`
	PayoutMax        float64 `yaml:"payout_max"`

	// Quality model and its proxies
	NetMarginMin       float64 `yaml:"net_margin_min"`
	ROICProxyMin       float64 `yaml:"roic_proxy_min"`
	LeverageMax        float64 `yaml:"leverage_max"`         // net debt / EBITDA
	DebtEquityProxyMax float64 `yaml:"debt_equity_proxy_max"`

	// Bazin leverage filter
	MaxDebtEquity float64 `yaml:"max_debt_equity"`

	// Small caps
	SmallCapMarketCapMax  float64 `yaml:"small_cap_market_cap_max"`
	SmallCapLiqPercentile float64 `yaml:"small_cap_liq_percentile"`
	SmallCapMinLiquidity  float64 `yaml:"small_cap_min_liquidity"`

	// Composite rank scorer
	MinLiquidity     float64 `yaml:"min_liquidity"`
	LiquidityPenalty float64 `yaml:"liquidity_penalty"`

	// Risk-adjusted return reference rate (Selic approximation)
	ReferenceRate float64 `yaml:"reference_rate"`

	// High-risk screening
	HighRiskDebtEquity float64  `yaml:"high_risk_debt_equity"`
	RiskyTickers       []string `yaml:"risky_tickers"`

	// Sector exclusion for the dual-rank model
	FinancialSectors []string `yaml:"financial_sectors"`

	// FII models
	FIIYieldPVPMin      float64  `yaml:"fii_yield_pvp_min"`
	FIIYieldPVPMax      float64  `yaml:"fii_yield_pvp_max"`
	FIIDiscountPVPMin   float64  `yaml:"fii_discount_pvp_min"`
	FIIDiscountPVPMax   float64  `yaml:"fii_discount_pvp_max"`
	FIIVacancyMax       float64  `yaml:"fii_vacancy_max"`
	FIIPremiumVacancy   float64  `yaml:"fii_premium_vacancy"`
	FIIPremiumPVPMax    float64  `yaml:"fii_premium_pvp_max"`
	FIIMinProperties    float64  `yaml:"fii_min_properties"`
	FIIAllowedSegments  []string `yaml:"fii_allowed_segments"`
	FIIMinLiquidity     float64  `yaml:"fii_min_liquidity"`

	// ETF models
	ETFMinNetAssets float64 `yaml:"etf_min_net_assets"`
	ETFMinLiquidity float64 `yaml:"etf_min_liquidity"`
}

// Default returns the calibrations the original spreadsheets and data
// sources were tuned with.
func Default() *Params {
	return &Params{
		GordonK: 0.10,
		GordonG: 0.03,

		BazinYield:    0.06,
		BazinFIIYield: 0.08,

		MinDividendYield: 0.06,
		PayoutMin:        0.30,
		PayoutMax:        0.80,

		NetMarginMin:       0.10,
		ROICProxyMin:       0.10,
		LeverageMax:        2.0,
		DebtEquityProxyMax: 2.0,

		MaxDebtEquity: 0.5,

		SmallCapMarketCapMax:  2_000_000_000,
		SmallCapLiqPercentile: 0.75,
		SmallCapMinLiquidity:  500_000,

		MinLiquidity:     500_000,
		LiquidityPenalty: 1000,

		ReferenceRate: 0.1375,

		HighRiskDebtEquity: 5.0,
		RiskyTickers: []string{
			"OIBR3", "OIBR4", "AMER3", "GOLL4", "LIGT3", "RCSL4",
		},

		FinancialSectors: []string{
			"Bancos", "Seguros", "Financeiro", "Previdência", "Banco",
		},

		FIIYieldPVPMin:    0.80,
		FIIYieldPVPMax:    1.10,
		FIIDiscountPVPMin: 0.40,
		FIIDiscountPVPMax: 0.95,
		FIIVacancyMax:     0.15,
		FIIPremiumVacancy: 0.10,
		FIIPremiumPVPMax:  1.05,
		FIIMinProperties:  3,
		FIIAllowedSegments: []string{
			"lajes corporativas", "galpões logísticos", "shoppings",
			"lajes comerciais", "logística", "shopping",
		},
		FIIMinLiquidity: 500_000,

		ETFMinNetAssets: 50_000_000,
		ETFMinLiquidity: 1_000_000,
	}
}

// Load reads a YAML override file on top of the defaults. Unknown fields
// fail immediately so a typo cannot silently fall back to a default.
func Load(path string) (*Params, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("decode params file: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects combinations that would make models degenerate.
func (p *Params) Validate() error {
	if p.GordonK <= p.GordonG {
		return fmt.Errorf("gordon_k (%.4f) must exceed gordon_g (%.4f)", p.GordonK, p.GordonG)
	}
	if p.BazinYield <= 0 || p.BazinFIIYield <= 0 {
		return fmt.Errorf("bazin yields must be positive")
	}
	if p.PayoutMin >= p.PayoutMax {
		return fmt.Errorf("payout_min must be below payout_max")
	}
	if p.SmallCapLiqPercentile <= 0 || p.SmallCapLiqPercentile >= 1 {
		return fmt.Errorf("small_cap_liq_percentile must be in (0, 1)")
	}
	if p.LiquidityPenalty <= 0 {
		return fmt.Errorf("liquidity_penalty must be positive")
	}
	return nil
}

// IsFinancialSector reports whether a sector label belongs to the excluded
// financial group.
func (p *Params) IsFinancialSector(sector string) bool {
	for _, s := range p.FinancialSectors {
		if s == sector {
			return true
		}
	}
	return false
}
