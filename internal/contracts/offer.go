package contracts

// Offer is a fixed-income product quote. Unlike the tabular universe these
// come as a short curated list, so attributes are plain values with the
// textual fields carrying free-form descriptors from the aggregators.
type Offer struct {
	Type          string  `json:"type"`      // CDB, LCI, LCA, CRI, CRA, Tesouro
	Issuer        string  `json:"issuer"`
	RateType      string  `json:"rate_type"` // Pos-fixado, Pré-fixado, IPCA+, Isento
	RateVal       float64 `json:"rate_val"`  // % CDI, % a.a. or IPCA spread, per RateType
	Maturity      string  `json:"maturity"`  // date string, parsed leniently
	MinInvestment float64 `json:"min_investment"`
	RiskScore     int     `json:"risk_score"` // 1 (safest) .. 5 (riskiest)
	SafetyRating  string  `json:"safety_rating"`
	Liquidity     string  `json:"liquidity"`
}

// RankedOffer is an offer plus the tax fields derived by the gross-up
// model. For non-exempt products the gross rate equals the quoted rate.
type RankedOffer struct {
	Offer
	GrossRate float64 `json:"_taxa_bruta_equiv,omitempty"`
	Exempt    bool    `json:"_is_exempt,omitempty"`
	IRRate    float64 `json:"_aliquota_ir,omitempty"` // percentage points
	Score     float64 `json:"score,omitempty"`
}

// OfferResult mirrors Result for the fixed-income engine.
type OfferResult struct {
	Ranking     []RankedOffer `json:"ranking"`
	ScoreColumn ScoreColumn   `json:"score_column"`
	Caveats     []string      `json:"caveats"`
	TotalCount  int           `json:"total_count"`
}
