package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/params"
)

func TestIsHighRisk(t *testing.T) {
	check := NewRiskCheck(params.Default())

	risky, reason := check.IsHighRisk(contracts.Instrument{Ticker: "OIBR3"})
	assert.True(t, risky)
	assert.Equal(t, "blacklist", reason)

	risky, reason = check.IsHighRisk(contracts.Instrument{
		Ticker: "XPTO3",
		DivPat: contracts.Float(7.5),
	})
	assert.True(t, risky)
	assert.Equal(t, "debt/equity", reason)

	// At the threshold is still acceptable
	risky, _ = check.IsHighRisk(contracts.Instrument{
		Ticker: "XPTO3",
		DivPat: contracts.Float(5.0),
	})
	assert.False(t, risky)

	// Missing leverage data never trips the screen
	risky, _ = check.IsHighRisk(contracts.Instrument{Ticker: "WEGE3"})
	assert.False(t, risky)
}

func TestFilterRisky(t *testing.T) {
	check := NewRiskCheck(params.Default())
	universe := []contracts.Instrument{
		{Ticker: "WEGE3"},
		{Ticker: "GOLL4"},
		{Ticker: "XPTO3", DivPat: contracts.Float(9)},
		{Ticker: "ITSA4", DivPat: contracts.Float(1.2)},
	}

	kept, removed := check.Filter(universe)

	assert.Equal(t, 2, removed)
	tickers := []string{kept[0].Ticker, kept[1].Ticker}
	assert.Equal(t, []string{"WEGE3", "ITSA4"}, tickers)
}
