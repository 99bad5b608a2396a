// Package yahoo fetches ETF quotes from the Yahoo Finance quote API, which
// covers the listed ETFs the Brazilian portals do not.
package yahoo

import (
	"context"
	"fmt"
	"strings"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/httputil"
	"github.com/crivelaro/garimpo/pkg/logger"
)

type Client struct {
	http    *httputil.Client
	baseURL string
	log     *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Client {
	hc := httputil.New(log).WithRateLimit(2)
	return &Client{http: hc, baseURL: cfg.Yahoo.BaseURL, log: log}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quote `json:"result"`
	} `json:"quoteResponse"`
}

type quote struct {
	Symbol                      string   `json:"symbol"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"` // fraction
	FiftyTwoWeekChangePercent   *float64 `json:"fiftyTwoWeekChangePercent"`   // percent
	AverageDailyVolume3Month    *float64 `json:"averageDailyVolume3Month"`
	NetAssets                   *float64 `json:"netAssets"`
}

// ETFs fetches quotes for the given symbols and maps them onto the
// screening universe schema. Average traded value approximates daily
// liquidity as volume times price.
func (c *Client) ETFs(ctx context.Context, symbols []string) ([]contracts.Instrument, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, strings.Join(symbols, ","))

	var resp quoteResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("yahoo quotes: %w", err)
	}

	out := make([]contracts.Instrument, 0, len(resp.QuoteResponse.Result))
	for _, q := range resp.QuoteResponse.Result {
		inst := contracts.Instrument{
			Ticker:            contracts.NormalizeTicker(q.Symbol),
			Market:            market(q.Symbol),
			Price:             q.RegularMarketPrice,
			DY:                q.TrailingAnnualDividendYield,
			Retorno12M:        q.FiftyTwoWeekChangePercent,
			PatrimonioLiquido: q.NetAssets,
		}
		if q.AverageDailyVolume3Month != nil && q.RegularMarketPrice != nil {
			inst.Liquidez = contracts.Float(*q.AverageDailyVolume3Month * *q.RegularMarketPrice)
		}
		out = append(out, inst)
	}

	c.log.Debugf("[yahoo] %d/%d ETF quotes resolved", len(out), len(symbols))
	return out, nil
}

func market(symbol string) contracts.Market {
	if strings.HasSuffix(strings.ToUpper(symbol), ".SA") {
		return contracts.MarketDomestic
	}
	return contracts.MarketForeign
}
