// Package statusinvest pulls the Brazilian stock and FII universes from the
// StatusInvest advanced-search API, plus per-fund details scraped from the
// fund pages. The portal throttles aggressively; every request goes through
// the shared rate-limited HTTP client.
package statusinvest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/httputil"
	"github.com/crivelaro/garimpo/pkg/logger"
)

const pageSize = 1000

type Client struct {
	http    *httputil.Client
	baseURL string
	log     *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Client {
	hc := httputil.New(log).
		WithUserAgent(cfg.StatusInvest.UserAgent).
		WithRateLimit(cfg.StatusInvest.RateLimit)
	return &Client{http: hc, baseURL: cfg.StatusInvest.BaseURL, log: log}
}

// searchPage is the paginated advanced-search envelope.
type searchPage struct {
	List         []searchItem `json:"list"`
	TotalResults int          `json:"totalResults"`
}

// searchItem carries the subset of the (all-lowercase) API columns the
// screening universe consumes. Absent columns stay nil.
type searchItem struct {
	Ticker     string `json:"ticker"`
	SectorName string `json:"sectorname"`
	Segment    string `json:"segment"`

	Price         *float64 `json:"price"`
	PL            *float64 `json:"p_l"`
	PVP           *float64 `json:"p_vp"`
	EVEBIT        *float64 `json:"ev_ebit"`
	ROIC          *float64 `json:"roic"`
	ROE           *float64 `json:"roe"`
	ROA           *float64 `json:"roa"`
	DY            *float64 `json:"dy"`
	LPA           *float64 `json:"lpa"`
	VPA           *float64 `json:"vpa"`
	MargemLiquida *float64 `json:"margemliquida"`
	DivPat        *float64 `json:"dividaliquidapatrimonioliquido"`
	DivLiqEBITDA  *float64 `json:"dividaliquidaebit"`
	CAGRLucros    *float64 `json:"lucros_cagr5"`
	Liquidez      *float64 `json:"liquidezmediadiaria"`
	ValorMercado  *float64 `json:"valormercado"`
	Patrimonio    *float64 `json:"patrimonio"`
}

// Stocks fetches the full stock universe.
func (c *Client) Stocks(ctx context.Context) ([]contracts.Instrument, error) {
	items, err := c.fetchAll(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("statusinvest stocks: %w", err)
	}
	return c.toInstruments(items), nil
}

// FIIs fetches the full real-estate-fund universe. Segment, vacancy and
// property count come from the per-fund pages; see EnrichFIIs.
func (c *Client) FIIs(ctx context.Context) ([]contracts.Instrument, error) {
	items, err := c.fetchAll(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("statusinvest fiis: %w", err)
	}
	return c.toInstruments(items), nil
}

// fetchAll walks the paginated endpoint until it has every row. The portal
// occasionally reports more totalResults than unique rows, so pagination
// also stops on a short page and duplicates are dropped by ticker.
func (c *Client) fetchAll(ctx context.Context, categoryType int) ([]searchItem, error) {
	var all []searchItem
	skip := 0

	for {
		params := url.Values{}
		params.Set("search", "{}")
		params.Set("CategoryType", fmt.Sprintf("%d", categoryType))
		params.Set("take", fmt.Sprintf("%d", pageSize))
		params.Set("page", "0")
		params.Set("skip", fmt.Sprintf("%d", skip))

		endpoint := fmt.Sprintf("%s/category/advancedsearchresultpaginated?%s", c.baseURL, params.Encode())

		var page searchPage
		if err := c.http.GetJSON(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		if len(page.List) == 0 {
			break
		}

		all = append(all, page.List...)
		c.log.Debugf("[statusinvest] category=%d got %d rows (%d/%d)", categoryType, len(page.List), len(all), page.TotalResults)

		skip += pageSize
		if skip >= page.TotalResults || len(page.List) < pageSize {
			break
		}
	}

	seen := make(map[string]bool, len(all))
	unique := all[:0]
	for _, item := range all {
		t := contracts.NormalizeTicker(item.Ticker)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, item)
	}
	return unique, nil
}

func (c *Client) toInstruments(items []searchItem) []contracts.Instrument {
	out := make([]contracts.Instrument, 0, len(items))
	for _, item := range items {
		out = append(out, contracts.Instrument{
			Ticker:   contracts.NormalizeTicker(item.Ticker),
			Market:   contracts.MarketDomestic,
			Setor:    item.SectorName,
			Segmento: item.Segment,

			Price:             item.Price,
			ValorMercado:      item.ValorMercado,
			PatrimonioLiquido: item.Patrimonio,
			Liquidez:          item.Liquidez,

			PL:     item.PL,
			PVP:    item.PVP,
			LPA:    item.LPA,
			VPA:    item.VPA,
			EVEBIT: item.EVEBIT,

			// The portal quotes percentages as whole numbers; the
			// universe stores fractions.
			ROE:           asFraction(item.ROE),
			ROIC:          asFraction(item.ROIC),
			ROA:           asFraction(item.ROA),
			MargemLiquida: asFraction(item.MargemLiquida),
			DY:            asFraction(item.DY),
			CAGRLucros:    asFraction(item.CAGRLucros),

			DivPat:       item.DivPat,
			DivLiqEBITDA: item.DivLiqEBITDA,
		})
	}
	return out
}

func asFraction(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v / 100
	return &out
}
