package statusinvest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/crivelaro/garimpo/internal/contracts"
)

// FIIDetails holds the fund attributes that only exist on the fund page,
// not in the advanced-search payload.
type FIIDetails struct {
	Segmento   string
	Vacancia   *float64 // fraction
	QtdImoveis *float64
}

// FIIDetails scrapes one fund page for segment, physical vacancy and
// property count.
func (c *Client) FIIDetails(ctx context.Context, ticker string) (*FIIDetails, error) {
	endpoint := fmt.Sprintf("%s/fundos-imobiliarios/%s", c.baseURL, strings.ToLower(contracts.NormalizeTicker(ticker)))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fii page %s: %w", ticker, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fii page %s: status %d", ticker, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fii page %s: parse: %w", ticker, err)
	}

	details := &FIIDetails{}

	// The info cards pair a title element with a value element.
	doc.Find(".top-info .info, .fund-info .info").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".title").First().Text())
		value := strings.TrimSpace(s.Find(".value").First().Text())
		if value == "" {
			return
		}

		switch {
		case strings.EqualFold(title, "Segmento"):
			details.Segmento = value
		case strings.Contains(strings.ToLower(title), "vacância"):
			if v, ok := parseBRNumber(value); ok {
				frac := v / 100
				details.Vacancia = &frac
			}
		case strings.Contains(strings.ToLower(title), "imóveis"):
			if v, ok := parseBRNumber(value); ok {
				details.QtdImoveis = &v
			}
		}
	})

	return details, nil
}

// EnrichFIIs fills segment, vacancy and property count in place. Failures
// are per-fund: a fund whose page cannot be read keeps its sparse fields
// and the rest of the batch proceeds.
func (c *Client) EnrichFIIs(ctx context.Context, instruments []contracts.Instrument) {
	for i := range instruments {
		details, err := c.FIIDetails(ctx, instruments[i].Ticker)
		if err != nil {
			c.log.Warnf("[statusinvest] enrich %s: %v", instruments[i].Ticker, err)
			continue
		}
		if details.Segmento != "" {
			instruments[i].Segmento = details.Segmento
		}
		if details.Vacancia != nil {
			instruments[i].Vacancia = details.Vacancia
		}
		if details.QtdImoveis != nil {
			instruments[i].QtdImoveis = details.QtdImoveis
		}
	}
}

// parseBRNumber reads Brazilian-formatted numerics ("1.234,56", "12,5%").
func parseBRNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
