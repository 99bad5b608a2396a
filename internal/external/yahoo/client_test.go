package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/httputil"
	"github.com/crivelaro/garimpo/pkg/logger"
)

func testClient(baseURL string) *Client {
	log := logger.New(&config.Config{Env: "test", LogLevel: "error"})
	return &Client{http: httputil.New(log).DisableRetry(), baseURL: baseURL, log: log}
}

func TestETFsMapsQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "BOVA11.SA,IVVB11.SA", r.URL.Query().Get("symbols"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteResponse": {
				"result": [
					{"symbol": "BOVA11.SA", "regularMarketPrice": 120.0,
					 "averageDailyVolume3Month": 100000,
					 "fiftyTwoWeekChangePercent": 14.2,
					 "trailingAnnualDividendYield": 0.0},
					{"symbol": "IVVB11.SA", "regularMarketPrice": 310.5}
				]
			}
		}`))
	}))
	defer srv.Close()

	etfs, err := testClient(srv.URL).ETFs(context.Background(), []string{"BOVA11.SA", "IVVB11.SA"})
	require.NoError(t, err)
	require.Len(t, etfs, 2)

	bova := etfs[0]
	assert.Equal(t, "BOVA11", bova.Ticker)
	assert.Equal(t, contracts.MarketDomestic, bova.Market)
	require.NotNil(t, bova.Liquidez)
	assert.Equal(t, 12000000.0, *bova.Liquidez)
	require.NotNil(t, bova.Retorno12M)
	assert.Equal(t, 14.2, *bova.Retorno12M)

	ivvb := etfs[1]
	// No volume quote, no liquidity estimate
	assert.Nil(t, ivvb.Liquidez)
	assert.Nil(t, ivvb.Retorno12M)
}

func TestETFsEmptySymbolList(t *testing.T) {
	etfs, err := testClient("http://unused").ETFs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, etfs)
}

func TestMarketFromSymbol(t *testing.T) {
	assert.Equal(t, contracts.MarketDomestic, market("BOVA11.SA"))
	assert.Equal(t, contracts.MarketForeign, market("VOO"))
}
