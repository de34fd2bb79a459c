package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selekti/landedcost/internal/metrics"
	"github.com/selekti/landedcost/internal/quote"
)

const productPage = `<!doctype html>
<html>
<head>
<meta property="og:title" content="Trail Running Shoes GT-2">
<meta property="product:price:amount" content="120">
<meta property="product:price:currency" content="EUR">
</head>
<body></body>
</html>`

type stubFetcher struct {
	body string
}

func (f stubFetcher) Get(_ context.Context, _ string) (string, error) {
	return f.body, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := quote.NewService(quote.Options{Fetcher: stubFetcher{body: productPage}})
	require.NoError(t, err)
	return NewRouter(NewHandlers(svc, nil), metrics.New(), nil)
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQuoteLinkEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/quote/link", LinkQuoteRequest{URL: "https://shop.example.de/p/gt2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LinkQuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.NotNil(t, resp.Detected)
	require.NotNil(t, resp.Estimate)
	assert.Equal(t, "Trail Running Shoes GT-2", resp.Detected.Title)
	assert.Equal(t, "EU", resp.Detected.Zone)
	assert.Equal(t, "shop.example.de", resp.Detected.Store)
	// 120 EUR at 7.45 is 894 DKK.
	assert.Equal(t, 894, resp.Estimate.ItemDKK)
	assert.Contains(t, resp.Notes, quote.DisclaimerNote)
}

func TestQuoteLinkSuccessBodyIsFlat(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/quote/link", LinkQuoteRequest{URL: "https://shop.example.de/p/gt2"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Clients read detected, estimate and notes as top-level keys.
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "detected")
	assert.Contains(t, body, "estimate")
	assert.Contains(t, body, "notes")
	assert.NotContains(t, body, "quote")

	var detected map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["detected"], &detected))
	assert.Contains(t, detected, "priceOriginal")
	assert.Contains(t, detected, "priceDKK")
}

func TestQuoteLinkMissingURLIsBusinessError(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/quote/link", LinkQuoteRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LinkQuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, quote.CodeMissingURL, resp.Error)
}

func TestQuoteLinkInvalidURLEchoesURL(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/quote/link", LinkQuoteRequest{URL: "not a url"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LinkQuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, quote.CodeInvalidURL, resp.Error)
	assert.Equal(t, "not a url", resp.URL)
}

func TestQuoteLinkMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote/link", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LinkQuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, quote.CodeMissingURL, resp.Error)
}

func TestQuoteLinkWrongMethod(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quote/link", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, quote.CodeMethodNotAllowed, resp["error"])
}

func TestEstimateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", EstimateRequest{
		Price: 1000, Currency: "DKK", Zone: "EU", WeightKg: 0.8,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.NotNil(t, resp.Estimate)
	assert.Equal(t, 1000, resp.Estimate.ItemDKK)
	assert.Equal(t, 99, resp.Estimate.FreightDKK)
	assert.Contains(t, resp.Notes, quote.DisclaimerNote)
}

func TestEstimateUnsupportedCurrency(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", EstimateRequest{Price: 100, Currency: "XYZ", Zone: "EU"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "UNSUPPORTED_CURRENCY", resp.Error)
}

func TestEstimateNonPositivePriceYieldsNoBreakdown(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/estimate", EstimateRequest{Price: 0, Currency: "DKK", Zone: "EU"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Nil(t, resp.Estimate)
}

func TestPricingSnapshot(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pricing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PricingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "US", resp.DefaultZone)
	assert.Len(t, resp.Zones, 7)
	assert.Equal(t, "CN", resp.Zones[0].Code, "zones are sorted by code")
	assert.Equal(t, []float64{0.5, 1, 2, 5, 10, 15}, resp.WeightStepsKg)
	assert.Equal(t, 7.0, resp.Rates["USD"])
	assert.NotEmpty(t, resp.RatesUpdated)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpointMounted(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
