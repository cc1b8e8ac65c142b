package shipstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEnvelope = `{"collection":[{
	"id": 1,
	"unique_id": "5900008555",
	"status": "shipped",
	"total_weight": {"value": 2, "unit": "kg"},
	"order": {
		"id": 9,
		"state": "complete",
		"merchant": {"type": "retail", "id": 77}
	}
}]}`

func newAPIServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupHappyPath(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, sampleEnvelope, nil)
	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	defer client.httpc.CloseIdleConnections()

	report, err := Lookup(context.Background(), client, "5900008555", true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.False(t, report.APIError)
	require.NotNil(t, report.Shipment)
	require.NotNil(t, report.Order)
	require.NotNil(t, report.Merchant)

	shipmentByLabel := rowMap(ShipmentRows(report.Shipment))
	assert.Equal(t, "shipped", shipmentByLabel["status"])
	assert.Equal(t, "2 kg", shipmentByLabel["total_weight"])

	orderByLabel := rowMap(OrderRows(report.Order))
	assert.Equal(t, "complete", orderByLabel["state"])
	assert.Equal(t, "77", orderByLabel["merchant_id"])

	merchantByLabel := rowMap(MerchantRows(report.Merchant))
	assert.Equal(t, "retail", merchantByLabel["Type"])
	assert.Equal(t, "77", merchantByLabel["Merchant ID"])

	require.False(t, report.Flattened.Empty())
	assert.Contains(t, report.Flattened.Columns, "order.merchant.id")
	assert.True(t, report.RawIsJSON())
}

func rowMap(rows []Row) map[string]string {
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.Label] = r.Value
	}
	return m
}

func TestLookupAPIError(t *testing.T) {
	srv := newAPIServer(t, http.StatusNotFound, `{"error":"not found"}`, nil)
	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	defer client.httpc.CloseIdleConnections()

	report, err := Lookup(context.Background(), client, "590", true)
	require.NoError(t, err, "an API error status still yields a report")

	assert.True(t, report.APIError)
	assert.Nil(t, report.Shipment)
	assert.True(t, report.Flattened.Empty(), "entity processing halts on API errors")
	assert.True(t, report.RawIsJSON())
	assert.Contains(t, report.RawText(), "not found")
}

func TestLookupEmptyIdentifier(t *testing.T) {
	var hits atomic.Int32
	srv := newAPIServer(t, http.StatusOK, sampleEnvelope, &hits)
	client := NewClient(srv.URL+"/shipments/", "tok", 0)

	_, err := Lookup(context.Background(), client, "   ", true)
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
	assert.Zero(t, hits.Load(), "no HTTP call may be issued for an empty identifier")
}

func TestLookupMissingToken(t *testing.T) {
	var hits atomic.Int32
	srv := newAPIServer(t, http.StatusOK, sampleEnvelope, &hits)
	client := NewClient(srv.URL+"/shipments/", "  ", 0)

	_, err := Lookup(context.Background(), client, "590", true)
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Zero(t, hits.Load())
}

func TestLookupMalformedEnvelope(t *testing.T) {
	// A wrong-shaped 200 is "no record found", not an error.
	srv := newAPIServer(t, http.StatusOK, `{"collection":"oops"}`, nil)
	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	defer client.httpc.CloseIdleConnections()

	report, err := Lookup(context.Background(), client, "590", true)
	require.NoError(t, err)
	assert.False(t, report.APIError)
	assert.Nil(t, report.Shipment)
	assert.True(t, report.RawIsJSON(), "the raw JSON still renders below the warning")
}

func TestLookupNonJSONBody(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, "plain text gateway message", nil)
	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	defer client.httpc.CloseIdleConnections()

	report, err := Lookup(context.Background(), client, "590", true)
	require.NoError(t, err)
	assert.False(t, report.RawIsJSON())
	assert.Equal(t, "plain text gateway message", report.RawText())
	assert.Nil(t, report.Shipment)

	// The flattener still produces its single-cell fallback table.
	require.False(t, report.Flattened.Empty())
	assert.Equal(t, []string{"raw"}, report.Flattened.Columns)
}

func TestLookupHTMLErrorBody(t *testing.T) {
	srv := newAPIServer(t, http.StatusBadGateway,
		`<!DOCTYPE html><html><head><title>502</title></head><body><h1>Bad Gateway</h1></body></html>`, nil)
	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	defer client.httpc.CloseIdleConnections()

	report, err := Lookup(context.Background(), client, "590", true)
	require.NoError(t, err)
	assert.True(t, report.APIError)
	assert.False(t, report.RawIsJSON())
	assert.Contains(t, report.RawText(), "Bad Gateway")
	assert.NotContains(t, report.RawText(), "<h1>", "HTML bodies reduce to readable text")
}
