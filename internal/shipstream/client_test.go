package shipstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBuildQueryURL(t *testing.T) {
	base := "https://api.test/shipments/"

	u := BuildQueryURL(base, "  5900008555  ", true)
	assert.Equal(t, 1, strings.Count(u, "unique_id:5900008555"))
	assert.True(t, strings.HasSuffix(u, "expand=order"))
	assert.Equal(t, base+"?filter[]=unique_id:5900008555&expand=order", u)

	u = BuildQueryURL(base, "5900008555", false)
	assert.NotContains(t, u, "expand=order")
	assert.Equal(t, base+"?filter[]=unique_id:5900008555", u)
}

func TestHeaders(t *testing.T) {
	h := Headers("  tok-123  ")
	assert.Equal(t, "application/json", h["Content-Type"])
	assert.Equal(t, APIVersion, h["X-ShipStream-API-Version"])
	assert.Equal(t, "tok-123", h["X-AutomationV1-Auth"])
}

func TestClampTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, ClampTimeout(0))
	assert.Equal(t, MinTimeout, ClampTimeout(time.Second))
	assert.Equal(t, MaxTimeout, ClampTimeout(time.Hour))
	assert.Equal(t, 42*time.Second, ClampTimeout(42*time.Second))
}

func TestClientFetch(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("X-AutomationV1-Auth")
		gotVersion = r.Header.Get("X-ShipStream-API-Version")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"collection":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/shipments/", "tok-123", 0)
	defer client.httpc.CloseIdleConnections()

	res, err := client.Fetch(context.Background(), " 590 ", true)
	require.NoError(t, err)

	assert.Equal(t, "/shipments/", gotPath)
	assert.Equal(t, "filter[]=unique_id:590&expand=order", gotQuery)
	assert.Equal(t, "tok-123", gotAuth)
	assert.Equal(t, APIVersion, gotVersion)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"collection":[]}`, string(res.Body))
}

func TestClientFetchErrorStatusIsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	defer client.httpc.CloseIdleConnections()

	res, err := client.Fetch(context.Background(), "590", false)
	require.NoError(t, err, "an HTTP error status is a result, not a transport failure")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.JSONEq(t, `{"error":"not found"}`, string(res.Body))
}

func TestClientFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := NewClient(srv.URL+"/shipments/", "tok", 0)
	_, err := client.Fetch(context.Background(), "590", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach shipment API")
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", "tok", time.Second)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, MinTimeout, client.timeout)
}
