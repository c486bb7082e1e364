package shiprocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dujiao-next/storefront/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, logins *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(logins, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1"}`))
	})
	mux.HandleFunc("/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthenticated"}`))
			return
		}
		var payload OrderPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.OrderID == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"order_id is required"}`))
			return
		}
		_, _ = w.Write([]byte(`{"order_id":555,"shipment_id":777,"status":"NEW"}`))
	})
	mux.HandleFunc("/courier/track/shipment/777", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracking_data":{"shipment_status":7}}`))
	})
	mux.HandleFunc("/shipments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	})
	return httptest.NewServer(mux)
}

func TestTokenCachedAfterLogin(t *testing.T) {
	var logins int32
	server := newTestServer(t, &logins)
	defer server.Close()

	store := cache.NewMemoryStore()
	client := NewClient(Config{Email: "ops@example.com", Password: "pw", APIBaseURL: server.URL}, store)

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	token, err = client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&logins))

	cached, hit, err := store.Get(context.Background(), cache.KeyShiprocketToken)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "tok-1", string(cached))
}

func TestLoginFailure(t *testing.T) {
	var logins int32
	server := newTestServer(t, &logins)
	defer server.Close()

	client := NewClient(Config{Email: "ops@example.com", Password: "bad", APIBaseURL: server.URL}, cache.NewMemoryStore())
	_, err := client.Login(context.Background())
	assert.True(t, errors.Is(err, ErrAuthFailed))

	client = NewClient(Config{APIBaseURL: server.URL}, nil)
	_, err = client.Login(context.Background())
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestCreateOrderAndTrack(t *testing.T) {
	var logins int32
	server := newTestServer(t, &logins)
	defer server.Close()

	client := NewClient(Config{Email: "ops@example.com", Password: "pw", APIBaseURL: server.URL}, cache.NewMemoryStore())
	result, err := client.CreateOrder(context.Background(), OrderPayload{OrderID: "100000", PickupLocation: client.PickupLocation()})
	require.NoError(t, err)
	assert.Equal(t, "555", result.OrderID)
	assert.Equal(t, "777", result.ShipmentID)

	_, err = client.CreateOrder(context.Background(), map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))

	tracking, err := client.Track(context.Background(), "777")
	require.NoError(t, err)
	assert.NotNil(t, tracking["tracking_data"])
}

func TestNonJSONResponse(t *testing.T) {
	var logins int32
	server := newTestServer(t, &logins)
	defer server.Close()

	client := NewClient(Config{Email: "ops@example.com", Password: "pw", APIBaseURL: server.URL}, cache.NewMemoryStore())
	_, err := client.ListShipments(context.Background())
	assert.True(t, errors.Is(err, ErrResponseInvalid))
}
