package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voice-intake-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreate(t *testing.T) {
	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_id": "ord_123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	payload := BuildPayload(store.SlotState{ProductName: "olive oil", Quantity: 2, Retailer: "Amazon"}, "strands")

	orderID, err := client.Create(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, "ord_123", orderID)
	assert.Equal(t, "olive oil", received.Product.Name)
	assert.Equal(t, 2, received.Product.Quantity)
}

func TestClientCreateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Invalid retailer"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Create(context.Background(), Payload{})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "Invalid retailer", rejected.Detail)
}

func TestClientCreateRejectedWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Create(context.Background(), Payload{})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Unknown error", rejected.Detail)
}

func TestClientCreateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, 1*time.Second)

	_, err := client.Create(context.Background(), Payload{})

	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
}

func TestClientCreateMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Create(context.Background(), Payload{})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
}
