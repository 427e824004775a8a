package farecheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_Entities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/entities", r.URL.Path)

		json.NewEncoder(w).Encode(entitiesResponse{
			Entities: []EntityStatus{
				{Identity: "account:traveler", Kind: "account", State: "due", RetrievalInterval: 6},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseAddress: server.URL})
	require.NoError(t, err)

	entities, err := client.Entities(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)
	require.Equal(t, "account:traveler", entities[0].Identity)
	require.Equal(t, 6, entities[0].RetrievalInterval)
}

func TestClient_Trigger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/entities/account:traveler/trigger", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseAddress: server.URL})
	require.NoError(t, err)

	require.NoError(t, client.Trigger(context.Background(), "account:traveler"))
}

func TestClient_TriggerRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "entity account:nobody not found"})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseAddress: server.URL})
	require.NoError(t, err)

	err = client.Trigger(context.Background(), "account:nobody")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}
