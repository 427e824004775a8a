package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/moov-io/base/log"
	"github.com/stretchr/testify/require"
)

func TestPinger(t *testing.T) {
	var mu sync.Mutex
	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pinger, err := NewPinger(log.NewTestLogger())
	require.NoError(t, err)

	ctx := context.Background()
	pingURL := server.URL + "/3e0e2f30"

	require.NoError(t, pinger.Ping(ctx, pingURL, true))
	require.NoError(t, pinger.Ping(ctx, pingURL, false))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"/3e0e2f30", "/3e0e2f30/fail"}, paths)
}

func TestPinger_NoURL(t *testing.T) {
	pinger, err := NewPinger(log.NewTestLogger())
	require.NoError(t, err)

	// entities without a healthchecks_url never ping
	require.NoError(t, pinger.Ping(context.Background(), "", true))
}

func TestMockPinger(t *testing.T) {
	mock := &MockPinger{}

	require.NoError(t, mock.Ping(context.Background(), "https://hc-ping.com/3e0e2f30", false))

	pings := mock.Pings()
	require.Len(t, pings, 1)
	require.False(t, pings[0].Success)
	require.Equal(t, "https://hc-ping.com/3e0e2f30", pings[0].URL)
}
