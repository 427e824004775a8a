package api_test

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/adamdecaf/farecheck/internal/api"
	"github.com/adamdecaf/farecheck/internal/config"
	"github.com/adamdecaf/farecheck/internal/monitor"

	"github.com/moov-io/base/log"
	"github.com/moov-io/base/stime"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	_, port, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	require.NoError(t, listener.Close())

	return ":" + port
}

func TestServer(t *testing.T) {
	logger := log.NewTestLogger()

	reg, err := monitor.BuildRegistry(&config.Tree{
		Accounts: []config.Account{
			{Username: "traveler", Password: "hunter2"},
		},
	})
	require.NoError(t, err)

	timeService := stime.NewStaticTimeService()
	timeService.Change(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))

	sched := monitor.NewScheduler(logger, timeService, 0)
	sched.Load(reg)

	bindAddress := freePort(t)
	server, err := api.Server(logger, bindAddress, sched)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
	})

	// Wait for the listener to come up
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get("http://localhost" + bindAddress + "/entities")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Entities []monitor.EntityStatus `json:"entities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(t, listing.Entities, 1)
	require.Equal(t, monitor.AccountIdentity("traveler"), listing.Entities[0].Identity)
	require.Equal(t, monitor.StateDue, listing.Entities[0].State)

	req, err := http.NewRequest("POST", "http://localhost"+bindAddress+"/entities/account:traveler/trigger", nil)
	require.NoError(t, err)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest("POST", "http://localhost"+bindAddress+"/entities/account:nobody/trigger", nil)
	require.NoError(t, err)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
