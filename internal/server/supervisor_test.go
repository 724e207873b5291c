package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mferr/scandesk/internal/activity"
)

func testConfig(log *activity.Log) Config {
	return Config{
		Host:        "127.0.0.1",
		Port:        0,
		SettleDelay: 25 * time.Millisecond,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "ok")
		}),
		Log: log,
	}
}

func TestStart_ServesPlaintext(t *testing.T) {
	log := activity.NewLog(20)
	sup := New(testConfig(log))
	require.NoError(t, sup.Start())
	defer func() { _ = sup.Stop(context.Background()) }()

	st := sup.Status()
	require.True(t, st.Running)
	assert.False(t, st.TLS)
	assert.NotZero(t, st.Port)

	local, _, ok := sup.URLs()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(local, "http://localhost:"), "local URL = %q", local)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", st.Port))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entries := log.Recent(20)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, activity.LevelSuccess, last.Level)
	assert.Contains(t, last.Message, "Server started on http://")
}

func TestStart_ConcurrentCallsShareOneInstance(t *testing.T) {
	log := activity.NewLog(20)
	sup := New(testConfig(log))
	defer func() { _ = sup.Stop(context.Background()) }()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = sup.Start()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "call %d", i)
	}
	assert.True(t, sup.Status().Running)

	started := 0
	for _, e := range log.Recent(20) {
		if strings.Contains(e.Message, "Server started") {
			started++
		}
	}
	assert.Equal(t, 1, started, "want exactly one startup entry")
}

func TestStart_BindFailure(t *testing.T) {
	// Occupy a port so the supervisor cannot bind it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()
	port := ln.Addr().(*net.TCPAddr).Port

	log := activity.NewLog(20)
	cfg := testConfig(log)
	cfg.Port = port
	sup := New(cfg)

	err = sup.Start()
	require.Error(t, err)
	assert.False(t, sup.Status().Running)

	_, _, ok := sup.URLs()
	assert.False(t, ok)

	entries := log.Recent(20)
	require.NotEmpty(t, entries)
	assert.Equal(t, activity.LevelError, entries[len(entries)-1].Level)
	assert.Contains(t, entries[len(entries)-1].Message, "Failed to start server")
}

func TestURLs_NotRunning(t *testing.T) {
	sup := New(testConfig(activity.NewLog(5)))
	local, network, ok := sup.URLs()
	assert.False(t, ok)
	assert.Empty(t, local)
	assert.Empty(t, network)
}

func TestStop_ShutsDownService(t *testing.T) {
	log := activity.NewLog(20)
	sup := New(testConfig(log))
	require.NoError(t, sup.Start())
	port := sup.Status().Port

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sup.Stop(ctx))
	assert.False(t, sup.Status().Running)

	_, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), 100*time.Millisecond)
	assert.Error(t, err, "listener should be closed")
}

func TestTLSMaterialPresent(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")

	assert.False(t, tlsMaterialPresent(cert, key))

	require.NoError(t, os.WriteFile(cert, []byte("x"), 0o600))
	assert.False(t, tlsMaterialPresent(cert, key), "cert alone is not enough")

	require.NoError(t, os.WriteFile(key, []byte("x"), 0o600))
	assert.True(t, tlsMaterialPresent(cert, key))

	assert.False(t, tlsMaterialPresent("", ""))
}

func TestOutboundIP_NeverEmpty(t *testing.T) {
	ip := OutboundIP()
	assert.NotEmpty(t, ip)
}
