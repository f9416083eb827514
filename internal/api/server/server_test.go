package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"financialproducts/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_InvalidPort(t *testing.T) {
	cfg := &config.Config{API: config.APIConfig{Port: "abc"}}

	_, err := New(cfg, http.NotFoundHandler(), zap.NewNop())
	assert.Error(t, err)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	cfg := &config.Config{API: config.APIConfig{Port: "0", BasePath: "/bp"}}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	srv, err := New(cfg, handler, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ":0", srv.Addr())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
