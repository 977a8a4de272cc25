package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/travelwits/travelwits/internal/api"
)

func TestNewServer(t *testing.T) {
	handler := api.NewRouter(api.RouterConfig{
		Version: Version,
		Logger:  zerolog.New(io.Discard),
	})
	server := newServer("8080", handler)

	assert.Equal(t, ":8080", server.Addr)
	assert.NotZero(t, server.ReadTimeout)
	assert.Greater(t, server.WriteTimeout, server.ReadTimeout)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
