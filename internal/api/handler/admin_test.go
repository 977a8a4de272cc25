package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelwits/travelwits/internal/api/handler"
	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/worker"
)

type recordingPublisher struct {
	published []worker.RegenerateMessage
	err       error
}

func (p *recordingPublisher) PublishRegenerate(_ context.Context, msg worker.RegenerateMessage) (worker.RegenerateMessage, string, error) {
	if p.err != nil {
		return worker.RegenerateMessage{}, "", p.err
	}
	msg.JobType = worker.JobTypeCatalogRegenerate
	msg.JobID = "job_test"
	p.published = append(p.published, msg)
	return msg, "msg-1", nil
}

func post(h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegenerateCatalog_Inline(t *testing.T) {
	repo := fixtureRepo(t)
	regen := catalog.NewRegenerator(catalog.NewGenerator(catalog.GeneratorConfig{}), repo, zerolog.New(io.Discard))
	h := handler.NewAdminHandler(handler.AdminConfig{Regenerator: regen})

	rec := post(h.RegenerateCatalog, "/v1/admin/catalog/regenerate", `{"flights":true,"seed":7}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.RegenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Generation)
	assert.Equal(t, 100, resp.Flights)
	assert.Zero(t, resp.Hotels)
	assert.Equal(t, uint64(7), resp.Seed)

	// Hotels were left alone.
	snap, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Flights, 100)
	assert.Len(t, snap.Hotels, 2)
}

func TestRegenerateCatalog_Queued(t *testing.T) {
	pub := &recordingPublisher{}
	h := handler.NewAdminHandler(handler.AdminConfig{Publisher: pub})

	rec := post(h.RegenerateCatalog, "/v1/admin/catalog/regenerate", `{"flights":true,"hotels":true,"seed":3}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp models.RegenerateAccepted
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job_test", resp.JobID)
	assert.Equal(t, "msg-1", resp.MessageID)

	require.Len(t, pub.published, 1)
	assert.True(t, pub.published[0].Flights)
	assert.True(t, pub.published[0].Hotels)
	assert.Equal(t, uint64(3), pub.published[0].Seed)
}

func TestRegenerateCatalog_Errors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    handler.AdminConfig
		body   string
		status int
	}{
		{"invalid json", handler.AdminConfig{Publisher: &recordingPublisher{}}, `{"flights":`, http.StatusBadRequest},
		{"nothing selected", handler.AdminConfig{Publisher: &recordingPublisher{}}, `{"flights":false}`, http.StatusBadRequest},
		{"publish fails", handler.AdminConfig{Publisher: &recordingPublisher{err: errors.New("topic not found")}}, `{"hotels":true}`, http.StatusServiceUnavailable},
		{"not configured", handler.AdminConfig{}, `{"hotels":true}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(handler.NewAdminHandler(tt.cfg).RegenerateCatalog, "/v1/admin/catalog/regenerate", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestExportCatalog(t *testing.T) {
	h := handler.NewAdminHandler(handler.AdminConfig{Snapshotter: fixtureRepo(t)})

	rec := get(h.ExportCatalog, "/v1/admin/catalog/export")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CatalogExport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Generation)
	assert.Len(t, resp.Flights, 5)
	assert.Len(t, resp.Hotels, 2)
}

func TestExportCatalog_NotConfigured(t *testing.T) {
	rec := get(handler.NewAdminHandler(handler.AdminConfig{}).ExportCatalog, "/v1/admin/catalog/export")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
