package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicky-ai/quicky-core/internal/database"
	"github.com/quicky-ai/quicky-core/internal/pkg/cron"
)

func init() { gin.SetMode(gin.TestMode) }

func allow(c *gin.Context) { c.Next() }

func TestHealth(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	defer database.Close(db)

	r := gin.New()
	RegisterRoutes(r.Group("/api"), db, cron.New(nil), allow)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	_, err = time.Parse(time.RFC3339Nano, body["timestamp"])
	assert.NoError(t, err)
}

func TestHealthReportsClosedDatabase(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	database.Close(db)

	r := gin.New()
	RegisterRoutes(r.Group("/api"), db, cron.New(nil), allow)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"unavailable"`)
}

func TestCronEndpoints(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	defer database.Close(db)

	sched := cron.New(nil)
	ran := 0
	sched.Register(cron.Job{Name: "prune", Interval: time.Hour, Fn: func(context.Context) error { ran++; return nil }})
	sched.Register(cron.Job{Name: "broken", Interval: time.Hour, Fn: func(context.Context) error { return errors.New("nope") }})

	r := gin.New()
	RegisterRoutes(r.Group("/api"), db, sched, allow)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health/cron/run/prune", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ran)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health/cron/run/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/cron", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs map[string]cron.ListItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 2)
	assert.Equal(t, cron.StatusFulfill, jobs["prune"].Status)
}
