package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/metrics"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/scheduler"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeJobs []scheduler.JobInfo

func (f fakeJobs) Jobs() []scheduler.JobInfo { return f }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "touchline", Version: "1.2.0", Logger: logger.Discard()})
	h := s.Handler()

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.0", body.Version)

	assert.Equal(t, http.StatusOK, get(t, h, "/live").Code)
}

func TestReady(t *testing.T) {
	s := NewServer(Config{ServiceName: "touchline", DB: fakePinger{}})
	h := s.Handler()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/ready").Code)

	s.SetReady(true)
	assert.Equal(t, http.StatusOK, get(t, h, "/ready").Code)

	s.db = fakePinger{err: errors.New("connection refused")}
	rec := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error: connection refused", body.Checks["database"])
}

func TestLatestPrediction(t *testing.T) {
	s := NewServer(Config{ServiceName: "touchline"})
	h := s.Handler()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/predictions/latest").Code)

	team := "Arsenal"
	s.SetPrediction(&models.RoundPrediction{
		League: "premier_league",
		Season: 2024,
		Round:  7,
		Recommendations: []models.Recommendation{
			{HomeTeam: "Arsenal", AwayTeam: "Luton", RecommendedTeam: &team, Confidence: 0.8},
		},
	})

	rec := get(t, h, "/predictions/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	var body models.RoundPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Round)
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "Arsenal", *body.Recommendations[0].RecommendedTeam)
}

func TestJobsAndMetrics(t *testing.T) {
	metrics.InitRegistry()
	next := time.Date(2024, 10, 1, 6, 0, 0, 0, time.UTC)
	s := NewServer(Config{Jobs: fakeJobs{{Name: "refresh", Spec: "0 6 * * *", Next: next}}})
	h := s.Handler()

	rec := get(t, h, "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []scheduler.JobInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, next, jobs[0].Next)

	assert.Equal(t, http.StatusOK, get(t, h, "/metrics").Code)
}
