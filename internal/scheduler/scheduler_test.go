package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/touchline/internal/logger"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(logger.Discard(), time.Minute)
}

func TestScheduleRejectsBadSpecAndDuplicates(t *testing.T) {
	s := newTestScheduler()
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.Schedule("refresh", "not a cron spec", noop))
	require.NoError(t, s.Schedule("refresh", "0 6 * * *", noop))
	assert.Error(t, s.Schedule("refresh", "@hourly", noop))
}

func TestStartRequiresJobs(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Schedule("predict", "@hourly", func(context.Context) error { return nil }))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.Schedule("refresh", "@daily", func(context.Context) error { return nil }))
	assert.Error(t, s.Remove("predict"))

	assert.False(t, s.NextRun().IsZero())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())
}

func TestRunNow(t *testing.T) {
	s := newTestScheduler()
	var calls int32
	require.NoError(t, s.Schedule("refresh", "@daily", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	require.NoError(t, s.Schedule("broken", "@daily", func(context.Context) error {
		return errors.New("download failed")
	}))
	require.NoError(t, s.Schedule("panics", "@daily", func(context.Context) error {
		panic("nil season")
	}))

	require.NoError(t, s.RunNow(context.Background(), "refresh"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.EqualError(t, s.RunNow(context.Background(), "broken"), "download failed")
	assert.ErrorContains(t, s.RunNow(context.Background(), "panics"), "panicked")
	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestJobsAndRemove(t *testing.T) {
	s := newTestScheduler()
	noop := func(context.Context) error { return nil }
	require.NoError(t, s.Schedule("refresh", "0 6 * * *", noop))
	require.NoError(t, s.Schedule("predict", "30 6 * * *", noop))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "predict", jobs[0].Name)
	assert.Equal(t, "30 6 * * *", jobs[0].Spec)

	require.NoError(t, s.Remove("predict"))
	assert.Len(t, s.Jobs(), 1)
	assert.Error(t, s.Remove("predict"))
}
