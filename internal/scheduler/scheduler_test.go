package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sendReminders "github.com/m04kA/SalonBookingService/internal/usecase/send_reminders"
	"github.com/m04kA/SalonBookingService/pkg/logger"
)

type countingJob struct {
	runs     atomic.Int32
	deadline bool
	err      error
}

func (j *countingJob) Execute(ctx context.Context) (*sendReminders.Result, error) {
	j.runs.Add(1)
	_, j.deadline = ctx.Deadline()
	if j.err != nil {
		return nil, j.err
	}
	return &sendReminders.Result{Candidates: 1, Due: 1, Sent: 1}, nil
}

type stubLocker struct {
	held     bool
	released int
	err      error
}

func (l *stubLocker) TryLock(context.Context) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func(context.Context) error {
		l.held = false
		l.released++
		return nil
	}, true, nil
}

func (l *stubLocker) TTL() time.Duration { return time.Minute }

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every five minutes", time.UTC, &countingJob{}, nil, logger.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestRunOnce_WithoutLocker(t *testing.T) {
	job := &countingJob{}
	s, err := New("*/5 * * * *", time.UTC, job, nil, logger.NewNop())
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), job.runs.Load())
	assert.True(t, job.deadline)
}

func TestRunOnce_ReleasesLockAfterRun(t *testing.T) {
	job := &countingJob{err: errors.New("db down")}
	locker := &stubLocker{}
	s, err := New("*/5 * * * *", time.UTC, job, locker, logger.NewNop())
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), job.runs.Load())
	assert.False(t, locker.held)
	assert.Equal(t, 1, locker.released)
}

func TestRunOnce_SkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &countingJob{}
	s, err := New("*/5 * * * *", time.UTC, job, &stubLocker{held: true}, logger.NewNop())
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Zero(t, job.runs.Load())
}

func TestRunOnce_SkipsWhenLockUnavailable(t *testing.T) {
	job := &countingJob{}
	s, err := New("*/5 * * * *", time.UTC, job, &stubLocker{err: errors.New("redis down")}, logger.NewNop())
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Zero(t, job.runs.Load())
}

func TestStartStop(t *testing.T) {
	s, err := New("@every 1h", time.UTC, &countingJob{}, nil, logger.NewNop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
