package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockQuoteExpirer struct {
	mock.Mock
}

func (m *MockQuoteExpirer) ExpireStale(ctx context.Context, now time.Time, limit int) (int, error) {
	args := m.Called(ctx, now, limit)
	return args.Int(0), args.Error(1)
}

func newTestExpiryJob(expirer QuoteExpirer, batch int) (*QuoteExpiryJob, time.Time) {
	cutoff := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	job := NewQuoteExpiryJob(expirer, batch, zap.NewNop())
	job.now = func() time.Time { return cutoff }
	return job, cutoff
}

func TestQuoteExpiryJob_DrainsFullBatches(t *testing.T) {
	ctx := context.Background()
	expirer := new(MockQuoteExpirer)
	job, cutoff := newTestExpiryJob(expirer, 10)

	expirer.On("ExpireStale", ctx, cutoff, 10).Return(10, nil).Twice()
	expirer.On("ExpireStale", ctx, cutoff, 10).Return(3, nil).Once()

	require.NoError(t, job.Run(ctx))
	expirer.AssertNumberOfCalls(t, "ExpireStale", 3)
	assert.Equal(t, QuoteExpiryJobName, job.Name())
}

func TestQuoteExpiryJob_StopsOnError(t *testing.T) {
	ctx := context.Background()
	expirer := new(MockQuoteExpirer)
	job, cutoff := newTestExpiryJob(expirer, 10)
	dbErr := errors.New("connection reset")

	expirer.On("ExpireStale", ctx, cutoff, 10).Return(4, dbErr).Once()

	assert.ErrorIs(t, job.Run(ctx), dbErr)
	expirer.AssertNumberOfCalls(t, "ExpireStale", 1)
}

func TestQuoteExpiryJob_BoundsBatchesPerRun(t *testing.T) {
	ctx := context.Background()
	expirer := new(MockQuoteExpirer)
	job, cutoff := newTestExpiryJob(expirer, 5)

	expirer.On("ExpireStale", ctx, cutoff, 5).Return(5, nil)

	require.NoError(t, job.Run(ctx))
	expirer.AssertNumberOfCalls(t, "ExpireStale", maxBatchesPerRun)
}

func TestQuoteExpiryJob_DefaultBatch(t *testing.T) {
	job := NewQuoteExpiryJob(new(MockQuoteExpirer), 0, zap.NewNop())
	assert.Equal(t, 200, job.batchSize)
}

func TestQuoteExpiryJob_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	expirer := new(MockQuoteExpirer)
	job, _ := newTestExpiryJob(expirer, 10)

	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	expirer.AssertNotCalled(t, "ExpireStale", mock.Anything, mock.Anything, mock.Anything)
}
