package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuoteExpiryJobName identifies the quote expiry job
const QuoteExpiryJobName = "quote_expiry"

// maxBatchesPerRun stops a run that keeps receiving full batches, which
// happens when some quotes repeatedly fail to expire
const maxBatchesPerRun = 50

// QuoteExpirer expires pending quotes whose expiry has passed, at most limit
// per call, and returns how many were expired
type QuoteExpirer interface {
	ExpireStale(ctx context.Context, now time.Time, limit int) (int, error)
}

// QuoteExpiryJob drains expirable quotes in batches until a short batch
// signals that none remain
type QuoteExpiryJob struct {
	expirer   QuoteExpirer
	batchSize int
	now       func() time.Time
	logger    *zap.Logger
}

// NewQuoteExpiryJob creates the job. A non-positive batchSize defaults to 200.
func NewQuoteExpiryJob(expirer QuoteExpirer, batchSize int, logger *zap.Logger) *QuoteExpiryJob {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &QuoteExpiryJob{
		expirer:   expirer,
		batchSize: batchSize,
		now:       time.Now,
		logger:    logger,
	}
}

// Name returns QuoteExpiryJobName
func (j *QuoteExpiryJob) Name() string {
	return QuoteExpiryJobName
}

// Run expires quotes using one cut-off time for the whole run
func (j *QuoteExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now()
	total := 0
	for batch := 0; batch < maxBatchesPerRun; batch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := j.expirer.ExpireStale(ctx, cutoff, j.batchSize)
		total += n
		if err != nil {
			return err
		}
		if n < j.batchSize {
			break
		}
	}
	if total > 0 {
		j.logger.Info("Expired stale quotes", zap.Int("count", total), zap.Time("cutoff", cutoff))
	}
	return nil
}
