package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
)

const (
	SubscriptionExpiryJobName = "subscription_expiry"
	defaultExpiryBatchSize    = 200
)

type expiryRepository interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	SuspendIfExpired(ctx context.Context, shopID uuid.UUID, now time.Time) (bool, error)
}

type cacheInvalidator interface {
	Invalidate()
}

// SubscriptionExpiryJobParams configure the expiry sweep.
type SubscriptionExpiryJobParams struct {
	Logger     *logger.Logger
	Repository expiryRepository
	Metrics    *metrics.CronJobMetrics
	Search     cacheInvalidator
	BatchSize  int
	Now        func() time.Time
}

// NewSubscriptionExpiryJob builds the job that suspends Pro shops whose paid period has ended.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultExpiryBatchSize
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &subscriptionExpiryJob{
		logg:    params.Logger,
		repo:    params.Repository,
		metrics: params.Metrics,
		search:  params.Search,
		batch:   batch,
		now:     now,
	}, nil
}

type subscriptionExpiryJob struct {
	logg    *logger.Logger
	repo    expiryRepository
	metrics *metrics.CronJobMetrics
	search  cacheInvalidator
	batch   int
	now     func() time.Time
}

func (j *subscriptionExpiryJob) Name() string { return SubscriptionExpiryJobName }

func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	ids, err := j.repo.ListExpired(ctx, now, j.batch)
	if err != nil {
		return fmt.Errorf("list expired subscriptions: %w", err)
	}

	var (
		errs      error
		suspended int
	)
	for _, id := range ids {
		ok, err := j.repo.SuspendIfExpired(ctx, id, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("suspend shop %s: %w", id, err))
			continue
		}
		if ok {
			suspended++
		}
	}

	j.metrics.AddAffected(j.Name(), suspended)
	if suspended > 0 && j.search != nil {
		j.search.Invalidate()
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"candidates": len(ids),
		"suspended":  suspended,
	}), "subscription expiry sweep finished")
	return errs
}
