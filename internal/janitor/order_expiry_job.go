package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
)

const orderExpiryJobName = "order-expiry"

type staleOrderCanceller interface {
	CancelStalePending(ctx context.Context, olderThan time.Time) (int, error)
}

// OrderExpiryJobParams configure the abandoned order sweep.
type OrderExpiryJobParams struct {
	Logger     *logger.Logger
	Orders     staleOrderCanceller
	ExpiryDays int
}

type orderExpiryJob struct {
	logg       *logger.Logger
	orders     staleOrderCanceller
	expiryDays int
}

// NewOrderExpiryJob builds the job that cancels pending orders past their TTL.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.ExpiryDays <= 0 {
		return nil, fmt.Errorf("expiry days must be positive")
	}
	return &orderExpiryJob{
		logg:       params.Logger,
		orders:     params.Orders,
		expiryDays: params.ExpiryDays,
	}, nil
}

func (j *orderExpiryJob) Name() string {
	return orderExpiryJobName
}

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.expiryDays)
	cancelled, err := j.orders.CancelStalePending(ctx, cutoff)
	ctx = j.logg.WithField(ctx, "cancelled", cancelled)
	if err != nil {
		return fmt.Errorf("cancel stale pending orders: %w", err)
	}
	j.logg.Info(ctx, "stale pending orders cancelled")
	return nil
}
