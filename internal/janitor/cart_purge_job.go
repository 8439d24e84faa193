package janitor

import (
	"context"
	"fmt"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
)

const cartPurgeJobName = "cart-session-purge"

type cartPurger interface {
	PurgeIdle() int
	Len() int
}

// CartPurgeJobParams configure the idle cart session sweep.
type CartPurgeJobParams struct {
	Logger *logger.Logger
	Carts  cartPurger
}

type cartPurgeJob struct {
	logg  *logger.Logger
	carts cartPurger
}

// NewCartPurgeJob builds the job that drops cart sessions idle past their TTL.
func NewCartPurgeJob(params CartPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart manager required")
	}
	return &cartPurgeJob{logg: params.Logger, carts: params.Carts}, nil
}

func (j *cartPurgeJob) Name() string {
	return cartPurgeJobName
}

func (j *cartPurgeJob) Run(ctx context.Context) error {
	purged := j.carts.PurgeIdle()
	ctx = j.logg.WithField(ctx, "purged", purged)
	ctx = j.logg.WithField(ctx, "remaining", j.carts.Len())
	j.logg.Info(ctx, "idle cart sessions purged")
	return nil
}
