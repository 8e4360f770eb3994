package usecase

import (
	"context"
	"time"

	"contact-api/internal/domain"
)

// Pinger is satisfied by the redis package health check.
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	mailConfigured bool
	redisPing      Pinger // nil when Redis is not configured
}

// NewHealthUsecase reports mail configuration and, when redisPing is non-nil, Redis reachability.
func NewHealthUsecase(mailConfigured bool, redisPing Pinger) domain.HealthUsecase {
	return &healthUsecase{
		mailConfigured: mailConfigured,
		redisPing:      redisPing,
	}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{
		Status: domain.StatusOK,
		Checks: map[string]string{},
	}

	// An unconfigured mailbox is reported, not treated as down: the process is alive.
	if u.mailConfigured {
		report.Checks["mail"] = domain.StatusOK
	} else {
		report.Checks["mail"] = domain.StatusUnconfigured
	}

	if u.redisPing == nil {
		report.Checks["redis"] = domain.StatusDisabled
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := u.redisPing(ctx); err != nil {
		report.Checks["redis"] = domain.StatusDown
		report.Status = domain.StatusDown
	} else {
		report.Checks["redis"] = domain.StatusOK
	}
	return report
}
