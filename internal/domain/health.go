package domain

import "context"

// ComponentStatus values reported by the health check.
const (
	StatusOK           = "ok"
	StatusDown         = "down"
	StatusDisabled     = "disabled"
	StatusUnconfigured = "unconfigured"
)

// HealthReport is the payload of GET /health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthy reports whether no component is down.
func (h HealthReport) Healthy() bool {
	return h.Status == StatusOK
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}
