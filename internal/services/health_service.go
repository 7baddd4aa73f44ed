package services

import (
	"context"
	"time"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Prober is implemented by stores that can run a live round-trip check.
type Prober interface {
	Probe(ctx context.Context) error
}

// HealthReport is the outcome of a health check.
type HealthReport struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
	Uptime    float64           `json:"uptime"` // seconds
}

// Healthy reports whether every dependency passed.
func (r HealthReport) Healthy() bool { return r.Status == StatusHealthy }

// HealthService probes the record store and reports process uptime.
type HealthService struct {
	Store   Prober
	Version string
	Started time.Time
	Now     func() time.Time
}

// NewHealthService returns a HealthService whose uptime counts from now.
func NewHealthService(store Prober, version string) *HealthService {
	return &HealthService{Store: store, Version: version, Started: time.Now(), Now: time.Now}
}

// Check runs the store probe. The error, if any, is returned alongside the
// report for logging; it is never part of the report itself.
func (s *HealthService) Check(ctx context.Context) (HealthReport, error) {
	now := s.Now()
	rep := HealthReport{
		Status:    StatusHealthy,
		Timestamp: now.UTC(),
		Version:   s.Version,
		Services:  map[string]string{"store": StatusHealthy},
		Uptime:    now.Sub(s.Started).Seconds(),
	}
	err := s.Store.Probe(ctx)
	if err != nil {
		rep.Status = StatusUnhealthy
		rep.Services["store"] = StatusUnhealthy
	}
	return rep, err
}
