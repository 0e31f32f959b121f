package health

import (
	"context"
	"time"

	corehealth "3tcapital/ms_kyc_core/internal/core/health"
)

const probeTimeout = 2 * time.Second

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
	Countries   []string // country codes with an extraction strategy
}

// Check probes one dependency. A nil Probe reports the dependency as up.
// Details, when set, is sampled on every status request.
type Check struct {
	Name    string
	Probe   func(ctx context.Context) error
	Details func() map[string]int64
}

// Service exposes health-check use cases to adapters.
type Service struct {
	meta      Metadata
	checks    []Check
	startedAt time.Time
}

func NewService(meta Metadata, checks ...Check) *Service {
	return &Service{
		meta:      meta,
		checks:    checks,
		startedAt: time.Now().UTC(),
	}
}

// Status returns the current availability snapshot. A failing dependency
// degrades the service; extraction from OCR blocks keeps working without one.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	uptime := time.Since(s.startedAt)
	status := corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      corehealth.StatusUp,
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
		Countries:   s.meta.Countries,
	}

	for _, check := range s.checks {
		dep := corehealth.Dependency{Name: check.Name, Status: corehealth.StatusUp}
		if check.Details != nil {
			dep.Details = check.Details()
		}
		if err := probe(ctx, check); err != nil {
			dep.Status = corehealth.StatusDown
			dep.Error = err.Error()
			status.Status = corehealth.StatusDegraded
		}
		status.Dependencies = append(status.Dependencies, dep)
	}

	return status
}

func probe(ctx context.Context, check Check) error {
	if check.Probe == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return check.Probe(ctx)
}
