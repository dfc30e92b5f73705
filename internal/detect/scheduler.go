package detect

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Yash-97136/Pulse/internal/metrics"
)

// LeaseStore provides the distributed lease primitives.
type LeaseStore interface {
	AcquireLease(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, key, token string) error
}

// Runner is the unit of work the scheduler serializes across instances.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler runs the detection pass on a fixed period, taking a time-boxed
// exclusive lease first so at most one instance detects at a time. A tick that
// cannot acquire the lease is skipped outright; the next tick tries again.
// The lease TTL bounds exclusivity: a pass overrunning it may briefly overlap
// with another instance, which the detector tolerates.
type Scheduler struct {
	store    LeaseStore
	runner   Runner
	leaseKey string
	leaseTTL time.Duration
	interval time.Duration
}

// NewScheduler creates a lease-coordinated scheduler.
func NewScheduler(store LeaseStore, runner Runner, leaseKey string, leaseTTL, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		runner:   runner,
		leaseKey: leaseKey,
		leaseTTL: leaseTTL,
		interval: interval,
	}
}

// Start begins the background detection loop.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("Detection scheduler started (interval: %v, lease TTL: %v)", s.interval, s.leaseTTL)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Detection scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick attempts one leased detection pass.
func (s *Scheduler) Tick(ctx context.Context) {
	token := uuid.NewString()

	acquired, err := s.store.AcquireLease(ctx, s.leaseKey, token, s.leaseTTL)
	if err != nil {
		log.Printf("Detection scheduler: lease acquire failed: %v", err)
		return
	}
	if !acquired {
		metrics.SchedulerLeaseSkips.Inc()
		return
	}
	defer func() {
		// Releases only if the lease still holds our token; an expired lease
		// re-acquired elsewhere is left alone.
		if err := s.store.ReleaseLease(ctx, s.leaseKey, token); err != nil {
			log.Printf("Detection scheduler: lease release failed: %v", err)
		}
	}()

	metrics.SchedulerRuns.Inc()
	start := time.Now()
	if err := s.runner.Run(ctx); err != nil {
		log.Printf("Detection scheduler: pass failed: %v", err)
	}
	metrics.SchedulerDuration.Observe(time.Since(start).Seconds())
}
