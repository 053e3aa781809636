package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 30 * time.Second

// Pinger is anything whose reachability can be probed; cycle.Repository qualifies.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthScheduler periodically probes the data store and logs the outcome.
type HealthScheduler struct {
	cronEngine     *cron.Cron
	store          Pinger
	logger         *logrus.Entry
	cronSpecHealth string
}

func NewHealthScheduler(store Pinger, logger *logrus.Entry, loc *time.Location, cronSpecHealth string) *HealthScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &HealthScheduler{
		cronEngine:     cron.New(cron.WithLocation(loc)),
		store:          store,
		logger:         logger,
		cronSpecHealth: cronSpecHealth, // e.g., "*/5 * * * *"
	}
}

// Start registers the jobs and starts the cron engine.
func (s *HealthScheduler) Start() error {
	s.logger.Info("Starting health scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecHealth, func() {
		s.CheckNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("could not add health check cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecHealth).Info("Health scheduler started")
	return nil
}

// CheckNow runs one probe and reports whether the store answered.
func (s *HealthScheduler) CheckNow(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	started := time.Now()
	err := s.store.Ping(ctx)
	logCtx := s.logger.WithField("elapsed", time.Since(started).String())
	if err != nil {
		logCtx.WithError(err).Error("Data store health check failed")
		return false
	}
	logCtx.Debug("Data store health check passed")
	return true
}

func (s *HealthScheduler) Stop() {
	s.logger.Info("Stopping health scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Health scheduler gracefully stopped.")
}
