// internal/app/cycle_service.go
package app

import (
	"context"

	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/cycle"

	"github.com/sirupsen/logrus"
)

// CycleService is the session-scoped data-access adapter for cycles.
// The caller's identity is read from the context (see auth.WithSession);
// every failure is returned as an *Error.
type CycleService struct {
	cycleRepo cycle.Repository
	logger    *logrus.Entry
}

func NewCycleService(cr cycle.Repository, logger *logrus.Entry) *CycleService {
	return &CycleService{
		cycleRepo: cr,
		logger:    logger,
	}
}

// FetchCycles returns the current user's cycles, newest start date first.
func (s *CycleService) FetchCycles(ctx context.Context) ([]*cycle.Cycle, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}
	logCtx := s.logger.WithField("user_id", user.ID)

	cycles, err := s.cycleRepo.ListByUser(ctx, user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to fetch cycles")
		return nil, remoteError(err)
	}
	if cycles == nil {
		cycles = make([]*cycle.Cycle, 0)
	}
	cycle.SortNewestFirst(cycles)

	logCtx.WithField("count", len(cycles)).Debug("Cycles fetched")
	return cycles, nil
}

// StartNewCycle records a new cycle starting on date for the current user.
// Repeated calls with the same date insert separate records.
func (s *CycleService) StartNewCycle(ctx context.Context, date cycle.Date) (*cycle.Cycle, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}
	if date.IsZero() {
		return nil, &Error{Kind: KindInvalidInput, Message: "a start date is required"}
	}
	logCtx := s.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"start_date": date.String(),
	})

	newCycle := &cycle.Cycle{
		UserID:    user.ID,
		StartDate: date,
	}
	if err := s.cycleRepo.Create(ctx, newCycle); err != nil {
		logCtx.WithError(err).Error("Failed to start new cycle")
		return nil, remoteError(err)
	}

	logCtx.WithField("cycle_id", newCycle.ID).Info("New cycle started")
	return newCycle, nil
}
