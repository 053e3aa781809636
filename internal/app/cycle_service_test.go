package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cyclesync/internal/domain/cycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCyclesSortedNewestFirst(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("%d cycles", n), func(t *testing.T) {
			repo := newMemoryRepo()
			dates := []string{"2024-01-05", "2024-03-01", "2023-12-09", "2024-02-02", "2024-01-30"}[:n]
			repo.seed(t, "u1", dates...)
			repo.seed(t, "someone-else", "2025-01-01")
			svc := NewCycleService(repo, testLogger)

			cycles, err := svc.FetchCycles(userCtx("u1"))
			require.NoError(t, err)
			require.NotNil(t, cycles)
			assert.Len(t, cycles, n)
			for i := 1; i < len(cycles); i++ {
				assert.False(t, cycles[i].StartDate.After(cycles[i-1].StartDate), "not sorted at %d", i)
			}
			for _, c := range cycles {
				assert.Equal(t, "u1", c.UserID)
			}
		})
	}
}

func TestFetchCyclesWithoutUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewCycleService(repo, testLogger)

	cycles, err := svc.FetchCycles(context.Background())
	assert.Nil(t, cycles)
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Equal(t, KindMissingUser, KindOf(err))
	assert.Zero(t, repo.listCalls, "no store call without an identity")
}

func TestFetchCyclesRemoteFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.listErr = fmt.Errorf("error listing cycles: %w", &messageErr{msg: "permission denied for table cycles"})
	svc := NewCycleService(repo, testLogger)

	_, err := svc.FetchCycles(userCtx("u1"))
	require.Error(t, err)
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Equal(t, "permission denied for table cycles", MessageOf(err))
	assert.ErrorIs(t, err, repo.listErr)
}

func TestStartNewCycle(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewCycleService(repo, testLogger)
	ctx := userCtx("u1")

	created, err := svc.StartNewCycle(ctx, mustDate(t, "2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "2024-03-15", created.StartDate.String())
	assert.NotEqual(t, uuid.Nil, created.ID)

	// No idempotency: the same date twice gives two records.
	_, err = svc.StartNewCycle(ctx, mustDate(t, "2024-03-15"))
	require.NoError(t, err)

	cycles, err := svc.FetchCycles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-15", "2024-03-15"}, startDates(cycles))
	assert.NotEqual(t, cycles[0].ID, cycles[1].ID)
}

func TestStartNewCycleFailures(t *testing.T) {
	t.Run("no user", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewCycleService(repo, testLogger)

		_, err := svc.StartNewCycle(context.Background(), mustDate(t, "2024-03-15"))
		assert.ErrorIs(t, err, ErrNoUser)
		assert.Empty(t, repo.rows)
	})

	t.Run("zero date", func(t *testing.T) {
		svc := NewCycleService(newMemoryRepo(), testLogger)

		_, err := svc.StartNewCycle(userCtx("u1"), cycle.Date{})
		assert.Equal(t, KindInvalidInput, KindOf(err))
	})

	t.Run("remote", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.createErr = errNetwork
		svc := NewCycleService(repo, testLogger)

		_, err := svc.StartNewCycle(userCtx("u1"), mustDate(t, "2024-03-15"))
		assert.Equal(t, KindRemote, KindOf(err))
		assert.Equal(t, "network error", MessageOf(err))
		assert.True(t, errors.Is(err, errNetwork))
	})
}
