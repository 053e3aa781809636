// internal/domain/cycle/repository.go
package cycle

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Cycle entities.
// Implementations scope every call to userID; the remote store's access policy
// is expected to enforce the same rule.
type Repository interface {
	// ListByUser returns the user's cycles, newest start date first.
	ListByUser(ctx context.Context, userID string) ([]*Cycle, error)
	// Create inserts c and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, c *Cycle) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
