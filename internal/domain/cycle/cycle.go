// internal/domain/cycle/cycle.go
package cycle

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Cycle is one user-reported cycle start.
// Corresponds to the 'cycles' table.
type Cycle struct {
	ID        uuid.UUID `json:"id"`         // assigned by the store
	UserID    string    `json:"user_id"`    // owning principal, immutable
	StartDate Date      `json:"start_date"` // yyyy-MM-dd on the wire
	CreatedAt time.Time `json:"created_at"`
}

// SortNewestFirst orders cycles by start date descending, newest insert first on ties.
func SortNewestFirst(cycles []*Cycle) {
	sort.SliceStable(cycles, func(i, j int) bool {
		a, b := cycles[i].StartDate, cycles[j].StartDate
		if a.After(b) {
			return true
		}
		if a.Before(b) {
			return false
		}
		return cycles[i].CreatedAt.After(cycles[j].CreatedAt)
	})
}
