package collection

import "fmt"

// NotFoundError means a mutation targeted a task that is not in the local
// set. It is a no-op outcome, not a fatal one; the set may simply be stale.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found in local collection", e.ID)
}
