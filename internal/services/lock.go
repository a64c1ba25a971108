package services

import (
	"context"
	"fmt"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// Locker provides mutual exclusion by key across processes. The returned
// unlock func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// dayLockKey names the lock guarding generation of one user's day.
func dayLockKey(userID uint, day domain.Day) string {
	return fmt.Sprintf("daily-questions:%d:%s", userID, day)
}
