// Package progress stores the best score per (user, subject).
package progress

import "context"

type Repository interface {
	// SaveBest records score for (userID, subject) if no score exists yet or
	// if it is strictly greater than the stored one. It reports whether the
	// stored value changed.
	SaveBest(ctx context.Context, userID int64, subject string, score int) (bool, error)

	// ListByUser returns subject -> best score for userID.
	ListByUser(ctx context.Context, userID int64) (map[string]int, error)
}
