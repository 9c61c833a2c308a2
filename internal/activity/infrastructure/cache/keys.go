// Package cache holds SummaryCache implementations: Redis for server mode,
// an in-memory map for local mode and tests, and a circuit breaker wrapper.
package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

const keyPrefix = "pulse:summary:"

func userPrefix(userID uuid.UUID) string {
	return keyPrefix + userID.String() + ":"
}

func weeklyKey(userID uuid.UUID, day time.Time) string {
	return userPrefix(userID) + "weekly:" + domain.DateKey(day)
}

func monthlyKey(userID uuid.UUID, year int, month time.Month) string {
	return userPrefix(userID) + fmt.Sprintf("monthly:%04d-%02d", year, int(month))
}

// indexKey names the set of summary keys written for a user.
func indexKey(userID uuid.UUID) string {
	return userPrefix(userID) + "keys"
}

// genKey holds the user's generation counter. It is not listed in the index
// so invalidation never resets it.
func genKey(userID uuid.UUID) string {
	return userPrefix(userID) + "gen"
}
