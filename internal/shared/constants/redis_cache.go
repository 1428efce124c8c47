package constants

import (
	"fmt"
	"time"
)

// Redis key layout and TTLs.
// Pattern: theaterbook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_MEDIUM = 12 * time.Hour
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute
)

// Dynamic Data (Short TTL: changes with every booking)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute
	TTL_DYNAMIC_QUICK = 2 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "theaterbook"
)

// ================== BRANCHES MODULE ==================

const (
	CACHE_KEY_BRANCHES_ALL  = CACHE_PREFIX + ":branches:list"
	CACHE_KEY_BRANCH_DETAIL = CACHE_PREFIX + ":branches:detail:uuid:" // + branch-id
	CACHE_PATTERN_BRANCHES  = CACHE_PREFIX + ":branches:*"
	TTL_BRANCH_LIST         = TTL_STATIC_MEDIUM
	TTL_BRANCH_DETAIL       = TTL_STATIC_LONG
)

// ================== THEATERS MODULE ==================

const (
	CACHE_KEY_THEATER_DETAIL     = CACHE_PREFIX + ":theaters:detail:uuid:" // + theater-id
	CACHE_KEY_THEATERS_BY_BRANCH = CACHE_PREFIX + ":theaters:by_branch:"   // + branch-id
	CACHE_KEY_BRANCH_LOCATIONS   = CACHE_PREFIX + ":theaters:locations:"   // + branch-id
	CACHE_KEY_THEATERS_ALL       = CACHE_PREFIX + ":theaters:list"
	CACHE_PATTERN_THEATERS       = CACHE_PREFIX + ":theaters:*"

	TTL_THEATER_DETAIL   = TTL_SEMI_STATIC_QUICK
	TTL_THEATER_LIST     = TTL_SEMI_STATIC_QUICK
	TTL_BRANCH_LOCATIONS = TTL_SEMI_STATIC_SHORT
)

// ================== AVAILABILITY ==================

// Availability depends on wall-clock time, so it lives only as long as the
// shortest bookability change we care about.
const (
	CACHE_KEY_AVAILABILITY     = CACHE_PREFIX + ":availability:theater:" // + theater-id + :date:YYYY-MM-DD
	CACHE_PATTERN_AVAILABILITY = CACHE_PREFIX + ":availability:*"
	TTL_AVAILABILITY           = TTL_DYNAMIC_QUICK
)

// ================== SLOT HOLDS ==================

const (
	KEY_SLOT_HOLD = CACHE_PREFIX + ":holds:slot:" // + theater-id:slot-id:YYYY-MM-DD
)

// ================== COUPONS ==================

const (
	CACHE_KEY_OFFERS = CACHE_PREFIX + ":coupons:offers"
	TTL_OFFERS       = TTL_DYNAMIC_SHORT
)

// ================== RATE LIMIT ==================

const (
	KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + ip:type
)

func BuildBranchDetailKey(branchID string) string {
	return CACHE_KEY_BRANCH_DETAIL + branchID
}

func BuildTheaterDetailKey(theaterID string) string {
	return CACHE_KEY_THEATER_DETAIL + theaterID
}

func BuildTheatersByBranchKey(branchID string) string {
	return CACHE_KEY_THEATERS_BY_BRANCH + branchID
}

func BuildBranchLocationsKey(branchID string) string {
	return CACHE_KEY_BRANCH_LOCATIONS + branchID
}

func BuildAvailabilityKey(theaterID, day string) string {
	return CACHE_KEY_AVAILABILITY + theaterID + ":date:" + day
}

// BuildAvailabilityTheaterPattern matches every cached date of one theater.
func BuildAvailabilityTheaterPattern(theaterID string) string {
	return CACHE_KEY_AVAILABILITY + theaterID + ":*"
}

func BuildSlotHoldKey(theaterID, slotID, day string) string {
	return fmt.Sprintf("%s%s:%s:%s", KEY_SLOT_HOLD, theaterID, slotID, day)
}

func BuildRateLimitKey(ip, limitType string) string {
	return KEY_RATE_LIMIT + ip + ":" + limitType
}
