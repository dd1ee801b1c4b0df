package constants

import (
	"fmt"
	"time"
)

// Redis key and TTL conventions for the venuepass booking core.
// Pattern: venuepass:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour // venue seating configuration
	TTL_STATIC_MEDIUM = 6 * time.Hour  // exhibition details
)

const (
	TTL_SEMI_STATIC = 1 * time.Hour // slot schedules, pricing tiers
)

const (
	TTL_DYNAMIC_SHORT = 2 * time.Minute  // date availability aggregates
	TTL_REALTIME      = 30 * time.Second // seat availability grids
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "venuepass"
)

const (
	CACHE_KEY_VENUE_LAYOUT      = CACHE_PREFIX + ":venues:layout:uuid:"      // + venue-id
	CACHE_KEY_EXHIBITION_DETAIL = CACHE_PREFIX + ":exhibitions:detail:uuid:" // + exhibition-id
	CACHE_KEY_DATE_AVAILABILITY = CACHE_PREFIX + ":slots:dates:uuid:"        // + exhibition-id:start:end
	CACHE_KEY_SLOT_PRICING      = CACHE_PREFIX + ":pricing:slot:uuid:"       // + exhibition-id:date:slot-id
)

const (
	PATTERN_INVALIDATE_EXHIBITION_ALL = CACHE_PREFIX + ":exhibitions:*"
	PATTERN_INVALIDATE_SLOTS_ALL      = CACHE_PREFIX + ":slots:*"
	PATTERN_INVALIDATE_PRICING_ALL    = CACHE_PREFIX + ":pricing:*"
)

// ================== SEAT LOCK KEYS ==================
// These are ownership keys, not cache: the lock manager is their only writer.

const (
	LOCK_KEY_PREFIX       = CACHE_PREFIX + ":lock:"       // + lock-id (hash: metadata)
	LOCK_SEATS_KEY_PREFIX = CACHE_PREFIX + ":lock_seats:" // + lock-id (set: seat labels)
	SEAT_LOCK_KEY_PREFIX  = CACHE_PREFIX + ":seat_lock:"  // + slot-id:date:label (string: session:lock-id)
	SLOT_LOCKS_KEY_PREFIX = CACHE_PREFIX + ":slot_locks:" // + slot-id:date (set: lock-ids)
	SESSION_LOCKS_PREFIX  = CACHE_PREFIX + ":session_locks:" // + session-id (set: lock-ids)
)

// ================== KEY BUILDERS ==================

func BuildDateAvailabilityKey(exhibitionID, start, end string) string {
	return fmt.Sprintf("%s%s:%s:%s", CACHE_KEY_DATE_AVAILABILITY, exhibitionID, start, end)
}

func BuildSlotPricingKey(exhibitionID, date, slotID string) string {
	return fmt.Sprintf("%s%s:%s:%s", CACHE_KEY_SLOT_PRICING, exhibitionID, date, slotID)
}

func BuildSeatLockKey(slotID, date, label string) string {
	return fmt.Sprintf("%s%s:%s:%s", SEAT_LOCK_KEY_PREFIX, slotID, date, label)
}

func BuildSlotLocksKey(slotID, date string) string {
	return fmt.Sprintf("%s%s:%s", SLOT_LOCKS_KEY_PREFIX, slotID, date)
}
