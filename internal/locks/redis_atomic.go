package locks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"venuepass/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSeatTaken reports the first requested seat that already carries a live
// lock. The acquire script fails the whole request on the first collision.
type ErrSeatTaken struct {
	Seat string
}

func (e *ErrSeatTaken) Error() string {
	return fmt.Sprintf("seat already locked: %s", e.Seat)
}

// ErrLockNotFound means the lock never existed or has already expired.
var ErrLockNotFound = fmt.Errorf("lock not found")

// Lua script for atomic multi-seat lock acquisition. All requested seats are
// checked first; if any is held the script aborts without writing, so a lock
// is always all-or-nothing.
const luaAcquireSeatLock = `
-- KEYS[1] = lock metadata hash
-- KEYS[2] = lock seats set
-- KEYS[3] = slot locks set
-- KEYS[4] = session locks set
-- KEYS[5..N] = per-seat lock keys
-- ARGV[1] = lock_id
-- ARGV[2] = session_id
-- ARGV[3] = exhibition_id
-- ARGV[4] = slot_id
-- ARGV[5] = visit_date
-- ARGV[6] = ttl_seconds
-- ARGV[7] = quantity
-- ARGV[8] = expires_at (unix)
-- ARGV[9..N] = seat labels, parallel to KEYS[5..N]

local ttl = tonumber(ARGV[6])

for i = 5, #KEYS do
    if redis.call("EXISTS", KEYS[i]) == 1 then
        return {0, ARGV[i + 4]}
    end
end

redis.call("HMSET", KEYS[1],
    "lock_id", ARGV[1],
    "session_id", ARGV[2],
    "exhibition_id", ARGV[3],
    "slot_id", ARGV[4],
    "visit_date", ARGV[5],
    "quantity", ARGV[7],
    "expires_at", ARGV[8],
    "created_at", redis.call("TIME")[1]
)
redis.call("EXPIRE", KEYS[1], ttl)

for i = 5, #KEYS do
    local label = ARGV[i + 4]
    redis.call("SETEX", KEYS[i], ttl, ARGV[2] .. ":" .. ARGV[1])
    redis.call("SADD", KEYS[2], label)
end
if #KEYS > 4 then
    redis.call("EXPIRE", KEYS[2], ttl)
end

redis.call("SADD", KEYS[3], ARGV[1])
redis.call("EXPIRE", KEYS[3], ttl)
redis.call("SADD", KEYS[4], ARGV[1])
redis.call("EXPIRE", KEYS[4], ttl)

return {1, "ok"}
`

// Lua script for atomic lock release. Seat keys are rebuilt from the lock
// metadata so a single lock id is enough to tear everything down.
const luaReleaseSeatLock = `
-- KEYS[1] = lock metadata hash
-- KEYS[2] = lock seats set
-- ARGV[1] = per-seat key prefix
-- ARGV[2] = slot locks key prefix
-- ARGV[3] = session locks key prefix

local data = redis.call("HGETALL", KEYS[1])
if #data == 0 then
    return {0, "lock_not_found"}
end

local fields = {}
for i = 1, #data, 2 do
    fields[data[i]] = data[i + 1]
end

local labels = redis.call("SMEMBERS", KEYS[2])
for i = 1, #labels do
    redis.call("DEL", ARGV[1] .. fields["slot_id"] .. ":" .. fields["visit_date"] .. ":" .. labels[i])
end

redis.call("SREM", ARGV[2] .. fields["slot_id"] .. ":" .. fields["visit_date"], fields["lock_id"])
redis.call("SREM", ARGV[3] .. fields["session_id"], fields["lock_id"])

redis.call("DEL", KEYS[1])
redis.call("DEL", KEYS[2])

return {1, #labels}
`

type Repository interface {
	AcquireLock(ctx context.Context, lock *SeatLock, ttl time.Duration) error
	GetLock(ctx context.Context, lockID string) (*SeatLock, error)
	ReleaseLock(ctx context.Context, lockID string) (int, error)
	ActiveSeatLocks(ctx context.Context, slotID uuid.UUID, date time.Time) (map[string]time.Time, error)
	SessionLocks(ctx context.Context, sessionID string) ([]string, error)
	PreloadScripts(ctx context.Context) error
}

type repository struct {
	redis *redis.Client
}

func NewRepository(redisClient *redis.Client) Repository {
	return &repository{redis: redisClient}
}

func (r *repository) AcquireLock(ctx context.Context, lock *SeatLock, ttl time.Duration) error {
	if r.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	date := lock.VisitDate.Format("2006-01-02")
	slotID := lock.TimeSlotID.String()

	keys := []string{
		constants.LOCK_KEY_PREFIX + lock.LockID,
		constants.LOCK_SEATS_KEY_PREFIX + lock.LockID,
		constants.BuildSlotLocksKey(slotID, date),
		constants.SESSION_LOCKS_PREFIX + lock.SessionID,
	}
	for _, label := range lock.Seats {
		keys = append(keys, constants.BuildSeatLockKey(slotID, date, label))
	}

	args := []interface{}{
		lock.LockID,
		lock.SessionID,
		lock.ExhibitionID.String(),
		slotID,
		date,
		strconv.Itoa(int(ttl.Seconds())),
		strconv.Itoa(lock.Quantity),
		strconv.FormatInt(lock.ExpiresAt.Unix(), 10),
	}
	for _, label := range lock.Seats {
		args = append(args, label)
	}

	result, err := r.redis.EvalSha(ctx, luaAcquireSeatLock, keys, args...).Result()
	if err != nil {
		result, err = r.redis.Eval(ctx, luaAcquireSeatLock, keys, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute atomic lock acquire: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from lock script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in lock script result")
	}

	if success == 0 {
		if seat, ok := resultArray[1].(string); ok {
			return &ErrSeatTaken{Seat: seat}
		}
		return fmt.Errorf("failed to acquire seat lock")
	}

	return nil
}

func (r *repository) GetLock(ctx context.Context, lockID string) (*SeatLock, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	lockKey := constants.LOCK_KEY_PREFIX + lockID
	data, err := r.redis.HGetAll(ctx, lockKey).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrLockNotFound
	}

	seats, err := r.redis.SMembers(ctx, constants.LOCK_SEATS_KEY_PREFIX+lockID).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	return lockFromHash(lockID, data, seats)
}

func (r *repository) ReleaseLock(ctx context.Context, lockID string) (int, error) {
	if r.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	keys := []string{
		constants.LOCK_KEY_PREFIX + lockID,
		constants.LOCK_SEATS_KEY_PREFIX + lockID,
	}
	args := []interface{}{
		constants.SEAT_LOCK_KEY_PREFIX,
		constants.SLOT_LOCKS_KEY_PREFIX,
		constants.SESSION_LOCKS_PREFIX,
	}

	result, err := r.redis.EvalSha(ctx, luaReleaseSeatLock, keys, args...).Result()
	if err != nil {
		result, err = r.redis.Eval(ctx, luaReleaseSeatLock, keys, args...).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute atomic lock release: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from release script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag in release script result")
	}

	if success == 0 {
		return 0, ErrLockNotFound
	}

	released, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in release script result")
	}

	return int(released), nil
}

// ActiveSeatLocks returns every locked seat label for a (slot, date) with its
// expiry. Expired entries still present in the reverse index are skipped, not
// deleted; key TTLs handle the cleanup.
func (r *repository) ActiveSeatLocks(ctx context.Context, slotID uuid.UUID, date time.Time) (map[string]time.Time, error) {
	locked := make(map[string]time.Time)
	if r.redis == nil {
		return locked, nil
	}

	day := date.Format("2006-01-02")
	lockIDs, err := r.redis.SMembers(ctx, constants.BuildSlotLocksKey(slotID.String(), day)).Result()
	if err != nil {
		if err == redis.Nil {
			return locked, nil
		}
		return nil, err
	}

	now := time.Now()
	for _, lockID := range lockIDs {
		lock, err := r.GetLock(ctx, lockID)
		if err != nil {
			if err == ErrLockNotFound {
				continue
			}
			return nil, err
		}
		if !lock.ExpiresAt.After(now) {
			continue
		}
		for _, label := range lock.Seats {
			locked[label] = lock.ExpiresAt
		}
	}

	return locked, nil
}

func (r *repository) SessionLocks(ctx context.Context, sessionID string) ([]string, error) {
	if r.redis == nil {
		return []string{}, nil
	}

	lockIDs, err := r.redis.SMembers(ctx, constants.SESSION_LOCKS_PREFIX+sessionID).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	return lockIDs, err
}

// PreloadScripts loads the lock scripts into Redis so EvalSha hits on the
// first request.
func (r *repository) PreloadScripts(ctx context.Context) error {
	if r.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := r.redis.ScriptLoad(ctx, luaAcquireSeatLock).Result(); err != nil {
		return fmt.Errorf("failed to load lock acquire script: %w", err)
	}
	if _, err := r.redis.ScriptLoad(ctx, luaReleaseSeatLock).Result(); err != nil {
		return fmt.Errorf("failed to load lock release script: %w", err)
	}

	return nil
}

func lockFromHash(lockID string, data map[string]string, seats []string) (*SeatLock, error) {
	exhibitionID, err := uuid.Parse(data["exhibition_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt lock %s: bad exhibition id: %w", lockID, err)
	}
	slotID, err := uuid.Parse(data["slot_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt lock %s: bad slot id: %w", lockID, err)
	}
	visitDate, err := time.Parse("2006-01-02", data["visit_date"])
	if err != nil {
		return nil, fmt.Errorf("corrupt lock %s: bad visit date: %w", lockID, err)
	}

	quantity, _ := strconv.Atoi(data["quantity"])
	expiresAt, _ := strconv.ParseInt(data["expires_at"], 10, 64)
	createdAt, _ := strconv.ParseInt(data["created_at"], 10, 64)

	return &SeatLock{
		LockID:       lockID,
		SessionID:    data["session_id"],
		ExhibitionID: exhibitionID,
		TimeSlotID:   slotID,
		VisitDate:    visitDate,
		Seats:        seats,
		Quantity:     quantity,
		CreatedAt:    time.Unix(createdAt, 0),
		ExpiresAt:    time.Unix(expiresAt, 0),
	}, nil
}
