package bookings

import (
	"context"
	"fmt"
	"time"

	"theaterbook/internal/shared/constants"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lua script for claiming a slot hold. The owner may refresh its own hold.
var holdScript = redis.NewScript(`
-- KEYS[1] = hold key
-- ARGV[1] = user_id
-- ARGV[2] = ttl_ms
local current = redis.call("GET", KEYS[1])
if current and current ~= ARGV[1] then
    return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", tonumber(ARGV[2]))
return 1
`)

// Lua script for releasing a hold only when the caller owns it.
var releaseScript = redis.NewScript(`
-- KEYS[1] = hold key
-- ARGV[1] = user_id
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// HoldStore reserves a (theater, slot, date) for one user during checkout.
type HoldStore interface {
	Hold(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) (bool, error)
	Holder(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time) (string, error)
	Release(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) error
}

// SlotHolds keeps checkout holds in Redis with a TTL.
type SlotHolds struct {
	redis  *redis.Client
	ttl    time.Duration
	window *timewindow.Window
}

func NewSlotHolds(client *redis.Client, ttl time.Duration, window *timewindow.Window) *SlotHolds {
	return &SlotHolds{redis: client, ttl: ttl, window: window}
}

// PreloadScripts loads the hold scripts so the first checkout uses EVALSHA.
func (h *SlotHolds) PreloadScripts(ctx context.Context) error {
	for _, s := range []*redis.Script{holdScript, releaseScript} {
		if err := s.Load(ctx, h.redis).Err(); err != nil {
			return fmt.Errorf("failed to load hold script: %w", err)
		}
	}
	return nil
}

func (h *SlotHolds) key(theaterID, slotID uuid.UUID, day time.Time) string {
	return constants.BuildSlotHoldKey(theaterID.String(), slotID.String(), h.window.DayKey(day))
}

func (h *SlotHolds) Hold(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) (bool, error) {
	res, err := holdScript.Run(ctx, h.redis, []string{h.key(theaterID, slotID, day)}, userID, h.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to hold slot: %w", err)
	}
	return res == 1, nil
}

// Holder returns the user holding the slot, or "" when nobody does.
func (h *SlotHolds) Holder(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time) (string, error) {
	v, err := h.redis.Get(ctx, h.key(theaterID, slotID, day)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read slot hold: %w", err)
	}
	return v, nil
}

func (h *SlotHolds) Release(ctx context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) error {
	if err := releaseScript.Run(ctx, h.redis, []string{h.key(theaterID, slotID, day)}, userID).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release slot hold: %w", err)
	}
	return nil
}
