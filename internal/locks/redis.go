// Package locks implements the seat hold protocol on a TTL-capable key-value
// store. The manager keeps no in-process lock state, so the service can run
// as multiple stateless instances.
package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// holdSeatsScript locks the whole batch or nothing. A seat already locked by
// the same holder is re-locked, which extends its TTL. The advisory set keeps
// the seat ids for listing.
var holdSeatsScript = redis.NewScript(`
	-- KEYS[1..n-1] = seat lock keys, KEYS[n] = advisory set key
	-- ARGV[1] = holder id, ARGV[2] = ttl seconds, ARGV[3..] = seat ids

	local setKey = KEYS[#KEYS]

	for i = 1, #KEYS - 1 do
		local owner = redis.call("GET", KEYS[i])
		if owner and owner ~= ARGV[1] then
			return {err = "seat already locked"}
		end
	end

	for i = 1, #KEYS - 1 do
		redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
		redis.call("SADD", setKey, ARGV[i + 2])
	end

	return "OK"
`)

// releaseSeatsScript deletes only the locks owned by the caller. Locks held
// by someone else are left alone.
var releaseSeatsScript = redis.NewScript(`
	-- KEYS[1..n-1] = seat lock keys, KEYS[n] = advisory set key
	-- ARGV[1] = holder id, ARGV[2..] = seat ids

	local setKey = KEYS[#KEYS]
	local released = 0

	for i = 1, #KEYS - 1 do
		local owner = redis.call("GET", KEYS[i])
		if owner == ARGV[1] then
			redis.call("DEL", KEYS[i])
			redis.call("SREM", setKey, ARGV[i + 1])
			released = released + 1
		end
	end

	return released
`)

// verifyHeldScript reports whether every lock in the batch is currently owned
// by the caller.
var verifyHeldScript = redis.NewScript(`
	-- KEYS = seat lock keys, ARGV[1] = holder id

	for i = 1, #KEYS do
		local owner = redis.call("GET", KEYS[i])
		if owner ~= ARGV[1] then
			return 0
		end
	end

	return 1
`)

// listHeldScript sweeps expired lock entries out of the advisory set and
// returns the seat ids still locked. Expired locks vanish by TTL; this sweep
// only keeps the listing fresh.
var listHeldScript = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local lockKey = "seat_lock:" .. showtimeId .. ":" .. seatId
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(validSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

type RedisSeatLockManager struct {
	client redis.UniversalClient
}

func NewRedisSeatLockManager(client redis.UniversalClient) *RedisSeatLockManager {
	return &RedisSeatLockManager{
		client: client,
	}
}

func (m *RedisSeatLockManager) Hold(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	holderID int,
	ttl time.Duration) error {

	keys := scriptKeys(showtimeID, seatIDs)
	args := make([]interface{}, 0, len(seatIDs)+2)
	args = append(args, holderID, int(ttl.Seconds()))

	for _, seatID := range seatIDs {
		args = append(args, seatID)
	}

	err := holdSeatsScript.Run(ctx, m.client, keys, args...).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already locked") {
			return domain.ErrSeatAlreadyReserved
		}

		return fmt.Errorf("failed to run hold seats script: %w", err)
	}

	return nil
}

func (m *RedisSeatLockManager) Release(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	holderID int) error {

	keys := scriptKeys(showtimeID, seatIDs)
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, holderID)

	for _, seatID := range seatIDs {
		args = append(args, seatID)
	}

	err := releaseSeatsScript.Run(ctx, m.client, keys, args...).Err()
	if err != nil {
		return fmt.Errorf("failed to run release seats script: %w", err)
	}

	return nil
}

func (m *RedisSeatLockManager) VerifyHeld(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	holderID int) error {

	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = lockKey(showtimeID, seatID)
	}

	held, err := verifyHeldScript.Run(ctx, m.client, keys, holderID).Int()
	if err != nil {
		return fmt.Errorf("failed to run verify held script: %w", err)
	}

	if held != 1 {
		return domain.ErrSeatLockExpired
	}

	return nil
}

func (m *RedisSeatLockManager) ListHeld(ctx context.Context, showtimeID int) ([]int, error) {
	cmd := listHeldScript.Run(ctx, m.client, []string{lockSetKey(showtimeID)}, showtimeID)

	seatIds, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run list held script: %w", err)
	}

	held := make([]int, len(seatIds))
	for i, seatId := range seatIds {
		held[i] = int(seatId)
	}

	return held, nil
}

func scriptKeys(showtimeID int, seatIDs []int) []string {
	keys := make([]string, 0, len(seatIDs)+1)

	for _, seatID := range seatIDs {
		keys = append(keys, lockKey(showtimeID, seatID))
	}

	return append(keys, lockSetKey(showtimeID))
}

func lockKey(showtimeID, seatID int) string {
	return fmt.Sprintf("seat_lock:%d:%d", showtimeID, seatID)
}

func lockSetKey(showtimeID int) string {
	return fmt.Sprintf("seat_locks:%d", showtimeID)
}
