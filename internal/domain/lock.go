package domain

import (
	"context"
	"time"
)

// SeatLockManager is the short-lived hold protocol on seats. Locks are an
// optimization to avoid wasted checkout attempts; the database uniqueness
// constraint remains the authoritative defense against double booking.
type SeatLockManager interface {
	// Hold atomically locks every seat in the batch for the holder, or none
	// of them. A re-hold by the same holder extends the TTL. Returns
	// ErrSeatAlreadyReserved when any seat is locked by a different holder.
	Hold(ctx context.Context, showtimeID int, seatIDs []int, holderID int, ttl time.Duration) error

	// Release removes the holder's locks on the given seats. Locks owned by
	// other holders are left untouched.
	Release(ctx context.Context, showtimeID int, seatIDs []int, holderID int) error

	// VerifyHeld returns ErrSeatLockExpired unless every seat is currently
	// locked by the holder.
	VerifyHeld(ctx context.Context, showtimeID int, seatIDs []int, holderID int) error

	// ListHeld returns the seats currently locked by anyone. The view is
	// advisory and may be stale by up to the client polling interval.
	ListHeld(ctx context.Context, showtimeID int) ([]int, error)
}
