package mocks

import (
	"context"
	"time"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatLockManager struct {
	mock.Mock
	domain.SeatLockManager
}

func (m *MockSeatLockManager) Hold(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	holderID int,
	ttl time.Duration) error {

	args := m.Called(ctx, showtimeID, seatIDs, holderID, ttl)
	return args.Error(0)
}

func (m *MockSeatLockManager) Release(ctx context.Context, showtimeID int, seatIDs []int, holderID int) error {
	args := m.Called(ctx, showtimeID, seatIDs, holderID)
	return args.Error(0)
}

func (m *MockSeatLockManager) VerifyHeld(ctx context.Context, showtimeID int, seatIDs []int, holderID int) error {
	args := m.Called(ctx, showtimeID, seatIDs, holderID)
	return args.Error(0)
}

func (m *MockSeatLockManager) ListHeld(ctx context.Context, showtimeID int) ([]int, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
