package locks

import (
	"context"
	"testing"
	"time"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHoldPassesLockKeysAndHolder(t *testing.T) {
	client := new(mocks.MockRedisClient)
	manager := NewRedisSeatLockManager(client)

	wantKeys := []string{"seat_lock:7:1", "seat_lock:7:2", "seat_locks:7"}

	client.On("EvalSha", mock.Anything, mock.Anything, wantKeys, 42, 60, 1, 2).
		Return(redis.NewCmdResult("OK", nil))

	err := manager.Hold(context.Background(), 7, []int{1, 2}, 42, 60*time.Second)

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestVerifyHeld(t *testing.T) {
	tests := []struct {
		name    string
		result  interface{}
		wantErr error
	}{
		{"all locks owned by holder", int64(1), nil},
		{"a lock is missing or stolen", int64(0), domain.ErrSeatLockExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockRedisClient)
			manager := NewRedisSeatLockManager(client)

			client.On("EvalSha", mock.Anything, mock.Anything, []string{"seat_lock:7:5"}, 42).
				Return(redis.NewCmdResult(tt.result, nil))

			err := manager.VerifyHeld(context.Background(), 7, []int{5}, 42)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReleaseOnlyTouchesOwnLocks(t *testing.T) {
	client := new(mocks.MockRedisClient)
	manager := NewRedisSeatLockManager(client)

	wantKeys := []string{"seat_lock:7:3", "seat_locks:7"}

	// The script releases nothing when the caller owns nothing; that is still
	// a successful, no-op release.
	client.On("EvalSha", mock.Anything, mock.Anything, wantKeys, 42, 3).
		Return(redis.NewCmdResult(int64(0), nil))

	err := manager.Release(context.Background(), 7, []int{3}, 42)

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestListHeldConvertsSeatIds(t *testing.T) {
	client := new(mocks.MockRedisClient)
	manager := NewRedisSeatLockManager(client)

	client.On("EvalSha", mock.Anything, mock.Anything, []string{"seat_locks:7"}, 7).
		Return(redis.NewCmdResult([]interface{}{int64(4), int64(9)}, nil))

	held, err := manager.ListHeld(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, []int{4, 9}, held)
}
