package mocks

import (
	"context"

	"github.com/cinebook/booking-api/internal/events"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBookingConfirmed(ctx context.Context, event events.BookingConfirmed) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBookingCancelled(ctx context.Context, event events.BookingCancelled) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
