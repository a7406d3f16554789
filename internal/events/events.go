// Package events publishes booking lifecycle events to the message broker for
// downstream consumers (notifications, analytics). Publishing is best-effort:
// a failed publish is logged by the caller and never unwinds the committed
// booking or cancellation.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
)

type BookingConfirmed struct {
	BookingID   int             `json:"bookingId"`
	UserID      int             `json:"userId"`
	ShowtimeID  int             `json:"showtimeId"`
	MovieTitle  string          `json:"movieTitle"`
	StartsAt    time.Time       `json:"startsAt"`
	SeatIDs     []int           `json:"seatIds"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ConfirmedAt time.Time       `json:"confirmedAt"`
}

type BookingCancelled struct {
	BookingID    int             `json:"bookingId"`
	UserID       int             `json:"userId"`
	ShowtimeID   int             `json:"showtimeId"`
	MovieTitle   string          `json:"movieTitle"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	CancelledAt  time.Time       `json:"cancelledAt"`
}

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error
	PublishBookingCancelled(ctx context.Context, event BookingCancelled) error
}
