package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "NONE"
	RefundStatusPending   RefundStatus = "PENDING"
	RefundStatusProcessed RefundStatus = "PROCESSED"
)

type Booking struct {
	ID                 int
	UserID             int
	ShowtimeID         int
	MovieTitle         string
	ShowtimeStartsAt   time.Time
	TotalAmount        decimal.Decimal
	PaymentReference   string
	Status             BookingStatus
	CreatedAt          time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	RefundAmount       *decimal.Decimal
	RefundStatus       RefundStatus
	Seats              []BookingSeat
}

type BookingSeat struct {
	BookingID  int
	ShowtimeID int
	SeatID     int
	Row        string
	Number     int
	Class      SeatClass
}

type BookingSummary struct {
	BookingID        int
	MovieTitle       string
	ShowtimeStartsAt time.Time
	TotalAmount      decimal.Decimal
	Status           BookingStatus
	CreatedAt        time.Time
}

// CancellationRequest carries the already-validated parameters of a
// cancellation into the repository transaction.
type CancellationRequest struct {
	BookingID    int
	UserID       int
	Reason       string
	RefundAmount decimal.Decimal
}

// Cancellation is the durable outcome of a successful cancellation.
type Cancellation struct {
	BookingID     int
	RefundAmount  decimal.Decimal
	WalletBalance decimal.Decimal
	CancelledAt   time.Time
}

type BookingRepository interface {
	// Create persists the booking, its seat associations and the loyalty
	// accrual in a single transaction. ErrSeatAlreadyBooked signals that a
	// seat lost the race against a competing confirmed booking.
	Create(ctx context.Context, booking *Booking, loyaltyPoints int64) error

	GetById(ctx context.Context, bookingID int) (*Booking, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)

	// GetSeatsByShowtimeId returns the seat associations that still hold
	// their seats for the showtime.
	GetSeatsByShowtimeId(ctx context.Context, showtimeID int) ([]BookingSeat, error)

	// Cancel flips the booking to CANCELLED and credits the refund to the
	// user's wallet ledger in a single transaction. ErrEditConflict signals
	// that the booking was no longer in a cancellable state.
	Cancel(ctx context.Context, req CancellationRequest) (*Cancellation, error)
}
