// Package api defines the request and response types of the booking HTTP API.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Seat struct {
	Id        int             `json:"id"`
	Row       string          `json:"row"`
	Number    int             `json:"number"`
	Class     string          `json:"class"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type SeatMapResponse struct {
	ShowtimeId int             `json:"showtimeId"`
	MovieTitle string          `json:"movieTitle"`
	ScreenName string          `json:"screenName"`
	StartsAt   time.Time       `json:"startsAt"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	Seats      []Seat          `json:"seats"`
}

type HoldSeatsRequest struct {
	SeatIdList []int `json:"seatIds" validate:"required,min=1,max=8,dive,gt=0"`
}

type HoldSeatsResponse struct {
	ShowtimeId       int   `json:"showtimeId"`
	SeatIds          []int `json:"seatIds"`
	ExpiresInSeconds int   `json:"expiresInSeconds"`
}

type ReleaseSeatsRequest struct {
	SeatIdList []int `json:"seatIds" validate:"required,min=1,max=8,dive,gt=0"`
}

type CreateBookingRequest struct {
	ShowtimeId       int             `json:"showtimeId" validate:"required,gt=0"`
	SeatIdList       []int           `json:"seatIds" validate:"required,min=1,max=8,dive,gt=0"`
	PaymentReference string          `json:"paymentReference" validate:"required,max=255"`
	QuotedTotal      decimal.Decimal `json:"quotedTotal" validate:"required"`
}

type BookingSeat struct {
	Id     int    `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Class  string `json:"class"`
}

type BookingResponse struct {
	Id               int             `json:"id"`
	ShowtimeId       int             `json:"showtimeId"`
	MovieTitle       string          `json:"movieTitle"`
	StartsAt         time.Time       `json:"startsAt"`
	Seats            []BookingSeat   `json:"seats"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	PaymentReference string          `json:"paymentReference"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	Id          int             `json:"id"`
	MovieTitle  string          `json:"movieTitle"`
	StartsAt    time.Time       `json:"startsAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type CancellationResponse struct {
	BookingId     int             `json:"bookingId"`
	Status        string          `json:"status"`
	RefundAmount  decimal.Decimal `json:"refundAmount"`
	RefundStatus  string          `json:"refundStatus"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	CancelledAt   time.Time       `json:"cancelledAt"`
}

type WalletLedgerEntry struct {
	Id          int             `json:"id"`
	BookingId   int             `json:"bookingId"`
	Amount      decimal.Decimal `json:"amount"`
	EntryType   string          `json:"entryType"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type WalletResponse struct {
	Balance decimal.Decimal     `json:"balance"`
	Entries []WalletLedgerEntry `json:"entries"`
}

type LoyaltyAccountResponse struct {
	Points         int64  `json:"points"`
	LifetimePoints int64  `json:"lifetimePoints"`
	Tier           string `json:"tier"`
}
