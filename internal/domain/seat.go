package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SeatClass string

const (
	SeatClassStandard SeatClass = "STANDARD"
	SeatClassPremium  SeatClass = "PREMIUM"
	SeatClassVIP      SeatClass = "VIP"
)

var seatClassMultipliers = map[SeatClass]decimal.Decimal{
	SeatClassStandard: decimal.NewFromFloat(1.00),
	SeatClassPremium:  decimal.NewFromFloat(1.25),
	SeatClassVIP:      decimal.NewFromFloat(1.50),
}

// PriceMultiplier returns the factor applied to a showtime's base price for
// this seat class. Unknown classes price as standard.
func (c SeatClass) PriceMultiplier() decimal.Decimal {
	if m, ok := seatClassMultipliers[c]; ok {
		return m
	}

	return seatClassMultipliers[SeatClassStandard]
}

type Seat struct {
	ID        int
	Row       string
	Number    int
	Class     SeatClass
	Available bool
}

// Price is the seat's full ticket price for a showtime with the given base price.
func (s Seat) Price(basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(s.Class.PriceMultiplier()).Round(2)
}

// ShowtimeSeatMap carries a showtime's reference data together with its seats,
// pre-sorted by row and seat number.
type ShowtimeSeatMap struct {
	ShowtimeID int
	MovieTitle string
	ScreenID   int
	ScreenName string
	StartsAt   time.Time
	BasePrice  decimal.Decimal
	Seats      []Seat
}

// TotalPrice sums the ticket price of every seat in the map.
func (m *ShowtimeSeatMap) TotalPrice() decimal.Decimal {
	total := decimal.Zero

	for _, seat := range m.Seats {
		total = total.Add(seat.Price(m.BasePrice))
	}

	return total
}

type SeatRepository interface {
	GetSeatMapByShowtime(ctx context.Context, showtimeID int) (*ShowtimeSeatMap, error)
	GetSeatsByShowtimeAndSeatIds(ctx context.Context, showtimeID int, seatIDs []int) (*ShowtimeSeatMap, error)
}
