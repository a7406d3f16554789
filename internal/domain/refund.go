package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// CancellationCutoff is the minimum time before the showtime at which a
	// booking may still be cancelled.
	CancellationCutoff = 2 * time.Hour

	// FullRefundWindow is how long before the showtime a cancellation still
	// refunds the full amount.
	FullRefundWindow = 24 * time.Hour
)

var partialRefundRate = decimal.NewFromFloat(0.80)

// RefundForCancellation computes the refund for cancelling a booking of the
// given total at the given moment. It returns ErrCancellationCutoff when the
// showtime is closer than the cutoff. The refund is truncated to the
// currency's smallest unit.
func RefundForCancellation(total decimal.Decimal, showtimeStartsAt, now time.Time) (decimal.Decimal, error) {
	untilShowtime := showtimeStartsAt.Sub(now)

	if untilShowtime < CancellationCutoff {
		return decimal.Zero, ErrCancellationCutoff
	}

	if untilShowtime > FullRefundWindow {
		return total, nil
	}

	return total.Mul(partialRefundRate).Truncate(2), nil
}
