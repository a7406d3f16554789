package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "BRONZE"
	TierSilver   LoyaltyTier = "SILVER"
	TierGold     LoyaltyTier = "GOLD"
	TierPlatinum LoyaltyTier = "PLATINUM"
)

const (
	silverThreshold   = 2_000
	goldThreshold     = 5_000
	platinumThreshold = 10_000
)

// pointValue is the amount of money that earns one loyalty point.
var pointValue = decimal.New(1, -1) // 0.10

// TierForLifetimePoints derives the loyalty tier from lifetime-earned points.
func TierForLifetimePoints(lifetimePoints int64) LoyaltyTier {
	switch {
	case lifetimePoints >= platinumThreshold:
		return TierPlatinum
	case lifetimePoints >= goldThreshold:
		return TierGold
	case lifetimePoints >= silverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// PointsForAmount returns the loyalty points earned by a charge, rounding
// down. Points are accrued once per confirmed booking and are not clawed
// back on cancellation.
func PointsForAmount(amount decimal.Decimal) int64 {
	if amount.IsNegative() {
		return 0
	}

	return amount.Div(pointValue).Floor().IntPart()
}

type LoyaltyAccount struct {
	UserID         int
	Points         int64
	LifetimePoints int64
	Tier           LoyaltyTier
	UpdatedAt      time.Time
}

type LoyaltyRepository interface {
	GetByUserId(ctx context.Context, userID int) (*LoyaltyAccount, error)
}
