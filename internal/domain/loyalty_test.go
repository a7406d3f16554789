package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTierForLifetimePoints(t *testing.T) {
	tests := []struct {
		name           string
		lifetimePoints int64
		want           LoyaltyTier
	}{
		{"zero points is bronze", 0, TierBronze},
		{"just below silver threshold", 1_999, TierBronze},
		{"silver threshold", 2_000, TierSilver},
		{"just below gold threshold", 4_999, TierSilver},
		{"gold threshold", 5_000, TierGold},
		{"just below platinum threshold", 9_999, TierGold},
		{"platinum threshold", 10_000, TierPlatinum},
		{"far beyond platinum", 1_000_000, TierPlatinum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierForLifetimePoints(tt.lifetimePoints))
		})
	}
}

func TestPointsForAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   int64
	}{
		{"999 subunits earns 99 points", decimal.NewFromFloat(9.99), 99},
		{"exact multiple", decimal.NewFromFloat(10.00), 100},
		{"below one point", decimal.NewFromFloat(0.09), 0},
		{"zero amount", decimal.Zero, 0},
		{"negative amount earns nothing", decimal.NewFromFloat(-5.00), 0},
		{"large amount", decimal.NewFromFloat(1234.56), 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsForAmount(tt.amount))
		})
	}
}
