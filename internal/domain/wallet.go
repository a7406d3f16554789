package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	LedgerEntryCredit LedgerEntryType = "CREDIT"
	LedgerEntryDebit  LedgerEntryType = "DEBIT"
)

// WalletLedgerEntry is an immutable record of a wallet balance change, always
// attributable to a booking event. The wallet balance is the sum of its
// entries and is never overwritten directly.
type WalletLedgerEntry struct {
	ID          int
	UserID      int
	BookingID   int
	Amount      decimal.Decimal
	EntryType   LedgerEntryType
	Description string
	CreatedAt   time.Time
}

type Wallet struct {
	UserID  int
	Balance decimal.Decimal
	Entries []WalletLedgerEntry
}

type WalletRepository interface {
	GetByUserId(ctx context.Context, userID int) (*Wallet, error)
}
