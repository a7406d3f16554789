package repository

import (
	"context"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresWalletRepository struct {
	db *pgxpool.Pool
}

func NewPostgresWalletRepository(db *pgxpool.Pool) *PostgresWalletRepository {
	return &PostgresWalletRepository{
		db: db,
	}
}

// GetByUserId returns the user's wallet with its full ledger. A user without
// a wallet row yet simply has an empty ledger and a zero balance.
func (p *PostgresWalletRepository) GetByUserId(ctx context.Context, userID int) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, booking_id, amount, entry_type, description, created_at
		FROM wallet_ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallet := domain.Wallet{
		UserID:  userID,
		Balance: decimal.Zero,
		Entries: make([]domain.WalletLedgerEntry, 0),
	}

	for rows.Next() {
		var entry domain.WalletLedgerEntry

		err = rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.BookingID,
			&entry.Amount,
			&entry.EntryType,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		wallet.Balance = wallet.Balance.Add(entry.Amount)
		wallet.Entries = append(wallet.Entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &wallet, nil
}
