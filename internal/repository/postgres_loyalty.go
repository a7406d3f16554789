package repository

import (
	"context"
	"errors"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLoyaltyRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLoyaltyRepository(db *pgxpool.Pool) *PostgresLoyaltyRepository {
	return &PostgresLoyaltyRepository{
		db: db,
	}
}

func (p *PostgresLoyaltyRepository) GetByUserId(ctx context.Context, userID int) (*domain.LoyaltyAccount, error) {
	query := `
		SELECT user_id, points, lifetime_points, tier, updated_at
		FROM loyalty_accounts
		WHERE user_id = $1
	`

	var account domain.LoyaltyAccount

	err := p.db.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.Points,
		&account.LifetimePoints,
		&account.Tier,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &account, nil
}
