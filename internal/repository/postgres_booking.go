package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create persists the booking, its seat associations and the loyalty accrual
// in one transaction. The partial unique index on active (showtime, seat)
// pairs admits exactly one winner per contested seat; a loser rolls back
// wholesale and surfaces ErrSeatAlreadyBooked.
func (p *PostgresBookingRepository) Create(
	ctx context.Context,
	booking *domain.Booking,
	loyaltyPoints int64) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (user_id, showtime_id, total_amount, payment_reference, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.UserID,
			booking.ShowtimeID,
			booking.TotalAmount,
			booking.PaymentReference,
			domain.BookingStatusConfirmed).Scan(&booking.ID, &booking.CreatedAt)

		if err != nil {
			return err
		}

		booking.Status = domain.BookingStatusConfirmed

		rows := make([][]any, 0, len(booking.Seats))
		for i := range booking.Seats {
			booking.Seats[i].BookingID = booking.ID
			rows = append(rows, []any{
				booking.ID,
				booking.ShowtimeID,
				booking.Seats[i].SeatID,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showtime_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrSeatAlreadyBooked
			}

			return err
		}

		return p.AccrueLoyaltyPoints(ctx, tx, booking, loyaltyPoints)
	})
}

// AccrueLoyaltyPoints credits points for the booking at most once, so a
// retried accrual is a no-op. The unique booking_id on loyalty_transactions
// carries the guarantee; points are never reversed on cancellation.
func (p *PostgresBookingRepository) AccrueLoyaltyPoints(
	ctx context.Context,
	tx pgx.Tx,
	booking *domain.Booking,
	points int64) error {

	query := `
		INSERT INTO loyalty_transactions (booking_id, user_id, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (booking_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, booking.ID, booking.UserID, points)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	query = `
		INSERT INTO loyalty_accounts (user_id, points, lifetime_points, tier)
		VALUES ($1, $2, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET points = loyalty_accounts.points + EXCLUDED.points,
			lifetime_points = loyalty_accounts.lifetime_points + EXCLUDED.lifetime_points,
			updated_at = now()
		RETURNING lifetime_points
	`

	var lifetimePoints int64

	err = tx.QueryRow(ctx, query, booking.UserID, points, domain.TierBronze).Scan(&lifetimePoints)
	if err != nil {
		return err
	}

	tier := domain.TierForLifetimePoints(lifetimePoints)

	_, err = tx.Exec(ctx, `UPDATE loyalty_accounts SET tier = $2 WHERE user_id = $1`, booking.UserID, tier)

	return err
}

// Cancel reverses a confirmed booking: status flip, seat release, wallet
// ledger credit and refund audit row all commit together or not at all. The
// status guard in the UPDATE makes concurrent cancellations race-safe.
func (p *PostgresBookingRepository) Cancel(
	ctx context.Context,
	req domain.CancellationRequest) (*domain.Cancellation, error) {

	var cancellation domain.Cancellation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = $3,
				cancelled_at = now(),
				cancellation_reason = $4,
				refund_amount = $5,
				refund_status = $6
			WHERE id = $1 AND user_id = $2 AND status = $7
			RETURNING cancelled_at, payment_reference
		`

		var paymentReference string

		err := tx.QueryRow(
			ctx,
			query,
			req.BookingID,
			req.UserID,
			domain.BookingStatusCancelled,
			req.Reason,
			req.RefundAmount,
			domain.RefundStatusProcessed,
			domain.BookingStatusConfirmed).Scan(&cancellation.CancelledAt, &paymentReference)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEditConflict
			}

			return err
		}

		query = `
			UPDATE booking_seats
			SET released_at = now()
			WHERE booking_id = $1 AND released_at IS NULL
		`

		_, err = tx.Exec(ctx, query, req.BookingID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(
			ctx,
			`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
			req.UserID)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO wallet_ledger_entries (user_id, booking_id, amount, entry_type, description)
			VALUES ($1, $2, $3, $4, $5)
		`

		description := fmt.Sprintf("Refund for cancelled booking #%d", req.BookingID)

		_, err = tx.Exec(
			ctx,
			query,
			req.UserID,
			req.BookingID,
			req.RefundAmount,
			domain.LedgerEntryCredit,
			description)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO refund_transactions (id, booking_id, user_id, amount, payment_reference)
			VALUES ($1, $2, $3, $4, $5)
		`

		_, err = tx.Exec(
			ctx,
			query,
			uuid.New(),
			req.BookingID,
			req.UserID,
			req.RefundAmount,
			paymentReference)
		if err != nil {
			return err
		}

		query = `
			SELECT COALESCE(SUM(amount), 0)
			FROM wallet_ledger_entries
			WHERE user_id = $1
		`

		return tx.QueryRow(ctx, query, req.UserID).Scan(&cancellation.WalletBalance)
	})

	if err != nil {
		return nil, err
	}

	cancellation.BookingID = req.BookingID
	cancellation.RefundAmount = req.RefundAmount

	return &cancellation, nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, bookingID int) (*domain.Booking, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.showtime_id,
			s.movie_title,
			s.starts_at,
			b.total_amount,
			b.payment_reference,
			b.status,
			b.created_at,
			b.cancelled_at,
			b.cancellation_reason,
			b.refund_amount,
			b.refund_status
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		WHERE b.id = $1
	`

	var booking domain.Booking
	var cancelledAt *time.Time
	var refundAmount decimal.NullDecimal

	err := p.db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.MovieTitle,
		&booking.ShowtimeStartsAt,
		&booking.TotalAmount,
		&booking.PaymentReference,
		&booking.Status,
		&booking.CreatedAt,
		&cancelledAt,
		&booking.CancellationReason,
		&refundAmount,
		&booking.RefundStatus,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	booking.CancelledAt = cancelledAt
	if refundAmount.Valid {
		booking.RefundAmount = &refundAmount.Decimal
	}

	seats, err := p.retrieveBookingSeats(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

func (p *PostgresBookingRepository) retrieveBookingSeats(
	ctx context.Context,
	bookingID int) ([]domain.BookingSeat, error) {

	query := `
		SELECT bs.booking_id, bs.showtime_id, bs.seat_id, se.seat_row, se.seat_number, se.seat_class
		FROM booking_seats bs
		JOIN seats se ON bs.seat_id = se.id
		WHERE bs.booking_id = $1
		ORDER BY se.seat_row, se.seat_number
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookingSeats := make([]domain.BookingSeat, 0)

	for rows.Next() {
		var seat domain.BookingSeat

		err = rows.Scan(
			&seat.BookingID,
			&seat.ShowtimeID,
			&seat.SeatID,
			&seat.Row,
			&seat.Number,
			&seat.Class,
		)

		if err != nil {
			return nil, err
		}

		bookingSeats = append(bookingSeats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookingSeats, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			s.movie_title,
			s.starts_at,
			b.total_amount,
			b.status,
			b.created_at
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.MovieTitle,
			&summary.ShowtimeStartsAt,
			&summary.TotalAmount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

// GetSeatsByShowtimeId returns the seat associations that still hold their
// seats for the showtime, i.e. those not yet released by a cancellation.
func (p *PostgresBookingRepository) GetSeatsByShowtimeId(
	ctx context.Context,
	showtimeID int) ([]domain.BookingSeat, error) {

	query := `
		SELECT booking_id, showtime_id, seat_id
		FROM booking_seats
		WHERE showtime_id = $1 AND released_at IS NULL
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookingSeats := make([]domain.BookingSeat, 0)

	for rows.Next() {
		var seat domain.BookingSeat

		err = rows.Scan(&seat.BookingID, &seat.ShowtimeID, &seat.SeatID)
		if err != nil {
			return nil, err
		}

		bookingSeats = append(bookingSeats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookingSeats, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
