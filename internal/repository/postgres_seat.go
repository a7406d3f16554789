package repository

import (
	"context"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetSeatMapByShowtime(
	ctx context.Context,
	showtimeID int) (*domain.ShowtimeSeatMap, error) {

	query := `
		SELECT
			sh.id,
			sh.movie_title,
			sh.starts_at,
			sh.base_price,
			sc.id,
			sc.name,
			se.id,
			se.seat_row,
			se.seat_number,
			se.seat_class
		FROM showtimes sh
		JOIN screens sc ON sh.screen_id = sc.id
		JOIN seats se ON se.screen_id = sc.id
		WHERE sh.id = $1
		ORDER BY se.seat_row, se.seat_number
	`

	return p.querySeatMap(ctx, query, showtimeID)
}

func (p *PostgresSeatRepository) GetSeatsByShowtimeAndSeatIds(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) (*domain.ShowtimeSeatMap, error) {

	query := `
		SELECT
			sh.id,
			sh.movie_title,
			sh.starts_at,
			sh.base_price,
			sc.id,
			sc.name,
			se.id,
			se.seat_row,
			se.seat_number,
			se.seat_class
		FROM showtimes sh
		JOIN screens sc ON sh.screen_id = sc.id
		JOIN seats se ON se.screen_id = sc.id
		WHERE sh.id = $1 AND se.id = ANY($2)
		ORDER BY se.seat_row, se.seat_number
	`

	return p.querySeatMap(ctx, query, showtimeID, seatIDs)
}

func (p *PostgresSeatRepository) querySeatMap(
	ctx context.Context,
	query string,
	args ...any) (*domain.ShowtimeSeatMap, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seatMap domain.ShowtimeSeatMap

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seatMap.ShowtimeID,
			&seatMap.MovieTitle,
			&seatMap.StartsAt,
			&seatMap.BasePrice,
			&seatMap.ScreenID,
			&seatMap.ScreenName,
			&seat.ID,
			&seat.Row,
			&seat.Number,
			&seat.Class,
		)
		if err != nil {
			return nil, err
		}

		seat.Available = true
		seatMap.Seats = append(seatMap.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seatMap.Seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return &seatMap, nil
}
