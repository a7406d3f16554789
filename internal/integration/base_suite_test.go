package integration_test

import (
	"context"
	"log"
	"time"

	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/locks"
	"github.com/cinebook/booking-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinebook"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	db             *pgxpool.Pool
	redis          *redis.Client
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer

	seatRepo    *repository.PostgresSeatRepository
	bookingRepo *repository.PostgresBookingRepository
	walletRepo  *repository.PostgresWalletRepository
	loyaltyRepo *repository.PostgresLoyaltyRepository
	seatLocks   *locks.RedisSeatLockManager
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		s.T().Skipf("skipping integration tests, could not start DB container: %s", err)
		return
	}

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		s.T().Skipf("skipping integration tests, could not start cache container: %s", err)
		return
	}

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer

	db, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	s.Require().NoError(err)

	s.db = db
	s.redis = redis.NewClient(&redis.Options{Addr: redisContainer.ConnectionString})

	s.seatRepo = repository.NewPostgresSeatRepository(db)
	s.bookingRepo = repository.NewPostgresBookingRepository(db)
	s.walletRepo = repository.NewPostgresWalletRepository(db)
	s.loyaltyRepo = repository.NewPostgresLoyaltyRepository(db)
	s.seatLocks = locks.NewRedisSeatLockManager(s.redis)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.db.Exec(ctx, `
		TRUNCATE booking_seats, wallet_ledger_entries, refund_transactions,
			loyalty_transactions, bookings, loyalty_accounts, wallets,
			showtimes, seats, screens
		RESTART IDENTITY CASCADE
	`)
	s.Require().NoError(err)

	s.Require().NoError(s.redis.FlushAll(ctx).Err())
}

// seedShowtime creates a screen with six seats (four standard, one premium,
// one VIP) and a showtime on it. Returns the showtime id and the seat ids in
// row/number order.
func (s *BaseSuite) seedShowtime(startsAt time.Time) (int, []int) {
	ctx := context.Background()

	var screenID int
	err := s.db.QueryRow(ctx, `INSERT INTO screens (name) VALUES ('Screen 1') RETURNING id`).Scan(&screenID)
	s.Require().NoError(err)

	seatDefs := []struct {
		row    string
		number int
		class  domain.SeatClass
	}{
		{"A", 1, domain.SeatClassStandard},
		{"A", 2, domain.SeatClassStandard},
		{"A", 3, domain.SeatClassStandard},
		{"A", 4, domain.SeatClassStandard},
		{"B", 1, domain.SeatClassPremium},
		{"B", 2, domain.SeatClassVIP},
	}

	seatIDs := make([]int, 0, len(seatDefs))

	for _, def := range seatDefs {
		var seatID int
		err := s.db.QueryRow(ctx, `
			INSERT INTO seats (screen_id, seat_row, seat_number, seat_class)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, screenID, def.row, def.number, def.class).Scan(&seatID)
		s.Require().NoError(err)

		seatIDs = append(seatIDs, seatID)
	}

	var showtimeID int
	err = s.db.QueryRow(ctx, `
		INSERT INTO showtimes (movie_title, screen_id, starts_at, base_price)
		VALUES ('Interstellar', $1, $2, 10.00)
		RETURNING id
	`, screenID, startsAt).Scan(&showtimeID)
	s.Require().NoError(err)

	return showtimeID, seatIDs
}

func (s *BaseSuite) newBooking(userID, showtimeID int, seatIDs []int) *domain.Booking {
	ctx := context.Background()

	seatMap, err := s.seatRepo.GetSeatsByShowtimeAndSeatIds(ctx, showtimeID, seatIDs)
	s.Require().NoError(err)
	s.Require().Len(seatMap.Seats, len(seatIDs))

	bookingSeats := make([]domain.BookingSeat, 0, len(seatMap.Seats))
	for _, seat := range seatMap.Seats {
		bookingSeats = append(bookingSeats, domain.BookingSeat{
			ShowtimeID: showtimeID,
			SeatID:     seat.ID,
			Row:        seat.Row,
			Number:     seat.Number,
			Class:      seat.Class,
		})
	}

	return &domain.Booking{
		UserID:           userID,
		ShowtimeID:       showtimeID,
		TotalAmount:      seatMap.TotalPrice(),
		PaymentReference: "pay_test_ref",
		Status:           domain.BookingStatusConfirmed,
		Seats:            bookingSeats,
	}
}

// createBooking seeds a confirmed booking through the repository, accruing
// loyalty points the same way the checkout flow does.
func (s *BaseSuite) createBooking(userID, showtimeID int, seatIDs []int) *domain.Booking {
	booking := s.newBooking(userID, showtimeID, seatIDs)

	err := s.bookingRepo.Create(context.Background(), booking, domain.PointsForAmount(booking.TotalAmount))
	s.Require().NoError(err)

	return booking
}
