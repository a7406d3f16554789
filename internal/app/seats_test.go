package app

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SeatsTestSuite struct {
	suite.Suite
	app         *application
	seatRepo    *mocks.MockSeatRepo
	bookingRepo *mocks.MockBookingRepo
	seatLocks   *mocks.MockSeatLockManager
}

func (s *SeatsTestSuite) SetupTest() {
	s.seatRepo = new(mocks.MockSeatRepo)
	s.bookingRepo = new(mocks.MockBookingRepo)
	s.seatLocks = new(mocks.MockSeatLockManager)

	s.app = newTestApplication(func(a *application) {
		a.seatRepo = s.seatRepo
		a.bookingRepo = s.bookingRepo
		a.seatLocks = s.seatLocks
		a.sessionManager = scs.New()
	})
}

func TestSeatsSuite(t *testing.T) {
	suite.Run(t, new(SeatsTestSuite))
}

func (s *SeatsTestSuite) TestGetSeatMapByShowtime() {
	tests := []struct {
		name            string
		setupMocks      func()
		wantStatus      int
		wantErrMessage  string
		wantUnavailable []int
	}{
		{
			name: "should fail when showtime does not exist",
			setupMocks: func() {
				s.seatRepo.On("GetSeatMapByShowtime", mock.Anything, testShowtimeID).
					Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name: "should fail when lock store is unavailable",
			setupMocks: func() {
				s.seatRepo.On("GetSeatMapByShowtime", mock.Anything, testShowtimeID).
					Return(testSeatMap(), nil)
				s.seatLocks.On("ListHeld", mock.Anything, testShowtimeID).
					Return(nil, fmt.Errorf("connection refused"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "should return all seats available when nothing is locked or booked",
			setupMocks: func() {
				s.seatRepo.On("GetSeatMapByShowtime", mock.Anything, testShowtimeID).
					Return(testSeatMap(), nil)
				s.seatLocks.On("ListHeld", mock.Anything, testShowtimeID).
					Return([]int{}, nil)
				s.bookingRepo.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).
					Return([]domain.BookingSeat{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "should mark locked and booked seats as unavailable",
			setupMocks: func() {
				s.seatRepo.On("GetSeatMapByShowtime", mock.Anything, testShowtimeID).
					Return(testSeatMap(), nil)
				s.seatLocks.On("ListHeld", mock.Anything, testShowtimeID).
					Return([]int{2}, nil)
				s.bookingRepo.On("GetSeatsByShowtimeId", mock.Anything, testShowtimeID).
					Return([]domain.BookingSeat{{BookingID: 9, ShowtimeID: testShowtimeID, SeatID: 3}}, nil)
			},
			wantStatus:      http.StatusOK,
			wantUnavailable: []int{2, 3},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			tt.setupMocks()

			w, r := executeRequest(s.T(), http.MethodGet, "/showtimes/1/seats", nil)

			s.app.GetSeatMapByShowtime(w, r, testShowtimeID)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{tt.wantStatus, tt.wantErrMessage})

			if tt.wantStatus == http.StatusOK {
				var resp api.SeatMapResponse
				s.Require().NoError(jsonDecode(w, &resp))

				s.Equal(testShowtimeID, resp.ShowtimeId)
				s.Require().Len(resp.Seats, 3)

				unavailable := make(map[int]bool)
				for _, id := range tt.wantUnavailable {
					unavailable[id] = true
				}

				for _, seat := range resp.Seats {
					s.Equal(!unavailable[seat.Id], seat.Available, "seat %d", seat.Id)
				}

				// Class multipliers applied to the base price.
				s.True(resp.Seats[0].Price.Equal(decimal.RequireFromString("10.00")))
				s.True(resp.Seats[1].Price.Equal(decimal.RequireFromString("12.50")))
				s.True(resp.Seats[2].Price.Equal(decimal.RequireFromString("15.00")))
			}

			s.seatRepo.AssertExpectations(s.T())
			s.seatLocks.AssertExpectations(s.T())
			s.bookingRepo.AssertExpectations(s.T())
		})
	}
}
