package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
)

func (app *application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request, showtimeID int) {
	logger := app.contextGetLogger(r)

	seatMap, err := app.seatRepo.GetSeatMapByShowtime(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Warn("seat map not found for showtime", "showtime_id", showtimeID)
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.updateSeatAvailability(r.Context(), showtimeID, seatMap)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateSeatAvailability flags every seat that is either locked in Redis or
// already part of a confirmed booking.
func (app *application) updateSeatAvailability(ctx context.Context, showtimeID int, seatMap *domain.ShowtimeSeatMap) error {
	lockedSeatIds, err := app.seatLocks.ListHeld(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("failed to list held seats: %w", err)
	}

	bookedSeats, err := app.bookingRepo.GetSeatsByShowtimeId(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("failed to get booked seats from DB: %w", err)
	}

	unavailableSeats := make(map[int]bool)

	for _, seatId := range lockedSeatIds {
		unavailableSeats[seatId] = true
	}

	for _, bookedSeat := range bookedSeats {
		unavailableSeats[bookedSeat.SeatID] = true
	}

	for i := range seatMap.Seats {
		if unavailableSeats[seatMap.Seats[i].ID] {
			seatMap.Seats[i].Available = false
		}
	}

	return nil
}

func toSeatMapResponse(seatMap *domain.ShowtimeSeatMap) api.SeatMapResponse {
	seats := make([]api.Seat, 0, len(seatMap.Seats))

	for _, v := range seatMap.Seats {
		seats = append(seats, api.Seat{
			Id:        v.ID,
			Row:       v.Row,
			Number:    v.Number,
			Class:     string(v.Class),
			Price:     v.Price(seatMap.BasePrice),
			Available: v.Available,
		})
	}

	return api.SeatMapResponse{
		ShowtimeId: seatMap.ShowtimeID,
		MovieTitle: seatMap.MovieTitle,
		ScreenName: seatMap.ScreenName,
		StartsAt:   seatMap.StartsAt,
		BasePrice:  seatMap.BasePrice,
		Seats:      seats,
	}
}
