package app

import (
	"errors"
	"net/http"

	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

func (app *application) HoldSeatsHandler(w http.ResponseWriter, r *http.Request, showtimeID int) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.HoldSeatsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			app.failedValidationResponse(w, r, validationErrors)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	// Existence check before locking, so holds on unknown seats fail fast.
	_, err = app.seatRepo.GetSeatsByShowtimeAndSeatIds(r.Context(), showtimeID, input.SeatIdList)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponseWithErr(w, r, err)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	// A sold seat conflicts outright; locks only arbitrate between buyers
	// who haven't checked out yet.
	bookedSeats, err := app.bookingRepo.GetSeatsByShowtimeId(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	booked := make(map[int]bool, len(bookedSeats))
	for _, seat := range bookedSeats {
		booked[seat.SeatID] = true
	}

	for _, seatId := range input.SeatIdList {
		if booked[seatId] {
			logger.Warn("seat hold rejected, seat already booked", "showtime_id", showtimeID, "seat_id", seatId)
			app.conflictResponse(w, r, "One or more of the selected seats are already booked")
			return
		}
	}

	err = app.seatLocks.Hold(r.Context(), showtimeID, input.SeatIdList, userId, app.config.seatLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyReserved) {
			logger.Warn("seat hold rejected", "showtime_id", showtimeID, "seat_ids", input.SeatIdList)
			app.conflictResponse(w, r, "One or more of the selected seats are already being held by someone else")
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.HoldSeatsResponse{
		ShowtimeId:       showtimeID,
		SeatIds:          input.SeatIdList,
		ExpiresInSeconds: int(app.config.seatLockTTL.Seconds()),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ReleaseSeatsHandler(w http.ResponseWriter, r *http.Request, showtimeID int) {
	userId := app.contextGetUserId(r)

	var input api.ReleaseSeatsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			app.failedValidationResponse(w, r, validationErrors)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	// Releasing seats the user no longer holds is a no-op, not an error.
	err = app.seatLocks.Release(r.Context(), showtimeID, input.SeatIdList, userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
