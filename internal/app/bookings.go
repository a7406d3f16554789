package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/events"
	"github.com/go-playground/validator/v10"
)

func (app *application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.CreateBookingRequest

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

	seatMap, err := app.seatRepo.GetSeatsByShowtimeAndSeatIds(r.Context(), input.ShowtimeId, input.SeatIdList)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponseWithErr(w, r, err)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seatMap.Seats) != len(input.SeatIdList) {
		logger.Warn("booking referenced unknown seats", "showtime_id", input.ShowtimeId, "seat_ids", input.SeatIdList)
		app.notFoundResponse(w, r)
		return
	}

	// The client quotes the total it showed to the user. A mismatch means the
	// pricing changed between seat selection and checkout.
	total := seatMap.TotalPrice()
	if !total.Equal(input.QuotedTotal) {
		logger.Warn("quoted total mismatch", "quoted", input.QuotedTotal, "actual", total)
		app.conflictResponse(w, r, "Seat prices have changed since the quote, please refresh and try again")
		return
	}

	err = app.seatLocks.VerifyHeld(r.Context(), input.ShowtimeId, input.SeatIdList, userId)
	if err != nil {
		if errors.Is(err, domain.ErrSeatLockExpired) {
			app.conflictResponse(w, r, "Your seat holds have expired, please select the seats again")
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	booking := &domain.Booking{
		UserID:           userId,
		ShowtimeID:       input.ShowtimeId,
		MovieTitle:       seatMap.MovieTitle,
		ShowtimeStartsAt: seatMap.StartsAt,
		TotalAmount:      total,
		PaymentReference: input.PaymentReference,
		Status:           domain.BookingStatusConfirmed,
		Seats:            toBookingSeats(input.ShowtimeId, seatMap.Seats),
	}

	err = app.bookingRepo.Create(r.Context(), booking, domain.PointsForAmount(total))
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyBooked) {
			logger.Warn("booking lost the race for a seat", "showtime_id", input.ShowtimeId, "seat_ids", input.SeatIdList)
			app.conflictResponse(w, r, "One or more of the selected seats have just been booked by someone else")
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	// The booking is committed; lock cleanup is best-effort since the TTL
	// reclaims stale locks anyway.
	err = app.seatLocks.Release(r.Context(), input.ShowtimeId, input.SeatIdList, userId)
	if err != nil {
		logger.Error("failed to release seat locks after booking", "booking_id", booking.ID, "error", err)
	}

	app.notifyBookingConfirmed(r, booking)

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) notifyBookingConfirmed(r *http.Request, booking *domain.Booking) {
	userEmail := app.sessionManager.GetString(r.Context(), SessionKeyUserEmail.String())

	seatIds := make([]int, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seatIds = append(seatIds, seat.SeatID)
	}

	event := events.BookingConfirmed{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ShowtimeID:  booking.ShowtimeID,
		MovieTitle:  booking.MovieTitle,
		StartsAt:    booking.ShowtimeStartsAt,
		SeatIDs:     seatIds,
		TotalAmount: booking.TotalAmount,
		ConfirmedAt: booking.CreatedAt,
	}

	app.background(func() {
		err := app.events.PublishBookingConfirmed(context.Background(), event)
		if err != nil {
			app.logger.Error("failed to publish booking confirmed event", "booking_id", booking.ID, "error", err)
		}
	})

	if userEmail == "" {
		return
	}

	data := map[string]any{
		"BookingID":   booking.ID,
		"MovieTitle":  booking.MovieTitle,
		"StartsAt":    booking.ShowtimeStartsAt,
		"Seats":       booking.Seats,
		"TotalAmount": booking.TotalAmount,
	}

	app.background(func() {
		err := app.mailer.Send(userEmail, "booking_confirmation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send booking confirmation email", "booking_id", booking.ID, "error", err)
		}
	})
}

func (app *application) GetBookingHandler(w http.ResponseWriter, r *http.Request, bookingID int) {
	userId := app.contextGetUserId(r)

	booking, err := app.bookingRepo.GetById(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	if booking.UserID != userId {
		app.forbiddenResponse(w, r)
		return
	}

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetBookingsOfUserHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	pagination := domain.Pagination{
		Page:     app.readIntQuery(r, "page", 1),
		PageSize: app.readIntQuery(r, "pageSize", 10),
	}

	if pagination.Page < 1 || pagination.PageSize < 1 || pagination.PageSize > 100 {
		app.badRequestResponse(w, r, errors.New("invalid pagination parameters"))
		return
	}

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	bookings := make([]api.BookingSummary, 0, len(summaries))

	for _, summary := range summaries {
		bookings = append(bookings, api.BookingSummary{
			Id:          summary.BookingID,
			MovieTitle:  summary.MovieTitle,
			StartsAt:    summary.ShowtimeStartsAt,
			TotalAmount: summary.TotalAmount,
			Status:      string(summary.Status),
			CreatedAt:   summary.CreatedAt,
		})
	}

	resp := api.UserBookingsResponse{
		Bookings: bookings,
		Metadata: api.Metadata{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingSeats(showtimeID int, seats []domain.Seat) []domain.BookingSeat {
	bookingSeats := make([]domain.BookingSeat, 0, len(seats))

	for _, seat := range seats {
		bookingSeats = append(bookingSeats, domain.BookingSeat{
			ShowtimeID: showtimeID,
			SeatID:     seat.ID,
			Row:        seat.Row,
			Number:     seat.Number,
			Class:      seat.Class,
		})
	}

	return bookingSeats
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]api.BookingSeat, 0, len(booking.Seats))

	for _, seat := range booking.Seats {
		seats = append(seats, api.BookingSeat{
			Id:     seat.SeatID,
			Row:    seat.Row,
			Number: seat.Number,
			Class:  string(seat.Class),
		})
	}

	return api.BookingResponse{
		Id:               booking.ID,
		ShowtimeId:       booking.ShowtimeID,
		MovieTitle:       booking.MovieTitle,
		StartsAt:         booking.ShowtimeStartsAt,
		Seats:            seats,
		TotalAmount:      booking.TotalAmount,
		PaymentReference: booking.PaymentReference,
		Status:           string(booking.Status),
		CreatedAt:        booking.CreatedAt,
	}
}
