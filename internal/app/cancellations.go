package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
	"github.com/cinebook/booking-api/internal/events"
	"github.com/go-playground/validator/v10"
)

func (app *application) CancelBookingHandler(w http.ResponseWriter, r *http.Request, bookingID int) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.CancelBookingRequest

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

	if booking.Status != domain.BookingStatusConfirmed {
		app.unprocessableEntityResponse(w, r, "Only confirmed bookings can be cancelled")
		return
	}

	refund, err := domain.RefundForCancellation(booking.TotalAmount, booking.ShowtimeStartsAt, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrCancellationCutoff) {
			app.unprocessableEntityResponse(w, r, "Bookings can no longer be cancelled this close to the showtime")
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	cancellation, err := app.bookingRepo.Cancel(r.Context(), domain.CancellationRequest{
		BookingID:    bookingID,
		UserID:       userId,
		Reason:       input.Reason,
		RefundAmount: refund,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEditConflict) {
			logger.Warn("booking state changed during cancellation", "booking_id", bookingID)
			app.editConflictResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	app.notifyBookingCancelled(r, booking, cancellation)

	resp := api.CancellationResponse{
		BookingId:     cancellation.BookingID,
		Status:        string(domain.BookingStatusCancelled),
		RefundAmount:  cancellation.RefundAmount,
		RefundStatus:  string(domain.RefundStatusProcessed),
		WalletBalance: cancellation.WalletBalance,
		CancelledAt:   cancellation.CancelledAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) notifyBookingCancelled(r *http.Request, booking *domain.Booking, cancellation *domain.Cancellation) {
	userEmail := app.sessionManager.GetString(r.Context(), SessionKeyUserEmail.String())

	event := events.BookingCancelled{
		BookingID:    cancellation.BookingID,
		UserID:       booking.UserID,
		ShowtimeID:   booking.ShowtimeID,
		MovieTitle:   booking.MovieTitle,
		RefundAmount: cancellation.RefundAmount,
		CancelledAt:  cancellation.CancelledAt,
	}

	app.background(func() {
		err := app.events.PublishBookingCancelled(context.Background(), event)
		if err != nil {
			app.logger.Error("failed to publish booking cancelled event", "booking_id", booking.ID, "error", err)
		}
	})

	if userEmail == "" {
		return
	}

	data := map[string]any{
		"BookingID":    booking.ID,
		"MovieTitle":   booking.MovieTitle,
		"StartsAt":     booking.ShowtimeStartsAt,
		"RefundAmount": cancellation.RefundAmount,
	}

	app.background(func() {
		err := app.mailer.Send(userEmail, "booking_cancellation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send booking cancellation email", "booking_id", booking.ID, "error", err)
		}
	})
}
