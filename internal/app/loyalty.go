package app

import (
	"errors"
	"net/http"

	"github.com/cinebook/booking-api/api"
	"github.com/cinebook/booking-api/internal/domain"
)

func (app *application) GetLoyaltyAccountHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	account, err := app.loyaltyRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		// Users without a booking yet start at the bottom tier.
		if errors.Is(err, domain.ErrRecordNotFound) {
			account = &domain.LoyaltyAccount{
				UserID: userId,
				Tier:   domain.TierBronze,
			}
		} else {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	resp := api.LoyaltyAccountResponse{
		Points:         account.Points,
		LifetimePoints: account.LifetimePoints,
		Tier:           string(account.Tier),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
