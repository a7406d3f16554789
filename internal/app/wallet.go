package app

import (
	"net/http"

	"github.com/cinebook/booking-api/api"
)

func (app *application) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	wallet, err := app.walletRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	entries := make([]api.WalletLedgerEntry, 0, len(wallet.Entries))

	for _, entry := range wallet.Entries {
		entries = append(entries, api.WalletLedgerEntry{
			Id:          entry.ID,
			BookingId:   entry.BookingID,
			Amount:      entry.Amount,
			EntryType:   string(entry.EntryType),
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}

	resp := api.WalletResponse{
		Balance: wallet.Balance,
		Entries: entries,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
