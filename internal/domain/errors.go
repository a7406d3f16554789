package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrSeatAlreadyReserved = errors.New("seat(s) are already reserved")
	ErrSeatAlreadyBooked   = errors.New("seat(s) already belong to a confirmed booking")
	ErrSeatLockExpired     = errors.New("your seat selections have expired, please select your seats again")
	ErrCancellationCutoff  = errors.New("the showtime is too close to cancel the booking")
)
