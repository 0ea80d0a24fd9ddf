package repository

import "errors"

var (
	// ErrSlotsUnavailable means the requested contiguous run was not
	// free at the moment of the reservation transaction.
	ErrSlotsUnavailable = errors.New("slots unavailable")

	// ErrSlotOccupied means a slot cannot be deleted while booked.
	ErrSlotOccupied = errors.New("slot occupied")
)
