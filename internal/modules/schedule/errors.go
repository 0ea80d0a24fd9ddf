package schedule

import "errors"

var (
	ErrValidation   = errors.New("invalid slot data")
	ErrNotFound     = errors.New("slot not found")
	ErrSlotOccupied = errors.New("slot has a booking")
)
