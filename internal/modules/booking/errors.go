package booking

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("booking not found")
	ErrForbidden          = errors.New("forbidden")
	ErrSlotConflict       = errors.New("time slot conflicts with an existing booking")
	ErrNoScheduleCoverage = errors.New("no schedule covers the requested time slot")
	ErrCourtClosed        = errors.New("court is closed")
)
