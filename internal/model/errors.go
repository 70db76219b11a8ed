package model

import "errors"

// Error roots for the service. Usecases wrap these with fmt.Errorf("%w: ...")
// so the HTTP layer can map them to status codes with errors.Is while the
// message stays safe to show to the end user.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrBusinessRule = errors.New("business rule violation")
)
