package controller

import "errors"

// ValidationError is a form problem the user must fix before anything is
// sent to the service.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrFieldsRequired is returned by Submit when name or email is blank.
var ErrFieldsRequired = &ValidationError{Message: "All fields are required"}

// ErrNoConfirmer is returned by Delete when no Confirmer was supplied.
var ErrNoConfirmer = errors.New("no confirmer")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
