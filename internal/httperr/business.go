package httperr

import "errors"

// BusinessError is a rule violation addressed to the caller, carried by
// its machine-readable code ("slot_taken" is not one of these; conflicts
// have their own typed errors with payload). The code doubles as the
// error_code field of the HTTP envelope.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err is a BusinessError with the given code.
// Tests and handler switches match on codes, never on message text.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
