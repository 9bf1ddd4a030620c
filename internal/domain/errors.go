package domain

import "errors"

var (
	// ErrBondNotFound is returned when no quote exists for the requested CUSIP.
	ErrBondNotFound = errors.New("bond not found")

	// ErrTradeNotFound is returned when no trade exists for the requested id.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrTradeNotCancellable is returned when cancel is requested on a trade
	// that already reached a terminal status.
	ErrTradeNotCancellable = errors.New("trade not cancellable")
)

// ValidationError reports a malformed booking request. It is distinct from
// the sentinel errors above so the request layer can map it to a 400 rather
// than a 404/409.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
