package errorkinds

import "errors"

// The different general error types.
var (
	ErrSessionStart = errors.New("cannot start session")
	ErrSessionStop  = errors.New("cannot stop session")

	ErrInvalidAddress  = errors.New("invalid Bluetooth address")
	ErrAdapterNotFound = errors.New("adapter not found")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrPlayerNotFound  = errors.New("media player not found")

	ErrInvalidParameter = errors.New("invalid parameter")
	ErrRemoteCall       = errors.New("remote call failed")
	ErrNotAllowed       = errors.New("operation not allowed")
	ErrUnsupported      = errors.New("command is not supported")
	ErrNotAFolder       = errors.New("item is not a folder")
	ErrItemNotPlayable  = errors.New("item is not playable")
	ErrAlreadyConnected = errors.New("already connected")
	ErrCallInProgress   = errors.New("another call is in progress")

	ErrNotBrowsable = errors.New("player does not expose a browsable folder")

	ErrPropertyDataParse = errors.New("error parsing property data")
)

// GenericError represents a standard error message.
type GenericError struct {
	// Errors stores all associated errors.
	Errors error `json:"errors,omitempty" doc:"A set of generic errors."`
}

// Error returns the formatted error as string.
func (e GenericError) Error() string {
	return e.Errors.Error()
}

// Unwrap unwraps all errors associated with this error.
func (e GenericError) Unwrap() error {
	return e.Errors
}
