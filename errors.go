package walletwidget

import "errors"

// Sentinel errors for engine operations.
var (
	// ErrConfigInvalid marks an embed tag that cannot become an Instance:
	// missing data-widget or an unregistered widget type.
	ErrConfigInvalid = errors.New("walletwidget: invalid widget configuration")

	// ErrAuthRequired is reported when the API answers 401.
	ErrAuthRequired = errors.New("walletwidget: authentication required")

	// ErrTransportFailure covers network errors, non-JSON bodies and any
	// non-2xx status other than 401.
	ErrTransportFailure = errors.New("walletwidget: transport failure")

	ErrInvalidTransition = errors.New("walletwidget: invalid render state transition")
	ErrInvalidPayload    = errors.New("walletwidget: invalid widget payload")
	ErrRendererMissing   = errors.New("walletwidget: widget type has no renderer")
	ErrRendererOrphan    = errors.New("walletwidget: renderer has no registered widget type")

	ErrDecryptFailed    = errors.New("walletwidget: token decryption failed")
	ErrSignatureInvalid = errors.New("walletwidget: token signature verification failed")
	ErrInvalidFormat    = errors.New("walletwidget: invalid token format")
	ErrTokenExpired     = errors.New("walletwidget: token expired")
)

// IsConfigInvalid checks if err is a configuration error.
func IsConfigInvalid(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

// IsAuthRequired checks if err reports a missing or rejected session.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

// IsTransportFailure checks if err is a fetch failure other than 401.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}

// IsTokenError checks if err is a deferred-token decoding error.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrTokenExpired)
}
