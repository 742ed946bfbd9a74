package services

import "errors"

// Domain failures detected before mutation. Handlers map these onto
// HTTP status codes; anything else surfaces as a generic internal
// error.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateMobile = errors.New("mobile number already registered")
	ErrDuplicateEmail  = errors.New("email already registered with another account")

	ErrSessionNotFound  = errors.New("invalid session id")
	ErrSessionExpired   = errors.New("otp has expired")
	ErrWrongSessionKind = errors.New("invalid session type")
	ErrAlreadyVerified  = errors.New("otp already verified")
	ErrTooManyAttempts  = errors.New("too many verification attempts")
	ErrInvalidCode      = errors.New("invalid otp")

	ErrListingNotFound    = errors.New("listing not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrSlotNotFound       = errors.New("delivery slot not found")
	ErrOwnListing         = errors.New("cannot borrow your own listing")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrPreconditionFailed = errors.New("kyc and payment must be completed before scheduling delivery")
	ErrInvalidSlotTime    = errors.New("delivery slot must be in the future")

	ErrPincodeNotFound = errors.New("pincode data not found")

	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
