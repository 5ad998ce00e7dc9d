package progression

import "errors"

// Define errors
var (
	ErrNilConfig           = errors.New("config cannot be nil")
	ErrNilAccountRepo      = errors.New("account repository cannot be nil")
	ErrNilClock            = errors.New("clock cannot be nil")
	ErrNilInput            = errors.New("input cannot be nil")
	ErrGuestAccount        = errors.New("guests cannot redeem codes")
	ErrCodeUnknown         = errors.New("unknown code")
	ErrCodeAlreadyRedeemed = errors.New("code already redeemed")
)
