package services

import "errors"

var (
	ErrUnknownActivity = errors.New("unknown activity kind")
	ErrUnknownCategory = errors.New("unknown leaderboard category")
	ErrUnknownPreset   = errors.New("unknown timer preset")
	ErrUnknownEvent    = errors.New("unknown audit event")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrWarningNotFound = errors.New("warning not found")
	ErrTimerNotFound   = errors.New("timer not found")
	ErrTimerNotOwned   = errors.New("timer belongs to another user")
	ErrInvalidTimer    = errors.New("invalid timer request")
)

var (
	ErrBetTooLow         = errors.New("bet below minimum")
	ErrBetTooHigh        = errors.New("bet above maximum")
	ErrInvalidSide       = errors.New("invalid coin side")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
