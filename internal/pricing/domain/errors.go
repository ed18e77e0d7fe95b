package domain

import "errors"

var (
	ErrInvalidInitialPrice = errors.New("initial price must be positive")
	ErrInvalidStrike       = errors.New("strike price must be positive")
	ErrInvalidVolatility   = errors.New("volatility must be non-negative")
	ErrInvalidTimeHorizon  = errors.New("time horizon must be positive")
	ErrInvalidSimulations  = errors.New("number of simulations must be positive")
	ErrInvalidSteps        = errors.New("number of steps must be positive")
	ErrSingularParameters  = errors.New("black-scholes formula undefined for zero volatility or zero horizon")
	ErrRunNotFound         = errors.New("valuation run not found")
	ErrReportNotFound      = errors.New("valuation report not found")
)
