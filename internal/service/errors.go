package service

import "errors"

// Error kinds. Every service error wraps exactly one of these.
var (
	ErrValidation  = errors.New("validation error")
	ErrFetch       = errors.New("feed fetch error")
	ErrStore       = errors.New("store error")
	ErrAggregation = errors.New("aggregation error")
)
