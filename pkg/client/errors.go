package client

import "errors"

// Engine errors.
var (
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrServiceReleased = errors.New("client service is released")
	ErrUnknownInstance = errors.New("unknown instance")
)
