package types

import "errors"

// Session readiness
var (
	ErrNotConnected  = errors.New("session is not connected")
	ErrNotRegistered = errors.New("session is not registered")
	ErrNoLocation    = errors.New("current location is not available")
	ErrNoUserID      = errors.New("user identity is not available")
	ErrSessionClosed = errors.New("session is closed")
)

// Session failures
var (
	ErrDialFailed        = errors.New("failed to open connection")
	ErrSendFailed        = errors.New("failed to send message")
	ErrRetriesExhausted  = errors.New("retry budget exhausted")
	ErrInvalidPlace      = errors.New("place must carry a valid [longitude, latitude] pair")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
)

// Identity
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

var ErrNotFound = errors.New("requested item not found")
