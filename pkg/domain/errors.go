package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrRemoteUnavailable is returned when the remote dialogue service cannot be reached
// or answers with a non-success status.
var ErrRemoteUnavailable = errors.New("remote dialogue service unavailable")

// ErrMalformedPayload is returned when the remote body does not match the reply contract.
var ErrMalformedPayload = errors.New("malformed remote payload")

// ErrOrderNotFound is returned by order trackers that know no such order.
var ErrOrderNotFound = errors.New("order not found")
