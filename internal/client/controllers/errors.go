package controllers

import "errors"

// Local validation failures. These block a save before any network call.
var (
	ErrMissingProduct       = errors.New("no product selected")
	ErrMissingPaymentMethod = errors.New("no payment method selected")
	ErrNotReady             = errors.New("no sale loaded")
)

// WindowClosedError reports that a save was blocked because the edit window
// has closed, either by the local countdown or by the server rejecting the
// update. Message is ready to show to the user.
type WindowClosedError struct {
	Message string
}

func (e *WindowClosedError) Error() string { return e.Message }
