package handler

import "errors"

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response.
	ErrNilResponse = errors.New("handler.errors.nil_response")
	// ErrBindFailed wraps every binder failure so error handlers can answer 400.
	ErrBindFailed = errors.New("handler.errors.bind_failed")
)
