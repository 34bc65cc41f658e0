package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder.errors.unsupported_media_type")
	ErrMissingContentType   = errors.New("binder.errors.missing_content_type")
	ErrFailedToParseJSON    = errors.New("binder.errors.failed_to_parse_json")
	ErrFailedToParsePath    = errors.New("binder.errors.failed_to_parse_path")
	ErrBodyTooLarge         = errors.New("binder.errors.body_too_large")
)
