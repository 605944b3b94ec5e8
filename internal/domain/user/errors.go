package user

import "errors"

var (
	ErrMissingField = errors.New("required field is missing")
	ErrUnknownRole  = errors.New("unknown role")
)
