package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrDuplicate    = errors.New("duplicate record")
)
