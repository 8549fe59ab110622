package attendance

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid attendance request")
	ErrRecordNotFound = errors.New("attendance record not found")
)
