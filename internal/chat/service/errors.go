package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every chat operation; the handler layer maps
// these onto HTTP statuses instead of each call site inventing its own
// fallback.
var (
	ErrInvalid  = errors.New("invalid argument")
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("only the sender can modify this message")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}
