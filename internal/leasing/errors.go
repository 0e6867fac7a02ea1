package leasing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid       = errors.New("invalid argument")
	ErrNotFound      = errors.New("not found")
	ErrInviteExpired = errors.New("invite has expired")
	ErrBadTransition = errors.New("status transition not allowed")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

func notFoundf(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
