package portfolio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid  = errors.New("invalid argument")
	ErrNotFound = errors.New("not found")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

func fmtNotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
