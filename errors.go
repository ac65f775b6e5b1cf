package bucketctl

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument is returned when a required argument is missing or empty
	ErrArgument = errors.New("invalid argument")
	// ErrPattern is returned when a filter is not a valid regular expression
	ErrPattern = errors.New("invalid filter pattern")
	// ErrLocalIO is returned when a local file cannot be read
	ErrLocalIO = errors.New("local file error")
	// ErrBackend is returned when the object store fails a request
	ErrBackend = errors.New("backend error")
	// ErrNotFound is returned when a bucket does not exist
	ErrNotFound = errors.New("not found")
)

// backendError tags err with ErrBackend unless the store already did.
func backendError(op string, err error) error {
	if errors.Is(err, ErrBackend) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}
