package fetch

import "fmt"

// ErrTimeout indicates the bounded deadline elapsed before the page was
// fully read.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrNetwork indicates a transport-level failure before any usable
// response arrived.
type ErrNetwork struct {
	Err error
}

func (e ErrNetwork) Error() string {
	return fmt.Errorf("network: %w", e.Err).Error()
}

func (e ErrNetwork) Unwrap() error {
	return e.Err
}

// ErrBadStatus indicates the remote site answered with a non-success
// HTTP status.
type ErrBadStatus struct {
	Status int
}

func (e ErrBadStatus) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}
