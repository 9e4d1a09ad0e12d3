package request

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference is returned when a token points at a position that
	// was not appended before it.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrBatchSealed is returned when a batch is modified or executed after execution.
	ErrBatchSealed = errors.New("batch already executed")

	// ErrBatchFailed matches every BatchError.
	ErrBatchFailed = errors.New("batch failed")
)

// BatchError reports a failed multirequest: a transport failure, a batch-wide
// backend error, or a sub-request error promoted by strict fetching.
type BatchError struct {
	Op       string
	Status   int
	Position int
	Body     []byte
	Err      error
}

func (e *BatchError) Error() string {
	msg := "multirequest " + e.Op
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Position != 0 {
		msg += fmt.Sprintf(" at position %d", e.Position)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

func (e *BatchError) Is(target error) bool {
	return target == ErrBatchFailed
}

// ServiceErr returns the backend error carried by e, if any.
func (e *BatchError) ServiceErr() (*ServiceError, bool) {
	var serr *ServiceError
	if errors.As(e.Err, &serr) {
		return serr, true
	}
	return nil, false
}
