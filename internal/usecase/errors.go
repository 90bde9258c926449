package usecase

import "fmt"

type ErrorCode string

const (
	ErrorInvalidPageSize  ErrorCode = "INVALID_PAGE_SIZE"
	ErrorInvalidPageIndex ErrorCode = "INVALID_PAGE_INDEX"
	ErrorRetrieval        ErrorCode = "RETRIEVAL_FAILURE"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsValidation reports whether the error is a pagination input error rather
// than a store failure.
func (e *Error) IsValidation() bool {
	return e != nil && (e.Code == ErrorInvalidPageSize || e.Code == ErrorInvalidPageIndex)
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
