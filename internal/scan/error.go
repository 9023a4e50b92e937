package scan

import (
	"errors"
	"fmt"
	"net/http"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL"
)

func NewNotFoundError(msg string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

func NewInvalidArgumentError(msg string) error {
	return &DomainError{Code: ErrCodeInvalidArgument, Message: msg}
}

func NewStoreUnavailableError(err error) error {
	return &DomainError{Code: ErrCodeStoreUnavailable, Message: err.Error()}
}

func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// ToHTTPStatus maps errors that escape the service layer. Business-level
// outcomes (invalid, duplicate) never reach this path; they travel inside
// ScanResult with HTTP 200.
func ToHTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case ErrCodeInvalidArgument:
			return http.StatusBadRequest
		case ErrCodeNotFound:
			return http.StatusNotFound
		case ErrCodeStoreUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}
