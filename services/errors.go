package services

import (
	"errors"

	"gorm.io/gorm"
)

// ErrorKind distinguishes the failure classes the API treats differently:
// a storage failure is a real error, a missing entity is a valid business
// outcome, and a scrape failure is soft (callers fall back to stored data).
type ErrorKind int

const (
	ErrKindStorage ErrorKind = iota + 1
	ErrKindNotFound
	ErrKindScrape
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func storageError(err error) *ServiceError {
	return &ServiceError{StatusCode: 503, Kind: ErrKindStorage, Message: "Storage unavailable", Err: err}
}

func notFoundError(message string) *ServiceError {
	return &ServiceError{StatusCode: 404, Kind: ErrKindNotFound, Message: message}
}

func scrapeError(message string, err error) *ServiceError {
	return &ServiceError{StatusCode: 404, Kind: ErrKindScrape, Message: message, Err: err}
}

// isNotFound reports whether a repository error means the row does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
