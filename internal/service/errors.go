package service

import (
	"errors"
	"fmt"
	"strings"
)

type FailureKind int

const (
	KindValidation FailureKind = iota + 1
	KindNotFound
	KindExtraction
	KindEmptyResult
	KindPersistence
)

func (k FailureKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindExtraction:
		return "extraction"
	case KindEmptyResult:
		return "empty_result"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; a *Failure matches the sentinel of its kind.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrExtraction  = errors.New("extraction failed")
	ErrEmptyResult = errors.New("empty extraction result")
	ErrPersistence = errors.New("persistence failed")
)

var kindSentinels = map[FailureKind]error{
	KindValidation:  ErrValidation,
	KindNotFound:    ErrNotFound,
	KindExtraction:  ErrExtraction,
	KindEmptyResult: ErrEmptyResult,
	KindPersistence: ErrPersistence,
}

// Failure is the only error type returned across the service boundary. Message is safe
// to show to the manager; Err carries the detail for logs.
type Failure struct {
	Kind    FailureKind
	Message string
	Issues  []string
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Message
	if len(f.Issues) > 0 {
		msg += ": " + strings.Join(f.Issues, "; ")
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, msg, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, msg)
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool {
	return kindSentinels[f.Kind] == target
}

func validationFailure(issues ...string) *Failure {
	return &Failure{Kind: KindValidation, Message: "Invalid form data. Please check the fields and try again.", Issues: issues}
}

func notFoundFailure(msg string) *Failure {
	return &Failure{Kind: KindNotFound, Message: msg}
}

func persistenceFailure(msg string, err error) *Failure {
	return &Failure{Kind: KindPersistence, Message: msg, Err: err}
}

// AsFailure returns err as a *Failure, wrapping anything else as a persistence failure.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return persistenceFailure("Unexpected server error.", err)
}
