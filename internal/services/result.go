package services

import "fmt"

// Status tags the outcome of a prediction.
type Status int

const (
	// StatusReady carries a value.
	StatusReady Status = iota
	// StatusUnavailable means no trained model could serve the request.
	StatusUnavailable
	// StatusFailed means the prediction was attempted and errored.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is the outcome of a prediction call. Value is only meaningful when
// Status is StatusReady; Err is only set when Status is StatusFailed.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

func Ready[T any](v T) Result[T] { return Result[T]{Status: StatusReady, Value: v} }

func Unavailable[T any]() Result[T] { return Result[T]{Status: StatusUnavailable} }

func Failed[T any](err error) Result[T] { return Result[T]{Status: StatusFailed, Err: err} }

// Get returns the value, or an error describing why there is none.
func (r Result[T]) Get() (T, error) {
	switch r.Status {
	case StatusReady:
		return r.Value, nil
	case StatusFailed:
		var zero T
		return zero, r.Err
	default:
		var zero T
		return zero, ErrModelUnready
	}
}
