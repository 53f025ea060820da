package domain

import (
	"errors"
	"fmt"
)

// ValidationError is raised locally before any request is made.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError means the token or id has no matching record.
type NotFoundError struct {
	Resource string
	Key      string
	Detail   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// TransientFetchError covers every other network or server failure.
type TransientFetchError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *TransientFetchError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status: %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Detail returns the server's explanation carried by err, if any.
func Detail(err error) string {
	var tf *TransientFetchError
	if errors.As(err, &tf) {
		return tf.Detail
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Detail
	}
	return ""
}

// MessageOr returns the server's explanation or fallback when there is none.
func MessageOr(err error, fallback string) string {
	if d := Detail(err); d != "" {
		return d
	}
	return fallback
}
