package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity EntityType
	Key    string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// UnauthorizedError is returned when the caller fails an authorization
// predicate: not the owner, not a member, not a participant, or attempting
// to participate in their own hackathon.
type UnauthorizedError struct {
	Caller AccountID
	Reason string
}

func (e UnauthorizedError) Error() string {
	if e.Caller == "" {
		return fmt.Sprintf("unauthorized: %s", e.Reason)
	}
	return fmt.Sprintf("unauthorized: %s: %s", e.Caller, e.Reason)
}

// InvalidStateError is returned when an award transition is attempted out
// of order, such as re-judging a judged award or paying a paid one.
type InvalidStateError struct {
	Entity EntityType
	Key    string
	Reason string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Key, e.Reason)
}

// InvalidInputError is returned when a request references records that are
// inconsistent with each other, such as a submission listing a non-participant.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// PaymentMismatchError is returned when the value attached to a payout does
// not exactly equal the award's prize amount.
type PaymentMismatchError struct {
	Attached Amount
	Price    Amount
}

func (e PaymentMismatchError) Error() string {
	return fmt.Sprintf("attached value %s does not equal award price %s", e.Attached, e.Price)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

// IsUnauthorized reports whether err is an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var e UnauthorizedError
	return errors.As(err, &e)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var e InvalidStateError
	return errors.As(err, &e)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var e InvalidInputError
	return errors.As(err, &e)
}

// IsPaymentMismatch reports whether err is a PaymentMismatchError.
func IsPaymentMismatch(err error) bool {
	var e PaymentMismatchError
	return errors.As(err, &e)
}
