package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrRecordNotFound    = errors.New("rental record not found")
	ErrChangeLogNotFound = errors.New("status change log not found")
	ErrGroupNotFound     = errors.New("product group not found")
	ErrUserNotFound      = errors.New("user not found")
)

// Creation eligibility errors, checked in this order.
var (
	ErrUserLocked         = errors.New("user account is locked")
	ErrUncompensated      = errors.New("user has an uncompensated rental record")
	ErrRentalSelfProduct  = errors.New("cannot rent your own product group")
	ErrCannotBorrowGroup  = errors.New("user is not allowed to borrow this product group")
	ErrInvalidBorrowRange = errors.New("borrow end date must be after the start date")
)

// Comment workflow errors
var (
	ErrNotRateableYet   = errors.New("rental record is not awaiting comments")
	ErrDuplicateComment = errors.New("comment already submitted for this record")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrNotRecordParty   = errors.New("account is not a party of this rental record")
)

// StatusChangeError reports a transition to a destination that is not
// reachable from the record's current status. It carries both statuses so
// callers can tell the user what actually happened.
type StatusChangeError struct {
	From RentalRecordStatus
	To   RentalRecordStatus
}

func (e *StatusChangeError) Error() string {
	return fmt.Sprintf("cannot change rental record status from %s to %s", e.From, e.To)
}

// PreconditionError reports a state-specific business rule that blocked an
// otherwise legal transition.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// NotOwnerError reports a caller reading a record they are not a party of.
type NotOwnerError struct {
	RecordID uint
	Account  string
}

func (e *NotOwnerError) Error() string {
	return fmt.Sprintf("account %s is not renter, owner or admin of rental record %d", e.Account, e.RecordID)
}
