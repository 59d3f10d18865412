package domain

import "fmt"

// RentalRecordStatus is the lifecycle state of a rental record.
type RentalRecordStatus string

const (
	// StatusPending - request created, waiting for the gear owner to agree
	StatusPending RentalRecordStatus = "PENDING"
	// StatusAgreed - owner agreed, waiting for pickup
	StatusAgreed RentalRecordStatus = "AGREED"
	// StatusBorrowing - renter picked the gear up
	StatusBorrowing RentalRecordStatus = "BORROWING"
	// StatusCompensating - gear returned damaged, compensation outstanding
	StatusCompensating RentalRecordStatus = "COMPENSATING"
	// StatusNotCommented - rental finished, reciprocal ratings still open
	StatusNotCommented RentalRecordStatus = "NOT_COMMENTED"
	// StatusAlreadyCommented - both parties rated each other (terminal)
	StatusAlreadyCommented RentalRecordStatus = "ALREADY_COMMENTED"
	// StatusDenied - owner refused the request (terminal)
	StatusDenied RentalRecordStatus = "DENIED"
	// StatusCanceled - renter or system withdrew the request (terminal)
	StatusCanceled RentalRecordStatus = "CANCELED"
)

// AllStatuses lists every lifecycle state, in rough lifecycle order.
var AllStatuses = []RentalRecordStatus{
	StatusPending,
	StatusAgreed,
	StatusBorrowing,
	StatusCompensating,
	StatusNotCommented,
	StatusAlreadyCommented,
	StatusDenied,
	StatusCanceled,
}

// ParseStatus converts a wire value into a RentalRecordStatus.
func ParseStatus(s string) (RentalRecordStatus, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown rental record status: %q", s)
}

// IsTerminal reports whether no further transition can leave this state.
func (s RentalRecordStatus) IsTerminal() bool {
	switch s {
	case StatusAlreadyCommented, StatusDenied, StatusCanceled:
		return true
	}
	return false
}
