// Package allocation implements the seat allocation engine: the state
// machine that moves seats between idle and occupied, enforces exclusivity
// and eligibility invariants under concurrent requests, and appends one
// audit row per transition.  It is the only writer of seat occupancy fields.
package allocation

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable classification of an allocation failure.
// Handlers translate kinds into HTTP status codes; the message carries the
// human-facing detail (seat number, employee id).
type Kind string

const (
	// KindSeatNotAvailable: the target seat was not idle when binding.
	KindSeatNotAvailable Kind = "SeatNotAvailable"
	// KindSeatNotOccupied: the seat had no occupant when unbinding.
	KindSeatNotOccupied Kind = "SeatNotOccupied"
	// KindEmployeeNotEligible: the employee is missing or inactive.
	KindEmployeeNotEligible Kind = "EmployeeNotEligible"
	// KindOwnershipMismatch: the transfer source seat is not bound to the
	// claimed employee.
	KindOwnershipMismatch Kind = "OwnershipMismatch"
	// KindNotFound: a seat or area id did not resolve.
	KindNotFound Kind = "NotFound"
	// KindConstraintViolation: a uniqueness constraint was violated, e.g. a
	// seat number collision during provisioning.
	KindConstraintViolation Kind = "ConstraintViolation"
	// KindStoreUnavailable: the backing store failed; callers may retry.
	KindStoreUnavailable Kind = "StoreUnavailable"
)

// Error is the typed failure returned by every engine operation.  Two
// Errors compare equal under errors.Is when their kinds match, so callers
// can branch on sentinel values without string comparisons.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	ErrSeatNotAvailable    = &Error{Kind: KindSeatNotAvailable}
	ErrSeatNotOccupied     = &Error{Kind: KindSeatNotOccupied}
	ErrEmployeeNotEligible = &Error{Kind: KindEmployeeNotEligible}
	ErrOwnershipMismatch   = &Error{Kind: KindOwnershipMismatch}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrConstraintViolation = &Error{Kind: KindConstraintViolation}
	ErrStoreUnavailable    = &Error{Kind: KindStoreUnavailable}
)

// KindOf extracts the failure kind from an engine error.  It returns false
// when err did not originate from this package.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

func failf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Store-level sentinels.  Store implementations return these from Tx
// methods; the engine maps them onto the public error kinds above.
var (
	// ErrSeatMissing is returned when a seat id does not resolve.
	ErrSeatMissing = errors.New("seat not found")
	// ErrEmployeeMissing is returned when an employee id does not resolve.
	ErrEmployeeMissing = errors.New("employee not found")
	// ErrAreaMissing is returned when an area id does not resolve.
	ErrAreaMissing = errors.New("area not found")
	// ErrDuplicateSeatNo is returned when a bulk insert hits the
	// (area_id, seat_no) unique constraint.
	ErrDuplicateSeatNo = errors.New("duplicate seat number in area")
)
