package order

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusShipped  Status = "SHIPPED"
	StatusCanceled Status = "CANCELED"
)

var ErrUnknownStatus = errors.New("order: unknown status")

// InvalidTransitionError reports a status change that is not in the
// legal transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order: invalid status transition from %s to %s", e.From, e.To)
}

var validNext = map[Status]map[Status]bool{
	StatusPending:  {StatusPaid: true, StatusCanceled: true},
	StatusPaid:     {StatusShipped: true, StatusCanceled: true},
	StatusShipped:  {},
	StatusCanceled: {},
}

func (s Status) CanTransitionTo(next Status) bool {
	return validNext[s][next]
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0 && s.Valid()
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}
