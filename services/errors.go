package services

import "fmt"

// ValidationError reports malformed input, e.g. a bid value off the scale or
// a conflict declared without a paper or author target.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports an operation rejected by existing state: a duplicate
// assignment or decision, or an active conflict of interest on the pair.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// QuotaExceededError reports a reviewer with no remaining capacity.
type QuotaExceededError struct {
	PCMemberID int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("pc member %d has reached maximum review quota", e.PCMemberID)
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientReviewersError reports an auto-assign run that could not fill
// the requested number of slots. Nothing is committed when it is returned.
type InsufficientReviewersError struct {
	Needed int
	Found  int
}

func (e *InsufficientReviewersError) Error() string {
	return fmt.Sprintf("not enough available reviewers: found %d, need %d", e.Found, e.Needed)
}
