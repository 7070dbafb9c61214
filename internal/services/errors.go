package services

import "fmt"

// ValidationError reports a missing or malformed required input. It is
// raised before the repository is ever touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QuotaExceededError reports that a forger is at capacity. It carries the
// label as the caller spelled it plus the limit, so the boundary can
// surface both verbatim.
type QuotaExceededError struct {
	Forger string
	Limit  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("ring limit for %s reached (limit %d)", e.Forger, e.Limit)
}
