package monitor

import "errors"

var (
	// ErrClientNotFound is returned when an update or delete references an
	// unknown client.
	ErrClientNotFound = errors.New("client not found")

	// ErrDuplicateName is returned when a create would collide with an
	// existing client name.
	ErrDuplicateName = errors.New("client name already exists")

	// ErrInvalidRule is returned when an advanced rule is missing
	// must_contain terms or has a non-positive max_distance.
	ErrInvalidRule = errors.New("invalid advanced rule")

	// ErrConflict is returned when a concurrent insert raced past a
	// uniqueness check. The pipeline absorbs it by re-checking dedup.
	ErrConflict = errors.New("persistence conflict")
)
