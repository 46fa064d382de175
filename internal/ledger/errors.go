package ledger

import "errors"

var (
	// ErrNotFound is returned when a transaction or a referenced budget line
	// item does not exist.
	ErrNotFound = errors.New("ledger: not found")
	// ErrLinkConflict is returned when a request sets both an income and an
	// expense reference.
	ErrLinkConflict = errors.New("ledger: transaction references both an income and an expense")
	// ErrLinkMissing is returned when a request sets neither reference.
	ErrLinkMissing = errors.New("ledger: transaction references neither an income nor an expense")
)
