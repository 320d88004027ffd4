package listing

import "errors"

var (
	ErrNotFound     = errors.New("listing not found")
	ErrNotOwner     = errors.New("listing belongs to another user")
	ErrKindMismatch = errors.New("credit type cannot be applied to this listing kind")
	ErrDeactivated  = errors.New("listing is deactivated")
)
