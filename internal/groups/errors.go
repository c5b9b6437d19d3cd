package groups

import "errors"

var (
	// ErrValidation indicates a rejected group name. Nothing was mutated.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced group is no longer backed by a
	// scene set. Callers should resync and drop the stale reference.
	ErrNotFound = errors.New("group not found")

	// ErrStore indicates the scene store call itself failed. Local order
	// is left unchanged.
	ErrStore = errors.New("scene store operation failed")
)
