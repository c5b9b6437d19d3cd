// Package scene abstracts the external store that owns scene objects and
// object sets.
//
// The store is the sole authority on set existence and membership. The
// layers above it own only ordering and display state, so every Store
// implementation must enumerate sets in a stable order (creation order) and
// must treat a member reference with a component annotation as naming the
// same object as its stripped form.
package scene

import "errors"

var (
	// ErrNotFound indicates the named set or object does not exist.
	ErrNotFound = errors.New("not found in scene")

	// ErrExists indicates a set with the requested name already exists.
	ErrExists = errors.New("already exists in scene")
)

// Store is the authoritative backend for scene objects and object sets.
type Store interface {
	// Exists reports whether an object or set with the given name exists.
	Exists(name string) (bool, error)

	// CreateSet materializes an empty object set and returns its name.
	CreateSet(name string) (string, error)

	// DeleteSet removes a set. The member objects themselves survive.
	DeleteSet(name string) error

	// RenameSet renames a set and returns the name actually assigned.
	RenameSet(oldName, newName string) (string, error)

	// ListSets returns the names of all sets starting with prefix, in
	// creation order.
	ListSets(prefix string) ([]string, error)

	// SetMembers returns the member object references of a set, in the
	// order they were added. References may carry component annotations.
	SetMembers(name string) ([]string, error)

	// AddMembers adds object references to a set. Adding an existing
	// member is a no-op.
	AddMembers(name string, objects []string) error

	// RemoveMembers removes object references from a set. References are
	// matched with component annotations stripped.
	RemoveMembers(name string, objects []string) error

	// Selection returns the currently selected object references.
	Selection() ([]string, error)

	// SetSelection replaces the current selection.
	SetSelection(objects []string) error

	// ClearSelection empties the current selection.
	ClearSelection() error

	// Isolate toggles viewport isolation of the given objects on a panel.
	Isolate(panel string, on bool, objects []string) error

	// SceneName returns the scene's file path, or "" for an unsaved scene.
	SceneName() string
}
