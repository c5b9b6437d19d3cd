// Package groups owns the ordered collection of export groups and keeps it
// reconciled against the scene store.
//
// The store is authoritative for which groups exist and what they contain;
// this package is authoritative for nothing but their order. Those two
// concerns are kept in separate structures: a snapshot map rebuilt wholesale
// on every Sync, and an order slice that only explicit operations (Create,
// Remove, Duplicate, MoveUp, MoveDown) or Sync-discovered drift may change.
package groups

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/parodyband/maya-batch-group-exporter/internal/naming"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
)

// MaxNameLength bounds display names, matching the scene store's own limit.
const MaxNameLength = 255

// Group pairs a display name with the backing scene set that defines it.
type Group struct {
	// Name is the user-facing display name.
	Name string `json:"name"`

	// SetName is the backing scene set, the group's only stable identity.
	SetName string `json:"set_name"`
}

// Reconciler maintains the ordered group collection.
// Not safe for concurrent use; callers serialize access.
type Reconciler struct {
	store  scene.Store
	logger *zap.Logger

	// order is the sole determinant of display order. Invariant: after
	// Sync it holds exactly the set names the store reports, no
	// duplicates.
	order    []string
	snapshot map[string]Group
}

// NewReconciler creates a Reconciler over the given store.
func NewReconciler(store scene.Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:    store,
		logger:   logger,
		snapshot: make(map[string]Group),
	}
}

// ValidateName checks a display name: non-empty after trimming, at most
// MaxNameLength runes, no control or reserved characters. Returns the
// trimmed name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: group name cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: group name is too long (max %d characters)", ErrValidation, MaxNameLength)
	}
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return "", fmt.Errorf("%w: group name contains invalid characters: %s", ErrValidation, name)
		}
	}
	return name, nil
}

// Sync re-reads the store's current group sets and reconciles the local
// order against them: stale entries are dropped, newly discovered sets are
// appended in the store's enumeration order, and the snapshot map is
// rebuilt. Sync is idempotent and is the only operation that may grow or
// shrink the order based on external truth.
func (r *Reconciler) Sync() error {
	setNames, err := r.store.ListSets(naming.Prefix)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	present := make(map[string]bool, len(setNames))
	for _, s := range setNames {
		present[s] = true
	}

	kept := r.order[:0]
	known := make(map[string]bool, len(r.order))
	for _, s := range r.order {
		if present[s] && !known[s] {
			kept = append(kept, s)
			known[s] = true
		}
	}
	r.order = kept

	for _, s := range setNames {
		if !known[s] {
			r.order = append(r.order, s)
			known[s] = true
		}
	}

	r.snapshot = make(map[string]Group, len(r.order))
	for _, s := range r.order {
		r.snapshot[s] = Group{Name: naming.DisplayName(s), SetName: s}
	}

	r.logger.Debug("synced groups from scene", zap.Int("count", len(r.order)))
	return nil
}

// ApplyOrder replaces the order with an externally persisted sequence,
// dropping duplicates. Names the store no longer backs are tolerated here;
// the next Sync reconciles them away and appends any sets the sequence
// missed.
func (r *Reconciler) ApplyOrder(setNames []string) {
	seen := make(map[string]bool, len(setNames))
	order := make([]string, 0, len(setNames))
	for _, s := range setNames {
		if !seen[s] {
			order = append(order, s)
			seen[s] = true
		}
	}
	r.order = order
}

// Groups returns the groups in display order.
func (r *Reconciler) Groups() []Group {
	out := make([]Group, 0, len(r.order))
	for _, s := range r.order {
		if g, ok := r.snapshot[s]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Get returns the group backed by setName.
func (r *Reconciler) Get(setName string) (Group, bool) {
	g, ok := r.snapshot[setName]
	return g, ok
}

// IndexOf returns the display index of setName, or -1.
func (r *Reconciler) IndexOf(setName string) int {
	for i, s := range r.order {
		if s == setName {
			return i
		}
	}
	return -1
}

// Len returns the number of groups.
func (r *Reconciler) Len() int {
	return len(r.order)
}

// Members returns the member references of a group. As a read-only display
// query it degrades to an empty result when the set has vanished.
func (r *Reconciler) Members(setName string) []string {
	members, err := r.store.SetMembers(setName)
	if err != nil {
		r.logger.Debug("failed to read members", zap.String("set", setName), zap.Error(err))
		return nil
	}
	return members
}

// Create materializes a new empty group and appends it to the order.
func (r *Reconciler) Create(name string) (string, error) {
	name, err := ValidateName(name)
	if err != nil {
		return "", err
	}

	setName, err := naming.Unique(naming.SetName(name), r.store.Exists)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	created, err := r.store.CreateSet(setName)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create set %s: %v", ErrStore, setName, err)
	}

	r.order = append(r.order, created)
	if err := r.Sync(); err != nil {
		return "", err
	}

	r.logger.Info("created group", zap.String("set", created))
	return created, nil
}

// Rename validates newName, derives a fresh unique set name, and renames
// the backing set. The group keeps its position in the order even though
// its identity changes. Returns the new set name.
func (r *Reconciler) Rename(setName, newName string) (string, error) {
	newName, err := ValidateName(newName)
	if err != nil {
		return "", err
	}

	exists, err := r.store.Exists(setName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, setName)
	}

	// The group's own set must not count as a collision when the new name
	// sanitizes back to the current one.
	existsOther := func(name string) (bool, error) {
		if name == setName {
			return false, nil
		}
		return r.store.Exists(name)
	}
	newSetName, err := naming.Unique(naming.SetName(newName), existsOther)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	if newSetName == setName {
		return setName, nil
	}

	renamed, err := r.store.RenameSet(setName, newSetName)
	if err != nil {
		return "", fmt.Errorf("%w: failed to rename set %s: %v", ErrStore, setName, err)
	}

	for i, s := range r.order {
		if s == setName {
			r.order[i] = renamed
			break
		}
	}
	if err := r.Sync(); err != nil {
		return "", err
	}

	r.logger.Info("renamed group", zap.String("from", setName), zap.String("to", renamed))
	return renamed, nil
}

// Remove deletes the backing set and drops the group from the order.
// Removing an already-absent group is ErrNotFound, not a silent success,
// so callers can tell "nothing to do" from a stale reference.
func (r *Reconciler) Remove(setName string) error {
	if err := r.store.DeleteSet(setName); err != nil {
		if isSceneNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, setName)
		}
		return fmt.Errorf("%w: failed to delete set %s: %v", ErrStore, setName, err)
	}

	for i, s := range r.order {
		if s == setName {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if err := r.Sync(); err != nil {
		return err
	}

	r.logger.Info("removed group", zap.String("set", setName))
	return nil
}

// Duplicate creates a "<name>_copy" group with the same members, appended
// at the end of the order.
func (r *Reconciler) Duplicate(setName string) (string, error) {
	g, ok := r.snapshot[setName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, setName)
	}

	members, err := r.store.SetMembers(setName)
	if err != nil {
		if isSceneNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, setName)
		}
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	newSetName, err := r.Create(g.Name + "_copy")
	if err != nil {
		return "", err
	}

	if len(members) > 0 {
		if err := r.store.AddMembers(newSetName, members); err != nil {
			return "", fmt.Errorf("%w: failed to copy members: %v", ErrStore, err)
		}
	}

	r.logger.Info("duplicated group",
		zap.String("from", setName),
		zap.String("to", newSetName),
		zap.Int("members", len(members)))
	return newSetName, nil
}

// MoveUp swaps the group at index with its predecessor. Returns false at
// the top boundary.
func (r *Reconciler) MoveUp(index int) bool {
	if index <= 0 || index >= len(r.order) {
		return false
	}
	r.order[index-1], r.order[index] = r.order[index], r.order[index-1]
	return true
}

// MoveDown swaps the group at index with its successor. Returns false at
// the bottom boundary.
func (r *Reconciler) MoveDown(index int) bool {
	if index < 0 || index >= len(r.order)-1 {
		return false
	}
	r.order[index], r.order[index+1] = r.order[index+1], r.order[index]
	return true
}

// AddMembers adds object references to a group. Empty refs is a no-op.
func (r *Reconciler) AddMembers(setName string, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	if err := r.store.AddMembers(setName, refs); err != nil {
		if isSceneNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, setName)
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	r.logger.Debug("added members", zap.String("set", setName), zap.Int("count", len(refs)))
	return nil
}

// RemoveMembers removes object references from a group. Empty refs is a
// no-op.
func (r *Reconciler) RemoveMembers(setName string, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	if err := r.store.RemoveMembers(setName, refs); err != nil {
		if isSceneNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, setName)
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	r.logger.Debug("removed members", zap.String("set", setName), zap.Int("count", len(refs)))
	return nil
}

// ClearMembers removes every member from a group.
func (r *Reconciler) ClearMembers(setName string) error {
	members, err := r.store.SetMembers(setName)
	if err != nil {
		if isSceneNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, setName)
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return r.RemoveMembers(setName, members)
}

func isSceneNotFound(err error) bool {
	return errors.Is(err, scene.ErrNotFound)
}
