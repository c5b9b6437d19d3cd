package scene

import (
	"fmt"
	"strings"

	"github.com/parodyband/maya-batch-group-exporter/internal/naming"
)

// MemoryStore is an in-memory Store for tests and ephemeral sessions.
// Sets are enumerated in creation order. Not safe for concurrent use.
type MemoryStore struct {
	sceneName string
	setOrder  []string
	members   map[string][]string
	objects   map[string]bool
	selection []string
	isolated  map[string][]string
}

// NewMemoryStore creates an empty in-memory scene.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:  make(map[string][]string),
		objects:  make(map[string]bool),
		isolated: make(map[string][]string),
	}
}

// SetSceneName assigns the scene's file path, used for preset resolution.
func (m *MemoryStore) SetSceneName(name string) {
	m.sceneName = name
}

// AddObject registers a plain scene object so it can be selected and
// added to sets.
func (m *MemoryStore) AddObject(name string) {
	m.objects[name] = true
}

// Exists reports whether an object or set with the given name exists.
func (m *MemoryStore) Exists(name string) (bool, error) {
	if _, ok := m.members[name]; ok {
		return true, nil
	}
	return m.objects[name], nil
}

// CreateSet materializes an empty object set.
func (m *MemoryStore) CreateSet(name string) (string, error) {
	if _, ok := m.members[name]; ok {
		return "", fmt.Errorf("%w: set %s", ErrExists, name)
	}
	m.members[name] = nil
	m.setOrder = append(m.setOrder, name)
	return name, nil
}

// DeleteSet removes a set. The member objects survive.
func (m *MemoryStore) DeleteSet(name string) error {
	if _, ok := m.members[name]; !ok {
		return fmt.Errorf("%w: set %s", ErrNotFound, name)
	}
	delete(m.members, name)
	for i, s := range m.setOrder {
		if s == name {
			m.setOrder = append(m.setOrder[:i], m.setOrder[i+1:]...)
			break
		}
	}
	return nil
}

// RenameSet renames a set in place, keeping its enumeration slot.
func (m *MemoryStore) RenameSet(oldName, newName string) (string, error) {
	if _, ok := m.members[oldName]; !ok {
		return "", fmt.Errorf("%w: set %s", ErrNotFound, oldName)
	}
	if oldName == newName {
		return newName, nil
	}
	if _, ok := m.members[newName]; ok {
		return "", fmt.Errorf("%w: set %s", ErrExists, newName)
	}
	m.members[newName] = m.members[oldName]
	delete(m.members, oldName)
	for i, s := range m.setOrder {
		if s == oldName {
			m.setOrder[i] = newName
			break
		}
	}
	return newName, nil
}

// ListSets returns set names starting with prefix, in creation order.
func (m *MemoryStore) ListSets(prefix string) ([]string, error) {
	var out []string
	for _, s := range m.setOrder {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out, nil
}

// SetMembers returns the members of a set in insertion order.
func (m *MemoryStore) SetMembers(name string) ([]string, error) {
	members, ok := m.members[name]
	if !ok {
		return nil, fmt.Errorf("%w: set %s", ErrNotFound, name)
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, nil
}

// AddMembers adds object references to a set, skipping existing members.
func (m *MemoryStore) AddMembers(name string, objects []string) error {
	members, ok := m.members[name]
	if !ok {
		return fmt.Errorf("%w: set %s", ErrNotFound, name)
	}
	present := make(map[string]bool, len(members))
	for _, mem := range members {
		present[naming.StripComponent(mem)] = true
	}
	for _, obj := range objects {
		if present[naming.StripComponent(obj)] {
			continue
		}
		members = append(members, obj)
		present[naming.StripComponent(obj)] = true
	}
	m.members[name] = members
	return nil
}

// RemoveMembers removes object references from a set, matching with
// component annotations stripped.
func (m *MemoryStore) RemoveMembers(name string, objects []string) error {
	members, ok := m.members[name]
	if !ok {
		return fmt.Errorf("%w: set %s", ErrNotFound, name)
	}
	drop := make(map[string]bool, len(objects))
	for _, obj := range objects {
		drop[naming.StripComponent(obj)] = true
	}
	kept := members[:0]
	for _, mem := range members {
		if !drop[naming.StripComponent(mem)] {
			kept = append(kept, mem)
		}
	}
	m.members[name] = kept
	return nil
}

// Selection returns the current selection.
func (m *MemoryStore) Selection() ([]string, error) {
	out := make([]string, len(m.selection))
	copy(out, m.selection)
	return out, nil
}

// SetSelection replaces the current selection.
func (m *MemoryStore) SetSelection(objects []string) error {
	m.selection = make([]string, len(objects))
	copy(m.selection, objects)
	return nil
}

// ClearSelection empties the current selection.
func (m *MemoryStore) ClearSelection() error {
	m.selection = nil
	return nil
}

// Isolate toggles viewport isolation for a panel.
func (m *MemoryStore) Isolate(panel string, on bool, objects []string) error {
	if !on {
		delete(m.isolated, panel)
		return nil
	}
	iso := make([]string, len(objects))
	copy(iso, objects)
	m.isolated[panel] = iso
	return nil
}

// Isolated returns the objects isolated on a panel, for tests.
func (m *MemoryStore) Isolated(panel string) []string {
	return m.isolated[panel]
}

// SceneName returns the scene's file path, or "" when unsaved.
func (m *MemoryStore) SceneName() string {
	return m.sceneName
}
