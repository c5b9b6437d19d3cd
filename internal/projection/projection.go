// Package projection derives the displayable tree from the reconciled
// group collection.
//
// The tree is rebuilt from scratch on every refresh, so node instances
// never survive a rebuild. Selection and expansion are instead carried
// across rebuilds as sets of logical keys: a group node's key is its
// backing set name, a member node's key is "<setName>/<object>". Matching
// is purely key-set based; the previous and next trees share no instances.
package projection

import (
	"strings"

	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/naming"
)

// Kind discriminates tree node types.
type Kind int

const (
	// KindGroup is a top-level export group node.
	KindGroup Kind = iota

	// KindMember is an object reference inside a group.
	KindMember
)

// Node is one entry of the projected tree. Nodes are built in full and
// never mutated after Build returns.
type Node struct {
	Kind     Kind
	Key      string
	Label    string
	Ref      string // raw object reference, annotations intact (members only)
	Children []*Node

	Selected bool
	Expanded bool
	Visible  bool
}

// Tree is the full projection, one root per export group in display order.
type Tree struct {
	Roots []*Node
}

// MemberKey builds the logical key of a member node. The object part is
// component-stripped so the same object yields the same key however the
// store spelled the reference.
func MemberKey(setName, object string) string {
	return setName + "/" + naming.StripComponent(object)
}

// Snapshot carries selection and expansion across a rebuild as key sets.
type Snapshot struct {
	Selected map[string]struct{}
	Expanded map[string]struct{}
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Selected: make(map[string]struct{}),
		Expanded: make(map[string]struct{}),
	}
}

// Capture records the selected and expanded keys of a tree.
func Capture(t *Tree) *Snapshot {
	snap := NewSnapshot()
	if t == nil {
		return snap
	}
	for _, root := range t.Roots {
		if root.Selected {
			snap.Selected[root.Key] = struct{}{}
		}
		if root.Expanded {
			snap.Expanded[root.Key] = struct{}{}
		}
		for _, child := range root.Children {
			if child.Selected {
				snap.Selected[child.Key] = struct{}{}
			}
		}
	}
	return snap
}

// Build projects the ordered groups and their members into a fresh tree.
//
// prev carries display state forward: expansion and selection are restored
// by key, and the parent of a restored member selection is force-expanded
// so the selection stays visible. A nil prev means first build, where
// every group starts expanded. filter, when non-empty, limits visibility
// to nodes whose label (or a descendant's) contains it case-insensitively;
// groups with a matching descendant are force-expanded while filtering.
//
// Build never fails: missing membership data projects as an empty group.
func Build(gs []groups.Group, membersOf func(setName string) []string, prev *Snapshot, filter string) *Tree {
	tree := &Tree{}
	filter = strings.ToLower(strings.TrimSpace(filter))

	for _, g := range gs {
		root := &Node{
			Kind:  KindGroup,
			Key:   g.SetName,
			Label: g.Name,
		}

		var members []string
		if membersOf != nil {
			members = membersOf(g.SetName)
		}
		for _, ref := range members {
			label := naming.StripComponent(ref)
			root.Children = append(root.Children, &Node{
				Kind:  KindMember,
				Key:   MemberKey(g.SetName, ref),
				Label: label,
				Ref:   ref,
			})
		}

		applyDisplayState(root, prev)
		applyFilter(root, filter)

		tree.Roots = append(tree.Roots, root)
	}
	return tree
}

func applyDisplayState(root *Node, prev *Snapshot) {
	if prev == nil {
		// First build: everything expanded, nothing selected.
		root.Expanded = true
		return
	}

	if _, ok := prev.Expanded[root.Key]; ok {
		root.Expanded = true
	}
	if _, ok := prev.Selected[root.Key]; ok {
		root.Selected = true
	}
	for _, child := range root.Children {
		if _, ok := prev.Selected[child.Key]; ok {
			child.Selected = true
			// Keep restored member selections visible.
			root.Expanded = true
		}
	}
}

func applyFilter(root *Node, filter string) {
	if filter == "" {
		root.Visible = true
		for _, child := range root.Children {
			child.Visible = true
		}
		return
	}

	selfMatch := strings.Contains(strings.ToLower(root.Label), filter)
	childMatch := false
	for _, child := range root.Children {
		child.Visible = strings.Contains(strings.ToLower(child.Label), filter)
		if child.Visible {
			childMatch = true
		}
	}
	root.Visible = selfMatch || childMatch
	if childMatch {
		// Matching descendants override the expansion snapshot while the
		// filter is active.
		root.Expanded = true
	}
}

// VisibleKeys returns the keys of all visible nodes, in display order.
// Members of collapsed groups still count as visible for filtering
// purposes; collapse only affects rendering.
func VisibleKeys(t *Tree) []string {
	var keys []string
	for _, root := range t.Roots {
		if !root.Visible {
			continue
		}
		keys = append(keys, root.Key)
		for _, child := range root.Children {
			if child.Visible {
				keys = append(keys, child.Key)
			}
		}
	}
	return keys
}
