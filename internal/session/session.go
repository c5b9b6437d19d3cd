// Package session owns the state of one editing session.
//
// A session binds the scene store, the reconciler, the projected tree, the
// FBX settings, the export orchestrator, and the preset repository into one
// explicit context object. Sessions are not safe for concurrent mutation;
// interactive frontends serialize through their update loop and pause
// background polling around multi-step edits.
package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parodyband/maya-batch-group-exporter/internal/export"
	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/persist"
	"github.com/parodyband/maya-batch-group-exporter/internal/projection"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

// SelectionInfo describes what is selected in the projected tree.
type SelectionInfo struct {
	// Groups are the selected group nodes, in display order.
	Groups []groups.Group

	// ObjectsByGroup maps a set name to its selected member references.
	ObjectsByGroup map[string][]string
}

// Session is the context object for one editing session.
type Session struct {
	id     string
	logger *zap.Logger

	store scene.Store
	rec   *groups.Reconciler
	orch  *export.Orchestrator
	repo  *persist.Repository

	settings settings.FBX
	panel    string

	tree     *projection.Tree
	snapshot *projection.Snapshot
	filter   string

	pollPaused    bool
	isolatedPanel string
}

// Options carries the collaborators a session is built from.
type Options struct {
	Store  scene.Store
	Writer export.Writer
	Repo   *persist.Repository
	Logger *zap.Logger

	// Panel is the viewport panel used for isolation.
	Panel string
}

// New builds a session and performs the initial sync. The session starts
// with default settings; LoadDefaultPreset picks up any saved state.
func New(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))

	s := &Session{
		id:       id,
		logger:   logger,
		store:    opts.Store,
		rec:      groups.NewReconciler(opts.Store, logger),
		orch:     export.NewOrchestrator(opts.Store, opts.Writer, nil, logger),
		repo:     opts.Repo,
		settings: settings.Default(),
		panel:    opts.Panel,
	}
	if err := s.Refresh(false); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier used in log correlation.
func (s *Session) ID() string { return s.id }

// Tree returns the current projected tree. Frontends may set Selected and
// Expanded flags on its nodes; the next Refresh carries them forward.
func (s *Session) Tree() *projection.Tree { return s.tree }

// Groups returns the ordered group collection.
func (s *Session) Groups() []groups.Group { return s.rec.Groups() }

// Members returns the member references of a group's backing set.
func (s *Session) Members(setName string) []string { return s.rec.Members(setName) }

// Settings returns the current FBX settings.
func (s *Session) Settings() settings.FBX { return s.settings }

// SetSettings replaces the FBX settings. Values are taken as-is; exports
// validate before running, so a not-yet-complete record is fine here.
func (s *Session) SetSettings(fbx settings.FBX) { s.settings = fbx }

// Filter returns the active tree filter string.
func (s *Session) Filter() string { return s.filter }

// SetFilter applies a tree filter and rebuilds the projection.
func (s *Session) SetFilter(filter string) {
	s.filter = filter
	s.rebuild()
}

// Refresh re-syncs the group collection from the store and rebuilds the
// tree. Display state is carried across the rebuild; preserveSelection
// false drops the selection while keeping expansion.
func (s *Session) Refresh(preserveSelection bool) error {
	s.captureDisplayState()
	if !preserveSelection && s.snapshot != nil {
		s.snapshot.Selected = make(map[string]struct{})
	}
	if err := s.rec.Sync(); err != nil {
		return err
	}
	s.rebuild()
	return nil
}

// captureDisplayState folds the live tree's flags into the snapshot.
func (s *Session) captureDisplayState() {
	if s.tree != nil {
		s.snapshot = projection.Capture(s.tree)
	}
}

func (s *Session) rebuild() {
	s.tree = projection.Build(s.rec.Groups(), s.rec.Members, s.snapshot, s.filter)
	s.snapshot = projection.Capture(s.tree)
}

// Create adds a new group and returns its set name.
func (s *Session) Create(name string) (string, error) {
	setName, err := s.rec.Create(name)
	if err != nil {
		return "", err
	}
	s.captureDisplayState()
	if s.snapshot != nil {
		// New groups start expanded.
		s.snapshot.Expanded[setName] = struct{}{}
	}
	s.rebuild()
	return setName, nil
}

// Rename renames a group. Display state keyed on the old set name follows
// the group to its new identity.
func (s *Session) Rename(setName, newName string) (string, error) {
	renamed, err := s.rec.Rename(setName, newName)
	if err != nil {
		return "", err
	}
	s.captureDisplayState()
	s.rewriteKeys(setName, renamed)
	s.rebuild()
	return renamed, nil
}

// rewriteKeys moves snapshot entries from an old set name to a new one,
// including member keys under the old prefix.
func (s *Session) rewriteKeys(oldSet, newSet string) {
	if s.snapshot == nil || oldSet == newSet {
		return
	}
	for _, keys := range []map[string]struct{}{s.snapshot.Selected, s.snapshot.Expanded} {
		moves := make(map[string]string)
		for key := range keys {
			switch {
			case key == oldSet:
				moves[key] = newSet
			case strings.HasPrefix(key, oldSet+"/"):
				moves[key] = newSet + strings.TrimPrefix(key, oldSet)
			}
		}
		for old, renamed := range moves {
			delete(keys, old)
			keys[renamed] = struct{}{}
		}
	}
}

// Remove deletes a group.
func (s *Session) Remove(setName string) error {
	if err := s.rec.Remove(setName); err != nil {
		return err
	}
	s.captureDisplayState()
	s.rebuild()
	return nil
}

// Duplicate copies a group and its members, returning the new set name.
func (s *Session) Duplicate(setName string) (string, error) {
	copied, err := s.rec.Duplicate(setName)
	if err != nil {
		return "", err
	}
	s.captureDisplayState()
	s.rebuild()
	return copied, nil
}

// MoveUp moves the group at index one position earlier. Returns false at
// the boundary.
func (s *Session) MoveUp(index int) bool {
	moved := s.rec.MoveUp(index)
	if moved {
		s.captureDisplayState()
		s.rebuild()
	}
	return moved
}

// MoveDown moves the group at index one position later.
func (s *Session) MoveDown(index int) bool {
	moved := s.rec.MoveDown(index)
	if moved {
		s.captureDisplayState()
		s.rebuild()
	}
	return moved
}

// AddMembers adds object references to a group.
func (s *Session) AddMembers(setName string, refs []string) error {
	if err := s.rec.AddMembers(setName, refs); err != nil {
		return err
	}
	s.captureDisplayState()
	s.rebuild()
	return nil
}

// AddSelectionToGroup adds the scene's current selection to a group.
func (s *Session) AddSelectionToGroup(setName string) (int, error) {
	selected, err := s.store.Selection()
	if err != nil {
		return 0, fmt.Errorf("%w: read selection: %v", groups.ErrStore, err)
	}
	if len(selected) == 0 {
		return 0, nil
	}
	if err := s.AddMembers(setName, selected); err != nil {
		return 0, err
	}
	return len(selected), nil
}

// RemoveMembers removes object references from a group.
func (s *Session) RemoveMembers(setName string, refs []string) error {
	if err := s.rec.RemoveMembers(setName, refs); err != nil {
		return err
	}
	s.captureDisplayState()
	s.rebuild()
	return nil
}

// ClearMembers empties a group.
func (s *Session) ClearMembers(setName string) error {
	if err := s.rec.ClearMembers(setName); err != nil {
		return err
	}
	s.captureDisplayState()
	s.rebuild()
	return nil
}

// SelectInScene replaces the scene selection with the given references.
func (s *Session) SelectInScene(refs []string) error {
	if len(refs) == 0 {
		return s.store.ClearSelection()
	}
	return s.store.SetSelection(refs)
}

// SelectedGroupIndex returns the index of the selected group, or the
// parent group of the first selected member. Returns -1 when nothing
// relevant is selected.
func (s *Session) SelectedGroupIndex() int {
	if s.tree == nil {
		return -1
	}
	for i, root := range s.tree.Roots {
		if root.Selected {
			return i
		}
		for _, child := range root.Children {
			if child.Selected {
				return i
			}
		}
	}
	return -1
}

// SelectionInfo reports the selected groups and the selected member
// references grouped by their set name.
func (s *Session) SelectionInfo() SelectionInfo {
	info := SelectionInfo{ObjectsByGroup: make(map[string][]string)}
	if s.tree == nil {
		return info
	}
	for _, root := range s.tree.Roots {
		if root.Selected {
			if g, ok := s.rec.Get(root.Key); ok {
				info.Groups = append(info.Groups, g)
			}
		}
		for _, child := range root.Children {
			if child.Selected {
				info.ObjectsByGroup[root.Key] = append(info.ObjectsByGroup[root.Key], child.Ref)
			}
		}
	}
	return info
}

// ToggleIsolation flips viewport isolation. When turning on, the group at
// index is isolated and its objects selected for feedback; when anything
// is already isolated, it is turned off regardless of index. Returns
// whether isolation is active afterwards.
func (s *Session) ToggleIsolation(index int) (bool, error) {
	if s.isolatedPanel != "" {
		err := s.store.Isolate(s.isolatedPanel, false, nil)
		// Reset state even if the panel is gone.
		s.isolatedPanel = ""
		if err != nil {
			s.logger.Warn("failed to unisolate panel", zap.Error(err))
		}
		return false, nil
	}

	gs := s.rec.Groups()
	if index < 0 || index >= len(gs) {
		return false, fmt.Errorf("%w: no group at index %d", groups.ErrNotFound, index)
	}
	g := gs[index]
	objects := s.rec.Members(g.SetName)
	if len(objects) == 0 {
		return false, fmt.Errorf("%w: group %q has no objects", groups.ErrValidation, g.Name)
	}

	if err := s.store.Isolate(s.panel, true, objects); err != nil {
		return false, fmt.Errorf("%w: isolate: %v", groups.ErrStore, err)
	}
	if err := s.store.SetSelection(objects); err != nil {
		s.logger.Warn("failed to select isolated objects", zap.Error(err))
	}
	s.isolatedPanel = s.panel
	s.logger.Info("isolated group",
		zap.String("group", g.Name),
		zap.String("panel", s.panel),
		zap.Int("objects", len(objects)))
	return true, nil
}

// Isolated reports whether a panel is currently isolated.
func (s *Session) Isolated() bool { return s.isolatedPanel != "" }

// PausePolling suspends timer-driven refreshes while a dialog edit is in
// flight.
func (s *Session) PausePolling() { s.pollPaused = true }

// ResumePolling re-enables timer-driven refreshes.
func (s *Session) ResumePolling() { s.pollPaused = false }

// PollingPaused reports whether background refreshes are suspended.
func (s *Session) PollingPaused() bool { return s.pollPaused }

// ExportGroup exports the group at index.
func (s *Session) ExportGroup(index int) (export.Result, error) {
	gs := s.rec.Groups()
	if index < 0 || index >= len(gs) {
		return export.Result{}, fmt.Errorf("%w: no group at index %d", groups.ErrNotFound, index)
	}
	g := gs[index]
	return s.orch.ExportOne(g, s.rec.Members(g.SetName), s.settings), nil
}

// ExportAll exports every group in order, continuing past failures.
func (s *Session) ExportAll() ([]export.Result, int) {
	return s.orch.ExportAll(s.rec.Groups(), s.rec.Members, s.settings)
}

// DefaultPresetPath is the preset path derived from the scene name.
func (s *Session) DefaultPresetPath() string {
	return persist.DefaultPath(s.store.SceneName())
}

// SavePreset syncs and writes the current groups, settings, and expansion
// state to path. An empty path uses the scene-derived default. Returns the
// path written.
func (s *Session) SavePreset(path string) (string, error) {
	if path == "" {
		path = s.DefaultPresetPath()
	}
	if err := s.Refresh(true); err != nil {
		return "", err
	}

	s.captureDisplayState()
	p := persist.Preset{
		ExportGroups: s.rec.Groups(),
		FBXSettings:  s.settings,
	}
	for _, g := range p.ExportGroups {
		if s.snapshot != nil {
			if _, ok := s.snapshot.Expanded[g.SetName]; ok {
				p.ExpandedGroups = append(p.ExpandedGroups, g.SetName)
			}
		}
	}
	if err := s.repo.Save(p, path); err != nil {
		return "", err
	}
	return path, nil
}

// LoadPreset reads a preset, materializes any sets it names that the scene
// lacks, applies its settings, and restores its group order and expansion
// state. An empty
// path uses the scene-derived default. Returns the path loaded.
func (s *Session) LoadPreset(path string) (string, error) {
	if path == "" {
		path = s.DefaultPresetPath()
	}
	p, err := s.repo.Load(path)
	if err != nil {
		return "", err
	}

	for _, g := range p.ExportGroups {
		exists, err := s.store.Exists(g.SetName)
		if err != nil {
			return "", fmt.Errorf("%w: %v", groups.ErrStore, err)
		}
		if exists {
			continue
		}
		if _, err := s.store.CreateSet(g.SetName); err != nil {
			return "", fmt.Errorf("%w: materialize set %s: %v", groups.ErrStore, g.SetName, err)
		}
		s.logger.Info("materialized set from preset", zap.String("set", g.SetName))
	}

	s.settings = p.FBXSettings

	snap := projection.NewSnapshot()
	for _, setName := range p.ExpandedGroups {
		snap.Expanded[setName] = struct{}{}
	}
	s.snapshot = snap
	s.tree = nil

	// The preset's group order wins over store enumeration order; Sync
	// appends any sets the preset does not know about.
	order := make([]string, 0, len(p.ExportGroups))
	for _, g := range p.ExportGroups {
		order = append(order, g.SetName)
	}
	s.rec.ApplyOrder(order)

	if err := s.rec.Sync(); err != nil {
		return "", err
	}
	s.rebuild()
	return path, nil
}

// LoadDefaultPreset loads the scene-derived preset if it exists. Returns
// the path and whether a preset was found.
func (s *Session) LoadDefaultPreset() (string, bool, error) {
	path := s.DefaultPresetPath()
	if !s.repo.Exists(path) {
		return path, false, nil
	}
	if _, err := s.LoadPreset(path); err != nil {
		return path, true, err
	}
	return path, true, nil
}
