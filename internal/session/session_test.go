package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/persist"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

type stubWriter struct {
	exported []string
}

func (w *stubWriter) ApplySettings(settings.FBX) error { return nil }

func (w *stubWriter) ExportSelection(path string) error {
	w.exported = append(w.exported, path)
	return nil
}

func newTestSession(t *testing.T) (*Session, *scene.MemoryStore, *stubWriter) {
	t.Helper()
	store := scene.NewMemoryStore()
	for _, obj := range []string{"crate", "barrel", "terrain"} {
		store.AddObject(obj)
	}
	writer := &stubWriter{}
	s, err := New(Options{
		Store:  store,
		Writer: writer,
		Repo:   persist.NewRepository(fsops.NewRealFS(), nil),
		Panel:  "modelPanel4",
	})
	require.NoError(t, err)
	return s, store, writer
}

func TestNewSessionHasID(t *testing.T) {
	a, _, _ := newTestSession(t)
	b, _, _ := newTestSession(t)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Empty(t, a.Groups())
	assert.Empty(t, a.Tree().Roots)
}

func TestCreateShowsInTree(t *testing.T) {
	s, _, _ := newTestSession(t)

	setName, err := s.Create("Props")
	require.NoError(t, err)
	assert.Equal(t, "batchExport_Props", setName)

	require.Len(t, s.Tree().Roots, 1)
	assert.Equal(t, "Props", s.Tree().Roots[0].Label)
	assert.True(t, s.Tree().Roots[0].Expanded, "new groups start expanded")
}

func TestRefreshDropsSelectionKeepsExpansion(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Create("Props")
	require.NoError(t, err)
	_, err = s.Create("Environment")
	require.NoError(t, err)

	s.Tree().Roots[0].Selected = true
	s.Tree().Roots[1].Expanded = false

	require.NoError(t, s.Refresh(true))
	assert.True(t, s.Tree().Roots[0].Selected, "preserveSelection keeps selection")
	assert.False(t, s.Tree().Roots[1].Expanded)

	require.NoError(t, s.Refresh(false))
	assert.False(t, s.Tree().Roots[0].Selected, "refresh without preserve drops selection")
	assert.False(t, s.Tree().Roots[1].Expanded, "expansion survives either way")
}

func TestRenameCarriesDisplayState(t *testing.T) {
	s, _, _ := newTestSession(t)
	setName, err := s.Create("Props")
	require.NoError(t, err)
	require.NoError(t, s.AddMembers(setName, []string{"crate", "barrel"}))

	s.Tree().Roots[0].Children[0].Selected = true

	renamed, err := s.Rename(setName, "Gear")
	require.NoError(t, err)
	assert.Equal(t, "batchExport_Gear", renamed)

	root := s.Tree().Roots[0]
	assert.Equal(t, "Gear", root.Label)
	assert.True(t, root.Children[0].Selected, "member selection follows the rename")
	assert.Equal(t, "batchExport_Gear/crate", root.Children[0].Key)
}

func TestSelectedGroupIndex(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Create("Props")
	require.NoError(t, err)
	setName, err := s.Create("Environment")
	require.NoError(t, err)
	require.NoError(t, s.AddMembers(setName, []string{"terrain"}))

	assert.Equal(t, -1, s.SelectedGroupIndex())

	s.Tree().Roots[1].Children[0].Selected = true
	assert.Equal(t, 1, s.SelectedGroupIndex(), "member selection resolves to its parent group")

	s.Tree().Roots[1].Children[0].Selected = false
	s.Tree().Roots[0].Selected = true
	assert.Equal(t, 0, s.SelectedGroupIndex())
}

func TestSelectionInfo(t *testing.T) {
	s, _, _ := newTestSession(t)
	props, err := s.Create("Props")
	require.NoError(t, err)
	require.NoError(t, s.AddMembers(props, []string{"crate", "barrel"}))
	_, err = s.Create("Environment")
	require.NoError(t, err)

	s.Tree().Roots[1].Selected = true
	s.Tree().Roots[0].Children[1].Selected = true

	info := s.SelectionInfo()
	require.Len(t, info.Groups, 1)
	assert.Equal(t, "Environment", info.Groups[0].Name)
	assert.Equal(t, []string{"barrel"}, info.ObjectsByGroup[props])
}

func TestAddSelectionToGroup(t *testing.T) {
	s, store, _ := newTestSession(t)
	setName, err := s.Create("Props")
	require.NoError(t, err)

	require.NoError(t, store.SetSelection([]string{"crate", "terrain"}))
	n, err := s.AddSelectionToGroup(setName)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"crate", "terrain"}, s.Members(setName))

	require.NoError(t, store.ClearSelection())
	n, err = s.AddSelectionToGroup(setName)
	require.NoError(t, err)
	assert.Zero(t, n, "empty scene selection is a no-op")
}

func TestToggleIsolation(t *testing.T) {
	s, store, _ := newTestSession(t)
	setName, err := s.Create("Props")
	require.NoError(t, err)
	require.NoError(t, s.AddMembers(setName, []string{"crate", "barrel"}))

	on, err := s.ToggleIsolation(0)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.Isolated())
	assert.ElementsMatch(t, []string{"crate", "barrel"}, store.Isolated("modelPanel4"))

	sel, err := store.Selection()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"crate", "barrel"}, sel, "isolated objects get selected for feedback")

	// Toggling again turns isolation off regardless of index.
	on, err = s.ToggleIsolation(-1)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.Isolated())
	assert.Empty(t, store.Isolated("modelPanel4"))
}

func TestToggleIsolationRejectsEmptyGroup(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, err := s.Create("Props")
	require.NoError(t, err)

	_, err = s.ToggleIsolation(0)
	assert.Error(t, err)
	assert.False(t, s.Isolated())
}

func TestPollingGate(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.False(t, s.PollingPaused())
	s.PausePolling()
	assert.True(t, s.PollingPaused())
	s.ResumePolling()
	assert.False(t, s.PollingPaused())
}

func TestExportAllThroughSession(t *testing.T) {
	s, _, writer := newTestSession(t)
	props, err := s.Create("Props")
	require.NoError(t, err)
	require.NoError(t, s.AddMembers(props, []string{"crate"}))
	_, err = s.Create("Empty")
	require.NoError(t, err)

	fbx := s.Settings()
	fbx.ExportDirectory = t.TempDir()
	s.SetSettings(fbx)

	results, ok := s.ExportAll()
	require.Len(t, results, 2)
	assert.Equal(t, 1, ok, "empty group fails, populated group exports")
	assert.Len(t, writer.exported, 1)
}

func TestPresetRoundTrip(t *testing.T) {
	s, store, _ := newTestSession(t)
	store.SetSceneName(filepath.Join(t.TempDir(), "level01.mb"))

	props, err := s.Create("Props")
	require.NoError(t, err)
	require.NoError(t, s.AddMembers(props, []string{"crate"}))
	env, err := s.Create("Environment")
	require.NoError(t, err)

	fbx := s.Settings()
	fbx.ExportDirectory = "/tmp/exports"
	fbx.UpAxis = "Z"
	s.SetSettings(fbx)

	// Collapse Environment so the expansion state is distinguishable.
	s.Tree().Roots[1].Expanded = false

	path, err := s.SavePreset("")
	require.NoError(t, err)
	assert.Equal(t, persist.DefaultPath(store.SceneName()), path)

	// A fresh session over an empty scene: loading must materialize the sets.
	empty := scene.NewMemoryStore()
	restored, err := New(Options{
		Store:  empty,
		Writer: &stubWriter{},
		Repo:   persist.NewRepository(fsops.NewRealFS(), nil),
		Panel:  "modelPanel4",
	})
	require.NoError(t, err)

	_, err = restored.LoadPreset(path)
	require.NoError(t, err)

	gs := restored.Groups()
	require.Len(t, gs, 2)
	assert.Equal(t, props, gs[0].SetName)
	assert.Equal(t, env, gs[1].SetName)
	assert.Equal(t, "Z", restored.Settings().UpAxis)
	assert.True(t, restored.Tree().Roots[0].Expanded)
	assert.False(t, restored.Tree().Roots[1].Expanded, "collapsed state restored from preset")
}

func TestLoadPresetRestoresMovedOrder(t *testing.T) {
	s, store, _ := newTestSession(t)
	store.SetSceneName(filepath.Join(t.TempDir(), "level01.mb"))

	props, err := s.Create("Props")
	require.NoError(t, err)
	env, err := s.Create("Environment")
	require.NoError(t, err)

	fbx := s.Settings()
	fbx.ExportDirectory = "/tmp/exports"
	s.SetSettings(fbx)

	require.True(t, s.MoveUp(1))
	path, err := s.SavePreset("")
	require.NoError(t, err)

	// A scene holding the same sets in their original creation order.
	other := scene.NewMemoryStore()
	for _, name := range []string{props, env} {
		_, err := other.CreateSet(name)
		require.NoError(t, err)
	}
	restored, err := New(Options{
		Store:  other,
		Writer: &stubWriter{},
		Repo:   persist.NewRepository(fsops.NewRealFS(), nil),
		Panel:  "modelPanel4",
	})
	require.NoError(t, err)

	_, err = restored.LoadPreset(path)
	require.NoError(t, err)

	gs := restored.Groups()
	require.Len(t, gs, 2)
	assert.Equal(t, env, gs[0].SetName, "preset order wins over scene enumeration order")
	assert.Equal(t, props, gs[1].SetName)
}

func TestLoadDefaultPresetMissing(t *testing.T) {
	s, store, _ := newTestSession(t)
	store.SetSceneName(filepath.Join(t.TempDir(), "level01.mb"))

	_, found, err := s.LoadDefaultPreset()
	require.NoError(t, err)
	assert.False(t, found)
}
