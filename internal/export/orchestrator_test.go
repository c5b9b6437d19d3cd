package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parodyband/maya-batch-group-exporter/internal/clock"
	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

// mockWriter records calls and fails on demand per path.
type mockWriter struct {
	applied   []settings.FBX
	exported  []string
	failPaths map[string]error
}

func (w *mockWriter) ApplySettings(s settings.FBX) error {
	w.applied = append(w.applied, s)
	return nil
}

func (w *mockWriter) ExportSelection(path string) error {
	w.exported = append(w.exported, path)
	if w.failPaths != nil {
		if err, ok := w.failPaths[path]; ok {
			return err
		}
	}
	return nil
}

// selectionSpy counts selection mutations on top of a real store.
type selectionSpy struct {
	scene.Store
	setCalls int
}

func (s *selectionSpy) SetSelection(objects []string) error {
	s.setCalls++
	return s.Store.SetSelection(objects)
}

func validSettings(dir string) settings.FBX {
	s := settings.Default()
	s.ExportDirectory = dir
	return s
}

func newExportStore(t *testing.T, sets ...string) *scene.MemoryStore {
	t.Helper()
	store := scene.NewMemoryStore()
	for _, obj := range []string{"crate", "barrel", "terrain"} {
		store.AddObject(obj)
	}
	for _, name := range sets {
		if _, err := store.CreateSet(name); err != nil {
			t.Fatalf("CreateSet(%s): %v", name, err)
		}
	}
	return store
}

func TestExportOneValidatesBeforeTouchingSelection(t *testing.T) {
	store := newExportStore(t, "batchExport_Props")
	spy := &selectionSpy{Store: store}
	writer := &mockWriter{}
	orch := NewOrchestrator(spy, writer, nil, nil)

	s := settings.Default() // no export directory
	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, []string{"crate"}, s)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "export directory")
	assert.Zero(t, spy.setCalls, "selection must not be touched on invalid settings")
	assert.Empty(t, writer.exported)
}

func TestExportOneEmptyGroup(t *testing.T) {
	store := newExportStore(t, "batchExport_Props")
	writer := &mockWriter{}
	orch := NewOrchestrator(store, writer, nil, nil)

	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, nil, validSettings(t.TempDir()))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "no objects")
	assert.Empty(t, writer.exported)
}

func TestExportOneVanishedSet(t *testing.T) {
	store := newExportStore(t)
	spy := &selectionSpy{Store: store}
	writer := &mockWriter{}
	orch := NewOrchestrator(spy, writer, nil, nil)

	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, []string{"crate"}, validSettings(t.TempDir()))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "no backing set")
	assert.Zero(t, spy.setCalls, "selection must not be touched for a vanished set")
	assert.Empty(t, writer.exported)
}

func TestExportOneUncreatableDirectory(t *testing.T) {
	store := newExportStore(t, "batchExport_Props")
	require.NoError(t, store.SetSelection([]string{"terrain"}))
	spy := &selectionSpy{Store: store}
	writer := &mockWriter{}
	orch := NewOrchestrator(spy, writer, nil, nil)

	// A directory nested under a regular file cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	s := validSettings(filepath.Join(blocker, "exports"))

	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, []string{"crate"}, s)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "output directory")
	assert.Zero(t, spy.setCalls, "selection must not be touched when the output directory cannot be created")
	assert.Empty(t, writer.exported)

	sel, err := store.Selection()
	require.NoError(t, err)
	assert.Equal(t, []string{"terrain"}, sel)
}

func TestExportOneSelectsAndRestores(t *testing.T) {
	store := newExportStore(t, "batchExport_Props")
	require.NoError(t, store.SetSelection([]string{"terrain"}))
	writer := &mockWriter{}
	orch := NewOrchestrator(store, writer, nil, nil)

	dir := t.TempDir()
	s := validSettings(dir)
	s.FilePrefix = "lvl1_"
	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, []string{"crate", "barrel"}, s)

	require.True(t, res.Success, res.Message)
	assert.Equal(t, filepath.Join(dir, "lvl1_Props.fbx"), res.Path)
	require.Len(t, writer.applied, 1)
	assert.Equal(t, s, writer.applied[0])

	sel, err := store.Selection()
	require.NoError(t, err)
	assert.Equal(t, []string{"terrain"}, sel, "prior selection restored after export")
}

func TestExportOneRestoresSelectionOnWriterFailure(t *testing.T) {
	store := newExportStore(t, "batchExport_Props")
	require.NoError(t, store.SetSelection([]string{"terrain"}))

	dir := t.TempDir()
	path := filepath.Join(dir, "Props.fbx")
	writer := &mockWriter{failPaths: map[string]error{path: errors.New("disk full")}}
	orch := NewOrchestrator(store, writer, nil, nil)

	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, []string{"crate"}, validSettings(dir))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "disk full")

	sel, err := store.Selection()
	require.NoError(t, err)
	assert.Equal(t, []string{"terrain"}, sel, "prior selection restored after failure")
}

func TestExportOneRestoresEmptySelection(t *testing.T) {
	store := newExportStore(t, "batchExport_Props")
	writer := &mockWriter{}
	orch := NewOrchestrator(store, writer, nil, nil)

	res := orch.ExportOne(groups.Group{Name: "Props", SetName: "batchExport_Props"}, []string{"crate"}, validSettings(t.TempDir()))
	require.True(t, res.Success, res.Message)

	sel, err := store.Selection()
	require.NoError(t, err)
	assert.Empty(t, sel, "an empty prior selection stays empty")
}

func TestExportAllContinuesPastFailures(t *testing.T) {
	store := newExportStore(t, "batchExport_First", "batchExport_Middle", "batchExport_Last")
	dir := t.TempDir()
	writer := &mockWriter{failPaths: map[string]error{
		filepath.Join(dir, "Middle.fbx"): errors.New("boom"),
	}}
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	orch := NewOrchestrator(store, writer, fake, nil)

	gs := []groups.Group{
		{Name: "First", SetName: "batchExport_First"},
		{Name: "Middle", SetName: "batchExport_Middle"},
		{Name: "Last", SetName: "batchExport_Last"},
	}
	membersOf := func(string) []string { return []string{"crate"} }

	results, ok := orch.ExportAll(gs, membersOf, validSettings(dir))
	require.Len(t, results, 3)
	assert.Equal(t, 2, ok)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success, "failure must not stop later groups")
	assert.Len(t, writer.exported, 3)
}

func TestAsciiWriterExportSelection(t *testing.T) {
	store := newExportStore(t)
	require.NoError(t, store.SetSelection([]string{"crate", "crate.vtx[0:4]", "barrel"}))

	writer := NewAsciiWriter(store, fsops.NewRealFS(), nil)
	dir := t.TempDir()
	s := validSettings(dir)
	s.UpAxis = "Z"
	s.ConvertUnit = "m"
	require.NoError(t, writer.ApplySettings(s))

	path := filepath.Join(dir, "out", "Props.fbx")
	require.NoError(t, writer.ExportSelection(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Equal(t, 1, strings.Count(text, `"Model::crate"`), "component refs collapse to one model")
	assert.Contains(t, text, `"Model::barrel"`)
	assert.Contains(t, text, `P: "UpAxis", "int", "Integer", "",2`)
	assert.Contains(t, text, `P: "UnitScaleFactor", "double", "Number", "",100`)
}

func TestAsciiWriterEmptySelection(t *testing.T) {
	store := newExportStore(t)
	writer := NewAsciiWriter(store, fsops.NewRealFS(), nil)
	require.NoError(t, writer.ApplySettings(validSettings(t.TempDir())))

	err := writer.ExportSelection(filepath.Join(t.TempDir(), "empty.fbx"))
	assert.Error(t, err)
}
