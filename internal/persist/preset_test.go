package persist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

func testPreset() Preset {
	s := settings.Default()
	s.ExportDirectory = "/tmp/exports"
	s.FilePrefix = "lvl_"
	return Preset{
		ExportGroups: []groups.Group{
			{Name: "Props", SetName: "batchExport_Props"},
			{Name: "Environment", SetName: "batchExport_Environment"},
		},
		FBXSettings:    s,
		ExpandedGroups: []string{"batchExport_Props"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := NewRepository(fsops.NewRealFS(), nil)
	path := filepath.Join(t.TempDir(), "scene_export_groups.json")

	want := testPreset()
	require.NoError(t, repo.Save(want, path))
	assert.True(t, repo.Exists(path))

	got, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	repo := NewRepository(fsops.NewRealFS(), nil)
	path := filepath.Join(t.TempDir(), "presets", "deep", "scene_export_groups.json")
	require.NoError(t, repo.Save(testPreset(), path))
	assert.True(t, repo.Exists(path))
}

func TestSaveAlwaysWritesExpandedGroups(t *testing.T) {
	repo := NewRepository(fsops.NewRealFS(), nil)
	path := filepath.Join(t.TempDir(), "preset.json")

	p := testPreset()
	p.ExpandedGroups = nil
	require.NoError(t, repo.Save(p, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"expanded_groups": []`)
}

func TestSaveRejectsNonJSONPath(t *testing.T) {
	repo := NewRepository(fsops.NewRealFS(), nil)
	err := repo.Save(testPreset(), filepath.Join(t.TempDir(), "preset.txt"))
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestLoadStrictSchema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing export_groups",
			content: `{"fbx_settings": {"up_axis": "Y", "triangulate": false, "convert_unit": "cm", "export_directory": "", "file_prefix": ""}}`,
			wantErr: "export_groups",
		},
		{
			name:    "missing fbx_settings",
			content: `{"export_groups": []}`,
			wantErr: "fbx_settings",
		},
		{
			name:    "missing settings field",
			content: `{"export_groups": [], "fbx_settings": {"up_axis": "Y", "triangulate": false, "convert_unit": "cm", "export_directory": ""}}`,
			wantErr: "file_prefix",
		},
		{
			name:    "not JSON",
			content: `not json at all`,
			wantErr: "invalid JSON",
		},
	}

	repo := NewRepository(fsops.NewRealFS(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "preset.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := repo.Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrPersistence), "want ErrPersistence, got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadExpandedGroupsOptional(t *testing.T) {
	content := `{
		"export_groups": [{"name": "Props", "set_name": "batchExport_Props"}],
		"fbx_settings": {"up_axis": "Z", "triangulate": true, "convert_unit": "m", "export_directory": "/tmp", "file_prefix": ""}
	}`
	path := filepath.Join(t.TempDir(), "preset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := NewRepository(fsops.NewRealFS(), nil)
	got, err := repo.Load(path)
	require.NoError(t, err)
	assert.NotNil(t, got.ExpandedGroups)
	assert.Empty(t, got.ExpandedGroups)
	assert.Equal(t, "Z", got.FBXSettings.UpAxis)
	assert.True(t, got.FBXSettings.Triangulate)
}

func TestLoadMissingFile(t *testing.T) {
	repo := NewRepository(fsops.NewRealFS(), nil)
	_, err := repo.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath(filepath.Join("scenes", "level01.mb"))
	assert.Equal(t, filepath.Join("scenes", "level01_export_groups.json"), got)

	got = DefaultPath("")
	assert.True(t, strings.HasSuffix(got, "groupexport_untitled.json"))
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, home, filepath.Dir(got))
}
