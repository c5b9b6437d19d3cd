// Package persist saves and loads export presets as JSON files.
//
// A preset bundles the export groups, the FBX settings, and the set of
// expanded groups. The schema is strict on load: export_groups,
// fbx_settings, and all five settings fields must be present. Only
// expanded_groups may be absent, since older files predate it; it is
// always written.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

const (
	presetSuffix     = "_export_groups"
	presetExtension  = ".json"
	untitledFilename = "groupexport_untitled" + presetExtension
)

// ErrPersistence indicates a preset could not be read or written.
var ErrPersistence = errors.New("persistence error")

// Preset is the on-disk export configuration.
type Preset struct {
	ExportGroups   []groups.Group `json:"export_groups"`
	FBXSettings    settings.FBX   `json:"fbx_settings"`
	ExpandedGroups []string       `json:"expanded_groups"`
}

// Repository persists presets as JSON files.
type Repository struct {
	fs     fsops.FS
	logger *zap.Logger
}

// NewRepository returns a repository over the given filesystem. A nil
// logger discards output.
func NewRepository(fs fsops.FS, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{fs: fs, logger: logger}
}

// DefaultPath derives the preset path from a scene file path. A named
// scene maps to a sibling "<base>_export_groups.json"; an unnamed scene
// falls back to a fixed file in the user's home directory.
func DefaultPath(sceneName string) string {
	if sceneName == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		return filepath.Join(home, untitledFilename)
	}
	base := strings.TrimSuffix(sceneName, filepath.Ext(sceneName))
	return base + presetSuffix + presetExtension
}

// Exists reports whether a preset file is present at path.
func (r *Repository) Exists(path string) bool {
	ok, err := r.fs.Exists(path)
	return err == nil && ok
}

// Save writes the preset to path atomically, creating parent directories
// as needed. A nil ExpandedGroups still serializes as an empty list.
func (r *Repository) Save(p Preset, path string) error {
	if filepath.Ext(path) != presetExtension {
		return fmt.Errorf("%w: %s is not a %s file", ErrPersistence, path, presetExtension)
	}
	if p.ExportGroups == nil {
		p.ExportGroups = []groups.Group{}
	}
	if p.ExpandedGroups == nil {
		p.ExpandedGroups = []string{}
	}

	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: marshal preset: %v", ErrPersistence, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", ErrPersistence, dir, err)
		}
	}
	if err := r.fs.AtomicWrite(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, path, err)
	}

	r.logger.Info("saved preset",
		zap.String("path", path),
		zap.Int("groups", len(p.ExportGroups)))
	return nil
}

// Load reads and validates the preset at path. Any missing required field
// fails the load; a missing expanded_groups list defaults to empty.
func (r *Repository) Load(path string) (Preset, error) {
	if filepath.Ext(path) != presetExtension {
		return Preset{}, fmt.Errorf("%w: %s is not a %s file", ErrPersistence, path, presetExtension)
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: read %s: %v", ErrPersistence, path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Preset{}, fmt.Errorf("%w: invalid JSON in %s: %v", ErrPersistence, path, err)
	}
	if _, ok := raw["export_groups"]; !ok {
		return Preset{}, fmt.Errorf("%w: missing export_groups field", ErrPersistence)
	}
	rawSettings, ok := raw["fbx_settings"]
	if !ok {
		return Preset{}, fmt.Errorf("%w: missing fbx_settings field", ErrPersistence)
	}

	var settingsFields map[string]json.RawMessage
	if err := json.Unmarshal(rawSettings, &settingsFields); err != nil {
		return Preset{}, fmt.Errorf("%w: invalid fbx_settings: %v", ErrPersistence, err)
	}
	var missing []string
	for _, field := range []string{"up_axis", "triangulate", "convert_unit", "export_directory", "file_prefix"} {
		if _, ok := settingsFields[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Preset{}, fmt.Errorf("%w: missing fbx_settings fields: %v", ErrPersistence, missing)
	}

	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("%w: decode preset: %v", ErrPersistence, err)
	}
	if p.ExpandedGroups == nil {
		p.ExpandedGroups = []string{}
	}

	r.logger.Info("loaded preset",
		zap.String("path", path),
		zap.Int("groups", len(p.ExportGroups)))
	return p, nil
}
