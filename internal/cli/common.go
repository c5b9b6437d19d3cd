package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/parodyband/maya-batch-group-exporter/internal/config"
	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/export"
	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/logging"
	"github.com/parodyband/maya-batch-group-exporter/internal/persist"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
	"github.com/parodyband/maya-batch-group-exporter/internal/session"
)

// newSession wires a session with real implementations of all dependencies.
// The default preset for the scene is loaded when one exists.
func newSession(logger *zap.Logger) (*session.Session, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, err
	}
	if memoryStore {
		cfg.Store = config.StoreMemory
	}
	if sceneFlag != "" {
		cfg.Scene = sceneFlag
	}

	fs := fsops.NewRealFS()

	var store scene.Store
	switch cfg.Store {
	case config.StoreMemory:
		store = scene.NewMemoryStore()
	default:
		name := cfg.Scene
		if name == "" {
			name = "default"
		}
		sq, err := scene.OpenSQLiteStore(paths.ScenePath(name))
		if err != nil {
			return nil, fmt.Errorf("failed to open scene %s: %w", name, err)
		}
		store = sq
	}

	sess, err := session.New(session.Options{
		Store:  store,
		Writer: export.NewAsciiWriter(store, fs, nil),
		Repo:   persist.NewRepository(fs, logger),
		Logger: logger,
		Panel:  cfg.Panel,
	})
	if err != nil {
		return nil, err
	}

	if path, found, err := sess.LoadDefaultPreset(); err != nil {
		PrintWarning(fmt.Sprintf("could not load preset %s: %v", path, err))
	} else if found && logger != nil {
		logger.Debug("loaded default preset", zap.String("path", path))
	}
	return sess, nil
}

// newLogger builds the logger for one command invocation.
func newLogger() (*zap.Logger, error) {
	return logging.New(verbose)
}

// resolveGroup resolves a group argument, which may be a display name, a
// set name, or a zero-based index.
func resolveGroup(sess *session.Session, arg string) (int, groups.Group, error) {
	gs := sess.Groups()
	for i, g := range gs {
		if g.Name == arg || g.SetName == arg {
			return i, g, nil
		}
	}
	if idx, err := strconv.Atoi(arg); err == nil && idx >= 0 && idx < len(gs) {
		return idx, gs[idx], nil
	}
	return -1, groups.Group{}, fmt.Errorf("%w: no group %q", groups.ErrNotFound, arg)
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
