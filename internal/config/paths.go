// Package config manages groupexport configuration and filesystem paths.
//
// Configuration includes the locations of groupexport data directories,
// which can be customized via environment variables. The default root is
// ~/.groupexport/ containing scenes/, logs/, and the tool config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by groupexport.
type Paths struct {
	// Root is the base directory for all groupexport data (default: ~/.groupexport)
	Root string

	// Scenes is the directory holding standalone scene databases
	Scenes string

	// Logs is the directory for log output
	Logs string

	// Config is the path to the tool config file
	Config string
}

// DefaultPaths returns the default paths for groupexport.
// Paths can be overridden with environment variables:
// - GROUPEXPORT_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("GROUPEXPORT_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".groupexport")
	}

	return &Paths{
		Root:   root,
		Scenes: filepath.Join(root, "scenes"),
		Logs:   filepath.Join(root, "logs"),
		Config: filepath.Join(root, "config.toml"),
	}, nil
}

// ScenePath returns the database path for a named scene.
func (p *Paths) ScenePath(name string) string {
	return filepath.Join(p.Scenes, name+".db")
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Scenes,
		p.Logs,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
