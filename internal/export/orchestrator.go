// Package export runs batch FBX exports over the reconciled export groups.
//
// The orchestrator owns sequencing only: it validates settings up front,
// stages the scene selection for the writer, and restores whatever was
// selected before regardless of outcome. Writing the actual file is the
// Writer's job.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/parodyband/maya-batch-group-exporter/internal/clock"
	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/groups"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

// ErrExport indicates an export operation failed.
var ErrExport = errors.New("export failed")

// Writer produces one FBX file from the scene's current selection.
type Writer interface {
	// ApplySettings configures the writer for subsequent exports.
	ApplySettings(s settings.FBX) error

	// ExportSelection writes the currently selected objects to path.
	ExportSelection(path string) error
}

// Result is the outcome of exporting a single group.
type Result struct {
	Group   string
	Path    string
	Success bool
	Message string
	Took    time.Duration
}

// Orchestrator drives exports against a scene store and a writer.
type Orchestrator struct {
	store  scene.Store
	writer Writer
	fs     fsops.FS
	clock  clock.Clock
	logger *zap.Logger
}

// NewOrchestrator wires an orchestrator. A nil clock falls back to system
// time and a nil logger discards output.
func NewOrchestrator(store scene.Store, writer Writer, clk clock.Clock, logger *zap.Logger) *Orchestrator {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:  store,
		writer: writer,
		fs:     fsops.NewRealFS(),
		clock:  clk,
		logger: logger,
	}
}

// FilePath builds the output path for a group under the given settings.
func FilePath(s settings.FBX, groupName string) string {
	return filepath.Join(s.ExportDirectory, s.FilePrefix+groupName+".fbx")
}

// ExportOne exports a single group. Everything that can fail up front does
// so before the selection is touched: settings, backing set existence,
// member count, and the output directory. Once the members are selected,
// the prior selection is restored no matter how the write goes.
func (o *Orchestrator) ExportOne(g groups.Group, members []string, s settings.FBX) Result {
	res := Result{Group: g.Name}

	if err := s.Validate(); err != nil {
		res.Message = err.Error()
		return res
	}
	exists, err := o.store.Exists(g.SetName)
	if err != nil {
		res.Message = fmt.Sprintf("check set %s: %v", g.SetName, err)
		return res
	}
	if !exists {
		res.Message = fmt.Sprintf("group %q has no backing set %s", g.Name, g.SetName)
		return res
	}
	if len(members) == 0 {
		res.Message = fmt.Sprintf("group %q has no objects", g.Name)
		return res
	}
	if err := o.fs.MkdirAll(s.ExportDirectory, 0755); err != nil {
		res.Message = fmt.Sprintf("create output directory %s: %v", s.ExportDirectory, err)
		return res
	}
	res.Path = FilePath(s, g.Name)

	start := o.clock.Now()
	err = o.withSelection(members, func() error {
		if err := o.writer.ApplySettings(s); err != nil {
			return fmt.Errorf("%w: apply settings: %v", ErrExport, err)
		}
		if err := o.writer.ExportSelection(res.Path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrExport, res.Path, err)
		}
		return nil
	})
	res.Took = o.clock.Now().Sub(start)

	if err != nil {
		res.Message = err.Error()
		o.logger.Warn("export failed",
			zap.String("group", g.Name),
			zap.String("path", res.Path),
			zap.Error(err))
		return res
	}

	res.Success = true
	o.logger.Info("exported group",
		zap.String("group", g.Name),
		zap.String("path", res.Path),
		zap.Int("objects", len(members)),
		zap.Duration("took", res.Took))
	return res
}

// ExportAll exports every group in order, continuing past failures. It
// returns one result per group and the number of successes.
func (o *Orchestrator) ExportAll(gs []groups.Group, membersOf func(setName string) []string, s settings.FBX) ([]Result, int) {
	results := make([]Result, 0, len(gs))
	succeeded := 0
	for _, g := range gs {
		var members []string
		if membersOf != nil {
			members = membersOf(g.SetName)
		}
		res := o.ExportOne(g, members, s)
		if res.Success {
			succeeded++
		}
		results = append(results, res)
	}
	o.logger.Info("batch export finished",
		zap.Int("groups", len(gs)),
		zap.Int("succeeded", succeeded))
	return results, succeeded
}

// withSelection selects the given objects, runs fn, and puts the previous
// selection back.
func (o *Orchestrator) withSelection(objects []string, fn func() error) error {
	prev, err := o.store.Selection()
	if err != nil {
		return fmt.Errorf("%w: read selection: %v", ErrExport, err)
	}
	defer func() {
		if len(prev) == 0 {
			if err := o.store.ClearSelection(); err != nil {
				o.logger.Warn("restore selection", zap.Error(err))
			}
			return
		}
		if err := o.store.SetSelection(prev); err != nil {
			o.logger.Warn("restore selection", zap.Error(err))
		}
	}()

	if err := o.store.SetSelection(objects); err != nil {
		return fmt.Errorf("%w: select objects: %v", ErrExport, err)
	}
	return fn()
}
