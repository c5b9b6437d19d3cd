package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/parodyband/maya-batch-group-exporter/internal/clock"
	"github.com/parodyband/maya-batch-group-exporter/internal/fsops"
	"github.com/parodyband/maya-batch-group-exporter/internal/naming"
	"github.com/parodyband/maya-batch-group-exporter/internal/scene"
	"github.com/parodyband/maya-batch-group-exporter/internal/settings"
)

// unit scale factors relative to centimeters, the FBX native unit.
var unitScale = map[string]float64{
	"mm": 0.1,
	"cm": 1,
	"m":  100,
	"in": 2.54,
	"ft": 30.48,
}

// AsciiWriter writes FBX ASCII files from the scene's current selection.
// It emits one Model node per selected object; geometry lives in the scene
// store, so the output carries names and the global settings header only.
type AsciiWriter struct {
	store    scene.Store
	fs       fsops.FS
	clock    clock.Clock
	settings settings.FBX
}

// NewAsciiWriter returns a writer over the given store and filesystem.
func NewAsciiWriter(store scene.Store, fs fsops.FS, clk clock.Clock) *AsciiWriter {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &AsciiWriter{store: store, fs: fs, clock: clk, settings: settings.Default()}
}

// ApplySettings stores the settings used by subsequent exports.
func (w *AsciiWriter) ApplySettings(s settings.FBX) error {
	if err := s.Validate(); err != nil {
		return err
	}
	w.settings = s
	return nil
}

// ExportSelection writes the selected objects to path, creating parent
// directories as needed. Component annotations on references are stripped
// so an object selected via components exports once under its own name.
func (w *AsciiWriter) ExportSelection(path string) error {
	selected, err := w.store.Selection()
	if err != nil {
		return fmt.Errorf("read selection: %w", err)
	}
	if len(selected) == 0 {
		return fmt.Errorf("nothing selected")
	}

	objects := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, ref := range selected {
		obj := naming.StripComponent(ref)
		if _, ok := seen[obj]; ok {
			continue
		}
		seen[obj] = struct{}{}
		objects = append(objects, obj)
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	data := w.render(objects, w.clock.Now())
	if err := w.fs.AtomicWrite(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *AsciiWriter) render(objects []string, now time.Time) string {
	var b strings.Builder

	upAxisSign := 1
	frontAxis := 2 // Z is front when Y is up
	if w.settings.UpAxis == "Z" {
		frontAxis = 1
	}
	axisIndex := map[string]int{"Y": 1, "Z": 2}[w.settings.UpAxis]

	fmt.Fprintf(&b, "; FBX 7.4.0 project file\n")
	fmt.Fprintf(&b, "FBXHeaderExtension:  {\n")
	fmt.Fprintf(&b, "\tFBXHeaderVersion: 1003\n")
	fmt.Fprintf(&b, "\tFBXVersion: 7400\n")
	fmt.Fprintf(&b, "\tCreationTimeStamp:  {\n")
	fmt.Fprintf(&b, "\t\tVersion: 1000\n")
	fmt.Fprintf(&b, "\t\tYear: %d\n\t\tMonth: %d\n\t\tDay: %d\n", now.Year(), now.Month(), now.Day())
	fmt.Fprintf(&b, "\t\tHour: %d\n\t\tMinute: %d\n\t\tSecond: %d\n", now.Hour(), now.Minute(), now.Second())
	fmt.Fprintf(&b, "\t}\n")
	fmt.Fprintf(&b, "}\n")

	fmt.Fprintf(&b, "GlobalSettings:  {\n")
	fmt.Fprintf(&b, "\tVersion: 1000\n")
	fmt.Fprintf(&b, "\tProperties70:  {\n")
	fmt.Fprintf(&b, "\t\tP: \"UpAxis\", \"int\", \"Integer\", \"\",%d\n", axisIndex)
	fmt.Fprintf(&b, "\t\tP: \"UpAxisSign\", \"int\", \"Integer\", \"\",%d\n", upAxisSign)
	fmt.Fprintf(&b, "\t\tP: \"FrontAxis\", \"int\", \"Integer\", \"\",%d\n", frontAxis)
	fmt.Fprintf(&b, "\t\tP: \"UnitScaleFactor\", \"double\", \"Number\", \"\",%g\n", unitScale[w.settings.ConvertUnit])
	fmt.Fprintf(&b, "\t}\n")
	fmt.Fprintf(&b, "}\n")

	fmt.Fprintf(&b, "Definitions:  {\n")
	fmt.Fprintf(&b, "\tVersion: 100\n")
	fmt.Fprintf(&b, "\tCount: %d\n", len(objects))
	fmt.Fprintf(&b, "}\n")

	fmt.Fprintf(&b, "Objects:  {\n")
	for i, obj := range objects {
		fmt.Fprintf(&b, "\tModel: %d, \"Model::%s\", \"Mesh\" {\n", i+1, obj)
		fmt.Fprintf(&b, "\t\tVersion: 232\n")
		if w.settings.Triangulate {
			fmt.Fprintf(&b, "\t\tGeometryVersion: 124\n")
		}
		fmt.Fprintf(&b, "\t}\n")
	}
	fmt.Fprintf(&b, "}\n")

	fmt.Fprintf(&b, "Connections:  {\n")
	for i := range objects {
		fmt.Fprintf(&b, "\tC: \"OO\",%d,0\n", i+1)
	}
	fmt.Fprintf(&b, "}\n")

	return b.String()
}
