// Package settings holds the validated FBX export settings record.
package settings

import (
	"errors"
	"fmt"
)

// ErrInvalid indicates a settings field is outside its allowed values.
var ErrInvalid = errors.New("invalid settings")

// UpAxes are the accepted up-axis values.
var UpAxes = []string{"Y", "Z"}

// Units are the accepted conversion units.
var Units = []string{"cm", "m", "mm", "in", "ft"}

// FBX is the full set of FBX export settings. JSON tags match the persisted
// preset schema exactly; all five fields are required on load.
type FBX struct {
	UpAxis          string `json:"up_axis"`
	Triangulate     bool   `json:"triangulate"`
	ConvertUnit     string `json:"convert_unit"`
	ExportDirectory string `json:"export_directory"`
	FilePrefix      string `json:"file_prefix"`
}

// Default returns the settings a new session starts with. The export
// directory is intentionally empty so the first export forces the user to
// pick one.
func Default() FBX {
	return FBX{
		UpAxis:      "Y",
		Triangulate: false,
		ConvertUnit: "cm",
	}
}

// ValidateEnums checks that the enumerated fields hold allowed values. The
// export directory may still be empty; a record passing this check is safe
// to edit and persist, but not yet to export with.
func (s FBX) ValidateEnums() error {
	if !contains(UpAxes, s.UpAxis) {
		return fmt.Errorf("%w: up axis %q not one of %v", ErrInvalid, s.UpAxis, UpAxes)
	}
	if !contains(Units, s.ConvertUnit) {
		return fmt.Errorf("%w: unit %q not one of %v", ErrInvalid, s.ConvertUnit, Units)
	}
	return nil
}

// Validate checks that enumerated fields hold allowed values and that an
// export directory has been set.
func (s FBX) Validate() error {
	if err := s.ValidateEnums(); err != nil {
		return err
	}
	if s.ExportDirectory == "" {
		return fmt.Errorf("%w: export directory not set", ErrInvalid)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
