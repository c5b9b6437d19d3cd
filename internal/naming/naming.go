// Package naming turns user-supplied display names into scene-store-safe
// set identifiers and back.
//
// Every export group is backed by a scene object set whose name carries the
// Prefix. The functions here are pure: they never touch the store, and
// Sanitize never fails. Uniqueness is resolved against a caller-supplied
// existence predicate so the package stays free of store dependencies.
package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Prefix marks object sets owned by the exporter. ListSets(Prefix) is how
// the reconciler discovers its groups in a scene.
const Prefix = "batchExport_"

// reservedChars are rejected by the scene store in object names.
const reservedChars = `<>:"/\|?*`

// Sanitize converts a display name into a store-safe identifier fragment:
// whitespace, reserved, and control characters become "_", runs of "_"
// collapse to one, and a leading digit gets a "_" prefix.
// The result may be empty; use SanitizeOr when a fallback is required.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r < 0x20 || strings.ContainsRune(reservedChars, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	s := b.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")

	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// SanitizeOr sanitizes name, substituting fallback when nothing survives.
func SanitizeOr(name, fallback string) string {
	if s := Sanitize(name); s != "" {
		return s
	}
	return fallback
}

// Unique returns candidate if the predicate reports it free, otherwise the
// first of candidate_1, candidate_2, ... that is.
func Unique(candidate string, exists func(string) (bool, error)) (string, error) {
	taken, err := exists(candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	for i := 1; ; i++ {
		next := fmt.Sprintf("%s_%d", candidate, i)
		taken, err := exists(next)
		if err != nil {
			return "", err
		}
		if !taken {
			return next, nil
		}
	}
}

// SetName derives the backing set name for a display name.
func SetName(display string) string {
	return Prefix + SanitizeOr(display, "group")
}

// DisplayName recovers the display name from a backing set name. Names
// without the prefix are returned unchanged.
func DisplayName(setName string) string {
	return strings.TrimPrefix(setName, Prefix)
}

// IsExportSet reports whether setName is owned by the exporter.
func IsExportSet(setName string) bool {
	return strings.HasPrefix(setName, Prefix)
}

// StripComponent removes a component-range annotation from an object
// reference, e.g. "body.vtx[0:12]" -> "body". References without an
// annotation pass through unchanged.
func StripComponent(ref string) string {
	if i := strings.Index(ref, ".vtx["); i >= 0 {
		return ref[:i]
	}
	return ref
}
