package scene

import (
	"errors"
	"path/filepath"
	"testing"
)

// storeUnderTest builds each backend fresh per subtest so the conformance
// checks below run against both implementations.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	switch name {
	case "memory":
		return NewMemoryStore()
	case "sqlite":
		s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "scene.db"))
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	default:
		t.Fatalf("unknown backend %q", name)
		return nil
	}
}

func TestStoreConformance(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			t.Run("create and list in creation order", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				for _, name := range []string{"batchExport_B", "batchExport_A", "other_C"} {
					if _, err := s.CreateSet(name); err != nil {
						t.Fatalf("CreateSet(%s): %v", name, err)
					}
				}

				sets, err := s.ListSets("batchExport_")
				if err != nil {
					t.Fatalf("ListSets: %v", err)
				}
				want := []string{"batchExport_B", "batchExport_A"}
				if len(sets) != len(want) {
					t.Fatalf("ListSets = %v, want %v", sets, want)
				}
				for i := range want {
					if sets[i] != want[i] {
						t.Errorf("ListSets[%d] = %s, want %s", i, sets[i], want[i])
					}
				}
			})

			t.Run("prefix match is literal", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				// The underscore must not act as a single-character wildcard.
				for _, name := range []string{"batchExport_A", "batchExportXfoo", "batchExporty"} {
					if _, err := s.CreateSet(name); err != nil {
						t.Fatalf("CreateSet(%s): %v", name, err)
					}
				}

				sets, err := s.ListSets("batchExport_")
				if err != nil {
					t.Fatalf("ListSets: %v", err)
				}
				if len(sets) != 1 || sets[0] != "batchExport_A" {
					t.Errorf("ListSets = %v, want [batchExport_A]", sets)
				}
			})

			t.Run("duplicate create fails", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				if _, err := s.CreateSet("batchExport_A"); err != nil {
					t.Fatalf("CreateSet: %v", err)
				}
				if _, err := s.CreateSet("batchExport_A"); !errors.Is(err, ErrExists) {
					t.Errorf("second CreateSet err = %v, want ErrExists", err)
				}
			})

			t.Run("rename keeps enumeration slot", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				for _, name := range []string{"batchExport_A", "batchExport_B", "batchExport_C"} {
					if _, err := s.CreateSet(name); err != nil {
						t.Fatalf("CreateSet: %v", err)
					}
				}
				if _, err := s.RenameSet("batchExport_B", "batchExport_Z"); err != nil {
					t.Fatalf("RenameSet: %v", err)
				}

				sets, err := s.ListSets("batchExport_")
				if err != nil {
					t.Fatalf("ListSets: %v", err)
				}
				if sets[1] != "batchExport_Z" {
					t.Errorf("renamed set at index %d, want index 1 (%v)", indexOf(sets, "batchExport_Z"), sets)
				}
			})

			t.Run("members keep insertion order and dedupe on stripped form", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				if _, err := s.CreateSet("batchExport_A"); err != nil {
					t.Fatalf("CreateSet: %v", err)
				}
				if err := s.AddMembers("batchExport_A", []string{"cube1", "cube2.vtx[0:4]"}); err != nil {
					t.Fatalf("AddMembers: %v", err)
				}
				// Same object under its stripped name: no new member.
				if err := s.AddMembers("batchExport_A", []string{"cube2"}); err != nil {
					t.Fatalf("AddMembers: %v", err)
				}

				members, err := s.SetMembers("batchExport_A")
				if err != nil {
					t.Fatalf("SetMembers: %v", err)
				}
				if len(members) != 2 || members[0] != "cube1" || members[1] != "cube2.vtx[0:4]" {
					t.Errorf("SetMembers = %v", members)
				}

				// Removal matches the stripped form too.
				if err := s.RemoveMembers("batchExport_A", []string{"cube2"}); err != nil {
					t.Fatalf("RemoveMembers: %v", err)
				}
				members, err = s.SetMembers("batchExport_A")
				if err != nil {
					t.Fatalf("SetMembers: %v", err)
				}
				if len(members) != 1 || members[0] != "cube1" {
					t.Errorf("after removal SetMembers = %v", members)
				}
			})

			t.Run("missing set operations fail with ErrNotFound", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				if err := s.DeleteSet("batchExport_missing"); !errors.Is(err, ErrNotFound) {
					t.Errorf("DeleteSet err = %v, want ErrNotFound", err)
				}
				if _, err := s.SetMembers("batchExport_missing"); !errors.Is(err, ErrNotFound) {
					t.Errorf("SetMembers err = %v, want ErrNotFound", err)
				}
				if err := s.AddMembers("batchExport_missing", []string{"cube1"}); !errors.Is(err, ErrNotFound) {
					t.Errorf("AddMembers err = %v, want ErrNotFound", err)
				}
			})

			t.Run("selection round trip", func(t *testing.T) {
				s := storeUnderTest(t, backend)
				if err := s.SetSelection([]string{"a", "b"}); err != nil {
					t.Fatalf("SetSelection: %v", err)
				}
				sel, err := s.Selection()
				if err != nil {
					t.Fatalf("Selection: %v", err)
				}
				if len(sel) != 2 || sel[0] != "a" || sel[1] != "b" {
					t.Errorf("Selection = %v", sel)
				}
				if err := s.ClearSelection(); err != nil {
					t.Fatalf("ClearSelection: %v", err)
				}
				sel, err = s.Selection()
				if err != nil {
					t.Fatalf("Selection: %v", err)
				}
				if len(sel) != 0 {
					t.Errorf("Selection after clear = %v", sel)
				}
			})
		})
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
