package capture

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandList_FileList(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "captures.txt")
	content := "57005_one.npz\n57005_two.npz\n57006_three.npz\n"
	if err := os.WriteFile(listPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write list file: %v", err)
	}

	paths, err := ExpandList([]string{listPath})
	if err != nil {
		t.Fatalf("ExpandList failed: %v", err)
	}

	want := []string{"57005_one.npz", "57005_two.npz", "57006_three.npz"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d paths, got %d", len(want), len(paths))
	}
	for i, w := range want {
		if paths[i] != w {
			t.Errorf("Path %d: expected '%s', got '%s'", i, w, paths[i])
		}
	}
}

func TestExpandList_Passthrough(t *testing.T) {
	args := []string{"57005_one.npz", "57005_two.npz"}

	paths, err := ExpandList(args)
	if err != nil {
		t.Fatalf("ExpandList failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != args[0] || paths[1] != args[1] {
		t.Errorf("Expected passthrough of %v, got %v", args, paths)
	}
}

func TestExpandList_MissingListFile(t *testing.T) {
	if _, err := ExpandList([]string{"no_such_list.txt"}); err == nil {
		t.Error("Expected error for missing list file")
	}
}

func TestDayIDFromPath(t *testing.T) {
	testCases := []struct {
		name    string
		path    string
		want    int64
		wantErr bool
	}{
		{"plain", "57005_capture.npz", 57005, false},
		{"with directory", "/data/captures/57123_tbw.npz", 57123, false},
		{"multiple underscores", "57005_tbw_001.npz", 57005, false},
		{"no underscore", "capture.npz", 0, true},
		{"non-numeric prefix", "tbw_57005.npz", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := DayIDFromPath(tc.path)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected a parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DayIDFromPath failed: %v", err)
			}
			if id != tc.want {
				t.Errorf("Expected day-id %d, got %d", tc.want, id)
			}
		})
	}
}
