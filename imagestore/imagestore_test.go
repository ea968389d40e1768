package imagestore

import (
	"testing"
	"time"
)

func TestObjectPath(t *testing.T) {
	uploadedAt := time.UnixMilli(1764500000000)

	got := ObjectPath("proj123", 7, "uid42", "tree.jpg", uploadedAt)
	want := "projects/proj123/day-7/uid42__1764500000000_tree.jpg"
	if got != want {
		t.Errorf("ObjectPath = %q, want %q", got, want)
	}
}

func TestParseObjectPathRoundTrip(t *testing.T) {
	path := ObjectPath("proj123", 25, "uid42", "tree.jpg", time.UnixMilli(1764500000000))

	projectID, dayNumber, ok := ParseObjectPath(path)
	if !ok {
		t.Fatalf("ParseObjectPath(%q) not ok", path)
	}
	if projectID != "proj123" {
		t.Errorf("projectID = %q, want %q", projectID, "proj123")
	}
	if dayNumber != 25 {
		t.Errorf("dayNumber = %d, want %d", dayNumber, 25)
	}
}

func TestParseObjectPathRejectsForeignPaths(t *testing.T) {
	bad := []string{
		"",
		"projects/",
		"projects/p1",
		"projects/p1/file.jpg",
		"projects/p1/day-/file.jpg",
		"projects/p1/day-0/file.jpg",
		"projects/p1/day-x/file.jpg",
		"projects//day-1/file.jpg",
		"uploads/p1/day-1/file.jpg",
	}

	for _, path := range bad {
		if _, _, ok := ParseObjectPath(path); ok {
			t.Errorf("ParseObjectPath(%q) ok, want rejection", path)
		}
	}
}
