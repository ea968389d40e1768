package authz

import (
	"testing"
	"time"

	"adventshare/dbtypes"
)

func TestIsCreator(t *testing.T) {
	project := &dbtypes.Project{CreatedBy: "alice", Members: []string{"alice", "bob"}}

	if !IsCreator("alice", project) {
		t.Errorf("IsCreator(alice) = false, want true")
	}
	if IsCreator("bob", project) {
		t.Errorf("IsCreator(bob) = true, want false")
	}
}

func TestCanJoin(t *testing.T) {
	project := &dbtypes.Project{CreatedBy: "alice", Members: []string{"alice", "bob"}}

	if CanJoin("bob", project) {
		t.Errorf("CanJoin(bob) = true, want false: bob is already a member")
	}
	if !CanJoin("carol", project) {
		t.Errorf("CanJoin(carol) = false, want true")
	}
}

func TestCanUpload(t *testing.T) {
	now := time.Date(2025, time.December, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dayDate time.Time
		want    bool
	}{
		{"yesterday", time.Date(2025, time.December, 19, 0, 0, 0, 0, time.UTC), true},
		{"today", time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC), true},
		{"today later hour", time.Date(2025, time.December, 20, 23, 0, 0, 0, time.UTC), true},
		{"tomorrow", time.Date(2025, time.December, 21, 0, 0, 0, 0, time.UTC), false},
		{"far future", time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range tests {
		if got := CanUpload(tc.dayDate, now); got != tc.want {
			t.Errorf("%s: CanUpload(%v, %v) = %v, want %v", tc.name, tc.dayDate, now, got, tc.want)
		}
	}
}

func TestCanDeleteImage(t *testing.T) {
	image := &dbtypes.Image{UserID: "alice"}

	if !CanDeleteImage("alice", image) {
		t.Errorf("CanDeleteImage(uploader) = false, want true")
	}
	if CanDeleteImage("bob", image) {
		t.Errorf("CanDeleteImage(other member) = true, want false")
	}

	// The project creator gets no override; only the uploader may
	// delete.
	if CanDeleteImage("creator", image) {
		t.Errorf("CanDeleteImage(project creator) = true, want false")
	}
}
