// Package authz holds the membership and ownership predicates that
// gate project joins, image uploads, and deletions.
//
// The predicates are pure so that both the web handlers (for display
// decisions) and the db layer (for enforcement) evaluate the same
// rules.
package authz

import (
	"time"

	"adventshare/dbtypes"
)

// IsCreator reports whether userID created the project.
func IsCreator(userID string, project *dbtypes.Project) bool {
	return userID == project.CreatedBy
}

// IsMember reports whether userID appears in the project's member list.
func IsMember(userID string, project *dbtypes.Project) bool {
	for _, m := range project.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// CanJoin reports whether userID may join the project.  A user already
// in the member list cannot join again.
func CanJoin(userID string, project *dbtypes.Project) bool {
	return !IsMember(userID, project)
}

// CanUpload reports whether a day is open for uploads.  Past and
// present days accept images; future days are locked.  The comparison
// is by calendar date: today is uploadable, tomorrow is not.
func CanUpload(dayDate, now time.Time) bool {
	return !atMidnight(dayDate).After(atMidnight(now.In(dayDate.Location())))
}

// CanDeleteImage reports whether userID may delete the image.  Only the
// uploader may; there is no creator-level override.
func CanDeleteImage(userID string, image *dbtypes.Image) bool {
	return userID == image.UserID
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
