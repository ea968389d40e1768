// Package dbtypes holds the Firestore document types shared between the
// web UI, the db layer, and the sweeper.
//
// The field names in the firestore tags are the persisted schema;
// external consumers depend on them, so they must not be renamed.
package dbtypes

import (
	"time"

	"cloud.google.com/go/firestore"
)

// User represents a person registered and interacting with the
// application.  User documents are keyed by the user's uid and are
// created or merged lazily on first sign-in.
type User struct {
	UID         string `firestore:"uid"`
	Email       string `firestore:"email"`
	DisplayName string `firestore:"displayName"`
	PhotoURL    string `firestore:"photoURL"`

	// PasswordHash is only set for password-login users.  Federated
	// users carry an empty hash and can only sign in through their
	// identity provider.
	PasswordHash string `firestore:"passwordHash"`

	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

// Session represents a log-in session for a User.
type Session struct {
	Cookie  string                 `firestore:"cookie"`
	User    *firestore.DocumentRef `firestore:"user"`
	Expires time.Time              `firestore:"expires"`
}

// Project is a themed, dated photo-sharing calendar shared by a set of
// members.
//
// Invariant: EndDate == StartDate + (TotalDays - 1) days.  Members
// always contains CreatedBy, entries are unique, and the set only
// grows; there is no leave-project operation.
type Project struct {
	// ID is the document id; populated from the document ref when
	// loading, never stored in the document body.
	ID string `firestore:"-"`

	Title         string    `firestore:"title"`
	CreatedBy     string    `firestore:"createdBy"`
	Members       []string  `firestore:"members"`
	StartDate     time.Time `firestore:"startDate"`
	EndDate       time.Time `firestore:"endDate"`
	TotalDays     int64     `firestore:"totalDays"`
	IsCustomTheme bool      `firestore:"isCustomTheme"`
	CreatedAt     time.Time `firestore:"createdAt,serverTimestamp"`
}

// Day is one numbered slot in a project's schedule.  Day documents live
// in the project's "days" subcollection, keyed by a deterministic
// zero-padded id ("day01".."day25" for a 25-day project).  They are
// generated once at project creation and are immutable afterwards.
type Day struct {
	ID string `firestore:"-"`

	DayNumber  int64     `firestore:"dayNumber"`
	Date       time.Time `firestore:"date"`
	Theme      string    `firestore:"theme"`
	ThemeIndex int64     `firestore:"themeIndex"`

	// IsOpened is written at generation time but no read path consumes
	// it.  Kept for schema compatibility.
	IsOpened bool `firestore:"isOpened"`
}

// Image is one uploaded photo attached to a (project, day, uploader).
// Image documents live in the project's "images" subcollection with
// repository-generated ids.  Nothing constrains a member to a single
// image per day; concurrent uploads simply coexist.
type Image struct {
	ID string `firestore:"-"`

	ProjectID   string    `firestore:"projectId"`
	DayNumber   int64     `firestore:"dayNumber"`
	UserID      string    `firestore:"userId"`
	UserName    string    `firestore:"userName"`
	ImageURL    string    `firestore:"imageUrl"`
	StoragePath string    `firestore:"storagePath"`
	UploadedAt  time.Time `firestore:"uploadedAt,serverTimestamp"`
}
