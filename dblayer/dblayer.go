// Package dblayer packages up most actual firestore accesses, plus the
// multi-step writes that span firestore and the image blob bucket.
package dblayer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"adventshare/authz"
	"adventshare/dbtypes"
	"adventshare/imagestore"
	"adventshare/schedule"

	"cloud.google.com/go/firestore"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type DB struct {
	firestoreClient     *firestore.Client
	images              *imagestore.Store
	googleOAuthClientID string
}

func New(firestoreClient *firestore.Client, images *imagestore.Store, googleOAuthClientID string) *DB {
	return &DB{
		firestoreClient:     firestoreClient,
		images:              images,
		googleOAuthClientID: googleOAuthClientID,
	}
}

var (
	ErrEmailMustNotBeEmpty        = errors.New("email must not be empty")
	ErrPasswordMustNotBeEmpty     = errors.New("password must not be empty")
	ErrUnknownUserOrWrongPassword = errors.New("unknown user or wrong password")
	ErrProjectNotFound            = errors.New("no project with that id")
	ErrDayNotFound                = errors.New("no day with that number")
	ErrImageNotFound              = errors.New("no image with that id")
	ErrAlreadyMember              = errors.New("already a member of this project")
	ErrNotAMember                 = errors.New("not a member of this project")
	ErrDayLocked                  = errors.New("this day has not arrived yet")
	ErrNotImageOwner              = errors.New("only the uploader may delete an image")
	ErrNotProjectCreator          = errors.New("only the creator may delete a project")
)

// SessionFromPassword runs the password-based login process for a given
// user, returning a session or an error.
func (db *DB) SessionFromPassword(ctx context.Context, email, password string) (*dbtypes.Session, error) {
	if email == "" {
		return nil, ErrEmailMustNotBeEmpty
	}

	if password == "" {
		return nil, ErrPasswordMustNotBeEmpty
	}

	var userSnapshot *firestore.DocumentSnapshot
	userIter := db.firestoreClient.Collection("users").Where("email", "==", email).Documents(ctx)
	defer userIter.Stop()
	for {
		var err error
		userSnapshot, err = userIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while looking up user with email %q: %w", email, err)
		}

		// We only consider a single user.
		break
	}

	if userSnapshot == nil {
		return nil, ErrUnknownUserOrWrongPassword
	}

	user := &dbtypes.User{}
	if err := userSnapshot.DataTo(user); err != nil {
		return nil, fmt.Errorf("while unmarshaling user %q: %w", email, err)
	}

	if user.PasswordHash == "" {
		// Federated-only user; they have no password to check.
		return nil, ErrUnknownUserOrWrongPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnknownUserOrWrongPassword
	}

	return db.newSession(ctx, userSnapshot.Ref)
}

// SessionFromGoogleFederation signs in a user based on a Google
// identity token returned from the "Sign in with Google" process.  The
// user document is created on first sign-in and refreshed from the
// provider's claims on every subsequent one.
func (db *DB) SessionFromGoogleFederation(ctx context.Context, idToken string) (*dbtypes.Session, error) {
	payload, err := idtoken.Validate(ctx, idToken, db.googleOAuthClientID)
	if err != nil {
		return nil, fmt.Errorf("while validating ID token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	displayName, _ := payload.Claims["name"].(string)
	photoURL, _ := payload.Claims["picture"].(string)

	user, err := db.CreateOrUpdateUser(ctx, payload.Subject, email, displayName, photoURL)
	if err != nil {
		return nil, fmt.Errorf("while merging signed-in user: %w", err)
	}

	return db.newSession(ctx, db.firestoreClient.Collection("users").Doc(user.UID))
}

func (db *DB) newSession(ctx context.Context, userRef *firestore.DocumentRef) (*dbtypes.Session, error) {
	sessionCookieBytes := make([]byte, 32)
	if _, err := rand.Read(sessionCookieBytes); err != nil {
		return nil, fmt.Errorf("while generating session cookie: %w", err)
	}

	sessionCookie := base64.StdEncoding.EncodeToString(sessionCookieBytes)

	expires := time.Now().Add(18 * time.Hour)

	session := &dbtypes.Session{
		Cookie:  sessionCookie,
		User:    userRef,
		Expires: expires,
	}
	if _, _, err := db.firestoreClient.Collection("sessions").Add(ctx, session); err != nil {
		return nil, fmt.Errorf("while storing session cookie: %w", err)
	}

	return session, nil
}

// DeleteSession deletes a session by its cookie.
func (db *DB) DeleteSession(ctx context.Context, cookie string) error {
	sessionIter := db.firestoreClient.Collection("sessions").Where("cookie", "==", cookie).Documents(ctx)
	defer sessionIter.Stop()
	for {
		sessionSnapshot, err := sessionIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while looking up session: %w", err)
		}

		_, err = sessionSnapshot.Ref.Delete(ctx, firestore.LastUpdateTime(sessionSnapshot.UpdateTime))
		if err != nil {
			return fmt.Errorf("while deleting session: %w", err)
		}
	}

	return nil
}

// UserFromSessionCookie looks up a session from its cookie, and then
// returns the corresponding user.  A missing or expired session is not
// an error; it just means nobody is logged in.
func (db *DB) UserFromSessionCookie(ctx context.Context, cookie string) (*dbtypes.User, error) {
	var sessionSnapshot *firestore.DocumentSnapshot
	sessionIter := db.firestoreClient.Collection("sessions").Where("cookie", "==", cookie).Documents(ctx)
	defer sessionIter.Stop()
	for {
		var err error
		sessionSnapshot, err = sessionIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while looking up session: %w", err)
		}

		// We only consider a single session.
		break
	}
	if sessionSnapshot == nil {
		// Session object must have been cleaned up due to expiration; user is not logged in.
		slog.InfoContext(ctx, "No logged-in user because there was no session object corresponding to the cookie in the database.")
		return nil, nil
	}

	session := &dbtypes.Session{}
	if err := sessionSnapshot.DataTo(session); err != nil {
		return nil, fmt.Errorf("while unmarshaling session: %w", err)
	}

	if session.Expires.Before(time.Now()) {
		// Session object is expired; user is not logged in.
		slog.InfoContext(ctx, "No logged-in user because the session object in the database was expired.")
		return nil, nil
	}

	userSnapshot, err := session.User.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("while getting user linked from session: %w", err)
	}

	user := &dbtypes.User{}
	if err := userSnapshot.DataTo(user); err != nil {
		return nil, fmt.Errorf("while unmarshaling user: %w", err)
	}

	return user, nil
}

// CreateOrUpdateUser merges identity-provider fields into the user
// document keyed by uid, creating it on first sign-in.
func (db *DB) CreateOrUpdateUser(ctx context.Context, uid, email, displayName, photoURL string) (*dbtypes.User, error) {
	userRef := db.firestoreClient.Collection("users").Doc(uid)

	snap, err := userRef.Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, fmt.Errorf("while reading user %s: %w", uid, err)
	}

	if err != nil || !snap.Exists() {
		user := &dbtypes.User{
			UID:         uid,
			Email:       email,
			DisplayName: fallbackDisplayName(displayName, email),
			PhotoURL:    photoURL,
		}
		if _, err := userRef.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("while creating user %s: %w", uid, err)
		}
		return user, nil
	}

	user := &dbtypes.User{}
	if err := snap.DataTo(user); err != nil {
		return nil, fmt.Errorf("while unmarshaling user %s: %w", uid, err)
	}

	// Refresh from the provider, but never blank out a field the
	// provider stopped sending.
	if email != "" {
		user.Email = email
	}
	if displayName != "" {
		user.DisplayName = displayName
	}
	if photoURL != "" {
		user.PhotoURL = photoURL
	}

	_, err = userRef.Update(ctx, []firestore.Update{
		{Path: "email", Value: user.Email},
		{Path: "displayName", Value: user.DisplayName},
		{Path: "photoURL", Value: user.PhotoURL},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return nil, fmt.Errorf("while updating user %s: %w", uid, err)
	}

	return user, nil
}

func fallbackDisplayName(displayName, email string) string {
	if displayName != "" {
		return displayName
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "Anonymous"
}

// GetProject loads a project by id.
func (db *DB) GetProject(ctx context.Context, projectID string) (*dbtypes.Project, error) {
	snap, err := db.firestoreClient.Collection("projects").Doc(projectID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("while retrieving project %s: %w", projectID, err)
	}

	project := &dbtypes.Project{}
	if err := snap.DataTo(project); err != nil {
		return nil, fmt.Errorf("while unmarshaling project %s: %w", projectID, err)
	}
	project.ID = snap.Ref.ID

	return project, nil
}

// ProjectsForUser lists the projects the user is a member of, newest
// first.
func (db *DB) ProjectsForUser(ctx context.Context, userID string) ([]*dbtypes.Project, error) {
	var projects []*dbtypes.Project

	projectsIter := db.firestoreClient.Collection("projects").
		Where("members", "array-contains", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer projectsIter.Stop()
	for {
		snap, err := projectsIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while iterating projects for user %s: %w", userID, err)
		}

		project := &dbtypes.Project{}
		if err := snap.DataTo(project); err != nil {
			return nil, fmt.Errorf("while unmarshaling project %s: %w", snap.Ref.ID, err)
		}
		project.ID = snap.Ref.ID
		projects = append(projects, project)
	}

	return projects, nil
}

// CreateProject creates the project document and its full day schedule.
//
// The per-day writes are issued concurrently and awaited as a batch.
// If any of them fails, the documents written so far are unwound so a
// half-generated schedule never becomes visible.
func (db *DB) CreateProject(ctx context.Context, title, creatorID string, start time.Time, totalDays int, customThemes []string) (string, error) {
	days, err := schedule.Generate(start, totalDays, customThemes)
	if err != nil {
		return "", fmt.Errorf("while generating schedule: %w", err)
	}

	projectRef := db.firestoreClient.Collection("projects").NewDoc()
	project := &dbtypes.Project{
		Title:         title,
		CreatedBy:     creatorID,
		Members:       []string{creatorID},
		StartDate:     start,
		EndDate:       schedule.EndFromStart(start, totalDays),
		TotalDays:     int64(totalDays),
		IsCustomTheme: customThemes != nil,
	}
	if _, err := projectRef.Create(ctx, project); err != nil {
		return "", fmt.Errorf("while creating project: %w", err)
	}

	daysCollection := projectRef.Collection("days")

	g, gctx := errgroup.WithContext(ctx)
	for _, day := range days {
		dayRef := daysCollection.Doc(schedule.DayID(day.DayNumber, totalDays))
		doc := &dbtypes.Day{
			DayNumber:  int64(day.DayNumber),
			Date:       day.Date,
			Theme:      day.Theme,
			ThemeIndex: int64(day.ThemeIndex),
			IsOpened:   false,
		}
		g.Go(func() error {
			if _, err := dayRef.Create(gctx, doc); err != nil {
				return fmt.Errorf("while creating day %s: %w", dayRef.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		db.unwindProject(ctx, projectRef, totalDays)
		return "", fmt.Errorf("while creating day schedule: %w", err)
	}

	return projectRef.ID, nil
}

// unwindProject removes the day documents and the project document
// after a failed schedule batch.  Compensation failures are logged and
// left to the sweeper.
func (db *DB) unwindProject(ctx context.Context, projectRef *firestore.DocumentRef, totalDays int) {
	daysCollection := projectRef.Collection("days")
	for n := 1; n <= totalDays; n++ {
		dayRef := daysCollection.Doc(schedule.DayID(n, totalDays))
		if _, err := dayRef.Delete(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to unwind day document", slog.String("day", dayRef.ID), slog.Any("err", err))
		}
	}
	if _, err := projectRef.Delete(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to unwind project document", slog.String("project", projectRef.ID), slog.Any("err", err))
	}
}

// AddMember adds the user to the project's member list.  The membership
// check and the append run in one transaction, so joining twice cannot
// duplicate the entry.
func (db *DB) AddMember(ctx context.Context, projectID, userID string) error {
	projectRef := db.firestoreClient.Collection("projects").Doc(projectID)

	err := db.firestoreClient.RunTransaction(ctx, func(ctx context.Context, txn *firestore.Transaction) error {
		snap, err := txn.Get(projectRef)
		if status.Code(err) == codes.NotFound {
			return ErrProjectNotFound
		}
		if err != nil {
			return fmt.Errorf("while reading project: %w", err)
		}

		project := &dbtypes.Project{}
		if err := snap.DataTo(project); err != nil {
			return fmt.Errorf("while unmarshaling project: %w", err)
		}

		if !authz.CanJoin(userID, project) {
			return ErrAlreadyMember
		}

		return txn.Update(projectRef, []firestore.Update{
			{Path: "members", Value: append(project.Members, userID)},
		})
	})
	if errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrAlreadyMember) {
		return err
	}
	if err != nil {
		return fmt.Errorf("while adding member to project %s: %w", projectID, err)
	}

	return nil
}

// DeleteProject deletes a project and cascades over its days, image
// documents, and image blobs.  Only the creator may delete.  Blob
// deletion failures are logged and left to the sweeper rather than
// aborting the cascade.
func (db *DB) DeleteProject(ctx context.Context, projectID, userID string) error {
	project, err := db.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !authz.IsCreator(userID, project) {
		return ErrNotProjectCreator
	}

	projectRef := db.firestoreClient.Collection("projects").Doc(projectID)

	imagesIter := projectRef.Collection("images").Documents(ctx)
	defer imagesIter.Stop()
	for {
		snap, err := imagesIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while iterating images of project %s: %w", projectID, err)
		}

		image := &dbtypes.Image{}
		if err := snap.DataTo(image); err != nil {
			return fmt.Errorf("while unmarshaling image %s: %w", snap.Ref.ID, err)
		}

		if image.StoragePath != "" {
			if err := db.images.Delete(ctx, image.StoragePath); err != nil {
				slog.ErrorContext(ctx, "Failed to delete image blob; the sweeper will collect it", slog.String("path", image.StoragePath), slog.Any("err", err))
			}
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("while deleting image document %s: %w", snap.Ref.ID, err)
		}
	}

	daysIter := projectRef.Collection("days").Documents(ctx)
	defer daysIter.Stop()
	for {
		snap, err := daysIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while iterating days of project %s: %w", projectID, err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("while deleting day document %s: %w", snap.Ref.ID, err)
		}
	}

	if _, err := projectRef.Delete(ctx); err != nil {
		return fmt.Errorf("while deleting project %s: %w", projectID, err)
	}

	return nil
}

// Days lists a project's day schedule in sequence order.
func (db *DB) Days(ctx context.Context, projectID string) ([]*dbtypes.Day, error) {
	var days []*dbtypes.Day

	daysIter := db.firestoreClient.Collection("projects").Doc(projectID).Collection("days").
		OrderBy("dayNumber", firestore.Asc).
		Documents(ctx)
	defer daysIter.Stop()
	for {
		snap, err := daysIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while iterating days of project %s: %w", projectID, err)
		}

		day := &dbtypes.Day{}
		if err := snap.DataTo(day); err != nil {
			return nil, fmt.Errorf("while unmarshaling day %s: %w", snap.Ref.ID, err)
		}
		day.ID = snap.Ref.ID
		days = append(days, day)
	}

	return days, nil
}

// GetDay loads a single day by sequence number.
func (db *DB) GetDay(ctx context.Context, projectID string, dayNumber, totalDays int) (*dbtypes.Day, error) {
	dayID := schedule.DayID(dayNumber, totalDays)

	snap, err := db.firestoreClient.Collection("projects").Doc(projectID).Collection("days").Doc(dayID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("while retrieving day %s of project %s: %w", dayID, projectID, err)
	}

	day := &dbtypes.Day{}
	if err := snap.DataTo(day); err != nil {
		return nil, fmt.Errorf("while unmarshaling day %s: %w", dayID, err)
	}
	day.ID = snap.Ref.ID

	return day, nil
}

// DayImages lists the images uploaded for one day, ordered by uploader.
func (db *DB) DayImages(ctx context.Context, projectID string, dayNumber int) ([]*dbtypes.Image, error) {
	var images []*dbtypes.Image

	imagesIter := db.firestoreClient.Collection("projects").Doc(projectID).Collection("images").
		Where("dayNumber", "==", int64(dayNumber)).
		OrderBy("userId", firestore.Asc).
		Documents(ctx)
	defer imagesIter.Stop()
	for {
		snap, err := imagesIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while iterating images of project %s day %d: %w", projectID, dayNumber, err)
		}

		image := &dbtypes.Image{}
		if err := snap.DataTo(image); err != nil {
			return nil, fmt.Errorf("while unmarshaling image %s: %w", snap.Ref.ID, err)
		}
		image.ID = snap.Ref.ID
		images = append(images, image)
	}

	return images, nil
}

// GetImage loads a single image document.
func (db *DB) GetImage(ctx context.Context, projectID, imageID string) (*dbtypes.Image, error) {
	snap, err := db.firestoreClient.Collection("projects").Doc(projectID).Collection("images").Doc(imageID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("while retrieving image %s of project %s: %w", imageID, projectID, err)
	}

	image := &dbtypes.Image{}
	if err := snap.DataTo(image); err != nil {
		return nil, fmt.Errorf("while unmarshaling image %s: %w", imageID, err)
	}
	image.ID = snap.Ref.ID

	return image, nil
}

// UploadImage stores an image blob and then its metadata document.
// The day must have arrived and the uploader must be a member.  If the
// metadata write fails, the blob is taken back out so the failed upload
// leaves nothing behind.
func (db *DB) UploadImage(ctx context.Context, project *dbtypes.Project, day *dbtypes.Day, uploader *dbtypes.User, filename, contentType string, content io.Reader) (*dbtypes.Image, error) {
	if !authz.IsMember(uploader.UID, project) {
		return nil, ErrNotAMember
	}
	if !authz.CanUpload(day.Date, time.Now()) {
		return nil, ErrDayLocked
	}

	objectPath := imagestore.ObjectPath(project.ID, int(day.DayNumber), uploader.UID, filename, time.Now())
	if err := db.images.Upload(ctx, objectPath, contentType, content); err != nil {
		return nil, fmt.Errorf("while uploading image blob: %w", err)
	}

	image := &dbtypes.Image{
		ProjectID:   project.ID,
		DayNumber:   day.DayNumber,
		UserID:      uploader.UID,
		UserName:    uploader.DisplayName,
		ImageURL:    db.images.URL(objectPath),
		StoragePath: objectPath,
	}
	ref, _, err := db.firestoreClient.Collection("projects").Doc(project.ID).Collection("images").Add(ctx, image)
	if err != nil {
		if derr := db.images.Delete(ctx, objectPath); derr != nil {
			slog.ErrorContext(ctx, "Failed to unwind image blob; the sweeper will collect it", slog.String("path", objectPath), slog.Any("err", derr))
		}
		return nil, fmt.Errorf("while storing image metadata: %w", err)
	}
	image.ID = ref.ID

	return image, nil
}

// DeleteImage removes an image blob and its metadata document.  Only
// the uploader may delete.
func (db *DB) DeleteImage(ctx context.Context, projectID, imageID, userID string) error {
	image, err := db.GetImage(ctx, projectID, imageID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteImage(userID, image) {
		return ErrNotImageOwner
	}

	if image.StoragePath != "" {
		if err := db.images.Delete(ctx, image.StoragePath); err != nil {
			return fmt.Errorf("while deleting image blob: %w", err)
		}
	}

	if _, err := db.firestoreClient.Collection("projects").Doc(projectID).Collection("images").Doc(imageID).Delete(ctx); err != nil {
		return fmt.Errorf("while deleting image metadata: %w", err)
	}

	return nil
}
