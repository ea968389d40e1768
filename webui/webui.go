// Package webui serves the user-facing pages: login, project list,
// project calendar, creation, invitation, and the upload/delete
// actions.
package webui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"text/template"
	"time"

	"adventshare/authz"
	"adventshare/dblayer"
	"adventshare/dbtypes"
	"adventshare/schedule"
	"adventshare/webui/uitemplates"

	"github.com/golang/glog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sessionCookieName = "AdventShare-Session"

// The creation form fixes every project at 25 days.
const projectTotalDays = 25

type WebUI struct {
	db *dblayer.DB

	// sendgridClient may be nil, which disables the emailed-invite
	// form.
	sendgridClient *sendgrid.Client

	// externalBase is the absolute URL prefix placed in front of links
	// that leave the site, e.g. "https://adventshare.dev".
	externalBase string

	googleOAuthClientID string
}

func New(db *dblayer.DB, sendgridClient *sendgrid.Client, externalBase, googleOAuthClientID string) *WebUI {
	return &WebUI{
		db:                  db,
		sendgridClient:      sendgridClient,
		externalBase:        externalBase,
		googleOAuthClientID: googleOAuthClientID,
	}
}

func (u *WebUI) Register(m *http.ServeMux) {
	m.HandleFunc("/", u.homeHandler)
	m.HandleFunc("/log-in", u.logInHandler)
	m.HandleFunc("/log-in-google", u.logInGoogleHandler)
	m.HandleFunc("/log-out", u.logOutHandler)
	m.HandleFunc("/projects/", u.projectsHandler)
	m.HandleFunc("/create-project", u.createProjectHandler)
	m.HandleFunc("/join/", u.joinHandler)
	m.HandleFunc("/upload-image", u.uploadImageHandler)
	m.HandleFunc("/delete-image", u.deleteImageHandler)
	m.HandleFunc("/delete-project", u.deleteProjectHandler)
	m.HandleFunc("/invite", u.inviteHandler)
}

// getLoggedInUser loads the user associated with the session cookie in
// the request, if it exists.
func (u *WebUI) getLoggedInUser(ctx context.Context, r *http.Request) (*dbtypes.User, error) {
	var sessionCookie *http.Cookie
	for _, cookie := range r.Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil {
		// No session cookie; user is not logged in.
		glog.Infof("No logged-in user because there was no session cookie.")
		return nil, nil
	}

	return u.db.UserFromSessionCookie(ctx, sessionCookie.Value)
}

// writePage sends a rendered page, converting render errors into 500s.
func (u *WebUI) writePage(w http.ResponseWriter, page []byte, err error) {
	if err != nil {
		glog.Errorf("Error while rendering page: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(page); err != nil {
		// It's too late to write an error to the HTTP response.
		glog.Errorf("Error while writing output: %v", err)
	}
}

// errorPage renders the recovery page used for not-found and transient
// backend failures.
func (u *WebUI) errorPage(w http.ResponseWriter, status int, message, backLink, backLabel string) {
	page, err := uitemplates.ErrorPage(&uitemplates.ErrorPageParams{
		Message:   message,
		BackLink:  backLink,
		BackLabel: backLabel,
	})
	if err != nil {
		glog.Errorf("Error while rendering error page: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	u.writePage(w, page, nil)
}

// userMessage maps the db layer's authorization sentinels to the short
// human-readable messages shown to the user.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, dblayer.ErrAlreadyMember):
		return "You are already a member of this project.", true
	case errors.Is(err, dblayer.ErrNotAMember):
		return "Only members can upload to this project.", true
	case errors.Is(err, dblayer.ErrDayLocked):
		return "This day has not arrived yet.", true
	case errors.Is(err, dblayer.ErrNotImageOwner):
		return "Only the uploader can delete an image.", true
	case errors.Is(err, dblayer.ErrNotProjectCreator):
		return "Only the creator can delete a project.", true
	}
	return "", false
}

func ShowProjectLink(id string) string {
	return "/projects/" + url.PathEscape(id)
}

func JoinLink(id string) string {
	return "/join/" + url.PathEscape(id)
}

func InviteLink(projectID string) string {
	q := url.Values{}
	q.Add("project-id", projectID)
	inviteLink := &url.URL{
		Path:     "/invite",
		RawQuery: q.Encode(),
	}
	return inviteLink.String()
}

func showProjectUserErrorLink(projectID, userError string) string {
	q := url.Values{}
	q.Add("user-error", userError)
	link := &url.URL{
		Path:     ShowProjectLink(projectID),
		RawQuery: q.Encode(),
	}
	return link.String()
}

func dateRange(start, end time.Time) string {
	return start.Format("2006-01-02") + " - " + end.Format("2006-01-02")
}

func (u *WebUI) setSessionCookie(w http.ResponseWriter, session *dbtypes.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Cookie,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Expires:  session.Expires,
	})
}

// homeHandler renders the home page.
func (u *WebUI) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	params := &uitemplates.HomeParams{}

	user, err := u.getLoggedInUser(r.Context(), r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	if user != nil {
		params.ActiveUser = uitemplates.ActiveUserParams{
			LoggedIn:    true,
			DisplayName: user.DisplayName,
		}
	}

	page, err := uitemplates.HomePage(params)
	u.writePage(w, page, err)
}

// logInHandler renders the login page and processes password logins.
func (u *WebUI) logInHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/log-in" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user != nil {
		// User is already logged in.  Send them to their projects.
		http.Redirect(w, r, "/projects/", http.StatusFound)
		return
	}

	params := &uitemplates.LogInParams{
		GoogleOAuthClientID: u.googleOAuthClientID,
	}

	if r.Method == http.MethodPost {
		// The user is submitting a login form.

		if err := r.ParseForm(); err != nil {
			glog.Errorf("Error while parsing form: %v", err)
			http.Error(w, "Internal Error", http.StatusInternalServerError)
			return
		}

		session, err := u.db.SessionFromPassword(ctx, r.PostForm.Get("email"), r.PostForm.Get("password"))
		switch {
		case errors.Is(err, dblayer.ErrEmailMustNotBeEmpty):
			params.UserError = "Email must not be empty"
		case errors.Is(err, dblayer.ErrPasswordMustNotBeEmpty):
			params.UserError = "Password must not be empty"
		case errors.Is(err, dblayer.ErrUnknownUserOrWrongPassword):
			params.UserError = "Unknown user or wrong password"
		case err != nil:
			glog.Errorf("Error while processing log in form: %v", err)
			http.Error(w, "Internal Error", http.StatusInternalServerError)
			return
		default:
			// User successfully logged in.
			u.setSessionCookie(w, session)
			http.Redirect(w, r, "/projects/", http.StatusFound)
			return
		}
	}

	page, err := uitemplates.LogInPage(params)
	u.writePage(w, page, err)
}

// logInGoogleHandler receives the credential posted by the "Sign in
// with Google" button.
func (u *WebUI) logInGoogleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	credential := r.PostForm.Get("credential")
	if credential == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	session, err := u.db.SessionFromGoogleFederation(r.Context(), credential)
	if err != nil {
		glog.Errorf("Error while processing Google sign-in: %v", err)
		params := &uitemplates.LogInParams{
			UserError:           "Google sign-in failed.  Please try again.",
			GoogleOAuthClientID: u.googleOAuthClientID,
		}
		page, perr := uitemplates.LogInPage(params)
		u.writePage(w, page, perr)
		return
	}

	u.setSessionCookie(w, session)
	http.Redirect(w, r, "/projects/", http.StatusFound)
}

// logOutHandler renders the logout confirmation and tears the session
// down.
func (u *WebUI) logOutHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/log-out" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if r.Method == http.MethodPost {
		for _, cookie := range r.Cookies() {
			if cookie.Name != sessionCookieName {
				continue
			}
			if err := u.db.DeleteSession(r.Context(), cookie.Value); err != nil {
				glog.Errorf("Error while deleting session: %v", err)
				http.Error(w, "Internal Error", http.StatusInternalServerError)
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:   sessionCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	page, err := uitemplates.LogOutPage(&uitemplates.LogOutParams{})
	u.writePage(w, page, err)
}

// projectsHandler dispatches /projects/ to the list page and
// /projects/{id} to the calendar page.
func (u *WebUI) projectsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/projects/" {
		u.listProjectsHandler(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/projects/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	u.showProjectHandler(w, r, id)
}

// listProjectsHandler renders the project list for the logged-in user.
func (u *WebUI) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		// User is not logged in.  Send them to log in.
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	projects, err := u.db.ProjectsForUser(ctx, user.UID)
	if err != nil {
		glog.Errorf("Error while listing projects for user %q: %v", user.UID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load your projects.  Please try again.", "/", "Home")
		return
	}

	params := &uitemplates.ListProjectsParams{}
	now := time.Now()
	for _, project := range projects {
		params.Projects = append(params.Projects, uitemplates.ListProjectsProject{
			Title:           project.Title,
			DateRange:       dateRange(project.StartDate, project.EndDate),
			CountdownLabel:  schedule.CountdownLabel(project.EndDate, now),
			MemberCount:     len(project.Members),
			ShowProjectLink: ShowProjectLink(project.ID),
		})
	}

	page, err := uitemplates.ListProjectsPage(params)
	u.writePage(w, page, err)
}

// showProjectHandler renders the calendar grid for one project.
func (u *WebUI) showProjectHandler(w http.ResponseWriter, r *http.Request, projectID string) {
	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	project, err := u.db.GetProject(ctx, projectID)
	if errors.Is(err, dblayer.ErrProjectNotFound) {
		u.errorPage(w, http.StatusNotFound, "No project with that id.", "/projects/", "Back to My Projects")
		return
	}
	if err != nil {
		glog.Errorf("Error while retrieving project %q: %v", projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load the project.  Please try again.", "/projects/", "Back to My Projects")
		return
	}

	if !authz.IsMember(user.UID, project) {
		// Not a member; the invitation page is the way in.
		http.Redirect(w, r, JoinLink(projectID), http.StatusFound)
		return
	}

	days, err := u.db.Days(ctx, projectID)
	if err != nil {
		glog.Errorf("Error while loading days of project %q: %v", projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load the project schedule.  Please try again.", "/projects/", "Back to My Projects")
		return
	}

	now := time.Now()
	params := &uitemplates.ShowProjectParams{
		Title:          project.Title,
		DateRange:      dateRange(project.StartDate, project.EndDate),
		CountdownLabel: schedule.CountdownLabel(project.EndDate, now),
		MemberCount:    len(project.Members),
		SelfLink:       ShowProjectLink(project.ID),
		IsCreator:      authz.IsCreator(user.UID, project),
		InviteLink:     InviteLink(project.ID),
		ProjectID:      project.ID,
		UserError:      r.URL.Query().Get("user-error"),
	}

	for _, day := range days {
		images, err := u.db.DayImages(ctx, projectID, int(day.DayNumber))
		if err != nil {
			glog.Errorf("Error while loading images of project %q day %d: %v", projectID, day.DayNumber, err)
			u.errorPage(w, http.StatusInternalServerError, "Could not load the project's images.  Please try again.", "/projects/", "Back to My Projects")
			return
		}

		uiDay := &uitemplates.ShowProjectDay{
			DayNumber: day.DayNumber,
			Label:     schedule.DayLabel(int(day.DayNumber), int(project.TotalDays)),
			Date:      day.Date.Format("Jan 2"),
			Theme:     day.Theme,
			IsToday:   sameDate(day.Date, now),
			IsFuture:  !authz.CanUpload(day.Date, now),
			CanUpload: authz.CanUpload(day.Date, now),
		}
		for _, image := range images {
			uiDay.Images = append(uiDay.Images, &uitemplates.ShowProjectImage{
				ID:        image.ID,
				URL:       image.ImageURL,
				UserName:  image.UserName,
				CanDelete: authz.CanDeleteImage(user.UID, image),
			})
		}
		params.Days = append(params.Days, uiDay)
	}

	page, err := uitemplates.ShowProjectPage(params)
	u.writePage(w, page, err)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// createProjectHandler renders the creation form and creates the
// project with its full day schedule.
func (u *WebUI) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/create-project" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	params := &uitemplates.CreateProjectParams{TotalDays: projectTotalDays}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			glog.Errorf("Error while parsing form: %v", err)
			http.Error(w, "Internal Error", http.StatusInternalServerError)
			return
		}

		projectID, userErr, err := u.doCreateProject(ctx, user, r.PostForm)
		if err != nil {
			glog.Errorf("Error while creating project: %v", err)
			u.errorPage(w, http.StatusInternalServerError, "Could not create the project.  Please try again.", "/create-project", "Back to the form")
			return
		}

		if userErr != "" {
			params.UserError = userErr
		} else {
			http.Redirect(w, r, ShowProjectLink(projectID), http.StatusFound)
			return
		}
	}

	page, perr := uitemplates.CreateProjectPage(params)
	u.writePage(w, page, perr)
}

// doCreateProject validates the creation form and derives the start
// date from whichever bound the user fixed.
func (u *WebUI) doCreateProject(ctx context.Context, user *dbtypes.User, form url.Values) (projectID, userErr string, err error) {
	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return "", "Title must not be empty", nil
	}

	date, perr := time.Parse("2006-01-02", form.Get("date"))
	if perr != nil {
		return "", fmt.Sprintf("Could not parse date %q", form.Get("date")), nil
	}

	var start time.Time
	switch form.Get("date-type") {
	case "start":
		start = date
	case "end":
		start = schedule.StartFromEnd(date, projectTotalDays)
	default:
		return "", "Choose whether the date is the start or the end", nil
	}

	var customThemes []string
	if form.Get("theme-type") == "custom" {
		customThemes = splitThemes(form.Get("custom-themes"), projectTotalDays)
	}

	projectID, err = u.db.CreateProject(ctx, title, user.UID, start, projectTotalDays, customThemes)
	if err != nil {
		return "", "", err
	}

	return projectID, "", nil
}

// splitThemes turns the textarea contents into exactly totalDays
// entries.  Missing trailing lines become empty themes; extra lines are
// dropped.
func splitThemes(text string, totalDays int) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	themes := make([]string, totalDays)
	for i := 0; i < totalDays && i < len(lines); i++ {
		themes[i] = strings.TrimSpace(lines[i])
	}
	return themes
}

// joinHandler renders the invitation landing page and completes joins.
// The landing page is reachable without a session; completing the join
// is not.
func (u *WebUI) joinHandler(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimPrefix(r.URL.Path, "/join/")
	if projectID == "" || strings.Contains(projectID, "/") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	project, err := u.db.GetProject(ctx, projectID)
	if errors.Is(err, dblayer.ErrProjectNotFound) {
		u.errorPage(w, http.StatusNotFound, "This invite link is not valid.", "/", "Home")
		return
	}
	if err != nil {
		glog.Errorf("Error while retrieving project %q: %v", projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load the invitation.  Please try again.", "/", "Home")
		return
	}

	params := &uitemplates.JoinProjectParams{
		Title:           project.Title,
		DateRange:       dateRange(project.StartDate, project.EndDate),
		TotalDays:       project.TotalDays,
		MemberCount:     len(project.Members),
		ShowProjectLink: ShowProjectLink(project.ID),
		SelfLink:        JoinLink(project.ID),
	}

	if r.Method == http.MethodPost {
		if user == nil {
			// Completing a join requires a session.
			http.Redirect(w, r, "/log-in", http.StatusFound)
			return
		}

		err := u.db.AddMember(ctx, projectID, user.UID)
		switch {
		case errors.Is(err, dblayer.ErrAlreadyMember):
			params.AlreadyMember = true
		case err != nil:
			glog.Errorf("Error while joining project %q: %v", projectID, err)
			u.errorPage(w, http.StatusInternalServerError, "Could not join the project.  Please try again.", JoinLink(projectID), "Back to the invitation")
			return
		default:
			http.Redirect(w, r, ShowProjectLink(projectID), http.StatusFound)
			return
		}
	} else if user != nil && authz.IsMember(user.UID, project) {
		params.AlreadyMember = true
	}

	page, perr := uitemplates.JoinProjectPage(params)
	u.writePage(w, page, perr)
}

// uploadImageHandler stores one photo for one day.
func (u *WebUI) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		glog.Errorf("Error while parsing multipart form: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	projectID := r.FormValue("project-id")
	dayNumber, err := strconv.Atoi(r.FormValue("day-number"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	project, err := u.db.GetProject(ctx, projectID)
	if errors.Is(err, dblayer.ErrProjectNotFound) {
		u.errorPage(w, http.StatusNotFound, "No project with that id.", "/projects/", "Back to My Projects")
		return
	}
	if err != nil {
		glog.Errorf("Error while retrieving project %q: %v", projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load the project.  Please try again.", "/projects/", "Back to My Projects")
		return
	}

	day, err := u.db.GetDay(ctx, projectID, dayNumber, int(project.TotalDays))
	if errors.Is(err, dblayer.ErrDayNotFound) {
		u.errorPage(w, http.StatusNotFound, "No day with that number.", ShowProjectLink(projectID), "Back to the project")
		return
	}
	if err != nil {
		glog.Errorf("Error while retrieving day %d of project %q: %v", dayNumber, projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load the day.  Please try again.", ShowProjectLink(projectID), "Back to the project")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := path.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")

	_, err = u.db.UploadImage(ctx, project, day, user, filename, contentType, file)
	if msg, ok := userMessage(err); ok {
		http.Redirect(w, r, showProjectUserErrorLink(projectID, msg), http.StatusFound)
		return
	}
	if err != nil {
		glog.Errorf("Error while uploading image to project %q day %d: %v", projectID, dayNumber, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not upload the image.  Please try again.", ShowProjectLink(projectID), "Back to the project")
		return
	}

	http.Redirect(w, r, ShowProjectLink(projectID), http.StatusFound)
}

// deleteImageHandler removes one of the user's own photos.
func (u *WebUI) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.PostForm.Get("project-id")
	imageID := r.PostForm.Get("image-id")

	err = u.db.DeleteImage(ctx, projectID, imageID, user.UID)
	if msg, ok := userMessage(err); ok {
		http.Redirect(w, r, showProjectUserErrorLink(projectID, msg), http.StatusFound)
		return
	}
	if errors.Is(err, dblayer.ErrImageNotFound) {
		u.errorPage(w, http.StatusNotFound, "No image with that id.", ShowProjectLink(projectID), "Back to the project")
		return
	}
	if err != nil {
		glog.Errorf("Error while deleting image %q of project %q: %v", imageID, projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not delete the image.  Please try again.", ShowProjectLink(projectID), "Back to the project")
		return
	}

	http.Redirect(w, r, ShowProjectLink(projectID), http.StatusFound)
}

// deleteProjectHandler removes a whole project (creator only).
func (u *WebUI) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.PostForm.Get("project-id")

	err = u.db.DeleteProject(ctx, projectID, user.UID)
	if msg, ok := userMessage(err); ok {
		http.Redirect(w, r, showProjectUserErrorLink(projectID, msg), http.StatusFound)
		return
	}
	if errors.Is(err, dblayer.ErrProjectNotFound) {
		u.errorPage(w, http.StatusNotFound, "No project with that id.", "/projects/", "Back to My Projects")
		return
	}
	if err != nil {
		glog.Errorf("Error while deleting project %q: %v", projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not delete the project.  Please try again.", ShowProjectLink(projectID), "Back to the project")
		return
	}

	http.Redirect(w, r, "/projects/", http.StatusFound)
}

// inviteHandler shows the shareable join link and optionally emails it.
func (u *WebUI) inviteHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/invite" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	user, err := u.getLoggedInUser(ctx, r)
	if err != nil {
		glog.Errorf("Error while getting logged-in user: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		http.Redirect(w, r, "/log-in", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		glog.Errorf("Error while parsing form: %v", err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}

	projectID := r.Form.Get("project-id")

	project, err := u.db.GetProject(ctx, projectID)
	if errors.Is(err, dblayer.ErrProjectNotFound) {
		u.errorPage(w, http.StatusNotFound, "No project with that id.", "/projects/", "Back to My Projects")
		return
	}
	if err != nil {
		glog.Errorf("Error while retrieving project %q: %v", projectID, err)
		u.errorPage(w, http.StatusInternalServerError, "Could not load the project.  Please try again.", "/projects/", "Back to My Projects")
		return
	}

	if !authz.IsCreator(user.UID, project) {
		http.Redirect(w, r, showProjectUserErrorLink(projectID, "Only the creator can invite."), http.StatusFound)
		return
	}

	params := &uitemplates.InviteParams{
		Title:           project.Title,
		JoinURL:         u.externalBase + JoinLink(project.ID),
		ProjectID:       project.ID,
		ShowProjectLink: ShowProjectLink(project.ID),
		SelfLink:        InviteLink(project.ID),
		EmailEnabled:    u.sendgridClient != nil,
	}

	if r.Method == http.MethodPost {
		email := r.PostForm.Get("email")
		switch {
		case u.sendgridClient == nil:
			params.UserError = "Email invitations are not configured."
		case email == "":
			params.UserError = "Email must not be empty"
		default:
			if err := u.sendInviteEmail(ctx, email, user, project, params.JoinURL); err != nil {
				glog.Errorf("Error while sending invite email: %v", err)
				params.UserError = "Could not send the invitation.  Please try again."
			} else {
				params.Sent = true
			}
		}
	}

	page, perr := uitemplates.InvitePage(params)
	u.writePage(w, page, perr)
}

const inviteEmailPlain = `{{.InviterName}} invited you to join the photo calendar "{{.Title}}" on AdventShare.

Open the invitation: {{.JoinURL}}
`

var inviteEmailTemplate = template.Must(template.New("invite-email").Parse(inviteEmailPlain))

func (u *WebUI) sendInviteEmail(ctx context.Context, toEmail string, inviter *dbtypes.User, project *dbtypes.Project, joinURL string) error {
	message := mail.NewV3Mail()
	message.From = mail.NewEmail("AdventShare", "invites@adventshare.dev")
	message.Subject = fmt.Sprintf("Invitation to %s", project.Title)

	personalization := mail.NewPersonalization()
	personalization.To = append(personalization.To, mail.NewEmail("", toEmail))
	message.Personalizations = append(message.Personalizations, personalization)

	textContent := &bytes.Buffer{}
	err := inviteEmailTemplate.Execute(textContent, struct {
		InviterName string
		Title       string
		JoinURL     string
	}{
		InviterName: inviter.DisplayName,
		Title:       project.Title,
		JoinURL:     joinURL,
	})
	if err != nil {
		return fmt.Errorf("while templating plain-text email content: %w", err)
	}

	message.Content = append(message.Content, mail.NewContent("text/plain", textContent.String()))

	resp, err := u.sendgridClient.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}

	return nil
}
