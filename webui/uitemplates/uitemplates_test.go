package uitemplates

import (
	"strings"
	"testing"
)

// Executes every page with populated params so that a template/params
// drift shows up as a test failure instead of a 500.
func TestPagesExecute(t *testing.T) {
	tests := []struct {
		name     string
		render   func() ([]byte, error)
		contains []string
	}{
		{
			name: "home logged out",
			render: func() ([]byte, error) {
				return HomePage(&HomeParams{})
			},
			contains: []string{"Log In"},
		},
		{
			name: "home logged in",
			render: func() ([]byte, error) {
				return HomePage(&HomeParams{ActiveUser: ActiveUserParams{LoggedIn: true, DisplayName: "Alice"}})
			},
			contains: []string{"Alice", "My Projects"},
		},
		{
			name: "log in with error and google button",
			render: func() ([]byte, error) {
				return LogInPage(&LogInParams{UserError: "Unknown user or wrong password", GoogleOAuthClientID: "client-id"})
			},
			contains: []string{"Unknown user or wrong password", "g_id_signin"},
		},
		{
			name: "log out",
			render: func() ([]byte, error) {
				return LogOutPage(&LogOutParams{})
			},
			contains: []string{"Log Out", "Log out of AdventShare"},
		},
		{
			name: "list projects",
			render: func() ([]byte, error) {
				return ListProjectsPage(&ListProjectsParams{Projects: []ListProjectsProject{{
					Title:           "Family Christmas",
					DateRange:       "2025-12-01 - 2025-12-25",
					CountdownLabel:  "D-5",
					MemberCount:     3,
					ShowProjectLink: "/projects/p1",
				}}})
			},
			contains: []string{"Family Christmas", "D-5", "/projects/p1"},
		},
		{
			name: "create project",
			render: func() ([]byte, error) {
				return CreateProjectPage(&CreateProjectParams{TotalDays: 25})
			},
			contains: []string{"25 days", "custom-themes"},
		},
		{
			name: "show project",
			render: func() ([]byte, error) {
				return ShowProjectPage(&ShowProjectParams{
					Title:          "Family Christmas",
					DateRange:      "2025-12-01 - 2025-12-25",
					CountdownLabel: "D-Day",
					MemberCount:    3,
					SelfLink:       "/projects/p1",
					IsCreator:      true,
					InviteLink:     "/invite?project-id=p1",
					ProjectID:      "p1",
					Days: []*ShowProjectDay{{
						DayNumber: 1,
						Label:     "D-24",
						Date:      "Dec 1",
						Theme:     "Red",
						CanUpload: true,
						Images: []*ShowProjectImage{{
							ID:        "img1",
							URL:       "https://example.com/img1.jpg",
							UserName:  "Alice",
							CanDelete: true,
						}},
					}, {
						DayNumber: 25,
						Label:     "D-Day",
						Date:      "Dec 25",
						Theme:     "Celebration",
						IsFuture:  true,
					}},
				})
			},
			contains: []string{"D-24", "D-Day", "img1", "Locked", "Invite"},
		},
		{
			name: "join project",
			render: func() ([]byte, error) {
				return JoinProjectPage(&JoinProjectParams{
					Title:           "Family Christmas",
					DateRange:       "2025-12-01 - 2025-12-25",
					TotalDays:       25,
					MemberCount:     2,
					ShowProjectLink: "/projects/p1",
					SelfLink:        "/join/p1",
				})
			},
			contains: []string{"Join", "Family Christmas"},
		},
		{
			name: "join project already member",
			render: func() ([]byte, error) {
				return JoinProjectPage(&JoinProjectParams{
					Title:           "Family Christmas",
					AlreadyMember:   true,
					ShowProjectLink: "/projects/p1",
					SelfLink:        "/join/p1",
				})
			},
			contains: []string{"Already a member"},
		},
		{
			name: "invite",
			render: func() ([]byte, error) {
				return InvitePage(&InviteParams{
					Title:           "Family Christmas",
					JoinURL:         "https://adventshare.dev/join/p1",
					ProjectID:       "p1",
					ShowProjectLink: "/projects/p1",
					SelfLink:        "/invite?project-id=p1",
					EmailEnabled:    true,
				})
			},
			contains: []string{"https://adventshare.dev/join/p1", "Send Invitation"},
		},
		{
			name: "error page",
			render: func() ([]byte, error) {
				return ErrorPage(&ErrorPageParams{
					Message:   "No project with that id.",
					BackLink:  "/projects/",
					BackLabel: "Back to My Projects",
				})
			},
			contains: []string{"No project with that id.", "Back to My Projects"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.render()
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(string(out), want) {
					t.Errorf("output does not contain %q", want)
				}
			}
		})
	}
}
