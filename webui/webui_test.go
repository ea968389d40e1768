package webui

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLinks(t *testing.T) {
	if got, want := ShowProjectLink("abc123"), "/projects/abc123"; got != want {
		t.Errorf("ShowProjectLink: got %q, want %q", got, want)
	}
	if got, want := JoinLink("abc123"), "/join/abc123"; got != want {
		t.Errorf("JoinLink: got %q, want %q", got, want)
	}
	if got, want := InviteLink("abc123"), "/invite?project-id=abc123"; got != want {
		t.Errorf("InviteLink: got %q, want %q", got, want)
	}
	if got, want := showProjectUserErrorLink("abc123", "This day has not arrived yet."), "/projects/abc123?user-error=This+day+has+not+arrived+yet."; got != want {
		t.Errorf("showProjectUserErrorLink: got %q, want %q", got, want)
	}
}

func TestSplitThemes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "short list is padded",
			text: "Red\nTree",
			want: []string{"Red", "Tree", "", "", ""},
		},
		{
			name: "long list is truncated",
			text: "a\nb\nc\nd\ne\nf\ng",
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "crlf and surrounding spaces",
			text: "Red\r\n Tree \r\n\r\nStar",
			want: []string{"Red", "Tree", "", "Star", ""},
		},
		{
			name: "empty textarea",
			text: "",
			want: []string{"", "", "", "", ""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitThemes(tc.text, 5)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("splitThemes diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSameDate(t *testing.T) {
	day := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	if !sameDate(day, time.Date(2025, 12, 24, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("expected same date for different times of the same day")
	}
	if sameDate(day, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected different dates for adjacent days")
	}
}
