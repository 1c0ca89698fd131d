package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/sandbox"
	"github.com/secmon-lab/civicsnap/pkg/view"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// syncBuffer is written by the command and the toast display concurrently
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	t       *testing.T
	apiURL  string
	session string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sb, err := sandbox.Start(context.Background())
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = sb.Close() })

	return &harness{
		t:       t,
		apiURL:  sb.APIURL(),
		session: filepath.Join(t.TempDir(), "session.db"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var buf syncBuffer
	full := append([]string{"civicsnap", "--api-url", h.apiURL, "--session-db", h.session, "--log-level", "error"}, args...)
	err := run(context.Background(), full, &buf)
	return buf.String(), err
}

func TestCommandsAgainstSandbox(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("whoami")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Not logged in")

	out, err = h.run("home")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("No issues reported yet.")

	image := filepath.Join(t.TempDir(), "pothole.png")
	gt.NoError(t, os.WriteFile(image, pngHeader, 0o600)).Required()

	out, err = h.run("report", "--image", image, "--lat", "28.7041", "--lng", "77.1025", "--description", "Deep pothole", "--city", "Delhi")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Issue Reported Successfully!")
	gt.S(t, out).Contains("Pothole")
	gt.S(t, out).Contains("92.0%")

	out, err = h.run("issues", "--category", "pothole")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("1 issue(s)")

	out, err = h.run("map")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Center: 28.7041, 77.1025")
	gt.S(t, out).Contains("0 meters")

	out, err = h.run("issues", "--sort", "priority", "--since", "1h")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Deep pothole")

	id := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Deep pothole") {
			id = strings.Fields(line)[0]
		}
	}
	gt.True(t, id != "")

	out, err = h.run("vote", id)
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Vote recorded successfully!")

	// moderation needs an admin session
	_, err = h.run("admin", "list")
	gt.Error(t, err)

	out, err = h.run("login", "--email", sandbox.DefaultAdminEmail, "--password", sandbox.DefaultAdminPassword)
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Login successful!")
	gt.S(t, out).Contains("civicsnap admin list")

	out, err = h.run("admin", "list")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Deep pothole")

	out, err = h.run("admin", "status", id, "in_progress")
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Issue marked as in progress")

	out, err = h.run("show", id)
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("In Progress")
	gt.S(t, out).Contains("Available status changes: resolved")

	out, err = h.run("admin", "delete", "--yes", id)
	gt.NoError(t, err).Required()
	gt.S(t, out).Contains("Issue deleted successfully")

	_, err = h.run("logout")
	gt.NoError(t, err)
	out, err = h.run("whoami")
	gt.NoError(t, err)
	gt.S(t, out).Contains("Not logged in")
}

func TestIssuesRejectsUnknownFilter(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("issues", "--status", "closed")
	gt.Error(t, err)
}

func TestIssuesRejectsUnknownSort(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("issues", "--sort", "votes")
	gt.Error(t, err)
}

func TestArrangeFlags(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	list := view.IssueList{
		State: view.StateLoaded,
		Issues: []*model.Issue{
			{ID: "old", Priority: 90, CreatedAt: now.Add(-72 * time.Hour)},
			{ID: "low", Priority: 20, CreatedAt: now.Add(-time.Hour)},
			{ID: "high", Priority: 80, CreatedAt: now.Add(-2 * time.Hour)},
		},
	}

	t.Run("newest keeps server order", func(t *testing.T) {
		a := arrangeFlags{sort: "newest"}
		got := a.Apply(list, now)
		gt.Equal(t, got.Issues[0].ID, types.IssueID("old"))
		gt.A(t, got.Issues).Length(3)
	})

	t.Run("since and priority", func(t *testing.T) {
		a := arrangeFlags{sort: "priority", since: 24 * time.Hour}
		got := a.Apply(list, now)
		gt.A(t, got.Issues).Length(2)
		gt.Equal(t, got.Issues[0].ID, types.IssueID("high"))
		gt.Equal(t, got.Issues[1].ID, types.IssueID("low"))
		gt.Equal(t, list.Issues[0].ID, types.IssueID("old"))
	})

	t.Run("error lists pass through", func(t *testing.T) {
		a := arrangeFlags{sort: "priority", since: time.Hour}
		failed := view.IssueList{State: view.StateError, Error: "boom"}
		gt.Equal(t, a.Apply(failed, now).Error, "boom")
	})
}

func TestRenderIssueMap(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf)

	r.issueMap(view.IssueList{State: view.StateEmpty})
	gt.S(t, buf.String()).Contains("Center: 28.7041, 77.1025")
	gt.S(t, buf.String()).Contains("No issues to plot.")

	buf.Reset()
	var issues []*model.Issue
	for i := 0; i < 12; i++ {
		issues = append(issues, &model.Issue{
			ID:       types.IssueID(fmt.Sprintf("i%02d", i)),
			Category: types.CategoryGarbage,
			Status:   types.StatusReported,
			Location: model.Location{Type: "Point", Coordinates: []float64{20, 10}},
		})
	}
	r.issueMap(view.IssueList{State: view.StateLoaded, Issues: issues})
	gt.S(t, buf.String()).Contains("Center: 10.0000, 20.0000")
	gt.S(t, buf.String()).Contains("10 of 12 issues plotted")
	gt.S(t, buf.String()).Contains("Garbage 12")
	gt.False(t, strings.Contains(buf.String(), "i11"))
}
