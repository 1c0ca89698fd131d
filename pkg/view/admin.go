package view

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Messages of the admin dashboard
const (
	AccessDeniedMessage   = "Access denied. Admin only."
	DeleteConfirmPrompt   = "Are you sure you want to delete this issue?"
	IssueDeletedMessage   = "Issue deleted successfully"
	updateStatusFailedMsg = "Failed to update status: "
	adminDeleteFailedMsg  = "Failed to delete: "
)

// Confirm asks the user a yes/no question
type Confirm func(prompt string) bool

// AdminDashboard lists issues for moderation. Mounting it without an admin
// session redirects to the login route without fetching anything. The guard
// is a convenience only; the backend enforces the role.
type AdminDashboard struct {
	issues  interfaces.IssueClient
	session interfaces.Session
	notify  interfaces.Notifier
	nav     interfaces.Navigator
	confirm Confirm

	mu     sync.Mutex
	filter model.Filter
	denied bool
	fs     *fetchState[[]*model.Issue]
}

// DefaultAdminFilter shows new reports first
var DefaultAdminFilter = model.Filter{Status: types.StatusReported}

// NewAdminDashboard creates the admin view. A nil confirm accepts every prompt.
func NewAdminDashboard(issues interfaces.IssueClient, session interfaces.Session, notify interfaces.Notifier, nav interfaces.Navigator, confirm Confirm) *AdminDashboard {
	a := &AdminDashboard{
		issues:  issues,
		session: session,
		notify:  notify,
		nav:     nav,
		confirm: confirm,
		filter:  DefaultAdminFilter,
		fs:      newFetchState(issuesEmpty),
	}
	a.fs.onError = func(error) {
		a.notify.Error(LoadIssuesFailedMessage)
	}
	return a
}

// Mount checks the session role and starts the first fetch
func (a *AdminDashboard) Mount(ctx context.Context) error {
	if !a.session.IsAdmin(ctx) {
		a.mu.Lock()
		a.denied = true
		a.mu.Unlock()

		ctxlog.From(ctx).Info("Admin dashboard denied")
		a.notify.Error(AccessDeniedMessage)
		a.nav.Navigate(RouteLogin)
		return ErrAccessDenied
	}

	if !a.fs.mount(ctx) {
		return nil
	}
	return a.fs.load(a.list(a.Filter()))
}

// Denied reports whether the last Mount was rejected by the role guard
func (a *AdminDashboard) Denied() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.denied
}

// SetFilter replaces the filter and refetches. An unchanged filter does
// nothing; before Mount it only sets the initial filter.
func (a *AdminDashboard) SetFilter(filter model.Filter) error {
	a.mu.Lock()
	if a.filter == filter {
		a.mu.Unlock()
		return nil
	}
	a.filter = filter
	a.mu.Unlock()

	if !a.fs.started() {
		return nil
	}
	return a.fs.load(a.list(filter))
}

// Filter returns the current filter
func (a *AdminDashboard) Filter() model.Filter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

// Retry re-issues the list fetch
func (a *AdminDashboard) Retry() error {
	return a.fs.load(a.list(a.Filter()))
}

// ChangeStatus sets the status of an issue and refreshes the list on
// success. Any valid status may be chosen here. On failure the list is left
// as it was.
func (a *AdminDashboard) ChangeStatus(ctx context.Context, id types.IssueID, status types.Status) error {
	if !a.fs.alive() {
		return ErrUnmounted
	}

	if _, err := a.issues.UpdateStatus(ctx, id, status); err != nil {
		a.notify.Error(updateStatusFailedMsg + client.Message(err))
		return goerr.Wrap(err, "failed to update status", goerr.V("id", id), goerr.V("status", status))
	}

	a.notify.Success("Issue marked as " + strings.Replace(status.String(), "_", " ", 1))
	return a.fs.load(a.list(a.Filter()))
}

// Delete removes an issue after confirmation and refreshes the list
func (a *AdminDashboard) Delete(ctx context.Context, id types.IssueID) error {
	if !a.fs.alive() {
		return ErrUnmounted
	}
	if a.confirm != nil && !a.confirm(DeleteConfirmPrompt) {
		return ErrCancelled
	}

	if err := a.issues.DeleteIssue(ctx, id); err != nil {
		a.notify.Error(adminDeleteFailedMsg + client.Message(err))
		return goerr.Wrap(err, "failed to delete issue", goerr.V("id", id))
	}

	a.notify.Success(IssueDeletedMessage)
	return a.fs.load(a.list(a.Filter()))
}

// Unmount cancels any in-flight fetch
func (a *AdminDashboard) Unmount() {
	a.fs.unmount()
}

// Wait blocks until background fetches have finished
func (a *AdminDashboard) Wait(ctx context.Context) error {
	return a.fs.wait(ctx)
}

// Snapshot returns a copy of the current view state
func (a *AdminDashboard) Snapshot() IssueList {
	state, issues, msg := a.fs.snapshot()
	return IssueList{
		State:  state,
		Filter: a.Filter(),
		Issues: copyIssues(issues),
		Error:  msg,
	}
}

func (a *AdminDashboard) list(filter model.Filter) fetcher[[]*model.Issue] {
	return func(ctx context.Context) ([]*model.Issue, error) {
		return a.issues.ListIssues(ctx, filter)
	}
}
