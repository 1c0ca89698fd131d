package view

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Messages of the issue detail view
const (
	LoadDetailFailedMessage = "Failed to load issue details"
	VoteRecordedMessage     = "Vote recorded successfully! 👍"
	StatusUpdatedMessage    = "Status updated successfully"
)

var statusMessages = map[types.Status]string{
	types.StatusInProgress: "Issue marked as In Progress ⏳",
	types.StatusResolved:   "Issue marked as Resolved ✅",
	types.StatusRejected:   "Issue marked as Rejected ❌",
}

// StatusChangedMessage returns the toast shown after a status change
func StatusChangedMessage(status types.Status) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return StatusUpdatedMessage
}

// IssueView is a snapshot of the detail view
type IssueView struct {
	State         State
	Issue         *model.Issue
	Error         string
	ActionLoading bool
	Deleted       bool
	// Actions are the status changes offered for the current status.
	// Empty unless the session is admin.
	Actions []types.Status
}

// IssueDetail shows one issue and runs the vote, status and delete actions.
// Only one action runs at a time per view.
type IssueDetail struct {
	id      types.IssueID
	issues  interfaces.IssueClient
	session interfaces.Session
	notify  interfaces.Notifier
	nav     interfaces.Navigator
	later   *deferred

	mu            sync.Mutex
	actionLoading bool
	deleted       bool
	fs            *fetchState[*model.Issue]
}

// DetailOption configures an IssueDetail
type DetailOption func(*IssueDetail)

// WithDetailAfterFunc replaces the scheduler of the delayed navigation
func WithDetailAfterFunc(after AfterFunc) DetailOption {
	return func(d *IssueDetail) {
		d.later = newDeferred(after)
	}
}

// NewIssueDetail creates the detail view of id
func NewIssueDetail(id types.IssueID, issues interfaces.IssueClient, session interfaces.Session, notify interfaces.Notifier, nav interfaces.Navigator, opts ...DetailOption) *IssueDetail {
	d := &IssueDetail{
		id:      id,
		issues:  issues,
		session: session,
		notify:  notify,
		nav:     nav,
		later:   newDeferred(nil),
		fs:      newFetchState(func(issue *model.Issue) bool { return issue == nil }),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.fs.onError = func(error) {
		d.notify.Error(LoadDetailFailedMessage)
	}
	return d
}

// ID returns the issue shown by the view
func (d *IssueDetail) ID() types.IssueID {
	return d.id
}

// Mount starts fetching the issue
func (d *IssueDetail) Mount(ctx context.Context) error {
	if !d.fs.mount(ctx) {
		return nil
	}
	return d.fs.load(d.get)
}

// Retry re-issues the fetch
func (d *IssueDetail) Retry() error {
	return d.fs.load(d.get)
}

// Vote adds a vote, refreshes the issue and then confirms
func (d *IssueDetail) Vote(ctx context.Context) error {
	if err := d.beginAction(); err != nil {
		return err
	}
	defer d.endAction()

	if _, err := d.issues.VoteIssue(ctx, d.id); err != nil {
		d.notify.Error("Failed to vote: " + client.Message(err))
		return goerr.Wrap(err, "failed to vote", goerr.V("id", d.id))
	}

	// a failed refresh reports itself
	_ = d.fs.loadSync(d.get)
	d.notify.Success(VoteRecordedMessage)
	return nil
}

// ChangeStatus moves the issue to one of the offered next statuses
func (d *IssueDetail) ChangeStatus(ctx context.Context, status types.Status) error {
	_, issue, _ := d.fs.snapshot()
	if issue == nil || !issue.Status.CanMoveTo(status) {
		return goerr.Wrap(ErrActionUnavailable, "status change not offered", goerr.V("id", d.id), goerr.V("status", status))
	}

	if err := d.beginAction(); err != nil {
		return err
	}
	defer d.endAction()

	if _, err := d.issues.UpdateStatus(ctx, d.id, status); err != nil {
		d.notify.Error(updateStatusFailedMsg + client.Message(err))
		return goerr.Wrap(err, "failed to update status", goerr.V("id", d.id), goerr.V("status", status))
	}

	_ = d.fs.loadSync(d.get)
	d.notify.Success(StatusChangedMessage(status))
	return nil
}

// Delete removes the issue and navigates to the dashboard after
// DeleteNavigateDelay. Actions stay disabled after a successful delete.
func (d *IssueDetail) Delete(ctx context.Context) error {
	if err := d.beginAction(); err != nil {
		return err
	}

	if err := d.issues.DeleteIssue(ctx, d.id); err != nil {
		d.endAction()
		d.notify.Error("Failed to delete issue: " + client.Message(err))
		return goerr.Wrap(err, "failed to delete issue", goerr.V("id", d.id))
	}

	d.mu.Lock()
	d.deleted = true
	d.mu.Unlock()

	d.notify.Success(IssueDeletedMessage)
	d.later.schedule(DeleteNavigateDelay, func() {
		d.nav.Navigate(RouteDashboard)
	})
	return nil
}

// Unmount cancels the in-flight fetch and any pending navigation
func (d *IssueDetail) Unmount() {
	d.later.stop()
	d.fs.unmount()
}

// Wait blocks until background fetches have finished
func (d *IssueDetail) Wait(ctx context.Context) error {
	return d.fs.wait(ctx)
}

// Snapshot returns a copy of the current view state
func (d *IssueDetail) Snapshot() IssueView {
	state, issue, _ := d.fs.snapshot()

	d.mu.Lock()
	v := IssueView{
		State:         state,
		ActionLoading: d.actionLoading,
		Deleted:       d.deleted,
	}
	d.mu.Unlock()

	if state == StateError {
		v.Error = LoadDetailFailedMessage
	}
	if issue != nil {
		v.Issue = issue.Copy()
		if d.session != nil && d.session.IsAdmin(context.Background()) {
			v.Actions = issue.Status.NextActions()
		}
	}
	return v
}

func (d *IssueDetail) beginAction() error {
	if !d.fs.alive() {
		return ErrUnmounted
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.actionLoading || d.deleted {
		return ErrActionInFlight
	}
	d.actionLoading = true
	return nil
}

func (d *IssueDetail) endAction() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actionLoading = false
}

func (d *IssueDetail) get(ctx context.Context) (*model.Issue, error) {
	return d.issues.GetIssue(ctx, d.id)
}
