package view_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/view"
)

func mountDetail(t *testing.T, issues *fakeIssues, opts ...view.DetailOption) (*view.IssueDetail, *fakeNotifier, *fakeNavigator) {
	t.Helper()
	ctx := context.Background()
	notify := &fakeNotifier{}
	nav := &fakeNavigator{}
	d := view.NewIssueDetail("i1", issues, &fakeSession{user: adminUser}, notify, nav, opts...)
	gt.NoError(t, d.Mount(ctx))
	gt.NoError(t, d.Wait(ctx))
	t.Cleanup(d.Unmount)
	return d, notify, nav
}

func TestIssueDetailLoad(t *testing.T) {
	t.Run("loaded with offered actions", func(t *testing.T) {
		d, _, _ := mountDetail(t, newFakeIssues(sampleIssues()...))
		snap := d.Snapshot()
		gt.Equal(t, snap.State, view.StateLoaded)
		gt.Equal(t, snap.Issue.ID, types.IssueID("i1"))
		gt.Equal(t, snap.Actions, []types.Status{types.StatusInProgress, types.StatusRejected})
	})

	t.Run("citizen sees no actions", func(t *testing.T) {
		ctx := context.Background()
		d := view.NewIssueDetail("i1", newFakeIssues(sampleIssues()...), &fakeSession{user: citizenUser}, &fakeNotifier{}, &fakeNavigator{})
		gt.NoError(t, d.Mount(ctx))
		gt.NoError(t, d.Wait(ctx))
		gt.A(t, d.Snapshot().Actions).Length(0)
	})

	t.Run("not found", func(t *testing.T) {
		d, notify, _ := mountDetail(t, newFakeIssues())
		snap := d.Snapshot()
		gt.Equal(t, snap.State, view.StateError)
		gt.Equal(t, snap.Error, view.LoadDetailFailedMessage)
		gt.Equal(t, notify.last(), toastRecord{kind: types.ToastError, text: view.LoadDetailFailedMessage})
	})
}

func TestIssueDetailVote(t *testing.T) {
	ctx := context.Background()

	t.Run("success refreshes then confirms", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		d, notify, _ := mountDetail(t, issues)

		gt.NoError(t, d.Vote(ctx))
		gt.Equal(t, d.Snapshot().Issue.Votes, 1)
		gt.Equal(t, notify.last(), toastRecord{kind: types.ToastSuccess, text: view.VoteRecordedMessage})
		gt.False(t, d.Snapshot().ActionLoading)
	})

	t.Run("failure", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		issues.voteErr = &client.ServerError{StatusCode: 500, Message: "Server error"}
		d, notify, _ := mountDetail(t, issues)

		gt.Error(t, d.Vote(ctx))
		gt.Equal(t, notify.last().text, "Failed to vote: Server error")
		gt.Equal(t, d.Snapshot().Issue.Votes, 0)
	})

	t.Run("concurrent action is refused", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		gate := make(chan struct{})
		issues.voteGate = gate
		d, _, _ := mountDetail(t, issues)

		done := make(chan error, 1)
		go func() { done <- d.Vote(ctx) }()

		gt.True(t, waitFor(func() bool { return d.Snapshot().ActionLoading }))
		gt.True(t, errors.Is(d.Vote(ctx), view.ErrActionInFlight))
		gt.True(t, errors.Is(d.Delete(ctx), view.ErrActionInFlight))

		close(gate)
		gt.NoError(t, <-done)
		gt.Equal(t, d.Snapshot().Issue.Votes, 1)
	})
}

func TestIssueDetailChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("offered transition", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		d, notify, _ := mountDetail(t, issues)

		gt.NoError(t, d.ChangeStatus(ctx, types.StatusInProgress))
		gt.Equal(t, d.Snapshot().Issue.Status, types.StatusInProgress)
		gt.Equal(t, notify.last().text, "Issue marked as In Progress ⏳")
		gt.Equal(t, d.Snapshot().Actions, []types.Status{types.StatusResolved})
	})

	t.Run("transition not offered", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		d, _, _ := mountDetail(t, issues)

		err := d.ChangeStatus(ctx, types.StatusResolved)
		gt.True(t, errors.Is(err, view.ErrActionUnavailable))
		gt.A(t, issues.updates).Length(0)
	})

	t.Run("failure", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		issues.updateErr = &client.ServerError{StatusCode: 400, Message: "Invalid status"}
		d, notify, _ := mountDetail(t, issues)

		gt.Error(t, d.ChangeStatus(ctx, types.StatusRejected))
		gt.Equal(t, notify.last().text, "Failed to update status: Invalid status")
		gt.Equal(t, d.Snapshot().Issue.Status, types.StatusReported)
	})
}

func TestStatusChangedMessage(t *testing.T) {
	gt.Equal(t, view.StatusChangedMessage(types.StatusResolved), "Issue marked as Resolved ✅")
	gt.Equal(t, view.StatusChangedMessage(types.StatusRejected), "Issue marked as Rejected ❌")
	gt.Equal(t, view.StatusChangedMessage(types.StatusReported), view.StatusUpdatedMessage)
}

func TestIssueDetailDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("navigates after delay", func(t *testing.T) {
		clock := &manualClock{}
		issues := newFakeIssues(sampleIssues()...)
		d, notify, nav := mountDetail(t, issues, view.WithDetailAfterFunc(clock.AfterFunc))

		gt.NoError(t, d.Delete(ctx))
		gt.Equal(t, notify.last(), toastRecord{kind: types.ToastSuccess, text: view.IssueDeletedMessage})
		gt.A(t, nav.visited()).Length(0)

		snap := d.Snapshot()
		gt.True(t, snap.Deleted)
		gt.True(t, errors.Is(d.Vote(ctx), view.ErrActionInFlight))

		gt.Equal(t, clock.fire(), []time.Duration{view.DeleteNavigateDelay})
		gt.Equal(t, nav.visited(), []string{view.RouteDashboard})
	})

	t.Run("unmount cancels navigation", func(t *testing.T) {
		clock := &manualClock{}
		d, _, nav := mountDetail(t, newFakeIssues(sampleIssues()...), view.WithDetailAfterFunc(clock.AfterFunc))

		gt.NoError(t, d.Delete(ctx))
		d.Unmount()
		gt.A(t, clock.fire()).Length(0)
		gt.A(t, nav.visited()).Length(0)
	})

	t.Run("failure re-enables actions", func(t *testing.T) {
		issues := newFakeIssues(sampleIssues()...)
		issues.deleteErr = &client.ServerError{StatusCode: 404, Message: "Issue not found"}
		d, notify, _ := mountDetail(t, issues)

		gt.Error(t, d.Delete(ctx))
		gt.Equal(t, notify.last().text, "Failed to delete issue: Issue not found")
		gt.False(t, d.Snapshot().ActionLoading)
		gt.NoError(t, d.Vote(ctx))
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
