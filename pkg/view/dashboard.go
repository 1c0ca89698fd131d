package view

import (
	"context"
	"sync"

	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// LoadIssuesFailedMessage is shown when an issue list cannot be fetched
const LoadIssuesFailedMessage = "Failed to load issues"

// IssueList is a snapshot of a list view
type IssueList struct {
	State  State
	Filter model.Filter
	Issues []*model.Issue
	Error  string
}

func issuesEmpty(issues []*model.Issue) bool {
	return len(issues) == 0
}

func copyIssues(issues []*model.Issue) []*model.Issue {
	if issues == nil {
		return nil
	}
	out := make([]*model.Issue, len(issues))
	for i, issue := range issues {
		out[i] = issue.Copy()
	}
	return out
}

// Dashboard is the public issue list with category, severity and status filters
type Dashboard struct {
	issues interfaces.IssueClient
	notify interfaces.Notifier

	mu     sync.Mutex
	filter model.Filter
	fs     *fetchState[[]*model.Issue]
}

// NewDashboard creates a dashboard view
func NewDashboard(issues interfaces.IssueClient, notify interfaces.Notifier) *Dashboard {
	d := &Dashboard{
		issues: issues,
		notify: notify,
		fs:     newFetchState(issuesEmpty),
	}
	d.fs.onError = func(error) {
		d.notify.Error(LoadIssuesFailedMessage)
	}
	return d
}

// Mount starts the first fetch. ctx bounds the lifetime of the view.
func (d *Dashboard) Mount(ctx context.Context) error {
	if !d.fs.mount(ctx) {
		return nil
	}
	return d.fs.load(d.list(d.Filter()))
}

// SetFilter replaces the filter and refetches. An unchanged filter does
// nothing; before Mount it only sets the initial filter.
func (d *Dashboard) SetFilter(filter model.Filter) error {
	d.mu.Lock()
	if d.filter == filter {
		d.mu.Unlock()
		return nil
	}
	d.filter = filter
	d.mu.Unlock()

	if !d.fs.started() {
		return nil
	}
	return d.fs.load(d.list(filter))
}

// Filter returns the current filter
func (d *Dashboard) Filter() model.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// Retry re-issues the list fetch with the current filter
func (d *Dashboard) Retry() error {
	return d.fs.load(d.list(d.Filter()))
}

// Unmount cancels any in-flight fetch; later results are dropped
func (d *Dashboard) Unmount() {
	d.fs.unmount()
}

// Wait blocks until background fetches have finished
func (d *Dashboard) Wait(ctx context.Context) error {
	return d.fs.wait(ctx)
}

// Snapshot returns a copy of the current view state
func (d *Dashboard) Snapshot() IssueList {
	state, issues, msg := d.fs.snapshot()
	return IssueList{
		State:  state,
		Filter: d.Filter(),
		Issues: copyIssues(issues),
		Error:  msg,
	}
}

func (d *Dashboard) list(filter model.Filter) fetcher[[]*model.Issue] {
	return func(ctx context.Context) ([]*model.Issue, error) {
		return d.issues.ListIssues(ctx, filter)
	}
}
