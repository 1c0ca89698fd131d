package view

import (
	"context"

	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// LoadStatsFailedMessage is shown when statistics cannot be fetched
const LoadStatsFailedMessage = "Failed to load statistics"

// TopCategoryCount is the number of categories shown on the home view
const TopCategoryCount = 3

// StatsView is a snapshot of the home view
type StatsView struct {
	State         State
	Stats         *model.Stats
	TopCategories []model.StatCount
	Error         string
}

// Home shows the platform statistics. A total of zero is the empty state.
type Home struct {
	issues interfaces.IssueClient
	fs     *fetchState[*model.Stats]
}

// NewHome creates the home view
func NewHome(issues interfaces.IssueClient) *Home {
	return &Home{
		issues: issues,
		fs:     newFetchState((*model.Stats).IsEmpty),
	}
}

// Mount starts fetching statistics
func (h *Home) Mount(ctx context.Context) error {
	if !h.fs.mount(ctx) {
		return nil
	}
	return h.fs.load(h.issues.GetStats)
}

// Retry re-issues the fetch
func (h *Home) Retry() error {
	return h.fs.load(h.issues.GetStats)
}

// Unmount cancels the in-flight fetch
func (h *Home) Unmount() {
	h.fs.unmount()
}

// Wait blocks until background fetches have finished
func (h *Home) Wait(ctx context.Context) error {
	return h.fs.wait(ctx)
}

// Snapshot returns a copy of the current view state
func (h *Home) Snapshot() StatsView {
	state, stats, _ := h.fs.snapshot()
	v := StatsView{State: state}
	if state == StateError {
		v.Error = LoadStatsFailedMessage
	}
	if stats != nil {
		c := *stats
		c.ByStatus = append([]model.StatCount(nil), stats.ByStatus...)
		c.ByCategory = append([]model.StatCount(nil), stats.ByCategory...)
		v.Stats = &c
		v.TopCategories = c.TopCategories(TopCategoryCount)
	}
	return v
}
