package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Issue implements IssueUseCase
type Issue struct {
	repo       interfaces.Repository
	classifier Classifier
	now        func() time.Time
}

// IssueOption configures Issue
type IssueOption func(*Issue)

// WithClassifier replaces the keyword classifier
func WithClassifier(c Classifier) IssueOption {
	return func(i *Issue) {
		i.classifier = c
	}
}

// WithIssueClock replaces time.Now
func WithIssueClock(now func() time.Time) IssueOption {
	return func(i *Issue) {
		i.now = now
	}
}

// NewIssue creates a new Issue use case
func NewIssue(ctx context.Context, repo interfaces.Repository, opts ...IssueOption) *Issue {
	i := &Issue{
		repo:       repo,
		classifier: KeywordClassifier{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ IssueUseCase = (*Issue)(nil)

// Create classifies and stores a new issue
func (i *Issue) Create(ctx context.Context, req *model.CreateIssueRequest) (*model.CreateIssueResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	analysis, aiModel, err := i.classifier.Classify(ctx, req.ImageURL, req.Description)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify issue")
	}

	confidence := analysis.Confidence
	location := model.NewPoint(req.Location.Latitude, req.Location.Longitude)
	location.Address = req.Location.Address
	location.City = req.Location.City
	location.State = req.Location.State
	location.Pincode = req.Location.Pincode

	issue := &model.Issue{
		ID:           types.IssueID(uuid.NewString()),
		Category:     analysis.Category,
		Severity:     analysis.Severity,
		Status:       types.StatusReported,
		Description:  req.Description,
		Location:     location,
		ImageURL:     req.ImageURL,
		AIConfidence: &confidence,
		AIModel:      aiModel,
		Priority:     priorityScore(analysis.Severity, 0),
		CreatedAt:    i.now(),
	}
	if !req.ReportedBy.IsEmpty() {
		issue.ReportedBy = req.ReportedBy
	}

	if err := i.repo.PutIssue(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "failed to save issue")
	}

	ctxlog.From(ctx).Info("Issue created",
		"issueID", issue.ID,
		"category", issue.Category,
		"severity", issue.Severity,
	)

	return &model.CreateIssueResult{Issue: issue, AIAnalysis: analysis}, nil
}

// List returns issues matching filter
func (i *Issue) List(ctx context.Context, filter model.Filter) ([]*model.Issue, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStatus, "list", goerr.V("status", filter.Status))
	}
	issues, err := i.repo.ListIssues(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list issues")
	}
	return issues, nil
}

// Get returns one issue and counts the view
func (i *Issue) Get(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	issue, err := i.repo.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	issue.ViewCount++
	if err := i.repo.PutIssue(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "failed to save view count")
	}
	return issue, nil
}

// Update applies a partial update. Any valid status is accepted; resolving
// stamps resolvedAt and leaving resolved clears it.
func (i *Issue) Update(ctx context.Context, id types.IssueID, update model.IssueUpdate) (*model.Issue, error) {
	if update.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStatus, "update", goerr.V("status", *update.Status))
	}
	if update.Severity != nil && !update.Severity.IsValid() {
		return nil, goerr.Wrap(ErrInvalidSeverity, "update", goerr.V("severity", *update.Severity))
	}

	issue, err := i.repo.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil && *update.Status != issue.Status {
		issue.Status = *update.Status
		if issue.Status == types.StatusResolved {
			now := i.now()
			issue.ResolvedAt = &now
		} else {
			issue.ResolvedAt = nil
		}
	}
	if update.Severity != nil {
		issue.Severity = *update.Severity
		issue.Priority = priorityScore(issue.Severity, issue.Votes)
	}
	if update.Description != nil {
		issue.Description = *update.Description
	}

	if err := i.repo.PutIssue(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "failed to save issue")
	}
	return issue, nil
}

// Delete removes an issue
func (i *Issue) Delete(ctx context.Context, id types.IssueID) error {
	return i.repo.DeleteIssue(ctx, id)
}

// Vote adds one vote and re-ranks the issue
func (i *Issue) Vote(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	issue, err := i.repo.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	issue.Votes++
	issue.Priority = priorityScore(issue.Severity, issue.Votes)
	if err := i.repo.PutIssue(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "failed to save vote")
	}
	return issue, nil
}

// Stats aggregates all issues
func (i *Issue) Stats(ctx context.Context) (*model.Stats, error) {
	issues, err := i.repo.ListIssues(ctx, model.Filter{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list issues")
	}

	byStatus := map[string]int{}
	byCategory := map[string]int{}
	var confidenceSum float64
	var confidenceN int
	for _, issue := range issues {
		byStatus[issue.Status.String()]++
		byCategory[issue.Category.String()]++
		if issue.AIConfidence != nil {
			confidenceSum += *issue.AIConfidence
			confidenceN++
		}
	}

	stats := &model.Stats{
		Total:      len(issues),
		ByStatus:   statCounts(byStatus),
		ByCategory: statCounts(byCategory),
	}
	if confidenceN > 0 {
		avg := confidenceSum / float64(confidenceN)
		stats.AverageAIConfidence = &avg
	}
	return stats, nil
}

// statCounts orders buckets by count, largest first
func statCounts(m map[string]int) []model.StatCount {
	counts := make([]model.StatCount, 0, len(m))
	for id, n := range m {
		counts = append(counts, model.StatCount{ID: id, Count: n})
	}
	sort.Slice(counts, func(a, b int) bool {
		if counts[a].Count == counts[b].Count {
			return counts[a].ID < counts[b].ID
		}
		return counts[a].Count > counts[b].Count
	})
	return counts
}
