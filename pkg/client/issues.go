package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

var _ interfaces.IssueClient = (*Client)(nil)

func issuePath(id types.IssueID) string {
	return "/issues/" + url.PathEscape(id.String())
}

// CreateIssue submits a new issue. The result carries the created issue
// and the AI analysis summary.
func (c *Client) CreateIssue(ctx context.Context, req *model.CreateIssueRequest) (*model.CreateIssueResult, error) {
	if req == nil {
		return nil, &UnexpectedError{Message: "issue request is nil"}
	}
	if err := req.Validate(); err != nil {
		return nil, &UnexpectedError{Message: err.Error(), cause: err}
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/issues", nil, req)
	if err != nil {
		return nil, err
	}

	var result model.CreateIssueResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to decode created issue"))
	}
	return &result, nil
}

// ListIssues returns issues matching filter
func (c *Client) ListIssues(ctx context.Context, filter model.Filter) ([]*model.Issue, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/issues", filter.Query(), nil)
	if err != nil {
		return nil, err
	}

	var issues []*model.Issue
	if err := decodeData(body, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// GetIssue returns a single issue
func (c *Client) GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	if err := id.Validate(); err != nil {
		return nil, &UnexpectedError{Message: err.Error(), cause: err}
	}

	body, err := c.doJSON(ctx, http.MethodGet, issuePath(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var issue model.Issue
	if err := decodeData(body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue applies a partial update
func (c *Client) UpdateIssue(ctx context.Context, id types.IssueID, update model.IssueUpdate) (*model.Issue, error) {
	if err := id.Validate(); err != nil {
		return nil, &UnexpectedError{Message: err.Error(), cause: err}
	}
	if update.IsEmpty() {
		return nil, &UnexpectedError{Message: "nothing to update"}
	}

	body, err := c.doJSON(ctx, http.MethodPatch, issuePath(id), nil, update)
	if err != nil {
		return nil, err
	}

	var issue model.Issue
	if err := decodeData(body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateStatus changes only the status of an issue
func (c *Client) UpdateStatus(ctx context.Context, id types.IssueID, status types.Status) (*model.Issue, error) {
	if !status.IsValid() {
		return nil, &UnexpectedError{Message: "invalid status: " + status.String()}
	}
	return c.UpdateIssue(ctx, id, model.StatusUpdate(status))
}

// DeleteIssue removes an issue
func (c *Client) DeleteIssue(ctx context.Context, id types.IssueID) error {
	if err := id.Validate(); err != nil {
		return &UnexpectedError{Message: err.Error(), cause: err}
	}

	_, err := c.doJSON(ctx, http.MethodDelete, issuePath(id), nil, nil)
	return err
}

// VoteIssue adds a vote. The updated issue is returned when the backend
// sends one back, otherwise nil.
func (c *Client) VoteIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	if err := id.Validate(); err != nil {
		return nil, &UnexpectedError{Message: err.Error(), cause: err}
	}

	body, err := c.doJSON(ctx, http.MethodPost, issuePath(id)+"/vote", nil, nil)
	if err != nil {
		return nil, err
	}

	var issue model.Issue
	if err := decodeData(body, &issue); err != nil {
		return nil, err
	}
	if issue.ID == "" {
		return nil, nil
	}
	return &issue, nil
}

// GetStats returns the aggregate statistics
func (c *Client) GetStats(ctx context.Context) (*model.Stats, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/issues/stats", nil, nil)
	if err != nil {
		return nil, err
	}

	var stats model.Stats
	if err := decodeData(body, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
