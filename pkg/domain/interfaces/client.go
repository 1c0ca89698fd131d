package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// IssueClient is the issue side of the backend API as seen by views
type IssueClient interface {
	CreateIssue(ctx context.Context, req *model.CreateIssueRequest) (*model.CreateIssueResult, error)
	ListIssues(ctx context.Context, filter model.Filter) ([]*model.Issue, error)
	GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error)
	UpdateIssue(ctx context.Context, id types.IssueID, update model.IssueUpdate) (*model.Issue, error)
	UpdateStatus(ctx context.Context, id types.IssueID, status types.Status) (*model.Issue, error)
	DeleteIssue(ctx context.Context, id types.IssueID) error
	VoteIssue(ctx context.Context, id types.IssueID) (*model.Issue, error)
	GetStats(ctx context.Context) (*model.Stats, error)
}

// Uploader sends an image to the backend and returns its reference
type Uploader interface {
	UploadImage(ctx context.Context, name, contentType string, r io.Reader) (*model.UploadResult, error)
}

// AuthClient covers the account operations
type AuthClient interface {
	Register(ctx context.Context, reg *model.Registration) (*model.User, error)
	Login(ctx context.Context, cred *model.Credentials) (*model.LoginResult, error)
	Logout(ctx context.Context) error
}

// Session is the read side of the persisted session used to gate views
type Session interface {
	Current(ctx context.Context) *model.User
	IsAdmin(ctx context.Context) bool
}
