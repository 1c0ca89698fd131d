package interfaces

import (
	"context"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Repository is the storage behind the local sandbox backend
type Repository interface {
	// Issue operations
	PutIssue(ctx context.Context, issue *model.Issue) error
	GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error)
	ListIssues(ctx context.Context, filter model.Filter) ([]*model.Issue, error)
	DeleteIssue(ctx context.Context, id types.IssueID) error

	// User operations
	PutUser(ctx context.Context, user *model.Account) error
	GetUserByEmail(ctx context.Context, email string) (*model.Account, error)

	// Image operations
	PutImage(ctx context.Context, image *model.Image) error
	GetImage(ctx context.Context, name string) (*model.Image, error)
}
