package usecase

import (
	"context"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// AuthUseCase defines the account operations of the sandbox backend
type AuthUseCase interface {
	// Register creates a citizen account
	Register(ctx context.Context, reg *model.Registration) (*model.User, error)

	// Login checks credentials and issues a signed token
	Login(ctx context.Context, cred *model.Credentials) (*model.LoginResult, error)

	// Authenticate resolves a bearer token to its user
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// IssueUseCase defines the issue operations of the sandbox backend
type IssueUseCase interface {
	Create(ctx context.Context, req *model.CreateIssueRequest) (*model.CreateIssueResult, error)
	List(ctx context.Context, filter model.Filter) ([]*model.Issue, error)
	Get(ctx context.Context, id types.IssueID) (*model.Issue, error)
	Update(ctx context.Context, id types.IssueID, update model.IssueUpdate) (*model.Issue, error)
	Delete(ctx context.Context, id types.IssueID) error
	Vote(ctx context.Context, id types.IssueID) (*model.Issue, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

// ImageUseCase defines the upload operations of the sandbox backend
type ImageUseCase interface {
	// Upload stores an image and returns its name
	Upload(ctx context.Context, filename string, data []byte) (*model.Image, error)

	// Get returns a stored image
	Get(ctx context.Context, name string) (*model.Image, error)
}

// Classifier assigns category, severity and confidence to a new issue
type Classifier interface {
	Classify(ctx context.Context, imageURL, description string) (*model.AIAnalysis, string, error)
}
