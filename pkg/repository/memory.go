package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = goerr.New("not found")

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu     sync.RWMutex
	issues map[types.IssueID]*model.Issue
	users  map[string]*model.Account // by lower-cased email
	images map[string]*model.Image
}

// NewMemory creates a new memory repository
func NewMemory() *Memory {
	return &Memory{
		issues: make(map[types.IssueID]*model.Issue),
		users:  make(map[string]*model.Account),
		images: make(map[string]*model.Image),
	}
}

var _ interfaces.Repository = (*Memory)(nil)

// PutIssue creates or replaces an issue
func (m *Memory) PutIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}
	if issue.ID == "" {
		return goerr.New("issue ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.issues[issue.ID] = issue.Copy()
	return nil
}

// GetIssue retrieves an issue by ID
func (m *Memory) GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	if id == "" {
		return nil, goerr.New("issue ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	issue, exists := m.issues[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
	}
	return issue.Copy(), nil
}

// ListIssues returns the issues matching every set field of filter, newest first
func (m *Memory) ListIssues(ctx context.Context, filter model.Filter) ([]*model.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	issues := make([]*model.Issue, 0, len(m.issues))
	for _, issue := range m.issues {
		if filter.Category != "" && issue.Category != filter.Category {
			continue
		}
		if filter.Severity != "" && issue.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && issue.Status != filter.Status {
			continue
		}
		issues = append(issues, issue.Copy())
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return issues[i].ID > issues[j].ID
		}
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})

	return issues, nil
}

// DeleteIssue removes an issue
func (m *Memory) DeleteIssue(ctx context.Context, id types.IssueID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.issues[id]; !exists {
		return goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
	}
	delete(m.issues, id)
	return nil
}

// PutUser creates or replaces an account, keyed by e-mail
func (m *Memory) PutUser(ctx context.Context, user *model.Account) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.Email == "" {
		return goerr.New("user email is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := *user
	m.users[strings.ToLower(user.Email)] = &c
	return nil
}

// GetUserByEmail retrieves an account; e-mail comparison ignores case
func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[strings.ToLower(email)]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("email", email))
	}
	c := *user
	return &c, nil
}

// PutImage stores an uploaded image
func (m *Memory) PutImage(ctx context.Context, image *model.Image) error {
	if image == nil || image.Name == "" {
		return goerr.New("image name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := *image
	m.images[image.Name] = &c
	return nil
}

// GetImage retrieves an uploaded image by name
func (m *Memory) GetImage(ctx context.Context, name string) (*model.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	image, exists := m.images[name]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "image not found", goerr.V("name", name))
	}
	c := *image
	return &c, nil
}

// Count returns the number of stored issues
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.issues)
}
