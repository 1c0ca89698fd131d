package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTokenTTL is the validity of issued tokens
	DefaultTokenTTL = 24 * time.Hour

	claimName = "name"
	claimRole = "role"
)

// Auth implements AuthUseCase with HS256 tokens and bcrypt password hashes
type Auth struct {
	repo   interfaces.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// AuthOption configures Auth
type AuthOption func(*Auth)

// WithTokenSecret sets the HMAC key. A random key is used by default.
func WithTokenSecret(secret []byte) AuthOption {
	return func(a *Auth) {
		a.secret = secret
	}
}

// WithTokenTTL sets the token validity
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(a *Auth) {
		a.ttl = ttl
	}
}

// WithAuthClock replaces time.Now
func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *Auth) {
		a.now = now
	}
}

// NewAuth creates a new Auth use case
func NewAuth(ctx context.Context, repo interfaces.Repository, opts ...AuthOption) (*Auth, error) {
	a := &Auth{
		repo: repo,
		ttl:  DefaultTokenTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	if len(a.secret) == 0 {
		a.secret = make([]byte, 32)
		if _, err := rand.Read(a.secret); err != nil {
			return nil, goerr.Wrap(err, "failed to generate token secret")
		}
	}
	return a, nil
}

var _ AuthUseCase = (*Auth)(nil)

// Register creates a citizen account
func (a *Auth) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	return a.createAccount(ctx, reg, types.RoleCitizen)
}

// CreateAdmin creates an admin account
func (a *Auth) CreateAdmin(ctx context.Context, reg *model.Registration) (*model.User, error) {
	return a.createAccount(ctx, reg, types.RoleAdmin)
}

func (a *Auth) createAccount(ctx context.Context, reg *model.Registration, role types.Role) (*model.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	_, err := a.repo.GetUserByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return nil, goerr.Wrap(ErrEmailTaken, "register", goerr.V("email", reg.Email))
	case !errors.Is(err, repository.ErrNotFound):
		return nil, goerr.Wrap(err, "failed to look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	account := &model.Account{
		ID:           types.UserID(uuid.NewString()),
		Name:         reg.Name,
		Email:        strings.ToLower(reg.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    a.now(),
	}
	if err := a.repo.PutUser(ctx, account); err != nil {
		return nil, goerr.Wrap(err, "failed to save user")
	}

	ctxlog.From(ctx).Info("Created account",
		"userID", account.ID,
		"role", role,
	)

	return &model.User{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
	}, nil
}

// Login checks credentials and issues a token
func (a *Auth) Login(ctx context.Context, cred *model.Credentials) (*model.LoginResult, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	account, err := a.repo.GetUserByEmail(ctx, cred.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerr.Wrap(err, "failed to look up user")
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(cred.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := a.issueToken(account)
	if err != nil {
		return nil, err
	}

	return &model.LoginResult{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
		Token: token,
	}, nil
}

func (a *Auth) issueToken(account *model.Account) (string, error) {
	now := a.now()
	tok, err := jwt.NewBuilder().
		Subject(account.ID.String()).
		IssuedAt(now).
		Expiration(now.Add(a.ttl)).
		Claim(claimName, account.Name).
		Claim(claimRole, account.Role.String()).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, a.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return string(signed), nil
}

// Authenticate verifies the token signature and expiry
func (a *Auth) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	parsed, err := jwt.ParseString(token,
		jwt.WithKey(jwa.HS256, a.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(a.now)),
	)
	if err != nil {
		ctxlog.From(ctx).Debug("Token rejected", "error", err)
		return nil, ErrUnauthorized
	}

	user := &model.User{ID: types.UserID(parsed.Subject())}
	if v, ok := parsed.Get(claimName); ok {
		user.Name, _ = v.(string)
	}
	if v, ok := parsed.Get(claimRole); ok {
		role, _ := v.(string)
		user.Role = types.Role(role)
	}
	return user, nil
}
