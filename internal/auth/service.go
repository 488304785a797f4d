package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/shinehub-server/internal/core"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password or a token don't check out.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInviteCode is returned when registration is attempted without the school code.
	ErrInvalidInviteCode = errors.New("invalid invite code")
	// ErrUserExists is returned when trying to register with existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidInput is returned when registration fields fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBanned is returned when a banned account logs in.
	ErrBanned = errors.New("account banned")
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name       string `validate:"required,max=64"`
	Class      string `validate:"required,max=16"`
	Section    string `validate:"required,max=8"`
	Username   string `validate:"required,min=3,max=32"`
	Password   string `validate:"required,min=6,max=72"`
	InviteCode string `validate:"required"`
}

// Options holds the registration policy.
type Options struct {
	InviteCode    string
	AdminUsername string
}

// Service provides authentication operations and verifies websocket credentials.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
	opts      Options
	validate  *validator.Validate
}

var _ core.Verifier = (*Service)(nil)

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig, opts Options) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
		opts:      opts,
		validate:  validator.New(),
	}
}

// Register creates a new account and returns a JWT token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, *store.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)

	if in.InviteCode != s.opts.InviteCode {
		return "", nil, ErrInvalidInviteCode
	}
	if err := s.validate.Struct(in); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}

	role := store.RoleUser
	if s.opts.AdminUsername != "" && in.Username == s.opts.AdminUsername {
		role = store.RoleAdmin
	}

	user, err := s.store.CreateUser(ctx, store.NewUser{
		Name:         in.Name,
		Class:        strings.TrimSpace(in.Class),
		Section:      strings.TrimSpace(in.Section),
		Username:     in.Username,
		PasswordHash: hashedPassword,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return "", nil, ErrUserExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Login validates credentials and returns a JWT token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *store.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if !passwordMatches(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	if user.IsBanned {
		return "", nil, ErrBanned
	}

	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		return "", nil, fmt.Errorf("touch last login: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}

// Verify turns a bearer token into an identity. Tokens of deleted or banned
// accounts are rejected even while their signature is still valid.
func (s *Service) Verify(ctx context.Context, tokenString string) (core.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return core.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Identity{}, ErrInvalidCredentials
		}
		return core.Identity{}, fmt.Errorf("get user: %w", err)
	}
	if user.IsBanned {
		return core.Identity{}, ErrBanned
	}

	return core.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     core.Role(user.Role),
	}, nil
}
