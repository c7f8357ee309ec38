package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// AccountService handles signup, login and session lifecycle.
type AccountService struct {
	users      UserStore
	sessions   SessionStore
	tokens     *auth.TokenIssuer
	metrics    metrics.Recorder
	now        Clock
	sampleData bool
}

// NewAccountService creates a new AccountService. New accounts are seeded
// with sample data unless disabled with WithSampleData.
func NewAccountService(users UserStore, sessions SessionStore, tokens *auth.TokenIssuer, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		metrics:    recorder,
		now:        time.Now,
		sampleData: true,
	}
}

// WithSampleData toggles seeding of new accounts.
func (s *AccountService) WithSampleData(enabled bool) *AccountService {
	s.sampleData = enabled
	return s
}

// WithClock overrides the time source.
func (s *AccountService) WithClock(now Clock) *AccountService {
	s.now = now
	return s
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token *auth.Token
	User  *model.User
}

// Signup creates an account and seeds it with sample records.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	var v ValidationError
	email := normalizeEmail(&v, input.Email)
	checkPassword(&v, input.Password)

	name := strings.TrimSpace(input.Name)
	if name == "" && email != "" {
		name = email[:strings.IndexByte(email, '@')]
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		v.Add("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	if s.sampleData {
		expenses, incomes, budgets := sampleRecords(user.ID, now)
		err = s.users.CreateAccount(ctx, user, expenses, incomes, budgets)
	} else {
		err = s.users.CreateUser(ctx, user)
	}
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.metrics.IncSignup()
	return user, nil
}

// Login checks credentials and issues a session token. Unknown emails and
// wrong passwords produce the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		var v ValidationError
		if email == "" {
			v.Add("email", "is required")
		}
		if password == "" {
			v.Add("password", "is required")
		}
		return nil, v.Err()
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.BurnVerify(password)
			s.metrics.IncLogin("failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin("failure")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLogin("success")
	return &Session{Token: token, User: user}, nil
}

// Logout revokes the session until its token would have expired anyway.
func (s *AccountService) Logout(ctx context.Context, session *model.AuthContext) error {
	if session == nil {
		return ErrUnauthorized
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.sessions.RevokeSession(ctx, session.SessionID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token into the request identity.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.AuthContext, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	revoked, err := s.sessions.IsSessionRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	return &model.AuthContext{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Me returns the profile of the authenticated user.
func (s *AccountService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func checkPassword(v *ValidationError, password string) {
	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		v.Add("password", "is required")
	case n < minPasswordLength:
		v.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case n > maxPasswordLength:
		v.Add("password", fmt.Sprintf("must be at most %d characters", maxPasswordLength))
	}
}
