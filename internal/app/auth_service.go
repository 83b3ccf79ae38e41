package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"airdrop-tracker/internal/model"
	"airdrop-tracker/internal/pkg/jwtutil"
	"airdrop-tracker/internal/pkg/passhash"
	"airdrop-tracker/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// Registration conflicts.
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")

	// Unknown user and wrong password deliberately share one error, so a
	// caller cannot enumerate usernames from the login response.
	ErrInvalidCredential = errors.New("incorrect username or password")

	// Valid identity, but the approval gate is still closed.
	ErrPendingApproval = errors.New("account is pending admin approval")

	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the credential store contract. *repository.UserRepository
// satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id string) (*model.User, error)
	Count() (int64, error)
	SetApproved(id string) (int64, error)
	Delete(id string) (int64, error)
	DeleteWithProjects(id string) error
	ListAll() ([]model.User, error)
	ListPending() ([]model.User, error)
}

// EventPublisher pushes lifecycle audit events to the broker. Publishing is
// best-effort: a broker outage must not fail the account operation itself.
type EventPublisher interface {
	Publish(ctx context.Context, event model.AuditEvent) error
}

// UserCache holds resolved users between requests. All methods are optional
// fast paths; a nil cache or a cache error falls back to the store.
type UserCache interface {
	Get(ctx context.Context, userID string) (*model.User, bool, error)
	Set(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userID string) error
}

type AuthService struct {
	users     UserStore
	hasher    *passhash.Hasher
	tokens    *jwtutil.Issuer
	userCache UserCache
	events    EventPublisher
}

func NewAuthService(
	users UserStore,
	hasher *passhash.Hasher,
	tokens *jwtutil.Issuer,
	userCache UserCache,
	events EventPublisher,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		userCache: userCache,
		events:    events,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type RegisterResult struct {
	User *model.User
	// Bootstrap is true for the first account ever created, which is
	// auto-approved and admin-flagged.
	Bootstrap bool
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func (s *AuthService) Register(input RegisterInput) (*RegisterResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if username == "" || email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameTaken
	}

	existingByEmail, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailTaken
	}

	// Bootstrap decision happens before the insert; the very first account
	// is born approved and admin-flagged, everyone after it is pending.
	count, err := s.users.Count()
	if err != nil {
		return nil, err
	}
	bootstrap := count == 0

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsApproved:   bootstrap,
		IsAdmin:      bootstrap,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		// The unique indexes catch duplicates that raced past the checks
		// above. Re-probe to report which field collided.
		if errors.Is(err, repository.ErrDuplicateKey) {
			if byName, probeErr := s.users.GetByUsername(username); probeErr == nil && byName != nil {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	publishAudit(s.events, model.AuditRegistered, user.ID, user.ID)

	return &RegisterResult{User: user, Bootstrap: bootstrap}, nil
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredential
	}

	if !user.IsApproved {
		return nil, ErrPendingApproval
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token failed: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ResolveToken turns a bearer token into the acting user. It is the single
// entry point for the authorization middleware: jwtutil.ErrInvalidToken and
// ErrUserNotFound mean the request has no identity, ErrPendingApproval means
// the identity is real but not yet allowed in.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	var user *model.User
	if s.userCache != nil {
		if cached, hit, cacheErr := s.userCache.Get(ctx, userID); cacheErr == nil && hit {
			user = cached
		}
	}
	if user == nil {
		user, err = s.users.GetByID(userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if s.userCache != nil {
			if cacheErr := s.userCache.Set(ctx, user); cacheErr != nil {
				log.Printf("cache resolved user failed: %v", cacheErr)
			}
		}
	}

	if !user.IsApproved {
		return nil, ErrPendingApproval
	}
	return user, nil
}

func (s *AuthService) GetUserByID(id string) (*model.User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.users.GetByID(id)
}

func publishAudit(events EventPublisher, action, subjectID, actorID string) {
	if events == nil {
		return
	}
	event := model.AuditEvent{
		Action:    action,
		SubjectID: subjectID,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := events.Publish(context.Background(), event); err != nil {
		log.Printf("publish %s audit event failed: %v", action, err)
	}
}
