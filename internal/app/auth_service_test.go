package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdrop-tracker/internal/model"
	"airdrop-tracker/internal/pkg/jwtutil"
	"airdrop-tracker/internal/pkg/passhash"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeEventPublisher, *fakeUserCache) {
	t.Helper()

	issuer, err := jwtutil.NewIssuer("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	users := newFakeUserStore()
	events := &fakeEventPublisher{}
	userCache := newFakeUserCache()

	// Low argon2 cost keeps the suite fast; the parameters travel inside
	// each hash so verification still works.
	hasher := passhash.New(passhash.Params{Time: 1, MemoryKB: 8 * 1024, Threads: 1})

	service := NewAuthService(users, hasher, issuer, userCache, events)
	return service, users, events, userCache
}

func register(t *testing.T, service *AuthService, username, email, password string) *RegisterResult {
	t.Helper()
	result, err := service.Register(RegisterInput{Username: username, Email: email, Password: password})
	require.NoError(t, err)
	return result
}

func TestRegister_FirstUserIsBootstrapAdmin(t *testing.T) {
	service, _, events, _ := newTestAuthService(t)

	first := register(t, service, "alice", "alice@x.com", "password1")
	assert.True(t, first.Bootstrap)
	assert.True(t, first.User.IsAdmin)
	assert.True(t, first.User.IsApproved)
	assert.NotEmpty(t, first.User.ID)

	second := register(t, service, "bob", "bob@x.com", "password2")
	assert.False(t, second.Bootstrap)
	assert.False(t, second.User.IsAdmin)
	assert.False(t, second.User.IsApproved)

	assert.Equal(t, []string{model.AuditRegistered, model.AuditRegistered}, events.actions())
}

func TestRegister_PasswordNeverStoredPlain(t *testing.T) {
	service, users, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")

	stored, err := users.GetByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotContains(t, stored.PasswordHash, "password1")
	assert.Contains(t, stored.PasswordHash, "$argon2id$")
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")

	_, err := service.Register(RegisterInput{Username: "alice", Email: "other@x.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = service.Register(RegisterInput{Username: "alice2", Email: "alice@x.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_DuplicateKeyFromRacedInsert(t *testing.T) {
	// Two concurrent registrations can both pass the existence checks; the
	// storage unique index then rejects the second insert and the service
	// must still answer with a conflict, not a server error.
	service, users, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")

	// Bypass the service to plant a row the next Register call cannot see
	// before its insert.
	hashServiceCantSee := "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$a2V5a2V5"
	raced := &model.User{ID: "raced", Username: "carol", Email: "carol@x.com", PasswordHash: hashServiceCantSee}
	require.NoError(t, users.Create(raced))

	_, err := service.Register(RegisterInput{Username: "carol", Email: "carol2@x.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = service.Register(RegisterInput{Username: "carol2", Email: "carol@x.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_InvalidInput(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	for _, input := range []RegisterInput{
		{Username: "", Email: "a@x.com", Password: "password1"},
		{Username: "alice", Email: "", Password: "password1"},
		{Username: "alice", Email: "a@x.com", Password: "short"},
	} {
		_, err := service.Register(input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestLogin_Success(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	registered := register(t, service, "alice", "alice@x.com", "password1")

	result, err := service.Login(LoginInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, registered.User.ID, result.User.ID)
}

func TestLogin_WrongPasswordAndUnknownUserAreIdentical(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")

	_, wrongPassErr := service.Login(LoginInput{Username: "alice", Password: "not-the-password"})
	_, noUserErr := service.Login(LoginInput{Username: "nobody", Password: "password1"})

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredential)
	assert.ErrorIs(t, noUserErr, ErrInvalidCredential)
	assert.Equal(t, wrongPassErr.Error(), noUserErr.Error())
}

func TestLogin_PendingUserIsForbiddenNotUnauthorized(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")
	register(t, service, "bob", "bob@x.com", "password2")

	_, err := service.Login(LoginInput{Username: "bob", Password: "password2"})
	assert.ErrorIs(t, err, ErrPendingApproval)
	assert.NotErrorIs(t, err, ErrInvalidCredential)
}

func TestResolveToken_Success(t *testing.T) {
	service, _, _, userCache := newTestAuthService(t)

	registered := register(t, service, "alice", "alice@x.com", "password1")
	login, err := service.Login(LoginInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	resolved, err := service.ResolveToken(context.Background(), login.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resolved.ID)

	// The resolved user lands in the cache for the next request.
	cached, hit, err := userCache.Get(context.Background(), registered.User.ID)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, registered.User.ID, cached.ID)
}

func TestResolveToken_InvalidToken(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	_, err := service.ResolveToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, jwtutil.ErrInvalidToken)
}

func TestResolveToken_SubjectGone(t *testing.T) {
	service, users, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")
	registered := register(t, service, "bob", "bob@x.com", "password2")

	// A valid token for an account that was deleted afterwards.
	issuer, err := jwtutil.NewIssuer("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Issue(registered.User.ID)
	require.NoError(t, err)

	_, err = users.Delete(registered.User.ID)
	require.NoError(t, err)

	_, err = service.ResolveToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveToken_PendingUser(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	register(t, service, "alice", "alice@x.com", "password1")
	pending := register(t, service, "bob", "bob@x.com", "password2")

	issuer, err := jwtutil.NewIssuer("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Issue(pending.User.ID)
	require.NoError(t, err)

	_, err = service.ResolveToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrPendingApproval)
}

func TestRegister_StoreFailureSurfaces(t *testing.T) {
	service, users, _, _ := newTestAuthService(t)

	users.createErr = errStoreDown
	_, err := service.Register(RegisterInput{Username: "alice", Email: "alice@x.com", Password: "password1"})
	assert.ErrorIs(t, err, errStoreDown)
}
