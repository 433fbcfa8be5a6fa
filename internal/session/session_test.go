package session

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

type fakeAuthAPI struct {
	loginResp  *model.LoginResponse
	loginErr   error
	registered []model.RegisterRequest
	forgotErr  error
	me         *model.User
	meErr      error
	meCalls    int
}

func (f *fakeAuthAPI) Login(_ context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if req.Email != "doc@example.com" || req.Password != "secret" {
		return nil, errors.RequestFailed(401, "", nil)
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, req model.RegisterRequest) error {
	f.registered = append(f.registered, req)
	return nil
}

func (f *fakeAuthAPI) ForgotPassword(context.Context, model.ForgotPasswordRequest) error {
	return f.forgotErr
}

func (f *fakeAuthAPI) Me(context.Context) (*model.User, error) {
	f.meCalls++
	return f.me, f.meErr
}

func newTestManager(t *testing.T, api *fakeAuthAPI) *Manager {
	t.Helper()
	m, err := NewManager(New(NewMemoryStore()), api, nil)
	require.NoError(t, err)
	return m
}

func TestLoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginResp: &model.LoginResponse{
		Token: "legacy-token",
		User:  model.User{ID: "d1", FullName: "Dr. Jane Doe", Email: "doc@example.com"},
	}}
	m := newTestManager(t, api)

	user, err := m.Login(ctx, model.LoginForm{Email: "doc@example.com", Password: "secret", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, "d1", user.ID)

	token, err := m.Session().Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", token)

	stored, err := m.Session().User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Jane Doe", stored.FullName)

	remembered, err := m.Session().Remembered(ctx)
	require.NoError(t, err)
	assert.True(t, remembered)
}

// failingStore rejects writes of one key.
type failingStore struct {
	Store
	key string
}

func (s failingStore) Set(ctx context.Context, key, value string) error {
	if key == s.key {
		return stderrors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func TestSaveLeavesNoTokenWhenProfileFails(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	require.NoError(t, mem.Set(ctx, KeyAccessToken, "old-token"))

	s := New(failingStore{Store: mem, key: KeyUser})
	err := s.Save(ctx, "new-token", model.User{ID: "d1"}, false)
	require.Error(t, err)

	valid, err := s.Valid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
	_, ok, err := mem.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginFailureUsesFallbackMessage(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, &fakeAuthAPI{})

	_, err := m.Login(ctx, model.LoginForm{Email: "doc@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, MsgLoginFailed, errors.MessageOr(err, ""))

	valid, err := m.Session().Valid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestLoginKeepsServerMessage(t *testing.T) {
	api := &fakeAuthAPI{loginErr: errors.RequestFailed(401, "Invalid credentials", nil)}
	m := newTestManager(t, api)

	_, err := m.Login(context.Background(), model.LoginForm{Email: "doc@example.com", Password: "secret"})
	assert.Equal(t, "Invalid credentials", errors.MessageOr(err, ""))
}

func TestLoginValidatesForm(t *testing.T) {
	m := newTestManager(t, &fakeAuthAPI{})

	_, err := m.Login(context.Background(), model.LoginForm{Email: "not-an-email", Password: "secret"})
	assert.True(t, errors.IsValidation(err))
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	api := &fakeAuthAPI{}
	m := newTestManager(t, api)

	err := m.Register(context.Background(), model.RegisterForm{
		FullName:        "Dr. Jane Doe",
		Email:           "doc@example.com",
		Password:        "password1",
		ConfirmPassword: "password2",
		AcceptTerms:     true,
	})
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, api.registered)

	err = m.Register(context.Background(), model.RegisterForm{
		FullName:        "Dr. Jane Doe",
		Email:           "doc@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		AcceptTerms:     true,
	})
	require.NoError(t, err)
	require.Len(t, api.registered, 1)
	assert.Equal(t, "Dr. Jane Doe", api.registered[0].FullName)
}

func TestForgotPasswordIsNonCommittal(t *testing.T) {
	api := &fakeAuthAPI{forgotErr: errors.RequestFailed(404, "No such user", nil)}
	m := newTestManager(t, api)

	msg, err := m.ForgotPassword(context.Background(), model.ForgotPasswordForm{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Equal(t, MsgResetSent, msg)
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginResp: &model.LoginResponse{AccessToken: "tok", User: model.User{ID: "d1"}}}
	m := newTestManager(t, api)

	_, err := m.Login(ctx, model.LoginForm{Email: "doc@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	valid, err := m.Session().Valid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)

	user, err := m.Session().User(ctx)
	require.NoError(t, err)
	assert.Empty(t, user.ID)
}

func TestDoctorIDPrefersStoredProfile(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{}
	m := newTestManager(t, api)
	require.NoError(t, m.Session().Save(ctx, "tok", model.User{ID: "d1"}, false))

	id, err := m.DoctorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d1", id)
	assert.Zero(t, api.meCalls)
}

func TestDoctorIDFallsBackToProfileEndpoint(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{me: &model.User{ID: "d2", FullName: "Dr. Bo"}}
	m := newTestManager(t, api)
	require.NoError(t, m.Session().Save(ctx, "tok", model.User{}, false))

	id, err := m.DoctorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d2", id)

	id, err = m.DoctorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d2", id)
	assert.Equal(t, 1, api.meCalls)
}

func TestDoctorIDFailure(t *testing.T) {
	api := &fakeAuthAPI{meErr: errors.RequestFailed(500, "", nil)}
	m := newTestManager(t, api)

	_, err := m.DoctorID(context.Background())
	assert.Equal(t, MsgProfileFailed, errors.MessageOr(err, ""))
}

func TestGuard(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())
	guard := NewGuard(s, nil)

	assert.True(t, errors.IsUnauthenticated(guard.Enter(ctx)))

	require.NoError(t, s.Save(ctx, "tok", model.User{ID: "d1"}, false))
	assert.NoError(t, guard.Enter(ctx))

	require.NoError(t, s.Clear(ctx))
	assert.True(t, errors.IsUnauthenticated(guard.Enter(ctx)))
}
