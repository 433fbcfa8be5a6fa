package session

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/validator"
)

const (
	MsgLoginFailed    = "Unable to login. Please check your credentials."
	MsgRegisterFailed = "Unable to create your account. Please try again."
	MsgProfileFailed  = "Unable to load your profile."
	// MsgResetSent never reveals whether the address is registered.
	MsgResetSent = "If an account exists for that email, a reset link has been sent."
)

var errNoToken = stderrors.New("login response carried no token")

// AuthAPI is the slice of the remote API the session flows need.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) error
	ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error
	Me(ctx context.Context) (*model.User, error)
}

// Manager runs the login, registration, password reset and logout flows. It
// is the single writer of the Session.
type Manager struct {
	session   *Session
	api       AuthAPI
	validator validator.Validator
	logger    *zerolog.Logger
}

func NewManager(session *Session, api AuthAPI, logger *zerolog.Logger) (*Manager, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	v, err := validator.New(validator.Config{
		Messages: map[string]string{"eqfield": "Passwords do not match"},
	})
	if err != nil {
		return nil, err
	}
	return &Manager{session: session, api: api, validator: v, logger: logger}, nil
}

func (m *Manager) Session() *Session {
	return m.session
}

// Login authenticates and persists the issued token and profile.
func (m *Manager) Login(ctx context.Context, form model.LoginForm) (*model.User, error) {
	if err := m.validator.Validate(form); err != nil {
		return nil, errors.Validation(err.Error())
	}

	resp, err := m.api.Login(ctx, model.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		m.logger.Warn().Err(err).Str("email", form.Email).Msg("login failed")
		return nil, errors.WithFallback(err, MsgLoginFailed)
	}

	token := resp.BearerToken()
	if token == "" {
		return nil, errors.RequestFailed(0, MsgLoginFailed, errNoToken)
	}

	if err := m.session.Save(ctx, token, resp.User, form.Remember); err != nil {
		return nil, errors.Internal(err)
	}

	m.logger.Info().Str("user", resp.User.Email).Bool("remember", form.Remember).Msg("signed in")
	return &resp.User, nil
}

func (m *Manager) Register(ctx context.Context, form model.RegisterForm) error {
	if err := m.validator.Validate(form); err != nil {
		return errors.Validation(err.Error())
	}

	if err := m.api.Register(ctx, form.Request()); err != nil {
		m.logger.Warn().Err(err).Str("email", form.Email).Msg("registration failed")
		return errors.WithFallback(err, MsgRegisterFailed)
	}
	return nil
}

// ForgotPassword always answers with the same notice. Only a malformed
// address is reported.
func (m *Manager) ForgotPassword(ctx context.Context, form model.ForgotPasswordForm) (string, error) {
	if err := m.validator.Validate(form); err != nil {
		return "", errors.Validation(err.Error())
	}

	if err := m.api.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: form.Email}); err != nil {
		m.logger.Warn().Err(err).Msg("forgot password request failed")
	}
	return MsgResetSent, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.session.Clear(ctx); err != nil {
		return errors.Internal(err)
	}
	m.logger.Info().Msg("signed out")
	return nil
}

// DoctorID identifies the acting doctor. The profile stored at login is
// preferred; otherwise the server is asked. The token itself is never
// inspected.
func (m *Manager) DoctorID(ctx context.Context) (string, error) {
	user, err := m.session.User(ctx)
	if err != nil {
		return "", errors.Internal(err)
	}
	if user.ID != "" {
		return user.ID, nil
	}

	me, err := m.api.Me(ctx)
	if err != nil {
		return "", errors.WithFallback(err, MsgProfileFailed)
	}
	if me.ID == "" {
		return "", errors.RequestFailed(0, MsgProfileFailed, nil)
	}
	if err := m.session.UpdateUser(ctx, *me); err != nil {
		m.logger.Warn().Err(err).Msg("failed to cache profile")
	}
	return me.ID, nil
}
