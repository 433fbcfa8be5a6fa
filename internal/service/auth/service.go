package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/email"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository"
	"github.com/jwalitptl/admin-console/pkg/auth"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/security"
)

const resetTokenExpiry = 1 * time.Hour

const msgInvalidCredentials = "Invalid email or password"

type Service struct {
	doctors     repository.DoctorRepository
	resetTokens repository.ResetTokenRepository
	jwtSvc      auth.JWTService
	hasher      security.PasswordHasher
	emailSvc    email.Service
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewService(doctors repository.DoctorRepository, resetTokens repository.ResetTokenRepository,
	jwtSvc auth.JWTService, hasher security.PasswordHasher, emailSvc email.Service, logger *zerolog.Logger) *Service {
	return &Service{
		doctors:     doctors,
		resetTokens: resetTokens,
		jwtSvc:      jwtSvc,
		hasher:      hasher,
		emailSvc:    emailSvc,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if stderrors.Is(err, security.ErrPasswordTooShort) {
		return nil, errors.BadRequest(err.Error(), err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	doctor := &model.Doctor{
		User: model.User{
			ID:        uuid.New().String(),
			FullName:  strings.TrimSpace(req.FullName),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Specialty: req.Specialty,
		},
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflict("An account with this email already exists", err)
		}
		return nil, errors.Internal(err)
	}

	if err := s.emailSvc.SendWelcome(ctx, doctor.Email, doctor.FullName); err != nil {
		s.logger.Warn().Err(err).Str("doctor_id", doctor.ID).Msg("failed to send welcome email")
	}

	s.logger.Info().Str("doctor_id", doctor.ID).Msg("doctor registered")
	return &doctor.User, nil
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	doctor, err := s.doctors.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, invalidCredentials(err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	if err := s.hasher.Compare(doctor.PasswordHash, req.Password); err != nil {
		return nil, invalidCredentials(err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(doctor.ID, doctor.Email)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &model.LoginResponse{AccessToken: token, User: doctor.User}, nil
}

// ForgotPassword mails a reset link when the address is known. The result
// is the same either way.
func (s *Service) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	doctor, err := s.doctors.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Msg("forgot password lookup failed")
		}
		return nil
	}

	now := s.now()
	token := &model.ResetToken{
		Token:     uuid.New().String(),
		DoctorID:  doctor.ID,
		ExpiresAt: now.Add(resetTokenExpiry),
		CreatedAt: now,
	}
	if err := s.resetTokens.Create(ctx, token); err != nil {
		s.logger.Error().Err(err).Str("doctor_id", doctor.ID).Msg("failed to store reset token")
		return nil
	}

	if err := s.emailSvc.SendPasswordReset(ctx, doctor.Email, doctor.FullName, token.Token); err != nil {
		s.logger.Error().Err(err).Str("doctor_id", doctor.ID).Msg("failed to send reset email")
	}
	return nil
}

func (s *Service) Me(ctx context.Context, doctorID string) (*model.User, error) {
	doctor, err := s.doctors.Get(ctx, doctorID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.Unauthorized(err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &doctor.User, nil
}

// ValidateToken returns the doctor id carried by a bearer token.
func (s *Service) ValidateToken(token string) (string, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return "", errors.Unauthorized(err)
	}
	return claims.Subject, nil
}

func invalidCredentials(err error) *errors.AppError {
	appErr := errors.Unauthorized(err)
	appErr.Message = msgInvalidCredentials
	return appErr
}
