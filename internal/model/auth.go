package model

import (
	"time"
)

// User is the denormalized doctor profile kept in the session.
type User struct {
	ID        string `json:"_id,omitempty" db:"id"`
	FullName  string `json:"fullName" db:"full_name"`
	Email     string `json:"email" db:"email"`
	Specialty string `json:"specialty,omitempty" db:"specialty"`
}

// Doctor is the backend's stored account.
type Doctor struct {
	User
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer credential. Older backends name it
// token instead of accessToken.
type LoginResponse struct {
	AccessToken string `json:"accessToken,omitempty"`
	Token       string `json:"token,omitempty"`
	User        User   `json:"user"`
}

func (r LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

type RegisterRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Specialty string `json:"specialty,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginForm is what the login view collects.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"rememberMe"`
}

// RegisterForm is what the registration view collects.
type RegisterForm struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Specialty       string `json:"specialty"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AcceptTerms     bool   `json:"terms" validate:"eq=true"`
}

func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{
		FullName:  f.FullName,
		Email:     f.Email,
		Password:  f.Password,
		Specialty: f.Specialty,
	}
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetToken is a one-time password reset credential mailed to a doctor.
type ResetToken struct {
	Token     string    `db:"token"`
	DoctorID  string    `db:"doctor_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
