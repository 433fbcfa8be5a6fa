package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type birthForm struct {
	DateOfBirth string `json:"dateOfBirth" validate:"required,isodate,notfuture"`
}

type passwordForm struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
}

func newDateValidator(t *testing.T) Validator {
	v, err := New(Config{CustomValidators: DateRules(fixedClock)})
	require.NoError(t, err)
	return v
}

func TestValidateBirthDate(t *testing.T) {
	v := newDateValidator(t)

	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "past date", value: "1990-01-01"},
		{name: "today", value: "2024-05-10"},
		{name: "iso timestamp", value: "1990-01-01T00:00:00.000Z"},
		{name: "tomorrow", value: "2024-05-11", wantErr: "Date of birth cannot be a future date"},
		{name: "wrong layout", value: "01/02/1990", wantErr: "Date of birth must be a date in YYYY-MM-DD format"},
		{name: "missing", value: "", wantErr: "Date of birth is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(birthForm{DateOfBirth: tt.value})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidateMessages(t *testing.T) {
	v, err := New(Config{Messages: map[string]string{"eqfield": "Passwords do not match"}})
	require.NoError(t, err)

	err = v.Validate(passwordForm{Password: "short", ConfirmPassword: "short"})
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters long", err.Error())

	err = v.Validate(passwordForm{Password: "long enough", ConfirmPassword: "different"})
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", err.Error())

	assert.NoError(t, v.Validate(passwordForm{Password: "long enough", ConfirmPassword: "long enough"}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Date of birth", Label("dateOfBirth"))
	assert.Equal(t, "Email", Label("email"))
	assert.Equal(t, "Emergency contact phone", Label("emergencyContactPhone"))
}
