package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/admin-console/internal/config"
	"github.com/jwalitptl/admin-console/internal/email"
	"github.com/jwalitptl/admin-console/internal/handler/appointment"
	"github.com/jwalitptl/admin-console/internal/handler/auth"
	"github.com/jwalitptl/admin-console/internal/handler/health"
	"github.com/jwalitptl/admin-console/internal/handler/patient"
	promHandler "github.com/jwalitptl/admin-console/internal/handler/prometheus"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/internal/repository/memory"
	"github.com/jwalitptl/admin-console/internal/router"
	appointmentService "github.com/jwalitptl/admin-console/internal/service/appointment"
	authService "github.com/jwalitptl/admin-console/internal/service/auth"
	patientService "github.com/jwalitptl/admin-console/internal/service/patient"
	jwtauth "github.com/jwalitptl/admin-console/pkg/auth"
	"github.com/jwalitptl/admin-console/pkg/security"
)

type apiResponse struct {
	Code int
	Body map[string]interface{}
	List []interface{}
}

func (r apiResponse) GetString(key string) string {
	s, _ := r.Body[key].(string)
	return s
}

type testAPI struct {
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	nop := zerolog.Nop()
	repos := memory.New()
	jwtSvc := jwtauth.NewJWTService("test-secret", "hospitalis", time.Hour)
	authSvc := authService.NewService(repos.Doctors, repos.ResetTokens, jwtSvc,
		security.NewBcryptHasher(bcrypt.MinCost), email.NewService(config.SMTPConfig{}, &nop), &nop)
	patientSvc := patientService.NewService(repos.Patients, 100, &nop)
	appointmentSvc := appointmentService.NewService(repos.Appointments, repos.Patients, repos.Doctors, 100, &nop)

	r := router.NewRouter(
		router.RouterConfig{Timeout: 5 * time.Second},
		middleware.NewAuthMiddleware(authSvc),
		auth.NewHandler(authSvc),
		patient.NewHandler(patientSvc),
		appointment.NewHandler(appointmentSvc),
		health.NewHandler(nil),
		promHandler.New(nil),
		nil,
	)
	r.Setup()
	return &testAPI{engine: r.Engine()}
}

func (a *testAPI) makeRequest(t *testing.T, method, path string, body interface{}, token string) apiResponse {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	resp := apiResponse{Code: w.Code}
	raw := bytes.TrimSpace(w.Body.Bytes())
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &resp.List))
	} else if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &resp.Body))
	}
	return resp
}

// signIn registers a doctor and returns the issued token and doctor id.
func (a *testAPI) signIn(t *testing.T) (string, string) {
	t.Helper()

	resp := a.makeRequest(t, http.MethodPost, "/auth/register", map[string]interface{}{
		"fullName":  "Dr. Jane Doe",
		"email":     "jane@example.com",
		"password":  "password123",
		"specialty": "Cardiology",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)
	doctorID := resp.GetString("_id")
	require.NotEmpty(t, doctorID)

	resp = a.makeRequest(t, http.MethodPost, "/auth/login", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body)
	token := resp.GetString("accessToken")
	require.NotEmpty(t, token)
	return token, doctorID
}

func (a *testAPI) createPatient(t *testing.T, token, first string) string {
	t.Helper()

	resp := a.makeRequest(t, http.MethodPost, "/patients", map[string]interface{}{
		"firstName":   first,
		"lastName":    "Lee",
		"dateOfBirth": "1990-01-01",
		"gender":      "female",
		"email":       fmt.Sprintf("%s@example.com", first),
		"allergies":   []string{"penicillin"},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)
	return resp.GetString("_id")
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	resp := api.makeRequest(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "UP", resp.GetString("status"))

	resp = api.makeRequest(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token, doctorID := api.signIn(t)

	resp := api.makeRequest(t, http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, doctorID, resp.GetString("_id"))
	assert.Equal(t, "Dr. Jane Doe", resp.GetString("fullName"))

	resp = api.makeRequest(t, http.MethodPost, "/auth/register", map[string]interface{}{
		"fullName": "Dr. Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "error", resp.GetString("status"))

	resp = api.makeRequest(t, http.MethodPost, "/auth/login", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid email or password", resp.GetString("message"))
}

func TestForgotPasswordSameAnswer(t *testing.T) {
	api := newTestAPI(t)
	api.signIn(t)

	known := api.makeRequest(t, http.MethodPost, "/auth/forgot-password", map[string]interface{}{"email": "jane@example.com"}, "")
	unknown := api.makeRequest(t, http.MethodPost, "/auth/forgot-password", map[string]interface{}{"email": "nobody@example.com"}, "")

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.GetString("message"), unknown.GetString("message"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	resp := api.makeRequest(t, http.MethodGet, "/patients", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "missing authorization header", resp.GetString("message"))

	resp = api.makeRequest(t, http.MethodGet, "/patients", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "invalid token", resp.GetString("message"))
}

func TestPatientFlow(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signIn(t)

	annID := api.createPatient(t, token, "Ann")
	api.createPatient(t, token, "Bo")
	require.NotEmpty(t, annID)

	resp := api.makeRequest(t, http.MethodGet, "/patients?search=ann&page=1&limit=10", nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(1), resp.Body["total"])
	assert.Equal(t, float64(1), resp.Body["page"])
	assert.Equal(t, float64(10), resp.Body["limit"])
	require.Len(t, resp.Body["data"], 1)

	resp = api.makeRequest(t, http.MethodGet, "/patients/"+annID, nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Ann", resp.GetString("firstName"))
	assert.Equal(t, "active", resp.GetString("status"))
	assert.Equal(t, []interface{}{"penicillin"}, resp.Body["allergies"])

	resp = api.makeRequest(t, http.MethodPatch, "/patients/"+annID, map[string]interface{}{"status": "inpatient"}, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "inpatient", resp.GetString("status"))
	assert.Equal(t, "Lee", resp.GetString("lastName"))

	resp = api.makeRequest(t, http.MethodPost, "/patients", map[string]interface{}{
		"firstName":   "Future",
		"lastName":    "Kid",
		"dateOfBirth": time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		"gender":      "male",
		"email":       "future@example.com",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Date of birth cannot be a future date", resp.GetString("message"))

	resp = api.makeRequest(t, http.MethodDelete, "/patients/"+annID, nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.makeRequest(t, http.MethodGet, "/patients/"+annID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "error", resp.GetString("status"))
}

func TestAppointmentFlow(t *testing.T) {
	api := newTestAPI(t)
	token, doctorID := api.signIn(t)
	patientID := api.createPatient(t, token, "Ann")
	today := time.Now().Format("2006-01-02")

	resp := api.makeRequest(t, http.MethodPost, "/appointments", map[string]interface{}{
		"patientId": patientID,
		"doctorId":  doctorID,
		"date":      today,
		"startTime": "10:00",
		"endTime":   "09:30",
		"reason":    "Checkup",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "End time must be after start time", resp.GetString("message"))

	resp = api.makeRequest(t, http.MethodPost, "/appointments", map[string]interface{}{
		"patientId": patientID,
		"doctorId":  doctorID,
		"date":      today,
		"startTime": "10:00",
		"endTime":   "10:30",
		"reason":    "Checkup",
	}, token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)
	appointmentID := resp.GetString("_id")
	assert.Equal(t, "scheduled", resp.GetString("status"))
	patientRef, _ := resp.Body["patientId"].(map[string]interface{})
	assert.Equal(t, "Ann", patientRef["firstName"])

	resp = api.makeRequest(t, http.MethodGet, "/appointments/today", nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.List, 1)

	resp = api.makeRequest(t, http.MethodPatch, "/appointments/"+appointmentID, map[string]interface{}{"status": "completed"}, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "completed", resp.GetString("status"))

	resp = api.makeRequest(t, http.MethodGet, "/appointments?status=completed", nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(1), resp.Body["total"])

	resp = api.makeRequest(t, http.MethodPatch, "/appointments/"+appointmentID, map[string]interface{}{"status": "bogus"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = api.makeRequest(t, http.MethodDelete, "/appointments/"+appointmentID, nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.makeRequest(t, http.MethodGet, "/appointments/"+appointmentID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
