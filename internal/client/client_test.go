package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/circuitbreaker"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, srv *httptest.Server, token string, opts ...Option) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srv.URL, BreakerFailures: 2}, staticToken(token), opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost"}, nil)
	assert.Error(t, err)
}

func TestListPatientsSendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/patients", r.URL.Path)
		assert.Equal(t, "ann", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.False(t, r.URL.Query().Has("status"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"_id":"p1","firstName":"Ann","lastName":"Lee"}],"total":11,"page":2,"limit":10}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	page, err := c.ListPatients(context.Background(), model.ListQuery{
		Filters: model.Filters{Search: "ann"},
		Page:    2,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "p1", page.Data[0].ID)
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(model.LoginResponse{AccessToken: "new", User: model.User{ID: "d1"}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	resp, err := c.Login(context.Background(), model.LoginRequest{Email: "doc@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.BearerToken())
}

func TestServerMessageIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":"error","message":"Email already registered"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	err := c.Register(context.Background(), model.RegisterRequest{Email: "doc@example.com"})

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Email already registered", appErr.Message)
}

func TestTodayAppointmentsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments/today", r.URL.Path)
		_, _ = w.Write([]byte(`[{"_id":"a1","patientId":"p1","doctorId":{"_id":"d1","fullname":"Dr. Jane Doe"},"status":"scheduled"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	list, err := c.TodayAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].Patient.ID)
	assert.Equal(t, "Dr. Jane Doe", list[0].Doctor.FullName)
}

func TestUpdateAppointmentUsesPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appointments/a1", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"status": "completed"}, body)

		_, _ = w.Write([]byte(`{"_id":"a1","status":"completed"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	a, err := c.UpdateAppointment(context.Background(), "a1", model.StatusPatch(model.AppointmentStatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, a.Status)
}

func TestIDsAreEscapedOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patients/a b/c", r.URL.Path)
		assert.Equal(t, "/api/patients/a%20b%2Fc", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"_id":"a b/c","firstName":"Ann"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/api/"}, staticToken("tok"))
	require.NoError(t, err)

	p, err := c.GetPatient(context.Background(), "a b/c")
	require.NoError(t, err)
	assert.Equal(t, "a b/c", p.ID)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := metrics.NewMetrics("test", "", prometheus.NewRegistry())
	c := newTestClient(t, srv, "tok", WithMetrics(m))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.GetPatient(ctx, "p1")
		require.Error(t, err)
	}
	_, err := c.GetPatient(ctx, "p1")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.APIRejected))
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"Patient not found"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	for i := 0; i < 4; i++ {
		_, err := c.GetPatient(context.Background(), "missing")
		assert.Equal(t, "Patient not found", errors.MessageOr(err, ""))
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
}
