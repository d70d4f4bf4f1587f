package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/dashboard-service/internal/dashboard"
	"collabhub/dashboard-service/internal/jobs"
	"collabhub/dashboard-service/internal/verification"
)

// fakeOTPBackend implements verification.Sender.
type fakeOTPBackend struct {
	sendErr   error
	verifyErr error
}

func (f *fakeOTPBackend) SendOTP(ctx context.Context, token, channel string) error {
	return f.sendErr
}

func (f *fakeOTPBackend) VerifyOTP(ctx context.Context, token, channel, code string) error {
	return f.verifyErr
}

func newTestMux(api dashboard.API, otpBackend verification.Sender) *http.ServeMux {
	svc := dashboard.NewService(api, dashboard.NewStore(), nil)
	h := dashboard.NewHandler(svc, dashboard.NewViews(), verification.NewManager(otpBackend, nil))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandler_DashboardRequiresToken(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})
	w := doRequest(t, mux, http.MethodGet, "/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_DashboardPayload(t *testing.T) {
	api := &fakeAPI{
		user: jobs.User{ID: 42, FirstName: "Ada", Role: "creator", City: "Lagos"},
		jobs: []jobs.RawJob{
			{ID: 1, Title: "Edit my vlog", Status: "posted", BudgetType: "fixed", BudgetFrom: 200,
				Skills: []byte(`["Premiere"]`), ProposalsCount: 2},
		},
	}
	mux := newTestMux(api, &fakeOTPBackend{})

	w := doRequest(t, mux, http.MethodGet, "/dashboard", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out dashboard.DashboardView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, "Ada", out.WelcomeName)
	assert.Equal(t, 1, out.Counts.Active)
	require.NotNil(t, out.Summary)
	assert.Equal(t, "$200", out.Summary.BudgetLabel)
	assert.Equal(t, verification.StateIdle, out.Verification.State)
}

func TestHandler_DashboardDegradesOnBackendFailure(t *testing.T) {
	mux := newTestMux(&fakeAPI{userErr: errors.New("backend down")}, &fakeOTPBackend{})

	w := doRequest(t, mux, http.MethodGet, "/dashboard", "tok", "")
	require.Equal(t, http.StatusOK, w.Code, "job list failures degrade, they are not surfaced")

	var out dashboard.DashboardView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Empty(t, out.Jobs)
	assert.Equal(t, 0, out.Counts.Total)
}

func TestHandler_ViewAction(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})

	w := doRequest(t, mux, http.MethodPost, "/dashboard/view", "tok",
		`{"type":"toggle_skills","job_id":7}`)
	require.Equal(t, http.StatusOK, w.Code)

	var state dashboard.ViewState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.Equal(t, 7, state.ExpandedSkillsJobID)

	w = doRequest(t, mux, http.MethodPost, "/dashboard/view", "tok", `{"type":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SendOTP(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})

	w := doRequest(t, mux, http.MethodPost, "/verification/phone/send-otp", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string               `json:"message"`
		Session verification.Session `json:"session"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "OTP sent successfully", resp.Message)
	assert.Equal(t, verification.StateAwaitingCode, resp.Session.State)
	assert.True(t, resp.Session.ModalOpen)
}

func TestHandler_SendOTP_UnknownChannel(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})
	w := doRequest(t, mux, http.MethodPost, "/verification/fax/send-otp", "tok", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SendOTP_BackendFailure(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{sendErr: errors.New("smtp down")})
	w := doRequest(t, mux, http.MethodPost, "/verification/email/send-otp", "tok", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_VerifyOTP_RoundTrip(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})

	w := doRequest(t, mux, http.MethodPost, "/verification/phone/send-otp", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, mux, http.MethodPost, "/verification/phone/verify-otp", "tok", `{"otp":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string               `json:"message"`
		Session verification.Session `json:"session"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "phone verified successfully", resp.Message)
	assert.Equal(t, verification.StateVerified, resp.Session.State)
	assert.False(t, resp.Session.ModalOpen)
}

func TestHandler_VerifyOTP_EmptyCode(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})

	doRequest(t, mux, http.MethodPost, "/verification/phone/send-otp", "tok", "")
	w := doRequest(t, mux, http.MethodPost, "/verification/phone/verify-otp", "tok", `{"otp":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_VerifyOTP_WrongCode(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{verifyErr: errors.New("expired")})

	doRequest(t, mux, http.MethodPost, "/verification/email/send-otp", "tok", "")
	w := doRequest(t, mux, http.MethodPost, "/verification/email/verify-otp", "tok", `{"otp":"999999"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid OTP")
}

func TestHandler_Dismiss(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})

	doRequest(t, mux, http.MethodPost, "/verification/phone/send-otp", "tok", "")
	w := doRequest(t, mux, http.MethodPost, "/verification/dismiss", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)

	var sess verification.Session
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sess))
	assert.Equal(t, verification.StateIdle, sess.State)
}

func TestHandler_MethodChecks(t *testing.T) {
	mux := newTestMux(&fakeAPI{}, &fakeOTPBackend{})
	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/dashboard"},
		{http.MethodGet, "/dashboard/refresh"},
		{http.MethodGet, "/dashboard/view"},
		{http.MethodGet, "/verification/phone/send-otp"},
		{http.MethodGet, "/verification/dismiss"},
	}
	for _, c := range cases {
		w := doRequest(t, mux, c.method, c.path, "tok", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", c.method, c.path)
	}
}
