package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/charting-service/internal/api/http/handlers"
	"github.com/spec-kit/charting-service/internal/auth"
	"github.com/spec-kit/charting-service/internal/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testServer struct {
	app      *fiber.App
	tokens   *auth.TokenManager
	accounts *fakeAccounts
	patients *fakePatients
	vitals   *fakeVitals
	charting *fakeCharting
}

func newTestServer(t *testing.T, requirePatientAuth bool) *testServer {
	t.Helper()

	tokens, err := auth.NewTokenManager(auth.TokenConfig{Secret: testSecret, TTL: time.Hour})
	require.NoError(t, err)

	nurse := &domain.Account{ID: 1, Email: "ada@x.com", FirstName: "Ada", LastName: "Lovelace", Role: domain.RoleNurse, Active: true}
	admin := &domain.Account{ID: 2, Email: "root@x.com", FirstName: "Root", Role: domain.RoleAdmin, Active: true}
	s := &testServer{
		tokens: tokens,
		accounts: &fakeAccounts{
			byEmail: map[string]*domain.Account{nurse.Email: nurse, admin.Email: admin},
			active:  map[string]bool{},
		},
		patients: &fakePatients{},
		vitals:   &fakeVitals{},
		charting: &fakeCharting{},
	}

	logger := zap.NewNop()
	s.app = fiber.New()
	RegisterMiddlewares(s.app, logger, nil, time.Second, []string{"http://localhost:3000"})
	RegisterRoutes(s.app, RouteConfig{
		Health:             handlers.NewHealthHandler("charting-service", "test", nil),
		Auth:               handlers.NewAuthHandler(s.accounts, nil, logger),
		Patients:           handlers.NewPatientsHandler(s.patients),
		Clinical:           handlers.NewClinicalHandler(fakeClinical{}),
		Vitals:             handlers.NewVitalsHandler(s.vitals),
		Charting:           handlers.NewChartingHandler(s.charting),
		Gate:               auth.NewGate(tokens, nil, logger),
		Accounts:           s.accounts,
		RequirePatientAuth: requirePatientAuth,
	})
	return s
}

func (s *testServer) tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, _, err := s.tokens.Issue(s.accounts.byEmail[email])
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Error.Code
}

func TestPatients_RequireIdentityWhenEnforced(t *testing.T) {
	s := newTestServer(t, true)

	resp, body := s.do(t, "GET", "/patients", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	resp, _ = s.do(t, "GET", "/patients", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, "GET", "/patients", s.tokenFor(t, "ada@x.com"), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestPatients_AnonymousReachesHandlerWhenNotEnforced(t *testing.T) {
	s := newTestServer(t, false)
	s.patients.count = 3

	resp, body := s.do(t, "GET", "/patients/count", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3", string(body))

	resp, _ = s.do(t, "GET", "/patients/count", "garbage", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "the gate classifies but never rejects")
}

func TestGetPatient_Errors(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, "GET", "/patients/42", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PATIENT_NOT_FOUND", errorCode(t, body))

	resp, body = s.do(t, "GET", "/patients/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))
}

func TestCreatePatient(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, "POST", "/patients", "", `{"firstName":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	resp, body = s.do(t, "POST", "/patients", "",
		`{"firstName":"Ada","lastName":"Lovelace","dateOfBirth":"1950-12-10","gender":"F"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Ada Lovelace", created["fullName"])
	assert.Equal(t, "1950-12-10", created["dateOfBirth"])
}

func TestAdmittedBetween_RejectsBadFormat(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, "GET", "/patients/admitted?startDate=2024-01-01&endDate=2024-02-01", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, "GET", "/patients/admitted?startDate=2024-01-01%2000:00:00&endDate=2024-02-01%2000:00:00", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVitals_RecordAttributesAuthenticatedCaller(t *testing.T) {
	s := newTestServer(t, true)

	resp, _ := s.do(t, "POST", "/patients/5/vitals", s.tokenFor(t, "ada@x.com"), `{"pulse":72,"userName":"Someone Else"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, s.vitals.lastRecorder)
	assert.Equal(t, int64(1), s.vitals.lastRecorder.UserID)
	assert.Equal(t, "Ada Lovelace", s.vitals.lastRecorder.UserName)
}

func TestVitals_AnonymousRecorderFallsBackToBody(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, "POST", "/patients/5/vitals", "", `{"pulse":72}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, s.vitals.lastRecorder)

	resp, body := s.do(t, "POST", "/patients/5/vitals", "", `{"painLevel":12}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))
}

func TestVitals_ReadEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, "GET", "/patients/5/vitals/latest", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{}`, string(body))

	resp, _ = s.do(t, "GET", "/patients/5/vitals", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, s.vitals.lastLimit)

	s.do(t, "GET", "/patients/5/vitals?limit=3", "", "")
	assert.Equal(t, 3, s.vitals.lastLimit)

	_, body = s.do(t, "GET", "/patients/5/vitals/count", "", "")
	assert.JSONEq(t, `{"count":4}`, string(body))
}

func TestCharting_SaveCarriesActor(t *testing.T) {
	s := newTestServer(t, true)

	resp, body := s.do(t, "POST", "/patients/5/charting", s.tokenFor(t, "ada@x.com"), `{"title":"Wounds","items":["Dressing"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ada@x.com", s.charting.lastActor.Email)
	assert.Contains(t, string(body), `"Dressing"`)

	resp, body = s.do(t, "DELETE", "/patients/5/charting/9", s.tokenFor(t, "ada@x.com"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "CHARTING_NOT_FOUND", errorCode(t, body))
}

func TestClinical_Routes(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, "POST", "/patients/5/allergies", "", `{"allergen":"Penicillin","severity":"severe"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, "DELETE", "/patients/5/allergies/3", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "CLINICAL_RECORD_NOT_FOUND", errorCode(t, body))

	resp, _ = s.do(t, "POST", "/patients/5/medications", "", `{"medicationName":"Aspirin","dosage":"81mg","route":"PO","frequency":"daily"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = s.do(t, "POST", "/patients/5/diagnoses/2/resolve", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSetActive_RequiresAdmin(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, "PATCH", "/auth/accounts/ada@x.com/active", "", `{"active":false}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do(t, "PATCH", "/auth/accounts/ada@x.com/active", s.tokenFor(t, "ada@x.com"), `{"active":false}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, _ = s.do(t, "PATCH", "/auth/accounts/ada@x.com/active", s.tokenFor(t, "root@x.com"), `{"active":false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, s.accounts.active["ada@x.com"])

	resp, body = s.do(t, "PATCH", "/auth/accounts/ghost@x.com/active", s.tokenFor(t, "root@x.com"), `{"active":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", errorCode(t, body))
}

func TestAuthEnvelopes(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, "POST", "/auth/login", "", `{"email":"ada@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"invalid email or password"}`, string(body))

	resp, body = s.do(t, "POST", "/auth/register", "", `{"email":"ada@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"email already registered"}`, string(body))

	resp, body = s.do(t, "POST", "/auth/validate", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"valid":false,"message":"Invalid token"}`, string(body))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, "GET", "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestPanicIsRecovered(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0, nil)
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, raw))
}

func TestHealthReady_NoDependencies(t *testing.T) {
	s := newTestServer(t, false)
	resp, _ := s.do(t, "GET", "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
