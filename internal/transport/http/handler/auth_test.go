package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/somsu123/peerpath-final/internal/application/auth"
	"github.com/somsu123/peerpath-final/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, req auth.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) CheckUser(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockAuthSvc) Login(ctx context.Context, req auth.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *mockAuthSvc) VerifyOTP(ctx context.Context, req auth.VerifyOTPRequest) (*domain.UserIdentity, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.UserIdentity); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) ResendOTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newTestRouter(svc auth.Service) http.Handler {
	h := NewAuthHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/check-user", h.CheckUser)
		r.Post("/login", h.Login)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/resend-otp", h.ResendOTP)
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- register ---

func TestRegister_Created(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, auth.RegisterRequest{
		Name: "Alice", Email: "a@x.edu.in", Password: "secret1",
	}).Return(domain.NextVerifyOTP, nil)

	rec := postJSON(t, newTestRouter(svc), "/api/auth/register", map[string]string{
		"name": "Alice", "email": "a@x.edu.in", "password": "secret1",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Verify_OTP", body["next"])
	svc.AssertExpectations(t)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := &mockAuthSvc{}
	rec := postJSON(t, newTestRouter(svc), "/api/auth/register", map[string]string{
		"email": "a@x.edu.in",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_InvalidJSON(t *testing.T) {
	svc := &mockAuthSvc{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("user already exists, please login: %w", domain.ErrConflict))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/register", map[string]string{
		"name": "Alice", "email": "a@x.edu.in", "password": "secret1",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "already exists")
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("password must be at least 6 characters: %w", domain.ErrBadRequest))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/register", map[string]string{
		"name": "Alice", "email": "a@x.edu.in", "password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- check-user ---

func TestCheckUser_Exists(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("CheckUser", mock.Anything, "a@x.edu.in").Return(true, nil)

	rec := postJSON(t, newTestRouter(svc), "/api/auth/check-user", map[string]string{"email": "a@x.edu.in"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["exists"])
}

func TestCheckUser_Missing(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("CheckUser", mock.Anything, "ghost@x.edu.in").Return(false, nil)

	rec := postJSON(t, newTestRouter(svc), "/api/auth/check-user", map[string]string{"email": "ghost@x.edu.in"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["exists"])
}

// --- login ---

func TestLogin_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, auth.LoginRequest{Email: "a@x.edu.in", Password: "secret1"}).
		Return(domain.NextVerifyOTP, nil)

	rec := postJSON(t, newTestRouter(svc), "/api/auth/login", map[string]string{
		"email": "a@x.edu.in", "password": "secret1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Verify_OTP", body["next"])
}

func TestLogin_UserNotFound(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("user not found: %w", domain.ErrNotFound))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/login", map[string]string{
		"email": "ghost@x.edu.in", "password": "secret1",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("invalid credentials: %w", domain.ErrBadRequest))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/login", map[string]string{
		"email": "a@x.edu.in", "password": "wrong!",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- verify-otp ---

func TestVerifyOTP_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, auth.VerifyOTPRequest{Email: "a@x.edu.in", OTP: "123456"}).
		Return(&domain.UserIdentity{Name: "Alice", Email: "a@x.edu.in"}, nil)

	rec := postJSON(t, newTestRouter(svc), "/api/auth/verify-otp", map[string]string{
		"email": "a@x.edu.in", "otp": "123456",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "a@x.edu.in", user["email"])
}

func TestVerifyOTP_Invalid(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("invalid OTP: %w", domain.ErrBadRequest))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/verify-otp", map[string]string{
		"email": "a@x.edu.in", "otp": "000000",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "invalid OTP")
}

func TestVerifyOTP_Expired(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("OTP expired: %w", domain.ErrBadRequest))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/verify-otp", map[string]string{
		"email": "a@x.edu.in", "otp": "123456",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "OTP expired")
}

func TestVerifyOTP_MissingOTPField(t *testing.T) {
	svc := &mockAuthSvc{}
	rec := postJSON(t, newTestRouter(svc), "/api/auth/verify-otp", map[string]string{
		"email": "a@x.edu.in",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything)
}

// --- resend-otp ---

func TestResendOTP_Created(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResendOTP", mock.Anything, "a@x.edu.in").Return(domain.NextVerifyOTP, nil)

	rec := postJSON(t, newTestRouter(svc), "/api/auth/resend-otp", map[string]string{"email": "a@x.edu.in"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Verify_OTP", body["next"])
}

func TestResendOTP_UserNotFound(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResendOTP", mock.Anything, "ghost@x.edu.in").
		Return("", fmt.Errorf("user not found: %w", domain.ErrNotFound))

	rec := postJSON(t, newTestRouter(svc), "/api/auth/resend-otp", map[string]string{"email": "ghost@x.edu.in"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
