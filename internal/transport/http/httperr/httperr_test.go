package httperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/hr-admin-service/internal/service"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"token expired", service.ErrTokenExpired, http.StatusUnauthorized, "unauthorized"},
		{"permission denied", service.ErrPermissionDenied, http.StatusUnauthorized, "unauthorized"},
		{"invalid email", service.ErrInvalidEmail, http.StatusBadRequest, "invalid_argument"},
		{"invalid argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"email taken", service.ErrEmailTaken, http.StatusConflict, "conflict"},
		{"conflict", service.ErrConflict, http.StatusConflict, "conflict"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
		{"nil", nil, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

// Обёрнутые ошибки маппятся так же, как и сами сентинелы.
func TestToHTTP_WrappedError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service.auth.Login: %w", service.ErrInvalidCredentials)

	status, resp := ToHTTP(wrapped)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid Credentials", resp.Error.Message)
}

// Детали внутренней ошибки не утекают наружу.
func TestToHTTP_InternalDetailsHidden(t *testing.T) {
	t.Parallel()

	_, resp := ToHTTP(errors.New("pq: connection refused on 10.0.0.5"))
	require.Equal(t, "internal error", resp.Error.Message)
	require.NotContains(t, resp.Error.Message, "10.0.0.5")
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()

	WriteError(rec, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `"request_id":"req-123"`)
}
