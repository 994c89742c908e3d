package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/hr-admin-service/internal/config"
	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/mocks"
)

func testRouterConfig() *config.Config {
	return &config.Config{
		Env: "local",
		Auth: config.AuthConfig{
			JWTSecret:       "router-test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			Issuer:          "hr-admin-service",
			Audience:        []string{"hr-admin"},
		},
		Timeouts: config.TimeoutConfig{Service: 5 * time.Second},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	cfg := testRouterConfig()
	svc := service.New(st, cfg.Auth)

	handler := NewRouter(svc, cfg, Options{
		Timeout:  cfg.Timeouts.Service,
		BasePath: "/api",
		Registry: prometheus.NewRegistry(),
		Ready:    func() bool { return true },
	})
	return handler, st
}

// loginAs проходит полный цикл входа через роутер и возвращает access-токен.
func loginAs(t *testing.T, handler http.Handler, st *mocks.MockStorage, userID int64) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.MinCost)
	require.NoError(t, err)

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: userID, Email: "user@example.com"}, nil)
	st.EXPECT().ActiveCredential(gomock.Any(), userID).
		Return(&models.Credential{UserID: userID, PasswordHash: string(hash), Active: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"Abcdef1!"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			return c.Value
		}
	}

	t.Fatal("access_token cookie not set")
	return ""
}

func TestRouter_PublicRoutes_NoToken(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_ProtectedRead_RequiresToken(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/department", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
}

func TestRouter_ProtectedRead_WithToken(t *testing.T) {
	t.Parallel()

	handler, st := newTestRouter(t)
	token := loginAs(t, handler, st, 7)

	st.EXPECT().ListDepartments(gomock.Any()).
		Return([]models.Department{{ID: 1, Name: "Engineering"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/department", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Engineering")
}

// Валидный токен обычного пользователя не даёт доступа к изменяющим операциям.
func TestRouter_Mutation_PlainUserRejected(t *testing.T) {
	t.Parallel()

	handler, st := newTestRouter(t)
	token := loginAs(t, handler, st, 7)

	st.EXPECT().RoleByID(gomock.Any(), int64(7)).Return(models.RoleUser, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/department",
		strings.NewReader(`{"name":"Sales"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
}

func TestRouter_Mutation_AdminAllowed(t *testing.T) {
	t.Parallel()

	handler, st := newTestRouter(t)
	token := loginAs(t, handler, st, 9)

	st.EXPECT().RoleByID(gomock.Any(), int64(9)).Return(models.RoleAdmin, nil)
	st.EXPECT().CreateDepartment(gomock.Any(), "Sales").
		Return(&models.Department{ID: 2, Name: "Sales"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/department",
		strings.NewReader(`{"name":"Sales"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"Sales"`)
}

func TestRouter_GarbageToken_Uniform401(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/employee", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RequestIDOnResponse(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
