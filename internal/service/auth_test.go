package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/hr-admin-service/internal/config"
	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
	"github.com/pribylovaa/hr-admin-service/mocks"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "unit-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "hr-admin-service",
		Audience:        []string{"hr-admin"},
	}
}

func newServiceWithMock(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockSt := mocks.NewMockStorage(ctrl)
	svc := New(mockSt, testAuthCfg())
	return svc, mockSt, ctrl
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	ctx := context.Background()
	pw := "Abcdef1!"
	hash := mustHashPW(t, pw)

	// Email нормализуется до запроса в хранилище.
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: 7, Email: "user@example.com", Role: models.RoleUser}, nil)
	st.EXPECT().ActiveCredential(gomock.Any(), int64(7)).
		Return(&models.Credential{ID: 1, UserID: 7, PasswordHash: hash, Active: true}, nil)

	pair, uid, err := svc.Login(ctx, "  User@Example.com ", pw)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	require.WithinDuration(t, time.Now().Add(svc.cfg.AccessTokenTTL), pair.AccessExpiresAt, 2*time.Second)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, storage.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "Abcdef1!")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NoActiveCredential(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: 7, Email: "user@example.com"}, nil)
	st.EXPECT().ActiveCredential(gomock.Any(), int64(7)).
		Return(nil, storage.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "user@example.com", "Abcdef1!")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	hash := mustHashPW(t, "correct-password")

	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: 7, Email: "user@example.com"}, nil)
	st.EXPECT().ActiveCredential(gomock.Any(), int64(7)).
		Return(&models.Credential{ID: 1, UserID: 7, PasswordHash: hash, Active: true}, nil)

	_, _, err := svc.Login(context.Background(), "user@example.com", "wrong-password")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

// Любой дефект входных данных даёт тот же ErrInvalidCredentials,
// что и неверный пароль: ответы неотличимы для перечисления аккаунтов.
func TestLogin_BadInput_SameError(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	_, _, err := svc.Login(context.Background(), "not-an-email", "Abcdef1!")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "user@example.com", "short")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StorageError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	dbErr := errors.New("db down")
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").Return(nil, dbErr)

	_, _, err := svc.Login(context.Background(), "user@example.com", "Abcdef1!")
	require.Error(t, err)
	require.ErrorIs(t, err, dbErr)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_OK_RotatesPair(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	ctx := context.Background()

	pw := "Abcdef1!"
	hash := mustHashPW(t, pw)
	st.EXPECT().UserByEmail(gomock.Any(), "user@example.com").
		Return(&models.User{ID: 7, Email: "user@example.com"}, nil)
	st.EXPECT().ActiveCredential(gomock.Any(), int64(7)).
		Return(&models.Credential{UserID: 7, PasswordHash: hash, Active: true}, nil)

	first, _, err := svc.Login(ctx, "user@example.com", pw)
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), int64(7)).
		Return(&models.User{ID: 7, Email: "user@example.com"}, nil)

	second, uid, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
	require.NotEmpty(t, second.AccessToken)
	require.NotEmpty(t, second.RefreshToken)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	pair, err := svc.issueTokenPair(context.Background(), 7)
	require.NoError(t, err)

	// Access-токен нельзя предъявить как refresh.
	_, _, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_UserDeleted(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newServiceWithMock(t)
	defer ctrl.Finish()

	pair, err := svc.issueTokenPair(context.Background(), 7)
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), int64(7)).Return(nil, storage.ErrNotFound)

	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword_RoundTrip_NonDeterministic(t *testing.T) {
	t.Parallel()

	h1 := mustHashPW(t, "secret-password")
	h2 := mustHashPW(t, "secret-password")

	// Соль делает дайджесты уникальными, но оба проверяются.
	require.NotEqual(t, h1, h2)
	require.True(t, checkPassword(h1, "secret-password"))
	require.True(t, checkPassword(h2, "secret-password"))
	require.False(t, checkPassword(h1, "other-password"))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	require.False(t, checkPassword("not-a-bcrypt-hash", "whatever"))
	require.False(t, checkPassword("", ""))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	got, err := validateEmail(" User@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, "user@example.com", got)

	_, err = validateEmail("")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = validateEmail("no-at-sign")
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()

	plain, hash, err := generatePassword()
	require.NoError(t, err)
	require.Len(t, plain, generatedPasswordLen)
	require.True(t, checkPassword(hash, plain))

	for _, r := range plain {
		require.True(t, strings.ContainsRune(passwordCharset, r),
			"символ %q вне допустимого набора", r)
	}

	other, _, err := generatePassword()
	require.NoError(t, err)
	require.NotEqual(t, plain, other)
}
