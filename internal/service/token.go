package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/pkg/log"
)

// Тип токена фиксируется в claims, чтобы refresh-токен нельзя было
// предъявить как access и наоборот.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

type authClaims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// generateToken выпускает подписанный токен указанного типа.
func (s *Service) generateToken(ctx context.Context, userID int64, kind string, now time.Time, ttl time.Duration) (string, error) {
	const op = "service.token.generateToken"

	lg := log.From(ctx)

	claims := authClaims{
		UserID:    strconv.FormatInt(userID, 10),
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			Audience:  jwt.ClaimStrings(s.cfg.Audience),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("token_sign_failed",
			slog.String("op", op),
			slog.String("kind", kind),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// validateToken проверяет подпись, срок действия и тип токена.
// Любой структурный дефект, чужая подпись или неправильный алгоритм
// дают ErrInvalidToken; истёкший срок — ErrTokenExpired.
func (s *Service) validateToken(tokenStr, kind string) (int64, error) {
	const op = "service.token.validateToken"

	token, err := jwt.ParseWithClaims(tokenStr, &authClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.TokenType != kind {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || uid <= 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
func (s *Service) issueTokenPair(ctx context.Context, userID int64) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateToken(ctx, userID, tokenKindAccess, now, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateToken(ctx, userID, tokenKindRefresh, now, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}
