package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/pkg/log"
	"github.com/pribylovaa/hr-admin-service/internal/pkg/redact"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// Минимальная длина пароля при входе.
const minPasswordLen = 8

// Login выполняет вход по email+пароль и выпускает пару токенов.
//
// Любой отказ до выпуска токенов (неизвестный email, нет активных учётных
// данных, неверный пароль) возвращает один и тот же ErrInvalidCredentials:
// по ответу нельзя отличить «нет такого аккаунта» от «не тот пароль».
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenPair, int64, error) {
	const op = "service.auth.Login"

	lg := log.From(ctx)

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) < minPasswordLen {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	cred, err := s.storage.ActiveCredential(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("login_no_active_credential",
				slog.String("op", op),
				slog.String("email", redact.Email(normEmail)),
			)
			return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(cred.PasswordHash, password) {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user.ID, nil
}

// Refresh обновляет пару токенов по refresh-токену.
// Операция симметрична Login: проверка refresh-токена, подтверждение, что
// пользователь всё ещё существует, и выпуск новой пары (ротация refresh).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, int64, error) {
	const op = "service.auth.Refresh"

	uid, err := s.validateToken(refreshToken, tokenKindRefresh)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user.ID, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
// Соль генерируется заново при каждом вызове: одинаковые пароли дают
// разные дайджесты.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
// Испорченный/нечитаемый хэш — это несовпадение, а не ошибка.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email, обрезает пробелы снаружи
// и приводит адрес к нижнему регистру.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// Набор символов для автогенерируемых паролей: без визуально
// неоднозначных символов (0/O, 1/l/I).
const passwordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789!@#$%^&*()"

const generatedPasswordLen = 12

// generatePassword выдаёт случайный временный пароль и его bcrypt-хэш.
// Используется при заведении сотрудника: пароль показывается администратору
// один раз, в хранилище попадает только хэш.
func generatePassword() (plain string, hash string, err error) {
	const op = "service.auth.generatePassword"

	buf := make([]byte, generatedPasswordLen)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = passwordCharset[n.Int64()]
	}

	plain = string(buf)
	hash, err = hashPassword(plain)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	return plain, hash, nil
}
