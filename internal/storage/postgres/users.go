package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// userColumns — единый список колонок таблицы users,
// используемый в SELECT, чтобы гарантировать одинаковый порядок сканирования.
const userColumns = `
id, email, first_name, last_name, role, created_at, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var role string

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.Role = models.Role(role)

	return &user, nil
}

// UserByEmail находит пользователя по email.
// Колонка email — CITEXT, регистр не учитывается.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// RoleByID возвращает текущую роль пользователя.
func (s *Storage) RoleByID(ctx context.Context, id int64) (models.Role, error) {
	const op = "storage.postgres.RoleByID"

	query := `SELECT role FROM users WHERE id = $1`

	var role string
	if err := s.db.QueryRow(ctx, query, id).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return models.Role(role), nil
}

// ActiveCredential возвращает самую свежую активную запись учётных данных.
// Среди активных записей выбирается последняя по created_at (ties — по id).
func (s *Storage) ActiveCredential(ctx context.Context, userID int64) (*models.Credential, error) {
	const op = "storage.postgres.ActiveCredential"

	query := `
		SELECT id, user_id, password_hash, active, created_at
		FROM credentials
		WHERE user_id = $1 AND active
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var cred models.Credential
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&cred.ID,
		&cred.UserID,
		&cred.PasswordHash,
		&cred.Active,
		&cred.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cred, nil
}
