package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

const departmentColumns = `
id, name, created_at, updated_at
`

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	return &d, nil
}

// CreateDepartment вставляет новый отдел.
func (s *Storage) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	const op = "storage.postgres.CreateDepartment"

	query := `INSERT INTO departments (name) VALUES ($1) RETURNING ` + departmentColumns

	d, err := scanDepartment(s.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// DepartmentByID возвращает отдел по ID.
func (s *Storage) DepartmentByID(ctx context.Context, id int64) (*models.Department, error) {
	const op = "storage.postgres.DepartmentByID"

	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`

	d, err := scanDepartment(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// ListDepartments возвращает все отделы в порядке создания.
func (s *Storage) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const op = "storage.postgres.ListDepartments"

	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// UpdateDepartment обновляет имя отдела и сдвигает updated_at.
func (s *Storage) UpdateDepartment(ctx context.Context, id int64, name string) (*models.Department, error) {
	const op = "storage.postgres.UpdateDepartment"

	query := `
		UPDATE departments
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + departmentColumns

	d, err := scanDepartment(s.db.QueryRow(ctx, query, id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// DeleteDepartment удаляет отдел.
// Ошибки: storage.ErrNotFound, storage.ErrReferenced (на отдел ссылаются сотрудники).
func (s *Storage) DeleteDepartment(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteDepartment"

	tag, err := s.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrReferenced)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
