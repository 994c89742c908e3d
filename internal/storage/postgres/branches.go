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

const branchColumns = `
b.id, b.name, b.created_at, b.updated_at,
a.id, a.street, a.city, a.state, a.zip_code, a.country
`

const branchSelect = `
	SELECT ` + branchColumns + `
	FROM branches b
	JOIN addresses a ON a.id = b.address_id
`

func scanBranch(row pgx.Row) (*models.Branch, error) {
	var b models.Branch
	var country string

	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Address.ID,
		&b.Address.Street,
		&b.Address.City,
		&b.Address.State,
		&b.Address.ZipCode,
		&country,
	); err != nil {
		return nil, err
	}

	b.Address.Country = models.Country(country)

	return &b, nil
}

// CreateBranch создаёт адрес и филиал одной транзакцией.
func (s *Storage) CreateBranch(ctx context.Context, branch *models.Branch) (*models.Branch, error) {
	const op = "storage.postgres.CreateBranch"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var addressID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO addresses (street, city, state, zip_code, country)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		branch.Address.Street,
		branch.Address.City,
		branch.Address.State,
		branch.Address.ZipCode,
		string(branch.Address.Country),
	).Scan(&addressID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO branches (name, address_id) VALUES ($1, $2) RETURNING id`,
		branch.Name, addressID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := scanBranch(tx.QueryRow(ctx, branchSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// BranchByID возвращает филиал вместе с адресом.
func (s *Storage) BranchByID(ctx context.Context, id int64) (*models.Branch, error) {
	const op = "storage.postgres.BranchByID"

	b, err := scanBranch(s.db.QueryRow(ctx, branchSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// ListBranches возвращает все филиалы с адресами.
func (s *Storage) ListBranches(ctx context.Context) ([]models.Branch, error) {
	const op = "storage.postgres.ListBranches"

	rows, err := s.db.Query(ctx, branchSelect+` ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// UpdateBranch применяет частичное обновление имени и/или адреса.
func (s *Storage) UpdateBranch(ctx context.Context, id int64, update storage.BranchUpdate) (*models.Branch, error) {
	const op = "storage.postgres.UpdateBranch"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var addressID int64
	err = tx.QueryRow(ctx, `SELECT address_id FROM branches WHERE id = $1 FOR UPDATE`, id).Scan(&addressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if update.Name != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE branches SET name = $2, updated_at = now() WHERE id = $1`,
			id, *update.Name,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if update.Address != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses
			 SET street = $2, city = $3, state = $4, zip_code = $5, country = $6
			 WHERE id = $1`,
			addressID,
			update.Address.Street,
			update.Address.City,
			update.Address.State,
			update.Address.ZipCode,
			string(update.Address.Country),
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE branches SET updated_at = now() WHERE id = $1`, id,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	result, err := scanBranch(tx.QueryRow(ctx, branchSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// DeleteBranch удаляет филиал и его адрес.
// Ошибки: storage.ErrNotFound, storage.ErrReferenced (на филиал ссылаются сотрудники).
func (s *Storage) DeleteBranch(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteBranch"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var addressID int64
	err = tx.QueryRow(ctx, `DELETE FROM branches WHERE id = $1 RETURNING address_id`, id).Scan(&addressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrReferenced)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, addressID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
