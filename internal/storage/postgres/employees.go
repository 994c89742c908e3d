package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

const employeeColumns = `
e.id, e.user_id, u.email, u.first_name, u.last_name, u.role,
e.salary, e.position, e.hire_date, e.department_id, e.branch_id,
a.id, a.street, a.city, a.state, a.zip_code, a.country,
e.created_at, e.updated_at
`

const employeeSelect = `
	SELECT ` + employeeColumns + `
	FROM employees e
	JOIN users u ON u.id = e.user_id
	JOIN addresses a ON a.id = e.address_id
`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	var role, position, country string

	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Email,
		&e.FirstName,
		&e.LastName,
		&role,
		&e.Salary,
		&position,
		&e.HireDate,
		&e.DepartmentID,
		&e.BranchID,
		&e.Address.ID,
		&e.Address.Street,
		&e.Address.City,
		&e.Address.State,
		&e.Address.ZipCode,
		&country,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Role = models.Role(role)
	e.Position = models.Position(position)
	e.Address.Country = models.Country(country)

	return &e, nil
}

// CreateEmployee атомарно заводит сотрудника: адрес, пользователя,
// активную запись учётных данных и запись сотрудника.
// Ошибки: storage.ErrAlreadyExists (email занят),
// storage.ErrNotFound (нет отдела/филиала по FK).
func (s *Storage) CreateEmployee(ctx context.Context, employee *models.Employee, passwordHash string) (*models.Employee, error) {
	const op = "storage.postgres.CreateEmployee"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var addressID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO addresses (street, city, state, zip_code, country)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		employee.Address.Street,
		employee.Address.City,
		employee.Address.State,
		employee.Address.ZipCode,
		string(employee.Address.Country),
	).Scan(&addressID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var userID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, first_name, last_name, role)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		employee.Email,
		employee.FirstName,
		employee.LastName,
		string(employee.Role),
	).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO credentials (user_id, password_hash, active) VALUES ($1, $2, TRUE)`,
		userID, passwordHash,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO employees (user_id, salary, position, hire_date, department_id, branch_id, address_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		userID,
		employee.Salary,
		string(employee.Position),
		employee.HireDate,
		employee.DepartmentID,
		employee.BranchID,
		addressID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := scanEmployee(tx.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// EmployeeByID возвращает сотрудника вместе с данными пользователя и адресом.
func (s *Storage) EmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	const op = "storage.postgres.EmployeeByID"

	e, err := scanEmployee(s.db.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// ListEmployees возвращает всех сотрудников.
func (s *Storage) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	const op = "storage.postgres.ListEmployees"

	rows, err := s.db.Query(ctx, employeeSelect+` ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// UpdateEmployee применяет частичное обновление: поля пользователя,
// кадровые атрибуты и адрес меняются одной транзакцией.
func (s *Storage) UpdateEmployee(ctx context.Context, id int64, update storage.EmployeeUpdate) (*models.Employee, error) {
	const op = "storage.postgres.UpdateEmployee"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID, addressID int64
	err = tx.QueryRow(ctx,
		`SELECT user_id, address_id FROM employees WHERE id = $1 FOR UPDATE`, id,
	).Scan(&userID, &addressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// users: имя и роль.
	userSets := []string{}
	userArgs := []any{userID}
	if update.FirstName != nil {
		userArgs = append(userArgs, *update.FirstName)
		userSets = append(userSets, fmt.Sprintf("first_name = $%d", len(userArgs)))
	}
	if update.LastName != nil {
		userArgs = append(userArgs, *update.LastName)
		userSets = append(userSets, fmt.Sprintf("last_name = $%d", len(userArgs)))
	}
	if update.Role != nil {
		userArgs = append(userArgs, string(*update.Role))
		userSets = append(userSets, fmt.Sprintf("role = $%d", len(userArgs)))
	}
	if len(userSets) > 0 {
		userSets = append(userSets, "updated_at = now()")
		q := "UPDATE users SET " + strings.Join(userSets, ", ") + " WHERE id = $1"
		if _, err := tx.Exec(ctx, q, userArgs...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// employees: кадровые атрибуты.
	empSets := []string{"updated_at = now()"}
	empArgs := []any{id}
	if update.Salary != nil {
		empArgs = append(empArgs, *update.Salary)
		empSets = append(empSets, fmt.Sprintf("salary = $%d", len(empArgs)))
	}
	if update.Position != nil {
		empArgs = append(empArgs, string(*update.Position))
		empSets = append(empSets, fmt.Sprintf("position = $%d", len(empArgs)))
	}
	if update.HireDate != nil {
		empArgs = append(empArgs, *update.HireDate)
		empSets = append(empSets, fmt.Sprintf("hire_date = $%d", len(empArgs)))
	}
	if update.DepartmentID != nil {
		empArgs = append(empArgs, *update.DepartmentID)
		empSets = append(empSets, fmt.Sprintf("department_id = $%d", len(empArgs)))
	}
	if update.BranchID != nil {
		empArgs = append(empArgs, *update.BranchID)
		empSets = append(empSets, fmt.Sprintf("branch_id = $%d", len(empArgs)))
	}

	q := "UPDATE employees SET " + strings.Join(empSets, ", ") + " WHERE id = $1"
	if _, err := tx.Exec(ctx, q, empArgs...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
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
	}

	result, err := scanEmployee(tx.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// DeleteEmployee удаляет сотрудника вместе с учётной записью:
// удаление пользователя каскадом снимает запись сотрудника и его учётные
// данные (доступ в систему отзывается), адрес удаляется явно.
func (s *Storage) DeleteEmployee(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteEmployee"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID, addressID int64
	err = tx.QueryRow(ctx, `SELECT user_id, address_id FROM employees WHERE id = $1`, id).
		Scan(&userID, &addressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
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
