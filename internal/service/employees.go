package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/pkg/log"
	"github.com/pribylovaa/hr-admin-service/internal/pkg/redact"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// CreateEmployeeInput — входные данные заведения сотрудника.
type CreateEmployeeInput struct {
	Email        string
	FirstName    string
	LastName     string
	Role         models.Role
	Salary       float64
	Position     models.Position
	HireDate     time.Time
	DepartmentID int64
	BranchID     int64
	Address      models.Address
}

func (in *CreateEmployeeInput) validate() error {
	normEmail, err := validateEmail(in.Email)
	if err != nil {
		return ErrInvalidEmail
	}
	in.Email = normEmail

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if len([]rune(in.FirstName)) < 2 || len([]rune(in.LastName)) < 2 {
		return ErrInvalidArgument
	}

	if !in.Role.Valid() || !in.Position.Valid() {
		return ErrInvalidArgument
	}

	if in.Salary <= 0 || in.HireDate.IsZero() {
		return ErrInvalidArgument
	}

	if in.DepartmentID <= 0 || in.BranchID <= 0 {
		return ErrInvalidArgument
	}

	return validateAddress(&in.Address)
}

func validateAddress(a *models.Address) error {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)

	if a.Street == "" || a.City == "" || a.State == "" || a.ZipCode == "" {
		return ErrInvalidArgument
	}

	if !a.Country.Valid() {
		return ErrInvalidArgument
	}

	return nil
}

// CreateEmployee заводит сотрудника: пользователь, активные учётные данные
// со сгенерированным временным паролем, адрес и кадровая запись — одной
// транзакцией хранилища. Возвращает сотрудника и временный пароль,
// который показывается администратору единственный раз.
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*models.Employee, string, error) {
	const op = "service.employees.CreateEmployee"

	lg := log.From(ctx)

	if err := in.validate(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	plain, hash, err := generatePassword()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	employee := &models.Employee{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Salary:       in.Salary,
		Position:     in.Position,
		HireDate:     in.HireDate,
		DepartmentID: in.DepartmentID,
		BranchID:     in.BranchID,
		Address:      in.Address,
	}

	created, err := s.storage.CreateEmployee(ctx, employee, hash)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("employee_created",
		slog.String("op", op),
		slog.Int64("employee_id", created.ID),
		slog.String("email", redact.Email(created.Email)),
	)

	return created, plain, nil
}

// EmployeeByID возвращает сотрудника по ID.
func (s *Service) EmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	const op = "service.employees.EmployeeByID"

	e, err := s.storage.EmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// ListEmployees возвращает всех сотрудников.
func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	const op = "service.employees.ListEmployees"

	list, err := s.storage.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// UpdateEmployee применяет частичное обновление.
func (s *Service) UpdateEmployee(ctx context.Context, id int64, update storage.EmployeeUpdate) (*models.Employee, error) {
	const op = "service.employees.UpdateEmployee"

	if update.Role != nil && !update.Role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	if update.Position != nil && !update.Position.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	if update.Salary != nil && *update.Salary <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}
	if update.Address != nil {
		if err := validateAddress(update.Address); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	e, err := s.storage.UpdateEmployee(ctx, id, update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Роль могла измениться — сбрасываем кэш guard'а.
	if update.Role != nil && s.roleCache != nil {
		if err := s.roleCache.Invalidate(ctx, e.UserID); err != nil {
			log.From(ctx).Warn("role_cache_invalidate_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return e, nil
}

// DeleteEmployee удаляет сотрудника вместе с учётной записью.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	const op = "service.employees.DeleteEmployee"

	if err := s.storage.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
