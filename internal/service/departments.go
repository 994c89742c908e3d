package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// CreateDepartment создаёт отдел.
func (s *Service) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	const op = "service.departments.CreateDepartment"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	d, err := s.storage.CreateDepartment(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// DepartmentByID возвращает отдел по ID.
func (s *Service) DepartmentByID(ctx context.Context, id int64) (*models.Department, error) {
	const op = "service.departments.DepartmentByID"

	d, err := s.storage.DepartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// ListDepartments возвращает все отделы.
func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const op = "service.departments.ListDepartments"

	list, err := s.storage.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// UpdateDepartment переименовывает отдел.
func (s *Service) UpdateDepartment(ctx context.Context, id int64, name string) (*models.Department, error) {
	const op = "service.departments.UpdateDepartment"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	d, err := s.storage.UpdateDepartment(ctx, id, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// DeleteDepartment удаляет отдел; отдел с сотрудниками удалить нельзя.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	const op = "service.departments.DeleteDepartment"

	if err := s.storage.DeleteDepartment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		if errors.Is(err, storage.ErrReferenced) {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
