package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// CreateBranchInput — входные данные создания филиала.
type CreateBranchInput struct {
	Name    string
	Address models.Address
}

// CreateBranch создаёт филиал вместе с адресом.
func (s *Service) CreateBranch(ctx context.Context, in CreateBranchInput) (*models.Branch, error) {
	const op = "service.branches.CreateBranch"

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := validateAddress(&in.Address); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.storage.CreateBranch(ctx, &models.Branch{
		Name:    in.Name,
		Address: in.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// BranchByID возвращает филиал по ID.
func (s *Service) BranchByID(ctx context.Context, id int64) (*models.Branch, error) {
	const op = "service.branches.BranchByID"

	b, err := s.storage.BranchByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// ListBranches возвращает все филиалы.
func (s *Service) ListBranches(ctx context.Context) ([]models.Branch, error) {
	const op = "service.branches.ListBranches"

	list, err := s.storage.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// UpdateBranch применяет частичное обновление имени и/или адреса.
func (s *Service) UpdateBranch(ctx context.Context, id int64, update storage.BranchUpdate) (*models.Branch, error) {
	const op = "service.branches.UpdateBranch"

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		update.Name = &name
	}

	if update.Address != nil {
		if err := validateAddress(update.Address); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	b, err := s.storage.UpdateBranch(ctx, id, update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// DeleteBranch удаляет филиал; филиал с сотрудниками удалить нельзя.
func (s *Service) DeleteBranch(ctx context.Context, id int64) error {
	const op = "service.branches.DeleteBranch"

	if err := s.storage.DeleteBranch(ctx, id); err != nil {
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
