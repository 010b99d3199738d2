package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_planner/internal/core/ports/services"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryReader
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo portsrepo.CategoryReader) portssvc.CategorySvc {
	return &categoryService{categoryRepo: categoryRepo}
}

// ListCategories lists a user's categories, optionally restricted to the ones a group may reference
func (s *categoryService) ListCategories(ctx context.Context, userID string, group *domain.BudgetGroup) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("user_id", userID))
		return nil, err
	}
	if group != nil {
		categories = domain.FilterCategories(categories, *group)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}
