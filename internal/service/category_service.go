package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const (
	maxCategoryNameLength        = 50
	maxCategoryDescriptionLength = 255
)

// CategoryInput describes create and update payloads.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService manages categories. Mutations are administrator only.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns active categories by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, ac auth.AuthContext, input CategoryInput) (*domain.Category, error) {
	if err := auth.AuthorizeRole(ac, domain.RoleAdmin); err != nil {
		return nil, err
	}
	name, description, err := validateCategoryInput(input)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, categoryError(err, category.ID, name)
	}
	return category, nil
}

// Update renames or redescribes a category.
func (s *CategoryService) Update(ctx context.Context, ac auth.AuthContext, id int64, input CategoryInput) (*domain.Category, error) {
	if err := auth.AuthorizeRole(ac, domain.RoleAdmin); err != nil {
		return nil, err
	}
	name, description, err := validateCategoryInput(input)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetActiveByID(ctx, id)
	if err != nil {
		return nil, categoryError(err, id, name)
	}
	category.Name = name
	category.Description = description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, categoryError(err, id, name)
	}
	return category, nil
}

// Delete soft-deletes a category.
func (s *CategoryService) Delete(ctx context.Context, ac auth.AuthContext, id int64) error {
	if err := auth.AuthorizeRole(ac, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.categories.SoftDelete(ctx, id); err != nil {
		return categoryError(err, id, "")
	}
	return nil
}

func validateCategoryInput(input CategoryInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	} else if len([]rune(name)) > maxCategoryNameLength {
		details["name"] = "must be at most 50 characters"
	}
	if len([]rune(description)) > maxCategoryDescriptionLength {
		details["description"] = "must be at most 255 characters"
	}
	if len(details) > 0 {
		return "", "", apperrors.NewValidationError("invalid category", details)
	}
	return name, description, nil
}

func categoryError(err error, id int64, name string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("category", map[string]any{"id": id})
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict("category name already exists", map[string]any{"name": name})
	default:
		return err
	}
}
