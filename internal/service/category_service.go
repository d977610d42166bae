package service

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// CategoryService defines the public category endpoints
type CategoryService interface {
	// Parents lists the level-1 categories
	Parents(ctx context.Context) ([]domain.Category, error)
	Children(ctx context.Context, parentID int64) ([]domain.Category, error)
	Subcategories(ctx context.Context, childID int64) ([]domain.Category, error)
	Tree(ctx context.Context) ([]domain.CategoryTree, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
}

type categoryService struct {
	api Requester
}

// NewCategoryService creates a new category service
func NewCategoryService(api Requester) CategoryService {
	return &categoryService{api: api}
}

func (s *categoryService) Parents(ctx context.Context) ([]domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.parents")
	defer span.End()
	return s.list(ctx, span, "/categories")
}

func (s *categoryService) Children(ctx context.Context, parentID int64) ([]domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.children")
	defer span.End()
	return s.list(ctx, span, fmt.Sprintf("/categories/%d/children", parentID))
}

func (s *categoryService) Subcategories(ctx context.Context, childID int64) ([]domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.subcategories")
	defer span.End()
	return s.list(ctx, span, fmt.Sprintf("/categories/%d/subcategories", childID))
}

func (s *categoryService) Tree(ctx context.Context) ([]domain.CategoryTree, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.tree")
	defer span.End()

	var tree []domain.CategoryTree
	if err := s.api.Get(ctx, "/categories/tree", nil, &tree); err != nil {
		return nil, end(span, err)
	}
	return tree, end(span, nil)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.get")
	defer span.End()

	var c domain.Category
	if err := s.api.Get(ctx, fmt.Sprintf("/categories/%d", id), nil, &c); err != nil {
		return nil, end(span, err)
	}
	return &c, end(span, nil)
}

func (s *categoryService) list(ctx context.Context, span trace.Span, path string) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.api.Get(ctx, path, nil, &cats); err != nil {
		return nil, end(span, err)
	}
	return cats, end(span, nil)
}
