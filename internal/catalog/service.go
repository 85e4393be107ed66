package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes read access to the storefront catalog.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (ProductSummary, error)
	ListProducts(ctx context.Context, category, cursor string, limit int) (ProductPage, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// GetProduct loads a single product by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ProductSummary, error) {
	if id == uuid.Nil {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product.toSummary(), nil
}

// ListProducts returns a cursor-paginated slice of the active catalog.
func (s *service) ListProducts(ctx context.Context, category, cursor string, limit int) (ProductPage, error) {
	records, nextCursor, err := s.repo.List(ctx, category, cursor, limit)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return ProductPage{}, typed
		}
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	total, err := s.repo.Count(ctx, category)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	items := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		items = append(items, record.toSummary())
	}

	return ProductPage{
		Items:      items,
		Total:      total,
		NextCursor: nextCursor,
	}, nil
}
