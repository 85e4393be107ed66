package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/threadline-app/threadline-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a product row.
func (r *Repository) Create(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads one product regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns active products newest-first using keyset pagination.
func (r *Repository) List(ctx context.Context, category, cursor string, limit int) ([]Product, string, error) {
	normalizedLimit := normalizeLimit(limit)
	decodedCursor, err := parseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("active = ?", true)

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []Product
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(normalizedLimit + 1).
		Find(&records).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = encodeCursor(listCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return records, nextCursor, nil
}

// Count reports the number of active products, optionally per category.
func (r *Repository) Count(ctx context.Context, category string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
