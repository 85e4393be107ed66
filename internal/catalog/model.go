package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the catalog row backing the storefront. Variant options are
// stored as comma-separated lists; the API splits them for clients.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	Category    string `gorm:"index"`
	PriceCents  int64  `gorm:"not null"`
	Sizes       string
	Colors      string
	ImageURL    string
	Active      bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns an id when the caller did not.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductSummary is the client-facing projection of a product.
type ProductSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Sizes       []string  `json:"sizes,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Product) toSummary() ProductSummary {
	return ProductSummary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		PriceCents:  p.PriceCents,
		Sizes:       splitOptions(p.Sizes),
		Colors:      splitOptions(p.Colors),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

func splitOptions(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

// ProductPage is a cursor-paginated product listing.
type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	Total      int64            `json:"total"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
