package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog read shape. Prices are minor units.
type ProductDTO struct {
	ID                uuid.UUID  `json:"id"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty"`
	SKU               string     `json:"sku"`
	Name              string     `json:"name"`
	Description       *string    `json:"description,omitempty"`
	PriceCents        int64      `json:"price_cents"`
	AvailableQuantity int        `json:"available_quantity"`
	Tags              []string   `json:"tags"`
	Images            []ImageDTO `json:"images"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ImageDTO carries one hosted product image.
type ImageDTO struct {
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

// CategoryDTO is the category read shape.
type CategoryDTO struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

func toProductDTO(p models.Product) ProductDTO {
	images := make([]ImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageDTO{URL: img.URL, IsMain: img.IsMain})
	}
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return ProductDTO{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		PriceCents:        p.PriceCents,
		AvailableQuantity: p.AvailableQuantity,
		Tags:              tags,
		Images:            images,
		CreatedAt:         p.CreatedAt,
	}
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		ParentID: c.ParentID,
	}
}
