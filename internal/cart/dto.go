package cart

import (
	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/db/models"
)

// ItemDTO is one cart line with its current catalog snapshot. Amounts
// are minor units computed from the live product price.
type ItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku"`
	ImageURL       *string    `json:"image_url,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	TotalCents     int64      `json:"total_cents"`
}

// CartDTO is the assembled cart view.
type CartDTO struct {
	Items         []ItemDTO `json:"items"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
}

func toCartDTO(rows []models.CartItem) CartDTO {
	items := make([]ItemDTO, 0, len(rows))
	var subtotal int64
	count := 0
	for _, row := range rows {
		item := ItemDTO{
			ID:        row.ID,
			ProductID: row.ProductID,
			VariantID: row.VariantID,
			Quantity:  row.Quantity,
		}
		if row.Product != nil {
			item.Name = row.Product.Name
			item.SKU = row.Product.SKU
			item.UnitPriceCents = row.Product.PriceCents
			item.TotalCents = row.Product.PriceCents * int64(row.Quantity)
			for _, img := range row.Product.Images {
				if img.IsMain {
					url := img.URL
					item.ImageURL = &url
					break
				}
			}
		}
		subtotal += item.TotalCents
		count += row.Quantity
		items = append(items, item)
	}
	return CartDTO{
		Items:         items,
		ItemCount:     count,
		SubtotalCents: subtotal,
	}
}
