package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory mirrors a WooCommerce category term.
type ProductCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_categories_store_woo,priority:1"`
	WooID     int64     `gorm:"column:woo_id;not null;uniqueIndex:idx_categories_store_woo,priority:2"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductCategoryLink joins products to categories. The link set for a product
// is kept exactly equal to the remote category set on every sync.
type ProductCategoryLink struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_category_links_pair,priority:1"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null;uniqueIndex:idx_category_links_pair,priority:2"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
