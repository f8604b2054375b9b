package catalog

import (
	"context"

	"github.com/google/uuid"
)

// SKUOrder is the ordering applied to a category listing.
type SKUOrder int

const (
	// OrderDefault keeps the store's natural order.
	OrderDefault SKUOrder = iota
	// OrderPrice sorts by price ascending.
	OrderPrice
	// OrderHot sorts by sales descending.
	OrderHot
)

// Store is the relational read surface the assembler depends on.
//
// Category and SKU return a *NotFoundError when no row matches. A limit of
// zero or less means unbounded.
type Store interface {
	Categories(ctx context.Context) ([]*GoodsCategory, error)
	Category(ctx context.Context, id uuid.UUID) (*GoodsCategory, error)
	SKU(ctx context.Context, id uuid.UUID) (*GoodsSKU, error)
	IndexCategorySKUs(ctx context.Context, categoryID uuid.UUID, display DisplayType, limit int) ([]*IndexCategoryGoods, error)
	Slides(ctx context.Context) ([]*IndexSlideGoods, error)
	Promotions(ctx context.Context, limit int) ([]*IndexPromotion, error)
	NewestSKUs(ctx context.Context, categoryID uuid.UUID, limit int) ([]*GoodsSKU, error)
	SiblingSKUs(ctx context.Context, spuID, excludeID uuid.UUID) ([]*GoodsSKU, error)
	CategorySKUs(ctx context.Context, categoryID uuid.UUID, order SKUOrder) ([]*GoodsSKU, error)
}
