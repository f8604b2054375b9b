package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// DisplayType selects how a SKU is featured under its category on the home page.
type DisplayType int

const (
	DisplayText  DisplayType = 0
	DisplayImage DisplayType = 1
)

// GoodsCategory is a top level product category.
type GoodsCategory struct {
	bun.BaseModel `bun:"table:df_goods_category,alias:gc"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Logo       string    `bun:"logo" json:"logo"`
	Image      string    `bun:"image" json:"image"`
	CreateTime time.Time `bun:"create_time,nullzero,notnull,default:current_timestamp" json:"create_time"`
}

// GoodsSPU is a product family; its SKUs are the purchasable variants.
type GoodsSPU struct {
	bun.BaseModel `bun:"table:df_goods_spu,alias:spu"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Desc       string    `bun:"desc" json:"desc"`
	CreateTime time.Time `bun:"create_time,nullzero,notnull,default:current_timestamp" json:"create_time"`
}

// GoodsSKU is a single purchasable variant.
type GoodsSKU struct {
	bun.BaseModel `bun:"table:df_goods_sku,alias:sku"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	CategoryID   uuid.UUID       `bun:"category_id,type:uuid,notnull" json:"category_id"`
	SPUID        uuid.UUID       `bun:"spu_id,type:uuid,notnull" json:"spu_id"`
	Name         string          `bun:"name,notnull" json:"name"`
	Title        string          `bun:"title" json:"title"`
	Unit         string          `bun:"unit" json:"unit"`
	Price        decimal.Decimal `bun:"price,type:decimal(10,2),notnull" json:"price"`
	Stock        int             `bun:"stock,notnull" json:"stock"`
	Sales        int             `bun:"sales,notnull" json:"sales"`
	DefaultImage string          `bun:"default_image" json:"default_image"`
	OnSale       bool            `bun:"status,notnull" json:"status"`
	CreateTime   time.Time       `bun:"create_time,nullzero,notnull,default:current_timestamp" json:"create_time"`
}

// IndexSlideGoods is a home page carousel entry.
type IndexSlideGoods struct {
	bun.BaseModel `bun:"table:df_index_slide_goods,alias:isg"`

	ID    uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	SKUID uuid.UUID `bun:"sku_id,type:uuid,notnull" json:"sku_id"`
	Image string    `bun:"image" json:"image"`
	Index int       `bun:"index,notnull" json:"index"`

	SKU *GoodsSKU `bun:"rel:belongs-to,join:sku_id=id" json:"sku,omitempty"`
}

// IndexCategoryGoods features a SKU under its category on the home page.
type IndexCategoryGoods struct {
	bun.BaseModel `bun:"table:df_index_category_goods,alias:icg"`

	ID          uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	CategoryID  uuid.UUID   `bun:"category_id,type:uuid,notnull" json:"category_id"`
	SKUID       uuid.UUID   `bun:"sku_id,type:uuid,notnull" json:"sku_id"`
	DisplayType DisplayType `bun:"display_type,notnull" json:"display_type"`
	Index       int         `bun:"index,notnull" json:"index"`

	SKU *GoodsSKU `bun:"rel:belongs-to,join:sku_id=id" json:"sku,omitempty"`
}

// IndexPromotion is a home page promotion banner.
type IndexPromotion struct {
	bun.BaseModel `bun:"table:df_index_promotion,alias:ip"`

	ID    uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name  string    `bun:"name,notnull" json:"name"`
	URL   string    `bun:"url" json:"url"`
	Image string    `bun:"image" json:"image"`
	Index int       `bun:"index,notnull" json:"index"`
}

// Models lists every table the catalog reads, in creation order.
func Models() []any {
	return []any{
		(*GoodsCategory)(nil),
		(*GoodsSPU)(nil),
		(*GoodsSKU)(nil),
		(*IndexSlideGoods)(nil),
		(*IndexCategoryGoods)(nil),
		(*IndexPromotion)(nil),
	}
}

// CategoryView is a category together with the SKUs the home page features for it.
type CategoryView struct {
	Category  *GoodsCategory
	TextSKUs  []*IndexCategoryGoods
	ImageSKUs []*IndexCategoryGoods
}

// Snapshot is the home page catalog aggregate.
type Snapshot struct {
	Categories []CategoryView
	Slides     []*IndexSlideGoods
	Promotions []*IndexPromotion
}

// Detail is everything the SKU detail page shows besides per-user state.
type Detail struct {
	SKU         *GoodsSKU
	Categories  []*GoodsCategory
	Recommended []*GoodsSKU
	Siblings    []*GoodsSKU
}

// Listing is one page of a category listing.
type Listing struct {
	Category    *GoodsCategory
	Categories  []*GoodsCategory
	Page        Page[*GoodsSKU]
	PageRange   []int
	Recommended []*GoodsSKU
	Sort        string
}
