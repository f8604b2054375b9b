package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sort labels accepted by BuildListing.
const (
	SortPrice   = "price"
	SortHot     = "hot"
	SortDefault = "default"
)

const (
	DefaultPageSize        = 2
	DefaultRecommendLimit  = 2
	DefaultImageSKULimit   = 4
	DefaultPromotionsLimit = 2
)

// Assembler composes catalog queries into page aggregates.
type Assembler struct {
	store          Store
	logger         *zap.Logger
	pageSize       int
	recommendLimit int
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the logger used for suppressed secondary failures.
func WithLogger(logger *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPageSize overrides the listing page size. Values below 1 are ignored.
func WithPageSize(size int) AssemblerOption {
	return func(a *Assembler) {
		if size > 0 {
			a.pageSize = size
		}
	}
}

func NewAssembler(store Store, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		store:          store,
		logger:         zap.NewNop(),
		pageSize:       DefaultPageSize,
		recommendLimit: DefaultRecommendLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildSnapshot assembles the home page aggregate from the store.
func (a *Assembler) BuildSnapshot(ctx context.Context) (Snapshot, error) {
	categories, err := a.store.Categories(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		text, err := a.store.IndexCategorySKUs(ctx, category.ID, DisplayText, 0)
		if err != nil {
			return Snapshot{}, err
		}
		images, err := a.store.IndexCategorySKUs(ctx, category.ID, DisplayImage, DefaultImageSKULimit)
		if err != nil {
			return Snapshot{}, err
		}
		views = append(views, CategoryView{
			Category:  category,
			TextSKUs:  text,
			ImageSKUs: images,
		})
	}

	slides, err := a.store.Slides(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	promotions, err := a.store.Promotions(ctx, DefaultPromotionsLimit)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Categories: views,
		Slides:     slides,
		Promotions: promotions,
	}, nil
}

// BuildDetail assembles the detail page for a SKU. It returns an error
// matching ErrNotFound when the SKU does not exist.
func (a *Assembler) BuildDetail(ctx context.Context, skuID uuid.UUID) (Detail, error) {
	sku, err := a.store.SKU(ctx, skuID)
	if err != nil {
		return Detail{}, err
	}

	categories, err := a.store.Categories(ctx)
	if err != nil {
		return Detail{}, err
	}

	recommended := a.recommend(ctx, sku.CategoryID)

	siblings, err := a.store.SiblingSKUs(ctx, sku.SPUID, sku.ID)
	if err != nil {
		return Detail{}, err
	}

	return Detail{
		SKU:         sku,
		Categories:  categories,
		Recommended: recommended.Value,
		Siblings:    siblings,
	}, nil
}

// BuildListing assembles one page of a category listing. Unknown sort keys
// fall back to store order under the "default" label, and a page number
// outside the listing yields page 1.
func (a *Assembler) BuildListing(ctx context.Context, categoryID uuid.UUID, sortKey string, pageNumber int) (Listing, error) {
	category, err := a.store.Category(ctx, categoryID)
	if err != nil {
		return Listing{}, err
	}

	categories, err := a.store.Categories(ctx)
	if err != nil {
		return Listing{}, err
	}

	recommended := a.recommend(ctx, category.ID)

	order, label := NormalizeSort(sortKey)
	skus, err := a.store.CategorySKUs(ctx, category.ID, order)
	if err != nil {
		return Listing{}, err
	}

	paginator := NewPaginator(skus, a.pageSize)
	page, err := paginator.Page(pageNumber)
	if errors.Is(err, ErrEmptyPage) {
		page, err = paginator.Page(1)
	}
	if err != nil {
		return Listing{}, fmt.Errorf("paginate category %s: %w", categoryID, err)
	}

	return Listing{
		Category:    category,
		Categories:  categories,
		Page:        page,
		PageRange:   paginator.PageRange(),
		Recommended: recommended.Value,
		Sort:        label,
	}, nil
}

// NormalizeSort maps a sort key to its ordering and display label.
func NormalizeSort(key string) (SKUOrder, string) {
	switch key {
	case SortPrice:
		return OrderPrice, SortPrice
	case SortHot:
		return OrderHot, SortHot
	default:
		return OrderDefault, SortDefault
	}
}

func (a *Assembler) recommend(ctx context.Context, categoryID uuid.UUID) Fallback[[]*GoodsSKU] {
	skus, err := a.store.NewestSKUs(ctx, categoryID, a.recommendLimit)
	result := NewFallback(skus, err, make([]*GoodsSKU, 0, a.recommendLimit))
	if result.Degraded() {
		a.logger.Warn("recommended skus unavailable",
			zap.Stringer("category_id", categoryID),
			zap.Error(result.Err),
		)
	}
	return result
}
