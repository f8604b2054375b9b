package catalog

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore implements Store over bun using one go-repository-bun repository per model.
type BunStore struct {
	db         *bun.DB
	categories repository.Repository[*GoodsCategory]
	skus       repository.Repository[*GoodsSKU]
	indexGoods repository.Repository[*IndexCategoryGoods]
	slides     repository.Repository[*IndexSlideGoods]
	promotions repository.Repository[*IndexPromotion]
}

var _ Store = (*BunStore)(nil)

// NewBunStore builds the catalog repositories on db.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db: db,
		categories: repository.NewRepository[*GoodsCategory](db, repository.ModelHandlers[*GoodsCategory]{
			NewRecord:     func() *GoodsCategory { return &GoodsCategory{} },
			GetID:         func(r *GoodsCategory) uuid.UUID { return r.ID },
			SetID:         func(r *GoodsCategory, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "name" },
		}),
		skus: repository.NewRepository[*GoodsSKU](db, repository.ModelHandlers[*GoodsSKU]{
			NewRecord:     func() *GoodsSKU { return &GoodsSKU{} },
			GetID:         func(r *GoodsSKU) uuid.UUID { return r.ID },
			SetID:         func(r *GoodsSKU, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "name" },
		}),
		indexGoods: repository.NewRepository[*IndexCategoryGoods](db, repository.ModelHandlers[*IndexCategoryGoods]{
			NewRecord:     func() *IndexCategoryGoods { return &IndexCategoryGoods{} },
			GetID:         func(r *IndexCategoryGoods) uuid.UUID { return r.ID },
			SetID:         func(r *IndexCategoryGoods, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "id" },
		}),
		slides: repository.NewRepository[*IndexSlideGoods](db, repository.ModelHandlers[*IndexSlideGoods]{
			NewRecord:     func() *IndexSlideGoods { return &IndexSlideGoods{} },
			GetID:         func(r *IndexSlideGoods) uuid.UUID { return r.ID },
			SetID:         func(r *IndexSlideGoods, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "id" },
		}),
		promotions: repository.NewRepository[*IndexPromotion](db, repository.ModelHandlers[*IndexPromotion]{
			NewRecord:     func() *IndexPromotion { return &IndexPromotion{} },
			GetID:         func(r *IndexPromotion) uuid.UUID { return r.ID },
			SetID:         func(r *IndexPromotion, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "name" },
		}),
	}
}

// CreateSchema creates the catalog tables when they do not exist.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	for _, model := range Models() {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func (s *BunStore) Categories(ctx context.Context) ([]*GoodsCategory, error) {
	records, _, err := s.categories.List(ctx, unbounded())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return records, nil
}

func (s *BunStore) Category(ctx context.Context, id uuid.UUID) (*GoodsCategory, error) {
	records, _, err := s.categories.List(ctx, whereEq("id", id), limit(1))
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Kind: "category", ID: id.String()}
	}
	return records[0], nil
}

func (s *BunStore) SKU(ctx context.Context, id uuid.UUID) (*GoodsSKU, error) {
	records, _, err := s.skus.List(ctx, whereEq("id", id), limit(1))
	if err != nil {
		return nil, fmt.Errorf("get sku %s: %w", id, err)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Kind: "sku", ID: id.String()}
	}
	return records[0], nil
}

func (s *BunStore) IndexCategorySKUs(ctx context.Context, categoryID uuid.UUID, display DisplayType, n int) ([]*IndexCategoryGoods, error) {
	records, _, err := s.indexGoods.List(ctx,
		withRelation("SKU"),
		whereEq("category_id", categoryID),
		whereEq("display_type", display),
		orderBy("index", asc),
		limit(n),
	)
	if err != nil {
		return nil, fmt.Errorf("list index goods for category %s: %w", categoryID, err)
	}
	return records, nil
}

func (s *BunStore) Slides(ctx context.Context) ([]*IndexSlideGoods, error) {
	records, _, err := s.slides.List(ctx, withRelation("SKU"), orderBy("index", asc), unbounded())
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	return records, nil
}

func (s *BunStore) Promotions(ctx context.Context, n int) ([]*IndexPromotion, error) {
	records, _, err := s.promotions.List(ctx, orderBy("index", asc), limit(n))
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	return records, nil
}

func (s *BunStore) NewestSKUs(ctx context.Context, categoryID uuid.UUID, n int) ([]*GoodsSKU, error) {
	records, _, err := s.skus.List(ctx,
		whereEq("category_id", categoryID),
		orderBy("create_time", desc),
		limit(n),
	)
	if err != nil {
		return nil, fmt.Errorf("list newest skus for category %s: %w", categoryID, err)
	}
	return records, nil
}

func (s *BunStore) SiblingSKUs(ctx context.Context, spuID, excludeID uuid.UUID) ([]*GoodsSKU, error) {
	records, _, err := s.skus.List(ctx, whereEq("spu_id", spuID), whereNotEq("id", excludeID), unbounded())
	if err != nil {
		return nil, fmt.Errorf("list sibling skus for spu %s: %w", spuID, err)
	}
	return records, nil
}

func (s *BunStore) CategorySKUs(ctx context.Context, categoryID uuid.UUID, order SKUOrder) ([]*GoodsSKU, error) {
	criteria := []repository.SelectCriteria{whereEq("category_id", categoryID), unbounded()}
	switch order {
	case OrderPrice:
		criteria = append(criteria, orderBy("price", asc))
	case OrderHot:
		criteria = append(criteria, orderBy("sales", desc))
	}

	records, _, err := s.skus.List(ctx, criteria...)
	if err != nil {
		return nil, fmt.Errorf("list skus for category %s: %w", categoryID, err)
	}
	return records, nil
}

type direction string

const (
	asc  direction = "ASC"
	desc direction = "DESC"
)

func whereEq(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

func whereNotEq(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? <> ?", bun.Ident(column), value)
	}
}

func orderBy(column string, dir direction) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.? "+string(dir), bun.Ident(column))
	}
}

// limit caps the result at n rows. For n <= 0 it clears the repository's
// default page window so the query returns every matching row.
func limit(n int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if n <= 0 {
			return q.Limit(0)
		}
		return q.Limit(n)
	}
}

// unbounded is limit(0).
func unbounded() repository.SelectCriteria {
	return limit(0)
}

func withRelation(name string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation(name)
	}
}
