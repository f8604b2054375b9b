package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeStore is an in-memory Store that records calls and can fail per method.
type fakeStore struct {
	mu         sync.Mutex
	calls      []string
	errors     map[string]error
	categories []*GoodsCategory
	skus       []*GoodsSKU
	indexGoods []*IndexCategoryGoods
	slides     []*IndexSlideGoods
	promotions []*IndexPromotion
}

func newFakeStore() *fakeStore {
	return &fakeStore{errors: make(map[string]error)}
}

func (f *fakeStore) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	return f.errors[method]
}

func (f *fakeStore) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeStore) Categories(ctx context.Context) ([]*GoodsCategory, error) {
	if err := f.record("Categories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeStore) Category(ctx context.Context, id uuid.UUID) (*GoodsCategory, error) {
	if err := f.record("Category"); err != nil {
		return nil, err
	}
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, &NotFoundError{Kind: "category", ID: id.String()}
}

func (f *fakeStore) SKU(ctx context.Context, id uuid.UUID) (*GoodsSKU, error) {
	if err := f.record("SKU"); err != nil {
		return nil, err
	}
	for _, s := range f.skus {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, &NotFoundError{Kind: "sku", ID: id.String()}
}

func (f *fakeStore) IndexCategorySKUs(ctx context.Context, categoryID uuid.UUID, display DisplayType, n int) ([]*IndexCategoryGoods, error) {
	if err := f.record("IndexCategorySKUs"); err != nil {
		return nil, err
	}
	var out []*IndexCategoryGoods
	for _, g := range f.indexGoods {
		if g.CategoryID == categoryID && g.DisplayType == display {
			out = append(out, g)
		}
	}
	return capped(out, n), nil
}

func (f *fakeStore) Slides(ctx context.Context) ([]*IndexSlideGoods, error) {
	if err := f.record("Slides"); err != nil {
		return nil, err
	}
	out := append([]*IndexSlideGoods(nil), f.slides...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (f *fakeStore) Promotions(ctx context.Context, n int) ([]*IndexPromotion, error) {
	if err := f.record("Promotions"); err != nil {
		return nil, err
	}
	out := append([]*IndexPromotion(nil), f.promotions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return capped(out, n), nil
}

func (f *fakeStore) NewestSKUs(ctx context.Context, categoryID uuid.UUID, n int) ([]*GoodsSKU, error) {
	if err := f.record("NewestSKUs"); err != nil {
		return nil, err
	}
	out := f.inCategory(categoryID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreateTime.After(out[j].CreateTime) })
	return capped(out, n), nil
}

func (f *fakeStore) SiblingSKUs(ctx context.Context, spuID, excludeID uuid.UUID) ([]*GoodsSKU, error) {
	if err := f.record("SiblingSKUs"); err != nil {
		return nil, err
	}
	var out []*GoodsSKU
	for _, s := range f.skus {
		if s.SPUID == spuID && s.ID != excludeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) CategorySKUs(ctx context.Context, categoryID uuid.UUID, order SKUOrder) ([]*GoodsSKU, error) {
	if err := f.record("CategorySKUs"); err != nil {
		return nil, err
	}
	out := f.inCategory(categoryID)
	switch order {
	case OrderPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case OrderHot:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	}
	return out, nil
}

func (f *fakeStore) inCategory(categoryID uuid.UUID) []*GoodsSKU {
	var out []*GoodsSKU
	for _, s := range f.skus {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}

func capped[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// pricedStore holds one category whose SKUs carry the given prices in insertion order.
func pricedStore(prices ...int64) (*fakeStore, uuid.UUID) {
	store := newFakeStore()
	category := &GoodsCategory{ID: uuid.New(), Name: "fruit"}
	store.categories = []*GoodsCategory{category}
	for i, p := range prices {
		store.skus = append(store.skus, &GoodsSKU{
			ID:         uuid.New(),
			CategoryID: category.ID,
			SPUID:      uuid.New(),
			Price:      decimal.NewFromInt(p),
			Sales:      int(100 - p),
		})
		store.skus[i].Name = store.skus[i].Price.String()
	}
	return store, category.ID
}

func prices(skus []*GoodsSKU) []int64 {
	out := make([]int64, len(skus))
	for i, s := range skus {
		out[i] = s.Price.IntPart()
	}
	return out
}

func equalInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildSnapshot(t *testing.T) {
	store := newFakeStore()
	fruit := &GoodsCategory{ID: uuid.New(), Name: "fruit"}
	empty := &GoodsCategory{ID: uuid.New(), Name: "empty"}
	store.categories = []*GoodsCategory{fruit, empty}
	for i := 0; i < 6; i++ {
		store.indexGoods = append(store.indexGoods, &IndexCategoryGoods{
			ID: uuid.New(), CategoryID: fruit.ID, SKUID: uuid.New(), DisplayType: DisplayImage, Index: i,
		})
	}
	store.indexGoods = append(store.indexGoods, &IndexCategoryGoods{
		ID: uuid.New(), CategoryID: fruit.ID, SKUID: uuid.New(), DisplayType: DisplayText,
	})
	store.slides = []*IndexSlideGoods{{Index: 3}, {Index: 1}, {Index: 2}}
	store.promotions = []*IndexPromotion{{Name: "c", Index: 3}, {Name: "a", Index: 1}, {Name: "b", Index: 2}}

	snapshot, err := NewAssembler(store).BuildSnapshot(context.Background())
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}

	if len(snapshot.Categories) != 2 {
		t.Fatalf("expected 2 category views, got %d", len(snapshot.Categories))
	}
	fruitView := snapshot.Categories[0]
	if len(fruitView.TextSKUs) != 1 {
		t.Errorf("expected 1 text sku, got %d", len(fruitView.TextSKUs))
	}
	if len(fruitView.ImageSKUs) != DefaultImageSKULimit {
		t.Errorf("expected image skus capped at %d, got %d", DefaultImageSKULimit, len(fruitView.ImageSKUs))
	}
	if emptyView := snapshot.Categories[1]; len(emptyView.TextSKUs) != 0 || len(emptyView.ImageSKUs) != 0 {
		t.Errorf("expected empty category to have no skus")
	}

	for i, slide := range snapshot.Slides {
		if slide.Index != i+1 {
			t.Errorf("slides not ordered by index: %+v", snapshot.Slides)
			break
		}
	}
	if len(snapshot.Promotions) != 2 || snapshot.Promotions[0].Name != "a" || snapshot.Promotions[1].Name != "b" {
		t.Errorf("expected top two promotions by index, got %+v", snapshot.Promotions)
	}
}

func TestBuildSnapshot_PropagatesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.categories = []*GoodsCategory{{ID: uuid.New()}}
	boom := errors.New("db down")
	store.errors["Slides"] = boom

	_, err := NewAssembler(store).BuildSnapshot(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestBuildDetail(t *testing.T) {
	store, categoryID := pricedStore(10, 20, 30)
	sku := store.skus[0]
	sibling := &GoodsSKU{ID: uuid.New(), CategoryID: uuid.New(), SPUID: sku.SPUID}
	store.skus = append(store.skus, sibling)
	for i, s := range store.skus {
		s.CreateTime = s.CreateTime.AddDate(0, 0, i)
	}

	detail, err := NewAssembler(store).BuildDetail(context.Background(), sku.ID)
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}

	if detail.SKU.ID != sku.ID {
		t.Errorf("unexpected sku %s", detail.SKU.ID)
	}
	if len(detail.Categories) != 1 || detail.Categories[0].ID != categoryID {
		t.Errorf("unexpected categories %+v", detail.Categories)
	}
	if got := prices(detail.Recommended); !equalInts(got, []int64{30, 20}) {
		t.Errorf("expected newest two same-category skus, got %v", got)
	}
	if len(detail.Siblings) != 1 || detail.Siblings[0].ID != sibling.ID {
		t.Errorf("expected sibling only, got %+v", detail.Siblings)
	}
}

func TestBuildDetail_NotFound(t *testing.T) {
	store, _ := pricedStore(10)

	_, err := NewAssembler(store).BuildDetail(context.Background(), uuid.New())
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if store.callCount("Categories") != 0 {
		t.Errorf("expected no further queries after not found")
	}
}

func TestBuildDetail_RecommendedFailureFallsBackToEmpty(t *testing.T) {
	store, _ := pricedStore(10, 20)
	store.errors["NewestSKUs"] = errors.New("timeout")

	core, logs := observer.New(zap.WarnLevel)
	assembler := NewAssembler(store, WithLogger(zap.New(core)))

	detail, err := assembler.BuildDetail(context.Background(), store.skus[0].ID)
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if detail.Recommended == nil || len(detail.Recommended) != 0 {
		t.Errorf("expected empty recommended list, got %v", detail.Recommended)
	}
	if logs.FilterMessage("recommended skus unavailable").Len() != 1 {
		t.Errorf("expected suppressed failure to be logged at warn")
	}
}

func TestBuildDetail_SiblingFailurePropagates(t *testing.T) {
	store, _ := pricedStore(10)
	boom := errors.New("db down")
	store.errors["SiblingSKUs"] = boom

	_, err := NewAssembler(store).BuildDetail(context.Background(), store.skus[0].ID)
	if !errors.Is(err, boom) {
		t.Errorf("expected sibling error, got %v", err)
	}
}

func TestBuildListing_Sorting(t *testing.T) {
	tests := []struct {
		name      string
		sortKey   string
		wantLabel string
		want      []int64
	}{
		{name: "price ascending", sortKey: "price", wantLabel: SortPrice, want: []int64{10, 20}},
		{name: "hot descending sales", sortKey: "hot", wantLabel: SortHot, want: []int64{10, 20}},
		{name: "unknown key", sortKey: "newest", wantLabel: SortDefault, want: []int64{30, 10}},
		{name: "absent key", sortKey: "", wantLabel: SortDefault, want: []int64{30, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, categoryID := pricedStore(30, 10, 50, 20, 40)

			listing, err := NewAssembler(store).BuildListing(context.Background(), categoryID, tt.sortKey, 1)
			if err != nil {
				t.Fatalf("BuildListing: %v", err)
			}
			if listing.Sort != tt.wantLabel {
				t.Errorf("expected sort label %q, got %q", tt.wantLabel, listing.Sort)
			}
			if got := prices(listing.Page.Items); !equalInts(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildListing_Pages(t *testing.T) {
	tests := []struct {
		page       int
		wantNumber int
		want       []int64
	}{
		{page: 1, wantNumber: 1, want: []int64{10, 20}},
		{page: 2, wantNumber: 2, want: []int64{30, 40}},
		{page: 3, wantNumber: 3, want: []int64{50}},
		{page: 4, wantNumber: 1, want: []int64{10, 20}},
		{page: 0, wantNumber: 1, want: []int64{10, 20}},
		{page: -3, wantNumber: 1, want: []int64{10, 20}},
	}

	for _, tt := range tests {
		store, categoryID := pricedStore(10, 20, 30, 40, 50)

		listing, err := NewAssembler(store).BuildListing(context.Background(), categoryID, SortPrice, tt.page)
		if err != nil {
			t.Fatalf("page %d: BuildListing: %v", tt.page, err)
		}
		if listing.Page.Number != tt.wantNumber {
			t.Errorf("page %d: expected page number %d, got %d", tt.page, tt.wantNumber, listing.Page.Number)
		}
		if got := prices(listing.Page.Items); !equalInts(got, tt.want) {
			t.Errorf("page %d: expected %v, got %v", tt.page, tt.want, got)
		}
		if len(listing.PageRange) != 3 {
			t.Errorf("page %d: expected page range of 3, got %v", tt.page, listing.PageRange)
		}
	}
}

func TestBuildListing_EmptyCategory(t *testing.T) {
	store, categoryID := pricedStore()

	listing, err := NewAssembler(store).BuildListing(context.Background(), categoryID, "", 7)
	if err != nil {
		t.Fatalf("BuildListing: %v", err)
	}
	if listing.Page.Number != 1 || len(listing.Page.Items) != 0 {
		t.Errorf("expected empty first page, got %+v", listing.Page)
	}
	if len(listing.PageRange) != 1 {
		t.Errorf("expected single page, got %v", listing.PageRange)
	}
}

func TestBuildListing_NotFound(t *testing.T) {
	store, _ := pricedStore(10)

	_, err := NewAssembler(store).BuildListing(context.Background(), uuid.New(), "", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildListing_RecommendedFailureFallsBackToEmpty(t *testing.T) {
	store, categoryID := pricedStore(10, 20, 30)
	store.errors["NewestSKUs"] = errors.New("timeout")

	listing, err := NewAssembler(store).BuildListing(context.Background(), categoryID, "", 1)
	if err != nil {
		t.Fatalf("BuildListing: %v", err)
	}
	if len(listing.Recommended) != 0 {
		t.Errorf("expected empty recommended list, got %d", len(listing.Recommended))
	}
	if len(listing.Page.Items) != 2 {
		t.Errorf("expected primary listing to render, got %d items", len(listing.Page.Items))
	}
}

func TestBuildListing_PageSizeOption(t *testing.T) {
	store, categoryID := pricedStore(10, 20, 30, 40, 50)

	listing, err := NewAssembler(store, WithPageSize(3)).BuildListing(context.Background(), categoryID, SortPrice, 2)
	if err != nil {
		t.Fatalf("BuildListing: %v", err)
	}
	if got := prices(listing.Page.Items); !equalInts(got, []int64{40, 50}) {
		t.Errorf("expected [40 50], got %v", got)
	}
}

func TestNormalizeSort(t *testing.T) {
	cases := map[string]struct {
		order SKUOrder
		label string
	}{
		"price":   {OrderPrice, SortPrice},
		"hot":     {OrderHot, SortHot},
		"default": {OrderDefault, SortDefault},
		"PRICE":   {OrderDefault, SortDefault},
		"":        {OrderDefault, SortDefault},
	}
	for key, want := range cases {
		order, label := NormalizeSort(key)
		if order != want.order || label != want.label {
			t.Errorf("NormalizeSort(%q) = (%v, %q), want (%v, %q)", key, order, label, want.order, want.label)
		}
	}
}
