package web

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/catalog"
)

// HomeSource returns the home page snapshot.
type HomeSource interface {
	Get(ctx context.Context) (catalog.Snapshot, error)
}

// CatalogSource assembles the detail and listing pages.
type CatalogSource interface {
	BuildDetail(ctx context.Context, skuID uuid.UUID) (catalog.Detail, error)
	BuildListing(ctx context.Context, categoryID uuid.UUID, sortKey string, page int) (catalog.Listing, error)
}

// CartCounter sums the quantities in a user's cart.
type CartCounter interface {
	TotalQuantity(ctx context.Context, userID string) (int64, error)
}

// ViewRecorder records a product view for a user.
type ViewRecorder interface {
	RecordView(ctx context.Context, userID, productID string) error
}

// Handler serves the storefront pages.
type Handler struct {
	home     HomeSource
	catalog  CatalogSource
	carts    CartCounter
	history  ViewRecorder
	users    UserResolver
	renderer Renderer
	logger   *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithUserResolver(users UserResolver) Option {
	return func(h *Handler) {
		if users != nil {
			h.users = users
		}
	}
}

func WithRenderer(renderer Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// NewHandler wires the page handlers. Without WithRenderer the embedded
// templates are used.
func NewHandler(home HomeSource, source CatalogSource, carts CartCounter, history ViewRecorder, opts ...Option) (*Handler, error) {
	h := &Handler{
		home:    home,
		catalog: source,
		carts:   carts,
		history: history,
		users:   HeaderUserResolver{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.renderer == nil {
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		h.renderer = renderer
	}
	return h, nil
}

// Routes returns the instrumented storefront router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.Home)
	r.Get("/goods/{id}", h.Detail)
	r.Get("/list/{category}/{page}", h.Listing)

	return otelhttp.NewHandler(r, "storefront")
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := h.home.Get(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cartCount, err := h.carts.TotalQuantity(ctx, h.users.UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, TemplateIndex, HomePayload{Snapshot: snapshot, CartCount: cartCount})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skuID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.redirectHome(w, r)
		return
	}

	detail, err := h.catalog.BuildDetail(ctx, skuID)
	if catalog.IsNotFound(err) {
		h.redirectHome(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	userID := h.users.UserID(r)
	cartCount, err := h.carts.TotalQuantity(ctx, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.history.RecordView(ctx, userID, detail.SKU.ID.String()); err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, TemplateDetail, DetailPayload{Detail: detail, CartCount: cartCount})
}

func (h *Handler) Listing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, err := uuid.Parse(chi.URLParam(r, "category"))
	if err != nil {
		h.redirectHome(w, r)
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		page = 1
	}

	listing, err := h.catalog.BuildListing(ctx, categoryID, r.URL.Query().Get("sort"), page)
	if catalog.IsNotFound(err) {
		h.redirectHome(w, r)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cartCount, err := h.carts.TotalQuantity(ctx, h.users.UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, TemplateList, ListingPayload{Listing: listing, CartCount: cartCount})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
