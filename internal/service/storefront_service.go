package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/currency"
	"storefront/internal/model"
	"storefront/internal/pagination"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// View messages shown in place of the product grid.
const (
	MessageLoading      = "Loading products..."
	MessageCatalogError = "Failed to load products. Please check that the backend is running."
	MessageNoResults    = "No products found"
	NoticeCartCleared   = "Cart cleared"
)

// DefaultCheckoutURL is the page the checkout handoff redirects to.
const DefaultCheckoutURL = "checkout.html"

// Options tunes the storefront view.
type Options struct {
	PageSize    int
	CheckoutURL string
}

// storefrontService implements StorefrontService.
type storefrontService struct {
	mu         sync.Mutex
	filter     model.FilterState
	catalogErr bool
	revision   atomic.Uint64

	products  CatalogSource
	rates     RateSource
	catalog   *catalog.Catalog
	converter *currency.Converter
	cart      *cart.Store
	store     storage.Store
	opts      Options
	logger    zerolog.Logger
}

// NewStorefrontService wires the catalog, converter and cart over store.
func NewStorefrontService(
	products CatalogSource,
	rates RateSource,
	store storage.Store,
	opts Options,
	logger zerolog.Logger,
) StorefrontService {
	if opts.PageSize <= 0 {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.CheckoutURL == "" {
		opts.CheckoutURL = DefaultCheckoutURL
	}

	cat := catalog.New()
	converter := currency.NewConverter(store, logger)

	s := &storefrontService{
		filter:    model.DefaultFilterState(),
		products:  products,
		rates:     rates,
		catalog:   cat,
		converter: converter,
		cart:      cart.NewStore(cat, converter, store, logger),
		store:     store,
		opts:      opts,
		logger:    logger.With().Str("service", "storefront").Logger(),
	}

	s.cart.OnChange(func() { s.revision.Add(1) })
	s.converter.OnChange(func(model.ExchangeRate) { s.revision.Add(1) })

	return s
}

// Start restores the persisted cart and rate, then fetches the rate and the
// catalog concurrently.
func (s *storefrontService) Start(ctx context.Context) {
	s.cart.Restore(ctx)
	s.converter.Restore(ctx)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.refreshRate(ctx)
	}()

	go func() {
		defer wg.Done()
		s.loadCatalog(ctx)
	}()

	wg.Wait()

	s.logger.Info().
		Bool("catalog_loaded", s.catalog.Loaded()).
		Int("cart_lines", s.cart.Len()).
		Str("rate", s.converter.Snapshot().Rate.String()).
		Msg("storefront started")
}

// Render returns the current view.
func (s *storefrontService) Render() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

// OnFilterChanged applies the non-nil fields of change and resets to page 1.
func (s *storefrontService) OnFilterChanged(change model.FilterChange) model.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if change.Category != nil {
		s.filter.Category = *change.Category
		if s.filter.Category == "" {
			s.filter.Category = model.CategoryAll
		}
	}
	if change.SearchText != nil {
		s.filter.SearchText = *change.SearchText
	}
	if change.SortOrder != nil {
		if change.SortOrder.Valid() {
			s.filter.SortOrder = *change.SortOrder
		} else {
			s.logger.Warn().Str("sort", string(*change.SortOrder)).Msg("ignoring unknown sort order")
		}
	}
	s.filter.Page = 1

	s.logger.Debug().
		Str("category", s.filter.Category).
		Str("search", s.filter.SearchText).
		Str("sort", string(s.filter.SortOrder)).
		Msg("filters changed")

	return s.render()
}

// OnPageChanged moves to the requested page, clamped to the result set.
func (s *storefrontService) OnPageChanged(change model.PageChange) model.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.filter.Page
	switch {
	case change.Page > 0:
		target = change.Page
	case change.Action == model.PageActionPrev:
		target--
	case change.Action == model.PageActionNext:
		target++
	}

	visible := catalog.Pipeline(s.catalog.Products(), s.filter)
	totalPages := pagination.Paginate(visible, s.opts.PageSize, 1).TotalPages
	s.filter.Page = pagination.Clamp(target, totalPages)

	return s.render()
}

// OnCartAction applies action to the cart. Actions on products that are not
// in the cart or not in the catalog leave the cart unchanged.
func (s *storefrontService) OnCartAction(ctx context.Context, action model.CartAction) (model.View, error) {
	var notice string

	switch action.Kind {
	case model.CartAdd:
		if s.cart.Add(ctx, action.ProductID, action.Quantity) {
			if p, ok := s.catalog.Find(action.ProductID); ok {
				notice = fmt.Sprintf("%d × %s added to cart", action.Quantity, p.Name)
			}
		}
	case model.CartIncrement:
		s.cart.Increment(ctx, action.ProductID)
	case model.CartDecrement:
		s.cart.Decrement(ctx, action.ProductID)
	case model.CartRemove:
		s.cart.Remove(ctx, action.ProductID)
	case model.CartClear:
		if s.cart.Clear(ctx) {
			notice = NoticeCartCleared
		}
	default:
		s.logger.Warn().Str("kind", string(action.Kind)).Msg("unknown cart action")
		return model.View{}, model.ErrInvalidRequest
	}

	view := s.Render()
	view.Notice = notice
	return view, nil
}

// Reload refetches the catalog. Concurrent reloads are not deduplicated and
// the last one to complete wins.
func (s *storefrontService) Reload(ctx context.Context) model.View {
	s.loadCatalog(ctx)
	return s.Render()
}

// Checkout hands the cart over to the checkout page.
func (s *storefrontService) Checkout(ctx context.Context) (*model.Handoff, error) {
	if s.cart.Len() == 0 {
		s.logger.Debug().Msg("checkout requested with empty cart")
		return nil, model.ErrEmptyCart
	}

	if err := s.cart.Persist(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist cart for checkout")
	}
	if err := s.converter.Persist(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist exchange rate for checkout")
	}

	totals := s.cart.Totals()
	s.logger.Info().
		Int("item_count", totals.ItemCount).
		Str("total_base", totals.TotalBase.String()).
		Str("redirect", s.opts.CheckoutURL).
		Msg("checkout handoff")

	return &model.Handoff{Redirect: s.opts.CheckoutURL}, nil
}

// ResetStorage empties the cart and deletes both persisted keys. The
// in-memory exchange rate is kept until the next rate fetch.
func (s *storefrontService) ResetStorage(ctx context.Context) model.View {
	s.cart.Clear(ctx)

	for _, key := range []string{storage.CartKey, storage.RateKey} {
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Err(err).Str("key", key).Msg("failed to delete persisted state")
		}
	}

	s.logger.Info().Msg("persisted state cleared")
	return s.Render()
}

func (s *storefrontService) refreshRate(ctx context.Context) {
	rate, found, err := s.rates.Fetch(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rate fetch failed, using default rate")
		s.converter.UpdateRate(ctx, model.DefaultRate, model.DefaultSymbol)
		return
	}
	if !found {
		s.logger.Warn().Msg("backend did not provide an exchange rate, using default")
	}
	s.converter.UpdateRate(ctx, rate.Rate, rate.Symbol)
}

// loadCatalog fetches the catalog without holding the lock. A failed load
// keeps the previous products for cart lookups but hides the grid.
func (s *storefrontService) loadCatalog(ctx context.Context) {
	products, err := s.products.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("catalog load failed")
		s.catalogErr = true
		return
	}

	s.catalog.Replace(products)
	s.catalogErr = false
	s.filter.Page = 1
	s.revision.Add(1)

	s.logger.Info().Int("count", len(products)).Msg("catalog loaded")
}

// render builds the view from the current state. Callers hold s.mu.
func (s *storefrontService) render() model.View {
	all := s.catalog.Products()
	visible := catalog.Pipeline(all, s.filter)
	page := pagination.Paginate(visible, s.opts.PageSize, s.filter.Page)
	controls := pagination.NewControls(s.filter.Page, page.TotalPages)

	view := model.View{
		Banner:     s.converter.Banner(),
		Filter:     s.filter,
		Categories: catalog.Categories(all),
		Products:   make([]model.ProductCard, 0, len(page.Items)),
		Pagination: model.PaginationView{
			Visible:      controls.Visible,
			Current:      controls.Current,
			TotalPages:   controls.TotalPages,
			Pages:        controls.Pages,
			PrevDisabled: controls.PrevDisabled,
			NextDisabled: controls.NextDisabled,
		},
		Cart:     s.renderCart(),
		Revision: s.revision.Load(),
	}

	switch {
	case s.catalogErr:
		view.CatalogError = true
		view.Message = MessageCatalogError
		view.Pagination = model.PaginationView{}
		return view
	case !s.catalog.Loaded():
		view.Message = MessageLoading
		return view
	case len(visible) == 0:
		view.Message = MessageNoResults
		return view
	}

	for _, p := range page.Items {
		view.Products = append(view.Products, model.ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Image:       p.ImageRef,
			PriceBase:   s.converter.FormatBase(p.Price),
			PriceLocal:  s.converter.FormatLocal(s.converter.ToLocal(p.Price)),
		})
	}

	return view
}

func (s *storefrontService) renderCart() model.CartPanel {
	lines := s.cart.Lines()
	totals := s.cart.Totals()

	panel := model.CartPanel{
		Lines:      make([]model.CartLineView, 0, len(lines)),
		ItemCount:  totals.ItemCount,
		TotalBase:  s.converter.FormatBase(totals.TotalBase),
		TotalLocal: s.converter.FormatLocal(totals.TotalLocal),
		Empty:      len(lines) == 0,
	}
	panel.CheckoutEnabled = !panel.Empty
	panel.ClearEnabled = !panel.Empty

	for _, l := range lines {
		subtotal := l.Subtotal()
		panel.Lines = append(panel.Lines, model.CartLineView{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			UnitPrice:     s.converter.FormatBase(l.Price),
			SubtotalBase:  s.converter.FormatBase(subtotal),
			SubtotalLocal: s.converter.FormatLocal(s.converter.ToLocal(subtotal)),
		})
	}

	return panel
}
