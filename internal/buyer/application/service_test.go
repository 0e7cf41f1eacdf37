package application

import (
	"context"
	"errors"
	"testing"

	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	"github.com/shopspring/decimal"
)

// fakeStore 共享的内存存储，让购物车与订单仓储共用一份
// 数据以便验证事务回滚
type fakeStore struct {
	carts      map[uint]*domain.CartItem
	orders     []*domain.Order
	nextCartID uint
	nextOrdID  uint

	orderSaveErr error
	txCalls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{carts: make(map[uint]*domain.CartItem), nextCartID: 1, nextOrdID: 1}
}

type fakeCartRepo struct{ store *fakeStore }

func (r *fakeCartRepo) ListByBuyer(_ context.Context, buyerID uint) ([]*domain.CartItem, error) {
	var out []*domain.CartItem
	for _, item := range r.store.carts {
		if item.BuyerID == buyerID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) GetByID(_ context.Context, id uint) (*domain.CartItem, error) {
	item, ok := r.store.carts[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeCartRepo) GetByBuyerAndProduct(_ context.Context, buyerID, productID uint) (*domain.CartItem, error) {
	for _, item := range r.store.carts {
		if item.BuyerID == buyerID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Save(_ context.Context, item *domain.CartItem) error {
	if item.ID == 0 {
		item.ID = r.store.nextCartID
		r.store.nextCartID++
	}
	copied := *item
	r.store.carts[item.ID] = &copied
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, id uint) error {
	delete(r.store.carts, id)
	return nil
}

func (r *fakeCartRepo) DeleteByBuyer(_ context.Context, buyerID uint) error {
	for id, item := range r.store.carts {
		if item.BuyerID == buyerID {
			delete(r.store.carts, id)
		}
	}
	return nil
}

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Save(_ context.Context, order *domain.Order) error {
	if r.store.orderSaveErr != nil {
		return r.store.orderSaveErr
	}
	if order.ID == 0 {
		order.ID = r.store.nextOrdID
		r.store.nextOrdID++
	}
	copied := *order
	r.store.orders = append(r.store.orders, &copied)
	return nil
}

func (r *fakeOrderRepo) ListByBuyerNewestFirst(_ context.Context, buyerID uint) ([]*domain.Order, error) {
	var out []*domain.Order
	for i := len(r.store.orders) - 1; i >= 0; i-- {
		if r.store.orders[i].BuyerID == buyerID {
			copied := *r.store.orders[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	r.store.txCalls++
	cartSnapshot := make(map[uint]*domain.CartItem, len(r.store.carts))
	for id, item := range r.store.carts {
		copied := *item
		cartSnapshot[id] = &copied
	}
	orderSnapshot := make([]*domain.Order, len(r.store.orders))
	copy(orderSnapshot, r.store.orders)

	if err := fn(ctx); err != nil {
		r.store.carts = cartSnapshot
		r.store.orders = orderSnapshot
		return err
	}
	return nil
}

type fakeVerifier struct {
	identity *domain.Identity
	err      error
}

func (v *fakeVerifier) Validate(_ context.Context, _ string) (*domain.Identity, error) {
	return v.identity, v.err
}

type fakeCatalog struct {
	products map[uint]*domain.ProductSnapshot
	err      error
}

func (c *fakeCatalog) GetProduct(_ context.Context, id uint) (*domain.ProductSnapshot, error) {
	if c.err != nil {
		return nil, c.err
	}
	product, ok := c.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (c *fakeCatalog) ListAvailable(_ context.Context) ([]*domain.ProductSnapshot, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []*domain.ProductSnapshot
	for _, product := range c.products {
		if product.Quantity > 0 {
			copied := *product
			out = append(out, &copied)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	eventTypes []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, _ string, _ interface{}) error {
	p.eventTypes = append(p.eventTypes, eventType)
	return nil
}

func buyerIdentity(userID uint) *domain.Identity {
	return &domain.Identity{UserID: userID, Username: "alice", Role: domain.RoleBuyer, Valid: true}
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type fixture struct {
	store   *fakeStore
	carts   *fakeCartRepo
	orders  *fakeOrderRepo
	catalog *fakeCatalog
	pub     *recordingPublisher
	cmd     *BuyerCommandService
	query   *BuyerQueryService
}

func newFixture(identity *domain.Identity) *fixture {
	store := newFakeStore()
	carts := &fakeCartRepo{store: store}
	orders := &fakeOrderRepo{store: store}
	catalog := &fakeCatalog{products: make(map[uint]*domain.ProductSnapshot)}
	verifier := &fakeVerifier{identity: identity}
	pub := &recordingPublisher{}
	return &fixture{
		store:   store,
		carts:   carts,
		orders:  orders,
		catalog: catalog,
		pub:     pub,
		cmd:     NewBuyerCommandService(carts, orders, verifier, catalog, pub, nil),
		query:   NewBuyerQueryService(carts, orders, verifier, catalog),
	}
}

func (f *fixture) seedProduct(id uint, name, unitPrice string, quantity int) {
	f.catalog.products[id] = &domain.ProductSnapshot{
		ID:       id,
		Name:     name,
		Price:    price(unitPrice),
		Quantity: quantity,
	}
}

func (f *fixture) seedCartItem(t *testing.T, buyerID, productID uint, quantity int) *domain.CartItem {
	t.Helper()
	item := &domain.CartItem{BuyerID: buyerID, ProductID: productID, Quantity: quantity}
	if err := f.carts.Save(context.Background(), item); err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return item
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new item", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 5)

		item, err := f.cmd.AddToCart(ctx, AddToCartCommand{ProductID: 10, Quantity: 2}, "Bearer token")
		if err != nil {
			t.Fatalf("AddToCart: %v", err)
		}
		if item.Quantity != 2 {
			t.Errorf("Quantity = %d, want 2", item.Quantity)
		}
		if len(f.store.carts) != 1 {
			t.Errorf("cart size = %d, want 1", len(f.store.carts))
		}
		if len(f.pub.eventTypes) != 1 || f.pub.eventTypes[0] != domain.CartItemAddedEventType {
			t.Errorf("events = %v, want [%s]", f.pub.eventTypes, domain.CartItemAddedEventType)
		}
	})

	t.Run("merges quantity on repeat add", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 5)
		f.seedCartItem(t, 1, 10, 2)

		item, err := f.cmd.AddToCart(ctx, AddToCartCommand{ProductID: 10, Quantity: 3}, "Bearer token")
		if err != nil {
			t.Fatalf("AddToCart: %v", err)
		}
		if item.Quantity != 5 {
			t.Errorf("Quantity = %d, want 5", item.Quantity)
		}
		if len(f.store.carts) != 1 {
			t.Errorf("cart size = %d, want 1 (single row per product)", len(f.store.carts))
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 5)

		_, err := f.cmd.AddToCart(ctx, AddToCartCommand{ProductID: 10, Quantity: 0}, "Bearer token")
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("err = %v, want ErrInvalidQuantity", err)
		}
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))

		_, err := f.cmd.AddToCart(ctx, AddToCartCommand{ProductID: 999, Quantity: 1}, "Bearer token")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("err = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("rejects quantity above live stock", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 2)

		_, err := f.cmd.AddToCart(ctx, AddToCartCommand{ProductID: 10, Quantity: 3}, "Bearer token")
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if stockErr.ProductName != "Widget" {
			t.Errorf("ProductName = %q, want %q", stockErr.ProductName, "Widget")
		}
		if len(f.store.carts) != 0 {
			t.Error("cart line created despite stock failure")
		}
		if len(f.pub.eventTypes) != 0 {
			t.Errorf("events = %v, want none on rejected add", f.pub.eventTypes)
		}
	})

	t.Run("rejects admin role", func(t *testing.T) {
		f := newFixture(&domain.Identity{UserID: 1, Role: domain.RoleAdmin, Valid: true})
		f.seedProduct(10, "Widget", "9.99", 5)

		_, err := f.cmd.AddToCart(ctx, AddToCartCommand{ProductID: 10, Quantity: 1}, "Bearer token")
		if !errors.Is(err, domain.ErrBuyerRequired) {
			t.Errorf("err = %v, want ErrBuyerRequired", err)
		}
	})
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("removes own item", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		item := f.seedCartItem(t, 1, 10, 2)

		if err := f.cmd.RemoveFromCart(ctx, item.ID, "Bearer token"); err != nil {
			t.Fatalf("RemoveFromCart: %v", err)
		}
		if len(f.store.carts) != 0 {
			t.Errorf("cart size = %d, want 0", len(f.store.carts))
		}
		if len(f.pub.eventTypes) != 1 || f.pub.eventTypes[0] != domain.CartItemRemovedEventType {
			t.Errorf("events = %v, want [%s]", f.pub.eventTypes, domain.CartItemRemovedEventType)
		}
	})

	t.Run("rejects another buyer's item", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		item := f.seedCartItem(t, 2, 10, 2)

		err := f.cmd.RemoveFromCart(ctx, item.ID, "Bearer token")
		if !errors.Is(err, domain.ErrNotCartOwner) {
			t.Errorf("err = %v, want ErrNotCartOwner", err)
		}
		if len(f.store.carts) != 1 {
			t.Error("item belonging to another buyer was removed")
		}
		if len(f.pub.eventTypes) != 0 {
			t.Errorf("events = %v, want none on rejected removal", f.pub.eventTypes)
		}
	})

	t.Run("rejects missing item", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))

		err := f.cmd.RemoveFromCart(ctx, 999, "Bearer token")
		if !errors.Is(err, domain.ErrCartItemNotFound) {
			t.Errorf("err = %v, want ErrCartItemNotFound", err)
		}
	})
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("places order for every cart line and clears cart", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 5)
		f.seedProduct(11, "Gadget", "3.50", 10)
		f.seedCartItem(t, 1, 10, 2)
		f.seedCartItem(t, 1, 11, 4)

		result, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		if err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
		if len(result.Orders) != 2 {
			t.Fatalf("orders = %d, want 2", len(result.Orders))
		}
		if want := price("33.98"); !result.TotalPrice.Equal(want) {
			t.Errorf("TotalPrice = %s, want %s", result.TotalPrice, want)
		}
		for _, order := range result.Orders {
			if order.Status != domain.OrderStatusPlaced {
				t.Errorf("Status = %s, want %s", order.Status, domain.OrderStatusPlaced)
			}
		}
		if len(f.store.carts) != 0 {
			t.Errorf("cart size after order = %d, want 0", len(f.store.carts))
		}
		if f.store.txCalls != 1 {
			t.Errorf("transactions = %d, want 1", f.store.txCalls)
		}
		want := []string{domain.OrderPlacedEventType, domain.CartClearedEventType}
		if len(f.pub.eventTypes) != 2 || f.pub.eventTypes[0] != want[0] || f.pub.eventTypes[1] != want[1] {
			t.Errorf("events = %v, want %v", f.pub.eventTypes, want)
		}
	})

	t.Run("computes per-line total from live price", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "2.40", 5)
		f.seedCartItem(t, 1, 10, 3)

		result, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		if err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
		if want := price("7.20"); !result.Orders[0].TotalPrice.Equal(want) {
			t.Errorf("line total = %s, want %s", result.Orders[0].TotalPrice, want)
		}
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))

		_, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		if !errors.Is(err, domain.ErrEmptyCart) {
			t.Errorf("err = %v, want ErrEmptyCart", err)
		}
	})

	t.Run("rejects insufficient stock and keeps cart", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 1)
		f.seedCartItem(t, 1, 10, 2)

		_, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if stockErr.ProductName != "Widget" {
			t.Errorf("ProductName = %q, want %q", stockErr.ProductName, "Widget")
		}
		if got, want := stockErr.Error(), "Insufficient quantity for product: Widget"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if len(f.store.orders) != 0 {
			t.Error("orders were created despite stock failure")
		}
		if len(f.store.carts) != 1 {
			t.Error("cart was cleared despite stock failure")
		}
	})

	t.Run("maps catalog failure to upstream unavailable", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedCartItem(t, 1, 10, 2)
		f.catalog.err = errors.New("connection refused")

		_, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
		}
	})

	t.Run("rolls back orders and cart together on write failure", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedProduct(10, "Widget", "9.99", 5)
		f.seedCartItem(t, 1, 10, 2)
		f.store.orderSaveErr = errors.New("deadlock")

		_, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		if err == nil {
			t.Fatal("expected error from failed order write")
		}
		if len(f.store.orders) != 0 {
			t.Error("orders survived rollback")
		}
		if len(f.store.carts) != 1 {
			t.Error("cart did not survive rollback")
		}
		if len(f.pub.eventTypes) != 0 {
			t.Errorf("events = %v, want none after rollback", f.pub.eventTypes)
		}
	})

	t.Run("rejects admin role", func(t *testing.T) {
		f := newFixture(&domain.Identity{UserID: 1, Role: domain.RoleAdmin, Valid: true})

		_, err := f.cmd.PlaceOrder(ctx, "Bearer token")
		if !errors.Is(err, domain.ErrBuyerRequired) {
			t.Errorf("err = %v, want ErrBuyerRequired", err)
		}
	})

	t.Run("rejects invalid credential", func(t *testing.T) {
		f := newFixture(&domain.Identity{Valid: false})

		_, err := f.cmd.PlaceOrder(ctx, "Bearer bad")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("err = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestBuyerQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("get cart returns only own items", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		f.seedCartItem(t, 1, 10, 2)
		f.seedCartItem(t, 2, 11, 1)

		items, err := f.query.GetCart(ctx, "Bearer token")
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("len = %d, want 1", len(items))
		}
		if items[0].BuyerID != 1 {
			t.Errorf("BuyerID = %d, want 1", items[0].BuyerID)
		}
	})

	t.Run("get cart returns empty slice for empty cart", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))

		items, err := f.query.GetCart(ctx, "Bearer token")
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("items = %v, want empty slice", items)
		}
	})

	t.Run("order history is newest first", func(t *testing.T) {
		f := newFixture(buyerIdentity(1))
		for _, productID := range []uint{10, 11, 12} {
			err := f.orders.Save(ctx, &domain.Order{
				BuyerID:    1,
				ProductID:  productID,
				Quantity:   1,
				TotalPrice: price("1.00"),
				Status:     domain.OrderStatusPlaced,
			})
			if err != nil {
				t.Fatalf("seed order: %v", err)
			}
		}

		orders, err := f.query.GetOrderHistory(ctx, "Bearer token")
		if err != nil {
			t.Fatalf("GetOrderHistory: %v", err)
		}
		if len(orders) != 3 {
			t.Fatalf("len = %d, want 3", len(orders))
		}
		if orders[0].ProductID != 12 {
			t.Errorf("first order ProductID = %d, want 12 (newest)", orders[0].ProductID)
		}
	})

	t.Run("browse products lists available stock without credential", func(t *testing.T) {
		f := newFixture(&domain.Identity{Valid: false})
		f.seedProduct(10, "Widget", "9.99", 5)
		f.seedProduct(11, "Gadget", "3.50", 0)

		products, err := f.query.BrowseProducts(ctx)
		if err != nil {
			t.Fatalf("BrowseProducts: %v", err)
		}
		if len(products) != 1 {
			t.Fatalf("len = %d, want 1", len(products))
		}
		if products[0].Name != "Widget" {
			t.Errorf("Name = %q, want %q", products[0].Name, "Widget")
		}
	})
}
