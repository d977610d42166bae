package session

import (
	"context"
	"sync"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/internal/service"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Authenticator is the part of the auth session the cart depends on
type Authenticator interface {
	IsAuthenticated() bool
	Subscribe(l Listener)
}

// Cart mirrors the server cart. Every mutation is followed by a full
// re-fetch; the local copy is only ever replaced, never patched.
type Cart struct {
	svc  service.CartService
	auth Authenticator
	log  *logger.Logger

	mu   sync.RWMutex
	cart *domain.Cart
	// gen is bumped on every clear so fetches started before it are dropped
	gen uint64
}

// NewCart creates the cart session and ties it to the auth session: the cart
// is fetched on sign-in and cleared on sign-out.
func NewCart(svc service.CartService, auth Authenticator, log *logger.Logger) *Cart {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Cart{
		svc:  svc,
		auth: auth,
		log:  log.Named("cart"),
	}
	auth.Subscribe(c.onAuthChange)
	return c
}

// Cart returns a copy of the last fetched cart, nil when absent
func (c *Cart) Cart() *domain.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Clone()
}

// ItemCount returns the number of items in the cart, zero when absent
func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.TotalItems
}

// Total returns the amount payable, zero when absent
func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.TotalAmount
}

// MrpTotal returns the undiscounted total, zero when absent
func (c *Cart) MrpTotal() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.TotalMrp
}

// Fetch loads the cart. Without a session the cart is absent and no request
// is made. On error the previous cart stays in place.
func (c *Cart) Fetch(ctx context.Context) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.cart.fetch")
	defer span.End()
	return c.fetch(ctx)
}

// AddItem adds a product line and re-fetches the cart
func (c *Cart) AddItem(ctx context.Context, productID int64, size string, quantity int) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.cart.add_item")
	defer span.End()
	span.SetAttributes(attribute.Int64("product_id", productID))

	return c.mutate(ctx, func(ctx context.Context) error {
		_, err := c.svc.AddItem(ctx, &dto.AddItemRequest{ProductID: productID, Size: size, Quantity: quantity})
		return err
	})
}

// UpdateItem sets the quantity of a line and re-fetches the cart
func (c *Cart) UpdateItem(ctx context.Context, cartItemID int64, quantity int) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.cart.update_item")
	defer span.End()
	span.SetAttributes(attribute.Int64("cart_item_id", cartItemID))

	return c.mutate(ctx, func(ctx context.Context) error {
		_, err := c.svc.UpdateItem(ctx, cartItemID, &dto.UpdateItemRequest{Quantity: quantity})
		return err
	})
}

// RemoveItem deletes a line and re-fetches the cart
func (c *Cart) RemoveItem(ctx context.Context, cartItemID int64) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.cart.remove_item")
	defer span.End()
	span.SetAttributes(attribute.Int64("cart_item_id", cartItemID))

	return c.mutate(ctx, func(ctx context.Context) error {
		return c.svc.RemoveItem(ctx, cartItemID)
	})
}

// mutate runs op and re-fetches. A session that ended while op was in flight
// fails the call instead of reporting an absent cart.
func (c *Cart) mutate(ctx context.Context, op func(context.Context) error) (*domain.Cart, error) {
	if !c.auth.IsAuthenticated() {
		return nil, api.Classify(domain.ErrNotAuthenticated)
	}
	gen := c.generation()
	if err := op(ctx); err != nil {
		return nil, err
	}
	return c.refresh(ctx, gen)
}

func (c *Cart) fetch(ctx context.Context) (*domain.Cart, error) {
	if !c.auth.IsAuthenticated() {
		c.clear()
		return nil, nil
	}
	return c.refresh(ctx, c.generation())
}

// refresh loads the cart and keeps it only if nothing cleared it since gen
func (c *Cart) refresh(ctx context.Context, gen uint64) (*domain.Cart, error) {
	if !c.auth.IsAuthenticated() || c.generation() != gen {
		return nil, api.Classify(domain.ErrSessionSuperseded)
	}

	cart, err := c.svc.GetCart(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, api.Classify(domain.ErrSessionSuperseded)
	}
	c.cart = cart
	return cart.Clone(), nil
}

func (c *Cart) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

func (c *Cart) clear() {
	c.mu.Lock()
	c.gen++
	c.cart = nil
	c.mu.Unlock()
}

func (c *Cart) onAuthChange(ctx context.Context, _, to State) {
	if to != StateAuthenticated {
		c.clear()
		return
	}
	// a new session never sees the previous one's cart
	c.clear()
	if _, err := c.Fetch(ctx); err != nil {
		c.log.Warn("fetch cart after sign-in", zap.Error(err))
	}
}
