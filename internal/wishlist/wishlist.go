// Package wishlist is the wishlist panel: it fetches and renders the
// signed-in user's wishlist and keeps the displayed list in lockstep with
// the backend (removals refetch rather than edit locally).
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"seclob/internal/normalize"

	"github.com/samber/lo"
)

// ErrNotSignedIn rejects opening the panel without a session; no fetch is
// attempted.
var ErrNotSignedIn = errors.New("please login to view your wishlist")

type wishlistClient interface {
	WishlistByUser(ctx context.Context, userID string) (json.RawMessage, error)
	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
}

type identity interface {
	CurrentUserID() string
}

type Panel struct {
	mu      sync.Mutex
	client  wishlistClient
	session identity
	items   []normalize.WishlistItem
}

func NewPanel(client wishlistClient, session identity) *Panel {
	return &Panel{client: client, session: session}
}

// Open fetches the wishlist for the signed-in user. Unauthenticated opens
// are rejected up front.
func (p *Panel) Open(ctx context.Context) error {
	userID := p.session.CurrentUserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	return p.refresh(ctx, userID)
}

func (p *Panel) refresh(ctx context.Context, userID string) error {
	raw, err := p.client.WishlistByUser(ctx, userID)
	if err != nil {
		p.mu.Lock()
		p.items = nil
		p.mu.Unlock()
		return fmt.Errorf("load wishlist: %w", err)
	}
	items := normalize.WishlistItems(ctx, raw)
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return nil
}

// Add puts a product on the wishlist and refetches so the panel shows
// confirmed backend state.
func (p *Panel) Add(ctx context.Context, productID string) error {
	userID := p.session.CurrentUserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	if err := p.client.AddToWishlist(ctx, userID, productID); err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return p.refresh(ctx, userID)
}

// Remove deletes then refetches; the displayed list always reflects what
// the backend confirmed, never an optimistic local edit.
func (p *Panel) Remove(ctx context.Context, productID string) error {
	userID := p.session.CurrentUserID()
	if userID == "" {
		return ErrNotSignedIn
	}
	if err := p.client.RemoveFromWishlist(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return p.refresh(ctx, userID)
}

// Contains reports whether the product is on the signed-in user's
// wishlist; product cards use it for the heart toggle.
func (p *Panel) Contains(ctx context.Context, productID string) (bool, error) {
	userID := p.session.CurrentUserID()
	if userID == "" {
		return false, ErrNotSignedIn
	}
	raw, err := p.client.WishlistByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	items := normalize.WishlistItems(ctx, raw)
	return lo.ContainsBy(items, func(item normalize.WishlistItem) bool {
		return item.Product.ID == productID
	}), nil
}

// ItemView is one wishlist row ready for display; rows whose product the
// normalizer could not resolve never make it this far.
type ItemView struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
}

func (p *Panel) Items() []ItemView {
	p.mu.Lock()
	defer p.mu.Unlock()
	views := make([]ItemView, 0, len(p.items))
	for _, item := range p.items {
		views = append(views, ItemView{
			ID:        item.ID,
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.DisplayPrice(),
			ImageURL:  item.Product.ImageURL(),
		})
	}
	return views
}
