package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"seclob/internal/normalize"
)

type fakeIdentity struct{ userID string }

func (f fakeIdentity) CurrentUserID() string { return f.userID }

type fakeWishlistClient struct {
	response string
	fetchErr error
	added    []string
	removed  []string
}

func (f *fakeWishlistClient) WishlistByUser(context.Context, string) (json.RawMessage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return json.RawMessage(f.response), nil
}

func (f *fakeWishlistClient) AddToWishlist(_ context.Context, _, productID string) error {
	f.added = append(f.added, productID)
	return nil
}

func (f *fakeWishlistClient) RemoveFromWishlist(_ context.Context, _, productID string) error {
	f.removed = append(f.removed, productID)
	return nil
}

func TestOpen_RejectsUnauthenticatedWithoutFetching(t *testing.T) {
	t.Parallel()

	client := &fakeWishlistClient{fetchErr: errors.New("must not be called")}
	panel := NewPanel(client, fakeIdentity{})

	if err := panel.Open(t.Context()); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestOpen_NormalizesMixedItemShapes(t *testing.T) {
	t.Parallel()

	client := &fakeWishlistClient{response: `{"data":[
		{"_id":"w1","productId":{"_id":"p1","name":"Pixel 9","variants":[{"ram":"8 GB","price":799,"quantity":2}]}},
		{"_id":"w2","product":{"_id":"p2","name":"Galaxy S25","price":999}},
		{"_id":"w3","productId":{"_id":"broken"}}
	]}`}
	panel := NewPanel(client, fakeIdentity{userID: "u1"})

	if err := panel.Open(t.Context()); err != nil {
		t.Fatalf("open: %v", err)
	}
	items := panel.Items()
	if len(items) != 2 {
		t.Fatalf("unresolvable rows should be omitted, got %d items", len(items))
	}
	if items[0].Price != 799 {
		t.Fatalf("price should come from the first variant, got %f", items[0].Price)
	}
	if items[1].ImageURL != normalize.PlaceholderImageURL {
		t.Fatalf("imageless product should fall back to the placeholder, got %s", items[1].ImageURL)
	}
}

func TestRemove_DeletesThenRefetches(t *testing.T) {
	t.Parallel()

	client := &fakeWishlistClient{response: `[
		{"_id":"w1","productId":{"_id":"p1","name":"Pixel 9"}},
		{"_id":"w2","productId":{"_id":"p2","name":"Galaxy S25"}}
	]`}
	panel := NewPanel(client, fakeIdentity{userID: "u1"})
	if err := panel.Open(t.Context()); err != nil {
		t.Fatalf("open: %v", err)
	}

	// The refetch, not a local edit, shrinks the list.
	client.response = `[{"_id":"w2","productId":{"_id":"p2","name":"Galaxy S25"}}]`
	if err := panel.Remove(t.Context(), "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(client.removed) != 1 || client.removed[0] != "p1" {
		t.Fatalf("expected a delete call for p1, got %v", client.removed)
	}
	items := panel.Items()
	if len(items) != 1 || items[0].ProductID != "p2" {
		t.Fatalf("panel should show the refetched list, got %+v", items)
	}
}

func TestAdd_RefreshesFromBackend(t *testing.T) {
	t.Parallel()

	client := &fakeWishlistClient{response: `[{"_id":"w1","productId":{"_id":"p1","name":"Pixel 9"}}]`}
	panel := NewPanel(client, fakeIdentity{userID: "u1"})

	if err := panel.Add(t.Context(), "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(client.added) != 1 {
		t.Fatalf("expected one add call, got %d", len(client.added))
	}
	if len(panel.Items()) != 1 {
		t.Fatal("add should leave the panel showing the refetched list")
	}
}

func TestContains_MatchesByProductID(t *testing.T) {
	t.Parallel()

	client := &fakeWishlistClient{response: `[{"_id":"w1","productId":{"_id":"p1","name":"Pixel 9"}}]`}
	panel := NewPanel(client, fakeIdentity{userID: "u1"})

	got, err := panel.Contains(t.Context(), "p1")
	if err != nil || !got {
		t.Fatalf("expected p1 on the wishlist, got %v %v", got, err)
	}
	got, err = panel.Contains(t.Context(), "p9")
	if err != nil || got {
		t.Fatalf("expected p9 absent, got %v %v", got, err)
	}

	if _, err := NewPanel(client, fakeIdentity{}).Contains(t.Context(), "p1"); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("signed-out check should fail with ErrNotSignedIn, got %v", err)
	}
}
