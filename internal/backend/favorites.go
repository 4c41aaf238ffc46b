package backend

import (
	"context"
	"net/http"
	"net/url"
)

// ListFavorites returns the full products the current user has favorited.
func (c *Client) ListFavorites(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/products/favorites", "", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []Product `json:"data"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListFavoriteIDs returns just the favorited identifiers, the shape the
// favorites store mirrors locally.
func (c *Client) ListFavoriteIDs(ctx context.Context) ([]string, error) {
	products, err := c.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// ToggleFavorite flips membership for one product and returns the backend's
// authoritative answer: true means the product is now favorited. Callers must
// apply exactly this boolean rather than negating their local view.
func (c *Client) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	resp, err := c.do(ctx, http.MethodPost, "/products/"+url.PathEscape(productID)+"/favorite", "", nil)
	if err != nil {
		return false, err
	}
	var out struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := decode(resp, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}
