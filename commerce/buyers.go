package commerce

import (
	"context"
	"net/http"
	"net/url"
)

// BuyerXp is the schema-less extension bag attached to a buyer record.
// Only the fields this layer cares about are typed.
type BuyerXp struct {
	MarkupPercent int `json:"MarkupPercent"`
}

// Buyer is a purchasing organization on the platform.
type Buyer struct {
	ID               string   `json:"ID,omitempty"`
	Name             string   `json:"Name"`
	Active           bool     `json:"Active"`
	DefaultCatalogID string   `json:"DefaultCatalogID,omitempty"`
	Xp               *BuyerXp `json:"xp,omitempty"`
}

// CreateBuyer posts a new buyer record. The platform assigns the final
// identifier when the submitted ID is an incrementor expression.
func (c *Client) CreateBuyer(ctx context.Context, token string, buyer *Buyer) (*Buyer, error) {
	out := &Buyer{}
	if err := c.do(ctx, http.MethodPost, "/v1/buyers", token, buyer, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBuyer fetches a buyer by ID.
func (c *Client) GetBuyer(ctx context.Context, token, buyerID string) (*Buyer, error) {
	out := &Buyer{}
	if err := c.do(ctx, http.MethodGet, "/v1/buyers/"+url.PathEscape(buyerID), token, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveBuyer replaces the buyer record at buyerID.
func (c *Client) SaveBuyer(ctx context.Context, token, buyerID string, buyer *Buyer) (*Buyer, error) {
	out := &Buyer{}
	if err := c.do(ctx, http.MethodPut, "/v1/buyers/"+url.PathEscape(buyerID), token, buyer, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PatchBuyerXp partially updates the buyer's extended attributes,
// leaving the rest of the record untouched.
func (c *Client) PatchBuyerXp(ctx context.Context, token, buyerID string, xp *BuyerXp) (*Buyer, error) {
	out := &Buyer{}
	body := map[string]any{"xp": xp}
	if err := c.do(ctx, http.MethodPatch, "/v1/buyers/"+url.PathEscape(buyerID), token, body, out); err != nil {
		return nil, err
	}
	return out, nil
}
