package commerce

import (
	"context"
	"net/http"
)

// SecurityProfileAssignment grants a security profile to a buyer.
type SecurityProfileAssignment struct {
	SecurityProfileID string `json:"SecurityProfileID"`
	BuyerID           string `json:"BuyerID,omitempty"`
	UserID            string `json:"UserID,omitempty"`
}

// MessageSenderAssignment routes transactional email for a buyer
// through a platform message sender.
type MessageSenderAssignment struct {
	MessageSenderID string `json:"MessageSenderID"`
	BuyerID         string `json:"BuyerID,omitempty"`
}

// Incrementor is a server-side counter used to generate sequential,
// zero-padded identifiers.
type Incrementor struct {
	ID               string `json:"ID,omitempty"`
	Name             string `json:"Name"`
	LastNumber       int    `json:"LastNumber"`
	LeftPaddingCount int    `json:"LeftPaddingCount"`
}

// CatalogAssignment controls a buyer's catalog visibility.
type CatalogAssignment struct {
	CatalogID         string `json:"CatalogID"`
	BuyerID           string `json:"BuyerID"`
	ViewAllCategories bool   `json:"ViewAllCategories"`
	ViewAllProducts   bool   `json:"ViewAllProducts"`
}

// SaveSecurityProfileAssignment attaches a security profile.
func (c *Client) SaveSecurityProfileAssignment(ctx context.Context, token string, assignment SecurityProfileAssignment) error {
	return c.do(ctx, http.MethodPost, "/v1/securityprofiles/assignments", token, assignment, nil)
}

// SaveMessageSenderAssignment attaches a message sender.
func (c *Client) SaveMessageSenderAssignment(ctx context.Context, token string, assignment MessageSenderAssignment) error {
	return c.do(ctx, http.MethodPost, "/v1/messagesenders/assignments", token, assignment, nil)
}

// CreateIncrementor creates a named counter.
func (c *Client) CreateIncrementor(ctx context.Context, token string, incrementor Incrementor) (*Incrementor, error) {
	out := &Incrementor{}
	if err := c.do(ctx, http.MethodPost, "/v1/incrementors", token, incrementor, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveCatalogAssignment sets a buyer's catalog visibility rules.
func (c *Client) SaveCatalogAssignment(ctx context.Context, token string, assignment CatalogAssignment) error {
	return c.do(ctx, http.MethodPost, "/v1/catalogs/assignments", token, assignment, nil)
}
