package headstart

import (
	"time"

	"github.com/esitarz/headstart/commerce"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// BuyerIDIncrementor is the placeholder the platform replaces with
	// the next sequential buyer identifier on creation.
	BuyerIDIncrementor = "{buyerIncrementor}"

	// DefaultBuyerSecurityProfileID is the security profile every new
	// buyer organization is assigned.
	DefaultBuyerSecurityProfileID = "DefaultBuyer"

	// DefaultMessageSenderID routes buyer transactional email.
	DefaultMessageSenderID = "BuyerEmails"

	// UserIncrementorSuffix and LocationIncrementorSuffix name the two
	// per-buyer counters created during provisioning.
	UserIncrementorSuffix     = "-UserIncrementor"
	LocationIncrementorSuffix = "-LocationIncrementor"

	// UserIDPadding and LocationIDPadding are the zero-padding widths
	// for the generated identifiers.
	UserIDPadding     = 5
	LocationIDPadding = 4
)

// BuyerMarkup is the percentage adjustment applied to catalog pricing
// for a buyer. Logically part of the buyer, modeled separately so its
// storage strategy can change without touching the buyer record.
type BuyerMarkup struct {
	Percent int `json:"percent"`
}

// Validate enforces a sane percentage range.
func (m BuyerMarkup) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Percent, validation.Min(0), validation.Max(100)),
	)
}

// MarkedUpBuyer is the composed buyer+markup result returned by buyer
// operations.
type MarkedUpBuyer struct {
	Buyer  *commerce.Buyer `json:"buyer"`
	Markup *BuyerMarkup    `json:"markup"`
}

// Validate checks the composite before it is sent to the platform.
func (b MarkedUpBuyer) Validate() error {
	if b.Buyer == nil {
		return ErrBuyerRequired
	}

	if err := validation.ValidateStruct(b.Buyer,
		validation.Field(&b.Buyer.Name, validation.Required, validation.Length(1, 100)),
	); err != nil {
		return err
	}

	if b.Markup != nil {
		return b.Markup.Validate()
	}

	return nil
}

// TokenGrant is the shared token-propagation payload used by every
// successful authentication route.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	SSO          bool
	RememberMe   bool
}

// MarkupRecord is the document-store row for the document-based markup
// strategy.
type MarkupRecord struct {
	bun.BaseModel `bun:"table:buyer_markups,alias:bmk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	BuyerID       string     `bun:"buyer_id,notnull,unique" json:"buyer_id"`
	Percent       int        `bun:"percent,notnull" json:"percent"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
