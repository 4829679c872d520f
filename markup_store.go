package headstart

import (
	"context"

	"github.com/esitarz/headstart/commerce"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// MarkupStore is the swappable persistence strategy for buyer markup.
// The extended-attribute strategy is the default; implementations are
// versioned so a future store migration can tell records apart.
type MarkupStore interface {
	Version() string
	Save(ctx context.Context, token, buyerID string, markup *BuyerMarkup) error
	Load(ctx context.Context, token string, buyer *commerce.Buyer) (*BuyerMarkup, error)
}

// XpMarkupStore persists markup into the buyer's extended attributes
// through a partial update, leaving the rest of the record untouched.
type XpMarkupStore struct {
	buyers BuyerAPI
}

var _ MarkupStore = (*XpMarkupStore)(nil)

// NewXpMarkupStore returns the extended-attribute strategy.
func NewXpMarkupStore(buyers BuyerAPI) *XpMarkupStore {
	return &XpMarkupStore{buyers: buyers}
}

// Version identifies the strategy.
func (s *XpMarkupStore) Version() string {
	return "xp.v1"
}

// Save patches the markup percent into the buyer xp bag.
func (s *XpMarkupStore) Save(ctx context.Context, token, buyerID string, markup *BuyerMarkup) error {
	if buyerID == "" {
		return ErrBuyerIDMissing
	}

	percent := 0
	if markup != nil {
		percent = markup.Percent
	}

	if _, err := s.buyers.PatchBuyerXp(ctx, token, buyerID, &commerce.BuyerXp{MarkupPercent: percent}); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to persist buyer markup")
	}

	return nil
}

// Load derives the markup from the already-fetched buyer record,
// defaulting to zero when the attribute is absent.
func (s *XpMarkupStore) Load(ctx context.Context, token string, buyer *commerce.Buyer) (*BuyerMarkup, error) {
	if buyer == nil {
		return nil, ErrBuyerRequired
	}

	if buyer.Xp == nil {
		return &BuyerMarkup{Percent: 0}, nil
	}

	return &BuyerMarkup{Percent: buyer.Xp.MarkupPercent}, nil
}

// DocumentMarkupStore persists markup in a local document table
// instead of the platform attribute bag.
type DocumentMarkupStore struct {
	repo RepositoryManager
}

var _ MarkupStore = (*DocumentMarkupStore)(nil)

// NewDocumentMarkupStore returns the document-based strategy.
func NewDocumentMarkupStore(repo RepositoryManager) *DocumentMarkupStore {
	return &DocumentMarkupStore{repo: repo}
}

// Version identifies the strategy.
func (s *DocumentMarkupStore) Version() string {
	return "document.v1"
}

// Save upserts the markup document for the buyer. The platform token
// is unused; the document store is local.
func (s *DocumentMarkupStore) Save(ctx context.Context, _ string, buyerID string, markup *BuyerMarkup) error {
	if buyerID == "" {
		return ErrBuyerIDMissing
	}

	percent := 0
	if markup != nil {
		percent = markup.Percent
	}

	record := &MarkupRecord{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Percent: percent,
	}

	if _, err := s.repo.Markups().UpsertByBuyerID(ctx, record); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to store markup document")
	}

	return nil
}

// Load reads the buyer's markup document, defaulting to zero when the
// document does not exist.
func (s *DocumentMarkupStore) Load(ctx context.Context, _ string, buyer *commerce.Buyer) (*BuyerMarkup, error) {
	if buyer == nil {
		return nil, ErrBuyerRequired
	}

	record, err := s.repo.Markups().GetByBuyerID(ctx, buyer.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return &BuyerMarkup{Percent: 0}, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load markup document")
	}

	return &BuyerMarkup{Percent: record.Percent}, nil
}
