package headstart

import (
	"context"
	"fmt"

	"github.com/esitarz/headstart/commerce"
	"github.com/goliatone/go-errors"
)

// BuyerService orchestrates buyer provisioning against the commerce
// platform. It keeps no local state between operations; every step is
// a remote call and a mid-sequence failure leaves earlier resources in
// place without compensation.
type BuyerService struct {
	buyers       BuyerAPI
	provisioning ProvisioningAPI
	markups      MarkupStore
	elevated     TokenSource
	logger       Logger
}

// NewBuyerService wires the provisioning orchestrator. The markup
// store defaults to the extended-attribute strategy.
func NewBuyerService(buyers BuyerAPI, provisioning ProvisioningAPI) *BuyerService {
	return &BuyerService{
		buyers:       buyers,
		provisioning: provisioning,
		markups:      NewXpMarkupStore(buyers),
		logger:       defLogger{},
	}
}

// WithMarkupStore swaps the markup persistence strategy.
func (s *BuyerService) WithMarkupStore(store MarkupStore) *BuyerService {
	if store != nil {
		s.markups = store
	}
	return s
}

// WithElevatedTokenSource sets the token source used for auxiliary
// provisioning calls in seeding environments.
func (s *BuyerService) WithElevatedTokenSource(source TokenSource) *BuyerService {
	s.elevated = source
	return s
}

// WithLogger overrides the logger.
func (s *BuyerService) WithLogger(logger Logger) *BuyerService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// MarkupStoreVersion reports the active markup strategy.
func (s *BuyerService) MarkupStoreVersion() string {
	return s.markups.Version()
}

// Create provisions a new buyer: the record itself with a
// platform-assigned identifier, its supporting resources, and the
// markup percentage.
func (s *BuyerService) Create(ctx context.Context, buyer *MarkedUpBuyer, token string, seeding bool) (*MarkedUpBuyer, error) {
	return s.save(ctx, buyer, saveOptions{
		token:            token,
		seeding:          seeding,
		assignSupporting: true,
	})
}

// Get fetches the buyer and derives the markup, defaulting to zero
// when the attribute is absent.
func (s *BuyerService) Get(ctx context.Context, buyerID, token string) (*MarkedUpBuyer, error) {
	if buyerID == "" {
		return nil, ErrBuyerIDMissing
	}

	record, err := s.buyers.GetBuyer(ctx, token, buyerID)
	if err != nil {
		if commerce.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryNotFound, "buyer not found").
				WithMetadata(map[string]any{"buyer_id": buyerID})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to fetch buyer").
			WithMetadata(map[string]any{"buyer_id": buyerID})
	}

	markup, err := s.markups.Load(ctx, token, record)
	if err != nil {
		return nil, err
	}

	return &MarkedUpBuyer{Buyer: record, Markup: markup}, nil
}

// Update saves the buyer record and re-persists the markup. The
// payload identifier is forced to match buyerID: the identifier is
// immutable after creation.
func (s *BuyerService) Update(ctx context.Context, buyerID string, buyer *MarkedUpBuyer, token string) (*MarkedUpBuyer, error) {
	if buyerID == "" {
		return nil, ErrBuyerIDMissing
	}
	if buyer == nil || buyer.Buyer == nil {
		return nil, ErrBuyerRequired
	}

	buyer.Buyer.ID = buyerID

	return s.save(ctx, buyer, saveOptions{
		token:            token,
		assignSupporting: false,
	})
}

type saveOptions struct {
	token            string
	seeding          bool
	assignSupporting bool
}

// save is the single write path shared by Create and Update. The
// assignSupporting capability decides whether the buyer is created
// fresh (with its auxiliary resources) or replaced in place.
func (s *BuyerService) save(ctx context.Context, buyer *MarkedUpBuyer, opts saveOptions) (*MarkedUpBuyer, error) {
	if buyer == nil || buyer.Buyer == nil {
		return nil, ErrBuyerRequired
	}

	if err := buyer.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid buyer payload")
	}

	var saved *commerce.Buyer
	var err error

	if opts.assignSupporting {
		// The platform substitutes the incrementor expression with the
		// next sequential identifier.
		buyer.Buyer.ID = BuyerIDIncrementor

		saved, err = s.buyers.CreateBuyer(ctx, opts.token, buyer.Buyer)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create buyer")
		}

		auxToken := opts.token
		if opts.seeding {
			if s.elevated == nil {
				return nil, errors.New("seeding requires an elevated token source", errors.CategoryInternal)
			}
			if auxToken, err = s.elevated.Token(ctx); err != nil {
				return nil, err
			}
		}

		if err := s.assignSupportingResources(ctx, auxToken, saved); err != nil {
			// No rollback: earlier resources stay in place.
			return nil, err
		}
	} else {
		saved, err = s.buyers.SaveBuyer(ctx, opts.token, buyer.Buyer.ID, buyer.Buyer)
		if err != nil {
			if commerce.IsNotFound(err) {
				return nil, errors.Wrap(err, errors.CategoryNotFound, "buyer not found").
					WithMetadata(map[string]any{"buyer_id": buyer.Buyer.ID})
			}
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to save buyer").
				WithMetadata(map[string]any{"buyer_id": buyer.Buyer.ID})
		}
	}

	markup := buyer.Markup
	if markup == nil {
		markup = &BuyerMarkup{Percent: 0}
	}

	if err := s.markups.Save(ctx, opts.token, saved.ID, markup); err != nil {
		return nil, err
	}

	return &MarkedUpBuyer{Buyer: saved, Markup: markup}, nil
}

// assignSupportingResources performs the auxiliary provisioning
// sequence for a freshly created buyer, in order: security profile,
// message sender, the two ID incrementors, catalog visibility.
func (s *BuyerService) assignSupportingResources(ctx context.Context, token string, buyer *commerce.Buyer) error {
	if err := s.provisioning.SaveSecurityProfileAssignment(ctx, token, commerce.SecurityProfileAssignment{
		SecurityProfileID: DefaultBuyerSecurityProfileID,
		BuyerID:           buyer.ID,
	}); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to assign security profile").
			WithMetadata(map[string]any{"buyer_id": buyer.ID})
	}

	if err := s.provisioning.SaveMessageSenderAssignment(ctx, token, commerce.MessageSenderAssignment{
		MessageSenderID: DefaultMessageSenderID,
		BuyerID:         buyer.ID,
	}); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to assign message sender").
			WithMetadata(map[string]any{"buyer_id": buyer.ID})
	}

	userIncrementor := commerce.Incrementor{
		ID:               buyer.ID + UserIncrementorSuffix,
		Name:             fmt.Sprintf("User Incrementor for Buyer %s", buyer.ID),
		LastNumber:       0,
		LeftPaddingCount: UserIDPadding,
	}
	if _, err := s.provisioning.CreateIncrementor(ctx, token, userIncrementor); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create user incrementor").
			WithMetadata(map[string]any{"buyer_id": buyer.ID})
	}

	locationIncrementor := commerce.Incrementor{
		ID:               buyer.ID + LocationIncrementorSuffix,
		Name:             fmt.Sprintf("Location Incrementor for Buyer %s", buyer.ID),
		LastNumber:       0,
		LeftPaddingCount: LocationIDPadding,
	}
	if _, err := s.provisioning.CreateIncrementor(ctx, token, locationIncrementor); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create location incrementor").
			WithMetadata(map[string]any{"buyer_id": buyer.ID})
	}

	catalogID := buyer.DefaultCatalogID
	if catalogID == "" {
		catalogID = buyer.ID
	}

	if err := s.provisioning.SaveCatalogAssignment(ctx, token, commerce.CatalogAssignment{
		CatalogID:         catalogID,
		BuyerID:           buyer.ID,
		ViewAllCategories: true,
		ViewAllProducts:   false,
	}); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to assign catalog").
			WithMetadata(map[string]any{"buyer_id": buyer.ID})
	}

	return nil
}
