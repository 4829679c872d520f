package headstart

import (
	"context"
	"time"

	"github.com/esitarz/headstart/commerce"
	goerrors "github.com/goliatone/go-errors"
)

// ProvisionBuyerMessage requests creation of a buyer organization with
// its supporting resources and markup.
type ProvisionBuyerMessage struct {
	Buyer      *commerce.Buyer      `json:"buyer"`
	Markup     *BuyerMarkup         `json:"markup,omitempty"`
	Token      string               `json:"-"`
	Seeding    bool                 `json:"-"`
	OnResponse func(*MarkedUpBuyer) `json:"-"`
}

func (e ProvisionBuyerMessage) Type() string { return "buyer.provision" }

// ProvisionBuyerHandler executes the provisioning sequence through the
// buyer service and publishes the result.
type ProvisionBuyerHandler struct {
	buyers *BuyerService
	sink   SessionSink
	logger Logger
}

// NewProvisionBuyerHandler creates a handler with sane defaults.
func NewProvisionBuyerHandler(buyers *BuyerService) *ProvisionBuyerHandler {
	return &ProvisionBuyerHandler{
		buyers: buyers,
		sink:   noopSessionSink{},
		logger: defLogger{},
	}
}

// WithSessionSink sets the sink used to emit provisioning events.
func (h *ProvisionBuyerHandler) WithSessionSink(sink SessionSink) *ProvisionBuyerHandler {
	h.sink = normalizeSessionSink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *ProvisionBuyerHandler) WithLogger(logger Logger) *ProvisionBuyerHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ProvisionBuyerHandler) Execute(ctx context.Context, event ProvisionBuyerMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during buyer provisioning",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ProvisionBuyerHandler) execute(ctx context.Context, event ProvisionBuyerMessage) error {
	if event.Buyer == nil {
		return goerrors.Wrap(ErrBuyerRequired, goerrors.CategoryValidation, "missing buyer payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	result, err := h.buyers.Create(ctx, &MarkedUpBuyer{
		Buyer:  event.Buyer,
		Markup: event.Markup,
	}, event.Token, event.Seeding)

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryOperation, "buyer provisioning failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(result)
	}

	h.recordActivity(ctx, result)

	return nil
}

func (h *ProvisionBuyerHandler) recordActivity(ctx context.Context, result *MarkedUpBuyer) {
	if result == nil || result.Buyer == nil {
		return
	}

	event := SessionEvent{
		EventType: SessionEventBuyerProvisioned,
		Metadata: map[string]any{
			"buyer_id":       result.Buyer.ID,
			"markup_percent": result.Markup.Percent,
		},
		OccurredAt: time.Now(),
	}

	if err := normalizeSessionSink(h.sink).Record(ctx, event); err != nil {
		h.logger.Warn("session sink error during buyer provisioning: %v", err)
	}
}
