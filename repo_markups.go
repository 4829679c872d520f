package headstart

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Markups is the repository for buyer markup documents.
type Markups interface {
	repository.Repository[*MarkupRecord]

	GetByBuyerID(ctx context.Context, buyerID string) (*MarkupRecord, error)
	GetByBuyerIDTx(ctx context.Context, tx bun.IDB, buyerID string) (*MarkupRecord, error)
	UpsertByBuyerID(ctx context.Context, record *MarkupRecord) (*MarkupRecord, error)
	UpsertByBuyerIDTx(ctx context.Context, tx bun.IDB, record *MarkupRecord) (*MarkupRecord, error)
}

type markups struct {
	repository.Repository[*MarkupRecord]
	db *bun.DB
}

var (
	_ Markups                              = (*markups)(nil)
	_ repository.Repository[*MarkupRecord] = (*markups)(nil)
)

// NewMarkupsRepository wires the markup document repository.
func NewMarkupsRepository(db *bun.DB) Markups {
	repo := repository.NewRepository[*MarkupRecord](db, repository.ModelHandlers[*MarkupRecord]{
		NewRecord: func() *MarkupRecord { return &MarkupRecord{} },
		GetID: func(r *MarkupRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *MarkupRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "buyer_id"
		},
	})

	return &markups{
		Repository: repo,
		db:         db,
	}
}

func (m *markups) GetByBuyerID(ctx context.Context, buyerID string) (*MarkupRecord, error) {
	return m.GetByBuyerIDTx(ctx, m.db, buyerID)
}

func (m *markups) GetByBuyerIDTx(ctx context.Context, tx bun.IDB, buyerID string) (*MarkupRecord, error) {
	record := &MarkupRecord{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.buyer_id = ?", buyerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"buyer_id": buyerID,
				})
		}
		return nil, err
	}

	return record, nil
}

func (m *markups) UpsertByBuyerID(ctx context.Context, record *MarkupRecord) (*MarkupRecord, error) {
	return m.UpsertByBuyerIDTx(ctx, m.db, record)
}

func (m *markups) UpsertByBuyerIDTx(ctx context.Context, tx bun.IDB, record *MarkupRecord) (*MarkupRecord, error) {
	existing, err := m.GetByBuyerIDTx(ctx, tx, record.BuyerID)
	if err == nil {
		record.ID = existing.ID
		now := time.Now()
		record.UpdatedAt = &now
		return m.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(existing.ID.String()))
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	return m.Repository.CreateTx(ctx, tx, record)
}
