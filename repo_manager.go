package headstart

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all local repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Markups() Markups
}

type mngr struct {
	db      *bun.DB
	markups Markups
}

// NewRepositoryManager wires the repositories on the given connection.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		markups: NewMarkupsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.markups == nil {
		return errors.New("repository markups should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Markups() Markups {
	return m.markups
}
