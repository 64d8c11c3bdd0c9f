package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the non-transactional path explicitly at call sites.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the tx handle via the opaque Tx argument. Use-case interfaces
// stay clean of storage types; repositories detect the concrete handle
// (pgx.Tx for Postgres) and must gracefully accept nil.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
