package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// DBStore implements Store on top of bun/PostgreSQL.
type DBStore struct {
	idb  bun.IDB
	root *bun.DB // nil inside a transaction
}

// New creates a Store backed by the given database connection.
func New(db *bun.DB) *DBStore {
	return &DBStore{idb: db, root: db}
}

func (s *DBStore) Athletes() Athletes         { return &athletes{s.idb} }
func (s *DBStore) Tests() FitnessTests        { return &fitnessTests{s.idb} }
func (s *DBStore) Benchmarks() Benchmarks     { return &benchmarks{s.idb} }
func (s *DBStore) Sessions() Sessions         { return &sessions{s.idb} }
func (s *DBStore) Recordings() Recordings     { return &recordings{s.idb} }
func (s *DBStore) Submissions() Submissions   { return &submissions{s.idb} }
func (s *DBStore) Badges() Badges             { return &badges{s.idb} }
func (s *DBStore) Leaderboards() Leaderboards { return &leaderboards{s.idb} }

// RunInTx runs fn inside a database transaction. Nested calls reuse the
// enclosing transaction.
func (s *DBStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.root == nil {
		return fn(ctx, s)
	}
	return s.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &DBStore{idb: tx})
	})
}

// notFound maps sql.ErrNoRows onto the store sentinel.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
