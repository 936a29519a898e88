// Package store loads presentation config snapshots. The engine treats a
// snapshot as read-only; this store only ferries the document the
// authoring side produced.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devgenix/surpriseal/internal/reveal"
)

// ErrNotFound is returned for an unknown presentation id.
var ErrNotFound = errors.New("presentation not found")

// DB is the subset of pgxpool.Pool the store uses; tests substitute mocks.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

// GetPresentation fetches one snapshot by id.
func (s *Store) GetPresentation(ctx context.Context, id string) (*reveal.Presentation, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `
		SELECT doc
		FROM presentations
		WHERE id = $1
	`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var pres reveal.Presentation
	if err := json.Unmarshal(doc, &pres); err != nil {
		return nil, fmt.Errorf("store: decode presentation %s: %w", id, err)
	}
	pres.ID = id
	return &pres, nil
}

// PutPresentation stores or replaces a snapshot supplied by the host. The
// engine never writes through this path; authoring persistence lives
// elsewhere.
func (s *Store) PutPresentation(ctx context.Context, pres *reveal.Presentation) error {
	doc, err := json.Marshal(pres)
	if err != nil {
		return fmt.Errorf("store: encode presentation %s: %w", pres.ID, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO presentations (id, doc)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, pres.ID, doc)
	return err
}
