package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pow/internal/rdf"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Tx is a write transaction obtained through Update.
type Tx struct {
	tx *sql.Tx
}

// AddBatch inserts triples into a context inside the transaction.
func (t *Tx) AddBatch(ctx context.Context, contextID string, triples []rdf.Triple) error {
	return addBatch(ctx, t.tx, contextID, triples)
}

// CreateContext registers an empty context inside the transaction.
func (t *Tx) CreateContext(ctx context.Context, contextID string) error {
	return createContext(ctx, t.tx, contextID)
}

// Update runs fn inside a single transaction. If fn returns an error, or
// the commit fails, every change made by fn is rolled back.
func (s *Store) Update(ctx context.Context, fn func(tx rdf.Inserter) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update: commit: %w", err)
	}
	return nil
}

// AddBatch inserts triples into a context in one transaction.
// Uses ON CONFLICT DO NOTHING so re-adding an existing triple is a no-op.
func (s *Store) AddBatch(ctx context.Context, contextID string, triples []rdf.Triple) error {
	return s.Update(ctx, func(tx rdf.Inserter) error {
		return tx.AddBatch(ctx, contextID, triples)
	})
}

// CreateContext registers a context with no triples. Idempotent.
func (s *Store) CreateContext(ctx context.Context, contextID string) error {
	return createContext(ctx, s.db, contextID)
}

// RemoveContext deletes a context and all of its triples.
func (s *Store) RemoveContext(ctx context.Context, contextID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM contexts WHERE id = ?`, contextID); err != nil {
		return fmt.Errorf("remove context %s: %w", contextID, err)
	}
	return nil
}

func createContext(ctx context.Context, ex execer, contextID string) error {
	if contextID == "" {
		return fmt.Errorf("create context: empty identifier")
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO contexts (id) VALUES (?)
		ON CONFLICT(id) DO NOTHING
	`, contextID)
	if err != nil {
		return fmt.Errorf("create context %s: %w", contextID, err)
	}
	return nil
}

func addBatch(ctx context.Context, ex execer, contextID string, triples []rdf.Triple) error {
	if err := createContext(ctx, ex, contextID); err != nil {
		return fmt.Errorf("add batch: %w", err)
	}
	if len(triples) == 0 {
		return nil
	}

	stmt, err := ex.PrepareContext(ctx, `
		INSERT INTO triples (context, subject, predicate, object)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("add batch: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range triples {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("add batch to %s: %w", contextID, err)
		}
		if _, err := stmt.ExecContext(ctx, contextID, string(t.Subject), string(t.Predicate), string(t.Object)); err != nil {
			return fmt.Errorf("add batch to %s: %w", contextID, err)
		}
	}
	return nil
}
