package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Collection is a PostgreSQL implementation of repository.Store.
// Every collection shares the records table; a record is one JSONB document keyed by
// (collection, id). Ordering happens in the query, so no client-side sort is needed.
type Collection[T any, PT model.RecordPtr[T]] struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// NewCollection creates a Store over the named collection.
func NewCollection[T any, PT model.RecordPtr[T]](db *sql.DB, name string) *Collection[T, PT] {
	return &Collection[T, PT]{db: db, name: name, now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.Store[model.Article] = (*Collection[model.Article, *model.Article])(nil)

func (r *Collection[T, PT]) Collection() string { return r.name }

// List returns the collection's documents filtered with JSONB containment and ordered
// by the requested fields, then by creation time.
func (r *Collection[T, PT]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	if err := repository.CheckFields(q, nil); err != nil {
		return nil, err
	}

	var b strings.Builder
	args := []any{r.name}
	b.WriteString(`SELECT id, data FROM records WHERE collection = $1`)
	if len(q.Filter) > 0 {
		filter, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(filter))
		b.WriteString(` AND data @> $` + strconv.Itoa(len(args)) + `::jsonb`)
	}
	b.WriteString(` ORDER BY `)
	for _, s := range q.Sort {
		// Field names are validated by CheckFields above.
		b.WriteString(`data->'` + s.Field + `'`)
		if s.Desc {
			b.WriteString(` DESC`)
		}
		b.WriteString(`, `)
	}
	b.WriteString(`created_at, id`)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		rec, err := decode[T, PT](id, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a single document by its ID.
func (r *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	const q = `SELECT data FROM records WHERE collection = $1 AND id = $2`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, r.name, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decode[T, PT](id, raw)
}

// Create inserts a new document under a generated UUID.
func (r *Collection[T, PT]) Create(ctx context.Context, rec *T) (string, error) {
	const q = `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
	`
	id := uuid.NewString()
	now := r.now()
	PT(rec).SetID(id)
	if s, ok := any(rec).(model.Stamped); ok {
		s.StampCreated(now)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, q, r.name, id, string(data), now); err != nil {
		return "", err
	}
	return id, nil
}

// Update merges patch into the stored document with the jsonb || operator.
func (r *Collection[T, PT]) Update(ctx context.Context, id string, patch repository.Fields) error {
	const q = `
		UPDATE records SET data = data || $3::jsonb, updated_at = $4
		WHERE collection = $1 AND id = $2
	`
	data, err := encodePatch(patch)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, r.name, id, data, r.now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Upsert inserts the document or merges patch into the existing one.
func (r *Collection[T, PT]) Upsert(ctx context.Context, id string, patch repository.Fields) error {
	const q = `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = records.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	data, err := encodePatch(patch)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, r.name, id, data, r.now())
	return err
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM records WHERE collection = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, q, r.name, id)
	return err
}

func (r *Collection[T, PT]) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM records WHERE collection = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, q, r.name).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func encodePatch(patch repository.Fields) (string, error) {
	if err := repository.CheckFields(repository.ListQuery{}, patch); err != nil {
		return "", err
	}
	if patch == nil {
		patch = repository.Fields{}
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return "", fmt.Errorf("encode patch: %w", err)
	}
	return string(b), nil
}

func decode[T any, PT model.RecordPtr[T]](id string, raw []byte) (*T, error) {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	PT(&rec).SetID(id)
	return &rec, nil
}
