package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Entry is a record as the generic editor sees it: its id and field values keyed by
// stored field name.
type Entry struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// Editor is the schema-driven create/edit/delete/list cycle shared by every admin screen.
type Editor interface {
	Schema() model.Schema
	// Entries lists every record in the order the screen shows them.
	Entries(ctx context.Context) ([]Entry, error)
	Entry(ctx context.Context, id string) (*Entry, error)
	// Defaults returns the initial values of the create form.
	Defaults(ctx context.Context) (map[string]any, error)
	Create(ctx context.Context, input map[string]any) (string, error)
	// Update merges input into the record; fields absent from input are left unchanged.
	Update(ctx context.Context, id string, input map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Records is the content service over one collection. It implements Editor and
// exposes typed reads for the public pages.
type Records[T any, PT model.RecordPtr[T]] struct {
	store   repository.Store[T]
	schema  model.Schema
	metrics *Metrics
}

// NewRecords constructs the service for store, edited through schema.
func NewRecords[T any, PT model.RecordPtr[T]](store repository.Store[T], schema model.Schema, metrics *Metrics) *Records[T, PT] {
	return &Records[T, PT]{store: store, schema: schema, metrics: metrics}
}

var _ Editor = (*Records[model.Article, *model.Article])(nil)

func (r *Records[T, PT]) Schema() model.Schema { return r.schema }

// List returns records equal to filter, ordered by the schema's sort field.
func (r *Records[T, PT]) List(ctx context.Context, filter repository.Fields) ([]T, error) {
	q := repository.ListQuery{Filter: filter}
	if r.schema.SortBy != "" {
		q.Sort = []repository.SortField{{Field: r.schema.SortBy}}
	}
	items, err := r.store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.schema.Collection, err)
	}
	return items, nil
}

// Get returns ErrNotFound when the record does not exist.
func (r *Records[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", r.schema.Collection, id, err)
	}
	return rec, nil
}

func (r *Records[T, PT]) Entries(ctx context.Context) ([]Entry, error) {
	items, err := r.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(items))
	for i := range items {
		e, err := toEntry[T, PT](&items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Records[T, PT]) Entry(ctx context.Context, id string) (*Entry, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err := toEntry[T, PT](rec)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Records[T, PT]) Defaults(ctx context.Context) (map[string]any, error) {
	d := r.schema.Defaults()
	if r.schema.Sequence != "" {
		n, err := r.nextSequence(ctx)
		if err != nil {
			return nil, err
		}
		d[r.schema.Sequence] = n
	}
	return d, nil
}

// nextSequence is one more than the largest sequence value, or 1 for an empty collection.
func (r *Records[T, PT]) nextSequence(ctx context.Context) (int, error) {
	items, err := r.List(ctx, nil)
	if err != nil {
		return 0, err
	}
	highest := 0
	for i := range items {
		values, err := toValues(&items[i])
		if err != nil {
			return 0, err
		}
		if n, ok := values[r.schema.Sequence].(float64); ok && int(n) > highest {
			highest = int(n)
		}
	}
	return highest + 1, nil
}

// Create fills fields absent from input with the form defaults, validates the record
// and stores it.
func (r *Records[T, PT]) Create(ctx context.Context, input map[string]any) (string, error) {
	values, err := r.schema.Coerce(input)
	if err != nil {
		return "", coercionError(err)
	}
	doc := r.schema.Defaults()
	if seq := r.schema.Sequence; seq != "" {
		if _, ok := values[seq]; !ok {
			n, err := r.nextSequence(ctx)
			if err != nil {
				return "", err
			}
			doc[seq] = n
		}
	}
	for k, v := range values {
		doc[k] = v
	}

	rec, err := fromValues[T](doc)
	if err != nil {
		return "", err
	}
	if err := validateRecord(rec); err != nil {
		return "", err
	}

	id, err := r.store.Create(ctx, rec)
	r.metrics.write(r.schema.Collection, "create", err)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", r.schema.Collection, err)
	}
	return id, nil
}

// Update validates the record as it will look after the merge, then writes only the
// submitted fields. Last write wins.
func (r *Records[T, PT]) Update(ctx context.Context, id string, input map[string]any) error {
	if id == "" {
		return ErrIDRequired
	}
	patch, err := r.schema.Coerce(input)
	if err != nil {
		return coercionError(err)
	}
	cur, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	doc, err := toValues(cur)
	if err != nil {
		return err
	}
	for k, v := range patch {
		doc[k] = v
	}
	merged, err := fromValues[T](doc)
	if err != nil {
		return err
	}
	if err := validateRecord(merged); err != nil {
		return err
	}

	err = r.store.Update(ctx, id, repository.Fields(patch))
	r.metrics.write(r.schema.Collection, "update", err)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update %s/%s: %w", r.schema.Collection, id, err)
	}
	return nil
}

// Delete is a hard delete. Deleting a missing record is not an error.
func (r *Records[T, PT]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	err := r.store.Delete(ctx, id)
	r.metrics.write(r.schema.Collection, "delete", err)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", r.schema.Collection, id, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (r *Records[T, PT]) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx)
}

func toEntry[T any, PT model.RecordPtr[T]](rec *T) (Entry, error) {
	values, err := toValues(rec)
	if err != nil {
		return Entry{}, err
	}
	delete(values, "id")
	return Entry{ID: PT(rec).GetID(), Values: values}, nil
}

// toValues returns the JSON form of rec, the same shape the form and API use.
func toValues(rec any) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return values, nil
}

func fromValues[T any](values map[string]any) (*T, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
