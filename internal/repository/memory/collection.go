// Package memory is an in-process Record Store used for local development and tests.
// Documents are kept in their JSON form so merges and filters behave like the
// document databases.
package memory

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

type entry struct {
	id   string
	seq  int64
	data map[string]any
}

// Collection is an in-memory implementation of repository.Store.
type Collection[T any, PT model.RecordPtr[T]] struct {
	name string
	now  func() time.Time

	mu   sync.RWMutex
	seq  int64
	docs map[string]*entry
}

// NewCollection creates an empty collection named name.
func NewCollection[T any, PT model.RecordPtr[T]](name string) *Collection[T, PT] {
	return &Collection[T, PT]{
		name: name,
		now:  func() time.Time { return time.Now().UTC() },
		docs: make(map[string]*entry),
	}
}

var _ repository.Store[model.Article] = (*Collection[model.Article, *model.Article])(nil)

func (c *Collection[T, PT]) Collection() string { return c.name }

func (c *Collection[T, PT]) List(_ context.Context, q repository.ListQuery) ([]T, error) {
	c.mu.RLock()
	matched := make([]entry, 0, len(c.docs))
	for _, e := range c.docs {
		if repository.Matches(e.data, q.Filter) {
			matched = append(matched, *e)
		}
	}
	c.mu.RUnlock()

	slices.SortFunc(matched, func(a, b entry) int { return cmp.Compare(a.seq, b.seq) })
	repository.SortDocs(matched, func(e entry) map[string]any { return e.data }, q.Sort)

	out := make([]T, 0, len(matched))
	for _, e := range matched {
		rec, err := decode[T, PT](e.id, e.data)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (c *Collection[T, PT]) Get(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	e, ok := c.docs[id]
	var snap entry
	if ok {
		snap = *e
	}
	c.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return decode[T, PT](snap.id, snap.data)
}

func (c *Collection[T, PT]) Create(_ context.Context, rec *T) (string, error) {
	id := uuid.NewString()
	PT(rec).SetID(id)
	if s, ok := any(rec).(model.Stamped); ok {
		s.StampCreated(c.now())
	}
	data, err := toDoc(rec)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.docs[id] = &entry{id: id, seq: c.seq, data: data}
	return id, nil
}

func (c *Collection[T, PT]) Update(_ context.Context, id string, patch repository.Fields) error {
	return c.merge(id, patch, false)
}

func (c *Collection[T, PT]) Upsert(_ context.Context, id string, patch repository.Fields) error {
	return c.merge(id, patch, true)
}

// merge replaces the entry's document with a merged copy; stored maps are never mutated.
func (c *Collection[T, PT]) merge(id string, patch repository.Fields, create bool) error {
	p, err := toDoc(patch)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.docs[id]
	if !ok {
		if !create {
			return repository.ErrNotFound
		}
		c.seq++
		e = &entry{id: id, seq: c.seq, data: map[string]any{}}
		c.docs[id] = e
	}
	merged := make(map[string]any, len(e.data)+len(p))
	for k, v := range e.data {
		merged[k] = v
	}
	for k, v := range p {
		merged[k] = v
	}
	e.data = merged
	return nil
}

func (c *Collection[T, PT]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.docs, id)
	c.mu.Unlock()
	return nil
}

func (c *Collection[T, PT]) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs), nil
}

func toDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

func decode[T any, PT model.RecordPtr[T]](id string, doc map[string]any) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	PT(&rec).SetID(id)
	return &rec, nil
}
