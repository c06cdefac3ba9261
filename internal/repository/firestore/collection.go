// Package firestore implements the Record Store on Cloud Firestore. Listings are
// filtered by the server and sorted in memory so no composite index is required.
package firestore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Collection is a Firestore implementation of repository.Store.
type Collection[T any, PT model.RecordPtr[T]] struct {
	client *firestore.Client
	name   string
	now    func() time.Time
}

func NewCollection[T any, PT model.RecordPtr[T]](client *firestore.Client, name string) *Collection[T, PT] {
	return &Collection[T, PT]{client: client, name: name, now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.Store[model.Article] = (*Collection[model.Article, *model.Article])(nil)

func (r *Collection[T, PT]) Collection() string { return r.name }

type doc struct {
	snap    *firestore.DocumentSnapshot
	created time.Time
	data    map[string]any
}

func (r *Collection[T, PT]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	if err := repository.CheckFields(q, nil); err != nil {
		return nil, err
	}
	query := r.client.Collection(r.name).Query
	for k, v := range q.Filter {
		query = query.Where(k, "==", v)
	}
	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	docs := make([]doc, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, doc{snap: s, created: s.CreateTime, data: s.Data()})
	}
	orderDocs(docs, q.Sort)

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		rec, err := decode[T, PT](d.snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// orderDocs sorts by creation time, then stably by the requested fields.
func orderDocs(docs []doc, sort []repository.SortField) {
	slices.SortStableFunc(docs, func(a, b doc) int { return a.created.Compare(b.created) })
	repository.SortDocs(docs, func(d doc) map[string]any { return d.data }, sort)
}

func (r *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	snap, err := r.client.Collection(r.name).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decode[T, PT](snap)
}

func (r *Collection[T, PT]) Create(ctx context.Context, rec *T) (string, error) {
	id := uuid.NewString()
	PT(rec).SetID(id)
	if s, ok := any(rec).(model.Stamped); ok {
		s.StampCreated(r.now())
	}
	if _, err := r.client.Collection(r.name).Doc(id).Create(ctx, rec); err != nil {
		return "", err
	}
	return id, nil
}

// Update fails with ErrNotFound when the document does not exist, as Firestore's Update does.
func (r *Collection[T, PT]) Update(ctx context.Context, id string, patch repository.Fields) error {
	if err := repository.CheckFields(repository.ListQuery{}, patch); err != nil {
		return err
	}
	ref := r.client.Collection(r.name).Doc(id)
	if len(patch) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}
	updates := make([]firestore.Update, 0, len(patch))
	for k, v := range patch {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := ref.Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *Collection[T, PT]) Upsert(ctx context.Context, id string, patch repository.Fields) error {
	if err := repository.CheckFields(repository.ListQuery{}, patch); err != nil {
		return err
	}
	ref := r.client.Collection(r.name).Doc(id)
	if len(patch) == 0 {
		if _, err := ref.Create(ctx, map[string]any{}); err != nil && status.Code(err) != codes.AlreadyExists {
			return err
		}
		return nil
	}
	_, err := ref.Set(ctx, map[string]any(patch), firestore.MergeAll)
	return err
}

func (r *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(r.name).Doc(id).Delete(ctx)
	return err
}

func (r *Collection[T, PT]) Count(ctx context.Context) (int, error) {
	snaps, err := r.client.Collection(r.name).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return len(snaps), nil
}

func decode[T any, PT model.RecordPtr[T]](snap *firestore.DocumentSnapshot) (*T, error) {
	var rec T
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
	}
	PT(&rec).SetID(snap.Ref.ID)
	return &rec, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
