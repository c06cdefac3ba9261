// Package mongo implements the Record Store on MongoDB, one collection per record type
// with the record id as _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// createdKey records insertion time on every document so ties in a sort keep creation order.
const createdKey = "_created"

// Collection is a MongoDB implementation of repository.Store.
type Collection[T any, PT model.RecordPtr[T]] struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCollection[T any, PT model.RecordPtr[T]](db *mongo.Database, name string) *Collection[T, PT] {
	return &Collection[T, PT]{coll: db.Collection(name), now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.Store[model.Article] = (*Collection[model.Article, *model.Article])(nil)

func (r *Collection[T, PT]) Collection() string { return r.coll.Name() }

func (r *Collection[T, PT]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	if err := repository.CheckFields(q, nil); err != nil {
		return nil, err
	}
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}
	sort := bson.D{}
	for _, s := range q.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: s.Field, Value: dir})
	}
	sort = append(sort, bson.E{Key: createdKey, Value: 1}, bson.E{Key: "_id", Value: 1})

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	for cur.Next(ctx) {
		var rec T
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	PT(&rec).SetID(id)
	return &rec, nil
}

func (r *Collection[T, PT]) Create(ctx context.Context, rec *T) (string, error) {
	id := uuid.NewString()
	now := r.now()
	PT(rec).SetID(id)
	if s, ok := any(rec).(model.Stamped); ok {
		s.StampCreated(now)
	}
	raw, err := bson.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	doc = append(doc, bson.E{Key: createdKey, Value: now})

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Update applies patch with $set, leaving other fields untouched.
func (r *Collection[T, PT]) Update(ctx context.Context, id string, patch repository.Fields) error {
	if err := repository.CheckFields(repository.ListQuery{}, patch); err != nil {
		return err
	}
	if len(patch) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Collection[T, PT]) Upsert(ctx context.Context, id string, patch repository.Fields) error {
	if err := repository.CheckFields(repository.ListQuery{}, patch); err != nil {
		return err
	}
	update := bson.M{"$setOnInsert": bson.M{createdKey: r.now()}}
	if len(patch) > 0 {
		update["$set"] = bson.M(patch)
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

func (r *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *Collection[T, PT]) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
