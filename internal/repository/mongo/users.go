package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Users stores profiles in the users collection. Emails are stored lowercased.
type Users struct {
	coll *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(model.CollectionUsers)}
}

var _ repository.UserRepository = (*Users)(nil)

// EnsureIndexes creates the unique email index.
func (u *Users) EnsureIndexes(ctx context.Context) error {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_idx"),
	}
	_, err := u.coll.Indexes().CreateOne(ctx, ix)
	return err
}

func (u *Users) FindByID(ctx context.Context, uid string) (*model.UserProfile, error) {
	return u.findOne(ctx, bson.M{"_id": uid})
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	return u.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (u *Users) Create(ctx context.Context, p *model.UserProfile) error {
	doc := *p
	doc.Email = strings.ToLower(doc.Email)
	_, err := u.coll.InsertOne(ctx, doc)
	return err
}

func (u *Users) Count(ctx context.Context) (int, error) {
	n, err := u.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (u *Users) findOne(ctx context.Context, filter bson.M) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := u.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
