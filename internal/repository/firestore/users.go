package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Users stores profiles in the users collection keyed by uid. Emails are stored lowercased.
type Users struct {
	client *firestore.Client
}

func NewUsers(client *firestore.Client) *Users {
	return &Users{client: client}
}

var _ repository.UserRepository = (*Users)(nil)

func (u *Users) FindByID(ctx context.Context, uid string) (*model.UserProfile, error) {
	snap, err := u.client.Collection(model.CollectionUsers).Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeUser(snap)
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	snaps, err := u.client.Collection(model.CollectionUsers).
		Where("email", "==", strings.ToLower(email)).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, repository.ErrNotFound
	}
	return decodeUser(snaps[0])
}

func (u *Users) Create(ctx context.Context, p *model.UserProfile) error {
	doc := *p
	doc.Email = strings.ToLower(doc.Email)
	_, err := u.client.Collection(model.CollectionUsers).Doc(p.UID).Create(ctx, doc)
	return err
}

func (u *Users) Count(ctx context.Context) (int, error) {
	snaps, err := u.client.Collection(model.CollectionUsers).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return len(snaps), nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
	}
	p.UID = snap.Ref.ID
	return &p, nil
}
