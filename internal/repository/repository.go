// Package repository contains the Record Store contract shared by every document
// collection. Implementations live in subpackages (postgres, mongo, firestore, memory).
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"tumanina/internal/model"
)

// ErrNotFound is returned when a record or user does not exist.
var ErrNotFound = errors.New("record not found")

// Fields is a flat set of document fields keyed by their stored name.
// It is used both as an equality filter and as a merge patch.
type Fields map[string]any

// SortField orders a listing by one document field.
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery selects records whose fields equal every Filter entry, ordered by Sort.
// Records that tie on every sort field keep creation order.
type ListQuery struct {
	Filter Fields
	Sort   []SortField
}

// Store is the Record Store over one named collection of T.
// No business logic here, strictly persistence operations.
type Store[T any] interface {
	// Collection returns the collection name.
	Collection() string

	// List returns every record matching q. An empty collection yields an empty slice.
	List(ctx context.Context, q ListQuery) ([]T, error)

	// Get returns ErrNotFound when no record has the id.
	Get(ctx context.Context, id string) (*T, error)

	// Create stores rec under a new id, stamping its creation time when it has one,
	// and returns the id. rec is updated in place.
	Create(ctx context.Context, rec *T) (string, error)

	// Update merges patch into an existing record. Fields absent from patch are left
	// unchanged; last write wins. It returns ErrNotFound when the record is missing.
	Update(ctx context.Context, id string, patch Fields) error

	// Upsert merges patch into the record, creating it when missing.
	Upsert(ctx context.Context, id string, patch Fields) error

	// Delete removes a record. It returns nil if the record was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}

// UserRepository stores dashboard accounts.
type UserRepository interface {
	FindByID(ctx context.Context, uid string) (*model.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	Create(ctx context.Context, u *model.UserProfile) error
	Count(ctx context.Context) (int, error)
}

var fieldName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// CheckFields rejects field names that are not plain snake_case identifiers.
// Backends that interpolate field names into queries must call it first.
func CheckFields(q ListQuery, patch Fields) error {
	for k := range q.Filter {
		if !fieldName.MatchString(k) {
			return fmt.Errorf("invalid filter field %q", k)
		}
	}
	for _, s := range q.Sort {
		if !fieldName.MatchString(s.Field) {
			return fmt.Errorf("invalid sort field %q", s.Field)
		}
	}
	for k := range patch {
		if !fieldName.MatchString(k) {
			return fmt.Errorf("invalid field %q", k)
		}
	}
	return nil
}
