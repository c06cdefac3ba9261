// Package session tracks live sign-in sessions so a sign-out evicts every holder of
// the session token on its next request.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrRevoked is returned for sessions that were revoked, expired or never existed.
var ErrRevoked = errors.New("session revoked")

// Registry records live sessions by session id.
type Registry interface {
	// Create registers sid for uid until ttl elapses.
	Create(ctx context.Context, sid, uid string, ttl time.Duration) error
	// Active returns the uid of a live session or ErrRevoked.
	Active(ctx context.Context, sid string) (string, error)
	// Revoke ends a session. Revoking an unknown session is not an error.
	Revoke(ctx context.Context, sid string) error
}
