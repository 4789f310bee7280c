package ports

import (
	"context"
	"time"
)

// TokenRevoker records access tokens invalidated before their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
