package service

import (
	"context"
	"time"

	"library-backend/pkg/cache"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationStore remembers logged out token ids until the token would have expired anyway.
type RevocationStore struct {
	cache cache.Cache
	now   func() time.Time
}

func NewRevocationStore(c cache.Cache) *RevocationStore {
	return &RevocationStore{cache: c, now: time.Now}
}

// Revoke marks jti as revoked until expiresAt. Already expired tokens are ignored.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+jti, true, ttl)
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.cache.Exists(ctx, revokedKeyPrefix+jti)
}
