package cache

import (
	"context"
	"fmt"
	"time"
)

// RevokeSession marks a session id as revoked for ttl. The entry only needs
// to outlive the token it belongs to.
func (c *Cache) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	if err := c.client.Set(ctx, c.revokedSessionKey(sessionID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsSessionRevoked reports whether RevokeSession was called for sessionID.
func (c *Cache) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.revokedSessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return n > 0, nil
}

func (c *Cache) revokedSessionKey(sessionID string) string {
	return c.key("session", "revoked", sessionID)
}
