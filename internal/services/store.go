package services

import (
	"context"
	"time"

	"bcibizz-gateway/internal/models"
)

// SessionStore is the per-session key/value storage the desktop shell used to
// keep locally: the upstream token and the remember-me flag, plus the payout
// accounts added during the session.
type SessionStore interface {
	GetItem(ctx context.Context, sessionID, key string) (string, error)
	SetItem(ctx context.Context, sessionID, key, value string) error
	RemoveItem(ctx context.Context, sessionID, key string) error
	Expire(ctx context.Context, sessionID string, ttl time.Duration) error
	Destroy(ctx context.Context, sessionID string) error

	AddPayoutAccount(ctx context.Context, sessionID string, account *models.PayoutAccount) error
	PayoutAccounts(ctx context.Context, sessionID string) ([]*models.PayoutAccount, error)

	CheckRateLimit(ctx context.Context, sessionID, action string, limit int, window time.Duration) (bool, error)
	Close() error
}
