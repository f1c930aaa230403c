package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"payledger-backend/internal/config"
	"payledger-backend/internal/models"
)

// Cache keys
const (
	balanceKeyFmt  = "advance:balance:%s:%d" // kind, counterparty id
	openDocsKeyFmt = "documents:open:%s:%d"  // kind, counterparty id
)

var client *redis.Client

// Init initializes the Redis connection. A failed ping leaves the client nil
// so every cache call degrades to a miss.
func Init(cfg *config.Config) error {
	if !cfg.Redis.Enabled {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

func balanceKey(kind models.DocumentKind, counterpartyID int64) string {
	return fmt.Sprintf(balanceKeyFmt, kind, counterpartyID)
}

func openDocsKey(kind models.DocumentKind, counterpartyID int64) string {
	return fmt.Sprintf(openDocsKeyFmt, kind, counterpartyID)
}

// GetCachedBalance returns a cached advance balance string if available
func GetCachedBalance(ctx context.Context, kind models.DocumentKind, counterpartyID int64) (string, bool) {
	if client == nil {
		return "", false
	}
	val, err := client.Get(ctx, balanceKey(kind, counterpartyID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// CacheBalance caches an advance balance for 5 minutes
func CacheBalance(ctx context.Context, kind models.DocumentKind, counterpartyID int64, balance string) {
	if client == nil {
		return
	}
	client.Set(ctx, balanceKey(kind, counterpartyID), balance, 5*time.Minute)
}

// InvalidateBalance drops the cached balance after any ledger write
func InvalidateBalance(ctx context.Context, kind models.DocumentKind, counterpartyID int64) {
	if client == nil {
		return
	}
	client.Del(ctx, balanceKey(kind, counterpartyID))
}

// GetCachedOpenDocuments returns a cached open-document listing if available
func GetCachedOpenDocuments(ctx context.Context, kind models.DocumentKind, counterpartyID int64) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, openDocsKey(kind, counterpartyID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheOpenDocuments caches an open-document listing for 2 minutes
func CacheOpenDocuments(ctx context.Context, kind models.DocumentKind, counterpartyID int64, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, openDocsKey(kind, counterpartyID), data, 2*time.Minute)
}

// InvalidateOpenDocuments drops the cached listing after a payment, advance
// application, or return touches any of the counterparty's documents.
func InvalidateOpenDocuments(ctx context.Context, kind models.DocumentKind, counterpartyID int64) {
	if client == nil {
		return
	}
	client.Del(ctx, openDocsKey(kind, counterpartyID))
}
