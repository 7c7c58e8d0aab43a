// util/cache_service.go

package util

import (
	"context"

	"github.com/techverse/authz/db"
	"github.com/techverse/authz/model"
)

// CacheService is the Redis-backed record cache for user and role records.
// It accelerates admin reads; the permission resolution path keeps its own
// in-memory cache and does not consult it.
type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return db.GetCachedUser(ctx, userID)
}

func (c *CacheService) SetUser(ctx context.Context, user model.User) error {
	return db.CacheUser(ctx, &user)
}

func (c *CacheService) DeleteUser(ctx context.Context, userID string) error {
	return db.DeleteCachedUser(ctx, userID)
}

func (c *CacheService) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	return db.GetCachedRole(ctx, roleID)
}

func (c *CacheService) SetRole(ctx context.Context, role model.Role) error {
	return db.CacheRole(ctx, &role)
}

func (c *CacheService) DeleteRole(ctx context.Context, roleID string) error {
	return db.DeleteCachedRole(ctx, roleID)
}
