// service/permission_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/techverse/authz/audit"
	"github.com/techverse/authz/authz"
	authz_errors "github.com/techverse/authz/errors"
	logger "github.com/techverse/authz/logging"
	"github.com/techverse/authz/util"
)

// IPermissionService defines the authorization check surface consumed by the
// web layer. Checks never return errors: any fault during resolution denies
// access (fail closed).
type IPermissionService interface {
	ResolvePermissions(ctx context.Context, userID string) []authz.Permission
	HasPermission(ctx context.Context, userID string, permission string) bool
	HasAllPermissions(ctx context.Context, userID string, permissions []string) bool
	HasAnyPermission(ctx context.Context, userID string, permissions []string) bool
	GetPermissionsGrouped(ctx context.Context, userID string) map[string][]string
	InvalidateUserCache(ctx context.Context, userID string)
	InvalidateAllCaches(ctx context.Context) int
	GetCacheStats() authz.CacheStats
	RecordDenied(ctx context.Context, attempt audit.AccessAttempt)
}

// PermissionService resolves and evaluates user permissions against the
// in-memory TTL cache, falling back to the store on miss.
type PermissionService struct {
	store    PermissionStore
	cache    *authz.PermissionCache
	auditSvc audit.Service
}

var _ IPermissionService = &PermissionService{}

// NewPermissionService creates the evaluator and wires cache invalidation to
// role/user mutation events.
func NewPermissionService(store PermissionStore, cache *authz.PermissionCache, auditSvc audit.Service, eventBus *util.EventBus) *PermissionService {
	service := &PermissionService{
		store:    store,
		cache:    cache,
		auditSvc: auditSvc,
	}

	if eventBus != nil {
		// A role edit affects an unknown set of users; a grant edit affects one.
		eventBus.Subscribe(util.EventRoleUpdated, service.handleRoleChanged)
		eventBus.Subscribe(util.EventRoleDeleted, service.handleRoleChanged)
		eventBus.Subscribe(util.EventUserPermissionsUpdated, service.handleUserPermissionsUpdated)
	}

	return service
}

func (s *PermissionService) handleRoleChanged(ctx context.Context, event util.Event) error {
	removed := s.cache.InvalidateAll()
	logger.Info("Permission cache cleared after role change",
		zap.String("event", event.Type),
		zap.Int("removed", removed))
	return nil
}

func (s *PermissionService) handleUserPermissionsUpdated(ctx context.Context, event util.Event) error {
	userID, ok := event.Payload.(string)
	if !ok {
		return nil
	}
	s.cache.Invalidate(userID)
	logger.Info("Permission cache invalidated for user",
		zap.String("userID", userID))
	return nil
}

// ResolvePermissions returns the user's effective permission set. Explicit
// grants win over the role's defaults; role defaults are written back onto
// the user record so later fetches take the fast path. Missing users, missing
// roles and store faults all resolve to an empty set and are never cached.
func (s *PermissionService) ResolvePermissions(ctx context.Context, userID string) []authz.Permission {
	if userID == "" {
		return nil
	}

	if perms, ok := s.cache.Get(userID); ok {
		return perms
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, authz_errors.ErrUserNotFound) {
			logger.Error("Failed to load user for permission resolution",
				zap.Error(err), zap.String("userID", userID))
		}
		return nil
	}

	if len(user.Permissions) > 0 {
		perms := authz.FromStrings(user.Permissions)
		s.cache.Put(userID, perms)
		return perms
	}

	if user.Role == "" {
		return nil
	}

	rolePerms, err := s.store.GetRolePermissions(ctx, user.Role)
	if err != nil {
		if !errors.Is(err, authz_errors.ErrRoleNotFound) {
			logger.Error("Failed to load role permissions",
				zap.Error(err), zap.String("userID", userID), zap.String("role", user.Role))
		}
		return nil
	}

	perms := authz.FromStrings(rolePerms)
	s.cache.Put(userID, perms)

	if len(rolePerms) > 0 {
		// Write-back: persist the role defaults as explicit grants so the
		// next store fetch skips the role lookup. Resolution already
		// succeeded, so a failure here only costs the fast path.
		if err := s.store.SetUserPermissions(ctx, userID, rolePerms); err != nil {
			logger.Warn("Failed to write back role permissions to user record",
				zap.Error(err), zap.String("userID", userID))
		}
	}

	return perms
}

// HasPermission reports whether the user holds the permission. An empty
// permission string is always denied.
func (s *PermissionService) HasPermission(ctx context.Context, userID string, permission string) bool {
	if permission == "" {
		return false
	}
	return authz.Matches(s.ResolvePermissions(ctx, userID), authz.Permission(permission))
}

// HasAllPermissions reports whether the user holds every listed permission.
// An empty list is vacuously true.
func (s *PermissionService) HasAllPermissions(ctx context.Context, userID string, permissions []string) bool {
	if len(permissions) == 0 {
		return true
	}
	return authz.MatchesAll(s.ResolvePermissions(ctx, userID), authz.FromStrings(permissions))
}

// HasAnyPermission reports whether the user holds at least one listed
// permission. An empty list is vacuously true, mirroring HasAllPermissions.
func (s *PermissionService) HasAnyPermission(ctx context.Context, userID string, permissions []string) bool {
	if len(permissions) == 0 {
		return true
	}
	return authz.MatchesAny(s.ResolvePermissions(ctx, userID), authz.FromStrings(permissions))
}

// GetPermissionsGrouped returns the user's permissions grouped by resource.
func (s *PermissionService) GetPermissionsGrouped(ctx context.Context, userID string) map[string][]string {
	return authz.GroupByResource(s.ResolvePermissions(ctx, userID))
}

// InvalidateUserCache drops one user's cached permission set.
func (s *PermissionService) InvalidateUserCache(ctx context.Context, userID string) {
	s.cache.Invalidate(userID)
	logger.Info("Permission cache invalidated", zap.String("userID", userID))
}

// InvalidateAllCaches drops every cached permission set and returns how many
// entries were removed.
func (s *PermissionService) InvalidateAllCaches(ctx context.Context) int {
	removed := s.cache.InvalidateAll()
	logger.Info("Permission cache cleared", zap.Int("removed", removed))
	return removed
}

// GetCacheStats returns a diagnostic snapshot of the permission cache.
func (s *PermissionService) GetCacheStats() authz.CacheStats {
	return s.cache.Stats()
}

// RecordDenied dispatches an audit record for a denied check without blocking
// the caller. The decision has already been returned; an audit failure is
// logged and changes nothing.
func (s *PermissionService) RecordDenied(ctx context.Context, attempt audit.AccessAttempt) {
	if s.auditSvc == nil {
		return
	}
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now()
	}
	go func() {
		auditCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.auditSvc.RecordAttempt(auditCtx, attempt); err != nil {
			logger.Error("Failed to record access attempt",
				zap.Error(err),
				zap.String("userID", attempt.UserID),
				zap.String("permission", attempt.Permission))
		}
	}()
}
