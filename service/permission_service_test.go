// service/permission_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/techverse/authz/authz"
	authz_errors "github.com/techverse/authz/errors"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/util"
)

// fakeStore counts fetches so tests can tell a cache hit from a refetch.
type fakeStore struct {
	users            map[string]*model.User
	rolePerms        map[string][]string
	getUserErr       error
	getRoleErr       error
	setPermsErr      error
	getUserCalls     int
	getRoleCalls     int
	setPermsCalls    int
	lastWrittenPerms []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*model.User),
		rolePerms: make(map[string][]string),
	}
}

func (f *fakeStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	f.getUserCalls++
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, authz_errors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	f.getRoleCalls++
	if f.getRoleErr != nil {
		return nil, f.getRoleErr
	}
	perms, ok := f.rolePerms[roleName]
	if !ok {
		return nil, authz_errors.ErrRoleNotFound
	}
	return perms, nil
}

func (f *fakeStore) SetUserPermissions(ctx context.Context, userID string, permissions []string) error {
	f.setPermsCalls++
	f.lastWrittenPerms = permissions
	if f.setPermsErr != nil {
		return f.setPermsErr
	}
	if user, ok := f.users[userID]; ok {
		user.Permissions = permissions
	}
	return nil
}

func newTestService(store PermissionStore) *PermissionService {
	return NewPermissionService(store, authz.NewPermissionCache(5*time.Minute), nil, nil)
}

func TestHasPermissionWithExplicitGrants(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Role: "editor", Permissions: []string{"posts.read", "posts.write"}}
	svc := newTestService(store)
	ctx := context.Background()

	assert.True(t, svc.HasPermission(ctx, "u1", "posts.read"))
	assert.False(t, svc.HasPermission(ctx, "u1", "posts.delete"))

	// Explicit grants win: the role is never consulted.
	assert.Equal(t, 0, store.getRoleCalls)
	// Second check is served from cache.
	assert.Equal(t, 1, store.getUserCalls)
}

func TestHasPermissionWildcards(t *testing.T) {
	store := newFakeStore()
	store.users["admin"] = &model.User{ID: "admin", Permissions: []string{"*"}}
	store.users["poster"] = &model.User{ID: "poster", Permissions: []string{"posts.*"}}
	svc := newTestService(store)
	ctx := context.Background()

	assert.True(t, svc.HasPermission(ctx, "admin", "anything.at_all"))
	assert.True(t, svc.HasPermission(ctx, "poster", "posts.delete"))
	assert.False(t, svc.HasPermission(ctx, "poster", "users.read"))
}

func TestRoleFallbackWithWriteBack(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Role: "viewer"}
	store.rolePerms["viewer"] = []string{"posts.read", "comments.read"}
	svc := newTestService(store)
	ctx := context.Background()

	assert.True(t, svc.HasPermission(ctx, "u1", "posts.read"))
	assert.Equal(t, 1, store.getRoleCalls)
	assert.Equal(t, 1, store.setPermsCalls)
	assert.Equal(t, []string{"posts.read", "comments.read"}, store.lastWrittenPerms)

	// Cached now: no further store traffic.
	assert.True(t, svc.HasPermission(ctx, "u1", "comments.read"))
	assert.Equal(t, 1, store.getUserCalls)
	assert.Equal(t, 1, store.getRoleCalls)
}

func TestRoleFallbackEmptyRoleSkipsWriteBack(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Role: "ghost"}
	store.rolePerms["ghost"] = []string{}
	svc := newTestService(store)

	assert.False(t, svc.HasPermission(context.Background(), "u1", "posts.read"))
	assert.Equal(t, 0, store.setPermsCalls)
}

func TestWriteBackFailureStillGrants(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Role: "viewer"}
	store.rolePerms["viewer"] = []string{"posts.read"}
	store.setPermsErr = authz_errors.ErrDatabaseOperation
	svc := newTestService(store)

	assert.True(t, svc.HasPermission(context.Background(), "u1", "posts.read"))
}

func TestFailClosedOnStoreFault(t *testing.T) {
	store := newFakeStore()
	store.getUserErr = authz_errors.ErrDatabaseOperation
	svc := newTestService(store)
	ctx := context.Background()

	assert.False(t, svc.HasPermission(ctx, "u1", "posts.read"))

	// Faults are never cached: the next check hits the store again.
	assert.False(t, svc.HasPermission(ctx, "u1", "posts.read"))
	assert.Equal(t, 2, store.getUserCalls)
}

func TestFailClosedOnUnknownUserAndRole(t *testing.T) {
	store := newFakeStore()
	store.users["roleless"] = &model.User{ID: "roleless"}
	store.users["orphan"] = &model.User{ID: "orphan", Role: "deleted-role"}
	svc := newTestService(store)
	ctx := context.Background()

	assert.False(t, svc.HasPermission(ctx, "missing", "posts.read"))
	assert.False(t, svc.HasPermission(ctx, "roleless", "posts.read"))
	assert.False(t, svc.HasPermission(ctx, "orphan", "posts.read"))
}

func TestHasPermissionEdgeInputs(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	assert.False(t, svc.HasPermission(ctx, "", "posts.read"))
	assert.False(t, svc.HasPermission(ctx, "u1", ""))
	assert.Equal(t, 0, store.getUserCalls, "empty userID short-circuits before the store")
}

func TestHasAllAndAnyPermissions(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Permissions: []string{"posts.read", "comments.*"}}
	svc := newTestService(store)
	ctx := context.Background()

	assert.True(t, svc.HasAllPermissions(ctx, "u1", []string{"posts.read", "comments.write"}))
	assert.False(t, svc.HasAllPermissions(ctx, "u1", []string{"posts.read", "posts.write"}))
	assert.True(t, svc.HasAnyPermission(ctx, "u1", []string{"posts.write", "comments.write"}))
	assert.False(t, svc.HasAnyPermission(ctx, "u1", []string{"posts.write", "users.read"}))

	// Empty lists are vacuously true for both modes.
	assert.True(t, svc.HasAllPermissions(ctx, "u1", nil))
	assert.True(t, svc.HasAnyPermission(ctx, "u1", nil))
}

func TestGetPermissionsGrouped(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Permissions: []string{"posts.read", "posts.write", "comments.*"}}
	svc := newTestService(store)

	grouped := svc.GetPermissionsGrouped(context.Background(), "u1")
	assert.Equal(t, []string{"read", "write"}, grouped["posts"])
	assert.Equal(t, []string{"*"}, grouped["comments"])
}

func TestInvalidateUserCacheForcesRefetch(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Permissions: []string{"posts.read"}}
	svc := newTestService(store)
	ctx := context.Background()

	assert.True(t, svc.HasPermission(ctx, "u1", "posts.read"))
	svc.InvalidateUserCache(ctx, "u1")
	assert.True(t, svc.HasPermission(ctx, "u1", "posts.read"))
	assert.Equal(t, 2, store.getUserCalls)
}

func TestInvalidateAllCachesReturnsCount(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Permissions: []string{"posts.read"}}
	store.users["u2"] = &model.User{ID: "u2", Permissions: []string{"posts.write"}}
	svc := newTestService(store)
	ctx := context.Background()

	svc.HasPermission(ctx, "u1", "posts.read")
	svc.HasPermission(ctx, "u2", "posts.write")

	assert.Equal(t, 2, svc.InvalidateAllCaches(ctx))
	assert.Equal(t, 0, svc.InvalidateAllCaches(ctx))
}

func TestGetCacheStats(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Permissions: []string{"posts.read"}}
	svc := newTestService(store)

	svc.HasPermission(context.Background(), "u1", "posts.read")

	stats := svc.GetCacheStats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 0, stats.Expired)
	assert.Equal(t, 5*time.Minute, stats.TTL)
}

func TestEventHandlersInvalidateCache(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &model.User{ID: "u1", Permissions: []string{"posts.read"}}
	store.users["u2"] = &model.User{ID: "u2", Permissions: []string{"posts.write"}}
	svc := NewPermissionService(store, authz.NewPermissionCache(5*time.Minute), nil, util.NewEventBus())
	ctx := context.Background()

	svc.HasPermission(ctx, "u1", "posts.read")
	svc.HasPermission(ctx, "u2", "posts.write")

	err := svc.handleUserPermissionsUpdated(ctx, util.Event{Type: util.EventUserPermissionsUpdated, Payload: "u1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, svc.GetCacheStats().Total)

	err = svc.handleRoleChanged(ctx, util.Event{Type: util.EventRoleUpdated, Payload: "editor"})
	assert.NoError(t, err)
	assert.Equal(t, 0, svc.GetCacheStats().Total)

	// A payload of the wrong type is ignored rather than clearing anything.
	svc.HasPermission(ctx, "u1", "posts.read")
	err = svc.handleUserPermissionsUpdated(ctx, util.Event{Type: util.EventUserPermissionsUpdated, Payload: 42})
	assert.NoError(t, err)
	assert.Equal(t, 1, svc.GetCacheStats().Total)
}
