// service/role_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	authz_errors "github.com/techverse/authz/errors"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/util"
)

type fakeRoleDAO struct {
	roles       map[string]*model.Role
	createCalls int
	deleteCalls int
}

func newFakeRoleDAO() *fakeRoleDAO {
	return &fakeRoleDAO{roles: make(map[string]*model.Role)}
}

func (f *fakeRoleDAO) CreateRole(ctx context.Context, role model.Role) (string, error) {
	f.createCalls++
	if role.ID == "" {
		role.ID = "generated-id"
	}
	f.roles[role.ID] = &role
	return role.ID, nil
}

func (f *fakeRoleDAO) UpdateRole(ctx context.Context, role model.Role) (*model.Role, error) {
	if _, ok := f.roles[role.ID]; !ok {
		return nil, authz_errors.ErrRoleNotFound
	}
	f.roles[role.ID] = &role
	return &role, nil
}

func (f *fakeRoleDAO) DeleteRole(ctx context.Context, roleID string) error {
	f.deleteCalls++
	if _, ok := f.roles[roleID]; !ok {
		return authz_errors.ErrRoleNotFound
	}
	delete(f.roles, roleID)
	return nil
}

func (f *fakeRoleDAO) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	role, ok := f.roles[roleID]
	if !ok {
		return nil, authz_errors.ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeRoleDAO) ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error) {
	var out []*model.Role
	for _, r := range f.roles {
		out = append(out, r)
	}
	return out, nil
}

// fakeRecordCache is a map-backed RecordCache.
type fakeRecordCache struct {
	users map[string]*model.User
	roles map[string]*model.Role
}

func newFakeRecordCache() *fakeRecordCache {
	return &fakeRecordCache{
		users: make(map[string]*model.User),
		roles: make(map[string]*model.Role),
	}
}

func (f *fakeRecordCache) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return f.users[userID], nil
}

func (f *fakeRecordCache) SetUser(ctx context.Context, user model.User) error {
	f.users[user.ID] = &user
	return nil
}

func (f *fakeRecordCache) DeleteUser(ctx context.Context, userID string) error {
	delete(f.users, userID)
	return nil
}

func (f *fakeRecordCache) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	return f.roles[roleID], nil
}

func (f *fakeRecordCache) SetRole(ctx context.Context, role model.Role) error {
	f.roles[role.ID] = &role
	return nil
}

func (f *fakeRecordCache) DeleteRole(ctx context.Context, roleID string) error {
	delete(f.roles, roleID)
	return nil
}

func newTestRoleService(dao *fakeRoleDAO, cache *fakeRecordCache) *RoleService {
	return NewRoleService(dao, util.NewValidationUtil(), cache, util.NewEventBus())
}

func TestCreateRoleValidatesPermissions(t *testing.T) {
	svc := newTestRoleService(newFakeRoleDAO(), newFakeRecordCache())
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, model.Role{Name: "editor", Permissions: []string{"posts read"}}, "admin")
	assert.Error(t, err)

	_, err = svc.CreateRole(ctx, model.Role{Permissions: []string{"posts.read"}}, "admin")
	assert.Error(t, err, "role name is required")

	created, err := svc.CreateRole(ctx, model.Role{Name: "editor", Permissions: []string{"posts.read", "posts.*"}}, "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateRoleEvictsRecordCache(t *testing.T) {
	dao := newFakeRoleDAO()
	cache := newFakeRecordCache()
	svc := newTestRoleService(dao, cache)
	ctx := context.Background()

	created, err := svc.CreateRole(ctx, model.Role{Name: "editor"}, "admin")
	assert.NoError(t, err)

	// Prime the record cache, then update.
	_, err = svc.GetRole(ctx, created.ID)
	assert.NoError(t, err)
	assert.NotNil(t, cache.roles[created.ID])

	created.Description = "can edit posts"
	_, err = svc.UpdateRole(ctx, *created, "admin")
	assert.NoError(t, err)
	assert.Nil(t, cache.roles[created.ID])
}

func TestDeleteRoleNotFound(t *testing.T) {
	svc := newTestRoleService(newFakeRoleDAO(), newFakeRecordCache())

	err := svc.DeleteRole(context.Background(), "missing", "admin")
	assert.ErrorIs(t, err, authz_errors.ErrRoleNotFound)
}

func TestGetRoleServedFromRecordCache(t *testing.T) {
	dao := newFakeRoleDAO()
	cache := newFakeRecordCache()
	svc := newTestRoleService(dao, cache)

	cache.roles["r1"] = &model.Role{ID: "r1", Name: "viewer"}

	role, err := svc.GetRole(context.Background(), "r1")
	assert.NoError(t, err)
	assert.Equal(t, "viewer", role.Name)
}
