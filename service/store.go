// service/store.go
package service

import (
	"context"

	"github.com/techverse/authz/dao"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/util"
)

// PermissionStore is the slice of the persistence layer the evaluator needs:
// the user record (role name plus explicit grants), the role's default
// permission list, and the write-back hook.
type PermissionStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetRolePermissions(ctx context.Context, roleName string) ([]string, error)
	SetUserPermissions(ctx context.Context, userID string, permissions []string) error
}

// RecordCache is the Redis-backed record cache surface used by the admin
// services. util.CacheService is the production implementation.
type RecordCache interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	SetUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, userID string) error
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	SetRole(ctx context.Context, role model.Role) error
	DeleteRole(ctx context.Context, roleID string) error
}

var _ RecordCache = &util.CacheService{}

// DAOStore backs PermissionStore with the Neo4j DAOs.
type DAOStore struct {
	Users *dao.UserDAO
	Roles *dao.RoleDAO
}

var _ PermissionStore = &DAOStore{}

func NewDAOStore(users *dao.UserDAO, roles *dao.RoleDAO) *DAOStore {
	return &DAOStore{Users: users, Roles: roles}
}

func (s *DAOStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.Users.GetUser(ctx, userID)
}

func (s *DAOStore) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	return s.Roles.GetRolePermissions(ctx, roleName)
}

func (s *DAOStore) SetUserPermissions(ctx context.Context, userID string, permissions []string) error {
	return s.Users.SetUserPermissions(ctx, userID, permissions)
}
