// service/role_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/techverse/authz/logging"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/util"
)

// IRoleService defines the interface for role admin operations
type IRoleService interface {
	CreateRole(ctx context.Context, role model.Role, creatorID string) (*model.Role, error)
	UpdateRole(ctx context.Context, role model.Role, updaterID string) (*model.Role, error)
	DeleteRole(ctx context.Context, roleID string, deleterID string) error
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error)
}

// RoleDAO is the persistence surface RoleService needs.
type RoleDAO interface {
	CreateRole(ctx context.Context, role model.Role) (string, error)
	UpdateRole(ctx context.Context, role model.Role) (*model.Role, error)
	DeleteRole(ctx context.Context, roleID string) error
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error)
}

// RoleService handles business logic for role operations. Every mutation
// publishes an event so permission caches are invalidated: a role edit can
// change the effective permissions of any number of users.
type RoleService struct {
	roleDAO        RoleDAO
	validationUtil *util.ValidationUtil
	cacheService   RecordCache
	eventBus       *util.EventBus
}

var _ IRoleService = &RoleService{}

// NewRoleService creates a new instance of RoleService
func NewRoleService(roleDAO RoleDAO, validationUtil *util.ValidationUtil, cacheService RecordCache, eventBus *util.EventBus) *RoleService {
	return &RoleService{
		roleDAO:        roleDAO,
		validationUtil: validationUtil,
		cacheService:   cacheService,
		eventBus:       eventBus,
	}
}

// CreateRole handles the creation of a new role
func (s *RoleService) CreateRole(ctx context.Context, role model.Role, creatorID string) (*model.Role, error) {
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return nil, fmt.Errorf("invalid role: %w", err)
	}

	roleID, err := s.roleDAO.CreateRole(ctx, role)
	if err != nil {
		logger.Error("Error creating role", zap.Error(err), zap.String("creatorID", creatorID))
		return nil, err
	}

	role.ID = roleID

	// A new role may already be referenced by user records.
	s.eventBus.Publish(ctx, util.EventRoleUpdated, role.Name)

	logger.Info("Role created successfully", zap.String("roleID", roleID), zap.String("creatorID", creatorID))
	return &role, nil
}

// UpdateRole handles updates to an existing role
func (s *RoleService) UpdateRole(ctx context.Context, role model.Role, updaterID string) (*model.Role, error) {
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return nil, fmt.Errorf("invalid role: %w", err)
	}

	updatedRole, err := s.roleDAO.UpdateRole(ctx, role)
	if err != nil {
		logger.Error("Error updating role", zap.Error(err), zap.String("roleID", role.ID), zap.String("updaterID", updaterID))
		return nil, err
	}

	// Drop the stale record cache entry before anyone re-reads it.
	if err := s.cacheService.DeleteRole(ctx, role.ID); err != nil {
		logger.Warn("Failed to delete role from record cache", zap.Error(err), zap.String("roleID", role.ID))
	}

	s.eventBus.Publish(ctx, util.EventRoleUpdated, updatedRole.Name)

	logger.Info("Role updated successfully", zap.String("roleID", role.ID), zap.String("updaterID", updaterID))
	return updatedRole, nil
}

// DeleteRole handles the deletion of a role
func (s *RoleService) DeleteRole(ctx context.Context, roleID string, deleterID string) error {
	err := s.roleDAO.DeleteRole(ctx, roleID)
	if err != nil {
		logger.Error("Error deleting role", zap.Error(err), zap.String("roleID", roleID), zap.String("deleterID", deleterID))
		return err
	}

	if err := s.cacheService.DeleteRole(ctx, roleID); err != nil {
		logger.Warn("Failed to delete role from record cache", zap.Error(err), zap.String("roleID", roleID))
	}

	s.eventBus.Publish(ctx, util.EventRoleDeleted, roleID)

	logger.Info("Role deleted successfully", zap.String("roleID", roleID), zap.String("deleterID", deleterID))
	return nil
}

// GetRole retrieves a role by its ID
func (s *RoleService) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	// Try the record cache first
	cachedRole, err := s.cacheService.GetRole(ctx, roleID)
	if err == nil && cachedRole != nil {
		return cachedRole, nil
	}

	role, err := s.roleDAO.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetRole(ctx, *role); err != nil {
		logger.Warn("Failed to cache role", zap.Error(err), zap.String("roleID", roleID))
	}

	return role, nil
}

// ListRoles retrieves all roles with pagination
func (s *RoleService) ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error) {
	roles, err := s.roleDAO.ListRoles(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing roles", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}
