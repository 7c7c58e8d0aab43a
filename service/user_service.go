// service/user_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/techverse/authz/logging"
	"github.com/techverse/authz/model"
	"github.com/techverse/authz/util"
)

// IUserService defines the interface for user record operations
type IUserService interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpsertUser(ctx context.Context, user model.User, updaterID string) (*model.User, error)
	SetUserPermissions(ctx context.Context, userID string, permissions []string, updaterID string) error
}

// UserDAO is the persistence surface UserService needs.
type UserDAO interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpsertUser(ctx context.Context, user model.User) (string, error)
	SetUserPermissions(ctx context.Context, userID string, permissions []string) error
}

// UserService handles business logic for user records and explicit grants.
type UserService struct {
	userDAO        UserDAO
	validationUtil *util.ValidationUtil
	cacheService   RecordCache
	eventBus       *util.EventBus
}

var _ IUserService = &UserService{}

// NewUserService creates a new instance of UserService
func NewUserService(userDAO UserDAO, validationUtil *util.ValidationUtil, cacheService RecordCache, eventBus *util.EventBus) *UserService {
	return &UserService{
		userDAO:        userDAO,
		validationUtil: validationUtil,
		cacheService:   cacheService,
		eventBus:       eventBus,
	}
}

// GetUser retrieves a user, consulting the record cache first
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	cachedUser, err := s.cacheService.GetUser(ctx, userID)
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}

	return user, nil
}

// UpsertUser creates or updates a user record
func (s *UserService) UpsertUser(ctx context.Context, user model.User, updaterID string) (*model.User, error) {
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	userID, err := s.userDAO.UpsertUser(ctx, user)
	if err != nil {
		logger.Error("Error upserting user", zap.Error(err), zap.String("updaterID", updaterID))
		return nil, err
	}

	if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
		logger.Warn("Failed to delete user from record cache", zap.Error(err), zap.String("userID", userID))
	}

	// Role assignment may have changed; the permission cache entry is stale.
	s.eventBus.Publish(ctx, util.EventUserPermissionsUpdated, userID)

	logger.Info("User upserted successfully", zap.String("userID", userID), zap.String("updaterID", updaterID))
	return &user, nil
}

// SetUserPermissions replaces a user's explicit permission grants
func (s *UserService) SetUserPermissions(ctx context.Context, userID string, permissions []string, updaterID string) error {
	for _, p := range permissions {
		if err := s.validationUtil.ValidatePermissionString(p); err != nil {
			return fmt.Errorf("invalid permission: %w", err)
		}
	}

	if err := s.userDAO.SetUserPermissions(ctx, userID, permissions); err != nil {
		logger.Error("Error setting user permissions",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("updaterID", updaterID))
		return err
	}

	if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
		logger.Warn("Failed to delete user from record cache", zap.Error(err), zap.String("userID", userID))
	}

	s.eventBus.Publish(ctx, util.EventUserPermissionsUpdated, userID)

	logger.Info("User permissions updated",
		zap.String("userID", userID),
		zap.Int("count", len(permissions)),
		zap.String("updaterID", updaterID))
	return nil
}
