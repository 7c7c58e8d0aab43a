// test/mock/permission_service_mock.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/techverse/authz/audit"
	"github.com/techverse/authz/authz"
)

// MockPermissionService is a testify mock of service.IPermissionService.
type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) ResolvePermissions(ctx context.Context, userID string) []authz.Permission {
	args := m.Called(ctx, userID)
	if perms, ok := args.Get(0).([]authz.Permission); ok {
		return perms
	}
	return nil
}

func (m *MockPermissionService) HasPermission(ctx context.Context, userID string, permission string) bool {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0)
}

func (m *MockPermissionService) HasAllPermissions(ctx context.Context, userID string, permissions []string) bool {
	args := m.Called(ctx, userID, permissions)
	return args.Bool(0)
}

func (m *MockPermissionService) HasAnyPermission(ctx context.Context, userID string, permissions []string) bool {
	args := m.Called(ctx, userID, permissions)
	return args.Bool(0)
}

func (m *MockPermissionService) GetPermissionsGrouped(ctx context.Context, userID string) map[string][]string {
	args := m.Called(ctx, userID)
	if grouped, ok := args.Get(0).(map[string][]string); ok {
		return grouped
	}
	return nil
}

func (m *MockPermissionService) InvalidateUserCache(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *MockPermissionService) InvalidateAllCaches(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *MockPermissionService) GetCacheStats() authz.CacheStats {
	args := m.Called()
	return args.Get(0).(authz.CacheStats)
}

func (m *MockPermissionService) RecordDenied(ctx context.Context, attempt audit.AccessAttempt) {
	m.Called(ctx, attempt)
}
