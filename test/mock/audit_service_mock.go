// test/mock/audit_service_mock.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/techverse/authz/audit"
)

// MockAuditService is a testify mock of audit.Service.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordAttempt(ctx context.Context, attempt audit.AccessAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAuditService) QueryAttempts(ctx context.Context, from, to time.Time, userID string) ([]audit.AccessAttempt, error) {
	args := m.Called(ctx, from, to, userID)
	if attempts, ok := args.Get(0).([]audit.AccessAttempt); ok {
		return attempts, args.Error(1)
	}
	return nil, args.Error(1)
}
