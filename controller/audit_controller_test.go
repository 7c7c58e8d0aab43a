// controller/audit_controller_test.go
package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	"github.com/techverse/authz/audit"
	service_mock "github.com/techverse/authz/test/mock"
)

func setupAuditRouter(svc *service_mock.MockAuditService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuditController(svc).RegisterRoutes(&r.RouterGroup)
	return r
}

func TestQueryAttempts(t *testing.T) {
	svc := new(service_mock.MockAuditService)
	svc.On("QueryAttempts", tmock.Anything, tmock.Anything, tmock.Anything, "u1").
		Return([]audit.AccessAttempt{
			{UserID: "u1", Permission: "posts.delete", Granted: false},
		}, nil)
	r := setupAuditRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit/attempts?user_id=u1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), `"posts.delete"`)
}

func TestQueryAttemptsExplicitWindow(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	svc := new(service_mock.MockAuditService)
	svc.On("QueryAttempts", tmock.Anything, from, to, "").
		Return([]audit.AccessAttempt{}, nil)
	r := setupAuditRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet,
		"/audit/attempts?from=2026-08-01T00:00:00Z&to=2026-08-02T00:00:00Z", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestQueryAttemptsBadTimestamp(t *testing.T) {
	svc := new(service_mock.MockAuditService)
	r := setupAuditRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit/attempts?from=yesterday", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "QueryAttempts", tmock.Anything, tmock.Anything, tmock.Anything, tmock.Anything)
}
