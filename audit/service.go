// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	RecordAttempt(ctx context.Context, attempt AccessAttempt) error
	QueryAttempts(ctx context.Context, from, to time.Time, userID string) ([]AccessAttempt, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordAttempt(ctx context.Context, attempt AccessAttempt) error {
	return s.repo.IndexAttempt(ctx, attempt)
}

func (s *service) QueryAttempts(ctx context.Context, from, to time.Time, userID string) ([]AccessAttempt, error) {
	return s.repo.QueryAttempts(ctx, from, to, userID)
}
