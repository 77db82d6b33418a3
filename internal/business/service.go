package business

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidRequest = errors.New("business: invalid request")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, b Business) (Business, error) {
	if strings.TrimSpace(b.Name) == "" {
		return Business{}, ErrInvalidRequest
	}
	applyDefaults(&b)
	// New businesses are live immediately; deactivation is an update.
	b.IsActive = true
	return s.repo.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id string) (Business, error) {
	if id == "" {
		return Business{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, b Business) (Business, error) {
	if b.ID == "" || strings.TrimSpace(b.Name) == "" {
		return Business{}, ErrInvalidRequest
	}
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRequest
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Business, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func applyDefaults(b *Business) {
	if b.BusinessType == "" {
		b.BusinessType = DefaultBusinessType
	}
	if b.AIVoice == "" {
		b.AIVoice = DefaultAIVoice
	}
	if b.GreetingMessage == "" {
		b.GreetingMessage = DefaultGreeting
	}
}
