package prompt

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidRequest = errors.New("prompt: invalid request")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, p Prompt) (Prompt, error) {
	if p.BusinessID == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Content) == "" {
		return Prompt{}, ErrInvalidRequest
	}
	if p.Category == "" {
		p.Category = CategoryCustom
	}
	if !p.Category.Valid() {
		return Prompt{}, ErrInvalidRequest
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (Prompt, error) {
	if id == "" {
		return Prompt{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, p Prompt) (Prompt, error) {
	if p.ID == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Content) == "" {
		return Prompt{}, ErrInvalidRequest
	}
	if !p.Category.Valid() {
		return Prompt{}, ErrInvalidRequest
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRequest
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Prompt, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, ErrInvalidRequest
	}
	return s.repo.List(ctx, f)
}

// SeedDefaults creates the default script templates for a new business.
// Existing prompts are left untouched; callers may invoke this repeatedly.
func (s *Service) SeedDefaults(ctx context.Context, businessID string) (int, error) {
	if businessID == "" {
		return 0, ErrInvalidRequest
	}
	created := 0
	for _, tpl := range defaultTemplates() {
		tpl.BusinessID = businessID
		tpl.IsActive = true
		if _, err := s.repo.Create(ctx, tpl); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
