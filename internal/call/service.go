package call

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidRequest = errors.New("call: invalid request")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, c Call) (Call, error) {
	if c.BusinessID == "" {
		return Call{}, ErrInvalidRequest
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (Call, error) {
	if id == "" {
		return Call{}, ErrInvalidRequest
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, c Call) (Call, error) {
	if c.ID == "" {
		return Call{}, ErrInvalidRequest
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Call, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// End marks a call completed from the dashboard and derives its duration
// from wall-clock time. The webhook path uses Finalize instead, with the
// provider-reported duration.
func (s *Service) End(ctx context.Context, id string) (Call, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Call{}, err
	}
	now := time.Now().UTC()
	c.Status = StatusCompleted
	c.EndedAt = &now
	if !c.StartedAt.IsZero() {
		c.DurationSeconds = int(now.Sub(c.StartedAt).Seconds())
	}
	return s.repo.Update(ctx, c)
}

// Stats aggregates a business's call history for the dashboard.
type Stats struct {
	TotalCalls       int `json:"total_calls"`
	CompletedCalls   int `json:"completed_calls"`
	TransferredCalls int `json:"transferred_calls"`
	MissedCalls      int `json:"missed_calls"`
	FailedCalls      int `json:"failed_calls"`

	AverageDurationSeconds float64 `json:"average_duration_seconds"`

	CallsByIntent map[string]int `json:"calls_by_intent"`
}

func (s *Service) Stats(ctx context.Context, businessID string) (Stats, error) {
	if businessID == "" {
		return Stats{}, ErrInvalidRequest
	}

	rows, err := s.repo.List(ctx, ListFilter{BusinessID: businessID, Limit: 10000})
	if err != nil {
		return Stats{}, err
	}

	out := Stats{CallsByIntent: map[string]int{}}
	var durationSum, durationCount int
	for _, c := range rows {
		out.TotalCalls++
		switch c.Status {
		case StatusCompleted:
			out.CompletedCalls++
		case StatusTransferred:
			out.TransferredCalls++
		case StatusMissed:
			out.MissedCalls++
		case StatusFailed:
			out.FailedCalls++
		case StatusInProgress, StatusVoicemail:
			// not counted separately
		}
		if c.DurationSeconds > 0 {
			durationSum += c.DurationSeconds
			durationCount++
		}
		if c.CallerIntent != "" {
			out.CallsByIntent[c.CallerIntent]++
		}
	}
	if durationCount > 0 {
		// one decimal place, matching the dashboard's display contract
		out.AverageDurationSeconds = float64(int(float64(durationSum)/float64(durationCount)*10+0.5)) / 10
	}
	return out, nil
}
