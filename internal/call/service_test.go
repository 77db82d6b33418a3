package call

import (
	"context"
	"testing"
	"time"
)

func TestMapProviderStatus(t *testing.T) {
	cases := map[string]Status{
		"completed": StatusCompleted,
		"busy":      StatusMissed,
		"no-answer": StatusMissed,
		"canceled":  StatusMissed,
		"failed":    StatusFailed,
		"ringing":   StatusCompleted,
		"":          StatusCompleted,
	}
	for in, want := range cases {
		if got := MapProviderStatus(in); got != want {
			t.Errorf("MapProviderStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEndDerivesDuration(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)
	ctx := context.Background()

	c, err := s.Create(ctx, Call{
		BusinessID: "biz-1",
		StartedAt:  time.Now().UTC().Add(-90 * time.Second),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ended, err := s.End(ctx, c.ID)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if ended.Status != StatusCompleted {
		t.Fatalf("status = %q", ended.Status)
	}
	if ended.EndedAt == nil {
		t.Fatalf("ended_at not set")
	}
	if ended.DurationSeconds < 89 || ended.DurationSeconds > 92 {
		t.Fatalf("duration = %d, want ~90", ended.DurationSeconds)
	}
}

func TestFinalizeWritesTerminalFields(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	c, err := repo.Create(ctx, Call{BusinessID: "biz-1", ProviderCallID: "CA1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ended := time.Now().UTC()
	err = repo.Finalize(ctx, c.ID, FinalizeInput{
		Status:          StatusCompleted,
		DurationSeconds: 30,
		Transcript:      "Caller: hi\nAI: hello",
		CallSummary:     "Short greeting call.",
		Sentiment:       "positive",
		EndedAt:         ended,
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	got, _ := repo.Get(ctx, c.ID)
	if got.Status != StatusCompleted || got.DurationSeconds != 30 {
		t.Fatalf("record = %+v", got)
	}
	if got.Transcript != "Caller: hi\nAI: hello" || got.Sentiment != "positive" {
		t.Fatalf("record = %+v", got)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(ended) {
		t.Fatalf("ended_at = %v", got.EndedAt)
	}
}

func TestFinalizeKeepsFirstWrite(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	c, err := repo.Create(ctx, Call{BusinessID: "biz-1", ProviderCallID: "CA1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := time.Now().UTC()
	if err := repo.Finalize(ctx, c.ID, FinalizeInput{Status: StatusCompleted, DurationSeconds: 30, EndedAt: first}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// The provider may deliver the terminal status twice.
	err = repo.Finalize(ctx, c.ID, FinalizeInput{Status: StatusFailed, DurationSeconds: 99, EndedAt: first.Add(time.Minute)})
	if err != nil {
		t.Fatalf("repeat Finalize: %v", err)
	}

	got, _ := repo.Get(ctx, c.ID)
	if got.Status != StatusCompleted || got.DurationSeconds != 30 {
		t.Fatalf("first write clobbered: %+v", got)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(first) {
		t.Fatalf("ended_at = %v, want %v", got.EndedAt, first)
	}
}

func TestSaveActionMergesCollectedInfo(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	c, err := repo.Create(ctx, Call{
		BusinessID:     "biz-1",
		ProviderCallID: "CA1",
		CollectedInfo:  map[string]any{"patient_name": "Ana", "phone_number": "+1555"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = repo.SaveAction(ctx, c.ID,
		map[string]any{"preferred_date": "Friday", "phone_number": "+1777"},
		ActionAppointmentScheduled,
		map[string]any{"preferred_date": "Friday"},
	)
	if err != nil {
		t.Fatalf("SaveAction: %v", err)
	}

	got, _ := repo.Get(ctx, c.ID)
	if got.CollectedInfo["patient_name"] != "Ana" {
		t.Fatalf("earlier field lost: %+v", got.CollectedInfo)
	}
	if got.CollectedInfo["preferred_date"] != "Friday" || got.CollectedInfo["phone_number"] != "+1777" {
		t.Fatalf("new fields not applied: %+v", got.CollectedInfo)
	}
	if got.ActionTaken != ActionAppointmentScheduled {
		t.Fatalf("action_taken = %q", got.ActionTaken)
	}
}

func TestSaveActionUnknownCall(t *testing.T) {
	repo := NewMemoryRepo()
	err := repo.SaveAction(context.Background(), "nope", nil, ActionAppointmentScheduled, nil)
	if err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)
	ctx := context.Background()

	seed := []Call{
		{BusinessID: "biz-1", Status: StatusCompleted, DurationSeconds: 60, CallerIntent: "scheduling"},
		{BusinessID: "biz-1", Status: StatusCompleted, DurationSeconds: 31, CallerIntent: "scheduling"},
		{BusinessID: "biz-1", Status: StatusTransferred, DurationSeconds: 0, CallerIntent: "billing"},
		{BusinessID: "biz-1", Status: StatusMissed},
		{BusinessID: "biz-1", Status: StatusFailed},
		{BusinessID: "biz-2", Status: StatusCompleted, DurationSeconds: 500},
	}
	for i, c := range seed {
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	got, err := s.Stats(ctx, "biz-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.TotalCalls != 5 {
		t.Errorf("total = %d", got.TotalCalls)
	}
	if got.CompletedCalls != 2 || got.TransferredCalls != 1 || got.MissedCalls != 1 || got.FailedCalls != 1 {
		t.Errorf("breakdown = %+v", got)
	}
	if got.AverageDurationSeconds != 45.5 {
		t.Errorf("avg duration = %v, want 45.5", got.AverageDurationSeconds)
	}
	if got.CallsByIntent["scheduling"] != 2 || got.CallsByIntent["billing"] != 1 {
		t.Errorf("intents = %v", got.CallsByIntent)
	}
}

func TestStatsEmptyBusiness(t *testing.T) {
	s := NewService(NewMemoryRepo())
	got, err := s.Stats(context.Background(), "biz-none")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.TotalCalls != 0 || got.AverageDurationSeconds != 0 {
		t.Fatalf("stats = %+v", got)
	}
}
