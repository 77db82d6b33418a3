package business

import (
	"context"
	"testing"
)

func TestCreateAppliesDefaults(t *testing.T) {
	s := NewService(NewMemoryRepo())

	b, err := s.Create(context.Background(), Business{Name: "Bright Smile Dental"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID == "" {
		t.Fatalf("missing id")
	}
	if b.BusinessType != DefaultBusinessType {
		t.Errorf("business_type = %q", b.BusinessType)
	}
	if b.AIVoice != DefaultAIVoice {
		t.Errorf("ai_voice = %q", b.AIVoice)
	}
	if b.GreetingMessage != DefaultGreeting {
		t.Errorf("greeting = %q", b.GreetingMessage)
	}
	if !b.IsActive {
		t.Errorf("new business must be active")
	}
}

func TestCreateKeepsExplicitValues(t *testing.T) {
	s := NewService(NewMemoryRepo())

	b, err := s.Create(context.Background(), Business{
		Name:            "Bright Smile Dental",
		BusinessType:    "orthodontics",
		AIVoice:         "nova",
		GreetingMessage: "Hi there!",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.BusinessType != "orthodontics" || b.AIVoice != "nova" || b.GreetingMessage != "Hi there!" {
		t.Fatalf("defaults clobbered explicit values: %+v", b)
	}
}

func TestCreateRequiresName(t *testing.T) {
	s := NewService(NewMemoryRepo())
	if _, err := s.Create(context.Background(), Business{Name: "   "}); err != ErrInvalidRequest {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
}

func TestFindByVoiceNumberSkipsInactive(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)
	ctx := context.Background()

	b, err := s.Create(ctx, Business{Name: "Office", VoiceNumber: "+15550000000"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.FindByVoiceNumber(ctx, "+15550000000"); err != nil {
		t.Fatalf("lookup while active: %v", err)
	}

	b.IsActive = false
	if _, err := s.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.FindByVoiceNumber(ctx, "+15550000000"); err != ErrNotFound {
		t.Fatalf("inactive business resolved: %v", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	s := NewService(NewMemoryRepo())
	ctx := context.Background()

	b, err := s.Create(ctx, Business{Name: "Office"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, b.ID); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
