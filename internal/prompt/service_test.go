package prompt

import (
	"context"
	"testing"
)

func TestCreateDefaultsCategory(t *testing.T) {
	s := NewService(NewMemoryRepo())

	p, err := s.Create(context.Background(), Prompt{
		BusinessID: "biz-1",
		Name:       "Parking",
		Content:    "Free parking is available behind the building.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Category != CategoryCustom {
		t.Fatalf("category = %q", p.Category)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	s := NewService(NewMemoryRepo())
	_, err := s.Create(context.Background(), Prompt{
		BusinessID: "biz-1",
		Name:       "Bad",
		Content:    "x",
		Category:   Category("astrology"),
	})
	if err != ErrInvalidRequest {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
}

func TestListActiveOrdersByPriority(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)
	ctx := context.Background()

	mk := func(name string, priority int, active bool) {
		t.Helper()
		if _, err := s.Create(ctx, Prompt{
			BusinessID: "biz-1", Name: name, Content: name,
			Category: CategoryCustom, Priority: priority, IsActive: active,
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	mk("low", 1, true)
	mk("high", 20, true)
	mk("mid-a", 5, true)
	mk("mid-b", 5, true)
	mk("inactive", 50, false)

	got, err := repo.ListActive(ctx, "biz-1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	// Descending priority, ties broken by insertion order, inactive excluded.
	want := []string{"high", "mid-a", "mid-b", "low"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestSeedDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)
	ctx := context.Background()

	n, err := s.SeedDefaults(ctx, "biz-1")
	if err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if n != 6 {
		t.Fatalf("created = %d, want 6", n)
	}

	got, err := repo.ListActive(ctx, "biz-1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("active prompts = %d", len(got))
	}
	if got[0].Name != "Emergency" {
		t.Fatalf("highest priority template = %q, want Emergency", got[0].Name)
	}
	for _, p := range got {
		if p.BusinessID != "biz-1" {
			t.Errorf("%s: business_id = %q", p.Name, p.BusinessID)
		}
		if len(p.TriggerPhrases) == 0 {
			t.Errorf("%s: no trigger phrases", p.Name)
		}
	}
}

func TestDecodeStringListRecoversCorruptRows(t *testing.T) {
	if got := decodeStringList(`["a","b"]`); len(got) != 2 || got[0] != "a" {
		t.Fatalf("valid list = %v", got)
	}
	if got := decodeStringList(""); got == nil || len(got) != 0 {
		t.Fatalf("empty column = %v", got)
	}
	if got := decodeStringList(`{"not":"a list"`); got == nil || len(got) != 0 {
		t.Fatalf("corrupt column = %v", got)
	}
}

func TestEncodeStringList(t *testing.T) {
	if got := encodeStringList(nil); got != "[]" {
		t.Fatalf("nil = %q", got)
	}
	if got := encodeStringList([]string{"a"}); got != `["a"]` {
		t.Fatalf("one = %q", got)
	}
}
