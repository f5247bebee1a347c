package session

import (
	"context"
	"testing"

	"github.com/starford/fms/internal/substrate"
)

func TestSaveAndToken(t *testing.T) {
	ctx := context.Background()
	s := NewStore(substrate.NewMemory())

	if _, ok := s.Token(ctx); ok {
		t.Fatal("expected no token initially")
	}
	if err := s.Save(ctx, "  abc.def  "); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	tok, ok := s.Token(ctx)
	if !ok || tok != "abc.def" {
		t.Errorf("Token = %q,%v want abc.def,true", tok, ok)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	s := NewStore(substrate.NewMemory())
	if err := s.Save(context.Background(), "   "); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(substrate.NewMemory())
	_ = s.Save(ctx, "tok")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := s.Token(ctx); ok {
		t.Error("expected no token after Clear")
	}
}

func TestUnavailableSubstrate(t *testing.T) {
	ctx := context.Background()
	s := NewStore(substrate.Unavailable())
	if _, ok := s.Token(ctx); ok {
		t.Error("unavailable substrate should yield no token")
	}
	if err := s.Clear(ctx); err != nil {
		t.Errorf("Clear on unavailable substrate = %v, want nil", err)
	}
	if err := s.Save(ctx, "tok"); err == nil {
		t.Error("Save on unavailable substrate should report the failure")
	}
}
