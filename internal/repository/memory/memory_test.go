package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/repository/memory"
)

func TestStore_CopiesValues(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	in := []byte("abc")
	if err := s.Set(ctx, "k", in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	in[0] = 'z'

	out, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(out) != "abc" {
		t.Fatalf("stored value aliased caller slice: %s", out)
	}
	out[1] = 'z'

	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased stored slice: %s", again)
	}
}

func TestStore_DeleteAndKeys(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	_ = s.Set(ctx, "b", []byte("1"))
	_ = s.Save(ctx, "a", []byte("2"))

	if got := s.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected keys %v", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
