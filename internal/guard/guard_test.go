package guard

import (
	"context"
	"testing"
)

func TestMemoryGuardCapsPerDestination(t *testing.T) {
	g := NewMemoryGuard(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := g.Acquire(ctx, "+14155551234")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatalf("expected slot %d to be granted", i+1)
		}
	}

	ok, err := g.Acquire(ctx, "+14155551234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected third acquire to be refused")
	}

	// A different destination has its own cap.
	ok, _ = g.Acquire(ctx, "+442071838750")
	if !ok {
		t.Fatal("expected unrelated destination to be granted")
	}
}

func TestMemoryGuardReleaseFreesSlot(t *testing.T) {
	g := NewMemoryGuard(1)
	ctx := context.Background()

	if ok, _ := g.Acquire(ctx, "+14155551234"); !ok {
		t.Fatal("expected first acquire to be granted")
	}
	if ok, _ := g.Acquire(ctx, "+14155551234"); ok {
		t.Fatal("expected second acquire to be refused")
	}

	g.Release(ctx, "+14155551234")

	if ok, _ := g.Acquire(ctx, "+14155551234"); !ok {
		t.Fatal("expected acquire after release to be granted")
	}
}

func TestMemoryGuardReleaseWithoutAcquire(t *testing.T) {
	g := NewMemoryGuard(1)
	ctx := context.Background()

	// Must not underflow the counter.
	g.Release(ctx, "+14155551234")

	if ok, _ := g.Acquire(ctx, "+14155551234"); !ok {
		t.Fatal("expected acquire to be granted")
	}
	if ok, _ := g.Acquire(ctx, "+14155551234"); ok {
		t.Fatal("expected cap of one to hold")
	}
}
