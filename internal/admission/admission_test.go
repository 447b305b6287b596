package admission

import (
	"context"
	"testing"
)

func TestAcquire_LazyCreation(t *testing.T) {
	store := NewMemoryLockStore(3)
	ctrl := NewController(store)

	decision, err := ctrl.Acquire(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !decision.Granted {
		t.Fatal("Acquire() on a brand-new user should be granted")
	}
	if decision.TokensRemaining != 2 {
		t.Errorf("TokensRemaining = %d, want 2", decision.TokensRemaining)
	}

	available, tokens, ok := store.Snapshot("user-1")
	if !ok {
		t.Fatal("lock row was not created")
	}
	if available {
		t.Error("lock should be held after a grant")
	}
	if tokens != 2 {
		t.Errorf("stored tokens = %d, want 2", tokens)
	}
}

func TestAcquire_DeniedWhileHeld(t *testing.T) {
	store := NewMemoryLockStore(3)
	ctrl := NewController(store)
	ctx := context.Background()

	if d, err := ctrl.Acquire(ctx, "user-1"); err != nil || !d.Granted {
		t.Fatalf("first Acquire() = %+v, %v", d, err)
	}

	decision, err := ctrl.Acquire(ctx, "user-1")
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if decision.Granted {
		t.Error("Acquire() should be denied while lock is held")
	}
}

func TestAcquire_DeniedWithoutTokens(t *testing.T) {
	store := NewMemoryLockStore(1)
	ctrl := NewController(store)
	ctx := context.Background()

	if d, err := ctrl.Acquire(ctx, "user-1"); err != nil || !d.Granted {
		t.Fatalf("first Acquire() = %+v, %v", d, err)
	}
	ctrl.Release(ctx, "user-1")

	decision, err := ctrl.Acquire(ctx, "user-1")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if decision.Granted {
		t.Error("Acquire() with zero tokens should be denied")
	}

	// The denial must not leave the lock closed.
	available, tokens, _ := store.Snapshot("user-1")
	if !available {
		t.Error("compensation should have restored availability")
	}
	if tokens != 0 {
		t.Errorf("tokens = %d, want 0", tokens)
	}
}

func TestAcquire_CompensatesOnDecrementFailure(t *testing.T) {
	store := NewMemoryLockStore(3)
	store.FailDecrement = true
	ctrl := NewController(store)

	decision, err := ctrl.Acquire(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if decision.Granted {
		t.Error("Acquire() should report denial when the decrement fails")
	}

	available, tokens, _ := store.Snapshot("user-1")
	if !available {
		t.Error("lock left closed after failed decrement")
	}
	if tokens != 3 {
		t.Errorf("tokens = %d, want 3 (no token consumed)", tokens)
	}
}

func TestReleaseRestoresAvailabilityOnly(t *testing.T) {
	store := NewMemoryLockStore(3)
	ctrl := NewController(store)
	ctx := context.Background()

	if _, err := ctrl.Acquire(ctx, "user-1"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	ctrl.Release(ctx, "user-1")

	available, tokens, _ := store.Snapshot("user-1")
	if !available {
		t.Error("Release() should reopen the lock")
	}
	if tokens != 2 {
		t.Errorf("Release() changed token count: got %d, want 2", tokens)
	}
}

func TestTokensAreNotReplenished(t *testing.T) {
	// There is no refill policy in this core: once the allotment is spent,
	// every further acquire is denied until an operator restores tokens.
	store := NewMemoryLockStore(2)
	ctrl := NewController(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := ctrl.Acquire(ctx, "user-1")
		if err != nil || !d.Granted {
			t.Fatalf("Acquire() #%d = %+v, %v", i+1, d, err)
		}
		ctrl.Release(ctx, "user-1")
	}

	for i := 0; i < 3; i++ {
		d, err := ctrl.Acquire(ctx, "user-1")
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if d.Granted {
			t.Fatal("Acquire() granted after allotment was spent")
		}
		ctrl.Release(ctx, "user-1")
	}
}

func TestReleaseWithoutAcquireIsUnconditional(t *testing.T) {
	store := NewMemoryLockStore(3)
	ctrl := NewController(store)
	ctx := context.Background()

	if err := store.CreateRequestLock(ctx, "user-1"); err != nil {
		t.Fatalf("CreateRequestLock() error = %v", err)
	}

	// Already available; Release must stay a no-op rather than erroring.
	ctrl.Release(ctx, "user-1")

	available, tokens, _ := store.Snapshot("user-1")
	if !available || tokens != 3 {
		t.Errorf("state after redundant release = (%v, %d), want (true, 3)", available, tokens)
	}
}
