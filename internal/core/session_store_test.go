package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(clock *manualClock, max int) *SessionStore {
	return NewSessionStore(testTaxonomy(), StoreOptions{
		Session:     SessionOptions{Now: clock.Now},
		IdleTimeout: time.Hour,
		MaxSessions: max,
	})
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := newTestStore(&manualClock{t: testTime}, 0)

	sess, err := store.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := store.Get(sess.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != sess {
		t.Error("Get() returned a different session")
	}
}

func TestSessionStore_SessionsAreIsolated(t *testing.T) {
	store := newTestStore(&manualClock{t: testTime}, 0)
	a, _ := store.Create()
	b, _ := store.Create()

	if _, err := a.Select(validSelection()); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if _, err := a.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}
	if _, err := a.Export(context.Background(), FormatCSV); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	bv := b.View()
	if len(bv.Rows) != 0 || bv.Consumed != 0 {
		t.Errorf("session b sees rows %d consumed %d", len(bv.Rows), bv.Consumed)
	}
}

func TestSessionStore_GetUnknown(t *testing.T) {
	store := newTestStore(&manualClock{t: testTime}, 0)

	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"not a uuid", "abc"},
		{"unknown uuid", "6f1c1a52-8f5e-4d0b-9a57-3c3d1f0e2b11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Get(tt.id); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get(%q) error = %v, want ErrSessionNotFound", tt.id, err)
			}
		})
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	clock := &manualClock{t: testTime}
	store := newTestStore(clock, 0)
	sess, _ := store.Create()

	clock.Advance(50 * time.Minute)
	if _, err := store.Get(sess.ID()); err != nil {
		t.Fatalf("Get() before timeout error = %v", err)
	}

	// Get touched the session, so the idle period restarts.
	clock.Advance(50 * time.Minute)
	if n := store.Sweep(); n != 0 {
		t.Fatalf("Sweep() removed %d live sessions", n)
	}

	clock.Advance(61 * time.Minute)
	if _, err := store.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get() after timeout error = %v", err)
	}
	if n := store.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after sweep", store.Len())
	}
}

func TestSessionStore_MaxSessions(t *testing.T) {
	store := newTestStore(&manualClock{t: testTime}, 2)

	first, _ := store.Create()
	if _, err := store.Create(); err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if _, err := store.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("third Create() error = %v, want ErrTooManySessions", err)
	}

	store.Delete(first.ID())
	if _, err := store.Create(); err != nil {
		t.Errorf("Create() after Delete error = %v", err)
	}
}

func TestSessionStore_FullStoreReclaimsExpired(t *testing.T) {
	clock := &manualClock{t: testTime}
	store := newTestStore(clock, 1)

	stale, _ := store.Create()
	clock.Advance(61 * time.Minute)

	// The sweeper has not run, but the expired session must not hold the slot.
	fresh, err := store.Create()
	if err != nil {
		t.Fatalf("Create() with only an expired session stored error = %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
	if _, err := store.Get(stale.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(expired) error = %v", err)
	}
	if _, err := store.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("Create() with a live session stored error = %v, want ErrTooManySessions", err)
	}
	if _, err := store.Get(fresh.ID()); err != nil {
		t.Errorf("Get(fresh) error = %v", err)
	}
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := newTestStore(&manualClock{t: testTime}, 0)

	sess, created, err := store.GetOrCreate("")
	if err != nil || !created {
		t.Fatalf("GetOrCreate(\"\") = created %v, err %v", created, err)
	}

	again, created, err := store.GetOrCreate(sess.ID())
	if err != nil || created || again != sess {
		t.Errorf("GetOrCreate(existing) = created %v, err %v, same %v", created, err, again == sess)
	}

	_, created, err = store.GetOrCreate("stale-cookie")
	if err != nil || !created {
		t.Errorf("GetOrCreate(stale) = created %v, err %v", created, err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestSessionStore_ConcurrentExports(t *testing.T) {
	store := newTestStore(&manualClock{t: testTime}, 0)
	sess, _ := store.Create()
	if _, err := sess.Select(validSelection()); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	// Five 8-word exports fit exactly once the limit is 40.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sess.Export(context.Background(), FormatCSV); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Errorf("succeeded = %d, want 5", succeeded)
	}
	if got := sess.View().Consumed; got != 40 {
		t.Errorf("consumed = %d, want 40", got)
	}
}
