package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	name    string
	creates int
}

func (f *fakeStore) LoadCollection(_ context.Context, _ string, _ any) error { return nil }

func (f *fakeStore) Create(_ context.Context, _ string, _ any) (string, error) {
	f.creates++
	return f.name + "-id", nil
}

func (f *fakeStore) Update(_ context.Context, _ string, _ string, _ map[string]any) error {
	return nil
}

func (f *fakeStore) Remove(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeStore) GetSingleton(_ context.Context, _, _ string, _ any) (bool, error) {
	return false, nil
}

func (f *fakeStore) SetSingleton(_ context.Context, _, _ string, _ any) error { return nil }

func TestShimUsesLocalWhenNoGate(t *testing.T) {
	local := &fakeStore{name: "local"}
	s := New(nil, local, nil)

	id, err := s.Create(context.Background(), CollectionBookings, map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "local-id" {
		t.Errorf("expected local backend, got id %q", id)
	}
}

func TestShimSelectsRemoteWhenGateResolves(t *testing.T) {
	local := &fakeStore{name: "local"}
	remote := &fakeStore{name: "remote"}

	gate := NewReadyGate()
	gate.Resolve(remote, nil)

	s := New(gate, local, nil)

	id, err := s.Create(context.Background(), CollectionAdmissions, map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "remote-id" {
		t.Errorf("expected remote backend, got id %q", id)
	}
	if local.creates != 0 {
		t.Errorf("local backend must not be touched once remote is selected")
	}
}

func TestShimLatchesUnavailableOnGateError(t *testing.T) {
	gate := NewReadyGate()
	gate.Resolve(nil, errors.New("connect refused"))

	s := New(gate, &fakeStore{name: "local"}, nil)

	if _, err := s.Create(context.Background(), CollectionInvoices, nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	// Selection is final; a second call must not fall back to local.
	if err := s.Remove(context.Background(), CollectionInvoices, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected latched ErrUnavailable, got %v", err)
	}
}

func TestShimBoundedWaitExpires(t *testing.T) {
	gate := NewReadyGate()
	s := New(gate, &fakeStore{name: "local"}, nil, WithReadyWait(10*time.Millisecond))

	if err := s.LoadCollection(context.Background(), CollectionBookings, &[]map[string]any{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after wait expired, got %v", err)
	}

	// Resolving after the wait expired does not rescue the process.
	gate.Resolve(&fakeStore{name: "remote"}, nil)
	if err := s.LoadCollection(context.Background(), CollectionBookings, &[]map[string]any{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected selection to stay latched, got %v", err)
	}
}

func TestShimSelectionIgnoresCallerDeadline(t *testing.T) {
	gate := NewReadyGate()
	remote := &fakeStore{name: "remote"}
	go func() {
		time.Sleep(20 * time.Millisecond)
		gate.Resolve(remote, nil)
	}()

	s := New(gate, &fakeStore{name: "local"}, nil)

	// The first caller shows up with an already-cancelled context. The
	// selection wait runs on its own clock, so the remote store still binds.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	id, err := s.Create(ctx, CollectionAdmissions, map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "remote-id" {
		t.Errorf("expected remote backend despite the dead caller context, got id %q", id)
	}
}

func TestReadyGateResolveOnce(t *testing.T) {
	gate := NewReadyGate()
	first := &fakeStore{name: "first"}
	gate.Resolve(first, nil)
	gate.Resolve(&fakeStore{name: "second"}, errors.New("late"))

	got, err := gate.Await(context.Background())
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if got != first {
		t.Errorf("second Resolve must be ignored")
	}
}

func TestReadyGateAwaitHonorsContext(t *testing.T) {
	gate := NewReadyGate()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := gate.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
