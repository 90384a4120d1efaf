package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultReadyWait bounds how long the first operation waits for the remote
// store to come up before the process latches ErrUnavailable. It mirrors the
// panels' startup grace of a handful of one-second probes.
const DefaultReadyWait = 5 * time.Second

// Shim routes every CRUD call to the backend selected for this process. When
// no remote gate is supplied the local fallback serves everything; otherwise
// the first call awaits the gate and the outcome, success or failure, is
// final for the process lifetime.
type Shim struct {
	gate      *ReadyGate
	local     Store
	readyWait time.Duration
	logger    *zap.Logger

	selectOnce sync.Once
	active     Store
	selectErr  error
}

// Option configures a Shim.
type Option func(*Shim)

// WithReadyWait overrides the bounded startup wait.
func WithReadyWait(d time.Duration) Option {
	return func(s *Shim) { s.readyWait = d }
}

// New builds the shim. gate may be nil, meaning the remote store was never
// configured and local is authoritative from the start.
func New(gate *ReadyGate, local Store, logger *zap.Logger, opts ...Option) *Shim {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shim{
		gate:      gate,
		local:     local,
		readyWait: DefaultReadyWait,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// backend resolves the active store on first use. The selection is never
// retried: a remote store that failed to initialize keeps failing fast
// instead of silently flipping to local mid-session. The bounded wait is
// anchored to the background context, not the first caller's, so a caller
// arriving with a short or expired deadline cannot latch the selection.
func (s *Shim) backend() (Store, error) {
	s.selectOnce.Do(func() {
		if s.gate == nil {
			s.active = s.local
			s.logger.Info("remote store not configured, using local fallback")
			return
		}

		waitCtx, cancel := context.WithTimeout(context.Background(), s.readyWait)
		defer cancel()

		remote, err := s.gate.Await(waitCtx)
		if err != nil {
			s.selectErr = ErrUnavailable
			s.logger.Error("remote store never became ready", zap.Error(err))
			return
		}

		s.active = remote
		s.logger.Info("remote store selected")
	})

	if s.selectErr != nil {
		return nil, s.selectErr
	}
	return s.active, nil
}

func (s *Shim) LoadCollection(ctx context.Context, collection string, out any) error {
	b, err := s.backend()
	if err != nil {
		return err
	}
	return b.LoadCollection(ctx, collection, out)
}

func (s *Shim) Create(ctx context.Context, collection string, doc any) (string, error) {
	b, err := s.backend()
	if err != nil {
		return "", err
	}
	return b.Create(ctx, collection, doc)
}

func (s *Shim) Update(ctx context.Context, collection string, id string, patch map[string]any) error {
	b, err := s.backend()
	if err != nil {
		return err
	}
	return b.Update(ctx, collection, id, patch)
}

func (s *Shim) Remove(ctx context.Context, collection string, id string) error {
	b, err := s.backend()
	if err != nil {
		return err
	}
	return b.Remove(ctx, collection, id)
}

func (s *Shim) GetSingleton(ctx context.Context, collection, id string, out any) (bool, error) {
	b, err := s.backend()
	if err != nil {
		return false, err
	}
	return b.GetSingleton(ctx, collection, id, out)
}

func (s *Shim) SetSingleton(ctx context.Context, collection, id string, doc any) error {
	b, err := s.backend()
	if err != nil {
		return err
	}
	return b.SetSingleton(ctx, collection, id, doc)
}
