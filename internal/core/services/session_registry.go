package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

const DefaultSessionIdleTTL = 30 * time.Minute

type session struct {
	ctrl     *DraftController
	lastSeen time.Time
}

// SessionRegistry owns one DraftController per customer session. Every
// operation is written through to the draft store so a session survives a
// restart, and sessions left idle are closed, which deletes their drafts.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	// deleting holds the draft deletion still running for a closed session.
	deleting map[string]<-chan struct{}
	cleanup  sync.WaitGroup

	svc     ports.DraftService
	store   ports.DraftStore
	clock   ports.Clock
	budget  time.Duration
	idleTTL time.Duration
	log     *zap.Logger
}

type RegistryConfig struct {
	CountdownBudget time.Duration
	IdleTTL         time.Duration
}

func NewSessionRegistry(svc ports.DraftService, store ports.DraftStore, clock ports.Clock, cfg RegistryConfig, log *zap.Logger) *SessionRegistry {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultSessionIdleTTL
	}
	return &SessionRegistry{
		sessions: make(map[string]*session),
		deleting: make(map[string]<-chan struct{}),
		svc:      svc,
		store:    store,
		clock:    clock,
		budget:   cfg.CountdownBudget,
		idleTTL:  cfg.IdleTTL,
		log:      log,
	}
}

// Do runs fn against the session's controller and persists the result. The
// error of fn is returned unchanged; persistence failures are only logged.
func (r *SessionRegistry) Do(ctx context.Context, sessionID string, fn func(*DraftController) error) error {
	ctrl, err := r.controller(ctx, sessionID)
	if err != nil {
		return err
	}

	fnErr := fn(ctrl)
	r.persist(ctx, sessionID, ctrl)
	return fnErr
}

func (r *SessionRegistry) controller(ctx context.Context, sessionID string) (*DraftController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = now
		return s.ctrl, nil
	}

	ctrl := NewDraftController(r.svc, r.clock, r.budget, r.log.With(zap.String("session_id", sessionID)))
	if done, ok := r.deleting[sessionID]; ok {
		ctrl.inheritDeletion(done)
	}
	snap, err := r.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		ctrl.Restore(*snap)
		r.log.Debug("session restored", zap.String("session_id", sessionID), zap.String("phase", string(snap.Draft.Phase)))
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	r.sessions[sessionID] = &session{ctrl: ctrl, lastSeen: now}
	return ctrl, nil
}

func (r *SessionRegistry) persist(ctx context.Context, sessionID string, ctrl *DraftController) {
	snap := ctrl.State(sessionID)
	var err error
	if snap.Draft.Phase == domain.PhaseEmpty && snap.Pending == nil {
		err = r.store.Delete(ctx, sessionID)
	} else {
		err = r.store.Save(ctx, snap, r.idleTTL)
	}
	if err != nil {
		r.log.Warn("persist session failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// End closes a session explicitly, deleting any abandoned draft.
func (r *SessionRegistry) End(ctx context.Context, sessionID string) error {
	ctrl, err := r.controller(ctx, sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.sessions, sessionID)
	gate := r.markDeleting(sessionID)
	r.mu.Unlock()

	r.closeController(sessionID, ctrl, gate)
	return r.store.Delete(ctx, sessionID)
}

// markDeleting registers the gate a later controller of the session waits
// on before creating a draft. Callers hold r.mu.
func (r *SessionRegistry) markDeleting(sessionID string) chan struct{} {
	gate := make(chan struct{})
	r.deleting[sessionID] = gate
	return gate
}

func (r *SessionRegistry) closeController(sessionID string, ctrl *DraftController, gate chan struct{}) {
	done := ctrl.Close()

	r.cleanup.Add(1)
	go func() {
		defer r.cleanup.Done()
		if done != nil {
			<-done
		}
		close(gate)

		r.mu.Lock()
		if r.deleting[sessionID] == gate {
			delete(r.deleting, sessionID)
		}
		r.mu.Unlock()
	}()
}

// SweepIdle closes every session not used within the idle TTL and returns
// how many were closed.
func (r *SessionRegistry) SweepIdle(ctx context.Context) int {
	cutoff := r.clock.Now().Add(-r.idleTTL)

	r.mu.Lock()
	var idle []string
	var ctrls []*DraftController
	var gates []chan struct{}
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, id)
			ctrls = append(ctrls, s.ctrl)
			gates = append(gates, r.markDeleting(id))
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for i, id := range idle {
		r.closeController(id, ctrls[i], gates[i])
		if err := r.store.Delete(ctx, id); err != nil {
			r.log.Warn("delete idle session failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	if len(idle) > 0 {
		r.log.Info("idle sessions closed", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// RunIdleSweeper calls SweepIdle every interval until ctx is done.
func (r *SessionRegistry) RunIdleSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.log.Info("session sweeper started", zap.Duration("interval", interval), zap.Duration("idle_ttl", r.idleTTL))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			r.SweepIdle(ctx)
		}
	}
}

// Drain waits for background draft deletions to finish.
func (r *SessionRegistry) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.cleanup.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
