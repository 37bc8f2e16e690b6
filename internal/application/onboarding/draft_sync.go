package onboarding

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/incorp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// SynchronizerConfig holds the write-behind timing policy
type SynchronizerConfig struct {
	// Debounce is the quiet period after the last enqueue before the
	// fast-path write fires
	Debounce time.Duration
	// AutosaveInterval is the slow unconditional net that guarantees
	// at-least-once persistence of any non-empty pending state
	AutosaveInterval time.Duration
	// WriteTimeout bounds each background store write
	WriteTimeout time.Duration
}

// DefaultSynchronizerConfig returns the default timing policy
func DefaultSynchronizerConfig() SynchronizerConfig {
	return SynchronizerConfig{
		Debounce:         700 * time.Millisecond,
		AutosaveInterval: 5 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// DraftSynchronizer keeps the draft store eventually consistent with the
// in-flight edits of each session without flooding it. Writes are
// fire-and-forget with last-write-wins semantics, which is acceptable for
// a non-authoritative draft store. It owns all autosave timing: one
// debounce per session plus one shared autosave ticker, instead of
// overlapping per-field timers.
type DraftSynchronizer struct {
	repo            onboarding.DraftRepository
	logger          *zap.Logger
	cfg             SynchronizerConfig
	businessMetrics *telemetry.BusinessMetrics

	mu      sync.Mutex
	entries map[uuid.UUID]*syncEntry
	stop    chan struct{}
	done    chan struct{}
	started bool
}

type syncEntry struct {
	timer *time.Timer
	// pending is the latest enqueued state, nil once written. A state
	// suppressed by the fingerprint compare stays pending so the slow
	// net can still persist it.
	pending *onboarding.WizardState
	// lastSent is the fingerprint of the last successfully written state
	lastSent     string
	jurisdiction onboarding.Jurisdiction
}

// NewDraftSynchronizer creates a synchronizer with the given policy
func NewDraftSynchronizer(repo onboarding.DraftRepository, logger *zap.Logger, cfg SynchronizerConfig) *DraftSynchronizer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultSynchronizerConfig().Debounce
	}
	if cfg.AutosaveInterval <= 0 {
		cfg.AutosaveInterval = DefaultSynchronizerConfig().AutosaveInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultSynchronizerConfig().WriteTimeout
	}
	return &DraftSynchronizer{
		repo:    repo,
		logger:  logger,
		cfg:     cfg,
		entries: make(map[uuid.UUID]*syncEntry),
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *DraftSynchronizer) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Start launches the autosave net
func (s *DraftSynchronizer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run()
}

// Stop flushes every pending state and halts the background net
func (s *DraftSynchronizer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	close(s.stop)
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.flushAll(ctx)
}

func (s *DraftSynchronizer) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.AutosaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.autosaveTick()
		case <-s.stop:
			return
		}
	}
}

// Enqueue records the latest state for a session and (re)arms its
// debounce timer. Only the last state of a burst is written; the write
// itself is skipped when the normalized payload matches the last
// successful one.
func (s *DraftSynchronizer) Enqueue(onboardingID uuid.UUID, jurisdiction onboarding.Jurisdiction, state *onboarding.WizardState) {
	state.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[onboardingID]
	if !ok {
		entry = &syncEntry{}
		s.entries[onboardingID] = entry
	}
	entry.pending = state
	entry.jurisdiction = jurisdiction

	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.timer = time.AfterFunc(s.cfg.Debounce, func() {
		s.debouncedFlush(onboardingID)
	})
}

// Flush synchronously writes any pending state for the session
func (s *DraftSynchronizer) Flush(ctx context.Context, onboardingID uuid.UUID) error {
	s.mu.Lock()
	entry, ok := s.entries[onboardingID]
	if !ok || entry.pending == nil {
		s.mu.Unlock()
		return nil
	}
	state := entry.pending
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	s.mu.Unlock()

	return s.write(ctx, onboardingID, state, telemetry.SaveOriginFlush)
}

// Detach drops the session's pending state and cancels its debounce
// timer, leaving no dangling write behind
func (s *DraftSynchronizer) Detach(onboardingID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[onboardingID]; ok {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(s.entries, onboardingID)
	}
}

func (s *DraftSynchronizer) debouncedFlush(onboardingID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.entries[onboardingID]
	if !ok || entry.pending == nil {
		s.mu.Unlock()
		return
	}
	state := entry.pending
	fp := stateFingerprint(state)
	if fp == entry.lastSent {
		// No-op edit: skip the fast path, the slow net still covers it
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.write(ctx, onboardingID, state, telemetry.SaveOriginDebounce); err != nil {
		// The next debounce or autosave tick is the de facto retry
		s.logger.Warn("draft autosave failed",
			zap.String("onboarding_id", onboardingID.String()),
			zap.Error(err))
	}
}

func (s *DraftSynchronizer) autosaveTick() {
	s.mu.Lock()
	batch := make(map[uuid.UUID]*onboarding.WizardState)
	for id, entry := range s.entries {
		if entry.pending != nil && !entry.pending.IsEmpty() {
			batch[id] = entry.pending
		}
	}
	s.mu.Unlock()

	for id, state := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		if err := s.write(ctx, id, state, telemetry.SaveOriginSafetyNet); err != nil {
			s.logger.Warn("draft autosave net failed",
				zap.String("onboarding_id", id.String()),
				zap.Error(err))
		}
		cancel()
	}
}

func (s *DraftSynchronizer) flushAll(ctx context.Context) error {
	s.mu.Lock()
	batch := make(map[uuid.UUID]*onboarding.WizardState)
	for id, entry := range s.entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		if entry.pending != nil {
			batch[id] = entry.pending
		}
	}
	s.mu.Unlock()

	var firstErr error
	for id, state := range batch {
		if err := s.write(ctx, id, state, telemetry.SaveOriginFlush); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *DraftSynchronizer) write(ctx context.Context, onboardingID uuid.UUID, state *onboarding.WizardState, origin telemetry.SaveOrigin) error {
	draft, err := s.repo.FindByOnboardingID(ctx, onboardingID)
	if err != nil {
		return err
	}
	draft.ApplyState(state)
	draft.MarkSaved()
	if err := s.repo.Upsert(ctx, draft); err != nil {
		return err
	}

	var jurisdiction onboarding.Jurisdiction
	s.mu.Lock()
	if entry, ok := s.entries[onboardingID]; ok {
		entry.lastSent = stateFingerprint(state)
		if entry.pending == state {
			entry.pending = nil
		}
		jurisdiction = entry.jurisdiction
	}
	s.mu.Unlock()

	if s.businessMetrics != nil {
		s.businessMetrics.RecordDraftSave(ctx, string(jurisdiction), origin)
	}
	return nil
}

// stateFingerprint produces a normalized fingerprint of the state used to
// suppress redundant writes: Unicode-normalized, case-folded, and
// whitespace-insensitive, so refocus-style no-op edits do not hit the
// store.
func stateFingerprint(state *onboarding.WizardState) string {
	raw, err := json.Marshal(state)
	if err != nil {
		return ""
	}
	folded := strings.ToLower(norm.NFKC.String(string(raw)))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
