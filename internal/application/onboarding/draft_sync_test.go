package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/incorp/backend/internal/domain/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSynchronizer(repo *memDraftRepository, debounce, autosave time.Duration) *DraftSynchronizer {
	return NewDraftSynchronizer(repo, zap.NewNop(), SynchronizerConfig{
		Debounce:         debounce,
		AutosaveInterval: autosave,
		WriteTimeout:     time.Second,
	})
}

func seedDraft(t *testing.T, repo *memDraftRepository) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.Upsert(context.Background(), onboarding.NewDraft(id)))
	return id
}

func stateWithName(name string) *onboarding.WizardState {
	state := onboarding.NewWizardState()
	state.CompanyNames.FirstPreference = name
	return state
}

func TestDraftSynchronizer_CoalescesBurstIntoOneWrite(t *testing.T) {
	repo := newMemDraftRepository()
	id := seedDraft(t, repo)
	baseline := repo.upsertCount()

	sync := newTestSynchronizer(repo, 40*time.Millisecond, time.Hour)

	// a typing burst: only the last state should be written
	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("A"))
	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Ac"))
	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acm"))
	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acme"))

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, baseline+1, repo.upsertCount())
	draft, err := repo.FindByOnboardingID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", draft.State.CompanyNames.FirstPreference)
}

func TestDraftSynchronizer_SuppressesNoOpEdits(t *testing.T) {
	repo := newMemDraftRepository()
	id := seedDraft(t, repo)

	sync := newTestSynchronizer(repo, 30*time.Millisecond, time.Hour)

	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acme"))
	time.Sleep(100 * time.Millisecond)
	written := repo.upsertCount()

	// same value modulo case and whitespace: no further write
	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("  ACME "))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, written, repo.upsertCount())
}

func TestDraftSynchronizer_AutosaveNetPersistsSuppressedState(t *testing.T) {
	repo := newMemDraftRepository()
	id := seedDraft(t, repo)

	sync := newTestSynchronizer(repo, 20*time.Millisecond, 60*time.Millisecond)
	sync.Start()
	defer func() { _ = sync.Stop(context.Background()) }()

	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acme"))
	time.Sleep(80 * time.Millisecond)
	written := repo.upsertCount()

	// the fast path suppresses this, but it stays pending so the slow
	// net writes it anyway
	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("ACME"))
	time.Sleep(150 * time.Millisecond)

	assert.Greater(t, repo.upsertCount(), written)
}

func TestDraftSynchronizer_DetachCancelsPendingWrite(t *testing.T) {
	repo := newMemDraftRepository()
	id := seedDraft(t, repo)
	baseline := repo.upsertCount()

	sync := newTestSynchronizer(repo, 40*time.Millisecond, time.Hour)

	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acme"))
	sync.Detach(id)

	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, baseline, repo.upsertCount())
}

func TestDraftSynchronizer_FlushWritesSynchronously(t *testing.T) {
	repo := newMemDraftRepository()
	id := seedDraft(t, repo)

	sync := newTestSynchronizer(repo, time.Hour, time.Hour)

	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acme"))
	require.NoError(t, sync.Flush(context.Background(), id))

	draft, err := repo.FindByOnboardingID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", draft.State.CompanyNames.FirstPreference)
	assert.Equal(t, int64(1), draft.Revision)

	// nothing pending: flush is a no-op
	count := repo.upsertCount()
	require.NoError(t, sync.Flush(context.Background(), id))
	assert.Equal(t, count, repo.upsertCount())
}

func TestDraftSynchronizer_StopFlushesPendingState(t *testing.T) {
	repo := newMemDraftRepository()
	id := seedDraft(t, repo)

	sync := newTestSynchronizer(repo, time.Hour, time.Hour)
	sync.Start()

	sync.Enqueue(id, onboarding.JurisdictionBVI, stateWithName("Acme"))
	require.NoError(t, sync.Stop(context.Background()))

	draft, err := repo.FindByOnboardingID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", draft.State.CompanyNames.FirstPreference)
}

func TestStateFingerprint(t *testing.T) {
	t.Run("insensitive to case and whitespace", func(t *testing.T) {
		assert.Equal(t,
			stateFingerprint(stateWithName("Acme Trading")),
			stateFingerprint(stateWithName("  acme TRADING ")))
	})

	t.Run("distinguishes real changes", func(t *testing.T) {
		assert.NotEqual(t,
			stateFingerprint(stateWithName("Acme")),
			stateFingerprint(stateWithName("Acme Ltd")))
	})
}
