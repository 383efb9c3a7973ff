package kv

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-scoreboard/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	name  string
	err   error
	calls atomic.Int32
}

func (s *flakyStore) Name() string { return s.name }

func (s *flakyStore) Get(context.Context, string) ([]byte, bool, error) {
	s.calls.Add(1)
	return nil, false, s.err
}

func (s *flakyStore) Set(context.Context, string, []byte) error {
	s.calls.Add(1)
	return s.err
}

func (s *flakyStore) Delete(context.Context, string) error {
	s.calls.Add(1)
	return s.err
}

func TestMatchRepository_RoundTripUsesStoredFieldNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	repo := NewMatchRepository(store, "")

	records := []match.Record{
		{ID: 1, Team1: "A", Score1: 2, Team2: "B", Score2: 0, Date: "2025-06-01", Status: match.StatusCompleted},
		{ID: 2, Team1: "C", Score1: 1, Team2: "A", Score2: 1, Date: "2025-06-02", Status: match.StatusCompleted},
	}
	require.NoError(t, repo.Save(ctx, records))

	raw, ok, err := store.Get(ctx, DefaultMatchLogKey)
	require.NoError(t, err)
	require.True(t, ok)

	var generic []map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &generic))
	require.Len(t, generic, 2)
	keys := make([]string, 0, len(generic[0]))
	for k := range generic[0] {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "team1", "score1", "team2", "score2", "date", "status"}, keys)
	assert.Equal(t, "已完成", generic[0]["status"])

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestMatchRepository_EmptyAndMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	repo := NewMatchRepository(store, "custom")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, repo.Save(ctx, nil))
	raw, ok, err := store.Get(ctx, "custom")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "[]", string(raw))

	require.NoError(t, repo.Clear(ctx))
	_, ok, err = store.Get(ctx, "custom")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchRepository_CorruptPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, DefaultMatchLogKey, []byte("{not json")))

	_, err := NewMatchRepository(store, "").Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, match.ErrStorageUnavailable)
}

func TestMatchRepository_BackendFailuresAreTagged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cause := errors.New("connection refused")
	repo := NewMatchRepository(&flakyStore{name: "redis", err: cause}, "")

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, match.ErrStorageUnavailable)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "read 16league_matches on redis")

	require.ErrorIs(t, repo.Save(ctx, nil), match.ErrStorageUnavailable)
	require.ErrorIs(t, repo.Clear(ctx), match.ErrStorageUnavailable)
}

func TestMatchRepository_OpenBreakerIsUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guarded := Guard(&flakyStore{name: "redis", err: errors.New("i/o timeout")}, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}, nil)
	repo := NewMatchRepository(guarded, "")

	_, err := repo.Load(ctx)
	require.Error(t, err)

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.ErrorIs(t, err, match.ErrStorageUnavailable)
}

func TestGuard_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &flakyStore{name: "redis", err: errors.New("connection refused")}
	guarded := Guard(inner, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}, nil)

	require.Error(t, guarded.Set(ctx, "k", []byte("v")))
	require.Error(t, guarded.Set(ctx, "k", []byte("v")))

	err := guarded.Set(ctx, "k", []byte("v"))
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), inner.calls.Load(), "open breaker must not reach the store")
	assert.Equal(t, "redis", guarded.Name())
}

func TestGuard_DisabledReturnsInner(t *testing.T) {
	t.Parallel()

	inner := memory.NewStore()
	got := Guard(inner, resilience.CircuitBreakerConfig{Enabled: false}, nil)
	assert.Same(t, inner, got)
}

func TestMirroredStore_FansOutWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	primary := memory.NewStore()
	mirrorA := memory.NewStore()
	broken := &flakyStore{name: "broken", err: errors.New("down")}

	store, err := NewMirroredStore(primary, []Store{mirrorA, broken}, 2, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "memory+memory+broken", store.Name())
	require.NoError(t, store.Set(ctx, "k", []byte("v")), "mirror failure must not fail the write")

	for _, s := range []Store{primary, mirrorA} {
		got, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "v", string(got))
	}
	assert.Equal(t, int32(1), broken.calls.Load())

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err := mirrorA.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMirroredStore_PrimaryErrorIsReturned(t *testing.T) {
	t.Parallel()

	primary := &flakyStore{name: "primary", err: errors.New("disk full")}
	store, err := NewMirroredStore(primary, []Store{memory.NewStore()}, 0, nil)
	require.NoError(t, err)
	defer store.Close()

	require.ErrorContains(t, store.Set(context.Background(), "k", []byte("v")), "disk full")
}

func TestMirroredStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewMirroredStore(memory.NewStore(), []Store{memory.NewStore(), memory.NewStore()}, 1, nil)
	require.NoError(t, err)
	defer store.Close()

	repo := NewMatchRepository(store, "")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, repo.Save(ctx, []match.Record{{ID: id, Team1: "A", Team2: "B", Score1: 1, Score2: 1}}))
		}(i + 1)
	}
	wg.Wait()

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

type deadlineStore struct {
	flakyStore
	hadDeadline atomic.Bool
}

func (s *deadlineStore) Set(ctx context.Context, _ string, _ []byte) error {
	_, ok := ctx.Deadline()
	s.hadDeadline.Store(ok)
	return nil
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	inner := &deadlineStore{flakyStore: flakyStore{name: "slow"}}
	assert.Same(t, Store(inner), WithTimeout(inner, 0))

	store := WithTimeout(inner, time.Second)
	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))
	assert.True(t, inner.hadDeadline.Load())
	assert.Equal(t, "slow", store.Name())
}

type panickyStore struct{ flakyStore }

func (s *panickyStore) Set(context.Context, string, []byte) error {
	panic("driver bug")
}

func TestMirroredStore_PanicsBecomeErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mirror := memory.NewStore()

	store, err := NewMirroredStore(&panickyStore{flakyStore{name: "panicky"}}, []Store{mirror}, 2, nil)
	require.NoError(t, err)
	defer store.Close()

	err = store.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "panicky set panicked")

	_, ok, err := mirror.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "mirror write must still land")
}
