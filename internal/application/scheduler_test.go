package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/koop46/crypto-prices/internal/domain"
)

const testInterval = 300 * time.Second

func newTestScheduler(f *fakeFetcher, st *fakeStore, at time.Time) *Scheduler {
	return NewScheduler(f, st, "6789", testInterval, nil, WithClock(fakeClock{t: at}))
}

func Test_FirstTick_FetchesAndAppends(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f := &fakeFetcher{bundle: testBundle(4.0, 0.001)}
	st := &fakeStore{}
	s := newTestScheduler(f, st, now)

	s.Tick(context.Background(), now)

	snap := s.Snapshot()
	require.NotNil(t, snap.Bundle)
	require.Equal(t, now, snap.LastUpdated)
	require.Equal(t, now.Add(testInterval), snap.NextDue)
	require.NoError(t, snap.LastErr)
	require.Len(t, st.records, 1)
	require.Equal(t, "6789", st.records[0].KeyTail)
}

func Test_Tick_OffCadence_NoFetch(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f := &fakeFetcher{bundle: testBundle(4.0, 0.001)}
	s := newTestScheduler(f, &fakeStore{}, now)

	s.Tick(context.Background(), now)
	s.Tick(context.Background(), now.Add(time.Second))
	s.Tick(context.Background(), now.Add(testInterval-time.Second))
	require.Equal(t, 1, f.callCount())

	s.Tick(context.Background(), now.Add(testInterval))
	require.Equal(t, 2, f.callCount())
}

func Test_Refresh_FailurePreservesBundleAndReschedules(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f := &fakeFetcher{bundle: testBundle(4.0, 0.001)}
	st := &fakeStore{}
	s := newTestScheduler(f, st, now)

	s.Tick(context.Background(), now)
	good := s.Snapshot()

	f.mu.Lock()
	f.err = domain.ErrNetwork
	f.mu.Unlock()

	failAt := now.Add(testInterval)
	s.Tick(context.Background(), failAt)

	snap := s.Snapshot()
	require.Equal(t, good.Bundle, snap.Bundle)
	require.Equal(t, good.LastUpdated, snap.LastUpdated)
	require.Equal(t, failAt.Add(testInterval), snap.NextDue)
	require.ErrorIs(t, snap.LastErr, domain.ErrNetwork)
	require.Len(t, st.records, 1)
}

func Test_Tick_FailedFirstFetch_WaitsForCadence(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f := &fakeFetcher{err: errors.New("boom")}
	s := newTestScheduler(f, &fakeStore{}, now)

	s.Tick(context.Background(), now)
	s.Tick(context.Background(), now.Add(time.Second))
	require.Equal(t, 1, f.callCount())

	snap := s.Snapshot()
	require.Nil(t, snap.Bundle)
	require.True(t, snap.LastUpdated.IsZero())
	require.Equal(t, now.Add(testInterval), snap.NextDue)
}

func Test_Refresh_ManualTriggerIgnoresCadence(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f := &fakeFetcher{bundle: testBundle(4.0, 0.001)}
	st := &fakeStore{}
	s := newTestScheduler(f, st, now)

	s.Tick(context.Background(), now)
	s.Refresh(context.Background(), now.Add(time.Minute))

	require.Equal(t, 2, f.callCount())
	require.Len(t, st.records, 2)
	require.Equal(t, now.Add(time.Minute).Add(testInterval), s.Snapshot().NextDue)
}

func Test_Refresh_AppendFailureKeepsBundle(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f := &fakeFetcher{bundle: testBundle(4.0, 0.001)}
	st := &fakeStore{appendErr: errors.New("disk full")}
	s := newTestScheduler(f, st, now)

	s.Tick(context.Background(), now)

	snap := s.Snapshot()
	require.NotNil(t, snap.Bundle)
	require.Equal(t, now, snap.LastUpdated)
	require.ErrorIs(t, snap.LastErr, domain.ErrStorage)
}

func Test_Snapshot_Countdown(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	snap := Snapshot{NextDue: now.Add(90 * time.Second)}

	require.Equal(t, 90*time.Second, snap.Countdown(now))
	require.Equal(t, time.Duration(0), snap.Countdown(now.Add(2*testInterval)))
}

func Test_ForceRefresh_Coalesces(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(&fakeFetcher{bundle: testBundle(4.0, 0.001)}, &fakeStore{}, time.Now())

	s.ForceRefresh()
	s.ForceRefresh()

	require.Len(t, s.force, 1)
}
