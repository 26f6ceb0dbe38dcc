package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "fleetreport.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	started := time.Now().UTC().Add(-time.Minute).Truncate(time.Second)
	id, err := s.Insert(ctx, &RunRecord{
		RunID:       "run-1",
		StartedAt:   started,
		FinishedAt:  started.Add(30 * time.Second),
		Endpoints:   3,
		Failed:      1,
		Hosts:       12,
		Nics:        48,
		DatasetJSON: `{"hosts":[],"nics":[]}`,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, 3, rec.Endpoints)
	assert.Equal(t, 1, rec.Failed)
	assert.Equal(t, 12, rec.Hosts)
	assert.Equal(t, 48, rec.Nics)
	assert.Equal(t, started, rec.StartedAt)
	assert.Equal(t, `{"hosts":[],"nics":[]}`, rec.DatasetJSON)
}

func TestListNewestFirstWithoutPayload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := s.Insert(ctx, &RunRecord{
			RunID:       "run",
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
			FinishedAt:  base.Add(time.Duration(i)*time.Minute + 10*time.Second),
			DatasetJSON: `{}`,
		})
		require.NoError(t, err)
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.Empty(t, runs[0].DatasetJSON)
}

func TestPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-72 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)
	for _, ts := range []time.Time{old, recent} {
		_, err := s.Insert(ctx, &RunRecord{RunID: "run", StartedAt: ts, FinishedAt: ts, DatasetJSON: `{}`})
		require.NoError(t, err)
	}

	n, err := s.Purge(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.WithinDuration(t, recent, runs[0].StartedAt, time.Second)
}
