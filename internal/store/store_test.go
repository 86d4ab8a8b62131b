package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	hash := Hash("vector", []byte(`{"targetDepth":2}`), []byte("<svg/>"))
	job, created, err := s.Save(ctx, Job{Kind: "vector", Hash: hash, Params: `{"targetDepth":2}`, Gcode: "M3\nM5"})
	require.NoError(t, err)
	assert.True(t, created)
	_, err = uuid.Parse(job.ID)
	assert.NoError(t, err)

	got, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "vector", got.Kind)
	assert.Equal(t, "M3\nM5", got.Gcode)
	assert.True(t, job.CreatedAt.Equal(got.CreatedAt))
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	hash := Hash("relief", nil, []byte{1, 2, 3})
	first, created, err := s.Save(ctx, Job{Kind: "relief", Hash: hash, Params: "{}", Gcode: "a"})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.Save(ctx, Job{Kind: "relief", Hash: hash, Params: "{}", Gcode: "b"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "a", second.Gcode)

	byHash, err := s.FindByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byHash.ID)
}

func TestGetMissing(t *testing.T) {
	s := openTest(t)
	_, err := s.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHash(t *testing.T) {
	a := Hash("vector", []byte("ab"), []byte("c"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Hash("vector", []byte("ab"), []byte("c")))
	assert.NotEqual(t, a, Hash("vector", []byte("a"), []byte("bc")))
	assert.NotEqual(t, a, Hash("relief", []byte("ab"), []byte("c")))
}
