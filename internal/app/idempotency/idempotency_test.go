package idempotency

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu    sync.Mutex
	items map[string]Record
}

func newMapStore() *mapStore {
	return &mapStore{items: make(map[string]Record)}
}

func (s *mapStore) Get(ctx context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *mapStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Key] = rec
	return nil
}

type payload struct {
	Value string `json:"value"`
}

func TestExecute_RunsOncePerKey(t *testing.T) {
	store := newMapStore()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return payload{Value: "first"}, nil
	}

	var out payload
	replayed, err := Execute(context.Background(), store, nil, "key-1", &out, fn)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "first", out.Value)

	out = payload{}
	replayed, err = Execute(context.Background(), store, nil, "key-1", &out, fn)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "first", out.Value)
	assert.Equal(t, 1, calls)
}

func TestExecute_EmptyKeyAlwaysRuns(t *testing.T) {
	store := newMapStore()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return payload{Value: "v"}, nil
	}

	var out payload
	_, err := Execute(context.Background(), store, nil, "", &out, fn)
	require.NoError(t, err)
	_, err = Execute(context.Background(), store, nil, "", &out, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecute_RecordsAndReplaysErrors(t *testing.T) {
	store := newMapStore()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return nil, errors.New("room gone")
	}

	_, err := Execute(context.Background(), store, nil, "key-1", nil, fn)
	require.EqualError(t, err, "room gone")

	replayed, err := Execute(context.Background(), store, nil, "key-1", nil, fn)
	assert.True(t, replayed)
	require.EqualError(t, err, "room gone")
	assert.Equal(t, 1, calls)
}

func TestExecute_NilStoreRuns(t *testing.T) {
	var out payload
	replayed, err := Execute(context.Background(), nil, nil, "key-1", &out, func(ctx context.Context) (any, error) {
		return payload{Value: "direct"}, nil
	})
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "direct", out.Value)
}
