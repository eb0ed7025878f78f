package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCachedSearcher_Hit(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(found(acme()))
	require.NoError(t, err)

	next := new(mockSearcher)
	cache := new(mockCache)
	cache.On("GetCachedSearch", mock.Anything, "acme corp", time.Hour).Return(payload, true, nil)

	resp, err := NewCachedSearcher(next, cache, time.Hour).Search(context.Background(), "  ACME Corp ")
	require.NoError(t, err)
	assert.Equal(t, "552100554", resp.First().Siren)
	next.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestCachedSearcher_MissStoresResponse(t *testing.T) {
	t.Parallel()

	next := new(mockSearcher)
	next.On("Search", mock.Anything, "Acme").Return(empty(), nil).Once()
	cache := new(mockCache)
	cache.On("GetCachedSearch", mock.Anything, "acme", time.Hour).Return(nil, false, nil)
	cache.On("SetCachedSearch", mock.Anything, "acme", mock.AnythingOfType("[]uint8")).Return(nil).Once()

	resp, err := NewCachedSearcher(next, cache, time.Hour).Search(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Nil(t, resp.First())
	cache.AssertExpectations(t)
}

func TestCachedSearcher_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	next := new(mockSearcher)
	next.On("Search", mock.Anything, "Acme").Return(nil, errors.New("503")).Once()
	cache := new(mockCache)
	cache.On("GetCachedSearch", mock.Anything, "acme", time.Hour).Return(nil, false, nil)

	_, err := NewCachedSearcher(next, cache, time.Hour).Search(context.Background(), "Acme")
	require.Error(t, err)
	cache.AssertNotCalled(t, "SetCachedSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedSearcher_CacheFailuresBypassed(t *testing.T) {
	t.Parallel()

	next := new(mockSearcher)
	next.On("Search", mock.Anything, "Acme").Return(found(acme()), nil).Once()
	cache := new(mockCache)
	cache.On("GetCachedSearch", mock.Anything, "acme", time.Hour).Return(nil, false, errors.New("disk full"))
	cache.On("SetCachedSearch", mock.Anything, "acme", mock.Anything).Return(errors.New("disk full"))

	resp, err := NewCachedSearcher(next, cache, time.Hour).Search(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "552100554", resp.First().Siren)
}

func TestCachedSearcher_CorruptEntryRefetched(t *testing.T) {
	t.Parallel()

	next := new(mockSearcher)
	next.On("Search", mock.Anything, "Acme").Return(found(acme()), nil).Once()
	cache := new(mockCache)
	cache.On("GetCachedSearch", mock.Anything, "acme", time.Hour).Return([]byte("{oops"), true, nil)
	cache.On("SetCachedSearch", mock.Anything, "acme", mock.Anything).Return(nil)

	resp, err := NewCachedSearcher(next, cache, time.Hour).Search(context.Background(), "Acme")
	require.NoError(t, err)
	assert.NotNil(t, resp.First())
	next.AssertExpectations(t)
}
