package cache

import (
	"context"
	"testing"

	"umrahcrm/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	type entry struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}

	data, err := encode("raw")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	var s string
	require.NoError(t, decode(data, &s))
	assert.Equal(t, "raw", s)

	data, err = encode(entry{ID: "L-1", Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"L-1","count":2}`, string(data))

	var e entry
	require.NoError(t, decode(data, &e))
	assert.Equal(t, entry{ID: "L-1", Count: 2}, e)

	var n int
	require.NoError(t, decode([]byte("7"), &n))
	assert.Equal(t, 7, n)

	assert.Error(t, decode([]byte("{"), &e))
}

func TestNewRedisCache_WithoutClient(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(nil, mocks.NewOtel())

	assert.IsType(t, noopCache{}, c)
	assert.NoError(t, c.Save(ctx, "k", "v", 10))
	assert.ErrorIs(t, c.Get(ctx, "k", new(string)), Nil)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Clear(ctx, "k*"))
}
