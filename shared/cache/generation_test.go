package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneration(t *testing.T) {
	var g Generation

	before := g.Prefix("lead:get")

	assert.Equal(t, "lead:get:v0", before)
	assert.Equal(t, before, g.Prefix("lead:get"))

	g.Bump()

	assert.Equal(t, "lead:get:v1", g.Prefix("lead:get"))
	assert.NotEqual(t, before, g.Prefix("lead:get"))
}
