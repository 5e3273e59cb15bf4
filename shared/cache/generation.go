package cache

import (
	"fmt"
	"sync/atomic"
)

// Generation versions a key prefix. Bumping it before a Clear leaves any fill that read
// the old generation writing to a key no reader builds again.
type Generation struct {
	n atomic.Uint64
}

// Prefix returns prefix tagged with the current generation.
func (g *Generation) Prefix(prefix string) string {
	return fmt.Sprintf("%s:v%d", prefix, g.n.Load())
}

func (g *Generation) Bump() {
	g.n.Add(1)
}
