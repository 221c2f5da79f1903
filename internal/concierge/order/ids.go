package order

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// idSpace is the number of distinct numeric suffixes in the order-ID
// format ("ORD-" followed by an integer in [0, 9999]).
const idSpace = 10000

// IDGenerator issues order IDs in the "ORD-<n>" format while
// guaranteeing that no ID is handed out twice within a process lifetime.
// Candidates are drawn at random and re-rolled on collision; once the
// numeric space is exhausted the issued set is cleared.
//
// IDGenerator is safe for concurrent use.
type IDGenerator struct {
	mu     sync.Mutex
	issued map[int]struct{}
}

// NewIDGenerator returns an empty IDGenerator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{issued: make(map[int]struct{})}
}

// Next returns a fresh order ID.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.issued) >= idSpace {
		g.issued = make(map[int]struct{})
	}

	for {
		n := rand.IntN(idSpace)
		if _, taken := g.issued[n]; taken {
			continue
		}
		g.issued[n] = struct{}{}
		return fmt.Sprintf("ORD-%d", n)
	}
}
