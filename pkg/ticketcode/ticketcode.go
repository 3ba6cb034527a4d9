// Package ticketcode issues the externally visible ticket identifiers.
// A code is three uppercase letters followed by four zero-padded digits,
// for example "KQZ0047".
package ticketcode

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/railtix/railtix/pkg/constants"
)

// Generator produces ticket codes.
type Generator interface {
	// Generate returns a single code matching constants.TicketCodePattern.
	Generate() string
}

// randomGenerator draws codes uniformly at random. Uniqueness is not
// guaranteed; wrap it in a DedupingGenerator when collisions matter.
type randomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a random code generator with its own seeded source.
func NewGenerator() Generator {
	return &randomGenerator{
		rng: rand.New(rand.NewSource(int64(rand.Uint64()))),
	}
}

// NewSeededGenerator creates a generator with a fixed seed. Tests use this for
// reproducible draws.
func NewSeededGenerator(seed uint64) Generator {
	return &randomGenerator{
		rng: rand.New(rand.NewSource(int64(seed))),
	}
}

func (g *randomGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	letters := make([]byte, constants.TicketCodeLetters)
	for i := range letters {
		letters[i] = byte('A' + g.rng.Intn(26))
	}

	max := 1
	for i := 0; i < constants.TicketCodeDigits; i++ {
		max *= 10
	}

	return fmt.Sprintf("%s%0*d", letters, constants.TicketCodeDigits, g.rng.Intn(max))
}

// DedupingGenerator wraps a Generator and guarantees that no code is issued
// twice within the process lifetime. The format contract is unchanged.
type DedupingGenerator struct {
	mu     sync.Mutex
	inner  Generator
	issued map[string]struct{}
}

// NewDedupingGenerator creates a deduplicating wrapper around inner.
func NewDedupingGenerator(inner Generator) *DedupingGenerator {
	return &DedupingGenerator{
		inner:  inner,
		issued: make(map[string]struct{}),
	}
}

// Generate returns a code not previously issued by this wrapper. With the
// 26^3 * 10^4 code space this retries only on genuine collisions.
func (g *DedupingGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		code := g.inner.Generate()
		if _, seen := g.issued[code]; !seen {
			g.issued[code] = struct{}{}
			return code
		}
	}
}

// IssuedCount reports how many distinct codes this wrapper has handed out.
func (g *DedupingGenerator) IssuedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.issued)
}
