// Package entropy supplies the randomness behind event spawns, journalist
// moves, golden claims and trial verdicts. Every consumer takes a Source so
// runs can be replayed from a seed.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
	"sync"
)

// Source is a stream of random numbers.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// Seeded is a reproducible Source backed by math/rand.
type Seeded struct {
	mu   sync.Mutex
	seed int64
	rng  *mrand.Rand
}

// NewSeeded creates a Source that yields the same sequence for the same seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{seed: seed, rng: mrand.New(mrand.NewSource(seed))}
}

// NewSource creates a Seeded source from a crypto/rand seed.
func NewSource() *Seeded {
	return NewSeeded(NewSeed())
}

// Seed returns the seed this source started from.
func (s *Seeded) Seed() int64 { return s.seed }

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed seed.
		slog.Warn("crypto seed unavailable", "error", err)
		return 42
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// Pool serves a fixed sequence of values first, then defers to a fallback
// source. Values in the sequence are used in order for both Float64 and
// Intn, which makes scripted scenarios easy to express.
type Pool struct {
	mu       sync.Mutex
	pool     []float64
	fallback Source
}

// NewPool creates a Pool. A nil fallback yields 0.5 once the pool is empty.
func NewPool(fallback Source, values ...float64) *Pool {
	return &Pool{pool: append([]float64(nil), values...), fallback: fallback}
}

// Push appends values to the pool.
func (p *Pool) Push(values ...float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pool = append(p.pool, values...)
}

// Remaining returns how many scripted values are left.
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pool)
}

func (p *Pool) Float64() float64 {
	p.mu.Lock()
	if len(p.pool) > 0 {
		val := p.pool[0]
		p.pool = p.pool[1:]
		p.mu.Unlock()
		return val
	}
	p.mu.Unlock()

	if p.fallback == nil {
		return 0.5
	}
	return p.fallback.Float64()
}

func (p *Pool) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(p.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
