// Package codepkg generates human readable unique codes for ledger records.
package codepkg

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Code prefixes.
const (
	TransferPrefix    = "TRF"
	TransactionPrefix = "TRX"
)

const (
	timeLayout = "20060102150405"
	suffixMax  = 10_000 // suffix is printed with 4 digits
)

// Counter hands out strictly increasing values per prefix, shared by every generator
// of the prefix. sequencerepo.RepoPGS is the Postgres backed Counter.
type Counter interface {
	NextCode(ctx context.Context, prefix string) (int64, error)
}

// Generator produces codes formatted as prefix + UTC timestamp + 4-digit suffix.
//
// The suffix is the counter value modulo 10000. The timestamp is a logical clock: it never
// goes backwards and moves to the next second whenever the counter enters another block of
// 10000 values, so codes of one second always have distinct suffixes.
type Generator struct {
	prefix  string
	counter Counter
	now     func() time.Time

	mu     sync.Mutex
	second int64
	block  int64
}

// New returns Generator for the given prefix drawing suffixes from counter.
func New(prefix string, counter Counter) *Generator {
	return &Generator{
		prefix:  prefix,
		counter: counter,
		now:     time.Now,
	}
}

// NewLocal returns Generator backed by an in-process counter.
func NewLocal(prefix string) *Generator {
	return New(prefix, &LocalCounter{})
}

// Generate returns the next unique code.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	n, err := g.counter.NextCode(ctx, g.prefix)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC().Unix()
	block := n / suffixMax

	switch {
	case now > g.second:
		g.second = now
		g.block = block
	case block != g.block:
		g.second++
		g.block = block
	}

	ts := time.Unix(g.second, 0).UTC().Format(timeLayout)

	return fmt.Sprintf("%s%s%04d", g.prefix, ts, n%suffixMax), nil
}

// LocalCounter is a Counter living in the process memory. The first value is 1.
type LocalCounter struct {
	last atomic.Int64
}

// NextCode returns the next counter value. The prefix is ignored.
func (c *LocalCounter) NextCode(_ context.Context, _ string) (int64, error) {
	return c.last.Add(1), nil
}
