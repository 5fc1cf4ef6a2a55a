// Package report simulates how a list's capacity evolves under a growth
// policy and renders the result as a chart, a table or JSON.
package report

import (
	"errors"
	"fmt"

	"github.com/katemewow/arraylist/internal/engine/arraylist"
	"github.com/katemewow/arraylist/internal/engine/store"
)

// ErrInvalidCount indicates a negative append count.
var ErrInvalidCount = errors.New("invalid append count")

// Step is one reallocation.
type Step struct {
	// Size is the element count that required the reallocation.
	Size   int
	OldCap int
	NewCap int
}

// Growth is the outcome of a simulation.
type Growth struct {
	Initial   int
	Requested int
	Policy    store.GrowthPolicy

	// Appended is the number of appends that succeeded. It is less than
	// Requested only when the policy's maximum was reached.
	Appended  int
	Exhausted bool
	FinalCap  int
	Steps     []Step
}

// Reallocations returns the number of steps.
func (g *Growth) Reallocations() int {
	return len(g.Steps)
}

// Copied returns the total number of elements moved by reallocations.
func (g *Growth) Copied() int {
	n := 0
	for _, s := range g.Steps {
		n += s.Size - 1
	}
	return n
}

// Slack returns the unused slots after the last append.
func (g *Growth) Slack() int {
	return g.FinalCap - g.Appended
}

// Capacities returns the capacity before the first append followed by the
// capacity after each reallocation.
func (g *Growth) Capacities() []float64 {
	out := make([]float64, 0, len(g.Steps)+1)
	out = append(out, float64(g.Initial))
	for _, s := range g.Steps {
		out = append(out, float64(s.NewCap))
	}
	return out
}

// Simulate appends n elements one by one to a list created with the given
// initial capacity and policy, recording every reallocation.
func Simulate(initial, n int, policy store.GrowthPolicy) (*Growth, error) {
	if n < 0 {
		return nil, fmt.Errorf("%d: %w", n, ErrInvalidCount)
	}
	l, err := arraylist.NewWithCapacity[struct{}](initial, arraylist.WithPolicy(policy))
	if err != nil {
		return nil, err
	}

	g := &Growth{
		Initial:   initial,
		Requested: n,
		Policy:    policy.Resolved(),
	}
	for i := 0; i < n; i++ {
		before := l.Cap()
		if err := l.Add(struct{}{}); err != nil {
			if errors.Is(err, arraylist.ErrCapacityExhausted) {
				g.Exhausted = true
				break
			}
			return nil, err
		}
		if after := l.Cap(); after != before {
			g.Steps = append(g.Steps, Step{Size: l.Len(), OldCap: before, NewCap: after})
		}
		g.Appended++
	}
	g.FinalCap = l.Cap()
	return g, nil
}
