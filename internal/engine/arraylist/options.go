package arraylist

import (
	"fmt"
	"reflect"

	"github.com/katemewow/arraylist/internal/engine/store"
)

// DefaultCapacity is the initial capacity used by New.
const DefaultCapacity = 10

// Option configures a List during creation.
type Option func(*settings)

type settings struct {
	policy store.GrowthPolicy
	equal  any
}

func newSettings(opts []Option) settings {
	s := settings{policy: store.DefaultPolicy()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithGrowthFactor sets the multiplier applied to the capacity on growth.
// Factors <= 1 are ignored.
func WithGrowthFactor(f float64) Option {
	return func(s *settings) {
		if f > 1 {
			s.policy.Factor = f
		}
	}
}

// WithMaxCapacity bounds the capacity of the list.
func WithMaxCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.policy.Max = n
		}
	}
}

// WithPolicy replaces the whole growth policy.
func WithPolicy(p store.GrowthPolicy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithEquality sets the predicate used by IndexOf, Contains, Remove,
// RemoveAll and RetainAll. The element type of fn must match the list's.
func WithEquality[E any](fn func(a, b E) bool) Option {
	return func(s *settings) {
		if fn != nil {
			s.equal = fn
		}
	}
}

// Equal is value equality for comparable element types.
func Equal[E comparable](a, b E) bool {
	return a == b
}

// deepEqual is the default predicate. It treats two nil values as equal and
// never panics on uncomparable dynamic types.
func deepEqual[E any](a, b E) bool {
	return reflect.DeepEqual(a, b)
}

func equalityFor[E any](s settings) func(a, b E) bool {
	if s.equal == nil {
		return deepEqual[E]
	}
	fn, ok := s.equal.(func(a, b E) bool)
	if !ok {
		var zero E
		panic(fmt.Sprintf("arraylist: equality %T does not accept %T elements", s.equal, zero))
	}
	return fn
}
