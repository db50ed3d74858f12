// Package host defines the fixed set of utilities injected into every track scope.
//
// The names and their order are a contract with track authors: adding or
// renaming one breaks every existing track source, so changes bump ContractVersion.
package host

import (
	"math/rand/v2"
	"time"

	"github.com/aretw0/cartridge/pkg/sandbox"
	"github.com/dop251/goja"
)

// ContractVersion identifies the current set of injected names.
const ContractVersion = 1

// Injected dependency names, in parameter order.
const (
	AudioName        = "Tone"
	RandomRangeName  = "randomRange"
	RandomRepeatName = "randomRepeat"
)

// Binder is implemented by audio namespaces that need state per scope.
type Binder interface {
	Bind(s *sandbox.Scope) (any, error)
}

type options struct {
	seed    uint64
	seeded  bool
	minStep time.Duration
}

// Option configures the dependency set.
type Option func(*options)

// WithSeed makes randomRange and randomRepeat deterministic per scope.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithMinInterval sets the shortest delay randomRepeat will schedule (default 10ms).
func WithMinInterval(d time.Duration) Option {
	return func(o *options) {
		o.minStep = d
	}
}

// Dependencies returns the injected set. audio is the synthesis namespace
// exposed as Tone; a Binder is bound once per scope, any other value is shared.
func Dependencies(audio any, opts ...Option) []sandbox.Dependency {
	o := &options{minStep: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(o)
	}

	audioDep := sandbox.Dependency{Name: AudioName, Value: audio}
	if b, ok := audio.(Binder); ok {
		audioDep = sandbox.Dependency{Name: AudioName, Bind: b.Bind}
	}

	return []sandbox.Dependency{
		audioDep,
		{Name: RandomRangeName, Bind: func(s *sandbox.Scope) (any, error) {
			return randomRange(o.newRand()), nil
		}},
		{Name: RandomRepeatName, Bind: func(s *sandbox.Scope) (any, error) {
			return randomRepeat(s, o.newRand(), o.minStep), nil
		}},
	}
}

func (o *options) newRand() *rand.Rand {
	if o.seeded {
		return rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// randomRange(lo, hi) returns a float in [lo, hi).
func randomRange(r *rand.Rand) func(lo, hi float64) float64 {
	return func(lo, hi float64) float64 {
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo + r.Float64()*(hi-lo)
	}
}

// randomRepeat(callback, minSeconds, maxSeconds) calls callback after a random
// delay in [minSeconds, maxSeconds], then again after each call, passing the
// seconds elapsed since the scope started. It returns a function that cancels
// the repetition. A callback that throws ends its repetition.
func randomRepeat(s *sandbox.Scope, r *rand.Rand, minStep time.Duration) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		vm := s.Runtime()
		cb, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("%s: callback is not a function", RandomRepeatName))
		}
		lo := call.Argument(1).ToFloat()
		hi := call.Argument(2).ToFloat()
		if hi < lo {
			lo, hi = hi, lo
		}

		delay := func() time.Duration {
			d := time.Duration((lo + r.Float64()*(hi-lo)) * float64(time.Second))
			return max(d, minStep)
		}

		cancelled := false
		var tick func()
		tick = func() {
			if cancelled {
				return
			}
			if _, err := cb(goja.Undefined(), vm.ToValue(s.Elapsed().Seconds())); err != nil {
				s.Logger().Warn("Scheduled callback failed", "helper", RandomRepeatName, "err", err)
				return
			}
			s.Schedule(delay(), tick)
		}
		s.Schedule(delay(), tick)

		return vm.ToValue(func() {
			cancelled = true
		})
	}
}
