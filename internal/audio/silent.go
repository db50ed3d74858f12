// Package audio provides a silent stand-in for the synthesis namespace, so
// tracks can be loaded and played on hosts without an audio backend.
package audio

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/aretw0/cartridge/pkg/sandbox"
	"github.com/dop251/goja"
)

//go:embed silent.js
var silentSource string

var silentProgram = goja.MustCompile("silent.js", silentSource, true)

// Silent builds a namespace whose nodes accept every call, chain, and make no sound.
// Calls are logged at debug level on the scope logger.
type Silent struct{}

// Bind implements host.Binder.
func (Silent) Bind(s *sandbox.Scope) (any, error) {
	vm := s.Runtime()
	factory, err := vm.RunProgram(silentProgram)
	if err != nil {
		return nil, fmt.Errorf("silent audio: %w", err)
	}
	build, ok := goja.AssertFunction(factory)
	if !ok {
		return nil, errors.New("silent audio: factory is not a function")
	}

	emit := func(kind, method string) {
		s.Logger().Debug("Audio call", "node", kind, "method", method)
	}
	elapsed := func() float64 {
		return s.Elapsed().Seconds()
	}

	ns, err := build(goja.Undefined(), vm.ToValue(emit), vm.ToValue(elapsed))
	if err != nil {
		return nil, fmt.Errorf("silent audio: %w", err)
	}
	return ns, nil
}
