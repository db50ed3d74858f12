package sandbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/dop251/goja"
)

// ErrUnsettled is returned when the entry function's promise is still pending
// once the runtime has drained its job queue.
var ErrUnsettled = errors.New("entry point promise did not settle")

// Entry implements domain.EntryPoint over a sandboxed function.
type Entry struct {
	scope *Scope
	fn    goja.Callable
}

var _ domain.EntryPoint = (*Entry)(nil)

// File returns the source file the entry was evaluated from.
func (e *Entry) File() string {
	return e.scope.file
}

// Play calls the entry function and resolves the promise it returns.
// Non-promise results are returned as they are.
func (e *Entry) Play(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.scope.mu.Lock()
	defer e.scope.mu.Unlock()

	if e.scope.isStopped() {
		return nil, ErrStopped
	}

	release := interruptOnDone(ctx, e.scope.vm)
	defer release()

	ret, err := e.fn(goja.Undefined())
	if err != nil {
		return nil, &domain.ExecutionError{File: e.scope.file, Err: unwrapInterrupt(err)}
	}
	return e.settle(ret)
}

// Stop cancels callbacks the track scheduled. The entry cannot be played afterwards.
func (e *Entry) Stop() {
	e.scope.Stop()
}

func (e *Entry) settle(v goja.Value) (any, error) {
	p, ok := v.Export().(*goja.Promise)
	if !ok {
		return v.Export(), nil
	}
	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result().Export(), nil
	case goja.PromiseStateRejected:
		return nil, &domain.ExecutionError{File: e.scope.file, Err: rejection(p.Result())}
	default:
		return nil, &domain.ExecutionError{File: e.scope.file, Err: ErrUnsettled}
	}
}

// rejection turns a rejected promise's reason into an error.
func rejection(reason goja.Value) error {
	if obj, ok := reason.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return fmt.Errorf("promise rejected: %s", msg.String())
		}
	}
	return fmt.Errorf("promise rejected: %s", reason.String())
}
