// Package sandbox evaluates cleaned track sources inside an isolated JavaScript scope.
//
// Every evaluation gets a fresh goja runtime. The source is wrapped in a
// function whose parameters are exactly the injected dependency names, so the
// track can reach host utilities only through those bindings. Nothing is cached
// between calls.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/cartridge/pkg/cleaner"
	"github.com/aretw0/cartridge/pkg/domain"
	"github.com/dop251/goja"
)

// DefaultEvalTimeout bounds the top-level evaluation of a track source.
var DefaultEvalTimeout = 5 * time.Second

var identifier = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Dependency is a host value exposed to track code under Name.
type Dependency struct {
	Name string
	// Value is converted with the runtime's ToValue when Bind is nil.
	Value any
	// Bind builds a value tied to one evaluation scope, e.g. a scheduler.
	// A Bind error fails the evaluation.
	Bind func(s *Scope) (any, error)
}

// Executor evaluates cleaned sources and extracts their entry function.
type Executor struct {
	deps        []Dependency
	entryName   string
	evalTimeout time.Duration
	logger      *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithDependencies sets the injected dependencies, in parameter order.
func WithDependencies(deps ...Dependency) Option {
	return func(e *Executor) {
		e.deps = append([]Dependency(nil), deps...)
	}
}

// WithEvalTimeout bounds top-level evaluation. Zero disables the bound.
func WithEvalTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.evalTimeout = d
	}
}

// WithEntryName overrides the conventional entry function name.
func WithEntryName(name string) Option {
	return func(e *Executor) {
		e.entryName = name
	}
}

// WithLogger sets the logger handed to scopes.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates an Executor. Dependency names must be unique identifiers.
func New(opts ...Option) (*Executor, error) {
	e := &Executor{
		entryName:   domain.EntryPointName,
		evalTimeout: DefaultEvalTimeout,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !identifier.MatchString(e.entryName) {
		return nil, fmt.Errorf("invalid entry point name %q", e.entryName)
	}
	seen := make(map[string]bool, len(e.deps))
	for _, d := range e.deps {
		if !identifier.MatchString(d.Name) {
			return nil, fmt.Errorf("invalid dependency name %q", d.Name)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate dependency %q", d.Name)
		}
		if d.Name == e.entryName {
			return nil, fmt.Errorf("dependency %q shadows the entry point", d.Name)
		}
		seen[d.Name] = true
	}
	return e, nil
}

// Names returns the injected dependency names in parameter order.
func (e *Executor) Names() []string {
	names := make([]string, len(e.deps))
	for i, d := range e.deps {
		names[i] = d.Name
	}
	return names
}

// Execute evaluates src (already cleaned) in a fresh scope and returns its entry function.
// file only labels diagnostics.
func (e *Executor) Execute(ctx context.Context, file, src string) (*Entry, error) {
	src = cleaner.CleanForSandbox(src)

	prog, err := goja.Compile(file, e.wrap(src), false)
	if err != nil {
		return nil, &domain.ExecutionError{File: file, Err: err}
	}

	if e.evalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.evalTimeout)
		defer cancel()
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())
	scope := newScope(vm, file, e.logger)

	entry, err := e.evaluate(ctx, scope, prog)
	if err != nil {
		scope.Stop()
		return nil, err
	}
	return entry, nil
}

func (e *Executor) evaluate(ctx context.Context, scope *Scope, prog *goja.Program) (*Entry, error) {
	scope.mu.Lock()
	defer scope.mu.Unlock()

	release := interruptOnDone(ctx, scope.vm)
	defer release()

	factoryVal, err := scope.vm.RunProgram(prog)
	if err != nil {
		return nil, &domain.ExecutionError{File: scope.file, Err: unwrapInterrupt(err)}
	}
	factory, ok := goja.AssertFunction(factoryVal)
	if !ok {
		return nil, &domain.ExecutionError{File: scope.file, Err: errors.New("wrapped source did not evaluate to a function")}
	}

	args := make([]goja.Value, len(e.deps))
	for i, d := range e.deps {
		v := d.Value
		if d.Bind != nil {
			bound, err := d.Bind(scope)
			if err != nil {
				return nil, &domain.ExecutionError{File: scope.file, Err: fmt.Errorf("bind %s: %w", d.Name, unwrapInterrupt(err))}
			}
			v = bound
		}
		args[i] = scope.vm.ToValue(v)
	}

	ret, err := factory(goja.Undefined(), args...)
	if err != nil {
		return nil, &domain.ExecutionError{File: scope.file, Err: unwrapInterrupt(err)}
	}
	fn, ok := goja.AssertFunction(ret)
	if !ok {
		return nil, &domain.EntryPointMissingError{File: scope.file, Name: e.entryName}
	}
	return &Entry{scope: scope, fn: fn}, nil
}

// wrap builds the function expression whose parameters are the dependency names.
func (e *Executor) wrap(src string) string {
	var b strings.Builder
	b.WriteString("(function(")
	b.WriteString(strings.Join(e.Names(), ", "))
	b.WriteString(") {\n")
	b.WriteString(src)
	fmt.Fprintf(&b, "\n;return typeof %[1]s === \"function\" ? %[1]s : undefined;\n})", e.entryName)
	return b.String()
}

// interruptOnDone interrupts vm when ctx ends. The returned release func stops
// watching and clears any interrupt that raced with completion.
func interruptOnDone(ctx context.Context, vm *goja.Runtime) (release func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			vm.Interrupt(context.Cause(ctx))
		case <-done:
		}
	}()
	return func() {
		close(done)
		wg.Wait()
		vm.ClearInterrupt()
	}
}

// unwrapInterrupt surfaces the context error behind an interrupted run.
func unwrapInterrupt(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause, ok := ie.Value().(error); ok {
			return fmt.Errorf("%w: %s", cause, ie.String())
		}
	}
	return err
}
