// Package ace is the embedding SDK for the Ace bytecode VM: a declarative
// way for a host Go program to expose native variables and functions to a
// running vmrt.VM, and a loader that resolves config.Config's Natives list
// to a registered *ace.Module by package name.
//
// Grounded on the teacher's pkg/embed (declarative registration surface
// for host-exposed bindings) and internal/evaluator/builtins_grpc.go (a
// concrete native module backed by third-party libraries), re-keyed from
// the teacher's tree-walking evaluator.Object values to vmrt.Value/
// vmrt.Params — the only call contract a compiled Ace program can actually
// reach a native through (CALL on a KindNativeFunction register value).
package ace

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ajmd17/ace-lang-sub001/internal/vmrt"
)

// Module is one named collection of native variables and functions, built
// fluently (mirrors the teacher's pkg/embed builder chain).
type Module struct {
	Name string

	vars  map[string]vmrt.Value
	funcs map[string]*vmrt.NativeFunction
}

// NewModule starts a new, empty native module named name.
func NewModule(name string) *Module {
	return &Module{
		Name:  name,
		vars:  make(map[string]vmrt.Value),
		funcs: make(map[string]*vmrt.NativeFunction),
	}
}

// Variable registers a constant value under name, reachable as
// "<module>.<name>" once Install'd.
func (m *Module) Variable(name string, v vmrt.Value) *Module {
	m.vars[name] = v
	return m
}

// Function registers a native function under name. fn receives the
// calling thread's pushed argument vector and must either write its
// result into p.Result or return an error, which the VM raises as a
// catchable exception (vmrt.NativeFunction's own contract).
func (m *Module) Function(name string, fn func(p *vmrt.Params) error) *Module {
	m.funcs[name] = &vmrt.NativeFunction{Name: m.Name + "." + name, Fn: fn}
	return m
}

// Registry collects every Module a host program wants reachable from a
// VM, in registration order, and installs them into a VM's global-slot
// table as one contiguous block per module.
type Registry struct {
	mu      sync.Mutex
	modules []*Module
	byName  map[string]*Module
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Module)}
}

// Add registers m, replacing any earlier module of the same name.
func (r *Registry) Add(m *Module) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[m.Name]; !exists {
		r.modules = append(r.modules, m)
	} else {
		for i, existing := range r.modules {
			if existing.Name == m.Name {
				r.modules[i] = m
			}
		}
	}
	r.byName[m.Name] = m
	return r
}

// Lookup returns the module registered under name, if any.
func (r *Registry) Lookup(name string) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byName[name]
	return m, ok
}

// Slots maps a fully-qualified "<module>.<member>" name to the global
// slot Install assigned it.
type Slots map[string]int

// Install writes every registered module's variables and functions into
// vm's global-slot table (spec.md §3.9 "static" storage method), one slot
// per member, assigned in a name-sorted order so two Installs of the same
// module set always agree on slot numbers. The returned Slots map lets the
// host (or a hand-written stub import a compiled program splices in) wire
// a LOAD_STATIC instruction's index to a specific native by name.
func (r *Registry) Install(vm *vmrt.VM) Slots {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := make(Slots)
	next := 0

	for _, m := range r.modules {
		names := make([]string, 0, len(m.vars)+len(m.funcs))
		for name := range m.vars {
			names = append(names, name)
		}
		for name := range m.funcs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			qualified := m.Name + "." + name
			slot := next
			next++

			var v vmrt.Value
			if fn, ok := m.funcs[name]; ok {
				v = vmrt.Native(fn)
			} else {
				v = m.vars[name]
			}
			for len(vm.Globals) <= slot {
				vm.Globals = append(vm.Globals, vmrt.Null())
			}
			vm.Globals[slot] = v
			slots[qualified] = slot
		}
	}
	return slots
}

// LoadConfigured builds a Registry from cfg.Natives by looking each
// package name up in a process-wide factory table populated by every
// natives/... subpackage's init() (the same "import for side effect,
// resolve by string name" shape the teacher's pkg/embed uses for its own
// binding registration).
func LoadConfigured(natives []string) (*Registry, error) {
	r := NewRegistry()
	for _, pkg := range natives {
		factory, ok := factories[pkg]
		if !ok {
			return nil, fmt.Errorf("ace: no native module registered under package %q", pkg)
		}
		r.Add(factory())
	}
	return r, nil
}

var factories = make(map[string]func() *Module)

// RegisterFactory lets a natives/... subpackage advertise itself under
// pkg (its config.Native.Pkg value) so LoadConfigured can find it without
// importing every natives subpackage unconditionally.
func RegisterFactory(pkg string, factory func() *Module) {
	factories[pkg] = factory
}
