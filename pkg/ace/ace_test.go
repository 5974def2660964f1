package ace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/ajmd17/ace-lang-sub001/internal/vmrt"
	"github.com/ajmd17/ace-lang-sub001/pkg/ace"
)

func TestRegistry_InstallAssignsStableSlots(t *testing.T) {
	mod := ace.NewModule("math").
		Variable("pi", vmrt.F64(3.14159)).
		Function("abs", func(p *vmrt.Params) error {
			v := p.Args[0]
			if v.Kind == vmrt.KindI64 && v.AsI64() < 0 {
				p.Result = vmrt.I64(-v.AsI64())
			} else {
				p.Result = v
			}
			return nil
		})

	r := ace.NewRegistry().Add(mod)

	vm1 := vmrt.NewVM(&bytecode.File{})
	slots1 := r.Install(vm1)

	vm2 := vmrt.NewVM(&bytecode.File{})
	slots2 := r.Install(vm2)

	require.Equal(t, slots1, slots2, "the same module set must assign the same slots every Install")
	require.Contains(t, slots1, "math.pi")
	require.Contains(t, slots1, "math.abs")

	piSlot := slots1["math.pi"]
	require.Equal(t, vmrt.KindF64, vm1.Globals[piSlot].Kind)

	absSlot := slots1["math.abs"]
	require.Equal(t, vmrt.KindNativeFunction, vm1.Globals[absSlot].Kind)
}

func TestRegistry_LookupFindsAddedModule(t *testing.T) {
	r := ace.NewRegistry().Add(ace.NewModule("io"))
	m, ok := r.Lookup("io")
	require.True(t, ok)
	require.Equal(t, "io", m.Name)

	_, ok = r.Lookup("missing")
	require.False(t, ok)
}
