package typesystem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompatibleNumericPromotion(t *testing.T) {
	tbl := NewTable()
	intT := tbl.MustLookup("Int")
	floatT := tbl.MustLookup("Float")
	numberT := tbl.MustLookup("Number")
	undefined := tbl.MustLookup("Undefined")

	require.True(t, tbl.Compatible(numberT, intT, true))
	require.True(t, tbl.Compatible(intT, numberT, false))
	require.False(t, tbl.Compatible(intT, floatT, true), "strict numerics reject Int<-Float")
	require.False(t, tbl.Compatible(undefined, intT, false))
	require.False(t, tbl.Compatible(intT, undefined, false))
}

func TestPromotionInvariant(t *testing.T) {
	tbl := NewTable()
	intT := tbl.MustLookup("Int")
	floatT := tbl.MustLookup("Float")

	// Testable property (spec.md §8): Compatible(T1,T2,strict)==true implies
	// Promote(T1,T2) != Undefined.
	require.True(t, tbl.Compatible(tbl.MustLookup("Number"), intT, true))
	promoted := tbl.Promote(tbl.MustLookup("Number"), intT, true)
	require.False(t, tbl.IsUndefined(promoted))

	promoted2 := tbl.Promote(intT, floatT, true)
	require.Equal(t, "Number", tbl.Get(promoted2).Name)
}

func TestGenericInstantiationCovariantViaAny(t *testing.T) {
	tbl := NewTable()
	arrayTmpl, _ := tbl.Lookup("Array")
	anyT := tbl.MustLookup("Any")
	intT := tbl.MustLookup("Int")

	arrayAny, err := tbl.Instantiate(arrayTmpl, []ID{anyT})
	require.NoError(t, err)
	arrayInt, err := tbl.Instantiate(arrayTmpl, []ID{intT})
	require.NoError(t, err)

	// Array(Int) used where Array(Any) expected: compatible (covariant via Any).
	require.True(t, tbl.Compatible(arrayAny, arrayInt, true))
	// Reverse direction: not compatible.
	require.False(t, tbl.Compatible(arrayInt, arrayAny, true))
}

func TestInstantiateArityMismatch(t *testing.T) {
	tbl := NewTable()
	arrayTmpl, _ := tbl.Lookup("Array")
	intT := tbl.MustLookup("Int")
	_, err := tbl.Instantiate(arrayTmpl, []ID{intT, intT})
	require.Error(t, err)
}

func TestGenericMemberSubstitution(t *testing.T) {
	tbl := NewTable()
	elemParam := tbl.NewGenericParameter("T")
	boxTmpl := tbl.NewTemplate("Box", 1, []ID{elemParam}, []Member{
		{Name: "value", Type: elemParam},
	})
	intT := tbl.MustLookup("Int")
	boxInt, err := tbl.Instantiate(boxTmpl, []ID{intT})
	require.NoError(t, err)

	m, ok := tbl.Get(boxInt).MemberByName("value")
	require.True(t, ok)
	require.True(t, tbl.Equal(m.Type, intT))
}
