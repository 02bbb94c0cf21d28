package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/rillerr"
)

func num(s string) Number {
	d, err := decimal.Parse(s)
	if err != nil {
		panic(err)
	}
	return Number{D: d}
}

func TestEnvironmentDefineAssignGet(t *testing.T) {
	root := NewEnvironment()
	root.Define("x", num("1"))
	child := root.Child()
	child.Define("x", num("2")) // shadows outer
	v, err := child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())

	require.NoError(t, child.Assign("x", num("3")))
	v, _ = child.Get("x")
	assert.Equal(t, "3", v.String())

	outer, _ := root.Get("x")
	assert.Equal(t, "1", outer.String(), "shadowed assign must not leak to parent")
}

func TestEnvironmentAssignUndefinedFails(t *testing.T) {
	e := NewEnvironment()
	err := e.Assign("missing", num("1"))
	require.Error(t, err)
	assert.Equal(t, rillerr.UndefinedName, rillerr.KindOf(err))
}

func TestAddMixedTypes(t *testing.T) {
	v, err := Add(num("1"), num("2"), 0)
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())

	v, err = Add(String{S: "a"}, num("1"), 0)
	require.NoError(t, err)
	assert.Equal(t, "a1", v.String())

	v, err = Add(String{S: "a"}, String{S: "b"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "ab", v.String())

	_, err = Add(num("1"), &List{}, 0)
	require.Error(t, err)
}

func TestBinaryPlusBinaryIsError(t *testing.T) {
	_, err := Add(Binary{Bytes: []byte{1}}, Binary{Bytes: []byte{2}}, 0)
	require.Error(t, err)
	assert.Equal(t, rillerr.TypeMismatch, rillerr.KindOf(err))
}

func TestBinaryToNumberRoundTrip(t *testing.T) {
	b := Binary{Bytes: []byte{0x01, 0x00}} // 256
	n := BinaryToNumber(b)
	assert.Equal(t, "256", n.D.String())
}

func TestListConcatAndRepeat(t *testing.T) {
	a := &List{Elems: []Value{num("1"), num("2")}}
	b := &List{Elems: []Value{num("3")}}
	sum, err := Add(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", sum.String())

	rep, err := Mul(a, num("2"), 0)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 1, 2]", rep.String())
}

func TestEquality(t *testing.T) {
	assert.True(t, Equal(num("1"), num("1")))
	assert.True(t, Equal(num("256"), Binary{Bytes: []byte{1, 0}}))
	assert.True(t, Equal(String{S: "a"}, String{S: "a"}))
	assert.False(t, Equal(String{S: "a"}, num("1")))
	assert.True(t, Equal(&List{Elems: []Value{num("1")}}, &List{Elems: []Value{num("1")}}))
}

func TestIndexNegativeAndOutOfRange(t *testing.T) {
	l := &List{Elems: []Value{num("1"), num("2"), num("3")}}
	v, err := Index(l, num("-1"), 0)
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())

	_, err = Index(l, num("5"), 0)
	require.Error(t, err)
	assert.Equal(t, rillerr.IndexOutOfRange, rillerr.KindOf(err))
}

func TestSetIndexMutatesInPlace(t *testing.T) {
	l := &List{Elems: []Value{num("1"), num("2")}}
	alias := l
	require.NoError(t, SetIndex(l, num("0"), num("9"), 0))
	assert.Equal(t, "9", alias.Elems[0].String())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Null{}.Truthy())
	assert.False(t, num("0").Truthy())
	assert.True(t, num("1").Truthy())
	assert.False(t, String{S: ""}.Truthy())
	assert.True(t, (&List{Elems: []Value{num("1")}}).Truthy())
	assert.False(t, Binary{Bytes: []byte{0, 0}}.Truthy())
	assert.True(t, Binary{Bytes: []byte{0, 1}}.Truthy())
}

func TestExceptionRepr(t *testing.T) {
	e := NewException("boom")
	assert.Equal(t, "<Exception: boom>", e.String())
}

// TestListCloneIsStructurallyEqualButIndependent exercises a nested List
// tree's deep-equality (decimal.Decimal supplies its own Equal method,
// which cmp uses automatically) and confirms Clone() doesn't alias the
// original's backing storage.
func TestListCloneIsStructurallyEqualButIndependent(t *testing.T) {
	original := &List{Elems: []Value{
		num("1"),
		&List{Elems: []Value{num("2"), num("3")}},
	}}
	clone := original.Clone().(*List)

	if diff := cmp.Diff(original, clone); diff != "" {
		t.Fatalf("clone must be structurally equal to the original (-original +clone):\n%s", diff)
	}

	inner := clone.Elems[1].(*List)
	inner.Elems[0] = num("99")
	assert.Equal(t, "2", original.Elems[1].(*List).Elems[0].String(), "mutating the clone must not affect the original")
}
