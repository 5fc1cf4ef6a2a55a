package lua

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

type fixedSeq struct {
	vals []glua.LValue
	err  error
}

func (f fixedSeq) Snapshot() ([]glua.LValue, error) { return f.vals, f.err }

func newBridge(t *testing.T) *Bridge {
	t.Helper()
	L := glua.NewState()
	t.Cleanup(L.Close)
	return NewBridge(L)
}

func TestBridgeToGoValue(t *testing.T) {
	bridge := newBridge(t)

	tests := []struct {
		name     string
		input    glua.LValue
		expected any
	}{
		{"nil", glua.LNil, nil},
		{"true", glua.LTrue, true},
		{"integer", glua.LNumber(42), int64(42)},
		{"float", glua.LNumber(3.5), 3.5},
		{"string", glua.LString("hello"), "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bridge.ToGoValue(tt.input))
		})
	}
}

func TestBridgeToGoValueTable(t *testing.T) {
	bridge := newBridge(t)
	L := bridge.L

	arr := L.NewTable()
	arr.RawSetInt(1, glua.LString("a"))
	arr.RawSetInt(2, glua.LNumber(2))
	assert.Equal(t, []any{"a", int64(2)}, bridge.ToGoValue(arr))

	m := L.NewTable()
	m.RawSetString("name", glua.LString("x"))
	m.RawSetInt(3, glua.LTrue)
	assert.Equal(t, map[string]any{"name": "x", "3": true}, bridge.ToGoValue(m))

	cyc := L.NewTable()
	cyc.RawSetString("self", cyc)
	assert.Equal(t, map[string]any{"self": nil}, bridge.ToGoValue(cyc))
}

func TestBridgeToGoValueUserData(t *testing.T) {
	bridge := newBridge(t)

	ud := bridge.L.NewUserData()
	ud.Value = fixedSeq{vals: []glua.LValue{glua.LNumber(1), glua.LString("b")}}
	assert.Equal(t, []any{int64(1), "b"}, bridge.ToGoValue(ud))

	ud.Value = fixedSeq{err: errors.New("stale")}
	assert.Nil(t, bridge.ToGoValue(ud))

	ud.Value = 17
	assert.Equal(t, 17, bridge.ToGoValue(ud))
}

func TestBridgeToGoValueCycles(t *testing.T) {
	bridge := newBridge(t)
	L := bridge.L

	self := L.NewUserData()
	self.Value = fixedSeq{vals: []glua.LValue{glua.LNumber(1), self}}
	assert.Equal(t, []any{int64(1), nil}, bridge.ToGoValue(self))

	// table -> userdata -> table
	outer := L.NewTable()
	inner := L.NewUserData()
	inner.Value = fixedSeq{vals: []glua.LValue{outer}}
	outer.RawSetInt(1, inner)
	assert.Equal(t, []any{[]any{nil}}, bridge.ToGoValue(outer))

	// userdata -> userdata -> userdata
	a, b := L.NewUserData(), L.NewUserData()
	a.Value = fixedSeq{vals: []glua.LValue{b}}
	b.Value = fixedSeq{vals: []glua.LValue{glua.LString("b"), a}}
	assert.Equal(t, []any{[]any{"b", nil}}, bridge.ToGoValue(a))

	tbl := L.NewTable()
	tbl.RawSetInt(1, tbl)
	assert.Equal(t, []any{nil}, bridge.ToGoValue(tbl))
}

func TestBridgeToLuaValue(t *testing.T) {
	bridge := newBridge(t)

	assert.Equal(t, glua.LNil, bridge.ToLuaValue(nil))
	assert.Equal(t, glua.LNumber(3), bridge.ToLuaValue(3))
	assert.Equal(t, glua.LNumber(3), bridge.ToLuaValue(uint8(3)))
	assert.Equal(t, glua.LNumber(1.5), bridge.ToLuaValue(float32(1.5)))
	assert.Equal(t, glua.LString("s"), bridge.ToLuaValue("s"))
	assert.Equal(t, glua.LTrue, bridge.ToLuaValue(true))

	tbl, ok := bridge.ToLuaValue([]string{"a", "b"}).(*glua.LTable)
	require.True(t, ok)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, glua.LString("b"), tbl.RawGetInt(2))

	tbl, ok = bridge.ToLuaValue(map[string]any{"k": 1}).(*glua.LTable)
	require.True(t, ok)
	assert.Equal(t, glua.LNumber(1), tbl.RawGetString("k"))

	type point struct{ X int }
	ud, ok := bridge.ToLuaValue(point{1}).(*glua.LUserData)
	require.True(t, ok)
	assert.Equal(t, point{1}, ud.Value)
}

func TestBridgeSliceRoundTrip(t *testing.T) {
	bridge := newBridge(t)
	vals := []glua.LValue{glua.LNumber(1), glua.LString("x"), glua.LFalse}

	tbl := bridge.SliceToTable(vals)
	assert.Equal(t, vals, bridge.TableToSlice(tbl))

	holes := bridge.L.NewTable()
	holes.RawSetInt(1, glua.LNumber(1))
	holes.RawSetInt(3, glua.LNumber(3))
	assert.Equal(t, []glua.LValue{glua.LNumber(1)}, bridge.TableToSlice(holes))
}
