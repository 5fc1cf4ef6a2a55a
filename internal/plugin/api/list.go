package api

import (
	"errors"
	"iter"
	"slices"

	lua "github.com/yuin/gopher-lua"

	"github.com/katemewow/arraylist/internal/engine/arraylist"
	luahost "github.com/katemewow/arraylist/internal/plugin/lua"
)

const (
	listTypeName   = "arraylist.list"
	cursorTypeName = "arraylist.cursor"
)

// sequence is the common surface of a root list and a window, with every
// operation reporting staleness through an error.
type sequence interface {
	Len() (int, error)
	Get(i int) (lua.LValue, error)
	Set(i int, v lua.LValue) (lua.LValue, error)
	Add(v lua.LValue) error
	Insert(i int, v lua.LValue) error
	RemoveAt(i int) (lua.LValue, error)
	Remove(v lua.LValue) (bool, error)
	IndexOf(v lua.LValue) (int, error)
	LastIndexOf(v lua.LValue) (int, error)
	Contains(v lua.LValue) (bool, error)
	Clear() error
	AddAll(values iter.Seq[lua.LValue]) (bool, error)
	RemoveAll(values iter.Seq[lua.LValue]) (bool, error)
	RetainAll(values iter.Seq[lua.LValue]) (bool, error)
	ToSlice() ([]lua.LValue, error)
	SubList(from, to int) (*arraylist.SubList[lua.LValue], error)
	ListIterator() (*arraylist.ListIterator[lua.LValue], error)
	String() string
}

// rootSeq adapts a List to sequence. A root list is never stale, so the
// errors are always nil.
type rootSeq struct {
	*arraylist.List[lua.LValue]
}

func (r rootSeq) Len() (int, error) { return r.List.Len(), nil }

func (r rootSeq) Remove(v lua.LValue) (bool, error) { return r.List.Remove(v), nil }

func (r rootSeq) IndexOf(v lua.LValue) (int, error) { return r.List.IndexOf(v), nil }

func (r rootSeq) LastIndexOf(v lua.LValue) (int, error) { return r.List.LastIndexOf(v), nil }

func (r rootSeq) Contains(v lua.LValue) (bool, error) { return r.List.Contains(v), nil }

func (r rootSeq) Clear() error {
	r.List.Clear()
	return nil
}

func (r rootSeq) RemoveAll(values iter.Seq[lua.LValue]) (bool, error) {
	return r.List.RemoveAll(values), nil
}

func (r rootSeq) RetainAll(values iter.Seq[lua.LValue]) (bool, error) {
	return r.List.RetainAll(values), nil
}

func (r rootSeq) ToSlice() ([]lua.LValue, error) { return r.List.ToSlice(), nil }

func (r rootSeq) ListIterator() (*arraylist.ListIterator[lua.LValue], error) {
	return r.List.ListIterator(), nil
}

// handle is the userdata value behind a Lua list or window.
type handle struct {
	root *arraylist.List[lua.LValue]
	seq  sequence
}

// Snapshot implements luahost.Snapshotter.
func (h *handle) Snapshot() ([]lua.LValue, error) {
	return h.seq.ToSlice()
}

var _ luahost.Snapshotter = (*handle)(nil)

// rawEqual compares Lua values the way rawequal does: by value for numbers,
// strings and booleans, by identity for everything else.
func rawEqual(a, b lua.LValue) bool {
	return a == b
}

// ListModule implements the list API module.
type ListModule struct {
	defaultCapacity int
	opts            []arraylist.Option
}

// NewListModule creates a list module. Lists created by list.new() without a
// capacity start with defaultCapacity slots; opts apply to every list.
func NewListModule(defaultCapacity int, opts ...arraylist.Option) *ListModule {
	return &ListModule{
		defaultCapacity: defaultCapacity,
		opts:            append(slices.Clone(opts), arraylist.WithEquality(rawEqual)),
	}
}

// Name returns the module name.
func (m *ListModule) Name() string {
	return "list"
}

// Loader builds the list module table.
func (m *ListModule) Loader(L *lua.LState) int {
	m.registerTypes(L)

	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(m.newList))
	L.SetField(mod, "of", L.NewFunction(m.of))
	L.Push(mod)
	return 1
}

func (m *ListModule) registerTypes(L *lua.LState) {
	mt := L.NewTypeMetatable(listTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add":           m.add,
		"insert":        m.insert,
		"get":           m.get,
		"set":           m.set,
		"remove_at":     m.removeAt,
		"remove":        m.remove,
		"index_of":      m.indexOf,
		"last_index_of": m.lastIndexOf,
		"contains":      m.contains,
		"size":          m.size,
		"capacity":      m.capacity,
		"is_empty":      m.isEmpty,
		"clear":         m.clear,
		"add_all":       m.addAll,
		"remove_all":    m.removeAll,
		"retain_all":    m.retainAll,
		"to_table":      m.toTable,
		"sub_list":      m.subList,
		"iter":          m.iter,
		"cursor":        m.cursor,
	}))
	L.SetField(mt, "__len", L.NewFunction(m.size))
	L.SetField(mt, "__tostring", L.NewFunction(m.toString))

	cmt := L.NewTypeMetatable(cursorTypeName)
	L.SetField(cmt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"has_next":     cursorHasNext,
		"next":         cursorNext,
		"has_previous": cursorHasPrevious,
		"previous":     cursorPrevious,
		"next_index":   cursorNextIndex,
		"remove":       cursorRemove,
		"set":          cursorSet,
		"add":          cursorAdd,
	}))
}

func pushHandle(L *lua.LState, h *handle) {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, L.GetTypeMetatable(listTypeName))
	L.Push(ud)
}

func checkHandle(L *lua.LState, n int) *handle {
	ud := L.CheckUserData(n)
	if h, ok := ud.Value.(*handle); ok {
		return h
	}
	L.ArgError(n, "list expected")
	return nil
}

// raise turns a container error into a Lua error.
func raise(L *lua.LState, op string, err error) {
	L.RaiseError("%s: %s", op, err.Error())
}

// index reads a 1-based Lua index argument and returns it 0-based.
func index(L *lua.LState, n int) int {
	return L.CheckInt(n) - 1
}

// values reads a table or list argument as a sequence of elements.
func values(L *lua.LState, n int) []lua.LValue {
	switch v := L.Get(n).(type) {
	case *lua.LTable:
		return luahost.NewBridge(L).TableToSlice(v)
	case *lua.LUserData:
		if h, ok := v.Value.(*handle); ok {
			vals, err := h.seq.ToSlice()
			if err != nil {
				raise(L, "values", err)
			}
			return vals
		}
	}
	L.ArgError(n, "table or list expected")
	return nil
}

// list.new([capacity]) -> list
func (m *ListModule) newList(L *lua.LState) int {
	capacity := L.OptInt(1, m.defaultCapacity)
	l, err := arraylist.NewWithCapacity[lua.LValue](capacity, m.opts...)
	if err != nil {
		raise(L, "new", err)
		return 0
	}
	pushHandle(L, &handle{root: l, seq: rootSeq{l}})
	return 1
}

// list.of(...) -> list
func (m *ListModule) of(L *lua.LState) int {
	n := L.GetTop()
	l, err := arraylist.NewWithCapacity[lua.LValue](n, m.opts...)
	if err != nil {
		raise(L, "of", err)
		return 0
	}
	vals := make([]lua.LValue, n)
	for i := 1; i <= n; i++ {
		vals[i-1] = L.Get(i)
	}
	if _, err := l.AddAll(slices.Values(vals)); err != nil {
		raise(L, "of", err)
		return 0
	}
	pushHandle(L, &handle{root: l, seq: rootSeq{l}})
	return 1
}

// l:add(v)
func (m *ListModule) add(L *lua.LState) int {
	h := checkHandle(L, 1)
	if err := h.seq.Add(L.CheckAny(2)); err != nil {
		raise(L, "add", err)
	}
	return 0
}

// l:insert(i, v)
func (m *ListModule) insert(L *lua.LState) int {
	h := checkHandle(L, 1)
	if err := h.seq.Insert(index(L, 2), L.CheckAny(3)); err != nil {
		raise(L, "insert", err)
	}
	return 0
}

// l:get(i) -> v
func (m *ListModule) get(L *lua.LState) int {
	h := checkHandle(L, 1)
	v, err := h.seq.Get(index(L, 2))
	if err != nil {
		raise(L, "get", err)
		return 0
	}
	L.Push(v)
	return 1
}

// l:set(i, v) -> previous
func (m *ListModule) set(L *lua.LState) int {
	h := checkHandle(L, 1)
	prev, err := h.seq.Set(index(L, 2), L.CheckAny(3))
	if err != nil {
		raise(L, "set", err)
		return 0
	}
	L.Push(prev)
	return 1
}

// l:remove_at(i) -> removed
func (m *ListModule) removeAt(L *lua.LState) int {
	h := checkHandle(L, 1)
	v, err := h.seq.RemoveAt(index(L, 2))
	if err != nil {
		raise(L, "remove_at", err)
		return 0
	}
	L.Push(v)
	return 1
}

// l:remove(v) -> bool
func (m *ListModule) remove(L *lua.LState) int {
	h := checkHandle(L, 1)
	ok, err := h.seq.Remove(L.CheckAny(2))
	if err != nil {
		raise(L, "remove", err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

func pushIndex(L *lua.LState, i int) {
	if i == arraylist.NotFound {
		L.Push(lua.LNil)
		return
	}
	L.Push(lua.LNumber(i + 1))
}

// l:index_of(v) -> i or nil
func (m *ListModule) indexOf(L *lua.LState) int {
	h := checkHandle(L, 1)
	i, err := h.seq.IndexOf(L.CheckAny(2))
	if err != nil {
		raise(L, "index_of", err)
		return 0
	}
	pushIndex(L, i)
	return 1
}

// l:last_index_of(v) -> i or nil
func (m *ListModule) lastIndexOf(L *lua.LState) int {
	h := checkHandle(L, 1)
	i, err := h.seq.LastIndexOf(L.CheckAny(2))
	if err != nil {
		raise(L, "last_index_of", err)
		return 0
	}
	pushIndex(L, i)
	return 1
}

// l:contains(v) -> bool
func (m *ListModule) contains(L *lua.LState) int {
	h := checkHandle(L, 1)
	ok, err := h.seq.Contains(L.CheckAny(2))
	if err != nil {
		raise(L, "contains", err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// l:size() -> n, also #l
func (m *ListModule) size(L *lua.LState) int {
	h := checkHandle(L, 1)
	n, err := h.seq.Len()
	if err != nil {
		raise(L, "size", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// l:capacity() -> n
// A window reports the capacity of its root list.
func (m *ListModule) capacity(L *lua.LState) int {
	h := checkHandle(L, 1)
	L.Push(lua.LNumber(h.root.Cap()))
	return 1
}

// l:is_empty() -> bool
func (m *ListModule) isEmpty(L *lua.LState) int {
	h := checkHandle(L, 1)
	n, err := h.seq.Len()
	if err != nil {
		raise(L, "is_empty", err)
		return 0
	}
	L.Push(lua.LBool(n == 0))
	return 1
}

// l:clear()
func (m *ListModule) clear(L *lua.LState) int {
	h := checkHandle(L, 1)
	if err := h.seq.Clear(); err != nil {
		raise(L, "clear", err)
	}
	return 0
}

func (m *ListModule) bulk(L *lua.LState, op string, fn func(sequence, iter.Seq[lua.LValue]) (bool, error)) int {
	h := checkHandle(L, 1)
	changed, err := fn(h.seq, slices.Values(values(L, 2)))
	if err != nil {
		raise(L, op, err)
		return 0
	}
	L.Push(lua.LBool(changed))
	return 1
}

// l:add_all(t) -> changed
func (m *ListModule) addAll(L *lua.LState) int {
	return m.bulk(L, "add_all", sequence.AddAll)
}

// l:remove_all(t) -> changed
func (m *ListModule) removeAll(L *lua.LState) int {
	return m.bulk(L, "remove_all", sequence.RemoveAll)
}

// l:retain_all(t) -> changed
func (m *ListModule) retainAll(L *lua.LState) int {
	return m.bulk(L, "retain_all", sequence.RetainAll)
}

// l:to_table() -> {...}
func (m *ListModule) toTable(L *lua.LState) int {
	h := checkHandle(L, 1)
	vals, err := h.seq.ToSlice()
	if err != nil {
		raise(L, "to_table", err)
		return 0
	}
	L.Push(luahost.NewBridge(L).SliceToTable(vals))
	return 1
}

// l:sub_list(first, last) -> window over elements first..last inclusive.
// sub_list(i, i-1) is an empty window positioned before i.
func (m *ListModule) subList(L *lua.LState) int {
	h := checkHandle(L, 1)
	from := index(L, 2)
	to := L.CheckInt(3)
	w, err := h.seq.SubList(from, to)
	if err != nil {
		raise(L, "sub_list", err)
		return 0
	}
	pushHandle(L, &handle{root: h.root, seq: w})
	return 1
}

// l:iter() -> iterator for use with a generic for: for i, v in l:iter() do
// The loop fails if the list is changed other than through the loop.
func (m *ListModule) iter(L *lua.LState) int {
	h := checkHandle(L, 1)
	it, err := h.seq.ListIterator()
	if err != nil {
		raise(L, "iter", err)
		return 0
	}
	L.Push(L.NewFunction(func(L *lua.LState) int {
		if !it.HasNext() {
			L.Push(lua.LNil)
			return 1
		}
		i := it.NextIndex()
		v, err := it.Next()
		if err != nil {
			raise(L, "iter", err)
			return 0
		}
		L.Push(lua.LNumber(i + 1))
		L.Push(v)
		return 2
	}))
	return 1
}

// l:cursor([i]) -> cursor positioned before element i (default 1)
func (m *ListModule) cursor(L *lua.LState) int {
	h := checkHandle(L, 1)
	pos := L.OptInt(2, 1) - 1

	it, err := h.seq.ListIterator()
	if err == nil && pos != 0 {
		var li *arraylist.ListIterator[lua.LValue]
		switch s := h.seq.(type) {
		case rootSeq:
			li, err = s.ListIteratorAt(pos)
		case *arraylist.SubList[lua.LValue]:
			li, err = s.ListIteratorAt(pos)
		}
		it = li
	}
	if err != nil {
		raise(L, "cursor", err)
		return 0
	}

	ud := L.NewUserData()
	ud.Value = it
	L.SetMetatable(ud, L.GetTypeMetatable(cursorTypeName))
	L.Push(ud)
	return 1
}

// __tostring
func (m *ListModule) toString(L *lua.LState) int {
	h := checkHandle(L, 1)
	L.Push(lua.LString(h.seq.String()))
	return 1
}

func checkCursor(L *lua.LState) *arraylist.ListIterator[lua.LValue] {
	ud := L.CheckUserData(1)
	if it, ok := ud.Value.(*arraylist.ListIterator[lua.LValue]); ok {
		return it
	}
	L.ArgError(1, "cursor expected")
	return nil
}

func cursorHasNext(L *lua.LState) int {
	L.Push(lua.LBool(checkCursor(L).HasNext()))
	return 1
}

func cursorHasPrevious(L *lua.LState) int {
	L.Push(lua.LBool(checkCursor(L).HasPrevious()))
	return 1
}

func cursorNextIndex(L *lua.LState) int {
	L.Push(lua.LNumber(checkCursor(L).NextIndex() + 1))
	return 1
}

func cursorStep(L *lua.LState, op string, step func() (lua.LValue, error)) int {
	v, err := step()
	if errors.Is(err, arraylist.ErrNoSuchElement) {
		L.Push(lua.LNil)
		return 1
	}
	if err != nil {
		raise(L, op, err)
		return 0
	}
	L.Push(v)
	return 1
}

// c:next() -> v, or nil past the end
func cursorNext(L *lua.LState) int {
	it := checkCursor(L)
	return cursorStep(L, "next", it.Next)
}

// c:previous() -> v, or nil before the start
func cursorPrevious(L *lua.LState) int {
	it := checkCursor(L)
	return cursorStep(L, "previous", it.Previous)
}

func cursorRemove(L *lua.LState) int {
	if err := checkCursor(L).Remove(); err != nil {
		raise(L, "cursor remove", err)
	}
	return 0
}

func cursorSet(L *lua.LState) int {
	it := checkCursor(L)
	if err := it.Set(L.CheckAny(2)); err != nil {
		raise(L, "cursor set", err)
	}
	return 0
}

func cursorAdd(L *lua.LState) int {
	it := checkCursor(L)
	if err := it.Add(L.CheckAny(2)); err != nil {
		raise(L, "cursor add", err)
	}
	return 0
}
