// Copyright © 2026 The Crisp authors

package bridge

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/ichiban/prolog"
	"github.com/ichiban/prolog/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	n int
}

type vec struct {
	items []*item
}

type color uint8

const (
	red color = iota
	green
)

type ref struct {
	target *item
	tag    int
}

func (r ref) IsNull() bool { return r.target == nil }

type itemCursor struct {
	items []*item
	pos   int
}

func (c *itemCursor) Next() (*item, bool) {
	if c.pos >= len(c.items) {
		return nil, false
	}
	c.pos++
	return c.items[c.pos-1], true
}

func testPredicates() []Predicate {
	return []Predicate{
		GetOne("item::n", func(i *item) int { return i.n }, Integer[int]()),
		GetOne("item::name", func(i *item) string { return fmt.Sprintf("item%d", i.n) }, Text()),
		GetOne("item::color", func(i *item) color { return color(i.n % 2) }, Enum[color]([]string{"red", "green"})),
		GetOne("item::ref", func(i *item) ref { return ref{target: i, tag: 1} }, SmartRef[ref]()),
		GetOne("item::nullRef", func(*item) ref { return ref{} }, SmartRef[ref]()),
		GetOne("ref::target", func(r ref) *item { return r.target }, Pointer[*item]()),
		GetOne("vec::first", func(v *vec) *item {
			if len(v.items) == 0 {
				return nil
			}
			return v.items[0]
		}, Pointer[*item]()),
		CheckProperty("vec::isEmpty", func(v *vec) bool { return len(v.items) == 0 }),
		GetMany("vec::elem", func(v *vec) []*item { return v.items }, Pointer[*item]()),
		GetManyCursor("vec::cursor", func(v *vec) Cursor[*item] { return &itemCursor{items: v.items} }, Pointer[*item]()),
	}
}

type fixture struct {
	p      *prolog.Interpreter
	tables *Tables
	full   Handle
	empty  Handle
	item   Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		p:      prolog.New(strings.NewReader(""), io.Discard),
		tables: NewTables(),
	}
	require.NoError(t, NewRegistry(testPredicates()...).Install(&f.p.VM, f.tables))
	full := &vec{items: []*item{{n: 10}, {n: 21}, {n: 30}}}
	f.full = f.tables.Handles.Intern(full)
	f.empty = f.tables.Handles.Intern(&vec{})
	f.item = f.tables.Handles.Intern(full.items[0])
	return f
}

func (f *fixture) holds(t *testing.T, format string, args ...any) bool {
	t.Helper()
	sol := f.p.QuerySolution(fmt.Sprintf(format, args...))
	err := sol.Err()
	if err == prolog.ErrNoSolutions {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestHandleTable(t *testing.T) {
	ht := NewHandleTable()
	a, b := &item{n: 1}, &item{n: 1}
	ha := ht.Intern(a)
	assert.NotZero(t, ha)
	assert.Equal(t, ha, ht.Intern(a))
	assert.NotEqual(t, ha, ht.Intern(b))
	assert.Zero(t, ht.Intern(nil))
	assert.Zero(t, ht.Intern((*item)(nil)))

	r := ref{target: a}
	hr := ht.Intern(r)
	assert.Equal(t, hr, ht.Intern(ref{target: a}))
	assert.NotEqual(t, ha, hr)

	obj, ok := ht.Lookup(ha)
	require.True(t, ok)
	assert.Same(t, a, obj)
	_, ok = ht.Lookup(0)
	assert.False(t, ok)
	_, ok = ht.Lookup(99)
	assert.False(t, ok)

	assert.Equal(t, 3, ht.Len())
	ht.Reset()
	assert.Zero(t, ht.Len())
	_, ok = ht.Lookup(ha)
	assert.False(t, ok)
}

func TestGetOne(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.holds(t, "'item::n'(%d, 10).", f.item))
	assert.False(t, f.holds(t, "'item::n'(%d, 11).", f.item))
	assert.True(t, f.holds(t, "'item::name'(%d, item10).", f.item))
	assert.True(t, f.holds(t, "'item::color'(%d, red).", f.item))
	assert.True(t, f.holds(t, "'vec::first'(%d, %d).", f.full, f.item))
	assert.False(t, f.holds(t, "'vec::first'(%d, _).", f.empty), "nil results fail")
}

func TestSmartRef(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.holds(t, "'item::ref'(%d, R), 'ref::target'(R, %d).", f.item, f.item))
	assert.True(t, f.holds(t, "'item::ref'(%d, R), 'item::ref'(%d, R).", f.item, f.item), "equal values share a handle")
	assert.False(t, f.holds(t, "'item::nullRef'(%d, _).", f.item))
}

func TestRetrieveFaults(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.holds(t, "'item::n'(_, _)."), "unbound argument")
	assert.False(t, f.holds(t, "'item::n'(foo, _)."), "atom argument")
	assert.False(t, f.holds(t, "'item::n'(0, _)."), "handle zero")
	assert.False(t, f.holds(t, "'item::n'(%d, _).", f.full), "handle of another kind")
	assert.False(t, f.holds(t, "'vec::elem'(%d, _).", f.item), "handle of another kind")
}

func TestCheckProperty(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.holds(t, "'vec::isEmpty'(%d).", f.empty))
	assert.False(t, f.holds(t, "'vec::isEmpty'(%d).", f.full))
}

func TestGetMany(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.holds(t, "findall(N, ('vec::elem'(%d, X), 'item::n'(X, N)), [10, 21, 30]).", f.full))
	assert.True(t, f.holds(t, "'vec::elem'(%d, %d).", f.full, f.item), "bound output acts as a membership test")
	assert.False(t, f.holds(t, "'vec::elem'(%d, _).", f.empty))
	assert.True(t, f.holds(t, "findall(X, ('vec::elem'(%d, X), 'item::color'(X, green)), [_]).", f.full))
	f.tables.Ledger.PruneAll()
	assert.Zero(t, f.tables.Ledger.Live())
}

func TestGetManyCursor(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.holds(t, "findall(N, ('vec::cursor'(%d, X), 'item::n'(X, N)), [10, 21, 30]).", f.full))
	assert.Zero(t, f.tables.Cursors.Live(), "exhausted cursors are released")
	assert.Zero(t, f.tables.Ledger.Live())

	assert.False(t, f.holds(t, "'vec::cursor'(%d, _).", f.empty))
	assert.Zero(t, f.tables.Cursors.Live())

	assert.True(t, f.holds(t, "once('vec::cursor'(%d, _)).", f.full))
	assert.Equal(t, 1, f.tables.Cursors.Live(), "cut leaves the cursor live")
	assert.Equal(t, 1, f.tables.Ledger.PruneAll())
	assert.Zero(t, f.tables.Cursors.Live(), "pruning releases the cursor")
	assert.Zero(t, f.tables.Cursors.Faults())

	// Stop on the second of three answers.
	f = newFixture(t)
	assert.True(t, f.holds(t, "'vec::cursor'(%d, X), 'item::n'(X, 21).", f.full))
	assert.Equal(t, 1, f.tables.Cursors.Live())
	assert.Equal(t, 1, f.tables.Ledger.Live())
	assert.Equal(t, 1, f.tables.Ledger.PruneAll())
	assert.Zero(t, f.tables.Cursors.Live())
	assert.Zero(t, f.tables.Ledger.Live())
	assert.Zero(t, f.tables.Cursors.Faults())
}

func TestLedger(t *testing.T) {
	l := NewLedger()
	var order []int
	a := l.Open(func() { order = append(order, 1) })
	l.Open(func() { order = append(order, 2) })
	l.Open(func() { order = append(order, 3) })
	assert.True(t, l.Take(a))
	assert.False(t, l.Take(a))
	assert.Equal(t, 2, l.Live())
	assert.Equal(t, 2, l.PruneAll())
	assert.Equal(t, []int{3, 2}, order)
	assert.Zero(t, l.PruneAll())
}

func TestArena(t *testing.T) {
	a := NewArena()
	s := a.Alloc("x")
	v, ok := a.Get(s)
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.True(t, a.Release(s))
	assert.False(t, a.Release(s), "double release")
	assert.Equal(t, 1, a.Faults())

	s2 := a.Alloc("y")
	assert.NotEqual(t, s, s2, "reused storage gets a new generation")
	_, ok = a.Get(s)
	assert.False(t, ok)
	assert.False(t, a.Release(s))
	assert.Equal(t, 1, a.Live())
}

func TestControlNames(t *testing.T) {
	assert.Equal(t, "first_call", FirstCall.String())
	assert.Equal(t, "pruned", Pruned.String())
	assert.Equal(t, "Control(7)", Control(7).String())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(testPredicates()...)
	n := r.Len()
	r.Add(testPredicates()...)
	assert.Equal(t, n, r.Len(), "registration is idempotent")

	p, ok := r.Lookup("vec::elem", 2)
	require.True(t, ok)
	assert.True(t, p.Nondeterministic)
	assert.Equal(t, "vec::elem/2", p.Indicator())
	_, ok = r.Lookup("vec::elem", 3)
	assert.False(t, ok)

	assert.Equal(t, []string{"item::name"}, r.Suggest("item::nmae"))
	assert.Equal(t, []string{"vec::first"}, r.Suggest("Vec::First"))
	assert.Empty(t, r.Suggest("somethingElse"))

	preds := r.Predicates()
	for i := 1; i < len(preds); i++ {
		assert.Less(t, preds[i-1].Indicator(), preds[i].Indicator())
	}
}

func TestTerms(t *testing.T) {
	env := (*engine.Env)(nil)
	term := engine.NewAtom("warn").Apply(engine.NewAtom("R: %0"), engine.Integer(3), engine.List(engine.NewAtom("a"), engine.Integer(1)))
	name, args, ok := Compound(term, env)
	require.True(t, ok)
	assert.Equal(t, "warn", name)
	require.Len(t, args, 3)
	text, ok := AtomText(args[0], env)
	require.True(t, ok)
	assert.Equal(t, "R: %0", text)
	i, ok := IntegerOf(args[1], env)
	require.True(t, ok)
	assert.EqualValues(t, 3, i)
	elems, ok := ListElems(args[2], env)
	require.True(t, ok)
	assert.Len(t, elems, 2)

	assert.Equal(t, "warn('R: %0',3,[a,1])", TermString(term, env))
	assert.Equal(t, `'it\'s'`, QuoteAtom("it's"))
	assert.True(t, IsVariable(engine.NewVariable(), env))
}
