// Copyright © 2026 The Crisp authors

package ir

import (
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/golang/glog"
)

// Namer returns the symbol name of a declaration.  *cxxast.Mangler
// implements it.
type Namer interface {
	Mangle(d cxxast.NamedDecl) string
}

// Symbol names of the runtime helpers new and delete expressions call.
const (
	OperatorNew         = "_Znwm"
	OperatorNewArray    = "_Znam"
	OperatorDelete      = "_ZdlPv"
	OperatorDeleteArray = "_ZdaPv"
)

// Lower lowers every function defined in ctx into a new module named after
// the main file.  Global variables become module globals; their
// initializers are not lowered.  Virtual calls are lowered as direct calls
// to the statically selected method.
func Lower(ctx *cxxast.ASTContext, namer Namer) *Module {
	if namer == nil {
		namer = cxxast.NewMangler()
	}
	m := NewModule(ctx.SourceManager.MainFileName(), ctx.SourceManager)
	l := &lowerer{m: m, namer: namer, layout: NewLayout()}
	var defs []cxxast.FunctionDecl
	cxxast.Inspect(ctx.TU, func(n cxxast.Node) bool {
		switch d := n.(type) {
		case cxxast.FunctionDecl:
			if d.HasBody() {
				defs = append(defs, d)
			}
		case *cxxast.Variable:
			if d.HasGlobalStorage() && d.Storage != cxxast.StorageExtern {
				l.global(d)
			}
		}
		return true
	})
	for _, d := range defs {
		l.function(d)
	}
	glog.V(1).Infof("%s: lowered %d functions, %d globals", m.Identifier, len(m.functions), len(m.globals))
	return m
}

type lowerer struct {
	m      *Module
	namer  Namer
	layout *Layout

	// state of the function being lowered
	fn     *Function
	locals map[cxxast.ValueDecl]Value
	this   Value
	loc    cxxast.SourceLocation
}

// at makes s the location of the instructions emitted until the returned
// function restores the previous location.
func (l *lowerer) at(s cxxast.Stmt) func() {
	saved := l.loc
	if s != nil && s.BeginLoc().IsValid() {
		l.loc = s.BeginLoc()
	}
	return func() { l.loc = saved }
}

func (l *lowerer) emit(op Opcode, t *Type, operands ...Value) *Instruction {
	i := &Instruction{
		valueBase: valueBase{typ: t},
		Op:        op,
		Operands:  operands,
		Loc:       l.loc,
		parent:    l.fn,
	}
	for _, o := range operands {
		addUse(o, i)
	}
	l.fn.insts = append(l.fn.insts, i)
	return i
}

func (l *lowerer) alloca(name string, t *Type) *Instruction {
	i := l.emit(OpAlloca, PointerTo(t))
	i.name = name
	i.Allocated = t
	return i
}

func (l *lowerer) load(ptr Value, t *Type) Value {
	if t == nil && ptr.Type().IsPointer() {
		t = ptr.Type().Elem
	}
	return l.emit(OpLoad, t, ptr)
}

func (l *lowerer) store(v, ptr Value) {
	if v == nil || ptr == nil {
		return
	}
	l.emit(OpStore, Void(), v, ptr)
}

func (l *lowerer) gep(base Value, offset int64, t *Type) *Instruction {
	i := l.emit(OpGetElementPtr, PointerTo(t), base)
	i.Offset, i.OffsetKnown = offset, true
	return i
}

// gepIndex addresses element idx of the array base points into.
func (l *lowerer) gepIndex(base, idx Value, elem *Type) *Instruction {
	i := l.emit(OpGetElementPtr, PointerTo(elem), base, idx)
	if c, ok := idx.(*Constant); ok && c.Kind == ConstantInt {
		i.Offset, i.OffsetKnown = c.Int*elem.Size, true
	}
	return i
}

func (l *lowerer) cast(v Value, t *Type) Value {
	return l.emit(OpCast, t, v)
}

func (l *lowerer) call(callee Value, result *Type, args ...Value) *Instruction {
	return l.emit(OpCall, result, append(args, callee)...)
}

func (l *lowerer) global(v *cxxast.Variable) *Global {
	g := l.m.AddGlobal(l.namer.Mangle(v), l.layout.TypeOf(v.Type()))
	if g.Decl == nil {
		g.Decl = v
	}
	return g
}

// declare returns the module function of d, creating a declaration with
// its formal arguments when the module has none.
func (l *lowerer) declare(d cxxast.FunctionDecl) *Function {
	name := l.namer.Mangle(d)
	if f := l.m.Function(name); f != nil {
		return f
	}
	var params []*Type
	method, isMethod := d.(cxxast.CXXMethodDecl)
	instance := isMethod && !method.IsStatic() && method.Parent() != nil
	if instance {
		params = append(params, PointerTo(l.layout.TypeOf(l.recordType(method.Parent()))))
	}
	for _, p := range d.Params() {
		params = append(params, l.layout.TypeOf(p.Type()))
	}
	f := l.m.AddFunction(name, FunctionOf(l.layout.TypeOf(d.ReturnType()), params, d.IsVariadic()))
	f.Decl = d
	if instance {
		f.AddArg("this", params[0])
	}
	for _, p := range d.Params() {
		f.AddArg(p.Name(), l.layout.TypeOf(p.Type()))
	}
	return f
}

func (l *lowerer) recordType(rec *cxxast.CXXRecordDecl) cxxast.QualType {
	if t := definition(rec).TypeForDecl(); !t.IsNull() {
		return t
	}
	return rec.TypeForDecl()
}

func (l *lowerer) runtime(name string, result *Type, params ...*Type) *Function {
	if f := l.m.Function(name); f != nil {
		return f
	}
	f := l.m.AddFunction(name, FunctionOf(result, params, false))
	for _, p := range params {
		f.AddArg("", p)
	}
	return f
}

func (l *lowerer) function(d cxxast.FunctionDecl) {
	f := l.declare(d)
	if f.body {
		return
	}
	f.body = true
	f.Decl = d
	l.fn, l.this = f, nil
	l.locals = map[cxxast.ValueDecl]Value{}
	l.loc = d.Location()
	defer func() { l.fn, l.locals, l.this = nil, nil, nil }()

	args := f.Args()
	if len(args) > len(d.Params()) {
		l.this = l.alloca("this.addr", args[0].Type())
		l.store(args[0], l.this)
		args = args[1:]
	}
	for i, p := range d.Params() {
		if i >= len(args) {
			break
		}
		name := p.Name()
		if name != "" {
			name += ".addr"
		}
		slot := l.alloca(name, args[i].Type())
		l.store(args[i], slot)
		l.locals[p] = slot
	}
	if ctor, ok := d.(cxxast.CXXConstructorDecl); ok && l.this != nil {
		l.ctorInitializers(ctor)
	}
	l.stmt(d.Body())
	if n := len(f.insts); n == 0 || f.insts[n-1].Op != OpRet {
		l.emit(OpRet, Void())
	}
}

func (l *lowerer) thisValue() Value {
	if l.this == nil {
		return NewUndef(PointerTo(Int(8)))
	}
	return l.load(l.this, nil)
}

func (l *lowerer) ctorInitializers(ctor cxxast.CXXConstructorDecl) {
	rec := ctor.Parent()
	for _, init := range ctor.Initializers() {
		done := l.at(init.Init)
		this := l.thisValue()
		switch {
		case init.Member != nil:
			off, _ := l.layout.FieldOffset(rec, init.Member)
			addr := l.gep(this, off, l.layout.TypeOf(init.Member.Type()))
			l.initInto(addr, init.Init, init.Member.Type())
		case init.BaseClass != nil:
			off, _ := l.layout.BaseOffset(rec, init.BaseClass)
			addr := l.gep(this, off, l.layout.TypeOf(l.recordType(init.BaseClass)))
			l.initInto(addr, init.Init, l.recordType(init.BaseClass))
		}
		done()
	}
}

func (l *lowerer) stmt(s cxxast.Stmt) {
	if s == nil {
		return
	}
	defer l.at(s)()
	switch s := s.(type) {
	case *cxxast.CompoundStmt:
		for _, c := range s.Body {
			l.stmt(c)
		}
	case *cxxast.DeclStmt:
		for _, d := range s.Decls {
			if v, ok := d.(*cxxast.Variable); ok {
				l.local(v)
			}
		}
	case *cxxast.ReturnStmt:
		if s.Value == nil {
			l.emit(OpRet, Void())
			return
		}
		var v Value
		if l.fn.Decl != nil && isReference(l.fn.Decl.ReturnType()) {
			v = l.lvalue(s.Value)
		} else {
			v = l.value(s.Value)
		}
		l.emit(OpRet, Void(), v)
	case *cxxast.IfStmt:
		l.emit(OpBr, Void(), l.value(s.Cond))
		l.stmt(s.Then)
		l.stmt(s.Else)
	case *cxxast.WhileStmt:
		l.emit(OpBr, Void(), l.value(s.Cond))
		l.stmt(s.Body)
	case *cxxast.DoStmt:
		l.stmt(s.Body)
		l.emit(OpBr, Void(), l.value(s.Cond))
	case *cxxast.ForStmt:
		l.stmt(s.Init)
		if s.Cond != nil {
			l.emit(OpBr, Void(), l.value(s.Cond))
		}
		l.stmt(s.Body)
		if s.Inc != nil {
			l.rvalue(s.Inc)
		}
	case cxxast.Expr:
		l.rvalue(s)
	default:
		switch s.StmtClass() {
		case cxxast.StmtBreak, cxxast.StmtContinue:
			l.emit(OpBr, Void())
		}
	}
}

// local gives a local variable its stack slot and runs its initializer.
func (l *lowerer) local(v *cxxast.Variable) {
	if v.HasGlobalStorage() {
		l.global(v)
		return
	}
	slot := l.alloca(v.Name(), l.layout.TypeOf(v.Type()))
	l.locals[v] = slot
	if init := v.Init(); init != nil {
		l.initInto(slot, init, v.Type())
	}
}

func isReference(t cxxast.QualType) bool {
	c := t.CanonicalType()
	return !c.IsNull() && c.TypePtr().IsReferenceType()
}

func (l *lowerer) initInto(addr Value, init cxxast.Expr, t cxxast.QualType) {
	if init == nil {
		return
	}
	if ce, ok := init.(*cxxast.CXXConstructExpr); ok {
		l.construct(addr, ce)
		return
	}
	if isReference(t) {
		l.store(l.lvalue(init), addr)
		return
	}
	l.store(l.rvalue(init), addr)
}

func (l *lowerer) construct(addr Value, ce *cxxast.CXXConstructExpr) {
	defer l.at(ce)()
	ctor := ce.Constructor()
	if ctor == nil {
		// Trivial construction: copy a single argument, otherwise nothing.
		if len(ce.Args) == 1 {
			l.store(l.rvalue(ce.Args[0]), addr)
		}
		return
	}
	args := append([]Value{addr}, l.args(ctor, ce.Args)...)
	l.call(l.declare(ctor), Void(), args...)
}

func (l *lowerer) args(fn cxxast.FunctionDecl, exprs []cxxast.Expr) []Value {
	out := make([]Value, 0, len(exprs))
	params := fn.Params()
	for i, a := range exprs {
		if i < len(params) && isReference(params[i].Type()) {
			out = append(out, l.lvalue(a))
			continue
		}
		out = append(out, l.value(a))
	}
	return out
}

// value is rvalue with an undefined placeholder for missing operands.
func (l *lowerer) value(e cxxast.Expr) Value {
	if v := l.rvalue(e); v != nil {
		return v
	}
	return NewUndef(Int(32))
}

func (l *lowerer) rvalue(e cxxast.Expr) Value {
	if e == nil {
		return nil
	}
	defer l.at(e)()
	t := l.layout.TypeOf(e.Type())
	switch e := e.(type) {
	case *cxxast.ParenExpr:
		return l.rvalue(e.Sub)
	case *cxxast.IntegerLiteral:
		return NewInt(t, e.Value)
	case *cxxast.FloatingLiteral:
		return NewFloat(t, e.Value)
	case *cxxast.StringLiteral:
		return NewString(e.Value)
	case *cxxast.CXXBoolLiteralExpr:
		if e.Value {
			return NewInt(Int(8), 1)
		}
		return NewInt(Int(8), 0)
	case *cxxast.CXXNullPtrLiteralExpr:
		return NewNull(PointerTo(Int(8)))
	case *cxxast.DeclRefExpr:
		switch d := e.Decl().(type) {
		case *cxxast.EnumConstantDecl:
			return NewInt(Int(32), d.Value)
		case cxxast.FunctionDecl:
			return l.declare(d)
		}
		addr := l.lvalue(e)
		if t.Kind == ArrayKind {
			return addr
		}
		return l.load(addr, t)
	case *cxxast.MemberExpr:
		if fn, ok := e.MemberDecl().(cxxast.FunctionDecl); ok {
			return l.declare(fn)
		}
		return l.load(l.lvalue(e), t)
	case *cxxast.CXXThisExpr:
		return l.thisValue()
	case *cxxast.UnaryOperator:
		return l.unary(e, t)
	case *cxxast.BinaryOperator:
		return l.binary(e, t)
	case *cxxast.ArraySubscriptExpr:
		return l.load(l.lvalue(e), t)
	case *cxxast.ConditionalOperator:
		return l.emit(OpSelect, t, l.value(e.Cond), l.value(e.True), l.value(e.False))
	case *cxxast.CXXMemberCallExpr:
		return l.memberCall(e)
	case cxxast.CallExpr:
		return l.directCall(e)
	case *cxxast.CXXConstructExpr:
		slot := l.alloca("", t)
		l.construct(slot, e)
		return l.load(slot, t)
	case *cxxast.CXXNewExpr:
		return l.newExpr(e)
	case *cxxast.CXXDeleteExpr:
		l.deleteExpr(e)
		return nil
	case *cxxast.UnknownExpr:
		var last Value
		for _, op := range e.Operands {
			if x, ok := op.(cxxast.Expr); ok {
				last = l.rvalue(x)
				continue
			}
			l.stmt(op)
		}
		switch {
		case last == nil:
		case e.Type().IsNull():
			return last
		case e.Syntax == "cast_expression":
			return l.cast(last, t)
		}
		return NewUndef(t)
	}
	glog.V(2).Infof("ir: no lowering for %s", e.StmtClassName())
	return NewUndef(t)
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func (l *lowerer) binop(op string, t *Type, lhs, rhs Value) Value {
	if isComparison(op) {
		i := l.emit(OpICmp, Int(1), lhs, rhs)
		i.Predicate = op
		return i
	}
	if lhs.Type().IsPointer() && (op == "+" || op == "-") {
		return l.gepIndex(lhs, rhs, lhs.Type().Elem)
	}
	i := l.emit(OpBinary, t, lhs, rhs)
	i.Predicate = op
	return i
}

func (l *lowerer) unary(e *cxxast.UnaryOperator, t *Type) Value {
	switch e.Opcode {
	case "&":
		return l.lvalue(e.Sub)
	case "*":
		return l.load(l.value(e.Sub), t)
	case "++", "--":
		addr := l.lvalue(e.Sub)
		old := l.load(addr, nil)
		updated := l.binop(e.Opcode[:1], old.Type(), old, NewInt(Int(32), 1))
		l.store(updated, addr)
		if e.Postfix {
			return old
		}
		return updated
	case "-":
		v := l.value(e.Sub)
		return l.binop("-", t, NewInt(v.Type(), 0), v)
	case "~":
		v := l.value(e.Sub)
		return l.binop("^", t, v, NewInt(v.Type(), -1))
	case "!":
		v := l.value(e.Sub)
		return l.binop("==", t, v, NewInt(v.Type(), 0))
	}
	return l.value(e.Sub)
}

func (l *lowerer) binary(e *cxxast.BinaryOperator, t *Type) Value {
	switch {
	case e.Opcode == "=":
		v := l.value(e.RHS)
		l.store(v, l.lvalue(e.LHS))
		return v
	case e.IsAssignmentOp():
		addr := l.lvalue(e.LHS)
		old := l.load(addr, nil)
		v := l.binop(e.Opcode[:len(e.Opcode)-1], old.Type(), old, l.value(e.RHS))
		l.store(v, addr)
		return v
	case e.Opcode == ",":
		l.rvalue(e.LHS)
		return l.value(e.RHS)
	}
	return l.binop(e.Opcode, t, l.value(e.LHS), l.value(e.RHS))
}

// lvalue returns the address of the object e designates.  Expressions that
// do not designate an object are materialized in a temporary.
func (l *lowerer) lvalue(e cxxast.Expr) Value {
	defer l.at(e)()
	t := l.layout.TypeOf(e.Type())
	switch e := e.(type) {
	case *cxxast.ParenExpr:
		return l.lvalue(e.Sub)
	case *cxxast.DeclRefExpr:
		d := e.Decl()
		var addr Value
		switch v := d.(type) {
		case nil:
		case *cxxast.Variable:
			if slot, ok := l.locals[v]; ok {
				addr = slot
			} else {
				addr = l.global(v)
			}
		default:
			addr = l.locals[d]
		}
		if addr == nil {
			return NewUndef(PointerTo(t))
		}
		if isReference(d.Type()) {
			return l.load(addr, nil)
		}
		return addr
	case *cxxast.MemberExpr:
		return l.member(e, t)
	case *cxxast.UnaryOperator:
		if e.Opcode == "*" {
			return l.value(e.Sub)
		}
	case *cxxast.ArraySubscriptExpr:
		var base Value
		if bt := e.Base.Type().CanonicalType(); !bt.IsNull() && bt.TypePtr().TypeClass() == cxxast.TypeConstantArray {
			base = l.lvalue(e.Base)
		} else {
			base = l.value(e.Base)
		}
		return l.gepIndex(base, l.value(e.Index), t)
	case cxxast.CallExpr:
		if fn := e.DirectCallee(); fn != nil && isReference(fn.ReturnType()) {
			return l.rvalue(e)
		}
	}
	v := l.value(e)
	slot := l.alloca("", v.Type())
	l.store(v, slot)
	return slot
}

func (l *lowerer) member(e *cxxast.MemberExpr, t *Type) Value {
	switch m := e.MemberDecl().(type) {
	case *cxxast.Variable:
		return l.global(m)
	case *cxxast.FieldDecl:
		var base Value
		if e.Arrow {
			base = l.value(e.Base)
		} else {
			base = l.lvalue(e.Base)
		}
		rec := recordOf(e.Base.Type(), e.Arrow)
		if rec == nil {
			rec = m.Parent()
		}
		off, ok := l.layout.FieldOffset(rec, m)
		addr := l.gep(base, off, t)
		addr.OffsetKnown = ok
		if isReference(m.Type()) {
			return l.load(addr, nil)
		}
		return addr
	}
	return NewUndef(PointerTo(t))
}

func recordOf(t cxxast.QualType, arrow bool) *cxxast.CXXRecordDecl {
	c := t.CanonicalType()
	if c.IsNull() {
		return nil
	}
	if arrow {
		c = c.TypePtr().PointeeType().CanonicalType()
		if c.IsNull() {
			return nil
		}
	}
	return c.TypePtr().AsCXXRecordDecl()
}

func (l *lowerer) directCall(e cxxast.CallExpr) Value {
	fn := e.DirectCallee()
	if fn == nil {
		callee := l.value(e.Callee())
		args := make([]Value, 0, len(e.Args()))
		for _, a := range e.Args() {
			args = append(args, l.value(a))
		}
		return l.call(callee, l.layout.TypeOf(e.Type()), args...)
	}
	return l.call(l.declare(fn), l.layout.TypeOf(fn.ReturnType()), l.args(fn, e.Args())...)
}

func (l *lowerer) memberCall(e *cxxast.CXXMemberCallExpr) Value {
	m := e.MethodDecl()
	if m == nil {
		return l.directCall(e)
	}
	var args []Value
	if !m.IsStatic() {
		obj := e.ImplicitObjectArgument()
		arrow := false
		if me, ok := e.Callee().(*cxxast.MemberExpr); ok {
			arrow = me.Arrow
		}
		var this Value
		if arrow {
			this = l.value(obj)
		} else {
			this = l.lvalue(obj)
		}
		if rec := recordOf(obj.Type(), arrow); rec != nil && m.Parent() != nil {
			if off, ok := l.layout.BaseOffset(rec, m.Parent()); ok && off != 0 {
				this = l.gep(this, off, l.layout.TypeOf(l.recordType(m.Parent())))
			}
		}
		args = append(args, this)
	}
	args = append(args, l.args(m, e.Args())...)
	return l.call(l.declare(m), l.layout.TypeOf(m.ReturnType()), args...)
}

func (l *lowerer) newExpr(e *cxxast.CXXNewExpr) Value {
	elem := l.layout.TypeOf(e.Allocated)
	bytes := PointerTo(Int(8))
	var raw Value
	if e.IsArray() {
		n := l.value(e.ArraySize)
		size := l.binop("*", Int(64), n, NewInt(Int(64), elem.Size))
		raw = l.call(l.runtime(OperatorNewArray, bytes, Int(64)), bytes, size)
	} else {
		raw = l.call(l.runtime(OperatorNew, bytes, Int(64)), bytes, NewInt(Int(64), elem.Size))
	}
	ptr := l.cast(raw, PointerTo(elem))
	switch {
	case e.Construct != nil:
		l.construct(ptr, e.Construct)
	case len(e.Args) == 1:
		l.store(l.value(e.Args[0]), ptr)
	}
	return ptr
}

func (l *lowerer) deleteExpr(e *cxxast.CXXDeleteExpr) {
	ptr := l.value(e.Arg)
	if rec := recordOf(e.Arg.Type(), true); rec != nil {
		if dtor := definition(rec).Destructor(); dtor != nil {
			l.call(l.declare(dtor), Void(), ptr)
		}
	}
	bytes := PointerTo(Int(8))
	name := OperatorDelete
	if e.Array {
		name = OperatorDeleteArray
	}
	l.call(l.runtime(name, Void(), bytes), Void(), l.cast(ptr, bytes))
}
