// Copyright © 2026 The Crisp authors

// Package ir is a small SSA-like intermediate representation lowered from the
// cxxast program model.  It is shaped after the LLVM value hierarchy that
// module rules query: a Module owns Functions, a Function owns Arguments and
// a flat list of Instructions, and every Value records its users.
//
// The lowering follows unoptimised code generation: every named local gets
// an alloca, reads are loads and writes are stores, so memory rules can be
// written against loads, stores and alias queries.
package ir

import (
	"fmt"
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
)

// Value is implemented by everything an instruction can use as an operand.
type Value interface {
	// Name returns the value name, or "" for unnamed values.
	Name() string
	Type() *Type
	// Users returns the instructions using the value, in creation order.
	// An instruction using the value twice appears twice.
	Users() []*Instruction
	// Sort returns the class name of the value, for example "StoreInst".
	Sort() string
	value() *valueBase
}

type valueBase struct {
	name  string
	typ   *Type
	users []*Instruction
}

func (v *valueBase) value() *valueBase { return v }

func (v *valueBase) Name() string { return v.name }

func (v *valueBase) Type() *Type { return v.typ }

func (v *valueBase) Users() []*Instruction { return v.users }

func addUse(v Value, user *Instruction) {
	if v == nil {
		return
	}
	b := v.value()
	b.users = append(b.users, user)
}

// Module is the unit a module run analyses.
type Module struct {
	// Identifier is the module name, the path of the source file.
	Identifier string
	Source     *cxxast.SourceManager

	functions []*Function
	globals   []*Global
	byName    map[string]*Function
	globalMap map[string]*Global
}

// NewModule returns an empty module.
func NewModule(id string, sm *cxxast.SourceManager) *Module {
	return &Module{
		Identifier: id,
		Source:     sm,
		byName:     map[string]*Function{},
		globalMap:  map[string]*Global{},
	}
}

// Functions returns the functions of the module, definitions and
// declarations, in creation order.
func (m *Module) Functions() []*Function { return m.functions }

// Globals returns the global variables of the module.
func (m *Module) Globals() []*Global { return m.globals }

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function { return m.byName[name] }

// Global returns the global variable with the given name, or nil.
func (m *Module) Global(name string) *Global { return m.globalMap[name] }

// AddFunction returns the function named name, creating a declaration with
// type t when the module has none.
func (m *Module) AddFunction(name string, t *Type) *Function {
	if f, ok := m.byName[name]; ok {
		return f
	}
	f := &Function{valueBase: valueBase{name: name, typ: PointerTo(t)}, Signature: t, parent: m}
	m.functions = append(m.functions, f)
	m.byName[name] = f
	return f
}

// AddGlobal returns the global named name, creating it when missing.
func (m *Module) AddGlobal(name string, t *Type) *Global {
	if g, ok := m.globalMap[name]; ok {
		return g
	}
	g := &Global{valueBase: valueBase{name: name, typ: PointerTo(t)}, ValueType: t}
	m.globals = append(m.globals, g)
	m.globalMap[name] = g
	return g
}

// Function is a function definition or declaration.  Its value is the
// address of the function.
type Function struct {
	valueBase
	Signature *Type
	// Decl is the source declaration, nil for runtime helpers such as
	// operator new.
	Decl cxxast.FunctionDecl

	parent *Module
	args   []*Argument
	insts  []*Instruction
	body   bool
}

func (f *Function) Sort() string { return "Function" }

func (f *Function) Parent() *Module { return f.parent }

// Args returns the formal arguments.  Methods take the object pointer
// "this" as their first argument.
func (f *Function) Args() []*Argument { return f.args }

// Instructions returns the instructions of the body in order.
func (f *Function) Instructions() []*Instruction { return f.insts }

// IsDeclaration reports whether the function has no body in the module.
func (f *Function) IsDeclaration() bool { return !f.body }

// ReturnType returns the result type of the signature.
func (f *Function) ReturnType() *Type { return f.Signature.Elem }

// AddArg appends a formal argument.
func (f *Function) AddArg(name string, t *Type) *Argument {
	a := &Argument{valueBase: valueBase{name: name, typ: t}, parent: f, Index: len(f.args)}
	f.args = append(f.args, a)
	return a
}

// Argument is a formal argument of a function.
type Argument struct {
	valueBase
	Index  int
	parent *Function
}

func (a *Argument) Sort() string { return "Argument" }

func (a *Argument) Parent() *Function { return a.parent }

// Global is a global variable.  Its value is the address of the variable.
type Global struct {
	valueBase
	ValueType *Type
	Decl      cxxast.VarDecl
}

func (g *Global) Sort() string { return "GlobalVariable" }

// Constant is an immediate operand.
type Constant struct {
	valueBase
	Kind  ConstantKind
	Int   int64
	Float float64
	Text  string
}

// ConstantKind distinguishes constants.
type ConstantKind uint

// Possible ConstantKind values.
const (
	ConstantInt ConstantKind = iota
	ConstantFP
	ConstantNull
	ConstantString
	ConstantUndef
	// ConstantKindMax is numerically greater than every valid ConstantKind.
	ConstantKindMax
)

var constantSorts = [...]string{
	ConstantInt:    "ConstantInt",
	ConstantFP:     "ConstantFP",
	ConstantNull:   "ConstantPointerNull",
	ConstantString: "ConstantDataArray",
	ConstantUndef:  "UndefValue",
}

var _ = [1]struct{}{}[len(constantSorts)-int(ConstantKindMax)]

func (c *Constant) Sort() string { return constantSorts[c.Kind] }

// NewInt returns an integer constant of type t.
func NewInt(t *Type, v int64) *Constant {
	return &Constant{valueBase: valueBase{typ: t}, Kind: ConstantInt, Int: v}
}

// NewFloat returns a floating point constant of type t.
func NewFloat(t *Type, v float64) *Constant {
	return &Constant{valueBase: valueBase{typ: t}, Kind: ConstantFP, Float: v}
}

// NewNull returns the null pointer of pointer type t.
func NewNull(t *Type) *Constant {
	return &Constant{valueBase: valueBase{typ: t}, Kind: ConstantNull}
}

// NewString returns a string constant.  Its type is a pointer to char.
func NewString(v string) *Constant {
	return &Constant{valueBase: valueBase{typ: PointerTo(Int(8))}, Kind: ConstantString, Text: v}
}

// NewUndef returns an undefined value of type t.
func NewUndef(t *Type) *Constant {
	return &Constant{valueBase: valueBase{typ: t}, Kind: ConstantUndef}
}

func (c *Constant) String() string {
	switch c.Kind {
	case ConstantInt:
		return fmt.Sprintf("%s %d", c.typ, c.Int)
	case ConstantFP:
		return fmt.Sprintf("%s %g", c.typ, c.Float)
	case ConstantNull:
		return fmt.Sprintf("%s null", c.typ)
	case ConstantString:
		return fmt.Sprintf("%s c%q", c.typ, c.Text)
	}
	return fmt.Sprintf("%s undef", c.typ)
}

// Instruction is an operation in a function body.
type Instruction struct {
	valueBase
	Op       Opcode
	Operands []Value
	// Predicate is the operator of a BinaryOperator or ICmp instruction,
	// spelled as in C.
	Predicate string
	// Offset is the constant byte offset a GetElementPtr adds to its base.
	// It is meaningful only when OffsetKnown is set.
	Offset      int64
	OffsetKnown bool
	// Allocated is the type an Alloca reserves storage for.
	Allocated *Type
	// Loc is the source location of the lowered expression or statement.
	Loc cxxast.SourceLocation

	parent *Function
}

func (i *Instruction) Sort() string { return i.Op.Sort() }

func (i *Instruction) Parent() *Function { return i.parent }

// OpcodeName returns the opcode name, for example "store".
func (i *Instruction) OpcodeName() string { return i.Op.String() }

// PointerOperand returns the address a load, store or GetElementPtr
// accesses, or nil for other instructions.
func (i *Instruction) PointerOperand() Value {
	switch i.Op {
	case OpLoad, OpGetElementPtr:
		return i.Operands[0]
	case OpStore:
		return i.Operands[1]
	}
	return nil
}

// ValueOperand returns the stored value of a store, or nil.
func (i *Instruction) ValueOperand() Value {
	if i.Op == OpStore {
		return i.Operands[0]
	}
	return nil
}

// CalledFunction returns the callee of a direct call, or nil.
func (i *Instruction) CalledFunction() *Function {
	if i.Op != OpCall || len(i.Operands) == 0 {
		return nil
	}
	f, _ := i.Operands[len(i.Operands)-1].(*Function)
	return f
}

// CallArgs returns the actual arguments of a call.
func (i *Instruction) CallArgs() []Value {
	if i.Op != OpCall || len(i.Operands) == 0 {
		return nil
	}
	return i.Operands[:len(i.Operands)-1]
}

// MayReadFromMemory reports whether the instruction may read memory.
func (i *Instruction) MayReadFromMemory() bool {
	return i.Op == OpLoad || i.Op == OpCall
}

// MayWriteToMemory reports whether the instruction may write memory.
func (i *Instruction) MayWriteToMemory() bool {
	return i.Op == OpStore || i.Op == OpCall
}

func (i *Instruction) String() string {
	var b strings.Builder
	if i.name != "" {
		fmt.Fprintf(&b, "%%%s = ", i.name)
	}
	b.WriteString(i.Op.String())
	if i.Predicate != "" {
		b.WriteString(" " + i.Predicate)
	}
	if i.Allocated != nil {
		b.WriteString(" " + i.Allocated.String())
	}
	for j, op := range i.Operands {
		if j > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(operandString(op))
	}
	if i.Op == OpGetElementPtr && i.OffsetKnown {
		fmt.Fprintf(&b, ", +%d", i.Offset)
	}
	return b.String()
}

func operandString(v Value) string {
	switch v := v.(type) {
	case *Constant:
		return v.String()
	case *Function, *Global:
		return "@" + v.Name()
	}
	if v.Name() != "" {
		return "%" + v.Name()
	}
	return "%" + v.Sort()
}

// Location is a memory location for alias queries: a pointer and the number
// of bytes accessed through it.  Locations are auxiliary records, owned by
// the session that creates them.
type Location struct {
	Ptr  Value
	Size int64
}

// UnknownSize is the size of a location whose extent is not known.
const UnknownSize int64 = -1

// LocationOf returns the location accessed through ptr.  The size is the
// size of the pointee type, or UnknownSize when ptr is not a pointer.
func LocationOf(ptr Value) Location {
	t := ptr.Type()
	if t == nil || t.Kind != PointerKind || t.Elem == nil || t.Elem.Size <= 0 {
		return Location{Ptr: ptr, Size: UnknownSize}
	}
	return Location{Ptr: ptr, Size: t.Elem.Size}
}

// StoreLocation returns the location written by the store s.
func StoreLocation(s *Instruction) (Location, bool) {
	if s == nil || s.Op != OpStore {
		return Location{}, false
	}
	size := UnknownSize
	if t := s.ValueOperand().Type(); t != nil && t.Size > 0 {
		size = t.Size
	}
	return Location{Ptr: s.PointerOperand(), Size: size}, true
}

// LoadLocation returns the location read by the load l.
func LoadLocation(l *Instruction) (Location, bool) {
	if l == nil || l.Op != OpLoad {
		return Location{}, false
	}
	size := UnknownSize
	if l.typ != nil && l.typ.Size > 0 {
		size = l.typ.Size
	}
	return Location{Ptr: l.PointerOperand(), Size: size}, true
}
