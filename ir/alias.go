// Copyright © 2026 The Crisp authors

package ir

// AliasResult is the answer of an alias query.  The numeric codes are part
// of the rule interface: alias/3 binds them unchanged.
type AliasResult int

// Possible AliasResult values.
const (
	NoAlias AliasResult = iota
	MayAlias
	PartialAlias
	MustAlias
	// NumAliasResults counts the valid AliasResult values.
	NumAliasResults
)

var aliasResultNames = [...]string{
	NoAlias:      "NoAlias",
	MayAlias:     "MayAlias",
	PartialAlias: "PartialAlias",
	MustAlias:    "MustAlias",
}

var _ = [1]struct{}{}[len(aliasResultNames)-int(NumAliasResults)]

func (r AliasResult) String() string {
	if r < 0 || r >= NumAliasResults {
		return "MayAlias"
	}
	return aliasResultNames[r]
}

// AliasAnalysis answers alias queries between locations of one module.  It
// reasons about the underlying object of each pointer: distinct stack slots,
// globals and heap allocations never alias, constant offsets from the same
// object are compared as byte ranges, and a local object whose address
// never escapes cannot alias a pointer that came from elsewhere.
type AliasAnalysis struct {
	escapes map[Value]bool
}

// NewAliasAnalysis returns an alias analysis with an empty cache.
func NewAliasAnalysis() *AliasAnalysis {
	return &AliasAnalysis{escapes: map[Value]bool{}}
}

// Alias compares two locations.
func (a *AliasAnalysis) Alias(x, y Location) AliasResult {
	if x.Ptr == nil || y.Ptr == nil {
		return MayAlias
	}
	if x.Size == 0 || y.Size == 0 {
		return NoAlias
	}
	bx, ox, kx := Underlying(x.Ptr)
	by, oy, ky := Underlying(y.Ptr)
	if isNull(bx) || isNull(by) {
		return NoAlias
	}
	if bx == by {
		if !kx || !ky || x.Size == UnknownSize || y.Size == UnknownSize {
			if kx && ky && ox == oy {
				return PartialAlias
			}
			return MayAlias
		}
		switch {
		case ox == oy && x.Size == y.Size:
			return MustAlias
		case ox+x.Size <= oy || oy+y.Size <= ox:
			return NoAlias
		}
		return PartialAlias
	}
	ix, iy := isIdentified(bx), isIdentified(by)
	if ix && iy {
		return NoAlias
	}
	if ix && isLocal(bx) && !a.escaped(bx) && !iy {
		return NoAlias
	}
	if iy && isLocal(by) && !a.escaped(by) && !ix {
		return NoAlias
	}
	return MayAlias
}

// Underlying strips address arithmetic and casts from v.  It returns the
// base pointer, the accumulated byte offset and whether the offset is
// known.
func Underlying(v Value) (Value, int64, bool) {
	var off int64
	known := true
	for {
		i, ok := v.(*Instruction)
		if !ok {
			return v, off, known
		}
		switch i.Op {
		case OpGetElementPtr:
			if !i.OffsetKnown {
				known = false
			}
			off += i.Offset
			v = i.Operands[0]
		case OpCast:
			v = i.Operands[0]
		default:
			return v, off, known
		}
	}
}

func isNull(v Value) bool {
	c, ok := v.(*Constant)
	return ok && c.Kind == ConstantNull
}

// isIdentified reports whether v is an object allocation: a stack slot, a
// global or the result of operator new.
func isIdentified(v Value) bool {
	switch v := v.(type) {
	case *Global:
		return true
	case *Instruction:
		return isLocal(v)
	}
	return false
}

func isLocal(v Value) bool {
	i, ok := v.(*Instruction)
	if !ok {
		return false
	}
	switch i.Op {
	case OpAlloca:
		return true
	case OpCall:
		if f := i.CalledFunction(); f != nil {
			return f.Name() == OperatorNew || f.Name() == OperatorNewArray
		}
	}
	return false
}

// escaped reports whether the address v, or an address derived from it, is
// stored to memory, passed to a call or returned.
func (a *AliasAnalysis) escaped(v Value) bool {
	if e, ok := a.escapes[v]; ok {
		return e
	}
	// Assume no escape while visiting, to cut cycles.
	a.escapes[v] = false
	e := false
	for _, u := range v.Users() {
		switch u.Op {
		case OpStore:
			e = u.Operands[0] == v
		case OpCall:
			for _, arg := range u.CallArgs() {
				if arg == v {
					e = true
				}
			}
		case OpRet, OpSelect:
			e = true
		case OpGetElementPtr, OpCast:
			e = a.escaped(u)
		}
		if e {
			break
		}
	}
	a.escapes[v] = e
	return e
}
