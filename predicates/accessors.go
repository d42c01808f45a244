// Copyright © 2026 The Crisp authors

package predicates

import (
	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/ir"
)

// Accessors the tables name that are not methods.

func descendantCursor(s cxxast.Stmt) bridge.Cursor[cxxast.Stmt] {
	return cxxast.NewDescendantCursor(s)
}

func operands(i *ir.Instruction) []ir.Value { return i.Operands }

func argNo(a *ir.Argument) int { return a.Index }

func elementType(t *ir.Type) *ir.Type { return t.Elem }
