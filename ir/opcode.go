// Copyright © 2026 The Crisp authors

package ir

// Opcode is the operation of an instruction.
type Opcode uint

// Possible Opcode values.
const (
	OpInvalid Opcode = iota
	OpAlloca
	OpLoad
	OpStore
	OpGetElementPtr
	OpCall
	OpRet
	OpBr
	OpBinary
	OpICmp
	OpSelect
	OpCast
	// OpcodeMax is numerically greater than every valid Opcode.
	OpcodeMax
)

var opcodeNames = [...]string{
	OpInvalid:       "invalid",
	OpAlloca:        "alloca",
	OpLoad:          "load",
	OpStore:         "store",
	OpGetElementPtr: "getelementptr",
	OpCall:          "call",
	OpRet:           "ret",
	OpBr:            "br",
	OpBinary:        "binop",
	OpICmp:          "icmp",
	OpSelect:        "select",
	OpCast:          "cast",
}

var _ = [1]struct{}{}[len(opcodeNames)-int(OpcodeMax)]

var opcodeSorts = [...]string{
	OpInvalid:       "Instruction",
	OpAlloca:        "AllocaInst",
	OpLoad:          "LoadInst",
	OpStore:         "StoreInst",
	OpGetElementPtr: "GetElementPtrInst",
	OpCall:          "CallInst",
	OpRet:           "ReturnInst",
	OpBr:            "BranchInst",
	OpBinary:        "BinaryOperator",
	OpICmp:          "ICmpInst",
	OpSelect:        "SelectInst",
	OpCast:          "CastInst",
}

var _ = [1]struct{}{}[len(opcodeSorts)-int(OpcodeMax)]

func (op Opcode) String() string {
	if op >= OpcodeMax {
		return opcodeNames[OpInvalid]
	}
	return opcodeNames[op]
}

// Sort returns the instruction class name of op.
func (op Opcode) Sort() string {
	if op >= OpcodeMax {
		return opcodeSorts[OpInvalid]
	}
	return opcodeSorts[op]
}
