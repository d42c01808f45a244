// Copyright © 2026 The Crisp authors

package cxxast

// DeclKind is the runtime kind of a declaration.
type DeclKind uint

// Possible DeclKind values.  The names mirror the kind names rule files see
// in isA/2 facts once the "Decl" suffix is appended.
const (
	DeclInvalid DeclKind = iota
	DeclTranslationUnit
	DeclNamespace
	DeclLinkageSpec
	DeclCXXRecord
	DeclAccessSpec
	DeclField
	DeclFunction
	DeclCXXMethod
	DeclCXXConstructor
	DeclCXXDestructor
	DeclVar
	DeclParmVar
	DeclTypedef
	DeclEnum
	DeclEnumConstant
	// DeclKindMax is numerically greater than every valid DeclKind.
	DeclKindMax
)

var declKindNames = [...]string{
	DeclInvalid:         "Invalid",
	DeclTranslationUnit: "TranslationUnit",
	DeclNamespace:       "Namespace",
	DeclLinkageSpec:     "LinkageSpec",
	DeclCXXRecord:       "CXXRecord",
	DeclAccessSpec:      "AccessSpec",
	DeclField:           "Field",
	DeclFunction:        "Function",
	DeclCXXMethod:       "CXXMethod",
	DeclCXXConstructor:  "CXXConstructor",
	DeclCXXDestructor:   "CXXDestructor",
	DeclVar:             "Var",
	DeclParmVar:         "ParmVar",
	DeclTypedef:         "Typedef",
	DeclEnum:            "Enum",
	DeclEnumConstant:    "EnumConstant",
}

// The name table must cover every kind.
var _ = [1]struct{}{}[len(declKindNames)-int(DeclKindMax)]

// String returns the kind name without the "Decl" suffix.
func (k DeclKind) String() string {
	if k >= DeclKindMax {
		return "Invalid"
	}
	return declKindNames[k]
}

// TypeClass is the runtime class of a canonical or sugared type.
type TypeClass uint

// Possible TypeClass values.
const (
	TypeInvalid TypeClass = iota
	TypeBuiltin
	TypePointer
	TypeLValueReference
	TypeRecord
	TypeEnum
	TypeFunctionProto
	TypeTypedef
	TypeConstantArray
	// TypeClassMax is numerically greater than every valid TypeClass.
	TypeClassMax
)

var typeClassNames = [...]string{
	TypeInvalid:         "Invalid",
	TypeBuiltin:         "Builtin",
	TypePointer:         "Pointer",
	TypeLValueReference: "LValueReference",
	TypeRecord:          "Record",
	TypeEnum:            "Enum",
	TypeFunctionProto:   "FunctionProto",
	TypeTypedef:         "Typedef",
	TypeConstantArray:   "ConstantArray",
}

var _ = [1]struct{}{}[len(typeClassNames)-int(TypeClassMax)]

// String returns the class name without the "Type" suffix.
func (c TypeClass) String() string {
	if c >= TypeClassMax {
		return "Invalid"
	}
	return typeClassNames[c]
}

// StmtClass is the runtime class of a statement or expression.
type StmtClass uint

// Possible StmtClass values.
const (
	StmtInvalid StmtClass = iota
	StmtCompound
	StmtDecl
	StmtReturn
	StmtIf
	StmtWhile
	StmtDo
	StmtFor
	StmtBreak
	StmtContinue
	StmtNull
	ExprCall
	ExprCXXMemberCall
	ExprMember
	ExprDeclRef
	ExprCXXThis
	ExprBinaryOperator
	ExprUnaryOperator
	ExprIntegerLiteral
	ExprFloatingLiteral
	ExprStringLiteral
	ExprCXXBoolLiteral
	ExprCXXNullPtrLiteral
	ExprParen
	ExprArraySubscript
	ExprConditionalOperator
	ExprCXXNew
	ExprCXXDelete
	ExprCXXConstruct
	ExprUnknown
	// StmtClassMax is numerically greater than every valid StmtClass.
	StmtClassMax
)

var stmtClassNames = [...]string{
	StmtInvalid:             "Invalid",
	StmtCompound:            "CompoundStmt",
	StmtDecl:                "DeclStmt",
	StmtReturn:              "ReturnStmt",
	StmtIf:                  "IfStmt",
	StmtWhile:               "WhileStmt",
	StmtDo:                  "DoStmt",
	StmtFor:                 "ForStmt",
	StmtBreak:               "BreakStmt",
	StmtContinue:            "ContinueStmt",
	StmtNull:                "NullStmt",
	ExprCall:                "CallExpr",
	ExprCXXMemberCall:       "CXXMemberCallExpr",
	ExprMember:              "MemberExpr",
	ExprDeclRef:             "DeclRefExpr",
	ExprCXXThis:             "CXXThisExpr",
	ExprBinaryOperator:      "BinaryOperator",
	ExprUnaryOperator:       "UnaryOperator",
	ExprIntegerLiteral:      "IntegerLiteral",
	ExprFloatingLiteral:     "FloatingLiteral",
	ExprStringLiteral:       "StringLiteral",
	ExprCXXBoolLiteral:      "CXXBoolLiteralExpr",
	ExprCXXNullPtrLiteral:   "CXXNullPtrLiteralExpr",
	ExprParen:               "ParenExpr",
	ExprArraySubscript:      "ArraySubscriptExpr",
	ExprConditionalOperator: "ConditionalOperator",
	ExprCXXNew:              "CXXNewExpr",
	ExprCXXDelete:           "CXXDeleteExpr",
	ExprCXXConstruct:        "CXXConstructExpr",
	ExprUnknown:             "UnknownExpr",
}

var _ = [1]struct{}{}[len(stmtClassNames)-int(StmtClassMax)]

// String returns the full class name, for example "CallExpr".
func (c StmtClass) String() string {
	if c >= StmtClassMax {
		return "Invalid"
	}
	return stmtClassNames[c]
}

// AccessSpecifier is the C++ access of a member or base.
type AccessSpecifier uint

// Possible AccessSpecifier values.  AccessNone applies to declarations that
// are not class members.
const (
	AccessPublic AccessSpecifier = iota
	AccessProtected
	AccessPrivate
	AccessNone
	// NumAccessSpecifiers counts the valid AccessSpecifier values.
	NumAccessSpecifiers
)

var accessSpecifierNames = [...]string{
	AccessPublic:    "public",
	AccessProtected: "protected",
	AccessPrivate:   "private",
	AccessNone:      "none",
}

var _ = [1]struct{}{}[len(accessSpecifierNames)-int(NumAccessSpecifiers)]

func (a AccessSpecifier) String() string {
	if a >= NumAccessSpecifiers {
		return "none"
	}
	return accessSpecifierNames[a]
}
