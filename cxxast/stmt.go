// Copyright © 2026 The Crisp authors

package cxxast

// Stmt is implemented by every statement and expression.
type Stmt interface {
	StmtClass() StmtClass
	// StmtClassName returns the class name, for example "CXXMemberCallExpr".
	StmtClassName() string
	SourceRange() SourceRange
	BeginLoc() SourceLocation
	// Children returns the direct sub-statements in source order.  Absent
	// optional operands are omitted.
	Children() []Stmt
	stmt() *stmtBase
}

// Expr is a statement that produces a value.
type Expr interface {
	Stmt
	Type() QualType
	// IgnoreParenImpCasts strips enclosing parentheses.
	IgnoreParenImpCasts() Expr
	// IsImplicitCXXThis reports whether the expression is the implicit
	// object of a member access written without "this->".
	IsImplicitCXXThis() bool
	expr() *exprBase
}

type stmtBase struct {
	class StmtClass
	rng   SourceRange
}

func (s *stmtBase) stmt() *stmtBase { return s }

func (s *stmtBase) StmtClass() StmtClass { return s.class }

func (s *stmtBase) StmtClassName() string { return s.class.String() }

func (s *stmtBase) SourceRange() SourceRange { return s.rng }

func (s *stmtBase) BeginLoc() SourceLocation { return s.rng.Begin }

func (s *stmtBase) Children() []Stmt { return nil }

type exprBase struct {
	stmtBase
	self Expr
	typ  QualType
}

func (e *exprBase) expr() *exprBase { return e }

func (e *exprBase) Type() QualType { return e.typ }

func (e *exprBase) IgnoreParenImpCasts() Expr { return e.self }

func (e *exprBase) IsImplicitCXXThis() bool {
	this, ok := e.self.IgnoreParenImpCasts().(*CXXThisExpr)
	return ok && this.Implicit
}

func (e *exprBase) setup(class StmtClass, self Expr, rng SourceRange, t QualType) {
	e.class = class
	e.self = self
	e.rng = rng
	e.typ = t
}

// SetExprType replaces the type of an expression once it is known.
func SetExprType(e Expr, t QualType) { e.expr().typ = t }

func appendStmts[S Stmt](out []Stmt, ss ...S) []Stmt {
	for _, s := range ss {
		if Stmt(s) != nil {
			out = append(out, s)
		}
	}
	return out
}

// CompoundStmt is a braced block.
type CompoundStmt struct {
	stmtBase
	Body []Stmt
}

func NewCompoundStmt(rng SourceRange, body []Stmt) *CompoundStmt {
	return &CompoundStmt{stmtBase: stmtBase{StmtCompound, rng}, Body: body}
}

func (s *CompoundStmt) Children() []Stmt { return appendStmts(nil, s.Body...) }

// DeclStmt is a declaration used as a statement.  Its children are the
// initializers of the declared variables.
type DeclStmt struct {
	stmtBase
	Decls []Decl
}

func NewDeclStmt(rng SourceRange, decls []Decl) *DeclStmt {
	return &DeclStmt{stmtBase: stmtBase{StmtDecl, rng}, Decls: decls}
}

func (s *DeclStmt) Children() []Stmt {
	var out []Stmt
	for _, d := range s.Decls {
		if v, ok := d.(VarDecl); ok && v.Init() != nil {
			out = append(out, v.Init())
		}
	}
	return out
}

// ReturnStmt is a return statement.  Value is nil for a bare return.
type ReturnStmt struct {
	stmtBase
	Value Expr
}

func NewReturnStmt(rng SourceRange, value Expr) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{StmtReturn, rng}, Value: value}
}

func (s *ReturnStmt) Children() []Stmt { return appendStmts(nil, s.Value) }

// IfStmt is an if statement.  Else may be nil.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

func NewIfStmt(rng SourceRange, cond Expr, then, els Stmt) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{StmtIf, rng}, Cond: cond, Then: then, Else: els}
}

func (s *IfStmt) Children() []Stmt {
	return appendStmts(appendStmts(nil, s.Cond), s.Then, s.Else)
}

// WhileStmt is a while loop.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

func NewWhileStmt(rng SourceRange, cond Expr, body Stmt) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{StmtWhile, rng}, Cond: cond, Body: body}
}

func (s *WhileStmt) Children() []Stmt { return appendStmts(appendStmts(nil, s.Cond), s.Body) }

// DoStmt is a do-while loop.
type DoStmt struct {
	stmtBase
	Body Stmt
	Cond Expr
}

func NewDoStmt(rng SourceRange, body Stmt, cond Expr) *DoStmt {
	return &DoStmt{stmtBase: stmtBase{StmtDo, rng}, Body: body, Cond: cond}
}

func (s *DoStmt) Children() []Stmt { return appendStmts(appendStmts(nil, s.Body), s.Cond) }

// ForStmt is a for loop.  Every part may be nil.
type ForStmt struct {
	stmtBase
	Init Stmt
	Cond Expr
	Inc  Expr
	Body Stmt
}

func NewForStmt(rng SourceRange, init Stmt, cond, inc Expr, body Stmt) *ForStmt {
	return &ForStmt{stmtBase: stmtBase{StmtFor, rng}, Init: init, Cond: cond, Inc: inc, Body: body}
}

func (s *ForStmt) Children() []Stmt {
	out := appendStmts(nil, s.Init)
	out = appendStmts(out, s.Cond, s.Inc)
	return appendStmts(out, s.Body)
}

// NewBreakStmt, NewContinueStmt and NewNullStmt build operand-less
// statements.
func NewBreakStmt(rng SourceRange) Stmt { return &stmtBase{StmtBreak, rng} }

func NewContinueStmt(rng SourceRange) Stmt { return &stmtBase{StmtContinue, rng} }

func NewNullStmt(rng SourceRange) Stmt { return &stmtBase{StmtNull, rng} }

// CallExpr is implemented by function calls and member calls.
type CallExpr interface {
	Expr
	Callee() Expr
	Args() []Expr
	// DirectCallee returns the called function when it is known statically,
	// or nil.
	DirectCallee() FunctionDecl
	call() *Call
}

// Call is a call to a free function or through a function value.
type Call struct {
	exprBase
	callee   Expr
	args     []Expr
	function FunctionDecl
}

func (c *Call) call() *Call { return c }

// NewCallExpr builds a call.  fn is the resolved callee and may be nil.
func NewCallExpr(rng SourceRange, callee Expr, args []Expr, fn FunctionDecl, t QualType) *Call {
	c := &Call{callee: callee, args: args, function: fn}
	c.setup(ExprCall, c, rng, t)
	return c
}

func (c *Call) Callee() Expr { return c.callee }

func (c *Call) Args() []Expr { return c.args }

func (c *Call) DirectCallee() FunctionDecl { return c.function }

func (c *Call) Children() []Stmt { return appendStmts(appendStmts(nil, c.callee), c.args...) }

// CXXMemberCallExpr is a call whose callee is a MemberExpr naming a method.
type CXXMemberCallExpr struct {
	Call
}

func NewCXXMemberCallExpr(rng SourceRange, callee *MemberExpr, args []Expr, m CXXMethodDecl, t QualType) *CXXMemberCallExpr {
	c := &CXXMemberCallExpr{}
	c.callee = callee
	c.args = args
	if m != nil {
		c.function = m
	}
	c.setup(ExprCXXMemberCall, c, rng, t)
	return c
}

// MethodDecl returns the called method, or nil when it is unresolved.
func (c *CXXMemberCallExpr) MethodDecl() CXXMethodDecl {
	m, _ := c.function.(CXXMethodDecl)
	return m
}

// ImplicitObjectArgument returns the object expression the method is called
// on.  For "f()" inside a method it is an implicit CXXThisExpr.
func (c *CXXMemberCallExpr) ImplicitObjectArgument() Expr {
	if me, ok := c.callee.(*MemberExpr); ok {
		return me.Base
	}
	return nil
}

// MemberExpr is a member access "base.m" or "base->m".
type MemberExpr struct {
	exprBase
	Base   Expr
	Arrow  bool
	Name   string
	member ValueDecl
}

func NewMemberExpr(rng SourceRange, base Expr, arrow bool, name string, member ValueDecl, t QualType) *MemberExpr {
	e := &MemberExpr{Base: base, Arrow: arrow, Name: name, member: member}
	e.setup(ExprMember, e, rng, t)
	return e
}

// MemberDecl returns the named field or method, or nil.
func (e *MemberExpr) MemberDecl() ValueDecl { return e.member }

func (e *MemberExpr) Children() []Stmt { return appendStmts(nil, e.Base) }

// DeclRefExpr names a variable, parameter, function or enumerator.
type DeclRefExpr struct {
	exprBase
	Name string
	decl ValueDecl
}

func NewDeclRefExpr(rng SourceRange, name string, d ValueDecl, t QualType) *DeclRefExpr {
	e := &DeclRefExpr{Name: name, decl: d}
	e.setup(ExprDeclRef, e, rng, t)
	return e
}

// Decl returns the referenced declaration, or nil when the name is unknown.
func (e *DeclRefExpr) Decl() ValueDecl { return e.decl }

// CXXThisExpr is "this", written or implied.
type CXXThisExpr struct {
	exprBase
	Implicit bool
}

func NewCXXThisExpr(rng SourceRange, t QualType, implicit bool) *CXXThisExpr {
	e := &CXXThisExpr{Implicit: implicit}
	e.setup(ExprCXXThis, e, rng, t)
	return e
}

// BinaryOperator is a binary or assignment operator.
type BinaryOperator struct {
	exprBase
	Opcode string
	LHS    Expr
	RHS    Expr
}

func NewBinaryOperator(rng SourceRange, op string, lhs, rhs Expr, t QualType) *BinaryOperator {
	e := &BinaryOperator{Opcode: op, LHS: lhs, RHS: rhs}
	e.setup(ExprBinaryOperator, e, rng, t)
	return e
}

// IsAssignmentOp reports whether the operator is "=" or a compound
// assignment.
func (e *BinaryOperator) IsAssignmentOp() bool {
	switch e.Opcode {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

func (e *BinaryOperator) Children() []Stmt { return appendStmts(nil, e.LHS, e.RHS) }

// UnaryOperator is a prefix or postfix unary operator, including "*" and "&".
type UnaryOperator struct {
	exprBase
	Opcode  string
	Sub     Expr
	Postfix bool
}

func NewUnaryOperator(rng SourceRange, op string, sub Expr, postfix bool, t QualType) *UnaryOperator {
	e := &UnaryOperator{Opcode: op, Sub: sub, Postfix: postfix}
	e.setup(ExprUnaryOperator, e, rng, t)
	return e
}

func (e *UnaryOperator) Children() []Stmt { return appendStmts(nil, e.Sub) }

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	exprBase
	Value int64
}

func NewIntegerLiteral(rng SourceRange, v int64, t QualType) *IntegerLiteral {
	e := &IntegerLiteral{Value: v}
	e.setup(ExprIntegerLiteral, e, rng, t)
	return e
}

// FloatingLiteral is a floating point constant.
type FloatingLiteral struct {
	exprBase
	Value float64
}

func NewFloatingLiteral(rng SourceRange, v float64, t QualType) *FloatingLiteral {
	e := &FloatingLiteral{Value: v}
	e.setup(ExprFloatingLiteral, e, rng, t)
	return e
}

// StringLiteral is a string constant.  Value holds the spelling without
// quotes.
type StringLiteral struct {
	exprBase
	Value string
}

func NewStringLiteral(rng SourceRange, v string, t QualType) *StringLiteral {
	e := &StringLiteral{Value: v}
	e.setup(ExprStringLiteral, e, rng, t)
	return e
}

// CXXBoolLiteralExpr is "true" or "false".
type CXXBoolLiteralExpr struct {
	exprBase
	Value bool
}

func NewCXXBoolLiteralExpr(rng SourceRange, v bool, t QualType) *CXXBoolLiteralExpr {
	e := &CXXBoolLiteralExpr{Value: v}
	e.setup(ExprCXXBoolLiteral, e, rng, t)
	return e
}

// CXXNullPtrLiteralExpr is "nullptr".
type CXXNullPtrLiteralExpr struct {
	exprBase
}

func NewCXXNullPtrLiteralExpr(rng SourceRange, t QualType) *CXXNullPtrLiteralExpr {
	e := &CXXNullPtrLiteralExpr{}
	e.setup(ExprCXXNullPtrLiteral, e, rng, t)
	return e
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	exprBase
	Sub Expr
}

func NewParenExpr(rng SourceRange, sub Expr) *ParenExpr {
	e := &ParenExpr{Sub: sub}
	var t QualType
	if sub != nil {
		t = sub.Type()
	}
	e.setup(ExprParen, e, rng, t)
	return e
}

func (e *ParenExpr) IgnoreParenImpCasts() Expr {
	if e.Sub == nil {
		return e
	}
	return e.Sub.IgnoreParenImpCasts()
}

func (e *ParenExpr) Children() []Stmt { return appendStmts(nil, e.Sub) }

// ArraySubscriptExpr is "base[index]".
type ArraySubscriptExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

func NewArraySubscriptExpr(rng SourceRange, base, index Expr, t QualType) *ArraySubscriptExpr {
	e := &ArraySubscriptExpr{Base: base, Index: index}
	e.setup(ExprArraySubscript, e, rng, t)
	return e
}

func (e *ArraySubscriptExpr) Children() []Stmt { return appendStmts(nil, e.Base, e.Index) }

// ConditionalOperator is "cond ? a : b".
type ConditionalOperator struct {
	exprBase
	Cond  Expr
	True  Expr
	False Expr
}

func NewConditionalOperator(rng SourceRange, cond, t, f Expr, typ QualType) *ConditionalOperator {
	e := &ConditionalOperator{Cond: cond, True: t, False: f}
	e.setup(ExprConditionalOperator, e, rng, typ)
	return e
}

func (e *ConditionalOperator) Children() []Stmt { return appendStmts(nil, e.Cond, e.True, e.False) }

// CXXConstructExpr is the construction of a class object.
type CXXConstructExpr struct {
	exprBase
	Args []Expr
	ctor CXXConstructorDecl
}

func NewCXXConstructExpr(rng SourceRange, ctor CXXConstructorDecl, args []Expr, t QualType) *CXXConstructExpr {
	e := &CXXConstructExpr{Args: args, ctor: ctor}
	e.setup(ExprCXXConstruct, e, rng, t)
	return e
}

// Constructor returns the selected constructor, or nil.
func (e *CXXConstructExpr) Constructor() CXXConstructorDecl { return e.ctor }

func (e *CXXConstructExpr) Children() []Stmt { return appendStmts(nil, e.Args...) }

// CXXNewExpr is a new-expression.  Construct is set when a class object is
// allocated; Args holds the initializer of other types.
type CXXNewExpr struct {
	exprBase
	Allocated QualType
	ArraySize Expr
	Args      []Expr
	Construct *CXXConstructExpr
}

func NewCXXNewExpr(rng SourceRange, allocated QualType, arraySize Expr, args []Expr, construct *CXXConstructExpr, t QualType) *CXXNewExpr {
	e := &CXXNewExpr{Allocated: allocated, ArraySize: arraySize, Args: args, Construct: construct}
	e.setup(ExprCXXNew, e, rng, t)
	return e
}

// IsArray reports whether the expression is an array new.
func (e *CXXNewExpr) IsArray() bool { return e.ArraySize != nil }

// ConstructExpr returns the construction, or nil.
func (e *CXXNewExpr) ConstructExpr() Expr {
	if e.Construct == nil {
		return nil
	}
	return e.Construct
}

func (e *CXXNewExpr) Children() []Stmt {
	out := appendStmts(nil, e.ArraySize)
	if e.Construct != nil {
		return append(out, e.Construct)
	}
	return appendStmts(out, e.Args...)
}

// CXXDeleteExpr is a delete-expression.
type CXXDeleteExpr struct {
	exprBase
	Arg   Expr
	Array bool
}

func NewCXXDeleteExpr(rng SourceRange, arg Expr, array bool, t QualType) *CXXDeleteExpr {
	e := &CXXDeleteExpr{Arg: arg, Array: array}
	e.setup(ExprCXXDelete, e, rng, t)
	return e
}

func (e *CXXDeleteExpr) Children() []Stmt { return appendStmts(nil, e.Arg) }

// UnknownExpr stands for syntax the frontend does not model, statements
// included.  Operands it could still build are kept as children.
type UnknownExpr struct {
	exprBase
	Syntax   string
	Operands []Stmt
}

func NewUnknownExpr(rng SourceRange, syntax string, operands []Stmt) *UnknownExpr {
	e := &UnknownExpr{Syntax: syntax, Operands: operands}
	e.setup(ExprUnknown, e, rng, QualType{})
	return e
}

func (e *UnknownExpr) Children() []Stmt { return appendStmts(nil, e.Operands...) }
