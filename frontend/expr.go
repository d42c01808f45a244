// Copyright © 2026 The Crisp authors

package frontend

import (
	"strconv"
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// expr builds an expression.  It never returns a nil pointer wrapped in a
// non-nil interface.
func (b *builder) expr(n *sitter.Node) cxxast.Expr {
	if n == nil {
		return nil
	}
	r := b.rng(n)
	switch n.Kind() {
	case "comment":
		return nil
	case "parenthesized_expression":
		sub := b.expr(firstNamedChild(n))
		if sub == nil {
			return nil
		}
		return cxxast.NewParenExpr(r, sub)
	case "identifier":
		return b.identifier(n)
	case "qualified_identifier":
		return b.qualifiedRef(n)
	case "this":
		return cxxast.NewCXXThisExpr(r, b.thisType(), false)
	case "field_expression":
		return b.memberExpr(n)
	case "call_expression":
		return b.call(n)
	case "number_literal":
		return b.number(n)
	case "string_literal", "raw_string_literal", "concatenated_string":
		v := b.stringValue(n)
		t := b.ctx.ConstantArrayType(b.ctx.BuiltinType("char").WithConst(), int64(len(v)+1))
		return cxxast.NewStringLiteral(r, v, t)
	case "char_literal":
		var v int64
		if s, err := strconv.Unquote(b.text(n)); err == nil && s != "" {
			v = int64([]rune(s)[0])
		} else if content := strings.Trim(b.text(n), "'"); content != "" {
			v = int64(content[0])
		}
		return cxxast.NewIntegerLiteral(r, v, b.ctx.BuiltinType("char"))
	case "true", "false":
		return cxxast.NewCXXBoolLiteralExpr(r, n.Kind() == "true", b.ctx.BoolType())
	case "null", "nullptr":
		return cxxast.NewCXXNullPtrLiteralExpr(r, b.ctx.BuiltinType("nullptr_t"))
	case "assignment_expression":
		lhs := b.expr(n.ChildByFieldName("left"))
		rhs := b.expr(n.ChildByFieldName("right"))
		return cxxast.NewBinaryOperator(r, b.text(n.ChildByFieldName("operator")), lhs, rhs, typeOrNull(lhs))
	case "binary_expression":
		lhs := b.expr(n.ChildByFieldName("left"))
		rhs := b.expr(n.ChildByFieldName("right"))
		op := b.text(n.ChildByFieldName("operator"))
		t := typeOrNull(lhs)
		switch op {
		case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "and", "or", "not_eq":
			t = b.ctx.BoolType()
		}
		return cxxast.NewBinaryOperator(r, op, lhs, rhs, t)
	case "comma_expression":
		lhs := b.expr(n.ChildByFieldName("left"))
		rhs := b.expr(n.ChildByFieldName("right"))
		return cxxast.NewBinaryOperator(r, ",", lhs, rhs, typeOrNull(rhs))
	case "unary_expression", "pointer_expression":
		sub := b.expr(n.ChildByFieldName("argument"))
		op := b.text(n.ChildByFieldName("operator"))
		t := typeOrNull(sub)
		switch op {
		case "!", "not":
			t = b.ctx.BoolType()
		case "*":
			if !t.IsNull() {
				t = nonReference(t).TypePtr().PointeeType()
			}
		case "&":
			if !t.IsNull() {
				t = b.ctx.PointerType(t)
			}
		}
		return cxxast.NewUnaryOperator(r, op, sub, false, t)
	case "update_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		sub := b.expr(arg)
		postfix := op != nil && arg != nil && op.StartByte() > arg.StartByte()
		return cxxast.NewUnaryOperator(r, b.text(op), sub, postfix, typeOrNull(sub))
	case "subscript_expression":
		base := b.expr(n.ChildByFieldName("argument"))
		idxNode := n.ChildByFieldName("index")
		if idxNode == nil {
			if list := n.ChildByFieldName("indices"); list != nil {
				idxNode = firstNamedChild(list)
			}
		}
		var t cxxast.QualType
		if bt := nonReference(typeOrNull(base)); !bt.IsNull() {
			switch ct := bt.CanonicalType().TypePtr().(type) {
			case *cxxast.ConstantArrayType:
				t = ct.Element
			case *cxxast.PointerType:
				t = ct.Pointee
			}
		}
		return cxxast.NewArraySubscriptExpr(r, base, b.expr(idxNode), t)
	case "conditional_expression":
		cond := b.expr(n.ChildByFieldName("condition"))
		t := b.expr(n.ChildByFieldName("consequence"))
		f := b.expr(n.ChildByFieldName("alternative"))
		return cxxast.NewConditionalOperator(r, cond, t, f, typeOrNull(t))
	case "new_expression":
		return b.newExpr(n)
	case "delete_expression":
		arg := b.expr(lastNamedChild(n))
		return cxxast.NewCXXDeleteExpr(r, arg, hasChild(n, "["), b.ctx.VoidType())
	case "cast_expression":
		t := b.typeDescriptor(n.ChildByFieldName("type"), site{dc: b.dc})
		u := cxxast.NewUnknownExpr(r, n.Kind(), appendStmt(nil, exprStmt(b.expr(n.ChildByFieldName("value")))))
		cxxast.SetExprType(u, t)
		return u
	case "sizeof_expression", "alignof_expression":
		u := cxxast.NewUnknownExpr(r, n.Kind(), appendStmt(nil, exprStmt(b.expr(n.ChildByFieldName("value")))))
		cxxast.SetExprType(u, b.ctx.BuiltinType("unsigned long"))
		return u
	case "initializer_list":
		var ops []cxxast.Stmt
		for _, a := range b.args(n) {
			ops = append(ops, a)
		}
		return cxxast.NewUnknownExpr(r, n.Kind(), ops)
	}
	var ops []cxxast.Stmt
	for _, c := range namedChildren(n) {
		if isExpressionKind(c.Kind()) {
			ops = appendStmt(ops, exprStmt(b.expr(c)))
		}
	}
	return cxxast.NewUnknownExpr(r, n.Kind(), ops)
}

func typeOrNull(e cxxast.Expr) cxxast.QualType {
	if e == nil {
		return cxxast.QualType{}
	}
	return e.Type()
}

func (b *builder) args(n *sitter.Node) []cxxast.Expr {
	var args []cxxast.Expr
	for _, c := range namedChildren(n) {
		if e := b.expr(c); e != nil {
			args = append(args, e)
		}
	}
	return args
}

// ref builds the expression naming a declaration found by lookup.  Members
// named without an object expression get an implicit this.
func (b *builder) ref(n *sitter.Node, name string, d cxxast.NamedDecl) cxxast.Expr {
	r := b.rng(n)
	vd, ok := d.(cxxast.ValueDecl)
	if !ok {
		return cxxast.NewDeclRefExpr(r, name, nil, cxxast.QualType{})
	}
	if b.isInstanceMember(vd) && b.thisRecord() != nil {
		this := cxxast.NewCXXThisExpr(r, b.thisType(), true)
		return cxxast.NewMemberExpr(r, this, true, name, vd, nonReference(vd.Type()))
	}
	return cxxast.NewDeclRefExpr(r, name, vd, nonReference(vd.Type()))
}

func (b *builder) isInstanceMember(d cxxast.ValueDecl) bool {
	switch d := d.(type) {
	case *cxxast.FieldDecl:
		return true
	case cxxast.CXXMethodDecl:
		return !d.IsStatic()
	}
	return false
}

func (b *builder) identifier(n *sitter.Node) cxxast.Expr {
	name := b.text(n)
	found := b.lookupValue(name)
	if len(found) == 0 {
		return cxxast.NewDeclRefExpr(b.rng(n), name, nil, cxxast.QualType{})
	}
	return b.ref(n, name, found[0])
}

func (b *builder) qualifiedRef(n *sitter.Node) cxxast.Expr {
	scope, nameNode := b.qualified(n, b.dc)
	name := b.text(nameNode)
	if scope == nil || nameNode == nil {
		return cxxast.NewDeclRefExpr(b.rng(n), b.text(n), nil, cxxast.QualType{})
	}
	var found []cxxast.NamedDecl
	if e, ok := scope.(*cxxast.EnumDecl); ok {
		for _, ec := range e.Enumerators() {
			if ec.Name() == name {
				found = append(found, ec)
			}
		}
	} else {
		found = b.valuesIn(scope, name)
	}
	if len(found) == 0 {
		return cxxast.NewDeclRefExpr(b.rng(n), b.text(n), nil, cxxast.QualType{})
	}
	return b.ref(n, name, found[0])
}

func (b *builder) memberName(n *sitter.Node) string {
	switch n.Kind() {
	case "template_method":
		return b.text(n.ChildByFieldName("name"))
	case "qualified_field_identifier", "qualified_identifier":
		return b.text(n.ChildByFieldName("name"))
	}
	return b.text(n)
}

func (b *builder) memberExpr(n *sitter.Node) cxxast.Expr {
	base := b.expr(n.ChildByFieldName("argument"))
	arrow := b.text(n.ChildByFieldName("operator")) == "->"
	if op := n.ChildByFieldName("operator"); op == nil {
		arrow = strings.Contains(b.text(n), "->")
	}
	field := n.ChildByFieldName("field")
	name := b.memberName(field)
	var member cxxast.ValueDecl
	if rec := recordOf(typeOrNull(base), arrow); rec != nil {
		for _, d := range cxxast.LookupMember(rec, name) {
			if vd, ok := d.(cxxast.ValueDecl); ok {
				member = vd
				break
			}
		}
	}
	var t cxxast.QualType
	if member != nil {
		t = nonReference(member.Type())
	}
	return cxxast.NewMemberExpr(b.rng(n), base, arrow, name, member, t)
}

func (b *builder) call(n *sitter.Node) cxxast.Expr {
	r := b.rng(n)
	fnNode := n.ChildByFieldName("function")
	args := b.args(n.ChildByFieldName("arguments"))
	if fnNode == nil {
		return cxxast.NewCallExpr(r, nil, args, nil, cxxast.QualType{})
	}
	switch fnNode.Kind() {
	case "field_expression":
		base := b.expr(fnNode.ChildByFieldName("argument"))
		arrow := b.text(fnNode.ChildByFieldName("operator")) == "->"
		name := b.memberName(fnNode.ChildByFieldName("field"))
		if rec := recordOf(typeOrNull(base), arrow); rec != nil {
			if m, ok := b.bestOverload(cxxast.LookupMember(rec, name), args).(cxxast.CXXMethodDecl); ok {
				me := cxxast.NewMemberExpr(b.rng(fnNode), base, arrow, name, m, m.Type())
				return cxxast.NewCXXMemberCallExpr(r, me, args, m, resultType(m))
			}
		}
		callee := cxxast.NewMemberExpr(b.rng(fnNode), base, arrow, name, nil, cxxast.QualType{})
		return cxxast.NewCallExpr(r, callee, args, nil, cxxast.QualType{})
	case "identifier", "template_function":
		name := b.text(fnNode)
		if fnNode.Kind() == "template_function" {
			name = b.text(fnNode.ChildByFieldName("name"))
		}
		found := b.lookupValue(name)
		if len(found) > 0 {
			return b.callFound(n, fnNode, name, found, args)
		}
		if rec := b.lookupRecord(name, b.dc); rec != nil {
			rec = recordDefinition(rec)
			return cxxast.NewCXXConstructExpr(r, b.selectCtor(rec, args), args, b.ctx.RecordType(rec))
		}
		callee := cxxast.NewDeclRefExpr(b.rng(fnNode), name, nil, cxxast.QualType{})
		return cxxast.NewCallExpr(r, callee, args, nil, cxxast.QualType{})
	case "qualified_identifier":
		scope, nameNode := b.qualified(fnNode, b.dc)
		if scope != nil && nameNode != nil {
			name := b.memberName(nameNode)
			if rec, ok := scope.(*cxxast.CXXRecordDecl); ok && rec.Name() == name {
				return cxxast.NewCXXConstructExpr(r, b.selectCtor(rec, args), args, b.ctx.RecordType(rec))
			}
			if found := b.valuesIn(scope, name); len(found) > 0 {
				return b.callFound(n, fnNode, name, found, args)
			}
			if t, ok := b.typeIn(scope, name); ok {
				if rec := recordOf(t, false); rec != nil {
					return cxxast.NewCXXConstructExpr(r, b.selectCtor(rec, args), args, t)
				}
			}
		}
	}
	callee := b.expr(fnNode)
	return cxxast.NewCallExpr(r, callee, args, nil, cxxast.QualType{})
}

// callFound builds a call to a name found by lookup: a member call with an
// implicit object in member functions, a direct call for functions, and an
// indirect call through variables.
func (b *builder) callFound(n, fnNode *sitter.Node, name string, found []cxxast.NamedDecl, args []cxxast.Expr) cxxast.Expr {
	r := b.rng(n)
	fn := b.bestOverload(found, args)
	if fn == nil {
		callee := b.ref(fnNode, name, found[0])
		return cxxast.NewCallExpr(r, callee, args, nil, cxxast.QualType{})
	}
	if m, ok := fn.(cxxast.CXXMethodDecl); ok && !m.IsStatic() && b.thisRecord() != nil {
		this := cxxast.NewCXXThisExpr(b.rng(fnNode), b.thisType(), true)
		me := cxxast.NewMemberExpr(b.rng(fnNode), this, true, name, m, m.Type())
		return cxxast.NewCXXMemberCallExpr(r, me, args, m, resultType(m))
	}
	callee := cxxast.NewDeclRefExpr(b.rng(fnNode), name, fn, fn.Type())
	return cxxast.NewCallExpr(r, callee, args, fn, resultType(fn))
}

// bestOverload picks the function among candidates that accepts the
// arguments, preferring exact parameter type matches.  Redeclarations are
// collapsed to their first declaration.
func (b *builder) bestOverload(candidates []cxxast.NamedDecl, args []cxxast.Expr) cxxast.FunctionDecl {
	var fns []cxxast.FunctionDecl
	seen := map[cxxast.Decl]bool{}
	for _, c := range candidates {
		f, ok := c.(cxxast.FunctionDecl)
		if !ok {
			continue
		}
		if canon, ok := f.CanonicalDecl().(cxxast.FunctionDecl); ok {
			f = canon
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		fns = append(fns, f)
	}
	var best cxxast.FunctionDecl
	bestScore := -1
	for _, f := range fns {
		params := f.Params()
		if len(args) < cxxast.RequiredParams(f) || (len(args) > len(params) && !f.IsVariadic()) {
			continue
		}
		score := 0
		for i, a := range args {
			if i >= len(params) {
				break
			}
			at := nonReference(a.Type()).CanonicalType().UnqualifiedType()
			pt := nonReference(params[i].Type()).CanonicalType().UnqualifiedType()
			if !at.IsNull() && at == pt {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = f, score
		}
	}
	if best == nil && len(fns) == 1 {
		return fns[0]
	}
	return best
}

// selectCtor picks the constructor of rec called with args, or nil when
// the class only has implicit constructors.
func (b *builder) selectCtor(rec *cxxast.CXXRecordDecl, args []cxxast.Expr) cxxast.CXXConstructorDecl {
	if rec == nil {
		return nil
	}
	rec = recordDefinition(rec)
	var cands []cxxast.NamedDecl
	for _, c := range rec.Ctors() {
		cands = append(cands, c)
	}
	if c, ok := b.bestOverload(cands, args).(cxxast.CXXConstructorDecl); ok {
		return c
	}
	return nil
}

func (b *builder) newExpr(n *sitter.Node) cxxast.Expr {
	r := b.rng(n)
	sp := b.specifiers(n)
	t := b.typeOf(sp.typeNode, site{dc: b.dc}).WithQuals(sp.quals)
	var size cxxast.Expr
	if d := n.ChildByFieldName("declarator"); d != nil && d.Kind() == "new_declarator" {
		size = b.expr(firstNamedChild(d))
		t = b.ctx.ConstantArrayType(t, 0)
	}
	args := b.args(n.ChildByFieldName("arguments"))
	allocated := t
	if size != nil {
		allocated = t.TypePtr().(*cxxast.ConstantArrayType).Element
	}
	var construct *cxxast.CXXConstructExpr
	if size == nil && allocated.TypePtr().IsRecordType() {
		construct = cxxast.NewCXXConstructExpr(r, b.selectCtor(allocated.TypePtr().AsCXXRecordDecl(), args), args, allocated)
	}
	return cxxast.NewCXXNewExpr(r, allocated, size, args, construct, b.ctx.PointerType(allocated))
}

// number parses an integer or floating literal with its suffix.
func (b *builder) number(n *sitter.Node) cxxast.Expr {
	r := b.rng(n)
	text := strings.ReplaceAll(b.text(n), "'", "")
	lower := strings.ToLower(text)
	hex := strings.HasPrefix(lower, "0x")
	isFloat := strings.ContainsAny(lower, ".") || (!hex && strings.ContainsAny(lower, "e")) || (hex && strings.Contains(lower, "p"))
	if isFloat {
		body := strings.TrimRight(lower, "fl")
		v, _ := strconv.ParseFloat(body, 64)
		t := b.ctx.BuiltinType("double")
		switch {
		case strings.HasSuffix(lower, "f"):
			t = b.ctx.BuiltinType("float")
		case strings.HasSuffix(lower, "l"):
			t = b.ctx.BuiltinType("long double")
		}
		return cxxast.NewFloatingLiteral(r, v, t)
	}
	body := strings.TrimRight(lower, "ul")
	suffix := lower[len(body):]
	if strings.HasPrefix(body, "0") && len(body) > 1 && !hex && !strings.HasPrefix(body, "0b") {
		body = "0o" + body[1:]
	}
	v, _ := strconv.ParseInt(body, 0, 64)
	name := "int"
	switch {
	case strings.Contains(suffix, "u") && strings.Count(suffix, "l") == 2:
		name = "unsigned long long"
	case strings.Count(suffix, "l") == 2:
		name = "long long"
	case strings.Contains(suffix, "u") && strings.Contains(suffix, "l"):
		name = "unsigned long"
	case strings.Contains(suffix, "l"):
		name = "long"
	case strings.Contains(suffix, "u"):
		name = "unsigned int"
	}
	return cxxast.NewIntegerLiteral(r, v, b.ctx.BuiltinType(name))
}

func (b *builder) stringValue(n *sitter.Node) string {
	switch n.Kind() {
	case "concatenated_string":
		var sb strings.Builder
		for _, c := range namedChildren(n) {
			sb.WriteString(b.stringValue(c))
		}
		return sb.String()
	case "raw_string_literal":
		if c := n.ChildByFieldName("content"); c != nil {
			return b.text(c)
		}
		for _, c := range namedChildren(n) {
			if c.Kind() == "raw_string_content" {
				return b.text(c)
			}
		}
	}
	text := b.text(n)
	if i := strings.IndexByte(text, '"'); i > 0 {
		text = text[i:]
	}
	if s, err := strconv.Unquote(text); err == nil {
		return s
	}
	return strings.Trim(text, `"`)
}
