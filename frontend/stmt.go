// Copyright © 2026 The Crisp authors

package frontend

import (
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func (b *builder) stmt(n *sitter.Node) cxxast.Stmt {
	if n == nil {
		return nil
	}
	r := b.rng(n)
	switch n.Kind() {
	case "comment":
		return nil
	case "compound_statement":
		b.pushScope()
		defer b.popScope()
		var body []cxxast.Stmt
		for _, c := range namedChildren(n) {
			if s := b.stmt(c); s != nil {
				body = append(body, s)
			}
		}
		return cxxast.NewCompoundStmt(r, body)
	case "expression_statement":
		e := firstNamedChild(n)
		if e == nil {
			return cxxast.NewNullStmt(r)
		}
		return exprStmt(b.expr(e))
	case "declaration":
		return cxxast.NewDeclStmt(r, b.localDeclaration(n))
	case "class_specifier", "struct_specifier", "union_specifier":
		return cxxast.NewDeclStmt(r, []cxxast.Decl{b.record(n, site{dc: b.fn})})
	case "enum_specifier":
		return cxxast.NewDeclStmt(r, []cxxast.Decl{b.enum(n, site{dc: b.fn})})
	case "type_definition", "alias_declaration":
		before := len(b.fn.Decls())
		if n.Kind() == "alias_declaration" {
			b.alias(n, site{dc: b.fn})
		} else {
			b.typedef(n, site{dc: b.fn})
		}
		return cxxast.NewDeclStmt(r, b.fn.Decls()[before:])
	case "return_statement":
		return cxxast.NewReturnStmt(r, b.expr(firstNamedChild(n)))
	case "if_statement":
		b.pushScope()
		defer b.popScope()
		cond := b.condition(n.ChildByFieldName("condition"))
		then := b.stmt(n.ChildByFieldName("consequence"))
		var els cxxast.Stmt
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Kind() == "else_clause" {
				alt = firstNamedChild(alt)
			}
			els = b.stmt(alt)
		}
		return cxxast.NewIfStmt(r, cond, then, els)
	case "while_statement":
		b.pushScope()
		defer b.popScope()
		cond := b.condition(n.ChildByFieldName("condition"))
		return cxxast.NewWhileStmt(r, cond, b.stmt(n.ChildByFieldName("body")))
	case "do_statement":
		body := b.stmt(n.ChildByFieldName("body"))
		return cxxast.NewDoStmt(r, body, b.condition(n.ChildByFieldName("condition")))
	case "for_statement":
		b.pushScope()
		defer b.popScope()
		var init cxxast.Stmt
		initNode := n.ChildByFieldName("initializer")
		if initNode == nil {
			initNode = n.ChildByFieldName("init")
		}
		if initNode != nil {
			if initNode.Kind() == "declaration" {
				init = cxxast.NewDeclStmt(b.rng(initNode), b.localDeclaration(initNode))
			} else {
				init = exprStmt(b.expr(initNode))
			}
		}
		cond := b.expr(n.ChildByFieldName("condition"))
		inc := n.ChildByFieldName("update")
		if inc == nil {
			inc = n.ChildByFieldName("increment")
		}
		return cxxast.NewForStmt(r, init, cond, b.expr(inc), b.stmt(n.ChildByFieldName("body")))
	case "for_range_loop":
		b.pushScope()
		defer b.popScope()
		rangeInit := b.expr(n.ChildByFieldName("right"))
		sp := b.specifiers(n)
		base := b.typeOf(sp.typeNode, site{dc: b.fn}).WithQuals(sp.quals)
		d := b.declarator(n.ChildByFieldName("declarator"), base, site{dc: b.fn})
		var ops []cxxast.Stmt
		if d.name != nil {
			v := b.localVariable(n, d, sp)
			ops = append(ops, cxxast.NewDeclStmt(b.rng(n), []cxxast.Decl{v}))
		}
		ops = appendStmt(ops, rangeInit)
		ops = appendStmt(ops, b.stmt(n.ChildByFieldName("body")))
		return cxxast.NewUnknownExpr(r, n.Kind(), ops)
	case "break_statement":
		return cxxast.NewBreakStmt(r)
	case "continue_statement":
		return cxxast.NewContinueStmt(r)
	case "labeled_statement":
		return b.stmt(lastNamedChild(n))
	}
	if isExpressionKind(n.Kind()) {
		return exprStmt(b.expr(n))
	}
	return b.unknown(n)
}

// exprStmt converts an expression to a statement without wrapping a nil
// expression in a non-nil interface.
func exprStmt(e cxxast.Expr) cxxast.Stmt {
	if e == nil {
		return nil
	}
	return e
}

func appendStmt(out []cxxast.Stmt, s cxxast.Stmt) []cxxast.Stmt {
	if s == nil {
		return out
	}
	return append(out, s)
}

// unknown models a statement the program model has no class for.  Its
// statements and expressions are kept as operands.
func (b *builder) unknown(n *sitter.Node) *cxxast.UnknownExpr {
	var ops []cxxast.Stmt
	for _, c := range namedChildren(n) {
		switch {
		case c.Kind() == "condition_clause":
			ops = appendStmt(ops, exprStmt(b.condition(c)))
		case isStatementKind(c.Kind()):
			ops = appendStmt(ops, b.stmt(c))
		case isExpressionKind(c.Kind()):
			ops = appendStmt(ops, exprStmt(b.expr(c)))
		}
	}
	return cxxast.NewUnknownExpr(b.rng(n), n.Kind(), ops)
}

func isStatementKind(k string) bool {
	return strings.HasSuffix(k, "_statement") || k == "declaration" || k == "for_range_loop" ||
		k == "case_statement" || k == "try_statement" || k == "catch_clause"
}

func isExpressionKind(k string) bool {
	switch k {
	case "identifier", "qualified_identifier", "this", "true", "false", "null", "nullptr",
		"number_literal", "string_literal", "char_literal", "raw_string_literal",
		"concatenated_string", "initializer_list", "user_defined_literal":
		return true
	}
	return strings.HasSuffix(k, "_expression")
}

// condition builds the condition of an if, while or do statement.  A
// declared condition variable is referenced by the returned expression.
func (b *builder) condition(n *sitter.Node) cxxast.Expr {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "condition_clause":
		v := n.ChildByFieldName("value")
		if v == nil {
			v = lastNamedChild(n)
		}
		if init := n.ChildByFieldName("initializer"); init != nil && init.Kind() == "declaration" {
			b.localDeclaration(init)
		}
		return b.condition(v)
	case "parenthesized_expression":
		return b.expr(firstNamedChild(n))
	case "declaration", "condition_declaration":
		decls := b.localDeclaration(n)
		if len(decls) == 0 {
			return nil
		}
		v := decls[len(decls)-1].(*cxxast.Variable)
		return cxxast.NewDeclRefExpr(b.rng(n), v.Name(), v, nonReference(v.Type()))
	}
	return b.expr(n)
}

// localDeclaration declares the variables of a declaration statement in the
// current function and scope.
func (b *builder) localDeclaration(n *sitter.Node) []cxxast.Decl {
	sp := b.specifiers(n)
	s := site{dc: b.fn, access: cxxast.AccessNone}
	base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
	var decls []cxxast.Decl
	targets := b.declaratorsOf(n, sp.typeNode)
	if n.Kind() == "condition_declaration" && len(targets) == 0 {
		if d := n.ChildByFieldName("declarator"); d != nil {
			targets = append(targets, d)
		}
	}
	for _, d := range targets {
		r := b.declarator(d, base, s)
		if r.name == nil || r.fn {
			continue
		}
		if r.value == nil && n.Kind() == "condition_declaration" {
			r.value = n.ChildByFieldName("value")
		}
		decls = append(decls, b.localVariable(n, r, sp))
	}
	return decls
}

func (b *builder) localVariable(n *sitter.Node, r declResult, sp specifiers) *cxxast.Variable {
	storage := cxxast.StorageNone
	switch {
	case sp.static:
		storage = cxxast.StorageStatic
	case sp.extern:
		storage = cxxast.StorageExtern
	}
	name := b.text(r.name)
	v := cxxast.NewVarDecl(cxxast.DeclInfo{
		Loc:     b.loc(r.name),
		Range:   b.rng(n),
		Context: b.fn,
		Access:  cxxast.AccessNone,
	}, name, r.t, storage)
	cxxast.AddDecl(b.fn, v)
	b.declare(name, v)
	switch {
	case r.value != nil:
		if e := b.initializer(r.value, r.t); e != nil {
			v.SetInit(e)
		}
	case storage != cxxast.StorageExtern:
		if rec := r.t.CanonicalType().TypePtr().AsCXXRecordDecl(); rec != nil && r.t.CanonicalType().TypePtr().IsRecordType() {
			v.SetInit(cxxast.NewCXXConstructExpr(b.rng(n), b.selectCtor(rec, nil), nil, r.t))
		}
	}
	return v
}

// initializer builds the initializer of a variable or member of type t.
func (b *builder) initializer(n *sitter.Node, t cxxast.QualType) cxxast.Expr {
	if n == nil {
		return nil
	}
	var rec *cxxast.CXXRecordDecl
	if !t.IsNull() && t.TypePtr().IsRecordType() {
		rec = t.TypePtr().AsCXXRecordDecl()
	}
	switch n.Kind() {
	case "argument_list", "initializer_list":
		args := b.args(n)
		switch {
		case rec != nil:
			return cxxast.NewCXXConstructExpr(b.rng(n), b.selectCtor(rec, args), args, t)
		case len(args) == 1 && n.Kind() == "argument_list":
			return args[0]
		}
		ops := make([]cxxast.Stmt, 0, len(args))
		for _, a := range args {
			ops = append(ops, a)
		}
		u := cxxast.NewUnknownExpr(b.rng(n), n.Kind(), ops)
		cxxast.SetExprType(u, t)
		return u
	}
	return b.expr(n)
}

func (b *builder) ctorInitializers(ctor cxxast.CXXConstructorDecl, list *sitter.Node) {
	rec := ctor.Parent()
	if rec == nil {
		return
	}
	rec = recordDefinition(rec)
	for _, fi := range namedChildren(list) {
		if fi.Kind() != "field_initializer" {
			continue
		}
		nameNode := firstNamedChild(fi)
		var argsNode *sitter.Node
		for _, c := range namedChildren(fi) {
			if c.Kind() == "argument_list" || c.Kind() == "initializer_list" {
				argsNode = c
			}
		}
		name := b.text(nameNode)
		if nameNode != nil && nameNode.Kind() == "template_method" {
			name = b.text(nameNode.ChildByFieldName("name"))
		}
		if i := strings.LastIndex(name, "::"); i >= 0 {
			name = name[i+2:]
		}
		init := &cxxast.CXXCtorInitializer{Range: b.rng(fi)}
		for _, f := range rec.Fields() {
			if f.Name() == name {
				init.Member = f
				init.Init = b.initializer(argsNode, f.Type())
			}
		}
		if init.Member == nil {
			for _, base := range rec.Bases() {
				if base.BaseClass != nil && base.BaseClass.Name() == name {
					args := b.args(argsNode)
					init.BaseClass = base.BaseClass
					init.Init = cxxast.NewCXXConstructExpr(b.rng(fi), b.selectCtor(base.BaseClass, args), args, base.BaseType)
				}
			}
		}
		if init.Member == nil && init.BaseClass == nil {
			continue
		}
		cxxast.AddCtorInitializer(ctor, init)
	}
}
