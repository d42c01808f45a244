// Copyright © 2026 The Crisp authors

// Package frontend builds the cxxast program model of a C++ translation unit
// from a tree-sitter syntax tree.  It resolves names, member calls and
// out-of-line definitions well enough for rule code; it is not a compiler and
// silently models unsupported syntax as UnknownExpr nodes.
package frontend

import (
	"fmt"
	"os"

	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/status"
	"github.com/golang/glog"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// Parser parses C++ sources.  A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser returns a Parser for C++.
func NewParser() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(sitter.NewLanguage(tree_sitter_cpp.Language()))
	return &Parser{parser: parser}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*cxxast.ASTContext, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, status.Configf("read source", status.ErrParse, "%v", err)
	}
	return p.Parse(path, content)
}

// Parse builds the program model of content, registered under name.  Syntax
// errors are logged and the recovered tree is used.
func (p *Parser) Parse(name string, content []byte) (*cxxast.ASTContext, error) {
	tree := p.parser.Parse(content, nil)
	if tree == nil {
		return nil, status.Configf("parse", status.ErrParse, "%s", name)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return nil, status.Configf("parse", status.ErrParse, "%s: empty tree", name)
	}
	if root.HasError() {
		glog.Warningf("%s: syntax errors, analysing the recovered tree", name)
	}

	sm := cxxast.NewSourceManager()
	file := sm.AddFile(name, content)
	ctx := cxxast.NewASTContext(sm)
	b := &builder{ctx: ctx, file: file, src: content}
	b.declarations(root, ctx.TU)
	b.finish()
	glog.V(1).Infof("%s: %d top-level declarations, %d types", name, len(ctx.TU.Decls()), len(ctx.Types()))
	return ctx, nil
}

// ParseFile parses path with a temporary Parser.
func ParseFile(path string) (*cxxast.ASTContext, error) {
	p := NewParser()
	defer p.Close()
	return p.ParseFile(path)
}

// ParseSource parses content with a temporary Parser.
func ParseSource(name string, content []byte) (*cxxast.ASTContext, error) {
	p := NewParser()
	defer p.Close()
	return p.Parse(name, content)
}

type pendingBody struct {
	fn    cxxast.FunctionDecl
	body  *sitter.Node
	inits *sitter.Node
}

type pendingInit struct {
	dc    cxxast.DeclContext
	node  *sitter.Node
	t     cxxast.QualType
	apply func(cxxast.Expr)
}

// builder holds the state of one translation unit.  Declarations are built
// in a first pass; function bodies and initializers are deferred so that
// they can refer to members declared later in a class.
type builder struct {
	ctx   *cxxast.ASTContext
	file  cxxast.FileID
	src   []byte
	inits []pendingInit
	funcs []pendingBody

	// state of the body or initializer being built
	fn     cxxast.FunctionDecl
	dc     cxxast.DeclContext
	scopes []map[string]cxxast.ValueDecl
}

func (b *builder) finish() {
	// Bodies may declare local classes, which queue more work.
	for ni, nf := 0, 0; ni < len(b.inits) || nf < len(b.funcs); {
		if ni < len(b.inits) {
			p := b.inits[ni]
			ni++
			b.fn, b.dc, b.scopes = nil, p.dc, nil
			if e := b.initializer(p.node, p.t); e != nil {
				p.apply(e)
			}
			continue
		}
		b.functionBody(b.funcs[nf])
		nf++
	}
	b.fn, b.dc, b.scopes = nil, nil, nil
}

func (b *builder) functionBody(p pendingBody) {
	b.fn = p.fn
	b.dc = p.fn
	b.scopes = []map[string]cxxast.ValueDecl{{}}
	for _, param := range p.fn.Params() {
		if param.Name() != "" {
			b.scopes[0][param.Name()] = param
		}
	}
	if p.inits != nil {
		if ctor, ok := p.fn.(cxxast.CXXConstructorDecl); ok {
			b.ctorInitializers(ctor, p.inits)
		}
	}
	if body := b.stmt(p.body); body != nil {
		cxxast.SetFunctionBody(p.fn, body)
	}
}

func (b *builder) pushScope() {
	b.scopes = append(b.scopes, map[string]cxxast.ValueDecl{})
}

func (b *builder) popScope() {
	b.scopes = b.scopes[:len(b.scopes)-1]
}

func (b *builder) declare(name string, d cxxast.ValueDecl) {
	if name == "" || len(b.scopes) == 0 {
		return
	}
	b.scopes[len(b.scopes)-1][name] = d
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(b.src)
}

func (b *builder) loc(n *sitter.Node) cxxast.SourceLocation {
	return b.ctx.SourceManager.Loc(b.file, int(n.StartByte()))
}

func (b *builder) rng(n *sitter.Node) cxxast.SourceRange {
	return cxxast.SourceRange{
		Begin: b.ctx.SourceManager.Loc(b.file, int(n.StartByte())),
		End:   b.ctx.SourceManager.Loc(b.file, int(n.EndByte())),
	}
}

func (b *builder) pos(n *sitter.Node) string {
	p := b.ctx.SourceManager.PhysicalLoc(b.loc(n))
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range children(n) {
		if c.IsNamed() && c.Kind() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	for _, c := range children(n) {
		if c.IsNamed() && c.Kind() != "comment" {
			return c
		}
	}
	return nil
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	cs := namedChildren(n)
	if len(cs) == 0 {
		return nil
	}
	return cs[len(cs)-1]
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

func hasChild(n *sitter.Node, kinds ...string) bool {
	for _, c := range children(n) {
		for _, k := range kinds {
			if c.Kind() == k {
				return true
			}
		}
	}
	return false
}
