// Copyright © 2026 The Crisp authors

package cxxast

// Node is a declaration or a statement.
type Node interface {
	SourceRange() SourceRange
}

// Inspect traverses the tree rooted at n in depth-first order.  It calls f
// for each node; if f returns false the children of that node are skipped.
// Declarations are followed by their parameters, initializers and bodies.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case FunctionDecl:
		for _, d := range n.Decls() {
			if _, param := d.(*ParmVarDecl); param {
				Inspect(d, f)
			}
		}
		if ctor, ok := n.(CXXConstructorDecl); ok {
			for _, init := range ctor.Initializers() {
				if init.Init != nil {
					Inspect(init.Init, f)
				}
			}
		}
		if body := n.Body(); body != nil {
			Inspect(body, f)
		}
	case DeclContext:
		for _, d := range n.Decls() {
			Inspect(d, f)
		}
	case VarDecl:
		if init := n.Init(); init != nil {
			Inspect(init, f)
		}
	case *FieldDecl:
		if init := n.InClassInitializer(); init != nil {
			Inspect(init, f)
		}
	case *DeclStmt:
		for _, d := range n.Decls {
			Inspect(d, f)
		}
	case Stmt:
		for _, c := range n.Children() {
			Inspect(c, f)
		}
	}
}

// StmtCursor enumerates the descendants of a statement in depth-first
// pre-order.  The root itself is not produced.
type StmtCursor struct {
	stack []Stmt
}

// NewDescendantCursor returns a cursor over the descendants of root.
func NewDescendantCursor(root Stmt) *StmtCursor {
	c := &StmtCursor{}
	c.push(root)
	return c
}

func (c *StmtCursor) push(s Stmt) {
	children := s.Children()
	for i := len(children) - 1; i >= 0; i-- {
		c.stack = append(c.stack, children[i])
	}
}

// Next returns the next descendant.  The second result is false once the
// walk is exhausted.
func (c *StmtCursor) Next() (Stmt, bool) {
	if len(c.stack) == 0 {
		return nil, false
	}
	s := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.push(s)
	return s, true
}

// Descendants returns every descendant of root in the cursor's order.
func Descendants(root Stmt) []Stmt {
	var out []Stmt
	c := NewDescendantCursor(root)
	for s, ok := c.Next(); ok; s, ok = c.Next() {
		out = append(out, s)
	}
	return out
}

// LookupMember finds the members of record named name, searching the class
// and then its bases in declaration order.  The first class that declares
// the name hides the bases.
func LookupMember(record *CXXRecordDecl, name string) []NamedDecl {
	return lookupMember(record, name, map[*CXXRecordDecl]bool{})
}

func lookupMember(record *CXXRecordDecl, name string, seen map[*CXXRecordDecl]bool) []NamedDecl {
	if record == nil {
		return nil
	}
	if def := record.Definition(); def != nil {
		record = def
	}
	if seen[record] {
		return nil
	}
	seen[record] = true
	var found []NamedDecl
	for _, d := range record.Decls() {
		nd, ok := d.(NamedDecl)
		if !ok || nd.Name() != name {
			continue
		}
		if _, ctor := nd.(CXXConstructorDecl); ctor {
			continue
		}
		found = append(found, nd)
	}
	if len(found) > 0 {
		return found
	}
	for _, b := range record.Bases() {
		if r := lookupMember(b.BaseClass, name, seen); len(r) > 0 {
			return r
		}
	}
	return nil
}
