// Package testkit holds assertions shared by decoder and pipeline tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ferrite/internal/ast"
	"ferrite/internal/source"
)

// CheckSpanInvariants walks a decoded module and verifies its spans:
// every non-empty span points at sf and lies within its text, and every
// statement span lies within the span of its enclosing item when both are
// known. Zero spans are allowed for nodes the document left unannotated.
func CheckSpanInvariants(m *ast.Module, sf *source.File) error {
	if m == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	if m.File != sf.ID {
		return fmt.Errorf("module points to file %d, want %d", m.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Text))
	if err != nil {
		return fmt.Errorf("len text overflow: %w", err)
	}
	c := spanChecker{file: sf.ID, size: size}
	for i, it := range m.Items {
		if it == nil {
			return fmt.Errorf("nil item #%d", i)
		}
		if err := c.check(it.Span); err != nil {
			return fmt.Errorf("item #%d: %w", i, err)
		}
		var body []*ast.Stmt
		switch d := it.Data.(type) {
		case *ast.FnData:
			body = d.Body
		case *ast.ImplData:
			if d.Fn != nil {
				body = d.Fn.Body
			}
		}
		if err := c.stmts(body, it.Span); err != nil {
			return fmt.Errorf("item #%d: %w", i, err)
		}
	}
	return nil
}

type spanChecker struct {
	file source.FileID
	size uint32
}

func (c spanChecker) check(sp source.Span) error {
	if sp.Empty() {
		return nil
	}
	if sp.File != c.file {
		return fmt.Errorf("span %v points to file %d, want %d", sp, sp.File, c.file)
	}
	if sp.Start > sp.End || sp.End > c.size {
		return fmt.Errorf("span %v is outside the document (%d bytes)", sp, c.size)
	}
	return nil
}

func (c spanChecker) stmts(list []*ast.Stmt, outer source.Span) error {
	for _, st := range list {
		if st == nil {
			continue
		}
		if err := c.check(st.Span); err != nil {
			return err
		}
		if !st.Span.Empty() && !outer.Empty() && (st.Span.Start < outer.Start || st.Span.End > outer.End) {
			return fmt.Errorf("statement span %v is outside %v", st.Span, outer)
		}
		inner := outer
		if !st.Span.Empty() {
			inner = st.Span
		}
		switch d := st.Data.(type) {
		case ast.IfData:
			if err := c.stmts(d.Then, inner); err != nil {
				return err
			}
			if err := c.stmts(d.Else, inner); err != nil {
				return err
			}
		case ast.WhileData:
			if err := c.stmts(d.Body, inner); err != nil {
				return err
			}
		}
	}
	return nil
}
