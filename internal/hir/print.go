//nolint:errcheck // Type assertions are checked by construction
package hir

import (
	"fmt"
	"io"
	"strings"

	"ferrite/internal/ast"
)

// Printer is used to dump HIR to text format.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes the HIR module to the writer.
func Dump(w io.Writer, m *Module) error {
	return NewPrinter(w).PrintModule(m)
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule(m *Module) error {
	p.printf("module %s\n\n", m.Name)
	for _, st := range m.Structs {
		p.printf("type %s {", st.Struct.Name)
		for i, f := range st.Struct.Fields {
			if i > 0 {
				p.printf(",")
			}
			p.printf(" %s: %s", f.Name, f.Type)
		}
		p.printf(" }\n")
	}
	if len(m.Structs) > 0 {
		p.printf("\n")
	}
	for _, f := range m.Funcs {
		p.PrintFunc(f)
		p.printf("\n")
	}
	return p.err
}

// PrintFunc prints a function.
func (p *Printer) PrintFunc(f *Func) {
	p.printf("%sfn %s(", f.Flags, f.Symbol)
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s: %s", param.Name, param.Type)
	}
	if f.Flags.HasFlag(FuncVariadic) {
		p.printf(", ...")
	}
	p.printf(") -> %s", f.Result)
	if f.Alloc != ast.AllocDefault {
		p.printf(" [%s]", f.Alloc)
	}
	if f.Identity != "" && f.Identity != f.Symbol {
		p.printf(" // %s", f.Identity)
	}
	if f.Body == nil {
		p.printf("\n")
		return
	}
	p.printf(" {\n")
	p.indent++
	p.printBlock(f.Body)
	p.indent--
	p.printf("}\n")
}

func (p *Printer) printBlock(stmts []*Stmt) {
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *Printer) printStmt(s *Stmt) {
	p.printIndent()
	switch s.Kind {
	case StmtLet:
		d := s.Data.(LetData)
		p.printf("let %s: %s", d.Name, d.Type)
		if d.Value != nil {
			p.printf(" = ")
			p.printExpr(d.Value)
		}
	case StmtExpr:
		p.printExpr(s.Data.(ExprStmtData).Expr)
	case StmtAssign:
		d := s.Data.(AssignData)
		p.printExpr(d.Target)
		p.printf(" = ")
		p.printExpr(d.Value)
	case StmtReturn:
		p.printf("return")
		if v := s.Data.(ReturnData).Value; v != nil {
			p.printf(" ")
			p.printExpr(v)
		}
	case StmtIf:
		d := s.Data.(IfData)
		p.printf("if ")
		p.printExpr(d.Cond)
		p.printf(" {\n")
		p.nested(d.Then)
		if d.Else != nil {
			p.printIndent()
			p.printf("} else {\n")
			p.nested(d.Else)
		}
		p.printIndent()
		p.printf("}")
	case StmtWhile:
		d := s.Data.(WhileData)
		p.printf("while ")
		p.printExpr(d.Cond)
		p.printf(" {\n")
		p.nested(d.Body)
		p.printIndent()
		p.printf("}")
	}
	p.printf("\n")
}

func (p *Printer) nested(stmts []*Stmt) {
	p.indent++
	p.printBlock(stmts)
	p.indent--
}

func (p *Printer) printExpr(e *Expr) {
	switch d := e.Data.(type) {
	case VarData:
		p.printf("%s", d.Name)
	case LiteralData:
		if d.Kind == ast.LitString {
			p.printf("%q", d.Text)
		} else {
			p.printf("%s", d.Text)
		}
	case UnaryOpData:
		p.printf("%s", d.Op)
		p.printExpr(d.Operand)
	case BinaryOpData:
		p.printf("(")
		p.printExpr(d.Left)
		if d.Promotion != nil && d.Promotion.Left.Apply {
			p.printf(" %s", d.Promotion.Left)
		}
		p.printf(" %s ", d.Op)
		p.printExpr(d.Right)
		if d.Promotion != nil && d.Promotion.Right.Apply {
			p.printf(" %s", d.Promotion.Right)
		}
		p.printf(")")
	case CallData:
		name := d.Symbol
		if name == "" {
			name = d.Name + "<?>"
		}
		p.printf("%s(", name)
		for i, a := range d.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(a)
		}
		p.printf(")")
	case StructLitData:
		p.printf("%s{", e.Type)
		parts := make([]string, 0, len(d.Fields))
		for _, f := range d.Fields {
			var sb strings.Builder
			sub := &Printer{w: &sb}
			sub.printExpr(f.Value)
			parts = append(parts, f.Name+": "+sb.String())
		}
		p.printf("%s}", strings.Join(parts, ", "))
		return
	case IndexData:
		p.printExpr(d.Target)
		p.printf("[")
		p.printExpr(d.Index)
		p.printf("]")
	case FieldAccessData:
		p.printExpr(d.Target)
		p.printf(".%s", d.Field)
	case CastData:
		p.printExpr(d.Value)
		p.printf(" as %s", e.Type)
		return
	}
	p.printf(": %s", e.Type)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
