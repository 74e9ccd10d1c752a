package mir

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Dump writes a human-readable representation of a module. Functions are
// sorted by symbol so that output is stable across runs.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	p := &printer{w: w}
	p.printf("module %s ptr=%d\n", m.Name, m.Width)
	if m.Entry != "" {
		p.printf("entry=%s\n", m.Entry)
	}
	if len(m.Structs) > 0 {
		p.printf("structs=%d\n", len(m.Structs))
		for _, s := range m.Structs {
			fields := make([]string, len(s.Fields))
			for i, f := range s.Fields {
				fields[i] = f.Name + ": " + f.Type.String()
			}
			p.printf("  %s { %s }\n", s.Name, strings.Join(fields, ", "))
		}
	}

	funcs := slices.Clone(m.Funcs)
	slices.SortStableFunc(funcs, func(a, b *Func) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})
	p.printf("funcs=%d\n", len(funcs))
	for _, f := range funcs {
		p.fn(f)
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) fn(f *Func) {
	params := make([]string, len(f.Params))
	for i, prm := range f.Params {
		params[i] = fmt.Sprintf("L%d", prm.Local)
	}
	attrs := ""
	if f.SRet {
		attrs += " sret"
	}
	if f.IsIntrinsic() {
		attrs += " intrinsic"
	}
	p.printf("\nfn %s(%s) -> %s%s:\n", f.Symbol, strings.Join(params, ", "), f.Result, attrs)
	p.printf("  locals:\n")
	for i, l := range f.Locals {
		name := l.Name
		if name == "" {
			name = "_"
		}
		flags := formatLocalFlags(l.Flags)
		if flags != "" {
			p.printf("    L%d: %s name=%s %s\n", i, l.Type, name, flags)
		} else {
			p.printf("    L%d: %s name=%s\n", i, l.Type, name)
		}
	}
	if f.Body == nil {
		return
	}
	p.printf("  body:\n")
	p.block(f.Body, 2)
}

func formatLocalFlags(f LocalFlags) string {
	var parts []string
	if f&LocalFlagParam != 0 {
		parts = append(parts, "param")
	}
	if f&LocalFlagByRef != 0 {
		parts = append(parts, "byref")
	}
	return strings.Join(parts, " ")
}

func (p *printer) block(stmts []*Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range stmts {
		switch d := s.Data.(type) {
		case LetData:
			if d.Value == nil {
				p.printf("%slet L%d\n", indent, d.Local)
			} else {
				p.printf("%slet L%d = %s\n", indent, d.Local, formatExpr(d.Value))
			}
		case EvalData:
			p.printf("%s%s\n", indent, formatExpr(d.Expr))
		case StoreData:
			p.printf("%s%s = %s\n", indent, formatPlace(d.Place), formatExpr(d.Value))
		case ReturnData:
			if d.Value == nil {
				p.printf("%sreturn\n", indent)
			} else {
				p.printf("%sreturn %s\n", indent, formatExpr(d.Value))
			}
		case IfData:
			p.printf("%sif %s {\n", indent, formatExpr(d.Cond))
			p.block(d.Then, depth+1)
			if d.Else != nil {
				p.printf("%s} else {\n", indent)
				p.block(d.Else, depth+1)
			}
			p.printf("%s}\n", indent)
		case WhileData:
			p.printf("%swhile %s {\n", indent, formatExpr(d.Cond))
			p.block(d.Body, depth+1)
			p.printf("%s}\n", indent)
		}
	}
}

func formatExpr(e *Expr) string {
	switch d := e.Data.(type) {
	case LocalData:
		return fmt.Sprintf("L%d", d.Local)
	case ConstData:
		switch d.Kind {
		case ConstBool:
			return strconv.FormatBool(d.Bool)
		case ConstString:
			return strconv.Quote(d.Str)
		default:
			return strconv.FormatUint(d.Int, 10) + ":" + e.Type.String()
		}
	case UnaryData:
		return "(" + d.Op.String() + formatExpr(d.Operand) + ")"
	case BinaryData:
		return "(" + formatExpr(d.Left) + " " + d.Op.String() + " " + formatExpr(d.Right) + ")"
	case CastData:
		return "(" + formatExpr(d.Value) + " as " + e.Type.String() + ")"
	case CallData:
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = formatExpr(a)
		}
		s := "call " + d.Symbol + "(" + strings.Join(args, ", ") + ")"
		if d.SRet {
			s += " sret"
		}
		return s
	case StructLitData:
		fields := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = formatExpr(f)
		}
		return e.Type.String() + "{" + strings.Join(fields, ", ") + "}"
	case PlaceData:
		if e.Kind == ExprAddrOf {
			return "&" + formatPlace(d.Place)
		}
		return formatPlace(d.Place)
	}
	return "<?>"
}

func formatPlace(pl Place) string {
	var b strings.Builder
	if pl.Local == NoLocalID {
		b.WriteString("tmp(" + formatExpr(pl.Base) + ")")
	} else {
		fmt.Fprintf(&b, "L%d", pl.Local)
	}
	for _, proj := range pl.Proj {
		switch proj.Kind {
		case PlaceProjDeref:
			b.WriteString(".*")
		case PlaceProjField:
			b.WriteString("." + proj.FieldName)
		case PlaceProjIndex:
			b.WriteString("[" + formatExpr(proj.Index) + "]")
		}
	}
	return b.String()
}
