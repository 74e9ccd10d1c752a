package astio

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"ferrite/internal/ast"
	"ferrite/internal/source"
)

// Format is the encoding of a syntactic module document.
type Format uint8

const (
	FormatYAML Format = iota
	FormatMsgpack
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".mp", ".msgpack":
		return FormatMsgpack, true
	}
	return 0, false
}

// DecodeError reports a malformed document. Where is the path of the
// offending node, e.g. "items[2].body[0].value".
type DecodeError struct {
	Path  string
	Where string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Where, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrInferOutsideLet is reported for "_" anywhere but a let annotation.
var ErrInferOutsideLet = errors.New("type inference marker is only allowed on let bindings")

// Document is a decoded but not yet converted syntactic module.
type Document struct {
	path string
	wire wireModule
}

// Parse decodes a document without interpreting it.
func Parse(path string, data []byte, format Format) (*Document, error) {
	doc := &Document{path: path}
	var err error
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields(true)
		err = dec.Decode(&doc.wire)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc.wire)
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if doc.wire.Module == "" {
		return nil, &DecodeError{Path: path, Err: errors.New("missing module name")}
	}
	return doc, nil
}

// Name is the module name.
func (d *Document) Name() string { return norm.NFC.String(d.wire.Module) }

// Source is the program text shipped along by the parser, if any.
func (d *Document) Source() []byte {
	if d.wire.Source == "" {
		return nil
	}
	return []byte(d.wire.Source)
}

// Module converts the document into a syntactic module whose spans point
// into file.
func (d *Document) Module(file source.FileID) (*ast.Module, error) {
	c := &converter{path: d.path, file: file}
	m := &ast.Module{Name: d.Name(), File: file, Items: make([]*ast.Item, 0, len(d.wire.Items))}
	for i := range d.wire.Items {
		c.push(fmt.Sprintf("items[%d]", i))
		it, err := c.item(&d.wire.Items[i])
		if err != nil {
			return nil, err
		}
		c.pop()
		m.Items = append(m.Items, it)
	}
	return m, nil
}

// Decode is Parse followed by Module.
func Decode(path string, data []byte, format Format, file source.FileID) (*ast.Module, error) {
	doc, err := Parse(path, data, format)
	if err != nil {
		return nil, err
	}
	return doc.Module(file)
}

type converter struct {
	path  string
	file  source.FileID
	where []string
}

func (c *converter) push(s string) { c.where = append(c.where, s) }
func (c *converter) pop()          { c.where = c.where[:len(c.where)-1] }

func (c *converter) errorf(format string, args ...any) error {
	return &DecodeError{Path: c.path, Where: strings.Join(c.where, "."), Err: fmt.Errorf(format, args...)}
}

func (c *converter) wrap(err error) error {
	return &DecodeError{Path: c.path, Where: strings.Join(c.where, "."), Err: err}
}

func (c *converter) span(raw []uint32) source.Span {
	if len(raw) != 2 {
		return source.Span{File: c.file}
	}
	return source.Span{File: c.file, Start: raw[0], End: raw[1]}
}

func name(s string) string {
	return norm.NFC.String(s)
}

// typ converts a type annotation that must be written out.
func (c *converter) typ(text string, sp source.Span) (*ast.Type, error) {
	if text == "" {
		return nil, c.errorf("missing type")
	}
	t, err := parseType(text, sp)
	if err != nil {
		return nil, c.wrap(err)
	}
	if containsInfer(t) {
		return nil, c.wrap(ErrInferOutsideLet)
	}
	return t, nil
}

func containsInfer(t *ast.Type) bool {
	switch t.Kind {
	case ast.TypeInfer:
		return true
	case ast.TypePtr:
		return containsInfer(t.Elem)
	}
	for _, a := range t.Args {
		if containsInfer(a) {
			return true
		}
	}
	return false
}

func (c *converter) types(list []string, sp source.Span) ([]*ast.Type, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]*ast.Type, len(list))
	for i, s := range list {
		t, err := c.typ(s, sp)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (c *converter) generics(list []wireGeneric, sp source.Span) []ast.GenericParam {
	if len(list) == 0 {
		return nil
	}
	out := make([]ast.GenericParam, len(list))
	for i, g := range list {
		rs := make([]string, len(g.Restrictions))
		for j, r := range g.Restrictions {
			rs[j] = name(r)
		}
		out[i] = ast.GenericParam{Name: name(g.Name), Restrictions: rs, Span: sp}
	}
	return out
}

func (c *converter) item(w *wireItem) (*ast.Item, error) {
	sp := c.span(w.Span)
	switch w.Kind {
	case "fn":
		fn, err := c.fn(w, sp)
		if err != nil {
			return nil, err
		}
		return &ast.Item{Kind: ast.ItemFn, Span: sp, Data: fn}, nil

	case "impl":
		if w.Interface == "" || w.For == "" {
			return nil, c.errorf("impl needs both interface and for")
		}
		fn, err := c.fn(w, sp)
		if err != nil {
			return nil, err
		}
		return &ast.Item{Kind: ast.ItemImpl, Span: sp, Data: &ast.ImplData{
			Interface: name(w.Interface),
			For:       name(w.For),
			Fn:        fn,
		}}, nil

	case "type":
		def := &ast.TypeDefData{Name: name(w.Name), Generics: c.generics(w.Generics, sp)}
		for i, f := range w.Fields {
			c.push(fmt.Sprintf("fields[%d]", i))
			fsp := c.span(f.Span)
			t, err := c.typ(f.Type, fsp)
			if err != nil {
				return nil, err
			}
			c.pop()
			def.Fields = append(def.Fields, ast.FieldDecl{Name: name(f.Name), Type: t, Span: fsp})
		}
		return &ast.Item{Kind: ast.ItemTypeDef, Span: sp, Data: def}, nil

	case "interface":
		iface := &ast.InterfaceData{Name: name(w.Name)}
		for i := range w.Methods {
			c.push(fmt.Sprintf("methods[%d]", i))
			decl, err := c.decl(&w.Methods[i], c.span(w.Methods[i].Span))
			if err != nil {
				return nil, err
			}
			c.pop()
			iface.Methods = append(iface.Methods, decl)
		}
		return &ast.Item{Kind: ast.ItemInterface, Span: sp, Data: iface}, nil

	case "use":
		if w.Path == "" {
			return nil, c.errorf("use without path")
		}
		return &ast.Item{Kind: ast.ItemUse, Span: sp, Data: &ast.UseData{Path: name(w.Path)}}, nil
	}
	return nil, c.errorf("unknown item kind %q", w.Kind)
}

func (c *converter) decl(w *wireItem, sp source.Span) (*ast.FnDecl, error) {
	if w.Name == "" {
		return nil, c.errorf("function without name")
	}
	alloc, ok := ast.ParseAllocMode(w.Alloc)
	if !ok {
		return nil, c.errorf("unknown allocation mode %q", w.Alloc)
	}
	decl := &ast.FnDecl{
		Name:      name(w.Name),
		Generics:  c.generics(w.Generics, sp),
		Variadic:  w.Variadic,
		Alloc:     alloc,
		Intrinsic: w.Intrinsic,
		Span:      sp,
	}
	for i, p := range w.Params {
		c.push(fmt.Sprintf("params[%d]", i))
		psp := c.span(p.Span)
		t, err := c.typ(p.Type, psp)
		if err != nil {
			return nil, err
		}
		c.pop()
		decl.Params = append(decl.Params, ast.Param{Name: name(p.Name), Type: t, Span: psp})
	}
	if w.Ret != "" && w.Ret != "void" {
		c.push("ret")
		t, err := c.typ(w.Ret, sp)
		if err != nil {
			return nil, err
		}
		c.pop()
		decl.Ret = t
	}
	return decl, nil
}

func (c *converter) fn(w *wireItem, sp source.Span) (*ast.FnData, error) {
	decl, err := c.decl(w, sp)
	if err != nil {
		return nil, err
	}
	c.push("body")
	body, err := c.block(w.Body)
	if err != nil {
		return nil, err
	}
	c.pop()
	// an absent body stays nil: only intrinsics may omit it
	return &ast.FnData{Decl: decl, Body: body}, nil
}

func (c *converter) block(list []*wireStmt) ([]*ast.Stmt, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]*ast.Stmt, len(list))
	for i, w := range list {
		c.push(fmt.Sprintf("[%d]", i))
		s, err := c.stmt(w)
		if err != nil {
			return nil, err
		}
		c.pop()
		out[i] = s
	}
	return out, nil
}

func (c *converter) stmt(w *wireStmt) (*ast.Stmt, error) {
	if w == nil {
		return nil, c.errorf("null statement")
	}
	sp := c.span(w.Span)
	out := &ast.Stmt{Span: sp}
	switch w.Kind {
	case "let":
		if w.Name == "" {
			return nil, c.errorf("let without name")
		}
		var t *ast.Type
		if w.Type != "" {
			var err error
			if t, err = parseType(w.Type, sp); err != nil {
				return nil, c.wrap(err)
			}
			// "_" alone is the omitted annotation; nested markers are not
			if t.Kind == ast.TypeInfer {
				t = nil
			} else if containsInfer(t) {
				return nil, c.wrap(ErrInferOutsideLet)
			}
		}
		v, err := c.optExpr("value", w.Value)
		if err != nil {
			return nil, err
		}
		if t == nil && v == nil {
			return nil, c.errorf("let %s needs a type or a value", w.Name)
		}
		out.Kind, out.Data = ast.StmtLet, ast.LetData{Name: name(w.Name), Type: t, Value: v}

	case "return":
		v, err := c.optExpr("value", w.Value)
		if err != nil {
			return nil, err
		}
		out.Kind, out.Data = ast.StmtReturn, ast.ReturnData{Value: v}

	case "expr":
		e, err := c.reqExpr("expr", w.Expr)
		if err != nil {
			return nil, err
		}
		out.Kind, out.Data = ast.StmtExpr, ast.ExprStmtData{Expr: e}

	case "assign":
		target, err := c.reqExpr("target", w.Target)
		if err != nil {
			return nil, err
		}
		v, err := c.reqExpr("value", w.Value)
		if err != nil {
			return nil, err
		}
		out.Kind, out.Data = ast.StmtAssign, ast.AssignData{Target: target, Value: v}

	case "if":
		cond, err := c.reqExpr("cond", w.Cond)
		if err != nil {
			return nil, err
		}
		c.push("then")
		then, err := c.block(w.Then)
		if err != nil {
			return nil, err
		}
		c.pop()
		if then == nil {
			then = []*ast.Stmt{}
		}
		c.push("else")
		els, err := c.block(w.Else)
		if err != nil {
			return nil, err
		}
		c.pop()
		out.Kind, out.Data = ast.StmtIf, ast.IfData{Cond: cond, Then: then, Else: els}

	case "while":
		cond, err := c.reqExpr("cond", w.Cond)
		if err != nil {
			return nil, err
		}
		c.push("body")
		body, err := c.block(w.Body)
		if err != nil {
			return nil, err
		}
		c.pop()
		if body == nil {
			body = []*ast.Stmt{}
		}
		out.Kind, out.Data = ast.StmtWhile, ast.WhileData{Cond: cond, Body: body}

	default:
		return nil, c.errorf("unknown statement kind %q", w.Kind)
	}
	return out, nil
}

func (c *converter) optExpr(field string, w *wireExpr) (*ast.Expr, error) {
	if w == nil {
		return nil, nil
	}
	return c.reqExpr(field, w)
}

func (c *converter) reqExpr(field string, w *wireExpr) (*ast.Expr, error) {
	c.push(field)
	defer c.pop()
	if w == nil {
		return nil, c.errorf("missing expression")
	}
	return c.expr(w)
}

func (c *converter) expr(w *wireExpr) (*ast.Expr, error) {
	sp := c.span(w.Span)
	var out *ast.Expr
	switch w.Kind {
	case "ident":
		if w.Name == "" {
			return nil, c.errorf("identifier without name")
		}
		out = ast.Ident(name(w.Name))

	case "int":
		out = ast.Int(w.Text)
	case "bool":
		if w.Text != "true" && w.Text != "false" {
			return nil, c.errorf("bool literal %q", w.Text)
		}
		out = ast.Bool(w.Text == "true")
	case "string":
		out = ast.Str(w.Text)

	case "unary":
		op, ok := parseUnaryOp(w.Op)
		if !ok {
			return nil, c.errorf("unknown unary operator %q", w.Op)
		}
		operand, err := c.reqExpr("operand", w.Operand)
		if err != nil {
			return nil, err
		}
		out = ast.Unary(op, operand)

	case "binary":
		op, ok := ast.ParseBinaryOp(w.Op)
		if !ok {
			return nil, c.errorf("unknown binary operator %q", w.Op)
		}
		l, err := c.reqExpr("left", w.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.reqExpr("right", w.Right)
		if err != nil {
			return nil, err
		}
		out = ast.Binary(op, l, r)

	case "call":
		generics, err := c.types(w.Generics, sp)
		if err != nil {
			return nil, err
		}
		args := make([]*ast.Expr, len(w.Args))
		for i, a := range w.Args {
			if args[i], err = c.reqExpr(fmt.Sprintf("args[%d]", i), a); err != nil {
				return nil, err
			}
		}
		if w.Recv != "" {
			out = ast.MethodCall(name(w.Recv), name(w.Name), generics, args...)
		} else {
			out = ast.Call(name(w.Name), generics, args...)
		}

	case "struct":
		generics, err := c.types(w.Generics, sp)
		if err != nil {
			return nil, err
		}
		fields := make([]ast.FieldInit, len(w.Fields))
		for i, f := range w.Fields {
			v, err := c.reqExpr(fmt.Sprintf("fields[%d]", i), f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.FieldInit{Name: name(f.Name), Value: v, Span: c.span(f.Span)}
		}
		out = ast.StructLit(name(w.Name), generics, fields...)

	case "index":
		target, err := c.reqExpr("target", w.Target)
		if err != nil {
			return nil, err
		}
		idx, err := c.reqExpr("index", w.Index)
		if err != nil {
			return nil, err
		}
		out = ast.Index(target, idx)

	case "field":
		target, err := c.reqExpr("target", w.Target)
		if err != nil {
			return nil, err
		}
		out = ast.Member(target, name(w.Field))

	case "cast":
		v, err := c.reqExpr("value", w.Value)
		if err != nil {
			return nil, err
		}
		t, err := c.typ(w.Type, sp)
		if err != nil {
			return nil, err
		}
		out = ast.Cast(v, t)

	default:
		return nil, c.errorf("unknown expression kind %q", w.Kind)
	}
	return out.WithSpan(sp), nil
}

func parseUnaryOp(s string) (ast.ExprUnaryOp, bool) {
	for op := ast.ExprUnaryMinus; op <= ast.ExprUnaryRef; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}
