package ast

import "ferrite/internal/source"

// Constructors below are used by the wire decoder and by tests that build
// trees by hand. Spans are left empty; callers that care set them afterwards.

func Named(name string, args ...*Type) *Type {
	return &Type{Kind: TypeRef, Name: name, Args: args}
}

func PtrTo(elem *Type) *Type {
	return &Type{Kind: TypePtr, Elem: elem}
}

func Infer() *Type {
	return &Type{Kind: TypeInfer}
}

func Ident(name string) *Expr {
	return &Expr{Kind: ExprIdent, Data: IdentData{Name: name}}
}

func Int(text string) *Expr {
	return &Expr{Kind: ExprLit, Data: LitData{Kind: LitInt, Text: text}}
}

func Bool(v bool) *Expr {
	text := "false"
	if v {
		text = "true"
	}
	return &Expr{Kind: ExprLit, Data: LitData{Kind: LitBool, Text: text}}
}

func Str(s string) *Expr {
	return &Expr{Kind: ExprLit, Data: LitData{Kind: LitString, Text: s}}
}

func Unary(op ExprUnaryOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Data: UnaryData{Op: op, Operand: operand}}
}

func Binary(op ExprBinaryOp, l, r *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Data: BinaryData{Op: op, Left: l, Right: r}}
}

// Call builds a call; pass nil generics for "none written".
func Call(name string, generics []*Type, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Data: CallData{Name: name, GenericArgs: generics, Args: args}}
}

// MethodCall builds Recv::name(args).
func MethodCall(recv, name string, generics []*Type, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Data: CallData{Recv: recv, Name: name, GenericArgs: generics, Args: args}}
}

func StructLit(name string, generics []*Type, fields ...FieldInit) *Expr {
	return &Expr{Kind: ExprStructLit, Data: StructLitData{Name: name, GenericArgs: generics, Fields: fields}}
}

func Field(name string, value *Expr) FieldInit {
	return FieldInit{Name: name, Value: value}
}

func Index(target, index *Expr) *Expr {
	return &Expr{Kind: ExprIndex, Data: IndexData{Target: target, Index: index}}
}

func Member(target *Expr, field string) *Expr {
	return &Expr{Kind: ExprField, Data: FieldData{Target: target, Field: field}}
}

func Cast(value *Expr, ty *Type) *Expr {
	return &Expr{Kind: ExprCast, Data: CastData{Value: value, Type: ty}}
}

func Let(name string, ty *Type, value *Expr) *Stmt {
	return &Stmt{Kind: StmtLet, Data: LetData{Name: name, Type: ty, Value: value}}
}

func Return(value *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Data: ReturnData{Value: value}}
}

func Effect(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Data: ExprStmtData{Expr: e}}
}

func Assign(target, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Data: AssignData{Target: target, Value: value}}
}

func If(cond *Expr, then, els []*Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Data: IfData{Cond: cond, Then: then, Else: els}}
}

func While(cond *Expr, body []*Stmt) *Stmt {
	return &Stmt{Kind: StmtWhile, Data: WhileData{Cond: cond, Body: body}}
}

func FnItem(decl *FnDecl, body ...*Stmt) *Item {
	return &Item{Kind: ItemFn, Span: decl.Span, Data: &FnData{Decl: decl, Body: body}}
}

func ImplItem(iface, forType string, decl *FnDecl, body ...*Stmt) *Item {
	return &Item{Kind: ItemImpl, Span: decl.Span, Data: &ImplData{
		Interface: iface,
		For:       forType,
		Fn:        &FnData{Decl: decl, Body: body},
	}}
}

func TypeDefItem(name string, generics []GenericParam, fields ...FieldDecl) *Item {
	return &Item{Kind: ItemTypeDef, Data: &TypeDefData{Name: name, Generics: generics, Fields: fields}}
}

func InterfaceItem(name string, methods ...*FnDecl) *Item {
	return &Item{Kind: ItemInterface, Data: &InterfaceData{Name: name, Methods: methods}}
}

func UseItem(path string) *Item {
	return &Item{Kind: ItemUse, Data: &UseData{Path: path}}
}

// Generics turns plain names into unrestricted generic parameters.
func Generics(names ...string) []GenericParam {
	out := make([]GenericParam, len(names))
	for i, n := range names {
		out[i] = GenericParam{Name: n}
	}
	return out
}

// WithSpan sets the span of e and returns it.
func (e *Expr) WithSpan(sp source.Span) *Expr {
	e.Span = sp
	return e
}

// WithSpan sets the span of s and returns it.
func (s *Stmt) WithSpan(sp source.Span) *Stmt {
	s.Span = sp
	return s
}
