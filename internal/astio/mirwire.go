package astio

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"ferrite/internal/hir"
	"ferrite/internal/layout"
	"ferrite/internal/mir"
)

// The concrete module document consumed by the backend. Types are strings
// ("u64", "*Vec<u8>"); struct types refer to the struct table by name.

type MIRModule struct {
	Module   string      `msgpack:"module"`
	PtrWidth uint8       `msgpack:"ptr_width"`
	Target   string      `msgpack:"target,omitempty"`
	Entry    string      `msgpack:"entry,omitempty"`
	Structs  []MIRStruct `msgpack:"structs"`
	Funcs    []MIRFunc   `msgpack:"funcs"`
}

type MIRStruct struct {
	Name   string     `msgpack:"name"`
	Base   string     `msgpack:"base"`
	Size   int        `msgpack:"size"`
	Align  int        `msgpack:"align"`
	Fields []MIRField `msgpack:"fields"`
}

type MIRField struct {
	Name   string `msgpack:"name"`
	Type   string `msgpack:"type"`
	Offset int    `msgpack:"offset"`
}

type MIRFunc struct {
	Symbol    string     `msgpack:"symbol"`
	Name      string     `msgpack:"name"`
	Identity  string     `msgpack:"identity"`
	Params    []MIRParam `msgpack:"params"`
	Result    string     `msgpack:"result"`
	SRet      bool       `msgpack:"sret,omitempty"`
	Alloc     string     `msgpack:"alloc,omitempty"`
	Intrinsic bool       `msgpack:"intrinsic,omitempty"`
	Variadic  bool       `msgpack:"variadic,omitempty"`
	Entry     bool       `msgpack:"entry,omitempty"`
	Locals    []MIRLocal `msgpack:"locals"`
	Body      []*MIRNode `msgpack:"body,omitempty"`
}

type MIRParam struct {
	Name  string `msgpack:"name"`
	Type  string `msgpack:"type"`
	Local int32  `msgpack:"local"`
	ByRef bool   `msgpack:"byref,omitempty"`
}

type MIRLocal struct {
	Name  string `msgpack:"name"`
	Type  string `msgpack:"type"`
	Param bool   `msgpack:"param,omitempty"`
	ByRef bool   `msgpack:"byref,omitempty"`
}

// MIRNode is one statement or expression. Kind is the lower-cased
// mir kind name ("let", "binary", "load", ...).
type MIRNode struct {
	Kind string `msgpack:"kind"`
	Type string `msgpack:"type,omitempty"`

	Local *int32 `msgpack:"local,omitempty"`
	Op    string `msgpack:"op,omitempty"`
	// const
	Int  uint64 `msgpack:"int,omitempty"`
	Bool bool   `msgpack:"bool,omitempty"`
	Str  string `msgpack:"str,omitempty"`
	// call
	Symbol   string `msgpack:"symbol,omitempty"`
	Variadic int    `msgpack:"variadic,omitempty"`
	SRet     bool   `msgpack:"sret,omitempty"`

	Value *MIRNode   `msgpack:"value,omitempty"`
	Left  *MIRNode   `msgpack:"left,omitempty"`
	Right *MIRNode   `msgpack:"right,omitempty"`
	Args  []*MIRNode `msgpack:"args,omitempty"`
	Place *MIRPlace  `msgpack:"place,omitempty"`

	Cond *MIRNode   `msgpack:"cond,omitempty"`
	Then []*MIRNode `msgpack:"then,omitempty"`
	Else []*MIRNode `msgpack:"else,omitempty"`
	Body []*MIRNode `msgpack:"body,omitempty"`
}

type MIRPlace struct {
	Local *int32    `msgpack:"local,omitempty"`
	Base  *MIRNode  `msgpack:"base,omitempty"`
	Proj  []MIRProj `msgpack:"proj,omitempty"`
}

type MIRProj struct {
	Kind  string   `msgpack:"kind"` // deref, field, index
	Field int      `msgpack:"field,omitempty"`
	Name  string   `msgpack:"name,omitempty"`
	Index *MIRNode `msgpack:"index,omitempty"`
}

// EncodeMIR serializes a concrete module together with its struct
// layouts for target.
func EncodeMIR(m *mir.Module, target layout.Target) ([]byte, error) {
	doc, err := BuildMIR(m, target)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode mir: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMIR reads a document written by EncodeMIR.
func DecodeMIR(data []byte) (*MIRModule, error) {
	var doc MIRModule
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode mir: %w", err)
	}
	return &doc, nil
}

// BuildMIR converts a concrete module into its document form.
func BuildMIR(m *mir.Module, target layout.Target) (*MIRModule, error) {
	if target.PtrWidth != m.Width {
		return nil, fmt.Errorf("encode mir: module lowered for %d bits, target %s has %d", m.Width, target.Name, target.PtrWidth)
	}
	layouts, err := layout.New(target).Module(m)
	if err != nil {
		return nil, fmt.Errorf("encode mir: %w", err)
	}
	doc := &MIRModule{
		Module:   m.Name,
		PtrWidth: uint8(m.Width),
		Target:   target.Name,
		Entry:    m.Entry,
		Structs:  make([]MIRStruct, 0, len(m.Structs)),
		Funcs:    make([]MIRFunc, 0, len(m.Funcs)),
	}
	for _, st := range m.Structs {
		l := layouts[st.Name]
		ws := MIRStruct{Name: st.Name, Base: st.BaseName, Size: l.Size, Align: l.Align, Fields: make([]MIRField, len(st.Fields))}
		for i, f := range st.Fields {
			ws.Fields[i] = MIRField{Name: f.Name, Type: f.Type.String(), Offset: l.FieldOffsets[i]}
		}
		doc.Structs = append(doc.Structs, ws)
	}
	for _, f := range m.Funcs {
		doc.Funcs = append(doc.Funcs, buildFunc(f))
	}
	return doc, nil
}

func buildFunc(f *mir.Func) MIRFunc {
	wf := MIRFunc{
		Symbol:    f.Symbol,
		Name:      f.Name,
		Identity:  f.Identity,
		Params:    make([]MIRParam, len(f.Params)),
		Result:    f.Result.String(),
		SRet:      f.SRet,
		Intrinsic: f.IsIntrinsic(),
		Locals:    make([]MIRLocal, len(f.Locals)),
	}
	if f.Alloc != 0 {
		wf.Alloc = f.Alloc.String()
	}
	wf.Variadic = f.Flags.HasFlag(hir.FuncVariadic)
	wf.Entry = f.Flags.HasFlag(hir.FuncEntrypoint)
	for i, p := range f.Params {
		wf.Params[i] = MIRParam{Name: p.Name, Type: p.Type.String(), Local: int32(p.Local), ByRef: p.ByRef}
	}
	for i, l := range f.Locals {
		wf.Locals[i] = MIRLocal{
			Name:  l.Name,
			Type:  l.Type.String(),
			Param: l.Flags&mir.LocalFlagParam != 0,
			ByRef: l.Flags&mir.LocalFlagByRef != 0,
		}
	}
	if f.Body != nil {
		wf.Body = stmts(f.Body)
	}
	return wf
}

func localRef(id mir.LocalID) *int32 {
	v := int32(id)
	return &v
}

func stmts(list []*mir.Stmt) []*MIRNode {
	if list == nil {
		return nil
	}
	out := make([]*MIRNode, len(list))
	for i, s := range list {
		out[i] = stmt(s)
	}
	return out
}

func stmt(s *mir.Stmt) *MIRNode {
	switch d := s.Data.(type) {
	case mir.LetData:
		return &MIRNode{Kind: "let", Local: localRef(d.Local), Value: optExpr(d.Value)}
	case mir.EvalData:
		return &MIRNode{Kind: "eval", Value: expr(d.Expr)}
	case mir.StoreData:
		return &MIRNode{Kind: "store", Place: place(d.Place), Value: expr(d.Value)}
	case mir.ReturnData:
		return &MIRNode{Kind: "return", Value: optExpr(d.Value)}
	case mir.IfData:
		return &MIRNode{Kind: "if", Cond: expr(d.Cond), Then: stmts(d.Then), Else: stmts(d.Else)}
	case mir.WhileData:
		return &MIRNode{Kind: "while", Cond: expr(d.Cond), Body: stmts(d.Body)}
	}
	return &MIRNode{Kind: "invalid"}
}

func optExpr(e *mir.Expr) *MIRNode {
	if e == nil {
		return nil
	}
	return expr(e)
}

func expr(e *mir.Expr) *MIRNode {
	n := &MIRNode{Kind: exprKind(e.Kind), Type: e.Type.String()}
	switch d := e.Data.(type) {
	case mir.LocalData:
		n.Local = localRef(d.Local)
	case mir.ConstData:
		n.Int, n.Bool, n.Str = d.Int, d.Bool, d.Str
	case mir.UnaryData:
		n.Op, n.Value = d.Op.String(), expr(d.Operand)
	case mir.BinaryData:
		n.Op, n.Left, n.Right = d.Op.String(), expr(d.Left), expr(d.Right)
	case mir.CastData:
		n.Value = expr(d.Value)
	case mir.CallData:
		n.Symbol, n.Variadic, n.SRet = d.Symbol, d.Variadic, d.SRet
		n.Args = make([]*MIRNode, len(d.Args))
		for i, a := range d.Args {
			n.Args[i] = expr(a)
		}
	case mir.StructLitData:
		n.Args = make([]*MIRNode, len(d.Fields))
		for i, f := range d.Fields {
			n.Args[i] = expr(f)
		}
	case mir.PlaceData:
		n.Place = place(d.Place)
	}
	return n
}

func exprKind(k mir.ExprKind) string {
	switch k {
	case mir.ExprLocal:
		return "local"
	case mir.ExprConst:
		return "const"
	case mir.ExprUnary:
		return "unary"
	case mir.ExprBinary:
		return "binary"
	case mir.ExprCast:
		return "cast"
	case mir.ExprCall:
		return "call"
	case mir.ExprStructLit:
		return "struct"
	case mir.ExprLoad:
		return "load"
	case mir.ExprAddrOf:
		return "addr"
	}
	return "invalid"
}

func place(p mir.Place) *MIRPlace {
	out := &MIRPlace{}
	if p.Local == mir.NoLocalID {
		out.Base = expr(p.Base)
	} else {
		out.Local = localRef(p.Local)
	}
	for _, proj := range p.Proj {
		switch proj.Kind {
		case mir.PlaceProjDeref:
			out.Proj = append(out.Proj, MIRProj{Kind: "deref"})
		case mir.PlaceProjField:
			out.Proj = append(out.Proj, MIRProj{Kind: "field", Field: proj.FieldIdx, Name: proj.FieldName})
		case mir.PlaceProjIndex:
			out.Proj = append(out.Proj, MIRProj{Kind: "index", Index: expr(proj.Index)})
		}
	}
	return out
}
