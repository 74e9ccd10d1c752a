package mir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants the backend relies on.
// Returns an error joining every violation found.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		v := &validator{mod: m, fn: f}
		v.check()
		if err := errors.Join(v.errs...); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Symbol, err))
		}
	}
	if m.Entry != "" && m.Func(m.Entry) == nil {
		errs = append(errs, fmt.Errorf("entry %s: no such function", m.Entry))
	}
	return errors.Join(errs...)
}

type validator struct {
	mod  *Module
	fn   *Func
	errs []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

// assignable is type equality, with *void accepted on either side of a
// pointer pair.
func assignable(dst, src *Type) bool {
	if Equal(dst, src) {
		return true
	}
	if dst == nil || src == nil || dst.Kind != TypePtr || src.Kind != TypePtr {
		return false
	}
	return dst.Elem.Kind == TypeVoid || src.Elem.Kind == TypeVoid
}

func (v *validator) check() {
	f := v.fn
	for i, p := range f.Params {
		if p.Local < 0 || int(p.Local) >= len(f.Locals) {
			v.errorf("param %d: local L%d out of range", i, p.Local)
			continue
		}
		l := f.Locals[p.Local]
		if l.Flags&LocalFlagParam == 0 {
			v.errorf("param %s: local L%d is not a parameter slot", p.Name, p.Local)
		}
		want := p.Type
		if p.ByRef {
			want = PtrTo(p.Type)
		}
		if !Equal(l.Type, want) {
			v.errorf("param %s: slot type %s, want %s", p.Name, l.Type, want)
		}
	}
	if f.SRet != f.Result.IsAggregate() {
		v.errorf("sret flag disagrees with result type %s", f.Result)
	}
	if f.Body == nil && !f.IsIntrinsic() {
		v.errorf("missing body")
	}
	v.block(f.Body)
}

func (v *validator) block(stmts []*Stmt) {
	for _, s := range stmts {
		v.stmt(s)
	}
}

func (v *validator) stmt(s *Stmt) {
	switch d := s.Data.(type) {
	case LetData:
		lt := v.local(d.Local)
		if d.Value != nil {
			if vt := v.expr(d.Value); lt != nil && vt != nil && !assignable(lt, vt) {
				v.errorf("let L%d: %s does not fit %s", d.Local, vt, lt)
			}
		}
	case EvalData:
		v.expr(d.Expr)
	case StoreData:
		pt := v.placeType(d.Place)
		if vt := v.expr(d.Value); pt != nil && vt != nil && !assignable(pt, vt) {
			v.errorf("store: %s does not fit %s", vt, pt)
		}
	case ReturnData:
		if d.Value == nil {
			if v.fn.Result.Kind != TypeVoid {
				v.errorf("return without value from %s function", v.fn.Result)
			}
			return
		}
		if vt := v.expr(d.Value); vt != nil && !assignable(v.fn.Result, vt) {
			v.errorf("return %s from %s function", vt, v.fn.Result)
		}
	case IfData:
		v.cond(d.Cond)
		v.block(d.Then)
		v.block(d.Else)
	case WhileData:
		v.cond(d.Cond)
		v.block(d.Body)
	default:
		v.errorf("unknown statement %T", s.Data)
	}
}

func (v *validator) cond(e *Expr) {
	if t := v.expr(e); t != nil && t.Kind != TypeBool {
		v.errorf("condition of type %s", t)
	}
}

func (v *validator) local(id LocalID) *Type {
	if id < 0 || int(id) >= len(v.fn.Locals) {
		v.errorf("local L%d out of range", id)
		return nil
	}
	return v.fn.Locals[id].Type
}

// expr checks e and returns its type, nil when e is malformed.
func (v *validator) expr(e *Expr) *Type {
	if e == nil {
		v.errorf("nil expression")
		return nil
	}
	if e.Type == nil {
		v.errorf("%s expression without type", e.Kind)
		return nil
	}
	switch d := e.Data.(type) {
	case LocalData:
		if lt := v.local(d.Local); lt != nil && !Equal(lt, e.Type) {
			v.errorf("L%d has type %s, used as %s", d.Local, lt, e.Type)
		}
	case ConstData:
		switch d.Kind {
		case ConstBool:
			if e.Type.Kind != TypeBool {
				v.errorf("bool constant of type %s", e.Type)
			}
		case ConstInt:
			if !e.Type.IsInteger() {
				v.errorf("integer constant of type %s", e.Type)
			}
		}
	case UnaryData:
		v.expr(d.Operand)
	case BinaryData:
		lt, rt := v.expr(d.Left), v.expr(d.Right)
		if lt == nil || rt == nil {
			return e.Type
		}
		if d.Operand.Kind == TypePtr {
			if lt.Kind != TypePtr || rt.Kind != TypePtr {
				v.errorf("%s: pointer comparison of %s and %s", d.Op, lt, rt)
			}
		} else if !Equal(lt, d.Operand) || !Equal(rt, d.Operand) {
			v.errorf("%s: operands %s and %s, want %s", d.Op, lt, rt, d.Operand)
		}
		want := d.Operand
		if d.Op.IsComparison() || d.Op.IsLogical() {
			want = Bool
		}
		if !Equal(e.Type, want) {
			v.errorf("%s yields %s, typed %s", d.Op, want, e.Type)
		}
	case CastData:
		v.expr(d.Value)
	case CallData:
		v.call(e, d)
	case StructLitData:
		if e.Type.Kind != TypeStruct {
			v.errorf("struct literal of type %s", e.Type)
			return e.Type
		}
		fields := e.Type.Struct.Fields
		if len(d.Fields) != len(fields) {
			v.errorf("literal of %s has %d fields, want %d", e.Type, len(d.Fields), len(fields))
			return e.Type
		}
		for i, fe := range d.Fields {
			if ft := v.expr(fe); ft != nil && !assignable(fields[i].Type, ft) {
				v.errorf("field %s of %s: %s does not fit %s", fields[i].Name, e.Type, ft, fields[i].Type)
			}
		}
	case PlaceData:
		pt := v.placeType(d.Place)
		if pt == nil {
			return e.Type
		}
		want := pt
		if e.Kind == ExprAddrOf {
			want = PtrTo(pt)
		}
		if !assignable(e.Type, want) {
			v.errorf("%s of %s typed %s", e.Kind, want, e.Type)
		}
	default:
		v.errorf("unknown expression %T", e.Data)
	}
	return e.Type
}

func (v *validator) call(e *Expr, d CallData) {
	callee := v.mod.Func(d.Symbol)
	if callee == nil {
		v.errorf("call to missing function %s", d.Symbol)
		return
	}
	declared := len(d.Args) - d.Variadic
	if declared != len(callee.Params) {
		v.errorf("call to %s with %d arguments, want %d", d.Symbol, declared, len(callee.Params))
	}
	for i, a := range d.Args {
		at := v.expr(a)
		if at == nil || i >= len(callee.Params) {
			continue
		}
		p := callee.Params[i]
		want := p.Type
		if p.ByRef {
			want = PtrTo(p.Type)
			if a.Kind != ExprAddrOf {
				v.errorf("argument %d of %s must be passed by address", i, d.Symbol)
			}
		}
		if !assignable(want, at) {
			v.errorf("argument %d of %s: %s does not fit %s", i, d.Symbol, at, want)
		}
	}
	if d.SRet != callee.SRet {
		v.errorf("call to %s: sret mismatch", d.Symbol)
	}
	if !Equal(e.Type, callee.Result) {
		v.errorf("call to %s typed %s, returns %s", d.Symbol, e.Type, callee.Result)
	}
}

// placeType computes the type stored at p.
func (v *validator) placeType(p Place) *Type {
	var t *Type
	if p.Local == NoLocalID {
		if p.Base == nil {
			v.errorf("place without root")
			return nil
		}
		t = v.expr(p.Base)
	} else {
		t = v.local(p.Local)
	}
	for _, proj := range p.Proj {
		if t == nil {
			return nil
		}
		switch proj.Kind {
		case PlaceProjDeref:
			if t.Kind != TypePtr {
				v.errorf("deref of %s", t)
				return nil
			}
			t = t.Elem
		case PlaceProjIndex:
			if t.Kind != TypePtr {
				v.errorf("index into %s", t)
				return nil
			}
			if it := v.expr(proj.Index); it != nil && !it.IsInteger() {
				v.errorf("index of type %s", it)
			}
			t = t.Elem
		case PlaceProjField:
			if t.Kind != TypeStruct || proj.FieldIdx < 0 || proj.FieldIdx >= len(t.Struct.Fields) {
				v.errorf("field %s of %s", proj.FieldName, t)
				return nil
			}
			t = t.Struct.Fields[proj.FieldIdx].Type
		}
	}
	return t
}
