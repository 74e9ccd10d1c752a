package mir

import (
	"ferrite/internal/ast"
	"ferrite/internal/hir"
	"ferrite/internal/types"
)

func (l *lowerer) lowerExpr(e *hir.Expr) *Expr {
	ty := l.lowerType(e.Type, e.Span)
	out := &Expr{Type: ty, Span: e.Span}
	switch d := e.Data.(type) {
	case hir.VarData:
		id := l.lookup(e, d.Name)
		if l.fn.Locals[id].Flags&LocalFlagByRef != 0 {
			out.Kind, out.Data = ExprLoad, PlaceData{Place: Place{Local: id, Proj: []PlaceProj{{Kind: PlaceProjDeref}}}}
			break
		}
		out.Kind, out.Data = ExprLocal, LocalData{Local: id}

	case hir.LiteralData:
		out.Kind = ExprConst
		switch d.Kind {
		case ast.LitBool:
			out.Data = ConstData{Kind: ConstBool, Bool: d.BoolValue}
		case ast.LitString:
			out.Data = ConstData{Kind: ConstString, Str: d.Text}
		default:
			out.Data = ConstData{Kind: ConstInt, Int: d.IntValue}
		}

	case hir.UnaryOpData:
		switch d.Op {
		case ast.ExprUnaryDeref:
			out.Kind, out.Data = ExprLoad, PlaceData{Place: l.place(e)}
		case ast.ExprUnaryRef:
			out.Kind, out.Data = ExprAddrOf, PlaceData{Place: l.place(d.Operand)}
		default:
			out.Kind, out.Data = ExprUnary, UnaryData{Op: d.Op, Operand: l.lowerExpr(d.Operand)}
		}

	case hir.BinaryOpData:
		return l.lowerBinary(e, d, ty)

	case hir.CallData:
		return l.lowerCall(e, d, ty)

	case hir.StructLitData:
		if ty.Kind != TypeStruct {
			l.fail(e.Span, "struct literal of non-struct type %s", ty)
		}
		fields := make([]*Expr, len(ty.Struct.Fields))
		for _, f := range d.Fields {
			if f.Index < 0 || f.Index >= len(fields) {
				l.fail(f.Span, "field %s has no slot in %s", f.Name, ty)
			}
			fields[f.Index] = l.lowerExpr(f.Value)
		}
		for i, f := range fields {
			if f == nil {
				l.fail(e.Span, "field %s of %s is not initialized", ty.Struct.Fields[i].Name, ty)
			}
		}
		out.Kind, out.Data = ExprStructLit, StructLitData{Fields: fields}

	case hir.IndexData, hir.FieldAccessData:
		out.Kind, out.Data = ExprLoad, PlaceData{Place: l.place(e)}

	case hir.CastData:
		v := l.lowerExpr(d.Value)
		if Equal(v.Type, ty) {
			// usize as u64 on a 64-bit target
			return v
		}
		out.Kind, out.Data = ExprCast, CastData{Value: v}

	default:
		l.fail(e.Span, "unexpected expression %s", e.Kind)
	}
	return out
}

func (l *lowerer) lookup(e *hir.Expr, name string) LocalID {
	id, ok := l.scope.Lookup(name)
	if !ok {
		l.fail(e.Span, "variable %s has no slot", name)
	}
	return id
}

// lowerBinary recomputes the promotion for the concretizer's width with the
// same table the checker used and inserts the casts it selects.
func (l *lowerer) lowerBinary(e *hir.Expr, d hir.BinaryOpData, ty *Type) *Expr {
	left, right := l.lowerExpr(d.Left), l.lowerExpr(d.Right)
	out := &Expr{Kind: ExprBinary, Type: ty, Span: e.Span}

	if d.Promotion == nil {
		if !Equal(left.Type, right.Type) && !(left.Type.Kind == TypePtr && right.Type.Kind == TypePtr) {
			l.fail(e.Span, "operands of %s have types %s and %s", d.Op, left.Type, right.Type)
		}
		out.Data = BinaryData{Op: d.Op, Left: left, Right: right, Operand: left.Type}
		return out
	}

	p, err := types.Promote(d.Left.Type, d.Right.Type, l.width)
	if err != nil {
		l.fail(e.Span, "%v", err)
	}
	common := FromKind(types.Concrete(p.Common, l.width))
	if checked := l.lowerType(d.Operand, e.Span); !Equal(checked, common) {
		l.fail(e.Span, "%s %s %s promotes to %s at %d bits but was checked as %s%s",
			d.Left.Type, d.Op, d.Right.Type, common, l.width, checked, l.widthNote())
	}
	if p.Left.Apply {
		left = castExpr(left, FromKind(p.Left.To))
	}
	if p.Right.Apply {
		right = castExpr(right, FromKind(p.Right.To))
	}
	if !Equal(left.Type, common) || !Equal(right.Type, common) {
		l.fail(e.Span, "promotion of %s left operands at %s and %s, want %s", d.Op, left.Type, right.Type, common)
	}
	want := common
	if d.Op.IsComparison() || d.Op.IsLogical() {
		want = Bool
	}
	if !Equal(ty, want) {
		l.fail(e.Span, "%s yields %s, checked as %s", d.Op, want, ty)
	}
	out.Data = BinaryData{Op: d.Op, Left: left, Right: right, Operand: common}
	return out
}

func castExpr(v *Expr, to *Type) *Expr {
	return &Expr{Kind: ExprCast, Type: to, Span: v.Span, Data: CastData{Value: v}}
}

// lowerCall passes aggregate arguments of declared parameters by address.
func (l *lowerer) lowerCall(e *hir.Expr, d hir.CallData, ty *Type) *Expr {
	if !d.Resolved() {
		l.fail(e.Span, "call to %s was never specialized", d.Name)
	}
	declared := len(d.Args) - d.Variadic
	args := make([]*Expr, len(d.Args))
	for i, a := range d.Args {
		if i < declared && a.Type.IsStruct() {
			elem := l.lowerType(a.Type, a.Span)
			args[i] = &Expr{Kind: ExprAddrOf, Type: PtrTo(elem), Span: a.Span, Data: PlaceData{Place: l.placeOrTemp(a)}}
			continue
		}
		args[i] = l.lowerExpr(a)
	}
	return &Expr{Kind: ExprCall, Type: ty, Span: e.Span, Data: CallData{
		Symbol:   d.Symbol,
		Args:     args,
		Variadic: d.Variadic,
		SRet:     ty.IsAggregate(),
	}}
}

// place lowers an lvalue expression to a storage location.
func (l *lowerer) place(e *hir.Expr) Place {
	switch d := e.Data.(type) {
	case hir.VarData:
		id := l.lookup(e, d.Name)
		if l.fn.Locals[id].Flags&LocalFlagByRef != 0 {
			return Place{Local: id, Proj: []PlaceProj{{Kind: PlaceProjDeref}}}
		}
		return Place{Local: id}
	case hir.FieldAccessData:
		if d.FieldIdx < 0 {
			l.fail(e.Span, "unresolved field %s", d.Field)
		}
		return l.placeOrTemp(d.Target).with(PlaceProj{Kind: PlaceProjField, FieldName: d.Field, FieldIdx: d.FieldIdx})
	case hir.IndexData:
		idx := l.lowerExpr(d.Index)
		if size := FromKind(types.Concrete(types.KindUSize, l.width)); !Equal(idx.Type, size) {
			idx = castExpr(idx, size)
		}
		return l.placeOrTemp(d.Target).with(PlaceProj{Kind: PlaceProjIndex, Index: idx})
	case hir.UnaryOpData:
		if d.Op == ast.ExprUnaryDeref {
			return l.placeOrTemp(d.Operand).with(PlaceProj{Kind: PlaceProjDeref})
		}
	}
	l.fail(e.Span, "%s is not a place", e.Kind)
	return Place{}
}

// placeOrTemp is place for lvalues; other values become temporaries.
func (l *lowerer) placeOrTemp(e *hir.Expr) Place {
	if e.IsLvalue() {
		return l.place(e)
	}
	return Place{Local: NoLocalID, Base: l.lowerExpr(e)}
}
