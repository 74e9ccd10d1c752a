package sema

import (
	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/types"
)

// resolveExpr produces the typed node for e. ann is the contextual type
// expected by the consumer, nil when there is none; it steers literal
// widths, void pointer returns and generic inference, and is never an
// obligation: mismatches are reported by the consumer.
func (tc *typeChecker) resolveExpr(e *ast.Expr, ann *types.Type) (*hir.Expr, error) {
	if ann != nil && ann.IsUnknown() {
		ann = nil
	}
	switch d := e.Data.(type) {
	case ast.IdentData:
		ty, ok := tc.varScope.Lookup(d.Name)
		if !ok {
			tc.report(diag.SemaVariableNotFound, e.Span, "variable `%s` not found", d.Name)
			ty = types.Unknown
		}
		return &hir.Expr{Kind: hir.ExprVar, Type: ty, Span: e.Span, Data: hir.VarData{Name: d.Name}}, nil

	case ast.LitData:
		return tc.resolveLiteral(e, d, ann, false), nil

	case ast.UnaryData:
		return tc.resolveUnary(e, d, ann)

	case ast.BinaryData:
		return tc.resolveBinary(e, d, ann)

	case ast.CallData:
		return tc.resolveCall(e, d, ann)

	case ast.StructLitData:
		return tc.resolveStructLit(e, d, ann)

	case ast.IndexData:
		return tc.resolveIndex(e, d)

	case ast.FieldData:
		return tc.resolveField(e, d)

	case ast.CastData:
		return tc.resolveCast(e, d)
	}
	panic("sema: unexpected expression payload")
}

func (tc *typeChecker) resolveLiteral(e *ast.Expr, d ast.LitData, ann *types.Type, negated bool) *hir.Expr {
	out := &hir.Expr{Kind: hir.ExprLiteral, Span: e.Span}
	lit := hir.LiteralData{Kind: d.Kind, Text: d.Text}
	switch d.Kind {
	case ast.LitBool:
		lit.BoolValue = d.Text == "true"
		out.Type = types.Bool
	case ast.LitString:
		out.Type = types.PtrTo(types.U8)
	default:
		v, ok := types.ParseIntLiteral(d.Text)
		if !ok {
			tc.report(diag.SemaInvalidLiteral, e.Span, "invalid integer literal `%s`", d.Text)
			out.Type = types.Unknown
			break
		}
		lit.IntValue = v
		if ann.IsNumeric() {
			out.Type = ann
			if !types.Fits(v, ann.Kind, tc.width, negated) {
				sign := ""
				if negated {
					sign = "-"
				}
				tc.report(diag.SemaLiteralOutOfRange, e.Span, "literal %s%s does not fit in `%s`", sign, d.Text, ann)
			}
			break
		}
		out.Type = types.ClassifyLiteral(v)
		if negated && out.Type.Kind == types.KindU64 {
			tc.report(diag.SemaLiteralOutOfRange, e.Span, "literal -%s does not fit in any signed type", d.Text)
		}
	}
	out.Data = lit
	return out
}

func (tc *typeChecker) resolveUnary(e *ast.Expr, d ast.UnaryData, ann *types.Type) (*hir.Expr, error) {
	out := &hir.Expr{Kind: hir.ExprUnaryOp, Span: e.Span}
	var operand *hir.Expr
	var err error

	switch d.Op {
	case ast.ExprUnaryMinus:
		var inner *types.Type
		if ann.IsNumeric() && ann.Kind.IsSigned() {
			inner = ann
		}
		if lit, ok := d.Operand.Data.(ast.LitData); ok && lit.Kind == ast.LitInt {
			operand = tc.resolveLiteral(d.Operand, lit, inner, true)
		} else {
			operand, err = tc.resolveExpr(d.Operand, inner)
		}
	case ast.ExprUnaryDeref:
		var inner *types.Type
		if ann != nil {
			inner = types.PtrTo(ann)
		}
		operand, err = tc.resolveExpr(d.Operand, inner)
	case ast.ExprUnaryRef:
		var inner *types.Type
		if ann.IsPointer() {
			inner = ann.Elem
		}
		operand, err = tc.resolveExpr(d.Operand, inner)
	default:
		operand, err = tc.resolveExpr(d.Operand, ann)
	}
	if err != nil {
		return nil, err
	}
	out.Data = hir.UnaryOpData{Op: d.Op, Operand: operand}
	if operand.Type.IsUnknown() {
		out.Type = types.Unknown
		return out, nil
	}

	spec, _ := types.UnarySpecFor(d.Op)
	switch spec.Result {
	case types.UnaryResultDeref:
		if !operand.Type.IsPointer() {
			tc.report(diag.SemaInvalidDeref, e.Span, "cannot dereference a value of type `%s`", operand.Type)
			out.Type = types.Unknown
			return out, nil
		}
		out.Type = operand.Type.Elem
	case types.UnaryResultReference:
		if !operand.IsLvalue() {
			tc.report(diag.SemaNotAddressable, d.Operand.Span, "cannot take the address of this expression")
		}
		out.Type = types.PtrTo(operand.Type)
	default:
		if !spec.Operand.Accepts(operand.Type) {
			tc.report(diag.SemaInvalidOperand, e.Span, "operator `%s` cannot be applied to `%s`", d.Op, operand.Type)
			out.Type = types.Unknown
			return out, nil
		}
		out.Type = operand.Type
	}
	return out, nil
}

func (tc *typeChecker) resolveIndex(e *ast.Expr, d ast.IndexData) (*hir.Expr, error) {
	target, err := tc.resolveExpr(d.Target, nil)
	if err != nil {
		return nil, err
	}
	index, err := tc.resolveExpr(d.Index, types.USize)
	if err != nil {
		return nil, err
	}
	out := &hir.Expr{Kind: hir.ExprIndex, Span: e.Span, Data: hir.IndexData{Target: target, Index: index}}
	switch {
	case target.Type.IsUnknown():
		out.Type = types.Unknown
	case !target.Type.IsPointer():
		tc.report(diag.SemaInvalidIndexAccess, d.Target.Span, "cannot index a value of type `%s`; only pointers can be indexed", target.Type)
		out.Type = types.Unknown
	default:
		out.Type = target.Type.Elem
	}
	if !index.Type.IsUnknown() && !index.Type.IsNumeric() {
		tc.report(diag.SemaInvalidOperand, d.Index.Span, "index has type `%s`, expected an integer", index.Type)
	}
	return out, nil
}

func (tc *typeChecker) resolveField(e *ast.Expr, d ast.FieldData) (*hir.Expr, error) {
	target, err := tc.resolveExpr(d.Target, nil)
	if err != nil {
		return nil, err
	}
	out := &hir.Expr{Kind: hir.ExprFieldAccess, Span: e.Span, Type: types.Unknown}
	data := hir.FieldAccessData{Target: target, Field: d.Field, FieldIdx: -1}
	switch {
	case target.Type.IsUnknown():
	case !target.Type.IsStruct():
		tc.report(diag.SemaInvalidFieldAccess, e.Span, "cannot access field `%s` of non-struct type `%s`", d.Field, target.Type)
	default:
		st := target.Type.Struct
		idx := st.FieldIndex(d.Field)
		if idx < 0 {
			tc.report(diag.SemaFieldNotFound, e.Span, "type `%s` has no field `%s`", st.Name, d.Field)
			break
		}
		data.FieldIdx = idx
		out.Type = st.Fields[idx].Type
	}
	out.Data = data
	return out, nil
}

func (tc *typeChecker) resolveCast(e *ast.Expr, d ast.CastData) (*hir.Expr, error) {
	to := tc.resolveType(d.Type)
	value, err := tc.resolveExpr(d.Value, nil)
	if err != nil {
		return nil, err
	}
	out := &hir.Expr{Kind: hir.ExprCast, Type: to, Span: e.Span, Data: hir.CastData{Value: value}}
	from := value.Type
	if from.IsUnknown() || to.IsUnknown() {
		return out, nil
	}
	ok := types.Equal(from, to) ||
		(from.IsNumeric() && to.IsNumeric()) ||
		(from.IsPointer() && to.IsPointer()) ||
		(from.Kind == types.KindBool && to.IsNumeric())
	if !ok {
		tc.report(diag.SemaInvalidCast, e.Span, "cannot cast `%s` to `%s`", from, to)
		out.Type = types.Unknown
	}
	return out, nil
}
