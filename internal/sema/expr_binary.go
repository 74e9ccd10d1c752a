package sema

import (
	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/types"
)

// intLiteral unwraps an integer literal, possibly under unary minus.
func intLiteral(e *ast.Expr) (lit ast.LitData, negated, ok bool) {
	switch d := e.Data.(type) {
	case ast.LitData:
		return d, false, d.Kind == ast.LitInt
	case ast.UnaryData:
		if d.Op != ast.ExprUnaryMinus {
			return ast.LitData{}, false, false
		}
		lit, neg, ok := intLiteral(d.Operand)
		return lit, !neg, ok
	}
	return ast.LitData{}, false, false
}

func isIntLiteral(e *ast.Expr) bool {
	_, _, ok := intLiteral(e)
	return ok
}

// literalWidth returns t when the integer literal e can take it: t is
// numeric and the value fits. Otherwise the literal classifies on its own
// and promotion decides the common type.
func (tc *typeChecker) literalWidth(e *ast.Expr, t *types.Type) *types.Type {
	if !t.IsNumeric() {
		return nil
	}
	lit, negated, ok := intLiteral(e)
	if !ok {
		return nil
	}
	v, ok := types.ParseIntLiteral(lit.Text)
	if !ok || !types.Fits(v, t.Kind, tc.width, negated) {
		return nil
	}
	return t
}

// resolveOperands resolves both sides. An integer literal facing a
// non-literal operand takes that operand's type when its value fits, so
// that `x + 1` keeps the width of x while `x + 300` with x: u8 promotes;
// two literals take ann under the same rule.
func (tc *typeChecker) resolveOperands(d ast.BinaryData, ann *types.Type) (l, r *hir.Expr, err error) {
	litL, litR := isIntLiteral(d.Left), isIntLiteral(d.Right)
	switch {
	case litL && !litR:
		if r, err = tc.resolveExpr(d.Right, nil); err != nil {
			return nil, nil, err
		}
		l, err = tc.resolveExpr(d.Left, tc.literalWidth(d.Left, r.Type))
	case litR && !litL:
		if l, err = tc.resolveExpr(d.Left, nil); err != nil {
			return nil, nil, err
		}
		r, err = tc.resolveExpr(d.Right, tc.literalWidth(d.Right, l.Type))
	case litL && litR && d.Op.IsArithmetic():
		if l, err = tc.resolveExpr(d.Left, tc.literalWidth(d.Left, ann)); err != nil {
			return nil, nil, err
		}
		r, err = tc.resolveExpr(d.Right, tc.literalWidth(d.Right, ann))
	default:
		if l, err = tc.resolveExpr(d.Left, nil); err != nil {
			return nil, nil, err
		}
		r, err = tc.resolveExpr(d.Right, nil)
	}
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (tc *typeChecker) resolveBinary(e *ast.Expr, d ast.BinaryData, ann *types.Type) (*hir.Expr, error) {
	l, r, err := tc.resolveOperands(d, ann)
	if err != nil {
		return nil, err
	}
	out := &hir.Expr{Kind: hir.ExprBinaryOp, Span: e.Span, Type: types.Unknown}
	data := hir.BinaryOpData{Op: d.Op, Left: l, Right: r, Operand: types.Unknown}
	defer func() { out.Data = data }()

	if l.Type.IsUnknown() || r.Type.IsUnknown() {
		return out, nil
	}
	spec, ok := types.BinarySpecFor(d.Op)
	if !ok {
		tc.report(diag.SemaInvalidOperand, e.Span, "unsupported operator `%s`", d.Op)
		return out, nil
	}
	if !spec.Left.Accepts(l.Type) || !spec.Right.Accepts(r.Type) {
		tc.report(diag.SemaInvalidOperand, e.Span,
			"operator `%s` cannot be applied to `%s` and `%s`", d.Op, l.Type, r.Type)
		return out, nil
	}

	if l.Type.IsNumeric() && r.Type.IsNumeric() {
		p, err := types.Promote(l.Type, r.Type, tc.width)
		if err != nil {
			tc.report(diag.SemaInvalidOperand, e.Span, "%s", err.Error())
			return out, nil
		}
		common := commonType(p, l.Type)
		data.Promotion = &p
		data.Operand = common
		if spec.Result == types.BinaryResultBool {
			out.Type = types.Bool
		} else {
			out.Type = common
		}
		return out, nil
	}

	// non-numeric operands: logical operators on bools, equality on
	// matching types
	if spec.Flags&types.BinaryFlagSameType != 0 &&
		!types.Equal(l.Type, r.Type) &&
		!(types.CanInsert(l.Type, r.Type) && types.CanInsert(r.Type, l.Type)) {
		tc.report(diag.SemaTypeMismatch, e.Span,
			"cannot compare `%s` with `%s`", l.Type, r.Type)
		return out, nil
	}
	data.Operand = l.Type
	if spec.Result == types.BinaryResultBool {
		out.Type = types.Bool
	} else {
		out.Type = l.Type
	}
	return out, nil
}

// commonType maps the promoted kind back to a type. usize op usize keeps
// the usize type of the operands.
func commonType(p types.Promotion, l *types.Type) *types.Type {
	if p.Common == l.Kind {
		return l
	}
	return types.FromKind(p.Common)
}
