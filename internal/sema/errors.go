package sema

import (
	"fmt"

	"ferrite/internal/diag"
	"ferrite/internal/source"
)

// FatalError aborts a resolution pass. It is returned, never reported: no
// partial module is produced once it occurs.
type FatalError struct {
	Span source.Span
	// Callee is the function that does not exist.
	Callee string
	// Instance is the identity of the body being resolved, if any.
	Instance string
}

func (e *FatalError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("function `%s` not found (while resolving %s)", e.Callee, e.Instance)
	}
	return fmt.Sprintf("function `%s` not found", e.Callee)
}

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	if tc.rep == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(tc.rep, code, span, msg); b != nil {
		b.Emit()
	}
}

// reportWithNote reports an error with one secondary span.
func (tc *typeChecker) reportWithNote(code diag.Code, span, noteSpan source.Span, note, format string, args ...any) {
	if tc.rep == nil {
		return
	}
	diag.ReportError(tc.rep, code, span, fmt.Sprintf(format, args...)).
		WithNote(noteSpan, note).
		Emit()
}
