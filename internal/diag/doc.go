// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     the resolver and the driver.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or rendering.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form (SEMxxxx).
//     Codes double as the recoverable error kinds of the resolver.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Emitting diagnostics
//
// Phases receive a Reporter. BagReporter appends to a Bag, NopReporter
// drops everything (muted template checks), DedupReporter filters repeats
// produced when one generic body is checked under several bindings.
// ReportError returns a ReportBuilder for chaining notes before Emit.
//
// Unrecoverable conditions never travel through this package: they are Go
// errors returned up the call stack.
package diag
