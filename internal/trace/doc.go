// Package trace records the progress of a ferrite run as spans and point
// events. It exists to answer two questions: where did the time go, and
// where is the resolver stuck when an instantiation chain runs away.
//
// Enable tracing from the command line:
//
//	ferrite check --trace=- --trace-level=detail main.fe.yaml
//
// Tracers:
//
//   - Nop: disabled tracing, zero cost
//   - StreamTracer: writes every event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a crash
//   - MultiTracer: fans out to several tracers
//
// Levels map onto scopes: LevelPhase shows driver and pass spans,
// LevelDetail adds one span per resolved function body, LevelDebug adds
// struct instantiations.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", parent)
//	defer sp.End("")
package trace
