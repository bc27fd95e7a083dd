// Package trace records what a compile or a shot run is doing.
//
//	qstack run --trace=- --trace-level=detail prog.toml
//
// Levels select scopes: phase shows commands and pipeline passes, detail
// adds one mark per encoded gadget, debug adds one mark per shot.
//
// The tracer and the current span travel in a context.Context:
//
//	span, ctx := trace.Start(ctx, trace.ScopePass, "encode")
//	defer span.End("")
//	trace.Mark(ctx, trace.ScopeGadget, "cx", "op 3")
package trace
