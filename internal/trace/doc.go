// Package trace provides the tracing subsystem of the rpn interpreter.
//
// Tracing follows a session from the command down to single dispatch steps of
// the machine and helps find out why a script hangs or where it fails.
//
// # Usage
//
//	rpn run --trace=- --trace-level=line script.rpn
//	rpn run --trace-mode=ring --trace-level=error script.rpn
//	rpn run --trace=run.ndjson --trace-level=instr --trace-heartbeat=1s script.rpn
//
// # Architecture
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: last N events in memory, dumped on exit or panic
//   - MultiTracer: stream and ring together
//   - Heartbeat: periodic Progress report (lines, instructions, errors)
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: parse and evaluation failures only
//   - LevelPhase: command, bootstrap, eval and check passes
//   - LevelLine: one span per input line, with executed/errors counts and the
//     stack size at the end of the line
//   - LevelInstr: every dispatch step with forced depth and stack size
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "eval", trace.ParentSpan(ctx))
//	ctx = trace.WithParentSpan(ctx, span)
//	defer span.End("")
package trace
