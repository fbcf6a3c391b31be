package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"rpn/internal/parser"
	"rpn/internal/stdlib"
	"rpn/internal/trace"
	"rpn/internal/vm"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Out          io.Writer // Print/PrintAll output
	Err          io.Writer // error lines
	OnError      ErrorPolicy
	OnParseError ParsePolicy
	MaxDepth     int
	VMTrace      *vm.Tracer
	// SkipBootstrap starts from an empty name table.
	SkipBootstrap bool
	Color         bool
}

// LineOutcome summarizes the evaluation of one line.
type LineOutcome struct {
	Executed int
	Errors   int
	ParseErr *parser.ParseError
	Halted   bool
}

// Session owns one machine and feeds it lines.
type Session struct {
	M        *vm.Machine
	opts     SessionOptions
	lines    int
	span     uint64 // родительский span для трассировки
	progress *trace.Progress
	tracer   trace.Tracer
	errc     *color.Color
}

// NewSession creates a machine and loads the bootstrap library into it.
// A bootstrap failure is returned as *stdlib.BootstrapError.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	s := &Session{
		M: vm.New(vm.Options{
			Out:      opts.Out,
			MaxDepth: opts.MaxDepth,
			Trace:    opts.VMTrace,
		}),
		opts: opts,
		errc: color.New(color.FgRed, color.Bold),
	}
	if opts.Color {
		s.errc.EnableColor()
	} else {
		s.errc.DisableColor()
	}

	s.tracer = trace.FromContext(ctx)
	s.span = trace.ParentSpan(ctx)
	s.progress = trace.ProgressFrom(ctx)

	// шаги машины идут в трассировку только на уровне instr
	vmTrace := opts.VMTrace
	if s.tracer.Level().ShouldEmit(trace.ScopeInstr) {
		vmTrace = vmTrace.Also(s.traceStep)
	}

	if !opts.SkipBootstrap {
		span := trace.Begin(s.tracer, trace.ScopePass, "bootstrap", s.span)
		// загрузка библиотеки не трассируется по шагам
		s.M.Trace = nil
		err := stdlib.Load(s.M)
		if err != nil {
			trace.Fail(s.tracer, trace.ScopePass, "bootstrap", err.Error(), 0, span.ID())
			span.End("failed")
			return nil, err
		}
		span.WithCount("names", len(stdlib.Names)).End("")
	}
	s.M.Trace = vmTrace
	return s, nil
}

func (s *Session) traceStep(depth int, v vm.Value, force bool, stack []vm.Value) {
	mode := "lazy"
	if force {
		mode = "force"
	}
	trace.Emit(s.tracer, trace.Event{
		Kind:     trace.KindPoint,
		Scope:    trace.ScopeInstr,
		Name:     mode,
		Detail:   v.String(),
		Line:     s.lines,
		Depth:    depth,
		Stack:    len(stack),
		ParentID: s.span,
	})
}

// Lines returns how many lines were evaluated.
func (s *Session) Lines() int {
	return s.lines
}

// EvalLine parses and runs a single line.
func (s *Session) EvalLine(ctx context.Context, text string) LineOutcome {
	s.lines++
	s.progress.StartLine()
	tracer := trace.FromContext(ctx)
	span := trace.BeginLine(tracer, s.lines, text, s.span)

	var out LineOutcome
	defer func() {
		span.WithCount("executed", out.Executed).WithCount("errors", out.Errors).
			WithStack(len(s.M.Stack())).End(lineDetail(out))
	}()

	res, perr := parser.ParseLine(text)
	if perr != nil {
		out.ParseErr = perr
		fmt.Fprintf(s.opts.Err, "%s\n", perr.Error())
		trace.Fail(tracer, trace.ScopeLine, "parse", perr.Rest, s.lines, s.span)
		if s.opts.OnParseError == DiscardLine {
			return out
		}
	}

	for _, instr := range res.Instrs {
		err := s.M.Process(instr)
		out.Executed++
		s.progress.Executed(err != nil)
		if err != nil {
			out.Errors++
			s.reportError(err)
			trace.Fail(tracer, trace.ScopeInstr, err.Code.String(), err.Instr.String()+": "+err.Message, s.lines, s.span)
			if s.opts.OnError == AbortLine {
				break
			}
		}
		if s.M.Halted {
			out.Halted = true
			break
		}
	}
	return out
}

func lineDetail(out LineOutcome) string {
	switch {
	case out.Halted:
		return "halted"
	case out.ParseErr != nil:
		return "parse error"
	case out.Errors > 0:
		return "errors"
	}
	return ""
}

// reportError пишет строку вида
// Error at <instr>: <message> (stack was <state>)
func (s *Session) reportError(err *vm.VMError) {
	fmt.Fprintf(s.opts.Err, "%s at %s: %s (stack was %s)\n",
		s.errc.Sprint("Error"), err.Instr, err.Message, vm.FormatStack(s.M.Stack()))
}

// Run evaluates r line by line until EOF, Quit or context cancellation.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "eval", s.span)
	defer func() {
		span.WithCount("lines", s.lines).WithStack(len(s.M.Stack())).End("")
	}()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.EvalLine(ctx, sc.Text()).Halted {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
