package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rpn/internal/diag"
	"rpn/internal/source"
)

type palette struct {
	err, warn, info, code, dim, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		code:  color.New(color.Bold),
		dim:   color.New(color.FgBlue),
		caret: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.dim, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs.Get(d.Primary.File), opts.PathMode),
			start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity),
			p.code.Sprint(d.Code.ID()),
			d.Message)

		if opts.Context {
			writeContext(w, fs, d.Primary, p)
		}

		if opts.ShowNotes {
			for _, note := range d.Notes {
				ns, _ := fs.Resolve(note.Span)
				fmt.Fprintf(w, "  %s %d:%d: %s\n", p.info.Sprint("note:"), ns.Line, ns.Col, note.Msg)
			}
		}
	}
}

// writeContext печатает строку со span и каретки под ним.
// Ширина считается в колонках терминала, а не в байтах.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, p palette) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, _ := fs.Resolve(sp)
	lineStart, lineEnd, ok := f.LineBounds(int(start.Line))
	if !ok {
		return
	}
	line := string(f.Content[lineStart:lineEnd])

	spStart := min(max(sp.Start, lineStart), lineEnd) - lineStart
	spEnd := min(max(sp.End, sp.Start), lineEnd) - lineStart
	if spEnd < spStart {
		spEnd = spStart
	}

	pad := runewidth.StringWidth(line[:spStart])
	width := max(runewidth.StringWidth(line[spStart:spEnd]), 1)

	gutter := fmt.Sprintf("%d", start.Line)
	fmt.Fprintf(w, " %s %s %s\n", p.dim.Sprint(gutter), p.dim.Sprint("|"), line)
	fmt.Fprintf(w, " %s %s %s%s\n",
		strings.Repeat(" ", len(gutter)), p.dim.Sprint("|"),
		strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}
