package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ferrite/internal/diag"
	"ferrite/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
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
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		d := &items[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		loc := location(d.Primary, fs, opts.PathMode, opts.BaseDir)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			loc, pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
		snippet(w, d.Primary, fs, opts, pal)

		// заметки с таймингами несут JSON и нужны только машинам
		if !opts.ShowNotes || d.Code == diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(n.Span, fs, opts.PathMode, opts.BaseDir), n.Msg)
			snippet(w, n.Span, fs, opts, pal)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "%s\n", pal.warn.Sprintf("... %d more diagnostics not shown (limit %d)", dropped, bag.Cap()))
	}
}

func location(sp source.Span, fs *source.FileSet, mode PathMode, base string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	pos := f.Resolve(sp.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, mode, base), pos.Line, pos.Col)
}

// snippet prints the lines around sp with a caret underline. Documents
// shipped without program text print nothing.
func snippet(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(sp.File)
	if f == nil || len(f.LineIdx) == 0 {
		return
	}
	start := f.Resolve(sp.Start)
	end := start
	if sp.End > sp.Start {
		end = f.Resolve(sp.End - 1)
	}
	ctx := uint32(max(opts.Context, 0))
	first := max(start.Line, ctx+1) - ctx
	last := min(start.Line+ctx, uint32(len(f.LineIdx)))
	gutterWidth := len(fmt.Sprint(last))
	blank := strings.Repeat(" ", gutterWidth)

	for line := first; line <= last; line++ {
		text := strings.ReplaceAll(f.LineText(line), "\t", "    ")
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, line), pal.gutter.Sprint("|"), text)
		if line != start.Line {
			continue
		}
		raw := f.LineText(line)
		col := int(start.Col) - 1
		col = min(max(col, 0), len(raw))
		stop := len(raw)
		if end.Line == start.Line {
			stop = min(max(int(end.Col), col+1), len(raw))
		}
		pad := displayWidth(raw[:col])
		width := max(displayWidth(raw[col:max(stop, col)]), 1)
		if opts.Width > 0 && pad >= int(opts.Width) {
			continue
		}
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s %s%s\n", blank, pal.gutter.Sprint("|"), strings.Repeat(" ", pad), pal.caret.Sprint(underline))
	}
}

// displayWidth measures s in terminal cells; tabs count as four.
func displayWidth(s string) int {
	return runewidth.StringWidth(strings.ReplaceAll(s, "\t", "    "))
}

// Summary prints the closing "N errors, M warnings" line.
func Summary(w io.Writer, bag *diag.Bag, useColor bool) {
	pal := newPalette(useColor)
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	errs += bag.Dropped()
	if errs == 0 && warns == 0 {
		return
	}
	fmt.Fprintf(w, "%s, %s\n",
		pal.err.Sprint(plural(errs, "error")), pal.warn.Sprint(plural(warns, "warning")))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
