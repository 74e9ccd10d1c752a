package mono

import (
	"fmt"
	"io"
	"sort"

	"ferrite/internal/source"
)

// Dump writes one line per instance followed by its use sites:
//
//	fn identity<i64>(i64)->i64  sym=identity$1f..  uses=2 [done]
//	  at main.fe:3:12 from main()->void
func Dump(w io.Writer, r *Registry, fs *source.FileSet) error {
	if w == nil || r == nil {
		return nil
	}
	for _, inst := range r.order {
		if _, err := fmt.Fprintf(w, "fn %s  sym=%s  uses=%d [%s]\n", inst.Identity, inst.Symbol, len(inst.UseSites), inst.State); err != nil {
			return err
		}
		sites := append([]UseSite(nil), inst.UseSites...)
		sort.SliceStable(sites, func(i, j int) bool {
			a, b := sites[i].Span, sites[j].Span
			if a.File != b.File {
				return a.File < b.File
			}
			return a.Start < b.Start
		})
		for _, us := range sites {
			caller := us.Caller
			if caller == "" {
				caller = "_"
			}
			if _, err := fmt.Fprintf(w, "  at %s from %s\n", formatSpan(fs, us.Span), caller); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatSpan(fs *source.FileSet, sp source.Span) string {
	if fs == nil || sp.Empty() {
		return sp.String()
	}
	path, pos := fs.Position(sp)
	return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
}
