package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ferrite/internal/driver"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTimings prints the phase durations of every freshly compiled input.
// Cached results carry no timings and are skipped.
func printTimings(out io.Writer, results []*driver.Result) {
	for _, res := range results {
		if res == nil || res.Timing == nil {
			continue
		}
		fmt.Fprintf(out, "%s: %.1f ms\n", res.Path, res.Timing.TotalMS)
		for _, ph := range res.Timing.Phases {
			if ph.Note != "" {
				fmt.Fprintf(out, "  %-9s %7.2f ms  (%s)\n", ph.Name, ph.DurationMS, ph.Note)
				continue
			}
			fmt.Fprintf(out, "  %-9s %7.2f ms\n", ph.Name, ph.DurationMS)
		}
	}
}

// outputNameFromPath derives the default artifact path: the input name with
// ext swapped in. An input that already has ext gets a ".out" infix so it is
// never overwritten.
func outputNameFromPath(inputPath, ext string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.EqualFold(filepath.Ext(base), ext) {
		stem += ".out"
	}
	return filepath.Join(dir, stem+ext)
}
