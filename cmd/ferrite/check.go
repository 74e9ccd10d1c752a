package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ferrite/internal/diagfmt"
	"ferrite/internal/driver"
	"ferrite/internal/trace"
	"ferrite/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Resolve and concretize syntactic module documents",
	Long: `Check resolves every input (.yaml, .yml or .mp) against the prelude,
reports diagnostics and verifies that the module concretizes. Without
arguments the sources listed in ferrite.toml are checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	checkCmd.Flags().Bool("no-cache", false, "ignore and do not update the check cache")
	checkCmd.Flags().Bool("notes", false, "print diagnostic notes")
	checkCmd.Flags().Bool("clear-cache", false, "drop the check cache before running")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return err
	}
	showNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	files, err := s.inputs(args)
	if err != nil {
		return err
	}
	if !noCache {
		cache, err := driver.OpenDiskCache("ferrite")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: check cache disabled: %v\n", err)
		} else {
			if clearCache {
				if err := cache.DropAll(); err != nil {
					return err
				}
				if cache, err = driver.OpenDiskCache("ferrite"); err != nil {
					return err
				}
			}
			s.opts.Cache = cache
		}
	}

	ctx := cmd.Context()
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", 0)
	defer sp.End("")
	ctx = trace.WithSpan(ctx, sp)

	withUI, err := useUI(cmd)
	if err != nil {
		return err
	}
	var results []*driver.Result
	if withUI && len(files) > 1 && format == "pretty" {
		results, err = runCheckWithUI(ctx, "checking", files, s.opts, s.jobs)
	} else {
		results, err = driver.CheckFiles(ctx, files, s.opts, s.jobs)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	broken := false
	switch format {
	case "json":
		if err := writeJSONResults(out, results, showNotes); err != nil {
			return err
		}
		for _, res := range results {
			broken = broken || res.Broken()
		}
	default:
		broken = writePrettyResults(out, cmd.ErrOrStderr(), results, showNotes)
	}
	if s.opts.Timings && format == "pretty" {
		printTimings(out, results)
	}
	if broken {
		return errBroken
	}
	return nil
}

func writePrettyResults(out, errOut io.Writer, results []*driver.Result, showNotes bool) bool {
	wd, _ := os.Getwd()
	broken := false
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "error: %v\n", res.Err)
		}
		res.Bag.Sort()
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(),
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			BaseDir:   wd,
			ShowNotes: showNotes,
		})
		if res.Broken() {
			broken = true
			diagfmt.Summary(out, res.Bag, useColor())
			continue
		}
		status := "ok"
		if res.Cached {
			status = "ok (cached)"
		}
		fmt.Fprintf(out, "%s: %s\n", res.Path, status)
	}
	return broken
}

type jsonFileResult struct {
	Path   string                    `json:"path"`
	Module string                    `json:"module,omitempty"`
	Broken bool                      `json:"broken"`
	Cached bool                      `json:"cached,omitempty"`
	Error  string                    `json:"error,omitempty"`
	Output diagfmt.DiagnosticsOutput `json:"output"`
}

func writeJSONResults(out io.Writer, results []*driver.Result, showNotes bool) error {
	payload := make([]jsonFileResult, 0, len(results))
	for _, res := range results {
		res.Bag.Sort()
		r := jsonFileResult{
			Path:   res.Path,
			Module: res.ModuleName,
			Broken: res.Broken(),
			Cached: res.Cached,
			Output: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     showNotes,
			}),
		}
		if res.Err != nil {
			r.Error = res.Err.Error()
		}
		payload = append(payload, r)
	}
	return writeJSON(out, payload)
}

// runCheckWithUI runs CheckFiles while a Bubble Tea model renders
// progress from the phase events.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.Options, jobs int) ([]*driver.Result, error) {
	events := make(chan ui.Event, 256)
	opts.Observer = func(ev driver.PhaseEvent) {
		if ev.Status == driver.PhaseStart {
			events <- ui.FromPhase(ev)
		}
	}
	opts.OnResult = func(res *driver.Result) {
		events <- ui.Finished(res.Path, res.Broken())
	}
	type outcome struct {
		results []*driver.Result
		err     error
	}
	outcomeCh := make(chan outcome, 1)
	go func() {
		results, err := driver.CheckFiles(ctx, files, opts, jobs)
		close(events)
		outcomeCh <- outcome{results: results, err: err}
	}()

	uiErr := runProgram(ui.NewProgressModel(title, files, events))
	// дочитываем события, если UI завершился раньше
	for range events {
	}
	res := <-outcomeCh
	if uiErr != nil {
		return res.results, uiErr
	}
	return res.results, res.err
}
