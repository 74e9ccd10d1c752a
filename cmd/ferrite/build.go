package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ferrite/internal/astio"
	"ferrite/internal/diagfmt"
	"ferrite/internal/driver"
	"ferrite/internal/hir"
	"ferrite/internal/mir"
	"ferrite/internal/mono"
	"ferrite/internal/trace"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Concretize a module and write the result",
	Long: `Build checks one syntactic module document and writes its concrete
module: a MessagePack artifact (--emit=mp, the default) or a textual dump
printed to stdout unless -o is given: the concrete module (--emit=mir), the
resolved module (--emit=hir) or the instantiation registry (--emit=mono).`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output path")
	buildCmd.Flags().String("emit", "mp", "what to write (mp|mir|hir|mono)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return err
	}
	emit = strings.ToLower(emit)
	switch emit {
	case "mp", "mir", "hir", "mono":
	default:
		return fmt.Errorf("unsupported --emit %q (must be mp, mir, hir or mono)", emit)
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	input := args[0]
	ctx := cmd.Context()
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "build", 0)
	defer sp.End("")
	ctx = trace.WithSpan(ctx, sp)

	res, err := driver.CompileFile(ctx, input, s.opts)
	if err != nil {
		return err
	}
	if res.Broken() || res.MIR == nil {
		res.Bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:    useColor(),
			Context:  1,
			PathMode: diagfmt.PathModeAuto,
		})
		diagfmt.Summary(cmd.ErrOrStderr(), res.Bag, useColor())
		return errBroken
	}
	if s.opts.Timings {
		printTimings(cmd.ErrOrStderr(), []*driver.Result{res})
	}

	var data []byte
	switch emit {
	case "mir", "hir", "mono":
		var buf bytes.Buffer
		if err := dumpText(&buf, emit, res); err != nil {
			return err
		}
		if outPath == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		data = buf.Bytes()
	default:
		data, err = astio.EncodeMIR(res.MIR, s.opts.Target)
		if err != nil {
			return fmt.Errorf("encode %s: %w", input, err)
		}
		if outPath == "" {
			outPath = outputNameFromPath(input, ".mp")
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}

func dumpText(w io.Writer, emit string, res *driver.Result) error {
	switch emit {
	case "hir":
		return hir.Dump(w, res.HIR)
	case "mono":
		return mono.Dump(w, res.Instances, res.FileSet)
	default:
		return mir.Dump(w, res.MIR)
	}
}
