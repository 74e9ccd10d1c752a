package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ferrite/internal/driver"
	"ferrite/internal/layout"
	"ferrite/internal/project"
)

type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func readSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on":
		return modeOn, nil
	case "off":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func (m switchMode) enabled(f *os.File) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(f)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// applyColorMode sets the process-wide fatih/color switch from --color.
func applyColorMode(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	mode, err := readSwitch("color", value)
	if err != nil {
		return err
	}
	color.NoColor = !mode.enabled(os.Stdout)
	return nil
}

func useColor() bool {
	return !color.NoColor
}

func useUI(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return false, err
	}
	mode, err := readSwitch("ui", value)
	if err != nil {
		return false, err
	}
	return mode.enabled(os.Stdout), nil
}

// settings are the pipeline options after merging ferrite.toml with the
// command line.
type settings struct {
	opts     driver.Options
	manifest *project.Manifest
	jobs     int
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, _, err := project.Discover(wd)
	if err != nil {
		return nil, err
	}
	s := &settings{opts: driver.OptionsFromManifest(manifest), manifest: manifest}

	flags := cmd.Root().PersistentFlags()
	if s.opts.Timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, err
	}
	maxDiag, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	if maxDiag > 0 {
		s.opts.MaxDiagnostics = maxDiag
	}
	targetName, err := flags.GetString("target")
	if err != nil {
		return nil, err
	}
	if targetName != "" {
		target, ok := layout.TargetByName(targetName)
		if !ok {
			return nil, fmt.Errorf("unknown target %q (expected one of %s)", targetName, strings.Join(layout.TargetNames(), ", "))
		}
		s.opts.Target = target
	}
	if s.opts.Target.PtrWidth == 0 {
		s.opts.Target = layout.X86_64()
	}
	return s, nil
}

// inputs returns the files named on the command line, or the manifest
// sources when there are none.
func (s *settings) inputs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if s.manifest == nil {
		return nil, fmt.Errorf("no input files and no %s found", project.ManifestName)
	}
	files, err := s.manifest.SourceFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s lists no source documents", s.manifest.Path)
	}
	return files, nil
}
