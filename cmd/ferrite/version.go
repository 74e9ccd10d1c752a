package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ferrite/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit and build date even when unknown")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ferrite build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), versionFull)
			return nil
		case "json":
			return writeJSON(cmd.OutOrStdout(), collectVersion(versionFull))
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func collectVersion(full bool) versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	p := versionPayload{
		Tool:      "ferrite",
		Version:   v,
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
	if full {
		p.GitCommit = valueOrUnknown(p.GitCommit)
		p.BuildDate = valueOrUnknown(p.BuildDate)
	}
	return p
}

func renderVersionPretty(out io.Writer, full bool) {
	fmt.Fprintln(out, version.Banner())
	if full {
		p := collectVersion(true)
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
