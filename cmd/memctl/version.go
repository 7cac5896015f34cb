package main

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/vmem"
)

// Set with -ldflags "-X main.version=..." at release time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build and platform information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	}
}

type versionReport struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	PageSize  int    `json:"page_size"`
}

// buildVersion fills commit and build time from the embedded VCS stamp when
// they were not injected by the linker.
func buildVersion() versionReport {
	rep := versionReport{
		Version:   version,
		Commit:    commit,
		Built:     date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		PageSize:  vmem.PageSize(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && rep.Commit == "":
				rep.Commit = s.Value
			case s.Key == "vcs.time" && rep.Built == "":
				rep.Built = s.Value
			}
		}
	}
	if rep.Commit == "" {
		rep.Commit = "none"
	}
	if rep.Built == "" {
		rep.Built = "unknown"
	}
	return rep
}

func runVersion() error {
	rep := buildVersion()
	if jsonOut {
		return printJSON(rep)
	}
	printInfo("memctl %s (%s, %s)\n", rep.Version, rep.GoVersion, rep.Platform)
	printInfo("  commit: %s\n", rep.Commit)
	printInfo("  built: %s\n", rep.Built)
	printInfo("  page size: %s\n", formatBytes(rep.PageSize))
	return nil
}
