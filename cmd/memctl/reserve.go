package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/vmem"
)

func init() {
	rootCmd.AddCommand(newReserveCmd())
}

func newReserveCmd() *cobra.Command {
	var touch bool
	cmd := &cobra.Command{
		Use:   "reserve <size>",
		Short: "Reserve and release a region of pages",
		Long: `The reserve command reserves at least <size> bytes of read/write memory
from the operating system, optionally writes every page, and releases it.
A second release is attempted to show the double-release error.

Sizes accept K, M and G suffixes (binary units).

Example:
  memctl reserve 1M
  memctl reserve 64K --touch --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkArgs(args, 1, "memctl reserve <size>"); err != nil {
				return err
			}
			return runReserve(args[0], touch)
		},
	}
	cmd.Flags().BoolVar(&touch, "touch", false, "Write one byte per page before releasing")
	return cmd
}

type reserveReport struct {
	Requested     int    `json:"requested"`
	Reserved      int    `json:"reserved"`
	Pages         int    `json:"pages"`
	Touched       bool   `json:"touched"`
	Released      bool   `json:"released"`
	DoubleRelease string `json:"double_release"`
}

func runReserve(arg string, touch bool) error {
	size, err := parseSize(arg)
	if err != nil {
		return err
	}

	printVerbose("Reserving %s\n", formatBytes(size))
	r, err := vmem.Map(size)
	if err != nil {
		return fmt.Errorf("reserve failed (code %s): %w", vmem.CodeOf(err), err)
	}

	rep := reserveReport{
		Requested: size,
		Reserved:  r.Len(),
		Pages:     r.Len() / vmem.PageSize(),
		Touched:   touch,
	}
	if touch {
		b := r.Bytes()
		for off := 0; off < len(b); off += vmem.PageSize() {
			b[off] = 1
		}
	}

	if err := r.Release(); err != nil {
		return fmt.Errorf("release failed: %w", err)
	}
	rep.Released = true

	// The region refuses a second release without touching the OS.
	if err := r.Release(); err != nil {
		rep.DoubleRelease = err.Error()
	}

	if jsonOut {
		return printJSON(rep)
	}

	printInfo("\nReservation:\n")
	printInfo("  Requested: %s\n", formatBytes(rep.Requested))
	printInfo("  Reserved: %s (%d pages)\n", formatBytes(rep.Reserved), rep.Pages)
	if touch {
		printInfo("  Touched: every page\n")
	}
	printInfo("  Released: %s\n", okColor.Sprint("ok"))
	printInfo("  Second release: %s\n", warnColor.Sprint(rep.DoubleRelease))
	return nil
}
