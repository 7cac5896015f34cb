package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// printer groups digits in byte counts.
var printer = message.NewPrinter(language.English)

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprint(os.Stderr, failColor.Sprint("Error: "))
	fmt.Fprintf(os.Stderr, format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printTable renders rows under header unless in quiet mode.
func printTable(header []string, rows [][]string) {
	if quiet {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// formatBytes renders n as a grouped byte count with a binary-unit hint.
func formatBytes[T ~int | ~int64 | ~uint64](n T) string {
	v := float64(n)
	switch {
	case v >= 1<<30:
		return printer.Sprintf("%d B (%.1f GiB)", n, v/(1<<30))
	case v >= 1<<20:
		return printer.Sprintf("%d B (%.1f MiB)", n, v/(1<<20))
	case v >= 1<<10:
		return printer.Sprintf("%d B (%.1f KiB)", n, v/(1<<10))
	default:
		return printer.Sprintf("%d B", n)
	}
}

// parseSize parses a byte count with an optional K, M or G suffix (binary
// units, case-insensitive, optional trailing "B" or "iB").
func parseSize(s string) (int, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.TrimSuffix(t, "IB")
	t = strings.TrimSuffix(t, "B")

	shift := 0
	if t != "" {
		switch t[len(t)-1] {
		case 'K':
			shift = 10
		case 'M':
			shift = 20
		case 'G':
			shift = 30
		}
		if shift != 0 {
			t = t[:len(t)-1]
		}
	}

	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	if n > math.MaxInt>>shift {
		return 0, fmt.Errorf("invalid size %q: too large", s)
	}
	return n << shift, nil
}
