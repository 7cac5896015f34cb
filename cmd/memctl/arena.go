package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/alloc"
)

func init() {
	rootCmd.AddCommand(newArenaCmd())
}

func newArenaCmd() *cobra.Command {
	var (
		size  string
		ops   []string
		pages bool
	)
	cmd := &cobra.Command{
		Use:   "arena",
		Short: "Replay a sequence of requests against a bump arena",
		Long: `The arena command builds a bump allocator and replays a list of
operations against it. Each operation is either a byte count to allocate or
"clear" to reset the arena. Every grant is filled with a pattern and hashed;
the hashes are re-checked at the end to prove no grant overlapped another.

Out-of-memory events are counted instead of terminating the process.

Example:
  memctl arena
  memctl arena --size 4K --ops 100,200,clear,4000
  memctl arena --pages --size 1M --ops 512K,512K,1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArena(size, ops, pages)
		},
	}
	cmd.Flags().StringVar(&size, "size", "254", "Arena capacity (K, M, G suffixes allowed)")
	cmd.Flags().StringSliceVar(&ops, "ops", []string{"4", "255", "clear", "4"}, "Comma-separated sizes or \"clear\"")
	cmd.Flags().BoolVar(&pages, "pages", false, "Back the arena with reserved pages instead of the Go heap")
	return cmd
}

type arenaStep struct {
	Op     string `json:"op"`
	Result string `json:"result"`
	Used   int    `json:"used"`
	Digest string `json:"digest,omitempty"`
}

type arenaReport struct {
	Capacity  int         `json:"capacity"`
	Steps     []arenaStep `json:"steps"`
	OOMEvents int         `json:"oom_events"`
	Peak      int         `json:"peak"`
	Intact    bool        `json:"intact"`
}

// grant is a live allocation and the hash of the pattern written to it.
type grant struct {
	b   []byte
	sum uint64
}

// arenaHandle is the subset of arena behaviour the command drives.
type arenaHandle interface {
	alloc.Allocator
	Cap() int
	Peak() int
}

// releaseArena closes pa and joins any release failure into *err.
func releaseArena(pa *alloc.PageArena, err *error) {
	if cerr := pa.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("release arena: %w", cerr))
	}
}

func runArena(sizeArg string, ops []string, pages bool) (err error) {
	size, err := parseSize(sizeArg)
	if err != nil {
		return err
	}
	if size == 0 {
		return errors.New("arena size must be positive")
	}

	var oomEvents int
	opts := alloc.Options{OnOOM: func(ev alloc.OOMEvent) {
		oomEvents++
		printVerbose("OOM: %s could not grant %d bytes (%d/%d used)\n", ev.Allocator, ev.Size, ev.Used, ev.Capacity)
	}}

	var a arenaHandle
	if pages {
		pa, perr := alloc.NewPageArena(size, opts)
		if perr != nil {
			return perr
		}
		defer releaseArena(pa, &err)
		a = pa
	} else {
		a = alloc.NewBump(make([]byte, size), opts)
	}

	rep := arenaReport{Capacity: a.Cap()}
	var live []grant

	for i, op := range ops {
		op = strings.TrimSpace(op)
		if strings.EqualFold(op, "clear") {
			a.Clear()
			live = live[:0]
			rep.Steps = append(rep.Steps, arenaStep{Op: "clear", Result: "ok", Used: a.Used()})
			continue
		}

		n, err := parseSize(op)
		if err != nil {
			return fmt.Errorf("op %d: %w", i+1, err)
		}
		step := arenaStep{Op: "alloc " + strconv.Itoa(n)}
		b, err := a.Alloc(n)
		switch {
		case errors.Is(err, alloc.ErrOutOfMemory):
			step.Result = "oom"
		case err != nil:
			return fmt.Errorf("op %d: %w", i+1, err)
		default:
			for j := range b {
				b[j] = byte(i*7 + j)
			}
			g := grant{b: b, sum: xxhash.Sum64(b)}
			live = append(live, g)
			step.Result = "ok"
			step.Digest = fmt.Sprintf("%016x", g.sum)
		}
		step.Used = a.Used()
		rep.Steps = append(rep.Steps, step)
	}

	rep.Intact = true
	for _, g := range live {
		if xxhash.Sum64(g.b) != g.sum {
			rep.Intact = false
		}
	}
	rep.OOMEvents = oomEvents
	rep.Peak = a.Peak()

	if jsonOut {
		return printJSON(rep)
	}

	printInfo("\nArena: %s\n", formatBytes(rep.Capacity))
	rows := make([][]string, 0, len(rep.Steps))
	for i, s := range rep.Steps {
		result := okColor.Sprint(s.Result)
		if s.Result == "oom" {
			result = failColor.Sprint(s.Result)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Op, result, strconv.Itoa(s.Used), s.Digest})
	}
	printTable([]string{"STEP", "OP", "RESULT", "USED", "XXH64"}, rows)

	printInfo("  OOM events: %d\n", rep.OOMEvents)
	printInfo("  Peak: %s\n", formatBytes(rep.Peak))
	if rep.Intact {
		printInfo("  Integrity: %s\n", okColor.Sprint("ok"))
	} else {
		printInfo("  Integrity: %s\n", failColor.Sprint("corrupted"))
	}
	return nil
}
