package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/segheap/segalloc/alloc"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <trace>",
		Short: "Replay a trace and print allocator statistics",
		Long: `The stats command replays a trace file the same way run does, then
prints a breakdown of allocator bookkeeping: heap size, live/free bytes,
bin occupancy, and operation counters.

Example:
  allocbench stats trace.txt
  allocbench stats trace.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
}

// report prints al's current Stats, either as JSON or as the text table
// used by both `run` and `stats`.
func report(al *alloc.Allocator) error {
	s := al.Stats()

	if jsonOut {
		return printJSON(s)
	}

	printInfo("\nAllocator Statistics\n")
	printInfo("%s\n\n", strings.Repeat("-", 32))

	printInfo("Heap:\n")
	printInfo("  Size:        %s\n", formatBytes(s.HeapSize))
	printInfo("  Allocated:   %s\n", formatBytes(s.AllocBytes))
	printInfo("  Free:        %s\n", formatBytes(s.FreeBytes))
	printInfo("  Blocks:      %d (%d free)\n", s.BlockCount, s.FreeBlocks)
	printInfo("  Largest free block: %s\n\n", formatBytes(s.LargestFree))

	printInfo("Operations:\n")
	printInfo("  Allocate:    %d\n", s.AllocCalls)
	printInfo("  Free:        %d\n", s.FreeCalls)
	printInfo("  Reallocate:  %d\n", s.ReallocCalls)
	printInfo("  Heap growths: %d\n", s.GrowCalls)
	printInfo("  Splits:      %d\n", s.SplitCount)
	printInfo("  Coalesces:   %d\n\n", s.CoalesceCount)

	printInfo("Bin occupancy:\n")
	for bin, count := range s.BinOccupancy {
		if count > 0 {
			printInfo("  Bin %d: %d free blocks\n", bin, count)
		}
	}

	return nil
}

func formatBytes(n uint32) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint32(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
