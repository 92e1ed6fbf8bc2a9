package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segheap/segalloc/alloc"
	"github.com/segheap/segalloc/internal/block"
	"github.com/segheap/segalloc/sbrk"
)

var (
	runChunk      uint32
	runCapacity   uint32
	runCheckEvery int
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().Uint32Var(&runChunk, "chunk", 4096, "Bytes requested from the arena per heap extension")
	cmd.Flags().Uint32Var(&runCapacity, "capacity", 64<<20, "Maximum arena size in bytes")
	cmd.Flags().IntVar(&runCheckEvery, "check-every", 0, "Run the invariant checker after every N ops (0 disables)")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay an allocation trace",
		Long: `The run command replays an allocation trace file against a fresh
allocator, then reports the resulting statistics.

Example:
  allocbench run trace.txt
  allocbench run trace.txt --check-every 1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
}

func runRun(args []string) error {
	tracePath := args[0]

	printVerbose("Loading trace: %s\n", tracePath)
	ops, err := loadTrace(tracePath)
	if err != nil {
		return err
	}
	printVerbose("Loaded %d ops\n", len(ops))

	a := sbrk.NewArenaWithCapacity(runCapacity)
	al, err := alloc.New(a, alloc.Options{Chunk: runChunk})
	if err != nil {
		return fmt.Errorf("init allocator: %w", err)
	}

	live := make(map[int]block.Addr)

	for i, o := range ops {
		switch o.kind {
		case opAlloc:
			bp := al.AllocateOffset(o.size)
			if bp == block.NullAddr {
				return fmt.Errorf("op %d: allocate %d for id %d failed: %w", i, o.size, o.id, alloc.ErrOutOfMemory)
			}
			live[o.id] = bp
		case opFree:
			bp, ok := live[o.id]
			if !ok {
				return fmt.Errorf("op %d: free unknown id %d", i, o.id)
			}
			al.FreeOffset(bp)
			delete(live, o.id)
		case opRealloc:
			bp, ok := live[o.id]
			if !ok {
				return fmt.Errorf("op %d: reallocate unknown id %d", i, o.id)
			}
			newBp := al.ReallocateOffset(bp, o.size)
			switch {
			case o.size == 0:
				// reallocate(id, 0) is free's equivalent: NullAddr here
				// means the block was released, not that it failed.
				delete(live, o.id)
			case newBp == block.NullAddr:
				return fmt.Errorf("op %d: reallocate %d for id %d failed: %w", i, o.size, o.id, alloc.ErrOutOfMemory)
			default:
				live[o.id] = newBp
			}
		}

		if runCheckEvery > 0 && (i+1)%runCheckEvery == 0 {
			if errs := alloc.Check(al); len(errs) > 0 {
				return fmt.Errorf("op %d: heap invariant violated: %v", i, errs[0])
			}
		}
	}

	return report(al)
}
