package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segheap/segalloc/alloc"
	"github.com/segheap/segalloc/internal/block"
	"github.com/segheap/segalloc/sbrk"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace, validating heap invariants after every op",
		Long: `The check command is run's strict sibling: it runs the invariant
checker after every single operation instead of only at the end, and
reports every violation it finds along with which op caused it.

Example:
  allocbench check trace.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
}

func runCheck(args []string) error {
	tracePath := args[0]

	ops, err := loadTrace(tracePath)
	if err != nil {
		return err
	}

	a := sbrk.NewArena()
	al, err := alloc.New(a)
	if err != nil {
		return fmt.Errorf("init allocator: %w", err)
	}

	live := make(map[int]block.Addr)
	violations := 0

	for i, o := range ops {
		switch o.kind {
		case opAlloc:
			bp := al.AllocateOffset(o.size)
			if bp != block.NullAddr {
				live[o.id] = bp
			}
		case opFree:
			if bp, ok := live[o.id]; ok {
				al.FreeOffset(bp)
				delete(live, o.id)
			}
		case opRealloc:
			if bp, ok := live[o.id]; ok {
				newBp := al.ReallocateOffset(bp, o.size)
				if o.size == 0 {
					// reallocate(id, 0) is free's equivalent: the block
					// underneath id is already gone, not still live.
					delete(live, o.id)
				} else if newBp != block.NullAddr {
					live[o.id] = newBp
				}
			}
		}

		for _, e := range alloc.Check(al) {
			violations++
			printError("op %d (%c %d): %v\n", i, o.kind, o.id, e)
		}
	}

	if violations > 0 {
		return fmt.Errorf("%d invariant violation(s) found", violations)
	}

	printInfo("OK: %d ops replayed, heap consistent throughout\n", len(ops))
	return nil
}
