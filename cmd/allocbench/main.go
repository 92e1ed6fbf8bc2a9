// Command allocbench replays allocation traces against the segalloc
// allocator and reports usage statistics and invariant checks.
package main

func main() {
	execute()
}
