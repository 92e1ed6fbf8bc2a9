//go:build !linux

package sbrk

// NewOSArena falls back to the portable slice-backed Arena on platforms
// where this module does not implement a real mmap/mprotect-backed region.
func NewOSArena() (Arena, error) {
	return NewArena(), nil
}
