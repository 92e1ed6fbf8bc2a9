//go:build linux

package sbrk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSArena_ExtendCommitsWithoutMoving(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}

	a, err := NewOSArena()
	require.NoError(t, err)
	defer a.(*osArena).Close()

	base, ok := a.Extend(4096)
	require.True(t, ok)
	require.EqualValues(t, 0, base)

	mem := a.Bytes()
	mem[0] = 0x7A
	firstPage := &mem[0]

	base2, ok := a.Extend(4096)
	require.True(t, ok)
	require.EqualValues(t, 4096, base2)

	mem = a.Bytes()
	require.Same(t, firstPage, &mem[0], "committing more pages must not move the reservation")
	require.Equal(t, byte(0x7A), mem[0], "previously committed data survives a further Extend")
	require.Len(t, mem, 8192)
}

func TestOSArena_ExtendRefusesBeyondReservation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}

	a, err := NewOSArenaWithCapacity(4096)
	require.NoError(t, err)
	defer a.(*osArena).Close()

	_, ok := a.Extend(8192)
	require.False(t, ok)

	_, ok = a.Extend(4096)
	require.True(t, ok)
}
