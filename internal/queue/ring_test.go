package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRing_FIFOAcrossGrowth(t *testing.T) {
	r := newRing[int](2)

	for i := range 5 {
		r.pushBack(i)
	}

	require.Equal(t, 5, r.len())

	for i := range 5 {
		require.Equal(t, i, r.popFront())
	}

	require.Equal(t, 0, r.len())
}

func TestRing_WrapAroundThenGrow(t *testing.T) {
	r := newRing[string](4)

	r.pushBack("a")
	r.pushBack("b")
	r.pushBack("c")
	require.Equal(t, "a", r.popFront())
	require.Equal(t, "b", r.popFront())

	// head is now in the middle; fill past the end and force a grow
	for _, s := range []string{"d", "e", "f", "g"} {
		r.pushBack(s)
	}

	got := make([]string, 0, r.len())
	for r.len() > 0 {
		got = append(got, r.popFront())
	}

	require.Equal(t, []string{"c", "d", "e", "f", "g"}, got)
}

func TestRing_ZeroCapacity(t *testing.T) {
	r := newRing[int](0)
	r.pushBack(7)

	require.Equal(t, 7, r.popFront())
}

func TestRing_PopReleasesSlot(t *testing.T) {
	r := newRing[*int](2)
	v := 1

	r.pushBack(&v)
	r.popFront()

	require.Nil(t, r.buf[0])
}

func TestRing_Clear(t *testing.T) {
	r := newRing[int](2)
	r.pushBack(1)
	r.pushBack(2)
	r.clear()

	require.Equal(t, 0, r.len())
	require.Equal(t, []int{0, 0}, r.buf)
}
