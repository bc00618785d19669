package ui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(80, 24)
	return s
}

func TestBounceIn_AbortsImmediatelyWhenSignalPreSet(t *testing.T) {
	s := newTestScreen(t)

	checks := 0
	a := Anim{
		Enabled:  true,
		Duration: 500 * time.Millisecond,
		Abort: func() bool {
			checks++
			return true
		},
	}

	start := time.Now()
	BounceIn(s, BigTime("12:34"), a)
	elapsed := time.Since(start)

	require.Equal(t, 1, checks, "abort must be consulted before the first frame")
	require.Less(t, elapsed, 100*time.Millisecond, "pre-set signal must not run the full duration")
}

func TestSlideUpOut_AbortsImmediatelyWhenSignalPreSet(t *testing.T) {
	s := newTestScreen(t)

	checks := 0
	a := Anim{
		Enabled:  true,
		Duration: 500 * time.Millisecond,
		Abort: func() bool {
			checks++
			return true
		},
	}

	start := time.Now()
	SlideUpOut(s, BigTime("12:34"), a)
	elapsed := time.Since(start)

	require.Equal(t, 1, checks)
	require.Less(t, elapsed, 100*time.Millisecond)
}

func TestAnimations_DisabledSkipEntirely(t *testing.T) {
	s := newTestScreen(t)

	a := Anim{
		Enabled:  false,
		Duration: time.Second,
		Abort: func() bool {
			t.Error("disabled animation must not consult abort")
			return false
		},
	}

	BounceIn(s, BigTime("12:34"), a)
	SlideUpOut(s, BigTime("12:34"), a)
}

func TestShake_PatternAndCycles(t *testing.T) {
	s := newTestScreen(t)

	var offsets []int
	Shake(s, func(dx int) { offsets = append(offsets, dx) }, 4, true, nil)

	require.Len(t, offsets, 10)
	want := []int{0, 4, -4, 2, -2, 0, 0, 4, -4, 2}
	require.Equal(t, want, offsets)
}

func TestShake_DisabledIsSingleStaticDraw(t *testing.T) {
	s := newTestScreen(t)

	var offsets []int
	Shake(s, func(dx int) { offsets = append(offsets, dx) }, 4, false, nil)

	require.Equal(t, []int{0}, offsets)
}

func TestShake_AbortStopsRedraws(t *testing.T) {
	s := newTestScreen(t)

	draws := 0
	Shake(s, func(int) { draws++ }, 3, true, func() bool { return true })

	require.Zero(t, draws, "pre-set signal must stop the shake before any draw")
}

func TestDrawMaskedLines_ClipsOutOfBounds(t *testing.T) {
	s := newTestScreen(t)

	// Drawing partially above and left of the screen must not panic and
	// must simply skip the out-of-bounds cells.
	DrawMaskedLines(s, -3, -1, []string{"hello", "world"}, func(int, int) bool { return true }, tcell.StyleDefault)
	s.Show()

	mainc, _, _, _ := s.GetContent(1, 0)
	require.Equal(t, 'd', mainc, "in-bounds tail of the clipped line should render")
}
