package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// animFPS is the target frame rate for entry/exit animations.
const animFPS = 50

// shakeFPS is the frame rate for the error shake.
const shakeFPS = 60

// Anim carries the parameters shared by the entry/exit animations. Abort
// is consulted before every frame: once it reports true (the unlock signal
// fired) the animation returns immediately rather than finishing.
type Anim struct {
	Enabled  bool
	Duration time.Duration
	Abort    func() bool
}

func (a Anim) aborted() bool {
	return a.Abort != nil && a.Abort()
}

// frames returns the frame count for the configured duration.
func (a Anim) frames() int {
	n := int(a.Duration.Seconds() * animFPS)
	if n < 1 {
		n = 1
	}
	return n
}

// pace sleeps until the next frame deadline and returns it. Deadlines are
// computed against the monotonic clock so a wall-clock jump cannot stall
// or rush the animation.
func pace(deadline time.Time, frame time.Duration) time.Time {
	deadline = deadline.Add(frame)
	if d := time.Until(deadline); d > 0 {
		time.Sleep(d)
	}
	return deadline
}

// BounceIn drops a block of lines from above the screen to center using
// the bounce curve. Visibility ramps from 0.25 to 1.0 linearly while the
// emphasis runs the fade schedule in reverse (bold as it lands).
func BounceIn(s tcell.Screen, lines []string, a Anim) {
	if !a.Enabled {
		return
	}

	x0, y0, _, textH := CenterOf(s, lines)
	startY := -textH - 2
	span := y0 - startY
	frames := a.frames()
	frameDur := time.Second / animFPS
	deadline := time.Now()

	for i := 0; i <= frames; i++ {
		if a.aborted() {
			return
		}
		t := float64(i) / float64(frames)
		y := startY + int(float64(span)*EaseOutBounce(t))
		vis := 0.25 + t
		if vis > 1 {
			vis = 1
		}

		s.Clear()
		DrawMaskedLines(s, x0, y, lines, func(r, c int) bool {
			return Noise01(r, c) < vis
		}, FadeStyle(1-t))
		s.Show()

		deadline = pace(deadline, frameDur)
	}
}

// SlideUpOut slides a block of lines from center to past the top edge
// using the cubic curve, dissolving as it goes: visibility ramps from 1.0
// to 0.0 and emphasis follows the standard fade schedule.
func SlideUpOut(s tcell.Screen, lines []string, a Anim) {
	if !a.Enabled {
		return
	}

	x0, y0, _, textH := CenterOf(s, lines)
	dist := y0 + textH + 2
	frames := a.frames()
	frameDur := time.Second / animFPS
	deadline := time.Now()

	for i := 0; i <= frames; i++ {
		if a.aborted() {
			return
		}
		t := float64(i) / float64(frames)
		y := y0 - int(float64(dist)*EaseOutCubic(t))
		vis := 1 - t

		s.Clear()
		DrawMaskedLines(s, x0, y, lines, func(r, c int) bool {
			return Noise01(r, c) < vis
		}, FadeStyle(t))
		s.Show()

		deadline = pace(deadline, frameDur)
	}
}

// shakeCycles is how many offsets the error shake plays.
const shakeCycles = 10

// Shake jolts a panel horizontally to signal a rejected password. The
// caller's draw function is re-invoked with each offset of the pattern
// 0, +A, -A, +A/2, -A/2, 0. With animations disabled it degrades to one
// static draw at zero offset. Aborts early once abort fires.
func Shake(s tcell.Screen, draw func(dx int), amplitude int, enabled bool, abort func() bool) {
	if !enabled {
		s.Clear()
		draw(0)
		s.Show()
		return
	}

	pattern := []int{0, amplitude, -amplitude, amplitude / 2, -amplitude / 2, 0}
	frameDur := time.Second / shakeFPS
	deadline := time.Now()

	for i := 0; i < shakeCycles; i++ {
		if abort != nil && abort() {
			return
		}
		s.Clear()
		draw(pattern[i%len(pattern)])
		s.Show()

		deadline = pace(deadline, frameDur)
	}
}
