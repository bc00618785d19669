// Package ui is the terminal rendering and animation engine for the lock
// screen: easing curves, the deterministic dissolve mask, the block-digit
// clock, the transient popup, and the entry/exit/shake animations.
package ui

import "github.com/gdamore/tcell/v2"

// clamp01 pins t into [0,1]. Every easing function takes clamped input so
// callers can feed raw frame fractions.
func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// EaseOutCubic is 1-(1-t)^3: fast start, smooth settle.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// EaseOutBounce is Penner's bounce-out curve: four quadratic segments with
// breakpoints at t = 1/2.75, 2/2.75 and 2.5/2.75, settling at 1 after an
// overshoot-and-bounce.
func EaseOutBounce(t float64) float64 {
	t = clamp01(t)
	const n1, d1 = 7.5625, 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// Noise01 hashes a cell position to a stable pseudo-random float in [0,1).
// It is seedless on purpose: the same cell always resolves the same way at
// a given visibility threshold, which turns the mask into a stable
// dissolve instead of per-frame flicker.
func Noise01(row, col int) float64 {
	v := uint32(row*73856093) ^ uint32(col*19349663) ^ 0x9e3779b9
	return float64(v) / float64(0xffffffff)
}

// FadeStyle maps an animation fraction to a text emphasis: bold early,
// normal mid, dim late, with thresholds at 0.33 and 0.66.
func FadeStyle(t float64) tcell.Style {
	switch {
	case t < 0.33:
		return tcell.StyleDefault.Bold(true)
	case t < 0.66:
		return tcell.StyleDefault
	default:
		return tcell.StyleDefault.Dim(true)
	}
}
