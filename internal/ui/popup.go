package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	// popupWindow is how long a message stays visible.
	popupWindow = 1 * time.Second

	// Inside these edges the message renders dim, giving it a soft
	// fade-in/fade-out pulse.
	popupDimBefore = 200 * time.Millisecond
	popupDimAfter  = 700 * time.Millisecond
)

// Popup holds at most one transient message. Show replaces whatever is
// there; a message past its display window simply stops rendering, no
// explicit clear needed. Auth workers post from their own goroutines while
// the render loop reads, hence the mutex.
type Popup struct {
	mu    sync.Mutex
	text  string
	since time.Time

	now func() time.Time // stubbed in tests
}

// NewPopup creates an empty popup.
func NewPopup() *Popup {
	return &Popup{now: time.Now}
}

// Show replaces the current message and restamps it.
func (p *Popup) Show(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	p.since = p.now()
}

// Clear drops any pending message.
func (p *Popup) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = ""
}

// current returns the live message and its age, or "" when expired/empty.
func (p *Popup) current() (string, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.text == "" {
		return "", 0
	}
	elapsed := p.now().Sub(p.since)
	if elapsed > popupWindow {
		p.text = ""
		return "", 0
	}
	return p.text, elapsed
}

// Render draws the live message centered near the bottom of the screen,
// dim near the edges of its window and normal in the middle.
func (p *Popup) Render(s tcell.Screen) {
	text, elapsed := p.current()
	if text == "" {
		return
	}

	style := tcell.StyleDefault
	if elapsed < popupDimBefore || elapsed > popupDimAfter {
		style = style.Dim(true)
	}

	_, h := s.Size()
	DrawTextCentered(s, h-3, text, style)
}
