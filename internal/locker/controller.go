// Package locker runs the lock screen: a render/input loop over a small
// state machine, two background auth workers racing a first-writer-wins
// unlock signal, and a hand-off to the chosen desktop session.
package locker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"face-lock/internal/config"
	"face-lock/internal/lock"
	"face-lock/internal/session"
	"face-lock/internal/ui"
)

var ErrNoSessions = errors.New("no launchable desktop sessions")

// inputPoll bounds the wait for a key so worker unlocks are observed at
// least ~20 times per second even with no keyboard activity.
const inputPoll = 50 * time.Millisecond

// joinTimeout bounds how long shutdown waits for each worker.
const joinTimeout = time.Second

type mode int

const (
	modeMain mode = iota
	modePassword
)

// Controller owns the screen, the unlock signal, the popup, the password
// buffer, and both auth workers. One Controller serves one lock session.
type Controller struct {
	cfg      config.Config
	screen   tcell.Screen
	signal   *lock.Signal
	popup    *ui.Popup
	buffer   *lock.Buffer
	choice   *session.Choice
	identity string
	logger   *slog.Logger

	// verify is the opaque password check; replaced in tests.
	verify func([]byte) bool

	// now feeds the clock; replaced in tests.
	now func() time.Time

	mode    mode
	message string

	faceWorker   *FaceWorker
	fprintWorker *FingerprintWorker

	events   chan tcell.Event
	pollDone chan struct{}
}

// New builds a controller over an initialized screen. The session list
// comes from discovery at startup; the config snapshot is immutable from
// here on.
func New(screen tcell.Screen, cfg config.Config, sessions []session.Session, identity string, logger *slog.Logger) *Controller {
	signal := lock.NewSignal()
	popup := ui.NewPopup()

	return &Controller{
		cfg:          cfg,
		screen:       screen,
		signal:       signal,
		popup:        popup,
		buffer:       lock.NewBuffer(),
		choice:       session.NewChoice(sessions, cfg.DefaultSession),
		identity:     identity,
		logger:       logger,
		verify:       lock.Check,
		now:          time.Now,
		faceWorker:   NewFaceWorker(cfg, signal, popup, identity, logger),
		fprintWorker: NewFingerprintWorker(cfg, signal, popup, identity, logger),
		events:       make(chan tcell.Event, 10),
		pollDone:     make(chan struct{}),
	}
}

// Run blocks until one factor wins the unlock race, then stops and joins
// the workers and returns the winning factor plus the selected session.
// The caller finalizes the screen and launches.
func (c *Controller) Run(ctx context.Context) (lock.Result, session.Session, error) {
	c.screen.Clear()
	c.screen.HideCursor()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	c.faceWorker.Start(workerCtx)
	c.fprintWorker.Start(workerCtx)

	go c.pollEvents()

	c.playAnim(c.cfg.AnimInStyle, true)

	for !c.signal.Set() {
		if ctx.Err() != nil {
			stopWorkers()
			c.join()
			return lock.Result{}, session.Session{}, ctx.Err()
		}

		c.renderFrame()

		select {
		case ev := <-c.events:
			c.handleEvent(ev)
		case <-time.After(inputPoll):
		case <-ctx.Done():
		}
	}

	res, _ := c.signal.Result()

	// Two-phase stop: request, then bounded join. The camera must be
	// released before the session launches; a stuck worker is tolerated
	// after the timeout.
	stopWorkers()
	c.join()

	chosen, ok := c.choice.Current()
	if !ok {
		return res, session.Session{}, ErrNoSessions
	}
	return res, chosen, nil
}

// Close releases controller resources. The screen itself belongs to the
// caller.
func (c *Controller) Close() {
	c.buffer.Destroy()

	// The event goroutine ends once the caller finalizes the screen;
	// don't wait on it longer than that takes.
	select {
	case <-c.pollDone:
	case <-time.After(100 * time.Millisecond):
	}
}

func (c *Controller) join() {
	if !joinWorker(c.faceWorker.Done(), joinTimeout) {
		c.logger.Warn("face worker did not stop in time")
	}
	if !joinWorker(c.fprintWorker.Done(), joinTimeout) {
		c.logger.Warn("fingerprint worker did not stop in time")
	}
}

// pollEvents forwards screen events to the render loop. PollEvent returns
// nil once the screen is finalized, ending the goroutine.
func (c *Controller) pollEvents() {
	defer close(c.pollDone)
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		c.events <- ev
	}
}

// ---- Input Handling

func (c *Controller) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.screen.Sync()
	case *tcell.EventKey:
		if c.mode == modePassword {
			c.handlePasswordKey(ev)
		} else {
			c.handleMainKey(ev)
		}
	}
}

func (c *Controller) handleMainKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyLeft:
		c.choice.Prev()
	case ev.Key() == tcell.KeyRight:
		c.choice.Next()
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
		c.playAnim(c.cfg.AnimOutStyle, false)
		c.buffer.Clear()
		c.message = ""
		c.popup.Clear()
		c.mode = modePassword
	}
}

func (c *Controller) handlePasswordKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.buffer.Clear()
		c.message = ""
		c.mode = modeMain
		c.screen.HideCursor()
		c.playAnim(c.cfg.AnimInStyle, true)

	case tcell.KeyEnter:
		c.submitPassword()

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.buffer.Backspace()

	case tcell.KeyRune:
		if r := ev.Rune(); r >= 32 && r <= 255 {
			c.buffer.AppendRune(r)
		}
	}
}

func (c *Controller) submitPassword() {
	candidate := c.buffer.Bytes()
	defer lock.ClearBytes(candidate)

	if c.verify(candidate) {
		c.buffer.Clear()
		c.message = ""
		if c.signal.TrySet(lock.MethodPassword, c.identity) {
			c.logger.Info("unlocked by password", "identity", c.identity)
		}
		return
	}

	c.message = "Incorrect password"
	c.buffer.Clear()
	ui.Shake(c.screen, func(dx int) {
		c.drawPasswordPanel(dx)
	}, c.cfg.ShakeIntensity, c.cfg.EnableAnimations, c.signal.Set)
}

// ---- Rendering

func (c *Controller) renderFrame() {
	c.screen.Clear()
	if c.mode == modePassword {
		c.drawPasswordPanel(0)
	} else {
		c.drawMainScreen()
	}
	c.popup.Render(c.screen)
	c.screen.Show()
}

func (c *Controller) clockLines() []string {
	now := c.now()
	lines := ui.BigTime(now.Format("15:04"))
	if c.cfg.ClockFont == config.ClockArtistic {
		date := now.Format("Monday, January 2")
		if pad := (len([]rune(lines[0])) - len(date)) / 2; pad > 0 {
			date = strings.Repeat(" ", pad) + date
		}
		lines = append(lines, "", date)
	}
	return lines
}

func (c *Controller) drawMainScreen() {
	c.screen.HideCursor()

	lines := c.clockLines()
	x, y, _, _ := ui.CenterOf(c.screen, lines)
	for i, line := range lines {
		ui.DrawText(c.screen, x, y+i, line, tcell.StyleDefault.Bold(true))
	}

	_, h := c.screen.Size()
	if cur, ok := c.choice.Current(); ok {
		ui.DrawTextCentered(c.screen, h-4, "< "+cur.Key+" >", tcell.StyleDefault)
	}
	ui.DrawTextCentered(c.screen, h-2, c.cfg.HintText, tcell.StyleDefault.Dim(true))
}

// Password panel geometry.
const (
	panelW = 30
	panelH = 7
)

func (c *Controller) drawPasswordPanel(dx int) {
	w, h := c.screen.Size()
	sx := (w-panelW)/2 + dx
	sy := (h - panelH) / 2

	st := tcell.StyleDefault
	for xi := 1; xi < panelW-1; xi++ {
		c.screen.SetContent(sx+xi, sy, tcell.RuneHLine, nil, st)
		c.screen.SetContent(sx+xi, sy+panelH-1, tcell.RuneHLine, nil, st)
	}
	for yi := 1; yi < panelH-1; yi++ {
		c.screen.SetContent(sx, sy+yi, tcell.RuneVLine, nil, st)
		c.screen.SetContent(sx+panelW-1, sy+yi, tcell.RuneVLine, nil, st)
	}
	c.screen.SetContent(sx, sy, tcell.RuneULCorner, nil, st)
	c.screen.SetContent(sx+panelW-1, sy, tcell.RuneURCorner, nil, st)
	c.screen.SetContent(sx, sy+panelH-1, tcell.RuneLLCorner, nil, st)
	c.screen.SetContent(sx+panelW-1, sy+panelH-1, tcell.RuneLRCorner, nil, st)

	ui.DrawText(c.screen, sx+2, sy+1, "Password:", st)

	stars := c.buffer.RuneLen()
	if stars > panelW-4 {
		stars = panelW - 4
	}
	for i := 0; i < stars; i++ {
		c.screen.SetContent(sx+2+i, sy+3, '*', nil, st)
	}
	c.screen.ShowCursor(sx+2+stars, sy+3)

	ui.DrawText(c.screen, sx+2, sy+5, "Enter submit / Esc cancel", tcell.StyleDefault.Dim(true))

	if c.message != "" {
		ui.DrawText(c.screen, sx+2, sy+panelH, c.message, tcell.StyleDefault.Bold(true))
	}
}

// playAnim runs the configured entry or exit animation over the clock
// block. Best effort: it aborts as soon as the unlock signal fires.
func (c *Controller) playAnim(style config.Style, entering bool) {
	dur := c.cfg.AnimDurationOut
	if entering {
		dur = c.cfg.AnimDurationIn
	}

	a := ui.Anim{
		Enabled:  c.cfg.EnableAnimations,
		Duration: time.Duration(dur * float64(time.Second)),
		Abort:    c.signal.Set,
	}

	switch style {
	case config.StyleBounce:
		ui.BounceIn(c.screen, c.clockLines(), a)
	case config.StyleSlideUp:
		ui.SlideUpOut(c.screen, c.clockLines(), a)
	}
}
