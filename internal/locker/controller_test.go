package locker

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-lock/internal/config"
	"face-lock/internal/lock"
	"face-lock/internal/session"
)

func testSessions() []session.Session {
	return []session.Session{
		{Key: "gnome-wayland", Command: "true"},
		{Key: "gnome-x11", Command: "true"},
		{Key: "kde", Command: "true"},
	}
}

// newTestController builds a controller over a simulation screen with all
// background factors off and animations disabled, so tests drive the state
// machine directly.
func newTestController(t *testing.T, sessions []session.Session) (*Controller, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	cfg := config.Default()
	cfg.EnableAnimations = false
	cfg.EnableFace = false
	cfg.EnableFingerprint = false

	c := New(screen, cfg, sessions, "alice", testLogger())
	t.Cleanup(c.Close)
	return c, screen
}

func keyEvent(key tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(key, r, tcell.ModNone)
}

func TestController_SessionNavigationWraps(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	cur, _ := c.choice.Current()
	assert.Equal(t, "gnome-wayland", cur.Key)

	c.handleEvent(keyEvent(tcell.KeyRight, 0))
	cur, _ = c.choice.Current()
	assert.Equal(t, "gnome-x11", cur.Key)

	// Three rights from the start wrap back around.
	c.handleEvent(keyEvent(tcell.KeyRight, 0))
	c.handleEvent(keyEvent(tcell.KeyRight, 0))
	cur, _ = c.choice.Current()
	assert.Equal(t, "gnome-wayland", cur.Key)

	c.handleEvent(keyEvent(tcell.KeyLeft, 0))
	cur, _ = c.choice.Current()
	assert.Equal(t, "kde", cur.Key)
}

func TestController_SessionNavigationEmptyListIsNoOp(t *testing.T) {
	c, _ := newTestController(t, nil)

	c.handleEvent(keyEvent(tcell.KeyLeft, 0))
	c.handleEvent(keyEvent(tcell.KeyRight, 0))

	_, ok := c.choice.Current()
	assert.False(t, ok)
	assert.Equal(t, modeMain, c.mode)
}

func TestController_SpaceEntersPasswordMode(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	c.buffer.AppendRune('x') // stale garbage from a previous life
	c.message = "old"
	c.popup.Show("pending hint")

	c.handleEvent(keyEvent(tcell.KeyRune, ' '))

	assert.Equal(t, modePassword, c.mode)
	assert.Zero(t, c.buffer.Len(), "buffer is cleared on mode entry")
	assert.Empty(t, c.message)
}

func TestController_EscapeReturnsToMainScreen(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	c.handleEvent(keyEvent(tcell.KeyRune, ' '))
	c.handleEvent(keyEvent(tcell.KeyRune, 's'))
	c.message = "Incorrect password"

	c.handleEvent(keyEvent(tcell.KeyEscape, 0))

	assert.Equal(t, modeMain, c.mode)
	assert.Zero(t, c.buffer.Len())
	assert.Empty(t, c.message)
}

func TestController_PasswordEditingAndSubmit(t *testing.T) {
	c, _ := newTestController(t, testSessions())
	c.verify = func(b []byte) bool { return string(b) == "a" }

	c.handleEvent(keyEvent(tcell.KeyRune, ' '))
	for _, r := range "abc" {
		c.handleEvent(keyEvent(tcell.KeyRune, r))
	}
	c.handleEvent(keyEvent(tcell.KeyBackspace2, 0))
	c.handleEvent(keyEvent(tcell.KeyBackspace2, 0))

	assert.Equal(t, "a", string(c.buffer.Bytes()))

	c.handleEvent(keyEvent(tcell.KeyEnter, 0))

	res, ok := c.signal.Result()
	require.True(t, ok)
	assert.Equal(t, lock.MethodPassword, res.Method)
	assert.Equal(t, "alice", res.Identity)
	assert.Zero(t, c.buffer.Len())
}

func TestController_IgnoresControlRunes(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	c.handleEvent(keyEvent(tcell.KeyRune, ' '))
	c.handleEvent(keyEvent(tcell.KeyRune, rune(7))) // BEL, not printable
	c.handleEvent(keyEvent(tcell.KeyRune, 'é'))     // printable latin-1

	assert.Equal(t, "é", string(c.buffer.Bytes()))
}

func TestController_FailedThenSuccessfulAttempt(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	attempt := 0
	c.verify = func(b []byte) bool {
		attempt++
		return attempt == 2
	}

	c.handleEvent(keyEvent(tcell.KeyRune, ' '))
	c.handleEvent(keyEvent(tcell.KeyRune, 'x'))
	c.handleEvent(keyEvent(tcell.KeyEnter, 0))

	assert.Equal(t, "Incorrect password", c.message)
	assert.Zero(t, c.buffer.Len(), "buffer is cleared after a failed attempt")
	assert.False(t, c.signal.Set())
	assert.Equal(t, modePassword, c.mode, "failure stays in password entry")

	c.handleEvent(keyEvent(tcell.KeyRune, 'x'))
	c.handleEvent(keyEvent(tcell.KeyEnter, 0))

	res, ok := c.signal.Result()
	require.True(t, ok)
	assert.Equal(t, lock.MethodPassword, res.Method)
	assert.Empty(t, c.message, "success supersedes the failure message")
}

type runOutcome struct {
	res     lock.Result
	session session.Session
	err     error
}

func runController(c *Controller) <-chan runOutcome {
	out := make(chan runOutcome, 1)
	go func() {
		res, chosen, err := c.Run(context.Background())
		out <- runOutcome{res, chosen, err}
	}()
	return out
}

func TestController_RunUnlocksViaInjectedKeys(t *testing.T) {
	c, screen := newTestController(t, testSessions())
	c.verify = func(b []byte) bool { return string(b) == "a" }

	outcome := runController(c)

	// Give the loop a moment to come up, then drive it via real key
	// events through the screen.
	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	select {
	case got := <-outcome:
		require.NoError(t, got.err)
		assert.Equal(t, lock.MethodPassword, got.res.Method)
		assert.Equal(t, "alice", got.res.Identity)
		assert.Equal(t, "gnome-x11", got.session.Key, "the navigated-to session is handed off")
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not unlock")
	}
}

func TestController_RunPreemptedByWorkerSignal(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	outcome := runController(c)

	// A background factor fires mid-session, with no keyboard activity at
	// all. The loop's bounded input wait must still observe it promptly.
	time.Sleep(80 * time.Millisecond)
	require.True(t, c.signal.TrySet(lock.MethodFace, "alice"))

	select {
	case got := <-outcome:
		require.NoError(t, got.err)
		assert.Equal(t, lock.MethodFace, got.res.Method)
		assert.Equal(t, "gnome-wayland", got.session.Key)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not observe the unlock signal")
	}
}

func TestController_RunCancelledContext(t *testing.T) {
	c, _ := newTestController(t, testSessions())

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan error, 1)
	go func() {
		_, _, err := c.Run(ctx)
		out <- err
	}()

	time.Sleep(80 * time.Millisecond)
	cancel()

	select {
	case err := <-out:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop on context cancellation")
	}
}
