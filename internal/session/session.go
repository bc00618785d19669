// Package session discovers launchable desktop sessions and starts the
// one a successful unlock selected.
package session

import (
	"errors"
	"fmt"
	"os/exec"
)

var ErrUnknownSession = errors.New("unknown session")

// Find returns the session with the given key from the discovered list.
func Find(sessions []Session, key string) (Session, error) {
	for _, s := range sessions {
		if s.Key == key {
			return s, nil
		}
	}
	return Session{}, fmt.Errorf("%w: %q", ErrUnknownSession, key)
}

// Session pairs a selectable key with its launch command line.
type Session struct {
	Key     string
	Command string
}

// candidate describes one desktop we know how to start. A candidate is
// offered only when one of its probe binaries is on PATH; the command may
// reference the probed binary through the %s verb.
type candidate struct {
	key    string
	probes []string
	format string
}

var candidates = []candidate{
	{
		key:    "gnome-wayland",
		probes: []string{"gnome-session"},
		format: "dbus-run-session env XDG_SESSION_TYPE=wayland gnome-session",
	},
	{
		key:    "gnome-x11",
		probes: []string{"gnome-session"},
		format: "dbus-run-session env XDG_SESSION_TYPE=x11 gnome-session",
	},
	{
		key:    "kde",
		probes: []string{"startplasma-wayland", "startplasma-x11", "startkde"},
		format: "", // chosen per probe below
	},
}

var kdeCommands = map[string]string{
	"startplasma-wayland": "dbus-run-session env XDG_SESSION_TYPE=wayland startplasma-wayland",
	"startplasma-x11":     "dbus-run-session env XDG_SESSION_TYPE=x11 startplasma-x11",
	"startkde":            "dbus-run-session startkde",
}

// Discover probes PATH for launchable desktop sessions and returns them in
// a stable order. An empty result means no unlock could ever hand off to a
// usable session; callers treat that as a startup failure.
func Discover() []Session {
	return discover(exec.LookPath)
}

// discover takes the probe function as a parameter so tests can fake PATH
// contents.
func discover(lookPath func(string) (string, error)) []Session {
	var out []Session
	for _, c := range candidates {
		for _, probe := range c.probes {
			if _, err := lookPath(probe); err != nil {
				continue
			}
			cmd := c.format
			if cmd == "" {
				cmd = kdeCommands[probe]
			}
			out = append(out, Session{Key: c.key, Command: cmd})
			break
		}
	}
	return out
}

// Launch starts the session command and does not wait for it. Output is
// discarded; the desktop owns its own logging.
func Launch(s Session) error {
	cmd := exec.Command("/bin/sh", "-c", s.Command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching session %q: %w", s.Key, err)
	}
	// Reap the shell in the background so it never zombies while this
	// process lingers.
	go func() { _ = cmd.Wait() }()
	return nil
}
