package session

// Choice tracks the currently selected session among the discovered ones.
// Navigation wraps modulo the session count and is a no-op when nothing
// was discovered.
type Choice struct {
	sessions []Session
	index    int
}

// NewChoice creates a selector over the given sessions, starting at the
// session whose key matches defaultKey when present, otherwise at the
// first one.
func NewChoice(sessions []Session, defaultKey string) *Choice {
	c := &Choice{sessions: sessions}
	for i, s := range sessions {
		if s.Key == defaultKey {
			c.index = i
			break
		}
	}
	return c
}

// Empty reports whether there is nothing to choose from.
func (c *Choice) Empty() bool {
	return len(c.sessions) == 0
}

// Len returns the number of selectable sessions.
func (c *Choice) Len() int {
	return len(c.sessions)
}

// Current returns the selected session. ok is false when the list is
// empty; the zero Session must not be launched in that case.
func (c *Choice) Current() (Session, bool) {
	if len(c.sessions) == 0 {
		return Session{}, false
	}
	return c.sessions[c.index], true
}

// Prev moves the selection left, wrapping around.
func (c *Choice) Prev() {
	if len(c.sessions) == 0 {
		return
	}
	c.index = (c.index - 1 + len(c.sessions)) % len(c.sessions)
}

// Next moves the selection right, wrapping around.
func (c *Choice) Next() {
	if len(c.sessions) == 0 {
		return
	}
	c.index = (c.index + 1) % len(c.sessions)
}
