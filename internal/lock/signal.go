package lock

import "sync/atomic"

// ---- Shared Unlock Signal

// Method identifies the authentication factor that won the unlock race.
type Method string

const (
	MethodFace        Method = "face"
	MethodFingerprint Method = "fingerprint"
	MethodPassword    Method = "password"
)

// Result records which factor unlocked the session and for whom.
type Result struct {
	Method   Method
	Identity string
}

// Signal is the single serialization point between the auth workers and
// the render loop: a latch that transitions from locked to unlocked at
// most once. The first writer wins; every later TrySet is a no-op. Safe
// for concurrent use.
type Signal struct {
	result atomic.Pointer[Result]
}

// NewSignal creates a locked signal.
func NewSignal() *Signal {
	return &Signal{}
}

// TrySet attempts the locked → unlocked transition. It reports true only
// for the one call that performed it.
func (s *Signal) TrySet(method Method, identity string) bool {
	r := &Result{Method: method, Identity: identity}
	return s.result.CompareAndSwap(nil, r)
}

// Set reports whether the signal has fired.
func (s *Signal) Set() bool {
	return s.result.Load() != nil
}

// Result returns the winning factor, if any.
func (s *Signal) Result() (Result, bool) {
	r := s.result.Load()
	if r == nil {
		return Result{}, false
	}
	return *r, true
}
