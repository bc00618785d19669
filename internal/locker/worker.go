package locker

import (
	"context"
	"log/slog"
	"time"

	"face-lock/internal/config"
	"face-lock/internal/face"
	"face-lock/internal/fprint"
	"face-lock/internal/lock"
)

const (
	// facePollInterval bounds CPU use and bounds how long a stop request
	// can go unobserved.
	facePollInterval = 50 * time.Millisecond

	// faceCaptureBackoff is the extra delay after a failed frame capture.
	faceCaptureBackoff = 100 * time.Millisecond

	// fprintCallTimeout bounds a single fingerprint daemon call.
	fprintCallTimeout = 10 * time.Second

	// fprintRetryDelay is the pause between fingerprint attempts.
	fprintRetryDelay = time.Second
)

// notifier is the popup surface workers post one-time hints to.
type notifier interface {
	Show(text string)
}

// sleepCtx waits for d or until ctx is cancelled, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// FaceWorker polls the camera for a matching face. It races the other
// factors for the unlock signal and stops after its first win or when its
// context is cancelled. The camera and the reference database belong to
// this worker alone for the duration of its run.
type FaceWorker struct {
	cfg      config.Config
	sensor   face.Sensor
	loadDB   func() (*face.DB, error)
	signal   *lock.Signal
	popup    notifier
	identity string
	logger   *slog.Logger
	done     chan struct{}
}

// NewFaceWorker wires a face worker against the real camera helper.
// Tests swap sensor and loadDB before Start.
func NewFaceWorker(cfg config.Config, signal *lock.Signal, popup notifier, identity string, logger *slog.Logger) *FaceWorker {
	return &FaceWorker{
		cfg:      cfg,
		sensor:   face.NewSensor(cfg.CameraIndex),
		loadDB:   face.LoadDB,
		signal:   signal,
		popup:    popup,
		identity: identity,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *FaceWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Done is closed when the worker goroutine has fully ended, camera
// released.
func (w *FaceWorker) Done() <-chan struct{} {
	return w.done
}

func (w *FaceWorker) run(ctx context.Context) {
	defer close(w.done)

	if !w.cfg.EnableFace {
		return
	}

	// A camera that cannot open just means the factor is absent this
	// session. The password fallback stays available; nothing to surface.
	if err := w.sensor.Open(); err != nil {
		w.logger.Debug("face factor unavailable", "error", err)
		return
	}
	defer w.sensor.Close()

	db, err := w.loadDB()
	if err != nil {
		w.logger.Warn("loading face database", "error", err)
		return
	}
	w.logger.Debug("face worker started", "references", db.Len())

	shownEmptyHint := false
	for ctx.Err() == nil {
		if db.Empty() {
			// Keep the camera open and keep idling for responsiveness,
			// but tell the user once why nothing will ever match.
			if !shownEmptyHint {
				w.popup.Show("No known faces configured")
				shownEmptyHint = true
			}
			sleepCtx(ctx, facePollInterval)
			continue
		}

		frame, ok := w.sensor.Capture()
		if !ok {
			sleepCtx(ctx, faceCaptureBackoff)
			continue
		}

		for _, desc := range w.sensor.Describe(frame) {
			if face.MatchAny(desc, db.References(), w.cfg.Tolerance) {
				if w.signal.TrySet(lock.MethodFace, w.identity) {
					w.logger.Info("unlocked by face", "identity", w.identity)
				}
				return
			}
		}

		sleepCtx(ctx, facePollInterval)
	}
}

// FingerprintWorker repeatedly asks the fingerprint daemon to verify the
// user, each attempt bounded by its own timeout.
type FingerprintWorker struct {
	cfg      config.Config
	verify   func(ctx context.Context, username string, timeout time.Duration) bool
	signal   *lock.Signal
	popup    notifier
	identity string
	logger   *slog.Logger
	done     chan struct{}
}

// NewFingerprintWorker wires a fingerprint worker against fprintd.
// Tests swap verify before Start.
func NewFingerprintWorker(cfg config.Config, signal *lock.Signal, popup notifier, identity string, logger *slog.Logger) *FingerprintWorker {
	return &FingerprintWorker{
		cfg:      cfg,
		verify:   fprint.Verify,
		signal:   signal,
		popup:    popup,
		identity: identity,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *FingerprintWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Done is closed when the worker goroutine has fully ended.
func (w *FingerprintWorker) Done() <-chan struct{} {
	return w.done
}

func (w *FingerprintWorker) run(ctx context.Context) {
	defer close(w.done)

	if !w.cfg.EnableFingerprint {
		return
	}

	shownHint := false
	for ctx.Err() == nil {
		if w.verify(ctx, w.identity, fprintCallTimeout) {
			if w.signal.TrySet(lock.MethodFingerprint, w.identity) {
				w.logger.Info("unlocked by fingerprint", "identity", w.identity)
			}
			return
		}

		if !shownHint {
			w.popup.Show("Use fingerprint or press Space")
			shownHint = true
		}
		sleepCtx(ctx, fprintRetryDelay)
	}
}

// joinWorker blocks until done closes or timeout passes. It reports false
// for a worker that failed to stop in time; the caller proceeds anyway.
func joinWorker(done <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}
