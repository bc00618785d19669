package face

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strconv"
	"time"
)

// helperName is the external camera helper on PATH. It owns frame capture
// and descriptor extraction; this process never touches the camera driver
// directly.
const helperName = "face-lock-camera"

var ErrNoCamera = errors.New("camera helper not available")

// Frame is an opaque captured camera frame, passed back to the helper for
// descriptor extraction.
type Frame []byte

// Sensor is the camera seam the face worker polls. A Sensor is owned by
// exactly one worker for the duration of its run.
type Sensor interface {
	// Open acquires the camera. An error means the factor is absent for
	// this session, not a failure worth surfacing.
	Open() error

	// Capture grabs one frame. ok is false when no frame was available
	// this iteration, which is a normal outcome.
	Capture() (frame Frame, ok bool)

	// Describe extracts face descriptors from a frame. An empty result
	// means no face was detected this iteration.
	Describe(frame Frame) []Descriptor

	// Close releases the camera. Must be called before the worker's
	// goroutine ends so a session launch never races the device.
	Close()
}

// helperSensor shells out to the face-lock-camera helper per call.
type helperSensor struct {
	path    string
	index   int
	timeout time.Duration
}

// NewSensor returns a Sensor backed by the external camera helper for the
// given camera index.
func NewSensor(cameraIndex int) Sensor {
	return &helperSensor{
		index:   cameraIndex,
		timeout: 5 * time.Second,
	}
}

func (h *helperSensor) Open() error {
	path, err := exec.LookPath(helperName)
	if err != nil {
		return ErrNoCamera
	}
	h.path = path

	// One probe capture confirms the device opens before the worker
	// commits to its polling loop.
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := exec.CommandContext(ctx, h.path, "probe", "--index", strconv.Itoa(h.index)).Run(); err != nil {
		return ErrNoCamera
	}
	return nil
}

func (h *helperSensor) Capture() (Frame, bool) {
	if h.path == "" {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, h.path, "capture", "--index", strconv.Itoa(h.index)).Output()
	if err != nil || len(out) == 0 {
		return nil, false
	}
	return Frame(out), true
}

func (h *helperSensor) Describe(frame Frame) []Descriptor {
	if h.path == "" || len(frame) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.path, "describe")
	cmd.Stdin = bytes.NewReader(frame)
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	var descs []Descriptor
	if err := json.Unmarshal(out, &descs); err != nil {
		return nil
	}
	return descs
}

func (h *helperSensor) Close() {
	// The helper holds the device only per invocation; nothing to release
	// between calls.
	h.path = ""
}
