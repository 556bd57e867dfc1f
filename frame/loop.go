// Package frame drives one iteration of the render loop: wait for the
// previous frame, acquire a presentable image, record, submit, present.
//
// The design targets exactly one frame in flight. A single in-flight fence is
// the only backpressure between CPU and GPU: the CPU blocks on it before
// touching the command buffer again, so at most one frame's commands are ever
// executing. GPU-side ordering is carried entirely by the two semaphores the
// backend owns (image-available gates the color-output stage of rendering,
// render-finished gates presentation); the CPU never waits on them.
package frame

import "github.com/cockroachdb/errors"

// Backend is the slice of the graphics stack that one frame iteration drives.
// Implementations own the swapchain, the queues, the command buffer, and the
// semaphore/fence triad; Loop only fixes the ordering between the phases.
type Backend interface {
	// WaitForFrame blocks until the previously submitted frame's commands
	// have completed on the GPU. The in-flight fence must be created
	// signaled so the very first wait returns immediately.
	WaitForFrame() error

	// ResetFrame returns the in-flight fence to the unsignaled state.
	ResetFrame() error

	// AcquireImage requests the next presentable image slot, arranging for
	// the image-available semaphore to signal once the slot is usable. It
	// blocks without timeout, which is acceptable only because a single
	// frame is in flight.
	AcquireImage() (int, error)

	// RecordCommands resets and re-records the command buffer against the
	// framebuffer for the acquired slot. The before-reset fence wait in
	// WaitForFrame is what makes the reset legal.
	RecordCommands(imageIndex int) error

	// SubmitCommands enqueues the recorded work on the graphics queue,
	// waiting on the image-available semaphore at the color-attachment
	// output stage and signaling both the render-finished semaphore and
	// the in-flight fence on completion.
	SubmitCommands(imageIndex int) error

	// PresentImage enqueues presentation of the slot on the present queue,
	// waiting on the render-finished semaphore first.
	PresentImage(imageIndex int) error
}

// Loop sequences frame iterations over a Backend.
type Loop struct {
	backend Backend
}

func NewLoop(backend Backend) *Loop {
	return &Loop{backend: backend}
}

// DrawFrame runs one wait/acquire/record/submit/present cycle. Any phase
// failure aborts the frame and is fatal to the caller; there is no recovery
// path for an incompatible surface here.
func (l *Loop) DrawFrame() error {
	err := l.backend.WaitForFrame()
	if err != nil {
		return errors.Wrap(err, "wait for previous frame")
	}

	err = l.backend.ResetFrame()
	if err != nil {
		return errors.Wrap(err, "reset in-flight fence")
	}

	imageIndex, err := l.backend.AcquireImage()
	if err != nil {
		return errors.Wrap(err, "acquire swapchain image")
	}

	err = l.backend.RecordCommands(imageIndex)
	if err != nil {
		return errors.Wrapf(err, "record commands for image %d", imageIndex)
	}

	err = l.backend.SubmitCommands(imageIndex)
	if err != nil {
		return errors.Wrapf(err, "submit commands for image %d", imageIndex)
	}

	err = l.backend.PresentImage(imageIndex)
	if err != nil {
		return errors.Wrapf(err, "present image %d", imageIndex)
	}

	return nil
}
