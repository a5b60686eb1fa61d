// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"
	"fmt"
)

// package errors
var (
	ErrNoBackend      = errors.New("gfx: no graphics backend could be initialised")
	ErrNoDevice       = errors.New("gfx: no physical device available")
	ErrNoQueueFamily  = errors.New("gfx: no suitable queue family")
	ErrNoWindow       = errors.New("gfx: backend requires a window")
	ErrNotInitialised = errors.New("gfx: backend not initialised")
)

// Severity tells whether a failed stage aborts the bring-up attempt.
type Severity int

// Failure classes
const (
	// Recoverable failures are logged and replaced with a default.
	Recoverable Severity = iota
	// Fatal failures abort the attempt after a full rollback.
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// Stage identifies a step of a backend bring-up.
type Stage int

// Bring-up stages, in execution order
const (
	StageXRRequirements Stage = iota
	StageWindowRequirements
	StageInstance
	StageEnumerateDevices
	StageSelectDevice
	StageSurface
	StageQueueFamilies
	StageQueueSelection
	StageDevice
	StageQueues
	StageSwapchain
	StageImageViews
	StageContext
)

var stageNames = [...]string{
	StageXRRequirements:     "xr requirements",
	StageWindowRequirements: "window requirements",
	StageInstance:           "instance",
	StageEnumerateDevices:   "device enumeration",
	StageSelectDevice:       "device selection",
	StageSurface:            "surface",
	StageQueueFamilies:      "queue families",
	StageQueueSelection:     "queue selection",
	StageDevice:             "logical device",
	StageQueues:             "queues",
	StageSwapchain:          "swapchain",
	StageImageViews:         "image views",
	StageContext:            "context",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError is the failure of one bring-up stage.
type StageError struct {
	Backend  string
	Stage    Stage
	Severity Severity
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", e.Backend, e.Stage, e.Severity, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewFatal creates a fatal StageError.
func NewFatal(backend string, stage Stage, err error) *StageError {
	return &StageError{Backend: backend, Stage: stage, Severity: Fatal, Err: err}
}

// NewRecoverable creates a recoverable StageError.
func NewRecoverable(backend string, stage Stage, err error) *StageError {
	return &StageError{Backend: backend, Stage: stage, Severity: Recoverable, Err: err}
}

// IsFatal reports whether err carries a fatal StageError.
func IsFatal(err error) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Severity == Fatal
	}
	return false
}
