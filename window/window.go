// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window defines what the graphics backends need from
// the windowing system. The window and its event loop are owned
// by the implementation, backends only borrow it.
package window

import "errors"

// package errors
var (
	ErrNoWindow     = errors.New("window: no window")
	ErrWindowExists = errors.New("window: window already exists")
)

// Flags are window creation flags. Values match SDL_WindowFlags
// so they can be handed to SDL unchanged.
type Flags uint32

// Window creation flags
const (
	FlagFullscreen Flags = 0x00000001
	FlagOpenGL     Flags = 0x00000002
	FlagShown      Flags = 0x00000004
	FlagHidden     Flags = 0x00000008
	FlagBorderless Flags = 0x00000010
	FlagResizable  Flags = 0x00000020
	FlagHighDPI    Flags = 0x00002000
	FlagVulkan     Flags = 0x10000000
	FlagMetal      Flags = 0x20000000
)

// EventType identifies the kind of a polled event.
type EventType int

// Event types the application reacts to
const (
	EventOther EventType = iota
	EventQuit
	EventKeyDown
	EventResized
)

// Key codes carried in keyboard events
const (
	KeyEscape = 27
)

// Event is a polled windowing event.
type Event struct {
	Type EventType
	Key  int

	// Raw is the native event.
	Raw interface{}
}

// Window is the windowing collaborator. It owns at most one window.
type Window interface {
	// Valid reports whether a window currently exists.
	Valid() bool

	// Window returns the native window, or nil.
	Window() interface{}

	// Resolution returns the current window size in pixels.
	Resolution() (width, height int, err error)

	// CreateWindow creates the window. Fails with ErrWindowExists
	// when one is already present.
	CreateWindow(width, height int, flags Flags) error

	// DestroyWindow destroys the window if present.
	DestroyWindow() error

	// PollEvent returns the next pending event, if any.
	PollEvent() (Event, bool)

	// RequiredInstanceExtensions lists graphics API instance
	// extensions needed to present to the window.
	RequiredInstanceExtensions() ([]string, error)

	// CreatePresentationSurface binds the window to a graphics
	// API instance and returns the native surface.
	CreatePresentationSurface(instance interface{}) (interface{}, error)
}

// GLContexter is implemented by windows that can host an OpenGL context.
type GLContexter interface {
	CreateGLContext() (interface{}, error)
	DeleteGLContext(ctx interface{})
}
