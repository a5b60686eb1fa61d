// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package sdlwin implements the windowing collaborator on top of SDL2.
package sdlwin

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/koru3d/koruxr/window"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// New initialises the SDL video and event subsystems.
// The returned Manager owns no window yet.
func New(title string, logger log.FieldLogger) (*Manager, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.New("sdl.Init(): " + err.Error())
	}

	m := &Manager{
		title: title,
		log:   logger.WithField("component", "sdl"),
	}
	m.logVersion()
	m.logVideoDrivers()
	return m, nil
}

// Manager owns the SDL window.
type Manager struct {
	title  string
	log    log.FieldLogger
	window *sdl.Window
	vulkan bool
}

var _ window.Window = (*Manager)(nil)
var _ window.GLContexter = (*Manager)(nil)

func (m *Manager) logVersion() {
	var compiled, linked sdl.Version
	sdl.VERSION(&compiled)
	sdl.GetVersion(&linked)
	m.log.WithFields(log.Fields{
		"compiled": fmt.Sprintf("%d.%d.%d", compiled.Major, compiled.Minor, compiled.Patch),
		"linked":   fmt.Sprintf("%d.%d.%d", linked.Major, linked.Minor, linked.Patch),
	}).Debug("SDL version")
}

func (m *Manager) logVideoDrivers() {
	count, err := sdl.GetNumVideoDrivers()
	if err != nil {
		m.log.WithError(err).Warn("Failed to get video driver count")
		return
	}
	drivers := make([]string, 0, count)
	for i := 0; i < count; i++ {
		drivers = append(drivers, sdl.GetVideoDriver(i))
	}
	m.log.WithField("drivers", drivers).Debug("SDL video drivers")
}

// LoadVulkan loads the Vulkan loader library through SDL and returns
// the vkGetInstanceProcAddr pointer for the Vulkan bindings.
func (m *Manager) LoadVulkan() (unsafe.Pointer, error) {
	if m.vulkan {
		return sdl.VulkanGetVkGetInstanceProcAddr(), nil
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return nil, errors.New("sdl.VulkanLoadLibrary(): " + err.Error())
	}
	m.vulkan = true
	return sdl.VulkanGetVkGetInstanceProcAddr(), nil
}

// Valid implements interface
func (m *Manager) Valid() bool {
	return m.window != nil
}

// Window implements interface
func (m *Manager) Window() interface{} {
	if m.window == nil {
		return nil
	}
	return m.window
}

// Resolution implements interface
func (m *Manager) Resolution() (int, int, error) {
	if m.window == nil {
		return 0, 0, window.ErrNoWindow
	}
	w, h := m.window.GetSize()
	return int(w), int(h), nil
}

// CreateWindow implements interface
func (m *Manager) CreateWindow(width, height int, flags window.Flags) error {
	if m.window != nil {
		return window.ErrWindowExists
	}
	w, err := sdl.CreateWindow(m.title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width),
		int32(height),
		uint32(flags))
	if err != nil {
		return errors.New("sdl.CreateWindow(): " + err.Error())
	}
	m.window = w
	m.log.WithFields(log.Fields{
		"width":  width,
		"height": height,
		"flags":  fmt.Sprintf("0x%08x", uint32(flags)),
	}).Info("Window created")
	return nil
}

// DestroyWindow implements interface
func (m *Manager) DestroyWindow() error {
	if m.window == nil {
		return nil
	}
	err := m.window.Destroy()
	m.window = nil
	if err != nil {
		return errors.New("sdl.DestroyWindow(): " + err.Error())
	}
	m.log.Info("Window destroyed")
	return nil
}

// PollEvent implements interface
func (m *Manager) PollEvent() (window.Event, bool) {
	event := sdl.PollEvent()
	if event == nil {
		return window.Event{}, false
	}

	ev := window.Event{Type: window.EventOther, Raw: event}
	switch et := event.(type) {
	case *sdl.QuitEvent:
		ev.Type = window.EventQuit
	case *sdl.KeyboardEvent:
		if et.Type == sdl.KEYDOWN {
			ev.Type = window.EventKeyDown
			ev.Key = int(et.Keysym.Sym)
		}
	case *sdl.WindowEvent:
		if et.Event == sdl.WINDOWEVENT_RESIZED {
			ev.Type = window.EventResized
		}
	}
	return ev, true
}

// RequiredInstanceExtensions implements interface
func (m *Manager) RequiredInstanceExtensions() ([]string, error) {
	if m.window == nil {
		return nil, window.ErrNoWindow
	}
	return m.window.VulkanGetInstanceExtensions(), nil
}

// CreatePresentationSurface implements interface.
// The returned value is an unsafe.Pointer to a VkSurfaceKHR.
func (m *Manager) CreatePresentationSurface(instance interface{}) (interface{}, error) {
	if m.window == nil {
		return nil, window.ErrNoWindow
	}
	srf, err := m.window.VulkanCreateSurface(instance)
	if err != nil {
		return nil, errors.New("sdl.VulkanCreateSurface(): " + err.Error())
	}
	return srf, nil
}

// CreateGLContext implements window.GLContexter
func (m *Manager) CreateGLContext() (interface{}, error) {
	if m.window == nil {
		return nil, window.ErrNoWindow
	}
	ctx, err := m.window.GLCreateContext()
	if err != nil {
		return nil, errors.New("sdl.GLCreateContext(): " + err.Error())
	}
	return ctx, nil
}

// DeleteGLContext implements window.GLContexter
func (m *Manager) DeleteGLContext(ctx interface{}) {
	if glctx, ok := ctx.(sdl.GLContext); ok {
		sdl.GLDeleteContext(glctx)
	}
}

// Close destroys the window, unloads Vulkan and shuts SDL down.
func (m *Manager) Close() error {
	err := m.DestroyWindow()
	if m.vulkan {
		sdl.VulkanUnloadLibrary()
		m.vulkan = false
	}
	sdl.Quit()
	return err
}
