// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"
	"io/ioutil"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/xr"
	log "github.com/sirupsen/logrus"
)

type fakeBackend struct {
	name    string
	flags   window.Flags
	version Version
	fail    bool

	calls    *[]string
	cleanups int
}

func (f *fakeBackend) Name() string              { return f.name }
func (f *fakeBackend) Version() Version          { return f.version }
func (f *fakeBackend) WindowFlags() window.Flags { return f.flags }

func (f *fakeBackend) Initialize() error {
	*f.calls = append(*f.calls, "init "+f.name)
	if f.fail {
		return NewFatal(f.name, StageInstance, errors.New("broken"))
	}
	return nil
}

func (f *fakeBackend) Cleanup() error {
	f.cleanups++
	return nil
}

type fakeWindow struct {
	calls   *[]string
	failFor window.Flags
	open    bool
	flags   window.Flags
}

func (w *fakeWindow) Valid() bool                                   { return w.open }
func (w *fakeWindow) Window() interface{}                           { return w }
func (w *fakeWindow) Resolution() (int, int, error)                 { return 800, 600, nil }
func (w *fakeWindow) PollEvent() (window.Event, bool)               { return window.Event{}, false }
func (w *fakeWindow) RequiredInstanceExtensions() ([]string, error) { return nil, nil }

func (w *fakeWindow) CreateWindow(width, height int, flags window.Flags) error {
	*w.calls = append(*w.calls, "window")
	if w.open {
		return window.ErrWindowExists
	}
	if w.failFor != 0 && flags&w.failFor != 0 {
		return errors.New("no such window type")
	}
	w.open = true
	w.flags = flags
	return nil
}

func (w *fakeWindow) DestroyWindow() error {
	*w.calls = append(*w.calls, "destroy")
	w.open = false
	return nil
}

func (w *fakeWindow) CreatePresentationSurface(instance interface{}) (interface{}, error) {
	return nil, window.ErrNoWindow
}

func quietLogger() log.FieldLogger {
	l := log.New()
	l.Out = ioutil.Discard
	return l
}

func TestSelectionOrder(t *testing.T) {
	names := []string{"Vulkan", "OpenGL", "Metal"}
	for _, tc := range []struct {
		preferred string
		want      []int
	}{
		{"", []int{0, 1, 2}},
		{"Metal", []int{2, 0, 1}},
		{"opengl", []int{1, 0, 2}},
		{"Vulkan", []int{0, 1, 2}},
		{"Direct3D", []int{0, 1, 2}},
	} {
		t.Run(tc.preferred, func(t *testing.T) {
			qt.Assert(t, SelectionOrder(tc.preferred, names), qt.DeepEquals, tc.want)
		})
	}
	qt.Assert(t, SelectionOrder("Vulkan", nil), qt.HasLen, 0)
}

func newFakes(calls *[]string, failing ...bool) []Backend {
	names := []string{"Vulkan", "OpenGL", "Metal"}
	flags := []window.Flags{window.FlagVulkan, window.FlagOpenGL, window.FlagMetal}
	var backends []Backend
	for i := range failing {
		backends = append(backends, &fakeBackend{
			name:    names[i],
			flags:   flags[i],
			version: Version{1, uint32(i), 0},
			fail:    failing[i],
			calls:   calls,
		})
	}
	return backends
}

func TestSelectPreferred(t *testing.T) {
	c := qt.New(t)
	var calls []string
	win := &fakeWindow{calls: &calls}
	m := NewManager(ManagerConfiguration{WindowWidth: 800, WindowHeight: 600}, win, xr.None{}, quietLogger(), newFakes(&calls, false, false))

	c.Assert(m.Select("OpenGL"), qt.IsNil)
	c.Assert(m.ActiveName(), qt.Equals, "OpenGL")
	c.Assert(calls, qt.DeepEquals, []string{"window", "init OpenGL"})
	c.Assert(win.flags&window.FlagOpenGL, qt.Not(qt.Equals), window.Flags(0))
}

func TestSelectFallsBackAndDestroysWindow(t *testing.T) {
	c := qt.New(t)
	var calls []string
	win := &fakeWindow{calls: &calls}
	m := NewManager(ManagerConfiguration{DesktopWindow: true}, win, nil, quietLogger(), newFakes(&calls, true, false, false))

	c.Assert(m.Select(""), qt.IsNil)
	c.Assert(m.ActiveName(), qt.Equals, "OpenGL")
	c.Assert(calls, qt.DeepEquals, []string{
		"window", "init Vulkan", "destroy",
		"window", "init OpenGL",
	})
	c.Assert(win.open, qt.IsTrue)
}

func TestSelectFallsBackWithValidXR(t *testing.T) {
	c := qt.New(t)
	var calls []string
	win := &fakeWindow{calls: &calls}
	rt := &xr.Static{Enabled: true}
	m := NewManager(ManagerConfiguration{DesktopWindow: true}, win, rt, quietLogger(), newFakes(&calls, true, false))

	c.Assert(m.Select(""), qt.IsNil)
	c.Assert(m.ActiveName(), qt.Equals, "OpenGL")
	c.Assert(calls, qt.DeepEquals, []string{
		"window", "init Vulkan", "destroy",
		"window", "init OpenGL",
	})
	c.Assert(win.open, qt.IsTrue)
	c.Assert(win.flags&window.FlagOpenGL, qt.Not(qt.Equals), window.Flags(0))
}

func TestSelectWithoutWindowingSystem(t *testing.T) {
	c := qt.New(t)
	var calls []string
	m := NewManager(ManagerConfiguration{}, nil, nil, quietLogger(), newFakes(&calls, false, false))

	c.Assert(m.Select(""), qt.ErrorIs, ErrNoBackend)
	c.Assert(calls, qt.HasLen, 0)
	c.Assert(m.Active(), qt.IsNil)

	// with XR and no desktop window the window is never touched
	m = NewManager(ManagerConfiguration{}, nil, &xr.Static{Enabled: true}, quietLogger(), newFakes(&calls, false, false))
	c.Assert(m.Select(""), qt.IsNil)
	c.Assert(calls, qt.DeepEquals, []string{"init Vulkan"})
}

func TestSelectWithoutWindow(t *testing.T) {
	c := qt.New(t)
	var calls []string
	win := &fakeWindow{calls: &calls}
	rt := &xr.Static{Enabled: true}
	m := NewManager(ManagerConfiguration{}, win, rt, quietLogger(), newFakes(&calls, true, false))

	c.Assert(m.Select(""), qt.IsNil)
	c.Assert(calls, qt.DeepEquals, []string{"init Vulkan", "init OpenGL"})
}

func TestSelectSkipsOnWindowFailure(t *testing.T) {
	c := qt.New(t)
	var calls []string
	win := &fakeWindow{calls: &calls, failFor: window.FlagVulkan}
	m := NewManager(ManagerConfiguration{DesktopWindow: true}, win, xr.None{}, quietLogger(), newFakes(&calls, false, false))

	c.Assert(m.Select("Vulkan"), qt.IsNil)
	c.Assert(m.ActiveName(), qt.Equals, "OpenGL")
	c.Assert(calls, qt.DeepEquals, []string{"window", "window", "init OpenGL"})
}

func TestSelectNoBackend(t *testing.T) {
	c := qt.New(t)
	var calls []string
	win := &fakeWindow{calls: &calls}
	m := NewManager(ManagerConfiguration{}, win, xr.None{}, quietLogger(), newFakes(&calls, true, true, true))

	c.Assert(m.Select("Metal"), qt.ErrorIs, ErrNoBackend)
	c.Assert(m.Active(), qt.IsNil)
	c.Assert(m.ActiveName(), qt.Equals, "")

	// each candidate is attempted exactly once
	inits := 0
	for _, call := range calls {
		if len(call) > 4 && call[:4] == "init" {
			inits++
		}
	}
	c.Assert(inits, qt.Equals, 3)
	c.Assert(calls[1], qt.Equals, "init Metal")
}

func TestSelectEmpty(t *testing.T) {
	var calls []string
	m := NewManager(ManagerConfiguration{}, &fakeWindow{calls: &calls}, xr.None{}, quietLogger(), nil)
	qt.Assert(t, m.Select("Vulkan"), qt.ErrorIs, ErrNoBackend)
}

func TestVersionsAndClose(t *testing.T) {
	c := qt.New(t)
	var calls []string
	backends := newFakes(&calls, false, false)
	m := NewManager(ManagerConfiguration{}, &fakeWindow{calls: &calls}, &xr.Static{Enabled: true}, quietLogger(), backends)

	c.Assert(m.Versions(), qt.DeepEquals, map[string]Version{
		"Vulkan": {1, 0, 0},
		"OpenGL": {1, 1, 0},
	})

	c.Assert(m.Select(""), qt.IsNil)
	c.Assert(m.Close(), qt.IsNil)
	c.Assert(m.Close(), qt.IsNil)
	c.Assert(m.Active(), qt.IsNil)
	for _, b := range backends {
		c.Assert(b.(*fakeBackend).cleanups, qt.Equals, 2)
	}
}

func TestRegistry(t *testing.T) {
	c := qt.New(t)

	registryMu.Lock()
	saved := registry
	registry = nil
	registryMu.Unlock()
	c.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})

	var calls []string
	factory := func(name string) Factory {
		return func(Collaborators) Backend {
			return &fakeBackend{name: name, calls: &calls}
		}
	}
	Register(Descriptor{Name: "Metal", Rank: 2}, factory("Metal"))
	Register(Descriptor{Name: "Vulkan", Rank: 0}, factory("Vulkan"))
	Register(Descriptor{Name: "OpenGL", Rank: 1}, factory("OpenGL"))
	Register(Descriptor{Name: "OpenGL", Rank: 1, WindowFlags: window.FlagOpenGL}, factory("OpenGL"))

	descs := Registered()
	c.Assert(descs, qt.HasLen, 3)
	c.Assert(descs[0].Name, qt.Equals, "Vulkan")
	c.Assert(descs[1].WindowFlags, qt.Equals, window.FlagOpenGL)

	backends := NewBackends(Collaborators{})
	var names []string
	for _, b := range backends {
		names = append(names, b.Name())
	}
	c.Assert(names, qt.DeepEquals, []string{"Vulkan", "OpenGL", "Metal"})
}
