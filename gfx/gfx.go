// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines the graphics backends and selects the one that
// gets used. Backends are compiled in with build tags and register
// themselves, the Manager brings up the first one that works.
package gfx

import (
	"sort"
	"sync"

	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/xr"
	log "github.com/sirupsen/logrus"
)

// Backend is one graphics API implementation.
// Initialize must leave nothing allocated when it fails, and
// Cleanup must be safe to call any number of times.
type Backend interface {
	// Name returns the backend identifier, e.g. "Vulkan".
	Name() string

	// Initialize brings the backend up. On failure the returned
	// error is a *StageError and everything built has been released.
	Initialize() error

	// Version returns the runtime version of the underlying API,
	// or the zero Version if it cannot be retrieved.
	Version() Version

	// Cleanup releases everything Initialize created, in reverse order.
	Cleanup() error

	// WindowFlags returns the window flags the backend needs
	// in order to present to a window.
	WindowFlags() window.Flags
}

// Descriptor describes a compiled-in backend.
type Descriptor struct {
	Name string

	// Rank orders backends by declaration, lower comes first.
	Rank int

	WindowFlags window.Flags
}

// Collaborators are shared with every backend. They must
// outlive the backends created from them.
type Collaborators struct {
	Window  window.Window
	Runtime xr.Runtime
	Log     log.FieldLogger

	// Debug enables API validation where supported.
	Debug bool
}

// Factory creates a backend that is not yet initialised.
type Factory func(Collaborators) Backend

type registration struct {
	desc    Descriptor
	factory Factory
}

// Variables used for backend registration.
var (
	registryMu sync.Mutex
	registry   []registration
)

// Register registers a backend. Backends call it exactly once, from init.
// A backend with the same name replaces the earlier registration.
func Register(desc Descriptor, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for i := range registry {
		if registry[i].desc.Name == desc.Name {
			registry[i] = registration{desc, factory}
			return
		}
	}
	registry = append(registry, registration{desc, factory})
}

// Registered returns the descriptors of compiled-in backends in declaration order.
func Registered() []Descriptor {
	regs := sortedRegistry()
	descs := make([]Descriptor, len(regs))
	for i, r := range regs {
		descs[i] = r.desc
	}
	return descs
}

// NewBackends instantiates every compiled-in backend in declaration order.
func NewBackends(c Collaborators) []Backend {
	regs := sortedRegistry()
	backends := make([]Backend, 0, len(regs))
	for _, r := range regs {
		backends = append(backends, r.factory(c))
	}
	return backends
}

func sortedRegistry() []registration {
	registryMu.Lock()
	regs := make([]registration, len(registry))
	copy(regs, registry)
	registryMu.Unlock()

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].desc.Rank < regs[j].desc.Rank
	})
	return regs
}
