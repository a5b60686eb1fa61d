// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"strings"

	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/xr"
	log "github.com/sirupsen/logrus"
)

// ManagerConfiguration configures backend selection.
type ManagerConfiguration struct {
	// DesktopWindow requests presentation to a desktop window.
	// It is forced on when no XR runtime is available.
	DesktopWindow bool

	WindowWidth  int
	WindowHeight int

	// ExtraWindowFlags are combined with each backend's own flags.
	ExtraWindowFlags window.Flags
}

// NewManager creates a backend manager over the given candidates,
// which are kept in declaration order. Nothing is initialised yet.
// win may be nil, in which case no candidate can be selected while a
// desktop window is requested.
func NewManager(cfg ManagerConfiguration, win window.Window, rt xr.Runtime, logger log.FieldLogger, candidates []Backend) *Manager {
	if rt == nil {
		rt = xr.None{}
	}
	m := &Manager{
		configuration: cfg,
		window:        win,
		runtime:       rt,
		log:           logger.WithField("component", "graphics"),
		candidates:    candidates,
	}

	if !m.configuration.DesktopWindow && !rt.Valid() {
		m.configuration.DesktopWindow = true
		m.log.Warn("XR runtime not valid, falling back to a desktop window")
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name()
	}
	if len(candidates) == 0 {
		m.log.Error("No graphics backends compiled in")
	} else {
		m.log.WithField("backends", names).Info("Graphics backends linked")
	}
	return m
}

// Manager selects and owns the active graphics backend.
type Manager struct {
	configuration ManagerConfiguration

	window  window.Window
	runtime xr.Runtime
	log     log.FieldLogger

	candidates []Backend
	active     Backend
}

// SelectionOrder returns candidate indices in the order they should be
// tried: the preferred name first if it is present, then the rest in
// declaration order. Names are compared case-insensitively.
func SelectionOrder(preferred string, names []string) []int {
	order := make([]int, 0, len(names))
	pref := -1
	if preferred != "" {
		for i, n := range names {
			if strings.EqualFold(n, preferred) {
				pref = i
				break
			}
		}
	}
	if pref >= 0 {
		order = append(order, pref)
	}
	for i := range names {
		if i != pref {
			order = append(order, i)
		}
	}
	return order
}

// Versions returns the runtime version reported by every candidate.
func (m *Manager) Versions() map[string]Version {
	versions := make(map[string]Version, len(m.candidates))
	for _, c := range m.candidates {
		versions[c.Name()] = c.Version()
	}
	return versions
}

// Select tries candidates in selection order until one initialises.
// Each candidate is tried at most once. A window created for a failed
// candidate is destroyed before the next one is tried, so the next
// candidate gets a window with its own flags. When none succeeds
// ErrNoBackend is returned and there is no active backend.
func (m *Manager) Select(preferred string) error {
	names := make([]string, len(m.candidates))
	for i, c := range m.candidates {
		names[i] = c.Name()
	}

	order := SelectionOrder(preferred, names)
	if preferred != "" && (len(order) == 0 || !strings.EqualFold(names[order[0]], preferred)) {
		m.log.WithField("preferred", preferred).Warn("Preferred graphics backend is not compiled in")
	}

	ordered := make([]string, len(order))
	for i, idx := range order {
		ordered[i] = names[idx]
	}
	m.log.WithField("order", ordered).Debug("Graphics backend selection order")

	for _, idx := range order {
		candidate := m.candidates[idx]
		entry := m.log.WithField("backend", candidate.Name())
		entry.Info("Attempting to select graphics backend")

		windowCreated := false
		if m.configuration.DesktopWindow {
			if m.window == nil {
				entry.WithError(ErrNoWindow).Warn("Desktop window requested without a windowing system")
				continue
			}
			flags := candidate.WindowFlags() | m.configuration.ExtraWindowFlags
			if err := m.window.CreateWindow(m.configuration.WindowWidth, m.configuration.WindowHeight, flags); err != nil {
				entry.WithError(err).Warn("Failed to create window for graphics backend")
				continue
			}
			windowCreated = true
		}

		if err := candidate.Initialize(); err != nil {
			entry.WithError(err).Warn("Failed to initialise graphics backend")
			if windowCreated {
				if err := m.window.DestroyWindow(); err != nil {
					entry.WithError(err).Warn("Failed to destroy window")
				}
			}
			continue
		}

		m.active = candidate
		entry.Info("Selected graphics backend")
		return nil
	}

	m.log.Error("Failed to select any graphics backend")
	return ErrNoBackend
}

// Active returns the active backend, or nil.
func (m *Manager) Active() Backend {
	return m.active
}

// ActiveName returns the name of the active backend, or an empty string.
func (m *Manager) ActiveName() string {
	if m.active == nil {
		return ""
	}
	return m.active.Name()
}

// Close cleans up every candidate, the active one first.
// It is safe to call more than once.
func (m *Manager) Close() error {
	var first error
	if m.active != nil {
		if err := m.active.Cleanup(); err != nil {
			first = err
		}
	}
	for _, c := range m.candidates {
		if c == m.active {
			continue
		}
		if err := c.Cleanup(); err != nil && first == nil {
			first = err
		}
	}
	m.active = nil
	return first
}
