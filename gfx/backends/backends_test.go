// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !novulkan && !noopengl
// +build !novulkan,!noopengl

package backends

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/window"
)

func TestDeclarationOrder(t *testing.T) {
	c := qt.New(t)
	names := Names()
	c.Assert(len(names) >= 2, qt.IsTrue)
	c.Assert(names[:2], qt.DeepEquals, []string{"Vulkan", "OpenGL"})

	descs := gfx.Registered()
	c.Assert(descs[0].WindowFlags, qt.Equals, window.FlagVulkan)
	c.Assert(descs[1].WindowFlags, qt.Equals, window.FlagOpenGL)
}

func TestBackendsAreNotInitialised(t *testing.T) {
	c := qt.New(t)
	backends := gfx.NewBackends(gfx.Collaborators{})
	c.Assert(len(backends) >= 2, qt.IsTrue)
	for _, b := range backends {
		c.Assert(b.Name(), qt.Not(qt.Equals), "")
		c.Assert(b.Cleanup(), qt.IsNil, qt.Commentf("%s", b.Name()))
	}
}
