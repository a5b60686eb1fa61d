// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/xr"
)

func TestManagerConfiguration(t *testing.T) {
	c := qt.New(t)
	cfg := GraphicsConfiguration{DesktopWindow: true, WindowWidth: 640, WindowHeight: 480, Resizable: true}
	c.Assert(cfg.ManagerConfiguration(), qt.Equals, gfx.ManagerConfiguration{
		DesktopWindow:    true,
		WindowWidth:      640,
		WindowHeight:     480,
		ExtraWindowFlags: window.FlagShown | window.FlagResizable,
	})
}

func TestRuntime(t *testing.T) {
	c := qt.New(t)
	rt := XRConfiguration{}.Runtime()
	c.Assert(rt.Valid(), qt.IsFalse)

	rt = XRConfiguration{
		Enabled:            true,
		InstanceExtensions: "VK_KHR_a VK_KHR_b",
		DeviceExtensions:   "VK_KHR_c",
		MinAPIVersion:      "1.0.0",
		MaxAPIVersion:      "1.2",
	}.Runtime()
	c.Assert(rt.Valid(), qt.IsTrue)

	min, max, err := rt.APIVersionBounds()
	c.Assert(err, qt.IsNil)
	c.Assert(min, qt.Equals, gfx.PackVersion(1, 0, 0))
	c.Assert(max, qt.Equals, gfx.PackVersion(1, 2, 0))

	exts, err := rt.InstanceExtensions()
	c.Assert(err, qt.IsNil)
	c.Assert(exts, qt.DeepEquals, []string{"VK_KHR_a", "VK_KHR_b"})

	_, err = rt.RecommendedPhysicalDevice(nil)
	c.Assert(err, qt.ErrorIs, xr.ErrNoRecommendation)
}
