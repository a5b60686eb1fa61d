// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/xr"
)

// ManagerConfiguration converts the graphics section for gfx.NewManager
func (c GraphicsConfiguration) ManagerConfiguration() gfx.ManagerConfiguration {
	flags := window.FlagShown
	if c.Resizable {
		flags |= window.FlagResizable
	}
	return gfx.ManagerConfiguration{
		DesktopWindow:    c.DesktopWindow,
		WindowWidth:      c.WindowWidth,
		WindowHeight:     c.WindowHeight,
		ExtraWindowFlags: flags,
	}
}

// Runtime returns the XR runtime described by the xr section,
// or xr.None when XR is disabled.
func (c XRConfiguration) Runtime() xr.Runtime {
	if !c.Enabled {
		return xr.None{}
	}
	return &xr.Static{
		Enabled:       true,
		MinAPIVersion: packVersion(c.MinAPIVersion),
		MaxAPIVersion: packVersion(c.MaxAPIVersion),
		InstanceExts:  xr.SplitExtensions(c.InstanceExtensions),
		DeviceExts:    xr.SplitExtensions(c.DeviceExtensions),
	}
}

func packVersion(s string) uint32 {
	v := gfx.ParseVersion(s)
	return gfx.PackVersion(v.Major, v.Minor, v.Patch)
}
