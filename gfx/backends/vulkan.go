// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !novulkan
// +build !novulkan

package backends

import (
	"unsafe"

	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/gfx/vkr"
	"github.com/koru3d/koruxr/gfx/vkr/vkdrv"
	"github.com/koru3d/koruxr/window"
)

func init() {
	gfx.Register(gfx.Descriptor{
		Name:        vkr.Name,
		Rank:        RankVulkan,
		WindowFlags: window.FlagVulkan,
	}, newVulkan)
}

func newVulkan(c gfx.Collaborators) gfx.Backend {
	var procAddr unsafe.Pointer
	if VulkanProcAddr != nil {
		procAddr = VulkanProcAddr()
	}
	return vkr.New(&lazyDriver{procAddr: procAddr}, c)
}

// lazyDriver loads the Vulkan API on first use, so
// that linking the backend does not require a Vulkan loader.
type lazyDriver struct {
	*vkdrv.Driver
	procAddr unsafe.Pointer
}

func (d *lazyDriver) load() error {
	if d.Driver != nil {
		return nil
	}
	drv, err := vkdrv.New(d.procAddr)
	if err != nil {
		return err
	}
	d.Driver = drv
	return nil
}

func (d *lazyDriver) InstanceVersion() (uint32, error) {
	if err := d.load(); err != nil {
		return 0, err
	}
	return d.Driver.InstanceVersion()
}

func (d *lazyDriver) CreateInstance(info vkr.InstanceInfo) (interface{}, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	return d.Driver.CreateInstance(info)
}
