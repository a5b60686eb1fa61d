// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkdrv

import (
	"github.com/koru3d/koruxr/device"
	"github.com/koru3d/koruxr/gfx/vkr"
)

// DeviceReport is a physical device together with its queue families.
type DeviceReport struct {
	device.PhysicalDeviceInfo
	QueueFamilies []device.QueueFamilyInfo `json:"queueFamilies"`
}

// Inventory creates a throwaway instance and describes every
// physical device it can see.
func Inventory(drv vkr.Driver, info vkr.InstanceInfo) ([]DeviceReport, error) {
	instance, err := drv.CreateInstance(info)
	if err != nil {
		return nil, err
	}
	defer drv.DestroyInstance(instance)

	devices, err := drv.PhysicalDevices(instance)
	if err != nil {
		return nil, err
	}

	reports := make([]DeviceReport, len(devices))
	for i, d := range devices {
		reports[i] = DeviceReport{
			PhysicalDeviceInfo: d,
			QueueFamilies:      drv.QueueFamilies(d.Handle),
		}
	}
	return reports, nil
}
