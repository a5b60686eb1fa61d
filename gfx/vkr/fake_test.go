// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/koru3d/koruxr/device"
	"github.com/koru3d/koruxr/window"
	log "github.com/sirupsen/logrus"
)

type handle string

// fakeDriver records every create and destroy call and
// keeps track of what is still alive.
type fakeDriver struct {
	devices  []device.PhysicalDeviceInfo
	families map[handle][]device.QueueFamilyInfo

	// present support per family index
	present map[uint32]bool

	caps    SurfaceCapabilities
	formats []SurfaceFormat
	modes   []PresentMode
	images  int

	instanceVersion    uint32
	instanceVersionErr error

	failInstance  bool
	failDevice    bool
	failSwapchain bool
	failViewAt    int

	instanceInfo  InstanceInfo
	deviceInfo    DeviceInfo
	swapchainInfo SwapchainInfo

	calls []string
	alive map[string]int
}

func newFakeDriver(devices ...string) *fakeDriver {
	d := &fakeDriver{
		families: make(map[handle][]device.QueueFamilyInfo),
		present:  make(map[uint32]bool),
		alive:    make(map[string]int),
		caps: SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  Extent2D{800, 600},
			MinImageExtent: Extent2D{1, 1},
			MaxImageExtent: Extent2D{4096, 4096},
		},
		formats:    []SurfaceFormat{{FormatB8G8R8A8Unorm, ColorSpaceSrgbNonlinear}},
		modes:      []PresentMode{PresentModeFifo},
		images:     3,
		failViewAt: -1,
	}
	for i, name := range devices {
		d.devices = append(d.devices, device.PhysicalDeviceInfo{
			Handle:     handle(name),
			ID:         i,
			Name:       name,
			Type:       device.TypeDiscreteGPU,
			APIVersion: 1<<22 | 2<<12 | 131,
		})
		d.families[handle(name)] = []device.QueueFamilyInfo{
			{Index: 0, Flags: device.QueueGraphics | device.QueueCompute | device.QueueTransfer, Count: 16},
			{Index: 1, Flags: device.QueueCompute | device.QueueTransfer, Count: 2},
			{Index: 2, Flags: device.QueueTransfer, Count: 1},
		}
	}
	return d
}

func (d *fakeDriver) acquire(kind string) {
	d.calls = append(d.calls, "create "+kind)
	d.alive[kind]++
}

func (d *fakeDriver) release(kind string) {
	d.calls = append(d.calls, "destroy "+kind)
	d.alive[kind]--
}

func (d *fakeDriver) live() int {
	n := 0
	for _, count := range d.alive {
		n += count
	}
	return n
}

func (d *fakeDriver) InstanceVersion() (uint32, error) {
	return d.instanceVersion, d.instanceVersionErr
}

func (d *fakeDriver) CreateInstance(info InstanceInfo) (interface{}, error) {
	d.instanceInfo = info
	if d.failInstance {
		return nil, errors.New("vk.CreateInstance(): VK_ERROR_INCOMPATIBLE_DRIVER")
	}
	d.acquire("instance")
	return handle("instance"), nil
}

func (d *fakeDriver) DestroyInstance(instance interface{}) { d.release("instance") }

func (d *fakeDriver) PhysicalDevices(instance interface{}) ([]device.PhysicalDeviceInfo, error) {
	return d.devices, nil
}

func (d *fakeDriver) QueueFamilies(physical interface{}) []device.QueueFamilyInfo {
	return d.families[physical.(handle)]
}

func (d *fakeDriver) ImportSurface(native interface{}) (interface{}, error) {
	d.acquire("surface")
	return handle("surface"), nil
}

func (d *fakeDriver) DestroySurface(instance, surface interface{}) { d.release("surface") }

func (d *fakeDriver) SurfaceSupport(physical interface{}, family uint32, surface interface{}) (bool, error) {
	return d.present[family], nil
}

func (d *fakeDriver) CreateDevice(physical interface{}, info DeviceInfo) (interface{}, error) {
	d.deviceInfo = info
	if d.failDevice {
		return nil, errors.New("vk.CreateDevice(): VK_ERROR_EXTENSION_NOT_PRESENT")
	}
	d.acquire("device")
	return handle("device"), nil
}

func (d *fakeDriver) DestroyDevice(dev interface{}) { d.release("device") }

func (d *fakeDriver) DeviceQueue(dev interface{}, family uint32) interface{} {
	return handle(fmt.Sprintf("queue%d", family))
}

func (d *fakeDriver) SurfaceCapabilities(physical, surface interface{}) (SurfaceCapabilities, error) {
	return d.caps, nil
}

func (d *fakeDriver) SurfaceFormats(physical, surface interface{}) ([]SurfaceFormat, error) {
	return d.formats, nil
}

func (d *fakeDriver) SurfacePresentModes(physical, surface interface{}) ([]PresentMode, error) {
	return d.modes, nil
}

func (d *fakeDriver) CreateSwapchain(dev interface{}, info SwapchainInfo) (interface{}, error) {
	d.swapchainInfo = info
	if d.failSwapchain {
		return nil, errors.New("vk.CreateSwapchain(): VK_ERROR_SURFACE_LOST_KHR")
	}
	d.acquire("swapchain")
	return handle("swapchain"), nil
}

func (d *fakeDriver) DestroySwapchain(dev, swapchain interface{}) { d.release("swapchain") }

func (d *fakeDriver) SwapchainImages(dev, swapchain interface{}) ([]interface{}, error) {
	images := make([]interface{}, d.images)
	for i := range images {
		images[i] = handle(fmt.Sprintf("image%d", i))
	}
	return images, nil
}

func (d *fakeDriver) CreateImageView(dev interface{}, info ImageViewInfo) (interface{}, error) {
	if d.failViewAt >= 0 && info.Image == handle(fmt.Sprintf("image%d", d.failViewAt)) {
		return nil, errors.New("vk.CreateImageView(): VK_ERROR_OUT_OF_DEVICE_MEMORY")
	}
	d.acquire("view")
	return handle("view"), nil
}

func (d *fakeDriver) DestroyImageView(dev, view interface{}) { d.release("view") }

type fakeWindow struct {
	open       bool
	width      int
	height     int
	extensions []string
}

func (w *fakeWindow) Valid() bool                                   { return w.open }
func (w *fakeWindow) Window() interface{}                           { return w }
func (w *fakeWindow) Resolution() (int, int, error)                 { return w.width, w.height, nil }
func (w *fakeWindow) PollEvent() (window.Event, bool)               { return window.Event{}, false }
func (w *fakeWindow) RequiredInstanceExtensions() ([]string, error) { return w.extensions, nil }

func (w *fakeWindow) CreateWindow(int, int, window.Flags) error {
	w.open = true
	return nil
}

func (w *fakeWindow) DestroyWindow() error {
	w.open = false
	return nil
}

func (w *fakeWindow) CreatePresentationSurface(instance interface{}) (interface{}, error) {
	if !w.open {
		return nil, window.ErrNoWindow
	}
	return "native surface", nil
}

func quietLogger() log.FieldLogger {
	l := log.New()
	l.Out = ioutil.Discard
	return l
}
