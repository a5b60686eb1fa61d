// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"fmt"

	"github.com/koru3d/koruxr/device"
)

// Driver is the native Vulkan surface the bring-up sequence is written
// against. Handles are opaque, only the driver that returned a handle
// knows what is inside of it.
type Driver interface {
	// InstanceVersion returns the packed API version the loader
	// supports. It needs no instance.
	InstanceVersion() (uint32, error)

	// CreateInstance loads the API and creates an instance.
	CreateInstance(info InstanceInfo) (interface{}, error)
	DestroyInstance(instance interface{})

	// PhysicalDevices enumerates the devices visible to the instance.
	PhysicalDevices(instance interface{}) ([]device.PhysicalDeviceInfo, error)

	// QueueFamilies returns the queue family records of a physical device,
	// indexed by family.
	QueueFamilies(physical interface{}) []device.QueueFamilyInfo

	// ImportSurface converts a surface created by the windowing
	// system into a driver surface handle.
	ImportSurface(native interface{}) (interface{}, error)
	DestroySurface(instance, surface interface{})

	// SurfaceSupport reports whether a queue family can present to the surface.
	SurfaceSupport(physical interface{}, family uint32, surface interface{}) (bool, error)

	CreateDevice(physical interface{}, info DeviceInfo) (interface{}, error)
	DestroyDevice(dev interface{})

	// DeviceQueue returns queue 0 of the given family.
	DeviceQueue(dev interface{}, family uint32) interface{}

	SurfaceCapabilities(physical, surface interface{}) (SurfaceCapabilities, error)
	SurfaceFormats(physical, surface interface{}) ([]SurfaceFormat, error)
	SurfacePresentModes(physical, surface interface{}) ([]PresentMode, error)

	CreateSwapchain(dev interface{}, info SwapchainInfo) (interface{}, error)
	DestroySwapchain(dev, swapchain interface{})
	SwapchainImages(dev, swapchain interface{}) ([]interface{}, error)

	CreateImageView(dev interface{}, info ImageViewInfo) (interface{}, error)
	DestroyImageView(dev, view interface{})
}

// InstanceInfo describes an instance to create.
type InstanceInfo struct {
	ApplicationName string
	EngineName      string

	// APIVersion is the packed API version to request.
	APIVersion uint32

	Extensions []string
	Layers     []string
}

// DeviceInfo describes a logical device to create. One queue
// is requested from every listed family at priority 1.0.
type DeviceInfo struct {
	QueueFamilies []uint32
	Extensions    []string
}

// SwapchainInfo describes a swapchain to create. The swapchain
// always uses exclusive sharing, opaque composite alpha, color
// attachment usage, a single array layer and clipping.
type SwapchainInfo struct {
	Surface     interface{}
	ImageCount  uint32
	Format      Format
	ColorSpace  ColorSpace
	Extent      Extent2D
	PresentMode PresentMode
	Transform   uint32
}

// ImageViewInfo describes a 2-D color view with identity swizzle.
type ImageViewInfo struct {
	Image  interface{}
	Format Format
}

// Format is a VkFormat value.
type Format int32

// Formats the backend cares about
const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "UNDEFINED"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8Srgb:
		return "R8G8B8A8_SRGB"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8_UNORM"
	case FormatB8G8R8A8Srgb:
		return "B8G8R8A8_SRGB"
	}
	return fmt.Sprintf("FORMAT(%d)", int32(f))
}

// ColorSpace is a VkColorSpaceKHR value.
type ColorSpace int32

// ColorSpaceSrgbNonlinear is the only color space every surface supports.
const ColorSpaceSrgbNonlinear ColorSpace = 0

// PresentMode is a VkPresentModeKHR value.
type PresentMode int32

// Present modes
const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (p PresentMode) String() string {
	switch p {
	case PresentModeImmediate:
		return "IMMEDIATE"
	case PresentModeMailbox:
		return "MAILBOX"
	case PresentModeFifo:
		return "FIFO"
	case PresentModeFifoRelaxed:
		return "FIFO_RELAXED"
	}
	return fmt.Sprintf("PRESENT_MODE(%d)", int32(p))
}

// SurfaceFormat is a format and color space pair supported by a surface.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// Extent2D is a size in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// SurfaceCapabilities are the surface limits relevant to swapchain creation.
type SurfaceCapabilities struct {
	MinImageCount    uint32
	MaxImageCount    uint32
	CurrentExtent    Extent2D
	MinImageExtent   Extent2D
	MaxImageExtent   Extent2D
	CurrentTransform uint32
}
