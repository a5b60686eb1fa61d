// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkdrv implements vkr.Driver on the native Vulkan bindings.
package vkdrv

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/koru3d/koruxr/device"
	"github.com/koru3d/koruxr/gfx/vkr"
)

// New loads the Vulkan API. procAddr is a vkGetInstanceProcAddr
// pointer, usually obtained from the windowing system. When it is nil
// the default system loader is used.
func New(procAddr unsafe.Pointer) (*Driver, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.SetDefaultGetInstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}
	return &Driver{}, nil
}

// Driver is the native Vulkan driver.
type Driver struct{}

var _ vkr.Driver = (*Driver)(nil)

// InstanceVersion implements vkr.Driver. Loaders without
// vkEnumerateInstanceVersion only support Vulkan 1.0.
func (d *Driver) InstanceVersion() (uint32, error) {
	if vk.GetInstanceProcAddr(nil, safeString("vkEnumerateInstanceVersion")) == nil {
		return vk.MakeVersion(1, 0, 0), nil
	}
	var version uint32
	if err := vk.Error(vk.EnumerateInstanceVersion(&version)); err != nil {
		return 0, errors.New("vk.EnumerateInstanceVersion(): " + err.Error())
	}
	return version, nil
}

// CreateInstance implements vkr.Driver
func (d *Driver) CreateInstance(info vkr.InstanceInfo) (interface{}, error) {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         info.APIVersion,
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(info.ApplicationName),
		PEngineName:        safeString(info.EngineName),
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)
	return instance, nil
}

// DestroyInstance implements vkr.Driver
func (d *Driver) DestroyInstance(instance interface{}) {
	vk.DestroyInstance(instance.(vk.Instance), nil)
}

// PhysicalDevices implements vkr.Driver
func (d *Driver) PhysicalDevices(instance interface{}) ([]device.PhysicalDeviceInfo, error) {
	inst := instance.(vk.Instance)

	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(inst, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vk.EnumeratePhysicalDevices(): %s", err)
	}
	physicalDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(inst, &deviceCount, physicalDevices)); err != nil {
		return nil, fmt.Errorf("vk.EnumeratePhysicalDevices(): %s", err)
	}

	pdi := make([]device.PhysicalDeviceInfo, len(physicalDevices))
	for i, pd := range physicalDevices {
		pdi[i] = describe(pd)
	}
	return pdi, nil
}

func describe(pd vk.PhysicalDevice) device.PhysicalDeviceInfo {
	info := device.PhysicalDeviceInfo{Handle: pd}

	// Get extension info
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, nil)); err != nil {
		info.Invalid = true
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, deviceExt)); err != nil {
		info.Invalid = true
	}
	for _, ext := range deviceExt {
		ext.Deref()
		info.Extensions = append(info.Extensions, vk.ToString(ext.ExtensionName[:]))
	}

	// Get layers info
	var numDeviceLayers uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, nil)); err != nil {
		info.Invalid = true
	}
	deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, deviceLayers)); err != nil {
		info.Invalid = true
	}
	for _, layer := range deviceLayers {
		layer.Deref()
		info.Layers = append(info.Layers, vk.ToString(layer.LayerName[:]))
	}

	// Get memory info
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memoryProperties)
	memoryProperties.Deref()
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		info.Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}

	// Get general device info
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &properties)
	properties.Deref()
	info.ID = int(properties.DeviceID)
	info.VendorID = int(properties.VendorID)
	info.Name = vk.ToString(properties.DeviceName[:])
	info.Type = deviceType(properties.DeviceType)
	info.APIVersion = properties.ApiVersion
	info.DriverVersion = properties.DriverVersion
	return info
}

func deviceType(t vk.PhysicalDeviceType) device.Type {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return device.TypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return device.TypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return device.TypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return device.TypeCPU
	default:
		return device.TypeOther
	}
}

// QueueFamilies implements vkr.Driver
func (d *Driver) QueueFamilies(physical interface{}) []device.QueueFamilyInfo {
	pd := physical.(vk.PhysicalDevice)

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, queueFamilies)

	families := make([]device.QueueFamilyInfo, len(queueFamilies))
	for i := range queueFamilies {
		queueFamilies[i].Deref()
		families[i] = device.QueueFamilyInfo{
			Index: uint32(i),
			Flags: device.QueueFlags(queueFamilies[i].QueueFlags),
			Count: queueFamilies[i].QueueCount,
		}
	}
	return families
}

// ImportSurface implements vkr.Driver. native must be an unsafe.Pointer
// to a VkSurfaceKHR, as created by SDL.
func (d *Driver) ImportSurface(native interface{}) (interface{}, error) {
	ptr, ok := native.(unsafe.Pointer)
	if !ok || ptr == nil {
		return nil, fmt.Errorf("vk.SurfaceFromPointer(): unexpected surface %T", native)
	}
	return vk.SurfaceFromPointer(uintptr(ptr)), nil
}

// DestroySurface implements vkr.Driver
func (d *Driver) DestroySurface(instance, surface interface{}) {
	vk.DestroySurface(instance.(vk.Instance), surface.(vk.Surface), nil)
}

// SurfaceSupport implements vkr.Driver
func (d *Driver) SurfaceSupport(physical interface{}, family uint32, surface interface{}) (bool, error) {
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(physical.(vk.PhysicalDevice), family, surface.(vk.Surface), &supported)); err != nil {
		return false, errors.New("vk.GetPhysicalDeviceSurfaceSupport(): " + err.Error())
	}
	return supported.B(), nil
}

// CreateDevice implements vkr.Driver
func (d *Driver) CreateDevice(physical interface{}, info vkr.DeviceInfo) (interface{}, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.QueueFamilies))
	for _, family := range info.QueueFamilies {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
	}

	var vkDevice vk.Device
	if err := vk.Error(vk.CreateDevice(physical.(vk.PhysicalDevice), &dci, nil, &vkDevice)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}
	return vkDevice, nil
}

// DestroyDevice implements vkr.Driver
func (d *Driver) DestroyDevice(dev interface{}) {
	logicalDevice := dev.(vk.Device)
	vk.DeviceWaitIdle(logicalDevice)
	vk.DestroyDevice(logicalDevice, nil)
}

// DeviceQueue implements vkr.Driver
func (d *Driver) DeviceQueue(dev interface{}, family uint32) interface{} {
	var deviceQueue vk.Queue
	vk.GetDeviceQueue(dev.(vk.Device), family, 0, &deviceQueue)
	return deviceQueue
}

// SurfaceCapabilities implements vkr.Driver
func (d *Driver) SurfaceCapabilities(physical, surface interface{}) (vkr.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(physical.(vk.PhysicalDevice), surface.(vk.Surface), &caps)); err != nil {
		return vkr.SurfaceCapabilities{}, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return vkr.SurfaceCapabilities{
		MinImageCount:    caps.MinImageCount,
		MaxImageCount:    caps.MaxImageCount,
		CurrentExtent:    vkr.Extent2D{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		MinImageExtent:   vkr.Extent2D{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		MaxImageExtent:   vkr.Extent2D{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
		CurrentTransform: uint32(caps.CurrentTransform),
	}, nil
}

// SurfaceFormats implements vkr.Driver
func (d *Driver) SurfaceFormats(physical, surface interface{}) ([]vkr.SurfaceFormat, error) {
	pd, srf := physical.(vk.PhysicalDevice), surface.(vk.Surface)

	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(pd, srf, &surfaceFormatCount, nil)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(pd, srf, &surfaceFormatCount, surfaceFormats)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}

	formats := make([]vkr.SurfaceFormat, len(surfaceFormats))
	for i := range surfaceFormats {
		surfaceFormats[i].Deref()
		formats[i] = vkr.SurfaceFormat{
			Format:     vkr.Format(surfaceFormats[i].Format),
			ColorSpace: vkr.ColorSpace(surfaceFormats[i].ColorSpace),
		}
	}
	return formats, nil
}

// SurfacePresentModes implements vkr.Driver
func (d *Driver) SurfacePresentModes(physical, surface interface{}) ([]vkr.PresentMode, error) {
	pd, srf := physical.(vk.PhysicalDevice), surface.(vk.Surface)

	var presentModeCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(pd, srf, &presentModeCount, nil)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfacePresentModes(): " + err.Error())
	}
	presentModes := make([]vk.PresentMode, presentModeCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(pd, srf, &presentModeCount, presentModes)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfacePresentModes(): " + err.Error())
	}

	modes := make([]vkr.PresentMode, len(presentModes))
	for i, m := range presentModes {
		modes[i] = vkr.PresentMode(m)
	}
	return modes, nil
}

// CreateSwapchain implements vkr.Driver
func (d *Driver) CreateSwapchain(dev interface{}, info vkr.SwapchainInfo) (interface{}, error) {
	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         info.Surface.(vk.Surface),
		MinImageCount:   info.ImageCount,
		ImageFormat:     vk.Format(info.Format),
		ImageColorSpace: vk.ColorSpace(info.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
		},
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     vk.SurfaceTransformFlagBits(info.Transform),
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentMode(info.PresentMode),
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     nil,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(dev.(vk.Device), &scci, nil, &swapchain)); err != nil {
		return nil, errors.New("vk.CreateSwapchain(): " + err.Error())
	}
	return swapchain, nil
}

// DestroySwapchain implements vkr.Driver
func (d *Driver) DestroySwapchain(dev, swapchain interface{}) {
	vk.DestroySwapchain(dev.(vk.Device), swapchain.(vk.Swapchain), nil)
}

// SwapchainImages implements vkr.Driver
func (d *Driver) SwapchainImages(dev, swapchain interface{}) ([]interface{}, error) {
	logicalDevice, sc := dev.(vk.Device), swapchain.(vk.Swapchain)

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(logicalDevice, sc, &numImages, nil)); err != nil {
		return nil, errors.New("vk.GetSwapchainImages(num): " + err.Error())
	}
	swapchainImages := make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(logicalDevice, sc, &numImages, swapchainImages)); err != nil {
		return nil, errors.New("vk.GetSwapchainImages(images): " + err.Error())
	}

	images := make([]interface{}, len(swapchainImages))
	for i, img := range swapchainImages {
		images[i] = img
	}
	return images, nil
}

// CreateImageView implements vkr.Driver
func (d *Driver) CreateImageView(dev interface{}, info vkr.ImageViewInfo) (interface{}, error) {
	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    info.Image.(vk.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var imageView vk.ImageView
	if err := vk.Error(vk.CreateImageView(dev.(vk.Device), &ivci, nil, &imageView)); err != nil {
		return nil, errors.New("vk.CreateImageView(): " + err.Error())
	}
	return imageView, nil
}

// DestroyImageView implements vkr.Driver
func (d *Driver) DestroyImageView(dev, view interface{}) {
	vk.DestroyImageView(dev.(vk.Device), view.(vk.ImageView), nil)
}
