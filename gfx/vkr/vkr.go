// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr brings up a Vulkan device, and when a window is
// present, a swapchain for it. The sequence is written against the
// Driver interface, the native implementation lives in vkr/vkdrv.
package vkr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/koru3d/koruxr/device"
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/xr"
	log "github.com/sirupsen/logrus"
)

// Name identifies the backend.
const Name = "Vulkan"

// Extension and layer names
const (
	SwapchainExtensionName   = "VK_KHR_swapchain"
	DebugReportExtensionName = "VK_EXT_debug_report"
	ValidationLayerName      = "VK_LAYER_KHRONOS_validation"
)

// DefaultAPIVersion is requested when the XR runtime states no minimum.
var DefaultAPIVersion = gfx.PackVersion(1, 0, 0)

// New creates a Vulkan backend that is not yet initialised.
func New(drv Driver, c gfx.Collaborators) *Backend {
	logger := c.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	runtime := c.Runtime
	if runtime == nil {
		runtime = xr.None{}
	}
	return &Backend{
		driver:  drv,
		window:  c.Window,
		runtime: runtime,
		debug:   c.Debug,
		log:     logger.WithField("backend", Name),
	}
}

// Backend is the Vulkan implementation of gfx.Backend.
type Backend struct {
	driver  Driver
	window  window.Window
	runtime xr.Runtime
	debug   bool
	log     log.FieldLogger

	degradations []*gfx.StageError

	apiVersion     uint32
	instance       interface{}
	physicalDevice *device.PhysicalDeviceInfo
	surface        interface{}
	queueFamilies  []device.QueueFamilyInfo
	queues         QueueSelection
	logicalDevice  interface{}

	graphicsQueue interface{}
	computeQueue  interface{}
	presentQueue  interface{}

	swapchain *SwapchainState
}

type xrRequirements struct {
	minAPIVersion      uint32
	instanceExtensions []string
	deviceExtensions   []string
}

// Name implements gfx.Backend
func (b *Backend) Name() string {
	return Name
}

// WindowFlags implements gfx.Backend
func (b *Backend) WindowFlags() window.Flags {
	return window.FlagVulkan
}

// Version implements gfx.Backend. It reports the API version of the
// selected physical device, or the loader version when no device is
// selected, and needs no Initialize for the latter.
func (b *Backend) Version() gfx.Version {
	if b.physicalDevice != nil && b.physicalDevice.APIVersion != 0 {
		return gfx.UnpackVersion(b.physicalDevice.APIVersion)
	}
	packed, err := b.driver.InstanceVersion()
	if err == nil && packed != 0 {
		return gfx.UnpackVersion(packed)
	}
	if err != nil {
		b.log.WithError(err).Debug("Failed to query Vulkan loader version")
	}
	if b.instance != nil {
		return gfx.UnpackVersion(b.apiVersion)
	}
	return gfx.Version{}
}

// Degradations returns the recoverable failures of the last Initialize.
func (b *Backend) Degradations() []*gfx.StageError {
	return b.degradations
}

// Instance returns the instance handle, or nil.
func (b *Backend) Instance() interface{} {
	return b.instance
}

// PhysicalDevice returns the selected physical device, or nil.
func (b *Backend) PhysicalDevice() *device.PhysicalDeviceInfo {
	return b.physicalDevice
}

// Device returns the logical device handle, or nil.
func (b *Backend) Device() interface{} {
	return b.logicalDevice
}

// Surface returns the presentation surface, or nil.
func (b *Backend) Surface() interface{} {
	return b.surface
}

// Queues returns the selected queue families.
func (b *Backend) Queues() QueueSelection {
	return b.queues
}

// GraphicsQueue returns the graphics queue handle, or nil.
func (b *Backend) GraphicsQueue() interface{} {
	return b.graphicsQueue
}

// ComputeQueue returns the compute queue handle, or nil.
func (b *Backend) ComputeQueue() interface{} {
	return b.computeQueue
}

// PresentQueue returns the present queue handle, or nil.
func (b *Backend) PresentQueue() interface{} {
	return b.presentQueue
}

// Swapchain returns the swapchain state, or nil when nothing is presented.
func (b *Backend) Swapchain() *SwapchainState {
	return b.swapchain
}

// Initialize implements gfx.Backend
func (b *Backend) Initialize() error {
	b.degradations = nil

	requirements := b.xrRequirements()
	windowExtensions := b.windowRequirements()

	/* Instance */
	extensions := mergeNames(windowExtensions, requirements.instanceExtensions)
	var layers []string
	if b.debug {
		extensions = mergeNames(extensions, []string{DebugReportExtensionName})
		layers = append(layers, ValidationLayerName)
	}
	b.log.WithField("extensions", extensions).Debug("Creating Vulkan instance")
	instance, err := b.driver.CreateInstance(InstanceInfo{
		ApplicationName: "Koru3D",
		EngineName:      "Koru3D",
		APIVersion:      requirements.minAPIVersion,
		Extensions:      extensions,
		Layers:          layers,
	})
	if err != nil {
		return b.fail(gfx.StageInstance, err)
	}
	b.instance = instance
	b.apiVersion = requirements.minAPIVersion

	/* Physical devices */
	devices, err := b.driver.PhysicalDevices(b.instance)
	if err != nil {
		return b.fail(gfx.StageEnumerateDevices, err)
	}
	if len(devices) == 0 {
		return b.fail(gfx.StageEnumerateDevices, gfx.ErrNoDevice)
	}
	for _, d := range devices {
		b.log.WithField("device", d.String()).Debug("Found physical device")
	}
	selected := b.selectPhysicalDevice(devices)
	b.physicalDevice = &selected
	b.log.WithField("device", selected.Name).Info("Selected physical device")

	/* Surface */
	b.createSurface()

	/* Queue families */
	b.queueFamilies = b.driver.QueueFamilies(b.physicalDevice.Handle)
	if len(b.queueFamilies) == 0 {
		return b.fail(gfx.StageQueueFamilies, gfx.ErrNoQueueFamily)
	}
	for _, f := range b.queueFamilies {
		b.log.WithFields(log.Fields{
			"family": f.Index,
			"flags":  f.Flags.String(),
			"count":  f.Count,
		}).Debug("Queue family")
	}

	var supportsPresent func(uint32) bool
	if b.surface != nil {
		supportsPresent = b.presentPredicate()
	}
	queues, err := SelectQueues(b.queueFamilies, supportsPresent)
	if err != nil {
		return b.fail(gfx.StageQueueSelection, err)
	}
	b.queues = queues
	if queues.PresentDegraded {
		b.degrade(gfx.StageQueueSelection, errors.New("no queue family can present, using the graphics family"))
	}
	b.log.WithFields(log.Fields{
		"graphics": queues.Graphics,
		"compute":  queues.Compute,
		"present":  queues.Present,
		"transfer": queues.Transfer,
	}).Debug("Selected queue families")

	/* Logical device */
	deviceExtensions := append([]string(nil), requirements.deviceExtensions...)
	if b.surface != nil {
		deviceExtensions = mergeNames(deviceExtensions, []string{SwapchainExtensionName})
	}
	logicalDevice, err := b.driver.CreateDevice(b.physicalDevice.Handle, DeviceInfo{
		QueueFamilies: queues.Families(),
		Extensions:    deviceExtensions,
	})
	if err != nil {
		return b.fail(gfx.StageDevice, err)
	}
	b.logicalDevice = logicalDevice

	/* Queues */
	if b.logicalDevice == nil {
		return b.fail(gfx.StageQueues, errors.New("logical device missing"))
	}
	b.graphicsQueue = b.driver.DeviceQueue(b.logicalDevice, queues.Graphics)
	b.computeQueue = b.driver.DeviceQueue(b.logicalDevice, queues.Compute)
	if queues.HasPresent {
		b.presentQueue = b.driver.DeviceQueue(b.logicalDevice, queues.Present)
	}

	/* Swapchain */
	if b.surface == nil {
		b.log.Info("No surface, skipping swapchain")
		return nil
	}
	if err := b.createSwapchain(); err != nil {
		return b.fail(gfx.StageSwapchain, err)
	}

	/* Image views */
	if err := b.createImageViews(); err != nil {
		return b.fail(gfx.StageImageViews, err)
	}

	b.log.WithFields(log.Fields{
		"format":  b.swapchain.Format.String(),
		"extent":  b.swapchain.Extent.String(),
		"images":  len(b.swapchain.Images),
		"present": b.swapchain.PresentMode.String(),
	}).Info("Swapchain ready")
	return nil
}

func (b *Backend) xrRequirements() xrRequirements {
	req := xrRequirements{minAPIVersion: DefaultAPIVersion}
	if !b.runtime.Valid() {
		return req
	}

	min, max, err := b.runtime.APIVersionBounds()
	if err != nil {
		b.degrade(gfx.StageXRRequirements, fmt.Errorf("xr.APIVersionBounds(): %w", err))
	} else {
		if min != 0 {
			req.minAPIVersion = min
		}
		b.log.WithFields(log.Fields{
			"min": gfx.UnpackVersion(min).String(),
			"max": gfx.UnpackVersion(max).String(),
		}).Debug("XR graphics API bounds")
	}

	exts, err := b.runtime.InstanceExtensions()
	if err != nil {
		b.degrade(gfx.StageXRRequirements, fmt.Errorf("xr.InstanceExtensions(): %w", err))
	} else {
		req.instanceExtensions = exts
	}

	exts, err = b.runtime.DeviceExtensions()
	if err != nil {
		b.degrade(gfx.StageXRRequirements, fmt.Errorf("xr.DeviceExtensions(): %w", err))
	} else {
		req.deviceExtensions = exts
	}

	b.log.WithFields(log.Fields{
		"instance": req.instanceExtensions,
		"device":   req.deviceExtensions,
	}).Debug("XR required extensions")
	return req
}

func (b *Backend) windowRequirements() []string {
	if b.window == nil || !b.window.Valid() {
		return nil
	}
	exts, err := b.window.RequiredInstanceExtensions()
	if err != nil {
		b.degrade(gfx.StageWindowRequirements, fmt.Errorf("window.RequiredInstanceExtensions(): %w", err))
		return nil
	}
	return exts
}

func (b *Backend) selectPhysicalDevice(devices []device.PhysicalDeviceInfo) device.PhysicalDeviceInfo {
	if !b.runtime.Valid() {
		return devices[0]
	}
	recommended, err := b.runtime.RecommendedPhysicalDevice(b.instance)
	if err != nil {
		b.log.WithError(err).Debug("XR runtime recommended no physical device")
		return devices[0]
	}
	for _, d := range devices {
		if sameHandle(d.Handle, recommended) {
			return d
		}
	}
	b.log.Warn("XR recommended physical device is not enumerated, using the first device")
	return devices[0]
}

func (b *Backend) createSurface() {
	if b.window == nil || !b.window.Valid() {
		return
	}
	native, err := b.window.CreatePresentationSurface(b.instance)
	if err != nil {
		b.degrade(gfx.StageSurface, fmt.Errorf("window.CreatePresentationSurface(): %w", err))
		return
	}
	surface, err := b.driver.ImportSurface(native)
	if err != nil {
		b.degrade(gfx.StageSurface, err)
		return
	}
	b.surface = surface
}

func (b *Backend) presentPredicate() func(uint32) bool {
	return func(family uint32) bool {
		ok, err := b.driver.SurfaceSupport(b.physicalDevice.Handle, family, b.surface)
		if err != nil {
			b.log.WithError(err).WithField("family", family).Warn("Surface support query failed")
			return false
		}
		if !ok {
			b.log.WithField("family", family).Debug("Queue family cannot present to the surface")
		}
		return ok
	}
}

func (b *Backend) createSwapchain() error {
	physical := b.physicalDevice.Handle

	caps, err := b.driver.SurfaceCapabilities(physical, b.surface)
	if err != nil {
		return err
	}
	formats, err := b.driver.SurfaceFormats(physical, b.surface)
	if err != nil {
		return err
	}
	modes, err := b.driver.SurfacePresentModes(physical, b.surface)
	if err != nil {
		return err
	}

	format, ok := ChooseSurfaceFormat(formats)
	if !ok {
		return errors.New("surface reports no formats")
	}
	if !containsMode(modes, PresentModeFifo) {
		b.log.WithField("modes", modes).Warn("Surface does not list FIFO present mode")
	}

	var width, height int
	if caps.CurrentExtent.Width == UndefinedExtent {
		if width, height, err = b.window.Resolution(); err != nil {
			return fmt.Errorf("window.Resolution(): %w", err)
		}
	}
	extent := ChooseExtent(caps, width, height)
	count := ChooseImageCount(caps)

	handle, err := b.driver.CreateSwapchain(b.logicalDevice, SwapchainInfo{
		Surface:     b.surface,
		ImageCount:  count,
		Format:      format.Format,
		ColorSpace:  format.ColorSpace,
		Extent:      extent,
		PresentMode: PresentModeFifo,
		Transform:   caps.CurrentTransform,
	})
	if err != nil {
		return err
	}
	b.swapchain = &SwapchainState{
		Handle:      handle,
		Format:      format.Format,
		ColorSpace:  format.ColorSpace,
		PresentMode: PresentModeFifo,
		Extent:      extent,
		ImageCount:  count,
	}
	return nil
}

func (b *Backend) createImageViews() error {
	images, err := b.driver.SwapchainImages(b.logicalDevice, b.swapchain.Handle)
	if err != nil {
		return err
	}
	b.swapchain.Images = images
	for idx, image := range images {
		view, err := b.driver.CreateImageView(b.logicalDevice, ImageViewInfo{
			Image:  image,
			Format: b.swapchain.Format,
		})
		if err != nil {
			return fmt.Errorf("image %d: %w", idx, err)
		}
		b.swapchain.ImageViews = append(b.swapchain.ImageViews, view)
	}
	return nil
}

// Cleanup implements gfx.Backend. Resources are released in reverse
// order of creation and forgotten, so a second call does nothing.
func (b *Backend) Cleanup() error {
	if b.swapchain != nil {
		for _, view := range b.swapchain.ImageViews {
			b.driver.DestroyImageView(b.logicalDevice, view)
		}
		b.swapchain.ImageViews = nil
		if b.swapchain.Handle != nil {
			b.driver.DestroySwapchain(b.logicalDevice, b.swapchain.Handle)
		}
		b.swapchain = nil
	}

	b.graphicsQueue, b.computeQueue, b.presentQueue = nil, nil, nil
	if b.logicalDevice != nil {
		b.driver.DestroyDevice(b.logicalDevice)
		b.logicalDevice = nil
	}

	if b.surface != nil {
		b.driver.DestroySurface(b.instance, b.surface)
		b.surface = nil
	}

	b.queueFamilies = nil
	b.queues = QueueSelection{}
	b.physicalDevice = nil

	if b.instance != nil {
		b.driver.DestroyInstance(b.instance)
		b.instance = nil
	}
	return nil
}

func (b *Backend) fail(stage gfx.Stage, err error) error {
	b.log.WithError(err).WithField("stage", stage.String()).Error("Vulkan bring-up failed")
	b.Cleanup()
	return gfx.NewFatal(Name, stage, err)
}

func (b *Backend) degrade(stage gfx.Stage, err error) {
	b.log.WithError(err).WithField("stage", stage.String()).Warn("Vulkan bring-up degraded")
	b.degradations = append(b.degradations, gfx.NewRecoverable(Name, stage, err))
}

// mergeNames appends extra to base, dropping names already present.
func mergeNames(base, extra []string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			name = strings.TrimRight(name, "\x00")
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			merged = append(merged, name)
		}
	}
	return merged
}

func containsMode(modes []PresentMode, mode PresentMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// sameHandle compares opaque handles without panicking on
// handle types that are not comparable.
func sameHandle(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
