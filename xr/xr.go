// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package xr defines what the graphics backends need from an
// extended reality runtime. The runtime itself, its sessions
// and frame loop live outside of this module.
package xr

import (
	"errors"
	"strings"
)

// ErrUnavailable is returned by queries against a runtime that is not valid.
var ErrUnavailable = errors.New("xr: runtime not available")

// ErrNoRecommendation means the runtime could not name a physical device.
var ErrNoRecommendation = errors.New("xr: no recommended physical device")

// Runtime is the XR runtime collaborator.
type Runtime interface {
	// Valid reports whether an instance and a system were obtained.
	Valid() bool

	// Instance returns the native XR instance handle.
	Instance() interface{}

	// SystemID returns the XR system identifier.
	SystemID() uint64

	// APIVersionBounds returns the packed minimum and maximum
	// graphics API versions the runtime supports.
	APIVersionBounds() (min, max uint32, err error)

	// InstanceExtensions lists graphics API instance extensions
	// required by the runtime.
	InstanceExtensions() ([]string, error)

	// DeviceExtensions lists graphics API device extensions
	// required by the runtime.
	DeviceExtensions() ([]string, error)

	// RecommendedPhysicalDevice asks the runtime which physical
	// device of the given graphics API instance it wants to use.
	RecommendedPhysicalDevice(instance interface{}) (interface{}, error)
}

// SplitExtensions splits the space separated extension list
// format that XR runtimes use to report required extensions.
func SplitExtensions(list string) []string {
	return strings.Fields(strings.TrimRight(list, "\x00"))
}

// None is a runtime that is never valid.
type None struct{}

// Valid implements interface
func (None) Valid() bool { return false }

// Instance implements interface
func (None) Instance() interface{} { return nil }

// SystemID implements interface
func (None) SystemID() uint64 { return 0 }

// APIVersionBounds implements interface
func (None) APIVersionBounds() (uint32, uint32, error) { return 0, 0, ErrUnavailable }

// InstanceExtensions implements interface
func (None) InstanceExtensions() ([]string, error) { return nil, ErrUnavailable }

// DeviceExtensions implements interface
func (None) DeviceExtensions() ([]string, error) { return nil, ErrUnavailable }

// RecommendedPhysicalDevice implements interface
func (None) RecommendedPhysicalDevice(interface{}) (interface{}, error) {
	return nil, ErrUnavailable
}
