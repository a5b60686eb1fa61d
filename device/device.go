// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device holds the records describing rendering devices
// as reported by a graphics API, independent of any binding.
package device

import (
	"fmt"
	"strings"
)

// Type is the kind of a physical device.
// Values match the Vulkan VkPhysicalDeviceType enumeration.
type Type int

// Physical device types
const (
	TypeOther Type = iota
	TypeIntegratedGPU
	TypeDiscreteGPU
	TypeVirtualGPU
	TypeCPU
)

func (t Type) String() string {
	switch t {
	case TypeIntegratedGPU:
		return "integrated"
	case TypeDiscreteGPU:
		return "discrete"
	case TypeVirtualGPU:
		return "virtual"
	case TypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// PhysicalDeviceInfo describes available physical properties of a rendering device.
// It is enumerated fresh on every bring-up attempt and never cached.
type PhysicalDeviceInfo struct {
	// Handle is the opaque API handle of the device.
	Handle interface{} `json:"-"`

	ID            int    `json:"id"`
	VendorID      int    `json:"vendorId"`
	Name          string `json:"name"`
	Type          Type   `json:"type"`
	APIVersion    uint32 `json:"apiVersion"`
	DriverVersion uint32 `json:"driverVersion"`

	// Memory is the sum of all memory heap sizes in bytes.
	Memory     uint64   `json:"memory"`
	Extensions []string `json:"extensions,omitempty"`
	Layers     []string `json:"layers,omitempty"`

	// Invalid is set when some of the properties could not be queried.
	Invalid bool `json:"invalid,omitempty"`
}

func (p PhysicalDeviceInfo) String() string {
	return fmt.Sprintf("%s (%s, vendor 0x%x, device 0x%x)", p.Name, p.Type, p.VendorID, p.ID)
}

// QueueFlags is a bitmask of queue family capabilities.
// Bits match VkQueueFlagBits.
type QueueFlags uint32

// Queue capabilities
const (
	QueueGraphics      QueueFlags = 0x1
	QueueCompute       QueueFlags = 0x2
	QueueTransfer      QueueFlags = 0x4
	QueueSparseBinding QueueFlags = 0x8
	QueueProtected     QueueFlags = 0x10
)

// Has reports whether every bit of f is set.
func (q QueueFlags) Has(f QueueFlags) bool {
	return q&f == f
}

func (q QueueFlags) String() string {
	var names []string
	for _, b := range []struct {
		flag QueueFlags
		name string
	}{
		{QueueGraphics, "GRAPHICS"},
		{QueueCompute, "COMPUTE"},
		{QueueTransfer, "TRANSFER"},
		{QueueSparseBinding, "SPARSE_BINDING"},
		{QueueProtected, "PROTECTED"},
	} {
		if q.Has(b.flag) {
			names = append(names, b.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// MarshalText implements encoding.TextMarshaler
func (q QueueFlags) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// QueueFamilyInfo describes one queue family of a physical device.
type QueueFamilyInfo struct {
	Index uint32     `json:"index"`
	Flags QueueFlags `json:"flags"`
	Count uint32     `json:"count"`
}
