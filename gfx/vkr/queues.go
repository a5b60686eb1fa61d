// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"fmt"

	"github.com/koru3d/koruxr/device"
	"github.com/koru3d/koruxr/gfx"
)

// QueueSelection holds the chosen queue family indices.
type QueueSelection struct {
	Graphics uint32
	Compute  uint32

	// Present is only meaningful when HasPresent is set.
	Present    uint32
	HasPresent bool

	// PresentDegraded is set when no family could present and
	// the graphics family is used for presentation instead.
	PresentDegraded bool

	// Transfer is selected but not requested from the device.
	Transfer    uint32
	HasTransfer bool
}

// Families returns the distinct families a logical device needs
// queues from, in graphics, compute, present order.
func (q QueueSelection) Families() []uint32 {
	families := []uint32{q.Graphics}
	add := func(f uint32) {
		for _, have := range families {
			if have == f {
				return
			}
		}
		families = append(families, f)
	}
	add(q.Compute)
	if q.HasPresent {
		add(q.Present)
	}
	return families
}

// SelectQueues picks queue families by ascending index. supportsPresent
// is nil when there is no surface. When it is set, graphics and present
// families must be able to present to it.
func SelectQueues(families []device.QueueFamilyInfo, supportsPresent func(family uint32) bool) (QueueSelection, error) {
	var sel QueueSelection
	if len(families) == 0 {
		return sel, gfx.ErrNoQueueFamily
	}

	graphics, ok := findGraphics(families, supportsPresent)
	if !ok {
		return sel, fmt.Errorf("graphics: %w", gfx.ErrNoQueueFamily)
	}
	sel.Graphics = graphics

	compute, ok := findDedicated(families, device.QueueCompute, device.QueueGraphics)
	if !ok {
		return sel, fmt.Errorf("compute: %w", gfx.ErrNoQueueFamily)
	}
	sel.Compute = compute

	if supportsPresent != nil {
		sel.HasPresent = true
		if present, ok := findGraphics(families, supportsPresent); ok {
			sel.Present = present
		} else {
			sel.Present = sel.Graphics
			sel.PresentDegraded = true
		}
	}

	sel.Transfer, sel.HasTransfer = findDedicated(families, device.QueueTransfer, device.QueueGraphics|device.QueueCompute)
	return sel, nil
}

func findGraphics(families []device.QueueFamilyInfo, supportsPresent func(uint32) bool) (uint32, bool) {
	for i, f := range families {
		if !f.Flags.Has(device.QueueGraphics) || f.Count == 0 {
			continue
		}
		if supportsPresent != nil && !supportsPresent(uint32(i)) {
			continue
		}
		return uint32(i), true
	}
	return 0, false
}

// findDedicated returns the first family with want and none of the
// excluded flags, or else the first family with want at all.
func findDedicated(families []device.QueueFamilyInfo, want, exclude device.QueueFlags) (uint32, bool) {
	for i, f := range families {
		if f.Flags.Has(want) && f.Flags&exclude == 0 {
			return uint32(i), true
		}
	}
	for i, f := range families {
		if f.Flags.Has(want) {
			return uint32(i), true
		}
	}
	return 0, false
}
