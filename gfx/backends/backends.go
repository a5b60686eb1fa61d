// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package backends links the graphics backends selected by build tags
// into the gfx registry. Import it for its side effects.
//
// Vulkan and OpenGL are linked by default and can be left out with the
// novulkan and noopengl tags. Metal is linked on darwin with the metal tag.
package backends

import (
	"unsafe"

	"github.com/koru3d/koruxr/gfx"
)

// Declaration order of the backends
const (
	RankVulkan = iota
	RankOpenGL
	RankMetal
)

// VulkanProcAddr returns the vkGetInstanceProcAddr pointer the Vulkan
// backend loads the API with. It must be set before backends are created,
// a nil result selects the system loader.
var VulkanProcAddr func() unsafe.Pointer

// Names lists the compiled-in backends in declaration order.
func Names() []string {
	descs := gfx.Registered()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return names
}
