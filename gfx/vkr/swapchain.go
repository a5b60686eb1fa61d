// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

// UndefinedExtent marks a surface extent that is determined by the swapchain.
const UndefinedExtent = 0xFFFFFFFF

// PreferredSurfaceFormat is chosen whenever the surface supports it.
var PreferredSurfaceFormat = SurfaceFormat{
	Format:     FormatB8G8R8A8Srgb,
	ColorSpace: ColorSpaceSrgbNonlinear,
}

// SwapchainState describes a created swapchain.
// Images and ImageViews have the same length once views are built.
type SwapchainState struct {
	Handle      interface{}
	Format      Format
	ColorSpace  ColorSpace
	PresentMode PresentMode
	Extent      Extent2D
	ImageCount  uint32

	Images     []interface{}
	ImageViews []interface{}
}

// ChooseSurfaceFormat returns PreferredSurfaceFormat if it is listed,
// otherwise the first listed format. ok is false for an empty list.
func ChooseSurfaceFormat(formats []SurfaceFormat) (format SurfaceFormat, ok bool) {
	if len(formats) == 0 {
		return SurfaceFormat{}, false
	}
	for _, f := range formats {
		if f == PreferredSurfaceFormat {
			return f, true
		}
	}
	return formats[0], true
}

// ChooseExtent returns the current surface extent, or when that is
// undefined, the window size clamped to the surface limits.
func ChooseExtent(caps SurfaceCapabilities, width, height int) Extent2D {
	if caps.CurrentExtent.Width != UndefinedExtent {
		return caps.CurrentExtent
	}
	return Extent2D{
		Width:  clamp(toUint32(width), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(toUint32(height), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum,
// but never more than the maximum. A zero maximum means no limit.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func clamp(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func toUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
