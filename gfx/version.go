// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// Version is a major.minor.patch triple.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether the version is unknown.
func (v Version) IsZero() bool {
	return v == Version{}
}

// PackVersion encodes a version the way Vulkan and OpenXR pack it.
func PackVersion(major, minor, patch uint32) uint32 {
	return major<<22 | (minor&0x3ff)<<12 | patch&0xfff
}

// UnpackVersion decodes a packed Vulkan version number.
func UnpackVersion(packed uint32) Version {
	return Version{
		Major: packed >> 22,
		Minor: (packed >> 12) & 0x3ff,
		Patch: packed & 0xfff,
	}
}

// ParseVersion reads a version from the first numeric token of a version
// string such as "4.6.0 NVIDIA 535.54", "OpenGL ES 3.2 Mesa" or "14.2".
// Missing components are zero, and anything unreadable yields the zero Version.
func ParseVersion(s string) Version {
	var first string
	for _, f := range strings.Fields(s) {
		if f[0] >= '0' && f[0] <= '9' {
			first = f
			break
		}
	}
	if first == "" {
		return Version{}
	}
	// vendor suffixes like "3.0-mesa" or "4.6.0_r1"
	token := strings.FieldsFunc(first, func(r rune) bool {
		return r == '-' || r == '_' || r == '+'
	})
	if len(token) == 0 {
		return Version{}
	}
	v, err := semver.ParseTolerant(token[0])
	if err != nil {
		return Version{}
	}
	return Version{
		Major: uint32(v.Major),
		Minor: uint32(v.Minor),
		Patch: uint32(v.Patch),
	}
}
